package media

// ResolveDuration derives the playback duration of a probed container in
// seconds. The container-level duration field is preferred, converted via
// the container's global time base; if absent, the stream's own duration
// ticks scaled by its time base are used. No other heuristic is attempted:
// when both are missing the caller gets ErrDurationUnknown and must surface
// it, since a seek target is undefined without a duration.
//
// stream may be nil when no particular stream restricts the lookup.
func ResolveDuration(info *ContainerInfo, stream *StreamInfo) (float64, error) {
	if info.HasDuration && info.GlobalTimeBase.Valid() {
		return info.GlobalTimeBase.Seconds(info.DurationTicks), nil
	}
	if stream != nil && stream.HasDuration && stream.TimeBase.Valid() {
		return stream.TimeBase.Seconds(stream.DurationTicks), nil
	}
	return 0, ErrDurationUnknown
}
