package media

// StreamType classifies an elementary stream within a container.
type StreamType int

const (
	// StreamOther covers subtitle, data and attachment streams
	StreamOther StreamType = iota

	// StreamAudio is an encoded audio channel
	StreamAudio

	// StreamVideo is an encoded video channel
	StreamVideo
)

// String returns a human-readable stream type name
func (t StreamType) String() string {
	switch t {
	case StreamAudio:
		return "audio"
	case StreamVideo:
		return "video"
	default:
		return "other"
	}
}

// TimeBase is the rational seconds-per-tick unit used to interpret a
// stream's timestamps. A time base of 1/48000 means one tick is 1/48000 s.
type TimeBase struct {
	Num int
	Den int
}

// Valid reports whether the time base can be used for conversions
func (tb TimeBase) Valid() bool {
	return tb.Num > 0 && tb.Den > 0
}

// Seconds converts a tick count in this time base to wall-clock seconds
func (tb TimeBase) Seconds(ticks int64) float64 {
	return float64(ticks) * float64(tb.Num) / float64(tb.Den)
}

// Ticks converts wall-clock seconds to a tick count in this time base
func (tb TimeBase) Ticks(seconds float64) int64 {
	return int64(seconds * float64(tb.Den) / float64(tb.Num))
}

// StreamInfo describes one elementary stream of a probed container
type StreamInfo struct {
	Index         int
	Type          StreamType
	Codec         Codec
	CodecName     string
	TimeBase      TimeBase
	DurationTicks int64
	HasDuration   bool
	SampleRate    int
	Channels      int
	Width         int
	Height        int
}

// ContainerInfo describes a probed container and its streams.
// GlobalTimeBase is the fixed unit of the container-level duration field.
type ContainerInfo struct {
	Path           string
	FileSize       int64
	DurationTicks  int64
	HasDuration    bool
	GlobalTimeBase TimeBase
	Streams        []StreamInfo
}

// FirstAudio returns the first stream of type audio, in container order
func (c *ContainerInfo) FirstAudio() (StreamInfo, bool) {
	return c.firstOfType(StreamAudio)
}

// FirstVideo returns the first stream of type video, in container order
func (c *ContainerInfo) FirstVideo() (StreamInfo, bool) {
	return c.firstOfType(StreamVideo)
}

func (c *ContainerInfo) firstOfType(t StreamType) (StreamInfo, bool) {
	for _, s := range c.Streams {
		if s.Type == t {
			return s, true
		}
	}
	return StreamInfo{}, false
}
