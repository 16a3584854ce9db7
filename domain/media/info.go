package media

import "fmt"

// AudioSummary is the human-facing digest of a container's first audio
// stream, as printed by the probe command.
type AudioSummary struct {
	Codec           Codec
	CodecName       string
	DurationSeconds float64
	FileSize        int64
	// BitrateBPS is derived from file size over duration when the stream
	// itself carries no bitrate, which is the common case after remuxing.
	BitrateBPS     int
	SampleRate     int
	BaseSampleRate int
	Channels       int
}

// Summarize builds an AudioSummary for the first audio stream of a probed
// container. The duration resolution rules are those of ResolveDuration.
func Summarize(info *ContainerInfo) (*AudioSummary, error) {
	audio, ok := info.FirstAudio()
	if !ok {
		return nil, ErrNoAudioStream
	}

	duration, err := ResolveDuration(info, &audio)
	if err != nil {
		return nil, err
	}

	bitrate := 0
	if duration > 0 && info.FileSize > 0 {
		bitrate = int(float64(info.FileSize*8) / duration)
	}

	return &AudioSummary{
		Codec:           audio.Codec,
		CodecName:       audio.CodecName,
		DurationSeconds: duration,
		FileSize:        info.FileSize,
		BitrateBPS:      bitrate,
		SampleRate:      audio.SampleRate,
		BaseSampleRate:  BaseSampleRate(audio.SampleRate),
		Channels:        audio.Channels,
	}, nil
}

// BaseSampleRate reduces a sample rate to its 44100/48000 family base.
// Rates below 44100 are returned unchanged.
func BaseSampleRate(rate int) int {
	if rate < 44100 {
		return rate
	}
	if rate%44100 == 0 {
		return 44100
	}
	return 48000
}

// Kbps formats the derived bitrate, or "n/a" when it could not be computed
func (s *AudioSummary) Kbps() string {
	if s.BitrateBPS == 0 {
		return "n/a"
	}
	return fmt.Sprintf("%dkbps", (s.BitrateBPS+500)/1000)
}
