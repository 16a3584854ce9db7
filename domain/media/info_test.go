package media

import (
	"errors"
	"testing"
)

func TestSummarize(t *testing.T) {
	t.Run("derives bitrate from file size and duration", func(t *testing.T) {
		info := &ContainerInfo{
			FileSize:       1_200_000, // bytes
			DurationTicks:  60_000_000,
			HasDuration:    true,
			GlobalTimeBase: TimeBase{Num: 1, Den: 1_000_000},
			Streams: []StreamInfo{
				{Type: StreamAudio, Codec: CodecOpus, CodecName: "opus", SampleRate: 48_000, Channels: 2},
			},
		}

		sum, err := Summarize(info)
		if err != nil {
			t.Fatalf("Summarize() error = %v", err)
		}
		if sum.BitrateBPS != 160_000 {
			t.Errorf("BitrateBPS = %d, want 160000", sum.BitrateBPS)
		}
		if sum.Kbps() != "160kbps" {
			t.Errorf("Kbps() = %q, want 160kbps", sum.Kbps())
		}
		if sum.BaseSampleRate != 48_000 {
			t.Errorf("BaseSampleRate = %d, want 48000", sum.BaseSampleRate)
		}
	})

	t.Run("fails without an audio stream", func(t *testing.T) {
		info := &ContainerInfo{Streams: []StreamInfo{{Type: StreamVideo}}}
		if _, err := Summarize(info); !errors.Is(err, ErrNoAudioStream) {
			t.Errorf("Summarize() error = %v, want ErrNoAudioStream", err)
		}
	})
}

func TestBaseSampleRate(t *testing.T) {
	tests := []struct {
		rate int
		want int
	}{
		{44_100, 44_100},
		{88_200, 44_100},
		{176_400, 44_100},
		{48_000, 48_000},
		{96_000, 48_000},
		{192_000, 48_000},
		{22_050, 22_050},
		{8_000, 8_000},
		{44_056, 44_056}, // below 44.1k: unchanged
		{88_000, 48_000}, // neither family: default to 48k
	}

	for _, tt := range tests {
		if got := BaseSampleRate(tt.rate); got != tt.want {
			t.Errorf("BaseSampleRate(%d) = %d, want %d", tt.rate, got, tt.want)
		}
	}
}
