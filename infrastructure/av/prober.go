// Package av adapts the libav bindings to the media and sampling ports:
// container probing, stream remuxing and frame decoding live here so the
// rest of the codebase never touches a binding type.
package av

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/asticode/go-astiav"

	"covertrack/domain/media"
)

// Container-level durations are expressed in microsecond ticks.
const containerTimeBaseDen = 1_000_000

// Prober reads container and stream metadata through the demuxer.
type Prober struct{}

// NewProber creates a new container prober
func NewProber() *Prober {
	return &Prober{}
}

var _ media.Prober = (*Prober)(nil)

// Probe implements media.Prober
func (p *Prober) Probe(ctx context.Context, path string) (*media.ContainerInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	st, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", media.ErrInputNotFound, path)
		}
		return nil, fmt.Errorf("failed to stat input: %w", err)
	}

	input, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer input.close()

	info := &media.ContainerInfo{
		Path:           path,
		FileSize:       st.Size(),
		GlobalTimeBase: media.TimeBase{Num: 1, Den: containerTimeBaseDen},
	}
	if d := input.fc.Duration(); d != astiav.NoPtsValue && d > 0 {
		info.DurationTicks = d
		info.HasDuration = true
	}

	for _, s := range input.fc.Streams() {
		info.Streams = append(info.Streams, describeStream(s))
	}
	return info, nil
}

func describeStream(s *astiav.Stream) media.StreamInfo {
	cp := s.CodecParameters()

	si := media.StreamInfo{
		Index:     s.Index(),
		CodecName: cp.CodecID().Name(),
		TimeBase: media.TimeBase{
			Num: s.TimeBase().Num(),
			Den: s.TimeBase().Den(),
		},
	}
	si.Codec = media.ParseCodec(si.CodecName)

	switch cp.MediaType() {
	case astiav.MediaTypeAudio:
		si.Type = media.StreamAudio
		si.SampleRate = cp.SampleRate()
		si.Channels = cp.ChannelLayout().Channels()
	case astiav.MediaTypeVideo:
		si.Type = media.StreamVideo
		si.Width = cp.Width()
		si.Height = cp.Height()
	default:
		si.Type = media.StreamOther
	}

	if d := s.Duration(); d != astiav.NoPtsValue && d > 0 {
		si.DurationTicks = d
		si.HasDuration = true
	}
	return si
}

// demuxInput wraps an opened demuxer so every exit path releases it the
// same way.
type demuxInput struct {
	fc *astiav.FormatContext
}

func openInput(path string) (*demuxInput, error) {
	fc := astiav.AllocFormatContext()
	if fc == nil {
		return nil, errors.New("failed to allocate format context")
	}

	if err := fc.OpenInput(path, nil, nil); err != nil {
		fc.Free()
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	if err := fc.FindStreamInfo(nil); err != nil {
		fc.CloseInput()
		fc.Free()
		return nil, fmt.Errorf("failed to read stream info: %w", err)
	}
	return &demuxInput{fc: fc}, nil
}

func (in *demuxInput) close() {
	in.fc.CloseInput()
	in.fc.Free()
}

// firstStreamOfType returns the first stream of the wanted media type, in
// container order.
func (in *demuxInput) firstStreamOfType(t astiav.MediaType) *astiav.Stream {
	for _, s := range in.fc.Streams() {
		if s.CodecParameters().MediaType() == t {
			return s
		}
	}
	return nil
}
