package av

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/asticode/go-astiav"

	"covertrack/domain/media"
	"covertrack/domain/sampling"
)

// Sampler decodes single frames near a target timestamp, retrying with
// expanding offsets when a decoded frame is rejected as solid-colored.
type Sampler struct {
	logw io.Writer
}

// SamplerOption configures a Sampler
type SamplerOption func(*Sampler)

// WithLogWriter directs per-attempt diagnostics (failed seeks, rejected
// frames) to w
func WithLogWriter(w io.Writer) SamplerOption {
	return func(s *Sampler) {
		s.logw = w
	}
}

// NewSampler creates a new frame sampler
func NewSampler(opts ...SamplerOption) *Sampler {
	s := &Sampler{logw: io.Discard}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ sampling.Sampler = (*Sampler)(nil)

// SampleFrame implements sampling.Sampler
func (s *Sampler) SampleFrame(ctx context.Context, inputPath string, fraction float64, opts sampling.Options) (*sampling.Result, error) {
	opts = opts.Normalize()
	if err := sampling.ValidateFraction(fraction); err != nil {
		return nil, err
	}
	if _, err := os.Stat(inputPath); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", media.ErrInputNotFound, inputPath)
		}
		return nil, fmt.Errorf("failed to stat input: %w", err)
	}

	input, err := openInput(inputPath)
	if err != nil {
		return nil, err
	}
	defer input.close()

	vs := input.firstStreamOfType(astiav.MediaTypeVideo)
	if vs == nil {
		return nil, fmt.Errorf("%w: %s", media.ErrNoVideoStream, inputPath)
	}

	duration, err := resolveInputDuration(input, vs)
	if err != nil {
		return nil, err
	}
	target := duration * fraction

	dec, err := newFrameDecoder(vs)
	if err != nil {
		return nil, err
	}
	defer dec.close()

	src := &avFrameSource{input: input, vs: vs, dec: dec}
	return s.sampleAttempts(ctx, src, inputPath, target, duration, fraction, opts)
}

// frameSource abstracts the demuxer and decoder pair behind the attempt
// loop.
type frameSource interface {
	Seek(seconds float64) error
	Decode(ctx context.Context) (image.Image, error)
}

type avFrameSource struct {
	input *demuxInput
	vs    *astiav.Stream
	dec   *frameDecoder
}

var _ frameSource = (*avFrameSource)(nil)

func (a *avFrameSource) Seek(seconds float64) error {
	ticks := media.TimeBase{Num: a.vs.TimeBase().Num(), Den: a.vs.TimeBase().Den()}.Ticks(seconds)
	err := a.input.fc.SeekFrame(a.vs.Index(), ticks, astiav.NewSeekFlags(astiav.SeekFlagBackward))
	a.dec.cc.FlushBuffers()
	return err
}

func (a *avFrameSource) Decode(ctx context.Context) (image.Image, error) {
	return a.dec.nextFrame(ctx, a.input, a.vs.Index())
}

func (s *Sampler) sampleAttempts(ctx context.Context, src frameSource, inputPath string, target, duration, fraction float64, opts sampling.Options) (*sampling.Result, error) {
	var fallback *sampling.Result
	decoded := 0
	for attempt := 0; attempt < opts.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		ts := sampling.ClampTimestamp(target+sampling.OffsetAt(attempt, opts.StepSeconds), duration)

		// A failed seek still decodes from the current position.
		if err := src.Seek(ts); err != nil {
			fmt.Fprintf(s.logw, "seek to %.3fs failed: %v\n", ts, err)
		}

		img, err := src.Decode(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			fmt.Fprintf(s.logw, "decode at %.3fs failed: %v\n", ts, err)
			continue
		}
		decoded++

		path := opts.OutputPath
		if path == "" {
			path = filepath.Join(opts.OutputDir, sampling.AttemptFilename(inputPath, fraction, attempt+1, opts.Format))
		}
		if err := writeImage(path, img, opts.Format); err != nil {
			return nil, err
		}

		if !sampling.IsSolidColor(img, opts.Tolerance, opts.UniqueColorThreshold) {
			return &sampling.Result{
				ImagePath:        path,
				Attempts:         attempt + 1,
				TimestampSeconds: ts,
			}, nil
		}

		fmt.Fprintf(s.logw, "frame at %.3fs looks solid, retrying\n", ts)
		// The first decoded frame stands in when every attempt is solid;
		// later rejects are deleted.
		if fallback == nil {
			fallback = &sampling.Result{
				ImagePath:        path,
				UsedFallback:     true,
				TimestampSeconds: ts,
			}
		} else if path != fallback.ImagePath {
			os.Remove(path)
		}
	}

	if decoded == 0 {
		return nil, fmt.Errorf("%w: %s", media.ErrNoFrameDecoded, inputPath)
	}
	fallback.Attempts = opts.MaxAttempts
	return fallback, nil
}

func resolveInputDuration(input *demuxInput, vs *astiav.Stream) (float64, error) {
	info := &media.ContainerInfo{
		GlobalTimeBase: media.TimeBase{Num: 1, Den: containerTimeBaseDen},
	}
	if d := input.fc.Duration(); d != astiav.NoPtsValue && d > 0 {
		info.DurationTicks = d
		info.HasDuration = true
	}
	si := describeStream(vs)
	return media.ResolveDuration(info, &si)
}

// frameDecoder owns the codec context and scratch frames of one sampling
// run.
type frameDecoder struct {
	cc  *astiav.CodecContext
	pkt *astiav.Packet
	frm *astiav.Frame
}

func newFrameDecoder(vs *astiav.Stream) (*frameDecoder, error) {
	codec := astiav.FindDecoder(vs.CodecParameters().CodecID())
	if codec == nil {
		return nil, fmt.Errorf("no decoder for codec %s", vs.CodecParameters().CodecID().Name())
	}

	cc := astiav.AllocCodecContext(codec)
	if cc == nil {
		return nil, errors.New("failed to allocate codec context")
	}
	if err := vs.CodecParameters().ToCodecContext(cc); err != nil {
		cc.Free()
		return nil, fmt.Errorf("failed to configure decoder: %w", err)
	}
	if err := cc.Open(codec, nil); err != nil {
		cc.Free()
		return nil, fmt.Errorf("failed to open decoder: %w", err)
	}

	return &frameDecoder{
		cc:  cc,
		pkt: astiav.AllocPacket(),
		frm: astiav.AllocFrame(),
	}, nil
}

func (d *frameDecoder) close() {
	d.frm.Free()
	d.pkt.Free()
	d.cc.Free()
}

// nextFrame decodes the first complete frame of the given stream from the
// demuxer's current position.
func (d *frameDecoder) nextFrame(ctx context.Context, input *demuxInput, streamIndex int) (image.Image, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if err := input.fc.ReadFrame(d.pkt); err != nil {
			if !errors.Is(err, astiav.ErrEof) {
				return nil, fmt.Errorf("failed to read packet: %w", err)
			}
			// Drain the decoder before giving up on this position.
			if err := d.cc.SendPacket(nil); err != nil && !errors.Is(err, astiav.ErrEof) {
				return nil, fmt.Errorf("failed to flush decoder: %w", err)
			}
			if err := d.cc.ReceiveFrame(d.frm); err != nil {
				return nil, fmt.Errorf("stream ended before a frame decoded: %w", err)
			}
			return d.convert()
		}

		if d.pkt.StreamIndex() != streamIndex {
			d.pkt.Unref()
			continue
		}

		err := d.cc.SendPacket(d.pkt)
		d.pkt.Unref()
		if err != nil {
			return nil, fmt.Errorf("decoder rejected packet: %w", err)
		}

		err = d.cc.ReceiveFrame(d.frm)
		if errors.Is(err, astiav.ErrEagain) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode frame: %w", err)
		}
		return d.convert()
	}
}

// convert turns the decoded frame into a stdlib image via an RGBA scale
// pass, so the solid-color heuristic and the encoders can consume it.
func (d *frameDecoder) convert() (image.Image, error) {
	defer d.frm.Unref()

	ssc, err := astiav.CreateSoftwareScaleContext(
		d.frm.Width(), d.frm.Height(), d.frm.PixelFormat(),
		d.frm.Width(), d.frm.Height(), astiav.PixelFormatRgba,
		astiav.NewSoftwareScaleContextFlags(astiav.SoftwareScaleContextFlagBilinear),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create scale context: %w", err)
	}
	defer ssc.Free()

	dst := astiav.AllocFrame()
	defer dst.Free()
	if err := ssc.ScaleFrame(d.frm, dst); err != nil {
		return nil, fmt.Errorf("failed to convert frame: %w", err)
	}

	img, err := dst.Data().GuessImageFormat()
	if err != nil {
		return nil, fmt.Errorf("failed to map frame pixels: %w", err)
	}
	if err := dst.Data().ToImage(img); err != nil {
		return nil, fmt.Errorf("failed to copy frame pixels: %w", err)
	}
	return img, nil
}

func writeImage(path string, img image.Image, format sampling.ImageFormat) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %v", media.ErrWriteFailed, err)
	}

	switch format {
	case sampling.FormatJPEG:
		err = jpeg.Encode(f, img, nil)
	default:
		err = png.Encode(f, img)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return fmt.Errorf("%w: %v", media.ErrWriteFailed, err)
	}
	return nil
}
