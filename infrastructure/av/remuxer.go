package av

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/asticode/go-astiav"

	"covertrack/domain/media"
)

// Remuxer copies audio packets between containers without touching the
// encoded samples.
type Remuxer struct{}

// NewRemuxer creates a new stream remuxer
func NewRemuxer() *Remuxer {
	return &Remuxer{}
}

var _ media.Remuxer = (*Remuxer)(nil)

// RemuxFirstAudio implements media.Remuxer. The output container is chosen
// by the source codec; codecs without a dedicated audio container land in
// a Matroska file.
func (r *Remuxer) RemuxFirstAudio(ctx context.Context, inputPath, outputDir string) (*media.RemuxResult, error) {
	if err := ctx.Err(); err != nil {
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

	inStream := input.firstStreamOfType(astiav.MediaTypeAudio)
	if inStream == nil {
		return nil, fmt.Errorf("%w: %s", media.ErrNoAudioStream, inputPath)
	}

	codec := media.ParseCodec(inStream.CodecParameters().CodecID().Name())
	base := filepath.Base(inputPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	outputPath := filepath.Join(outputDir, stem+"."+codec.Extension())

	output, err := astiav.AllocOutputFormatContext(nil, "", outputPath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to allocate output for %s: %v", media.ErrWriteFailed, outputPath, err)
	}
	defer output.Free()

	outStream := output.NewStream(nil)
	if outStream == nil {
		return nil, fmt.Errorf("%w: failed to create output stream", media.ErrWriteFailed)
	}
	// Best-effort parameter copy: whatever the source declared is carried
	// over, unset fields stay unset.
	if err := inStream.CodecParameters().Copy(outStream.CodecParameters()); err != nil {
		return nil, fmt.Errorf("%w: failed to copy codec parameters: %v", media.ErrWriteFailed, err)
	}
	outStream.CodecParameters().SetCodecTag(0)
	// Best-effort: the muxer may still pick its own time base at header
	// write time.
	outStream.SetTimeBase(inStream.TimeBase())

	if !output.OutputFormat().Flags().Has(astiav.IOFormatFlagNofile) {
		ioCtx, err := astiav.OpenIOContext(outputPath, astiav.NewIOContextFlags(astiav.IOContextFlagWrite))
		if err != nil {
			return nil, fmt.Errorf("%w: failed to open %s: %v", media.ErrWriteFailed, outputPath, err)
		}
		defer ioCtx.Close()
		output.SetPb(ioCtx)
	}

	if err := output.WriteHeader(nil); err != nil {
		return nil, fmt.Errorf("%w: failed to write header: %v", media.ErrWriteFailed, err)
	}

	pkt := astiav.AllocPacket()
	defer pkt.Free()

	result := &media.RemuxResult{OutputPath: outputPath, Codec: codec}
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := input.fc.ReadFrame(pkt); err != nil {
			if errors.Is(err, astiav.ErrEof) {
				break
			}
			return nil, fmt.Errorf("failed to read packet: %w", err)
		}
		if pkt.StreamIndex() != inStream.Index() {
			pkt.Unref()
			continue
		}
		// Packets without a decode timestamp cannot be placed on the
		// output timeline; skip them rather than fail the whole copy.
		if pkt.Dts() == astiav.NoPtsValue {
			result.PacketsDropped++
			pkt.Unref()
			continue
		}

		pkt.SetStreamIndex(outStream.Index())
		pkt.RescaleTs(inStream.TimeBase(), outStream.TimeBase())
		pkt.SetPos(-1)

		if err := output.WriteInterleavedFrame(pkt); err != nil {
			return nil, fmt.Errorf("%w: failed to write packet: %v", media.ErrWriteFailed, err)
		}
		result.PacketsWritten++
	}

	if err := output.WriteTrailer(); err != nil {
		return nil, fmt.Errorf("%w: failed to write trailer: %v", media.ErrWriteFailed, err)
	}
	return result, nil
}
