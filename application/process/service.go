// Package process orchestrates the full video-to-tagged-audio pipeline:
// probe, audio extraction, frame sampling, cover preparation and embedding.
package process

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	domartwork "covertrack/domain/artwork"
	"covertrack/domain/media"
	"covertrack/domain/sampling"
)

// Service orchestrates the complete processing workflow
type Service struct {
	prober      media.Prober
	remuxer     media.Remuxer
	sampler     sampling.Sampler
	preparer    domartwork.Preparer
	embedder    domartwork.Embedder
	fileChecker media.FileChecker
	output      io.Writer
}

// NewService creates a new process service
func NewService(
	prober media.Prober,
	remuxer media.Remuxer,
	sampler sampling.Sampler,
	preparer domartwork.Preparer,
	embedder domartwork.Embedder,
	fileChecker media.FileChecker,
	output io.Writer,
) *Service {
	return &Service{
		prober:      prober,
		remuxer:     remuxer,
		sampler:     sampler,
		preparer:    preparer,
		embedder:    embedder,
		fileChecker: fileChecker,
		output:      output,
	}
}

// Input contains all input parameters for the process command
type Input struct {
	InputPath   string           // Source video path
	OutputDir   string           // Directory for the audio file and frame images
	Fraction    float64          // Playback fraction the sampled frame targets
	Sampling    sampling.Options // Frame sampling knobs; zero values use defaults
	Artwork     domartwork.PrepareOptions
	Description string // Cover description for comment-based containers
	Verify      bool   // Re-read the cover after embedding
	SkipArtwork bool   // Extract audio only
}

// Result contains the results of a successful process run
type Result struct {
	AudioPath       string
	AudioCodec      media.Codec
	DurationSeconds float64
	FramePath       string
	CoverEmbedded   bool
	// ArtworkSkipReason is set when the run succeeded without a cover:
	// no video stream, or an audio container without artwork support.
	ArtworkSkipReason string
}

// Process runs the complete end-to-end workflow. A source without video,
// or audio landing in a container that cannot hold artwork, still succeeds
// with the artwork stage skipped; every other stage failure aborts.
func (s *Service) Process(ctx context.Context, input Input) (*Result, error) {
	if !s.fileChecker.Exists(input.InputPath) {
		return nil, fmt.Errorf("%w: %s", media.ErrInputNotFound, input.InputPath)
	}

	info, err := s.prober.Probe(ctx, input.InputPath)
	if err != nil {
		return nil, err
	}
	audio, ok := info.FirstAudio()
	if !ok {
		return nil, fmt.Errorf("%w: %s", media.ErrNoAudioStream, input.InputPath)
	}
	_, hasVideo := info.FirstVideo()

	duration, _ := media.ResolveDuration(info, &audio)

	fmt.Fprintf(s.output, "Extracting %s audio from %s\n", audio.Codec, filepath.Base(input.InputPath))
	remuxed, err := s.remuxer.RemuxFirstAudio(ctx, input.InputPath, input.OutputDir)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(s.output, "Audio written to %s (%d packets", remuxed.OutputPath, remuxed.PacketsWritten)
	if remuxed.PacketsDropped > 0 {
		fmt.Fprintf(s.output, ", %d dropped", remuxed.PacketsDropped)
	}
	fmt.Fprintln(s.output, ")")

	result := &Result{
		AudioPath:       remuxed.OutputPath,
		AudioCodec:      remuxed.Codec,
		DurationSeconds: duration,
	}

	if input.SkipArtwork {
		result.ArtworkSkipReason = "artwork disabled"
		return result, nil
	}
	if !hasVideo {
		result.ArtworkSkipReason = "source has no video stream"
		fmt.Fprintf(s.output, "Skipping cover: %s\n", result.ArtworkSkipReason)
		return result, nil
	}
	if domartwork.FamilyForPath(remuxed.OutputPath) == domartwork.FamilyUnknown {
		result.ArtworkSkipReason = fmt.Sprintf("%s containers cannot hold cover art", filepath.Ext(remuxed.OutputPath))
		fmt.Fprintf(s.output, "Skipping cover: %s\n", result.ArtworkSkipReason)
		return result, nil
	}

	samplingOpts := input.Sampling
	if samplingOpts.OutputPath == "" && samplingOpts.OutputDir == "" {
		samplingOpts.OutputDir = input.OutputDir
	}
	frame, err := s.sampler.SampleFrame(ctx, input.InputPath, input.Fraction, samplingOpts)
	if err != nil {
		return nil, err
	}
	result.FramePath = frame.ImagePath
	if frame.UsedFallback {
		fmt.Fprintf(s.output, "All %d frames looked solid, keeping the first\n", frame.Attempts)
	}
	fmt.Fprintf(s.output, "Cover frame: %s (%.1fs)\n", frame.ImagePath, frame.TimestampSeconds)

	img, err := s.preparer.Prepare(frame.ImagePath, input.Artwork)
	if err != nil {
		return nil, err
	}
	embedOpts := domartwork.EmbedOptions{
		Description: input.Description,
		Verify:      input.Verify,
	}
	if err := s.embedder.Embed(remuxed.OutputPath, img, embedOpts); err != nil {
		return nil, err
	}
	result.CoverEmbedded = true
	fmt.Fprintf(s.output, "Cover embedded (%dx%d %s)\n", img.Width, img.Height, img.MIME)

	return result, nil
}
