// Package sampling holds the pure logic of representative-frame selection:
// the expanding-offset retry sequence, timestamp clamping, attempt file
// naming and the solid-color rejection heuristic. None of it touches a
// decoder, so all of it is testable without media files.
package sampling

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// Defaults for frame sampling, matching the pipeline's cover-art use case.
const (
	DefaultMaxAttempts          = 7
	DefaultStepSeconds          = 0.5
	DefaultTolerance            = 5.0
	DefaultUniqueColorThreshold = 10
	DefaultImageFormat          = FormatPNG
)

// ImageFormat selects the encoding of persisted frames
type ImageFormat string

const (
	FormatPNG  ImageFormat = "png"
	FormatJPEG ImageFormat = "jpeg"
)

// Options configures a frame sampling run
type Options struct {
	// OutputPath overrides attempt-derived naming when non-empty. Every
	// attempt then writes to the same path.
	OutputPath string
	// OutputDir receives attempt-named images when OutputPath is empty
	OutputDir string
	// Format is the image encoding of persisted frames
	Format ImageFormat
	// MaxAttempts bounds the expanding-offset search
	MaxAttempts int
	// StepSeconds is the distance between successive retry offsets
	StepSeconds float64
	// Tolerance is the per-channel standard deviation at or below which a
	// frame counts as solid
	Tolerance float64
	// UniqueColorThreshold is the distinct-color count at or below which a
	// frame counts as solid
	UniqueColorThreshold int
}

// DefaultOptions returns Options with every knob at its default
func DefaultOptions() Options {
	return Options{
		Format:               DefaultImageFormat,
		MaxAttempts:          DefaultMaxAttempts,
		StepSeconds:          DefaultStepSeconds,
		Tolerance:            DefaultTolerance,
		UniqueColorThreshold: DefaultUniqueColorThreshold,
	}
}

// Normalize fills zero values with defaults
func (o Options) Normalize() Options {
	if o.Format == "" {
		o.Format = DefaultImageFormat
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = DefaultMaxAttempts
	}
	if o.StepSeconds <= 0 {
		o.StepSeconds = DefaultStepSeconds
	}
	if o.Tolerance <= 0 {
		o.Tolerance = DefaultTolerance
	}
	if o.UniqueColorThreshold <= 0 {
		o.UniqueColorThreshold = DefaultUniqueColorThreshold
	}
	return o
}

// Result describes a completed sampling run
type Result struct {
	ImagePath string
	// Attempts is the number of seek attempts performed
	Attempts int
	// UsedFallback is true when every attempt classified solid and the
	// first persisted frame was returned instead
	UsedFallback bool
	// TimestampSeconds is the seek target of the accepted attempt
	TimestampSeconds float64
}

// Sampler extracts a representative frame near a fraction of a media
// file's duration. Implemented by the container infrastructure adapter.
type Sampler interface {
	// SampleFrame fails with ErrInputNotFound, ErrNoVideoStream,
	// ErrDurationUnknown or ErrNoFrameDecoded (domain/media). A run where
	// every decoded frame was solid still succeeds, returning the first
	// attempt as fallback.
	SampleFrame(ctx context.Context, inputPath string, fraction float64, opts Options) (*Result, error)
}

// ValidateFraction checks that a target fraction lies in [0, 1]
func ValidateFraction(fraction float64) error {
	if fraction < 0 || fraction > 1 {
		return fmt.Errorf("target fraction must be between 0.0 and 1.0, got %v", fraction)
	}
	return nil
}

// AttemptFilename derives the image name for one sampling attempt:
// {stem}_{percent}pct_try{attempt}.{format}. Attempts are numbered from 1.
func AttemptFilename(inputPath string, fraction float64, attempt int, format ImageFormat) string {
	base := filepath.Base(inputPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return fmt.Sprintf("%s_%dpct_try%d.%s", stem, int(fraction*100), attempt, format)
}
