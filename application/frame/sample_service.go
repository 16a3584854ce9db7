package frame

import (
	"context"
	"fmt"

	"covertrack/domain/media"
	"covertrack/domain/sampling"
)

// SampleService coordinates representative-frame extraction
type SampleService struct {
	sampler     sampling.Sampler
	fileChecker media.FileChecker
	outputDir   string
}

// NewSampleService creates a new SampleService
func NewSampleService(sampler sampling.Sampler, fileChecker media.FileChecker, outputDir string) *SampleService {
	if outputDir == "" {
		outputDir = "."
	}
	return &SampleService{
		sampler:     sampler,
		fileChecker: fileChecker,
		outputDir:   outputDir,
	}
}

// Sample extracts a representative frame near fraction of the source's
// duration. Options left at their zero value fall back to defaults; an
// empty output location falls back to the service's directory.
func (s *SampleService) Sample(ctx context.Context, sourcePath string, fraction float64, opts sampling.Options) (*sampling.Result, error) {
	if err := sampling.ValidateFraction(fraction); err != nil {
		return nil, err
	}
	if !s.fileChecker.Exists(sourcePath) {
		return nil, fmt.Errorf("%w: %s", media.ErrInputNotFound, sourcePath)
	}

	if opts.OutputPath == "" && opts.OutputDir == "" {
		opts.OutputDir = s.outputDir
	}
	return s.sampler.SampleFrame(ctx, sourcePath, fraction, opts)
}
