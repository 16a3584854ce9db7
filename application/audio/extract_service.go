package audio

import (
	"context"
	"fmt"

	"covertrack/domain/media"
)

// ExtractResult contains the result of an audio extraction operation
type ExtractResult struct {
	AudioPath      string
	Codec          media.Codec
	FileSize       int64
	PacketsWritten int
	PacketsDropped int
}

// ExtractService coordinates audio extraction operations
type ExtractService struct {
	remuxer     media.Remuxer
	fileChecker media.FileChecker
	outputDir   string
}

// NewExtractService creates a new ExtractService
func NewExtractService(remuxer media.Remuxer, fileChecker media.FileChecker, outputDir string) *ExtractService {
	if outputDir == "" {
		outputDir = "."
	}
	return &ExtractService{
		remuxer:     remuxer,
		fileChecker: fileChecker,
		outputDir:   outputDir,
	}
}

// Extract copies the source's first audio stream into an audio-only
// container next to the configured output directory
func (s *ExtractService) Extract(ctx context.Context, sourcePath string) (*ExtractResult, error) {
	if !s.fileChecker.Exists(sourcePath) {
		return nil, fmt.Errorf("%w: %s", media.ErrInputNotFound, sourcePath)
	}

	res, err := s.remuxer.RemuxFirstAudio(ctx, sourcePath, s.outputDir)
	if err != nil {
		return nil, err
	}

	return &ExtractResult{
		AudioPath:      res.OutputPath,
		Codec:          res.Codec,
		FileSize:       s.fileChecker.Size(res.OutputPath),
		PacketsWritten: res.PacketsWritten,
		PacketsDropped: res.PacketsDropped,
	}, nil
}
