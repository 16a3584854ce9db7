package artwork

import (
	"fmt"

	"covertrack/domain/artwork"
	"covertrack/domain/media"
)

// EmbedInput represents the input for a cover embedding operation
type EmbedInput struct {
	AudioPath   string
	ImagePath   string
	Description string
	Verify      bool
}

// EmbedResult contains the prepared cover's final shape
type EmbedResult struct {
	MIME   string
	Width  int
	Height int
	Bytes  int
}

// EmbedService prepares a cover image and writes it into an audio container
type EmbedService struct {
	preparer    artwork.Preparer
	embedder    artwork.Embedder
	fileChecker media.FileChecker
	prepareOpts artwork.PrepareOptions
}

// NewEmbedService creates a new EmbedService
func NewEmbedService(preparer artwork.Preparer, embedder artwork.Embedder, fileChecker media.FileChecker, prepareOpts artwork.PrepareOptions) *EmbedService {
	return &EmbedService{
		preparer:    preparer,
		embedder:    embedder,
		fileChecker: fileChecker,
		prepareOpts: prepareOpts.Normalize(),
	}
}

// Embed prepares the image and injects it into the audio container
func (s *EmbedService) Embed(input EmbedInput) (*EmbedResult, error) {
	if !s.fileChecker.Exists(input.AudioPath) {
		return nil, fmt.Errorf("%w: %s", media.ErrInputNotFound, input.AudioPath)
	}
	if !s.fileChecker.Exists(input.ImagePath) {
		return nil, fmt.Errorf("%w: %s", media.ErrInputNotFound, input.ImagePath)
	}

	img, err := s.preparer.Prepare(input.ImagePath, s.prepareOpts)
	if err != nil {
		return nil, err
	}

	opts := artwork.EmbedOptions{
		Description: input.Description,
		Verify:      input.Verify,
	}
	if err := s.embedder.Embed(input.AudioPath, img, opts); err != nil {
		return nil, err
	}

	return &EmbedResult{
		MIME:   img.MIME,
		Width:  img.Width,
		Height: img.Height,
		Bytes:  len(img.Data),
	}, nil
}
