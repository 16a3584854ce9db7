// Package tagging writes cover art into finished audio containers: a covr
// atom for the MPEG-4 family, a base64 picture comment for the Ogg family.
package tagging

import (
	"fmt"
	"path/filepath"

	"covertrack/domain/artwork"
)

// Embedder dispatches cover embedding on the audio container's family.
type Embedder struct{}

// NewEmbedder creates a new cover embedder
func NewEmbedder() *Embedder {
	return &Embedder{}
}

var _ artwork.Embedder = (*Embedder)(nil)

// Embed implements artwork.Embedder. The extension picks the embedding
// family; files with unknown extensions get one content-detection pass
// before the operation fails.
func (e *Embedder) Embed(audioPath string, img *artwork.Image, opts artwork.EmbedOptions) error {
	opts = opts.Normalize()

	family := artwork.FamilyForPath(audioPath)
	if family == artwork.FamilyUnknown {
		family = detectFamily(audioPath)
	}

	var err error
	switch family {
	case artwork.FamilyMP4:
		err = embedMP4Cover(audioPath, img)
	case artwork.FamilyOggComment:
		err = embedOggCover(audioPath, img, opts)
	default:
		return fmt.Errorf("%w: %q", artwork.ErrUnsupportedContainer, filepath.Ext(audioPath))
	}
	if err != nil {
		return err
	}

	if opts.Verify {
		return verifyCover(audioPath, img)
	}
	return nil
}
