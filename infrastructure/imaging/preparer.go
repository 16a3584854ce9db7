// Package imaging loads and prepares cover images for embedding.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"

	"github.com/nfnt/resize"

	"covertrack/domain/artwork"
)

// Preparer loads an image from disk, downscales it when it exceeds the
// configured maximum side, and re-encodes it for embedding.
type Preparer struct{}

// NewPreparer creates a new image preparer
func NewPreparer() *Preparer {
	return &Preparer{}
}

var _ artwork.Preparer = (*Preparer)(nil)

// Prepare implements artwork.Preparer
func (p *Preparer) Prepare(path string, opts artwork.PrepareOptions) (*artwork.Image, error) {
	opts = opts.Normalize()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", artwork.ErrUnsupportedImage, err)
	}

	kind := artwork.ParseImageKind(format)
	if kind == artwork.KindUnknown {
		return nil, fmt.Errorf("%w: %s", artwork.ErrUnsupportedImage, format)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	resized := false
	if opts.MaxSide > 0 && longest(width, height) > opts.MaxSide {
		img = scaleToMaxSide(img, opts.MaxSide)
		bounds = img.Bounds()
		width, height = bounds.Dx(), bounds.Dy()
		resized = true
	}

	// An untouched image keeps its original bytes so JPEG data is not
	// re-compressed on every embed.
	if resized {
		data, err = encode(img, kind, opts.JPEGQuality)
		if err != nil {
			return nil, err
		}
	}

	return &artwork.Image{
		Data:   data,
		Kind:   kind,
		MIME:   kind.MIME(),
		Width:  width,
		Height: height,
	}, nil
}

func longest(width, height int) int {
	if width > height {
		return width
	}
	return height
}

func scaleToMaxSide(img image.Image, maxSide int) image.Image {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	if width >= height {
		return resize.Resize(uint(maxSide), 0, img, resize.Lanczos3)
	}
	return resize.Resize(0, uint(maxSide), img, resize.Lanczos3)
}

func encode(img image.Image, kind artwork.ImageKind, quality int) ([]byte, error) {
	var buf bytes.Buffer
	switch kind {
	case artwork.KindJPEG:
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, fmt.Errorf("failed to encode jpeg: %w", err)
		}
	case artwork.KindPNG:
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("failed to encode png: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", artwork.ErrUnsupportedImage, kind)
	}
	return buf.Bytes(), nil
}
