package artwork

// Defaults for cover preparation
const (
	DefaultJPEGQuality = 90
)

// PrepareOptions configures cover image preparation
type PrepareOptions struct {
	// MaxSide, when positive, bounds the image's longest side; larger
	// images are resized proportionally before embedding
	MaxSide int
	// JPEGQuality applies when re-encoding JPEG sources
	JPEGQuality int
}

// Normalize fills zero values with defaults
func (o PrepareOptions) Normalize() PrepareOptions {
	if o.JPEGQuality <= 0 {
		o.JPEGQuality = DefaultJPEGQuality
	}
	return o
}

// EmbedOptions configures cover embedding
type EmbedOptions struct {
	// Description is stored by comment-block containers
	Description string
	// PictureType is the picture-type code; front cover when zero
	PictureType uint32
	// Verify re-reads the embedded cover after writing and checks it
	// against the input
	Verify bool
}

// Normalize fills zero values with defaults
func (o EmbedOptions) Normalize() EmbedOptions {
	if o.Description == "" {
		o.Description = DefaultDescription
	}
	if o.PictureType == 0 {
		o.PictureType = PictureTypeFrontCover
	}
	return o
}

// Preparer loads a cover image file and produces embed-ready bytes:
// MIME detection, optional proportional resize, re-encode in the original
// format. Implemented by the imaging infrastructure adapter.
type Preparer interface {
	Prepare(path string, opts PrepareOptions) (*Image, error)
}

// Embedder injects a prepared cover into an audio container's metadata
// region, dispatching on the container family. Implemented by the tagging
// infrastructure adapter.
type Embedder interface {
	// Embed mutates audioPath in place. Fails with ErrUnsupportedContainer
	// when the file matches neither family even after content detection.
	Embed(audioPath string, img *Image, opts EmbedOptions) error
}
