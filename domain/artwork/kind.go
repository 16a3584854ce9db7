// Package artwork holds the format-independent cover art model: image
// kinds, container family dispatch, and the binary picture metadata block
// used by tag-comment containers.
package artwork

import (
	"errors"
	"strings"
)

var (
	// ErrUnsupportedContainer is returned when an audio file matches
	// neither recognized embedding family
	ErrUnsupportedContainer = errors.New("unsupported audio container for cover embedding")

	// ErrUnsupportedImage is returned when the cover image is neither
	// JPEG nor PNG encoded
	ErrUnsupportedImage = errors.New("cover image must be JPEG or PNG encoded")
)

// ImageKind is the encoded format of a cover image
type ImageKind int

const (
	KindUnknown ImageKind = iota
	KindJPEG
	KindPNG
)

// ParseImageKind maps an image format name (as reported by the stdlib
// decoder registry) onto a kind
func ParseImageKind(format string) ImageKind {
	switch strings.ToLower(format) {
	case "jpeg", "jpg":
		return KindJPEG
	case "png":
		return KindPNG
	default:
		return KindUnknown
	}
}

// String returns the format name of the kind
func (k ImageKind) String() string {
	switch k {
	case KindJPEG:
		return "jpeg"
	case KindPNG:
		return "png"
	default:
		return "unknown"
	}
}

// MIME returns the MIME type for this kind. Unknown kinds follow the
// image/<lowercased-format> convention via MIMEForFormat instead.
func (k ImageKind) MIME() string {
	switch k {
	case KindJPEG:
		return "image/jpeg"
	case KindPNG:
		return "image/png"
	default:
		return "application/octet-stream"
	}
}

// MIMEForFormat derives a MIME type from a stored image format name.
// JPEG variants collapse to image/jpeg; anything else becomes
// image/<lowercased-format>.
func MIMEForFormat(format string) string {
	lower := strings.ToLower(format)
	if lower == "jpeg" || lower == "jpg" {
		return "image/jpeg"
	}
	return "image/" + lower
}

// Image is a prepared cover: encoded bytes plus the metadata every
// embedding family needs. It is produced once by the preparer and never
// mutated afterwards.
type Image struct {
	Data   []byte
	Kind   ImageKind
	MIME   string
	Width  int
	Height int
}
