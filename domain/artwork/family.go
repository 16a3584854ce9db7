package artwork

import (
	"path/filepath"
	"strings"
)

// ContainerFamily is the metadata convention of an audio container. Each
// family has its own embedding layout; FamilyUnknown triggers a last-resort
// content detection pass before the operation fails.
type ContainerFamily int

const (
	// FamilyUnknown matches neither recognized convention
	FamilyUnknown ContainerFamily = iota

	// FamilyMP4 covers atom-based MPEG-4 style containers (covr atom)
	FamilyMP4

	// FamilyOggComment covers Ogg-encapsulated containers whose artwork is
	// a base64 picture block in a tag comment
	FamilyOggComment
)

// String returns a human-readable family name
func (f ContainerFamily) String() string {
	switch f {
	case FamilyMP4:
		return "mp4"
	case FamilyOggComment:
		return "ogg"
	default:
		return "unknown"
	}
}

// FamilyForExtension dispatches a file extension (with or without leading
// dot) onto an embedding family.
func FamilyForExtension(ext string) ContainerFamily {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "m4a", "mp4", "m4b", "m4r":
		return FamilyMP4
	case "opus", "ogg", "oga":
		return FamilyOggComment
	default:
		return FamilyUnknown
	}
}

// FamilyForPath dispatches on the path's extension
func FamilyForPath(path string) ContainerFamily {
	return FamilyForExtension(filepath.Ext(path))
}
