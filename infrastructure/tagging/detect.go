package tagging

import (
	"bytes"
	"io"
	"os"

	"covertrack/domain/artwork"
)

// detectFamily sniffs the container family from file content. It backs up
// the extension dispatch for files with missing or misleading extensions.
func detectFamily(path string) artwork.ContainerFamily {
	f, err := os.Open(path)
	if err != nil {
		return artwork.FamilyUnknown
	}
	defer f.Close()

	header := make([]byte, 12)
	n, err := io.ReadAtLeast(f, header, 4)
	if err != nil {
		return artwork.FamilyUnknown
	}
	header = header[:n]

	if bytes.HasPrefix(header, []byte("OggS")) {
		return artwork.FamilyOggComment
	}
	if n >= 8 && bytes.Equal(header[4:8], []byte("ftyp")) {
		return artwork.FamilyMP4
	}
	return artwork.FamilyUnknown
}
