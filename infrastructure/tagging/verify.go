package tagging

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/dhowden/tag"

	"covertrack/domain/artwork"
)

// verifyCover re-reads the file through an independent tag parser and
// checks the embedded picture against what was written.
func verifyCover(path string, img *artwork.Image) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to reopen audio file: %w", err)
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return fmt.Errorf("failed to read tags back: %w", err)
	}

	pic := m.Picture()
	if pic == nil {
		return errors.New("embedded cover not found on read-back")
	}
	if !bytes.Equal(pic.Data, img.Data) {
		return fmt.Errorf("embedded cover differs from input (%d bytes written, %d read back)",
			len(img.Data), len(pic.Data))
	}
	if pic.MIMEType != "" && pic.MIMEType != img.MIME {
		return fmt.Errorf("embedded cover MIME is %s, want %s", pic.MIMEType, img.MIME)
	}
	return nil
}
