package tagging

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"covertrack/domain/artwork"
)

func TestEmbedUnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audio.mp3")
	if err := os.WriteFile(path, []byte("ID3"), 0644); err != nil {
		t.Fatal(err)
	}

	err := NewEmbedder().Embed(path, jpegCover([]byte{1}), artwork.EmbedOptions{})
	if !errors.Is(err, artwork.ErrUnsupportedContainer) {
		t.Errorf("Embed() error = %v, want ErrUnsupportedContainer", err)
	}
}

func TestEmbedDetectsFamilyWithoutExtension(t *testing.T) {
	src, _ := buildM4A(t, []byte{1, 2, 3})
	data, err := os.ReadFile(src)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "extracted-audio")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	if err := NewEmbedder().Embed(path, jpegCover([]byte{0xFF, 0xD8}), artwork.EmbedOptions{}); err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	readM4ACover(t, path)
}

func TestDetectFamilyShortHeaders(t *testing.T) {
	dir := t.TempDir()
	write := func(name string, data []byte) string {
		t.Helper()
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, data, 0644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	// An ftyp box header is detectable from its first eight bytes alone.
	mp4 := write("mp4", []byte{0, 0, 0, 8, 'f', 't', 'y', 'p'})
	if got := detectFamily(mp4); got != artwork.FamilyMP4 {
		t.Errorf("detectFamily(8-byte ftyp) = %v, want FamilyMP4", got)
	}

	ogg := write("ogg", []byte("OggS"))
	if got := detectFamily(ogg); got != artwork.FamilyOggComment {
		t.Errorf("detectFamily(4-byte OggS) = %v, want FamilyOggComment", got)
	}

	tiny := write("tiny", []byte{'O', 'g'})
	if got := detectFamily(tiny); got != artwork.FamilyUnknown {
		t.Errorf("detectFamily(2-byte file) = %v, want FamilyUnknown", got)
	}
}

func TestEmbedOggThroughDispatchWithVerify(t *testing.T) {
	path, _ := buildOpusFile(t, []string{"ALBUM=B"})

	err := NewEmbedder().Embed(path, jpegCover([]byte{0xFF, 0xD8, 0xFF}), artwork.EmbedOptions{
		Description: "Front",
	})
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}

	pages := readAllPages(t, path)
	_, comments := collectComments(t, pages, 0xBEEF)
	found := false
	for _, c := range comments {
		if len(c) > len(pictureCommentKey) && c[:len(pictureCommentKey)] == pictureCommentKey {
			pic, err := artwork.DecodePictureBase64(c[len(pictureCommentKey)+1:])
			if err != nil {
				t.Fatalf("picture comment does not decode: %v", err)
			}
			if pic.Description != "Front" {
				t.Errorf("description = %q, want Front", pic.Description)
			}
			found = true
		}
	}
	if !found {
		t.Error("no picture comment after dispatch embed")
	}
}
