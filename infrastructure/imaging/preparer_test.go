package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"covertrack/domain/artwork"
)

func writeTestImage(t *testing.T, width, height int, format string) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{uint8(x % 256), uint8(y % 256), 128, 255})
		}
	}

	var buf bytes.Buffer
	var err error
	switch format {
	case "jpeg":
		err = jpeg.Encode(&buf, img, nil)
	case "png":
		err = png.Encode(&buf, img)
	default:
		t.Fatalf("unknown format %q", format)
	}
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "cover."+format)
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestPrepareDownscalesLargeImage(t *testing.T) {
	path := writeTestImage(t, 4000, 2000, "jpeg")

	img, err := NewPreparer().Prepare(path, artwork.PrepareOptions{MaxSide: 1200})
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	if img.Width != 1200 {
		t.Errorf("Width = %d, want 1200", img.Width)
	}
	if img.Height != 600 {
		t.Errorf("Height = %d, want 600 (aspect preserved)", img.Height)
	}
	if img.Kind != artwork.KindJPEG || img.MIME != "image/jpeg" {
		t.Errorf("Kind = %v, MIME = %q", img.Kind, img.MIME)
	}
}

func TestPrepareKeepsSmallImageBytes(t *testing.T) {
	path := writeTestImage(t, 600, 400, "png")
	original, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	img, err := NewPreparer().Prepare(path, artwork.PrepareOptions{MaxSide: 1200})
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	if !bytes.Equal(img.Data, original) {
		t.Error("small image should keep its original encoded bytes")
	}
	if img.Width != 600 || img.Height != 400 {
		t.Errorf("dimensions = %dx%d, want 600x400", img.Width, img.Height)
	}
	if img.Kind != artwork.KindPNG {
		t.Errorf("Kind = %v, want PNG", img.Kind)
	}
}

func TestPrepareDownscalesPortraitByHeight(t *testing.T) {
	path := writeTestImage(t, 1000, 3000, "png")

	img, err := NewPreparer().Prepare(path, artwork.PrepareOptions{MaxSide: 900})
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	if img.Height != 900 {
		t.Errorf("Height = %d, want 900", img.Height)
	}
	if img.Width != 300 {
		t.Errorf("Width = %d, want 300", img.Width)
	}
}

func TestPrepareRejectsNonImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cover.jpg")
	if err := os.WriteFile(path, []byte("not an image"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := NewPreparer().Prepare(path, artwork.PrepareOptions{})
	if err == nil {
		t.Fatal("Prepare() should fail on non-image data")
	}
}

func TestPrepareMissingFile(t *testing.T) {
	_, err := NewPreparer().Prepare(filepath.Join(t.TempDir(), "missing.png"), artwork.PrepareOptions{})
	if err == nil {
		t.Fatal("Prepare() should fail on missing file")
	}
}
