package av

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"covertrack/domain/media"
	"covertrack/domain/sampling"
)

func testFrame() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.Set(x, y, color.RGBA{uint8(x * 16), uint8(y * 16), 0, 255})
		}
	}
	return img
}

func TestWriteImageFormats(t *testing.T) {
	dir := t.TempDir()

	pngPath := filepath.Join(dir, "frame.png")
	if err := writeImage(pngPath, testFrame(), sampling.FormatPNG); err != nil {
		t.Fatalf("writeImage(png) error = %v", err)
	}
	data, err := os.ReadFile(pngPath)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Error("png output is missing its signature")
	}

	jpgPath := filepath.Join(dir, "frame.jpeg")
	if err := writeImage(jpgPath, testFrame(), sampling.FormatJPEG); err != nil {
		t.Fatalf("writeImage(jpeg) error = %v", err)
	}
	data, err = os.ReadFile(jpgPath)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte{0xFF, 0xD8}) {
		t.Error("jpeg output is missing its signature")
	}
}

func TestWriteImageReportsWriteFailure(t *testing.T) {
	err := writeImage(filepath.Join(t.TempDir(), "missing", "frame.png"), testFrame(), sampling.FormatPNG)
	if !errors.Is(err, media.ErrWriteFailed) {
		t.Errorf("writeImage() error = %v, want ErrWriteFailed", err)
	}
}

func TestSampleFrameMissingInput(t *testing.T) {
	_, err := NewSampler().SampleFrame(context.Background(), filepath.Join(t.TempDir(), "nope.mp4"), 0.1, sampling.Options{})
	if !errors.Is(err, media.ErrInputNotFound) {
		t.Errorf("SampleFrame() error = %v, want ErrInputNotFound", err)
	}
}

func TestSampleFrameRejectsBadFraction(t *testing.T) {
	_, err := NewSampler().SampleFrame(context.Background(), "ignored.mp4", 1.5, sampling.Options{})
	if err == nil {
		t.Fatal("SampleFrame() should reject fractions above 1")
	}
}

func solidFrame() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.Set(x, y, color.RGBA{0, 0, 0, 255})
		}
	}
	return img
}

// fakeFrameSource serves scripted frames so the attempt loop runs without
// a decoder.
type fakeFrameSource struct {
	seekErr error
	seeks   int
	frames  []image.Image
	next    int
}

func (f *fakeFrameSource) Seek(float64) error {
	f.seeks++
	return f.seekErr
}

func (f *fakeFrameSource) Decode(context.Context) (image.Image, error) {
	if f.next >= len(f.frames) {
		return nil, errors.New("no frames left")
	}
	img := f.frames[f.next]
	f.next++
	return img, nil
}

func sampleWith(t *testing.T, src frameSource, opts sampling.Options) (*sampling.Result, error) {
	t.Helper()
	return NewSampler().sampleAttempts(context.Background(), src, "input.mp4", 6.0, 60.0, 0.1, opts.Normalize())
}

func TestSampleAttemptsDecodesAfterFailedSeek(t *testing.T) {
	src := &fakeFrameSource{
		seekErr: errors.New("seek unsupported"),
		frames:  []image.Image{testFrame()},
	}

	res, err := sampleWith(t, src, sampling.Options{OutputDir: t.TempDir()})
	if err != nil {
		t.Fatalf("sampleAttempts() error = %v", err)
	}
	if res.Attempts != 1 {
		t.Errorf("Attempts = %d, want 1", res.Attempts)
	}
	if res.UsedFallback {
		t.Error("a decoded textured frame should not be a fallback")
	}
	if _, err := os.Stat(res.ImagePath); err != nil {
		t.Errorf("result image missing: %v", err)
	}
}

func TestSampleAttemptsRemovesRejectedImages(t *testing.T) {
	dir := t.TempDir()
	src := &fakeFrameSource{
		frames: []image.Image{solidFrame(), solidFrame(), testFrame()},
	}

	res, err := sampleWith(t, src, sampling.Options{OutputDir: dir})
	if err != nil {
		t.Fatalf("sampleAttempts() error = %v", err)
	}
	if res.Attempts != 3 {
		t.Errorf("Attempts = %d, want 3", res.Attempts)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	// Kept: the first attempt (fallback candidate) and the accepted frame.
	if len(entries) != 2 {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("output dir has %v, want first attempt and accepted frame only", names)
	}
	first := filepath.Join(dir, sampling.AttemptFilename("input.mp4", 0.1, 1, sampling.FormatPNG))
	if _, err := os.Stat(first); err != nil {
		t.Errorf("first attempt image should be preserved: %v", err)
	}
	if _, err := os.Stat(res.ImagePath); err != nil {
		t.Errorf("accepted image missing: %v", err)
	}
}

func TestSampleAttemptsAllSolidKeepsFirstImage(t *testing.T) {
	dir := t.TempDir()
	opts := sampling.Options{OutputDir: dir, MaxAttempts: 3}
	src := &fakeFrameSource{
		frames: []image.Image{solidFrame(), solidFrame(), solidFrame()},
	}

	res, err := sampleWith(t, src, opts)
	if err != nil {
		t.Fatalf("sampleAttempts() error = %v", err)
	}
	if !res.UsedFallback {
		t.Error("all-solid run should report the fallback")
	}
	if res.Attempts != 3 {
		t.Errorf("Attempts = %d, want 3", res.Attempts)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("output dir has %d files, want only the fallback", len(entries))
	}
	if got := filepath.Join(dir, entries[0].Name()); got != res.ImagePath {
		t.Errorf("kept image = %s, want fallback %s", got, res.ImagePath)
	}
}

func TestSampleAttemptsFixedOutputPathNeverRemoved(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cover.png")
	opts := sampling.Options{OutputPath: path, MaxAttempts: 2}
	src := &fakeFrameSource{
		frames: []image.Image{solidFrame(), solidFrame()},
	}

	res, err := sampleWith(t, src, opts)
	if err != nil {
		t.Fatalf("sampleAttempts() error = %v", err)
	}
	if res.ImagePath != path {
		t.Errorf("ImagePath = %s, want %s", res.ImagePath, path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("fixed output path should survive solid rejections: %v", err)
	}
}

func TestSampleAttemptsNoFrameDecoded(t *testing.T) {
	src := &fakeFrameSource{}

	_, err := sampleWith(t, src, sampling.Options{OutputDir: t.TempDir(), MaxAttempts: 3})
	if !errors.Is(err, media.ErrNoFrameDecoded) {
		t.Errorf("sampleAttempts() error = %v, want ErrNoFrameDecoded", err)
	}
	if src.seeks != 3 {
		t.Errorf("seeks = %d, want one per attempt", src.seeks)
	}
}
