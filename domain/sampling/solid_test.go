package sampling

import (
	"image"
	"image/color"
	"math/rand"
	"testing"
)

func uniformImage(w, h int, c color.RGBA) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func checkerboardImage(w, h, cell int) image.Image {
	// 16 distinct colors arranged in cells, well above the default
	// unique-color threshold and with high channel variance
	palette := make([]color.RGBA, 16)
	for i := range palette {
		palette[i] = color.RGBA{
			R: uint8(i * 16),
			G: uint8(255 - i*16),
			B: uint8((i * 37) % 256),
			A: 255,
		}
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			idx := ((x / cell) + (y/cell)*4) % len(palette)
			img.Set(x, y, palette[idx])
		}
	}
	return img
}

func TestIsSolidColor(t *testing.T) {
	t.Run("single-color 100x100 image is solid", func(t *testing.T) {
		img := uniformImage(100, 100, color.RGBA{R: 12, G: 90, B: 200, A: 255})
		if !IsSolidColor(img, DefaultTolerance, DefaultUniqueColorThreshold) {
			t.Error("uniform image classified as non-solid")
		}
	})

	t.Run("checkerboard with many colors is non-solid", func(t *testing.T) {
		img := checkerboardImage(100, 100, 5)
		if IsSolidColor(img, DefaultTolerance, DefaultUniqueColorThreshold) {
			t.Error("checkerboard classified as solid")
		}
	})

	t.Run("low-variance noise is solid by tolerance", func(t *testing.T) {
		// Many distinct colors but all within a couple of values of gray:
		// tolerance rule should still reject it as boring.
		rng := rand.New(rand.NewSource(1))
		img := image.NewRGBA(image.Rect(0, 0, 64, 64))
		for y := 0; y < 64; y++ {
			for x := 0; x < 64; x++ {
				jitter := uint8(rng.Intn(3))
				img.Set(x, y, color.RGBA{R: 128 + jitter, G: 128 + jitter, B: 128 + jitter, A: 255})
			}
		}
		if !IsSolidColor(img, DefaultTolerance, DefaultUniqueColorThreshold) {
			t.Error("near-uniform noise classified as non-solid")
		}
	})

	t.Run("few colors is solid even with high variance", func(t *testing.T) {
		// Black/white halves: huge stddev, but only two distinct colors
		img := image.NewRGBA(image.Rect(0, 0, 50, 50))
		for y := 0; y < 50; y++ {
			for x := 0; x < 50; x++ {
				if x < 25 {
					img.Set(x, y, color.RGBA{A: 255})
				} else {
					img.Set(x, y, color.RGBA{R: 255, G: 255, B: 255, A: 255})
				}
			}
		}
		if !IsSolidColor(img, DefaultTolerance, DefaultUniqueColorThreshold) {
			t.Error("two-color image classified as non-solid")
		}
	})

	t.Run("large images are downsampled but still classified", func(t *testing.T) {
		// 1000x600 exceeds the downsample threshold
		img := checkerboardImage(1000, 600, 16)
		if IsSolidColor(img, DefaultTolerance, DefaultUniqueColorThreshold) {
			t.Error("large checkerboard classified as solid")
		}

		big := uniformImage(1000, 600, color.RGBA{R: 5, G: 5, B: 5, A: 255})
		if !IsSolidColor(big, DefaultTolerance, DefaultUniqueColorThreshold) {
			t.Error("large uniform image classified as non-solid")
		}
	})

	t.Run("empty image is solid", func(t *testing.T) {
		if !IsSolidColor(image.NewRGBA(image.Rect(0, 0, 0, 0)), DefaultTolerance, DefaultUniqueColorThreshold) {
			t.Error("empty image should classify as solid")
		}
	})
}

func TestOptionsNormalize(t *testing.T) {
	got := Options{}.Normalize()
	want := DefaultOptions()
	if got != want {
		t.Errorf("Normalize() = %+v, want %+v", got, want)
	}

	custom := Options{MaxAttempts: 3, StepSeconds: 2, Tolerance: 1, UniqueColorThreshold: 4, Format: FormatJPEG}
	if got := custom.Normalize(); got != custom {
		t.Errorf("Normalize() altered explicit options: %+v", got)
	}
}
