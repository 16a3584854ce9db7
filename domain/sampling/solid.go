package sampling

import (
	"image"
	"math"
)

// downsampleThreshold is the pixel count above which the heuristic samples
// every 4th row and column instead of the full raster.
const (
	downsampleThreshold = 500_000
	downsampleStride    = 4
)

// IsSolidColor classifies a decoded frame as "boring": near-uniform color
// that would make useless cover art (black lead-ins, fades, title cards).
// A frame is solid when the sampled raster has at most
// uniqueColorThreshold distinct colors, or when the standard deviation of
// every channel is at or below tolerance.
func IsSolidColor(img image.Image, tolerance float64, uniqueColorThreshold int) bool {
	bounds := img.Bounds()
	stride := 1
	if bounds.Dx()*bounds.Dy() > downsampleThreshold {
		stride = downsampleStride
	}

	colors := make(map[[3]uint8]struct{})
	var sum, sumSq [3]float64
	samples := 0

	for y := bounds.Min.Y; y < bounds.Max.Y; y += stride {
		for x := bounds.Min.X; x < bounds.Max.X; x += stride {
			r, g, b, _ := img.At(x, y).RGBA()
			px := [3]uint8{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)}
			colors[px] = struct{}{}
			for c := 0; c < 3; c++ {
				v := float64(px[c])
				sum[c] += v
				sumSq[c] += v * v
			}
			samples++
		}
	}

	if samples == 0 {
		return true
	}
	if len(colors) <= uniqueColorThreshold {
		return true
	}

	n := float64(samples)
	for c := 0; c < 3; c++ {
		mean := sum[c] / n
		variance := sumSq[c]/n - mean*mean
		if variance < 0 {
			variance = 0
		}
		if math.Sqrt(variance) > tolerance {
			return false
		}
	}
	return true
}
