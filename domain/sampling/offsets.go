package sampling

// clampEpsilon keeps seek targets strictly before the end of the stream so
// the decoder still has a frame to produce.
const clampEpsilon = 1e-3

// OffsetAt returns the retry offset for a zero-based attempt index. The
// sequence alternates outward from the target: 0, -step, +step, -2*step,
// +2*step, ... It is a pure function of the index so the search order can
// be tested without any decoding.
func OffsetAt(attempt int, stepSeconds float64) float64 {
	if attempt <= 0 {
		return 0
	}
	mult := float64((attempt + 1) / 2)
	if attempt%2 == 1 {
		return -mult * stepSeconds
	}
	return mult * stepSeconds
}

// Offsets materializes the first maxAttempts retry offsets
func Offsets(maxAttempts int, stepSeconds float64) []float64 {
	if maxAttempts <= 0 {
		return nil
	}
	out := make([]float64, maxAttempts)
	for i := range out {
		out[i] = OffsetAt(i, stepSeconds)
	}
	return out
}

// ClampTimestamp bounds a seek target to [0, duration-epsilon]
func ClampTimestamp(target, duration float64) float64 {
	if target > duration-clampEpsilon {
		target = duration - clampEpsilon
	}
	if target < 0 {
		target = 0
	}
	return target
}
