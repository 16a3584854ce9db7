// Package phase decides whether an encoder should be allowed to use phase
// inversion on a stereo file, from externally-measured mid/side loudness.
// The measurements themselves (ffmpeg volumedetect / astats) are produced
// outside this tool; the math here is pure.
package phase

import (
	"context"
	"errors"
	"fmt"
	"math"
)

// DefaultSideThreshold is the side energy share at or above which phase
// inversion should be disabled.
const DefaultSideThreshold = 0.20

// ErrNoMeasurements is returned when mid or side loudness is missing
var ErrNoMeasurements = errors.New("mid and side loudness measurements are required")

// Measurements are externally-produced loudness readings of the mid
// (L+R) and side (L-R) channels, in dB.
type Measurements struct {
	MidDB  float64
	SideDB float64
	// Correlation is the optional stereo correlation reading; nil when
	// the measuring tool did not report one
	Correlation *float64
	// set distinguishes zero-valued readings from absent ones
	set bool
}

// NewMeasurements builds Measurements from required mid/side readings
func NewMeasurements(midDB, sideDB float64) Measurements {
	return Measurements{MidDB: midDB, SideDB: sideDB, set: true}
}

// WithCorrelation attaches an optional correlation reading
func (m Measurements) WithCorrelation(corr float64) Measurements {
	m.Correlation = &corr
	return m
}

// Analysis is the outcome of a phase analysis
type Analysis struct {
	// SideShare is the fraction of linear energy in the side channel
	SideShare float64
	// DisableInversion recommends encoding with phase inversion disabled:
	// the file carries true stereo or anti-phase content that inversion
	// would damage
	DisableInversion bool
}

// SideSharePercent formats the side share as a percentage string
func (a Analysis) SideSharePercent() string {
	return fmt.Sprintf("%.1f%%", 100*a.SideShare)
}

// Recommendation is the human-facing verdict
func (a Analysis) Recommendation() string {
	if a.DisableInversion {
		return "disable phase inversion (true stereo or anti-phase detected)"
	}
	return "allow phase inversion (likely double-mono or low side energy)"
}

// Analyze computes the side channel's linear energy share from dB
// loudness and recommends disabling phase inversion when the share reaches
// sideThreshold or the correlation is non-positive.
func Analyze(m Measurements, sideThreshold float64) (Analysis, error) {
	if !m.set {
		return Analysis{}, ErrNoMeasurements
	}
	if sideThreshold <= 0 {
		sideThreshold = DefaultSideThreshold
	}

	midLin := math.Pow(10, m.MidDB/10)
	sideLin := math.Pow(10, m.SideDB/10)

	share := 0.0
	if midLin+sideLin > 0 {
		share = sideLin / (midLin + sideLin)
	}

	disable := share >= sideThreshold
	if m.Correlation != nil && *m.Correlation <= 0 {
		disable = true
	}

	return Analysis{SideShare: share, DisableInversion: disable}, nil
}

// Meter measures mid/side loudness of an audio file. Implemented by the
// loudness infrastructure adapter; the analysis itself stays external-tool
// agnostic.
type Meter interface {
	Measure(ctx context.Context, path string) (Measurements, error)
}
