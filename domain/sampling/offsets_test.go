package sampling

import (
	"math"
	"testing"
)

func TestOffsetAt(t *testing.T) {
	// 0, -step, +step, -2*step, +2*step, ...
	want := []float64{0, -0.5, 0.5, -1.0, 1.0, -1.5, 1.5}
	for i, w := range want {
		if got := OffsetAt(i, 0.5); math.Abs(got-w) > 1e-9 {
			t.Errorf("OffsetAt(%d, 0.5) = %v, want %v", i, got, w)
		}
	}
}

func TestOffsets(t *testing.T) {
	t.Run("truncates to attempt limit", func(t *testing.T) {
		got := Offsets(3, 2.0)
		want := []float64{0, -2.0, 2.0}
		if len(got) != len(want) {
			t.Fatalf("Offsets(3, 2.0) has %d entries, want %d", len(got), len(want))
		}
		for i := range want {
			if math.Abs(got[i]-want[i]) > 1e-9 {
				t.Errorf("Offsets(3, 2.0)[%d] = %v, want %v", i, got[i], want[i])
			}
		}
	})

	t.Run("empty for non-positive limits", func(t *testing.T) {
		if got := Offsets(0, 0.5); got != nil {
			t.Errorf("Offsets(0, 0.5) = %v, want nil", got)
		}
	})
}

func TestClampTimestamp(t *testing.T) {
	tests := []struct {
		name     string
		target   float64
		duration float64
		want     float64
	}{
		{"inside range", 10, 100, 10},
		{"below zero", -3, 100, 0},
		{"at the end", 100, 100, 100 - 1e-3},
		{"past the end", 250, 100, 100 - 1e-3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampTimestamp(tt.target, tt.duration); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ClampTimestamp(%v, %v) = %v, want %v", tt.target, tt.duration, got, tt.want)
			}
		})
	}
}

func TestSeekTargetNearFraction(t *testing.T) {
	// 10% of a 100-second video must land within [9.5, 10.5] before any
	// retry offset widens the search.
	duration := 100.0
	target := duration * 0.1
	first := ClampTimestamp(target+OffsetAt(0, DefaultStepSeconds), duration)
	if first < 9.5 || first > 10.5 {
		t.Errorf("first seek target = %v, want within [9.5, 10.5]", first)
	}
}

func TestAttemptFilename(t *testing.T) {
	got := AttemptFilename("/media/show episode.mkv", 0.1, 3, FormatPNG)
	want := "show episode_10pct_try3.png"
	if got != want {
		t.Errorf("AttemptFilename() = %q, want %q", got, want)
	}
}

func TestValidateFraction(t *testing.T) {
	for _, ok := range []float64{0, 0.1, 1} {
		if err := ValidateFraction(ok); err != nil {
			t.Errorf("ValidateFraction(%v) = %v, want nil", ok, err)
		}
	}
	for _, bad := range []float64{-0.01, 1.01} {
		if err := ValidateFraction(bad); err == nil {
			t.Errorf("ValidateFraction(%v) = nil, want error", bad)
		}
	}
}
