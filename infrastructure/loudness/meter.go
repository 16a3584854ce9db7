// Package loudness measures mid/side channel levels by shelling out to
// ffmpeg's volumedetect filter. The analysis of those levels lives in
// domain/phase; this package only produces the numbers.
package loudness

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"

	"covertrack/domain/phase"
)

// CommandRunner defines the interface for running external commands
// This allows mocking exec.Command in tests
type CommandRunner interface {
	CombinedOutput(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecCommandRunner is the production implementation using os/exec
type ExecCommandRunner struct{}

// CombinedOutput executes a command and returns stdout and stderr together.
// ffmpeg prints filter reports to stderr, so both streams are needed.
func (r *ExecCommandRunner) CombinedOutput(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.CombinedOutput()
}

// Meter implements phase.Meter using ffmpeg
type Meter struct {
	ffmpegPath string
	runner     CommandRunner
}

// MeterOption is a functional option for configuring Meter
type MeterOption func(*Meter)

// WithFFmpegPath sets a custom ffmpeg executable path
func WithFFmpegPath(path string) MeterOption {
	return func(m *Meter) {
		m.ffmpegPath = path
	}
}

// WithCommandRunner sets a custom command runner (for testing)
func WithCommandRunner(runner CommandRunner) MeterOption {
	return func(m *Meter) {
		m.runner = runner
	}
}

// NewMeter creates a new ffmpeg-based loudness meter
func NewMeter(opts ...MeterOption) *Meter {
	m := &Meter{
		ffmpegPath: "ffmpeg",
		runner:     &ExecCommandRunner{},
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

const (
	// Mid is the in-phase sum of both channels, side the difference.
	midFilter  = "pan=mono|c0=0.5*c0+0.5*c1,volumedetect"
	sideFilter = "pan=mono|c0=0.5*c0-0.5*c1,volumedetect"
)

var meanVolumeRe = regexp.MustCompile(`mean_volume:\s*(-?\d+(?:\.\d+)?)\s*dB`)

// Measure implements phase.Meter. It runs the file through ffmpeg twice,
// once per derived channel, and reads the mean volume reports.
func (m *Meter) Measure(ctx context.Context, path string) (phase.Measurements, error) {
	midDB, err := m.meanVolume(ctx, path, midFilter)
	if err != nil {
		return phase.Measurements{}, fmt.Errorf("mid channel measurement failed: %w", err)
	}
	sideDB, err := m.meanVolume(ctx, path, sideFilter)
	if err != nil {
		return phase.Measurements{}, fmt.Errorf("side channel measurement failed: %w", err)
	}
	return phase.NewMeasurements(midDB, sideDB), nil
}

func (m *Meter) meanVolume(ctx context.Context, path, filter string) (float64, error) {
	out, err := m.runner.CombinedOutput(ctx, m.ffmpegPath,
		"-hide_banner",
		"-i", path,
		"-af", filter,
		"-f", "null", "-",
	)
	if err != nil {
		return 0, fmt.Errorf("ffmpeg failed: %w", err)
	}

	match := meanVolumeRe.FindSubmatch(out)
	if match == nil {
		return 0, fmt.Errorf("no mean_volume report in ffmpeg output")
	}
	return strconv.ParseFloat(string(match[1]), 64)
}

// VerifyInstalled checks that ffmpeg is available
func (m *Meter) VerifyInstalled(ctx context.Context) error {
	_, err := m.runner.CombinedOutput(ctx, m.ffmpegPath, "-version")
	if err != nil {
		return fmt.Errorf("ffmpeg not found or not executable: %w", err)
	}
	return nil
}

// Ensure Meter implements phase.Meter
var _ phase.Meter = (*Meter)(nil)
