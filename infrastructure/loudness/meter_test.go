package loudness

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// mockRunner returns canned ffmpeg output per filter argument
type mockRunner struct {
	outputs map[string]string
	err     error
	calls   [][]string
}

func (m *mockRunner) CombinedOutput(ctx context.Context, name string, args ...string) ([]byte, error) {
	m.calls = append(m.calls, append([]string{name}, args...))
	if m.err != nil {
		return nil, m.err
	}
	for key, out := range m.outputs {
		for _, a := range args {
			if strings.Contains(a, key) {
				return []byte(out), nil
			}
		}
	}
	return []byte(""), nil
}

const volumedetectReport = `[Parsed_volumedetect_1 @ 0x55] n_samples: 9600000
[Parsed_volumedetect_1 @ 0x55] mean_volume: %s dB
[Parsed_volumedetect_1 @ 0x55] max_volume: -1.0 dB`

func TestMeasure(t *testing.T) {
	runner := &mockRunner{outputs: map[string]string{
		"+0.5*c1": strings.Replace(volumedetectReport, "%s", "-18.2", 1),
		"-0.5*c1": strings.Replace(volumedetectReport, "%s", "-31.5", 1),
	}}
	meter := NewMeter(WithCommandRunner(runner))

	m, err := meter.Measure(context.Background(), "/audio/service.wav")
	if err != nil {
		t.Fatalf("Measure() error = %v", err)
	}

	if m.MidDB != -18.2 {
		t.Errorf("MidDB = %v, want -18.2", m.MidDB)
	}
	if m.SideDB != -31.5 {
		t.Errorf("SideDB = %v, want -31.5", m.SideDB)
	}
	if len(runner.calls) != 2 {
		t.Errorf("ffmpeg invoked %d times, want 2", len(runner.calls))
	}
}

func TestMeasureCommandFailure(t *testing.T) {
	meter := NewMeter(WithCommandRunner(&mockRunner{err: errors.New("exit status 1")}))

	if _, err := meter.Measure(context.Background(), "/audio/service.wav"); err == nil {
		t.Fatal("Measure() should surface ffmpeg failures")
	}
}

func TestMeasureMissingReport(t *testing.T) {
	meter := NewMeter(WithCommandRunner(&mockRunner{outputs: map[string]string{}}))

	_, err := meter.Measure(context.Background(), "/audio/service.wav")
	if err == nil || !strings.Contains(err.Error(), "mean_volume") {
		t.Errorf("Measure() error = %v, want a missing-report error", err)
	}
}

func TestVerifyInstalled(t *testing.T) {
	runner := &mockRunner{outputs: map[string]string{"-version": "ffmpeg version 6.1"}}
	if err := NewMeter(WithCommandRunner(runner)).VerifyInstalled(context.Background()); err != nil {
		t.Errorf("VerifyInstalled() error = %v", err)
	}

	failing := NewMeter(WithCommandRunner(&mockRunner{err: errors.New("not found")}))
	if err := failing.VerifyInstalled(context.Background()); err == nil {
		t.Error("VerifyInstalled() should fail when ffmpeg is missing")
	}
}
