package cmd

import (
	"context"
	"fmt"

	"covertrack/domain/phase"
	"covertrack/infrastructure/loudness"

	"github.com/spf13/cobra"
)

var (
	phaseInputPath   string
	phaseMidDB       float64
	phaseSideDB      float64
	phaseCorrelation float64
	phaseThreshold   float64
)

var phaseCmd = &cobra.Command{
	Use:   "phase",
	Short: "Judge whether phase inversion is safe for a recording",
	Long: `Analyze mid/side loudness and report how much of the signal energy
sits in the side channel. Recordings with substantial side energy, or an
inverted channel correlation, lose stereo content under phase inversion
and should keep it disabled.

With --input the levels are measured through ffmpeg's volumedetect
filter; otherwise supply them with --mid-db and --side-db.

Example:
  covertrack phase --input talk.wav
  covertrack phase --mid-db -18.2 --side-db -31.5
  covertrack phase --mid-db -18.2 --side-db -20.1 --correlation -0.3`,
	RunE: runPhase,
}

func init() {
	rootCmd.AddCommand(phaseCmd)
	phaseCmd.Flags().StringVar(&phaseInputPath, "input", "", "Audio file to measure with ffmpeg")
	phaseCmd.Flags().Float64Var(&phaseMidDB, "mid-db", 0, "Mid channel level in dBFS")
	phaseCmd.Flags().Float64Var(&phaseSideDB, "side-db", 0, "Side channel level in dBFS")
	phaseCmd.Flags().Float64Var(&phaseCorrelation, "correlation", 0, "Stereo correlation in [-1, 1]")
	phaseCmd.Flags().Float64Var(&phaseThreshold, "side-threshold", 0, "Side share above which inversion is disabled (default 0.20)")
	phaseCmd.MarkFlagsOneRequired("input", "mid-db")
	phaseCmd.MarkFlagsRequiredTogether("mid-db", "side-db")
	phaseCmd.MarkFlagsMutuallyExclusive("input", "mid-db")
}

func runPhase(cmd *cobra.Command, args []string) error {
	var m phase.Measurements
	if phaseInputPath != "" {
		meter := loudness.NewMeter()
		if err := meter.VerifyInstalled(cmd.Context()); err != nil {
			return err
		}
		return RunPhaseWithDependencies(cmd.Context(), meter, phaseInputPath, phaseThreshold, DefaultOutput)
	}

	m = phase.NewMeasurements(phaseMidDB, phaseSideDB)
	if cmd.Flags().Changed("correlation") {
		m = m.WithCorrelation(phaseCorrelation)
	}
	return reportPhase(m, phaseThreshold, DefaultOutput)
}

// RunPhaseWithDependencies runs the phase command with injected dependencies (for testing)
func RunPhaseWithDependencies(ctx context.Context, meter phase.Meter, inputPath string, threshold float64, output OutputWriter) error {
	m, err := meter.Measure(ctx, inputPath)
	if err != nil {
		return err
	}
	fmt.Fprintf(output, "Mid: %.1f dB, side: %.1f dB\n", m.MidDB, m.SideDB)
	return reportPhase(m, threshold, output)
}

func reportPhase(m phase.Measurements, threshold float64, output OutputWriter) error {
	analysis, err := phase.Analyze(m, threshold)
	if err != nil {
		return err
	}
	fmt.Fprintf(output, "Side energy share: %s\n", analysis.SideSharePercent())
	fmt.Fprintf(output, "%s\n", analysis.Recommendation())
	return nil
}
