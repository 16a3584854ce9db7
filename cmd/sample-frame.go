package cmd

import (
	"context"
	"fmt"

	appframe "covertrack/application/frame"
	"covertrack/domain/media"
	"covertrack/domain/sampling"
	"covertrack/infrastructure/av"
	"covertrack/infrastructure/filesystem"

	"github.com/spf13/cobra"
)

var (
	sampleSourcePath  string
	sampleOutputPath  string
	sampleOutputDir   string
	sampleFraction    float64
	sampleMaxAttempts int
	sampleStep        float64
	sampleTolerance   float64
	sampleFormat      string
)

var sampleFrameCmd = &cobra.Command{
	Use:   "sample-frame",
	Short: "Extract a representative frame from a video file",
	Long: `Decode a single frame near a fraction of the video's duration and
save it as an image. Frames that look like a solid color (fades, black
leaders, title cards) are rejected and the sampler retries at expanding
offsets around the target; if every attempt looks solid the first frame
is kept.

Example:
  covertrack sample-frame --source recording.mp4
  covertrack sample-frame --source recording.mp4 --fraction 0.25 --format jpeg`,
	RunE: runSampleFrame,
}

func init() {
	rootCmd.AddCommand(sampleFrameCmd)
	sampleFrameCmd.Flags().StringVar(&sampleSourcePath, "source", "", "Path to source video file (required)")
	sampleFrameCmd.Flags().StringVar(&sampleOutputPath, "output", "", "Exact output image path (overrides attempt naming)")
	sampleFrameCmd.Flags().StringVar(&sampleOutputDir, "output-dir", "", "Directory for attempt-named images (default from config or .)")
	sampleFrameCmd.Flags().Float64Var(&sampleFraction, "fraction", 0, "Playback fraction to sample at (default from config or 0.1)")
	sampleFrameCmd.Flags().IntVar(&sampleMaxAttempts, "max-attempts", 0, "Maximum seek attempts before falling back")
	sampleFrameCmd.Flags().Float64Var(&sampleStep, "step", 0, "Seconds between retry offsets")
	sampleFrameCmd.Flags().Float64Var(&sampleTolerance, "tolerance", 0, "Per-channel stddev at or below which a frame counts as solid")
	sampleFrameCmd.Flags().StringVar(&sampleFormat, "format", "", "Image format: png or jpeg")
	sampleFrameCmd.MarkFlagRequired("source")
}

func runSampleFrame(cmd *cobra.Command, args []string) error {
	fraction := sampleFraction
	if fraction == 0 {
		fraction = GetConfig().TargetFraction()
	}
	outputDir := sampleOutputDir
	if outputDir == "" && sampleOutputPath == "" {
		outputDir = GetConfig().OutputDirectory()
	}

	opts := sampling.Options{
		OutputPath:  sampleOutputPath,
		OutputDir:   outputDir,
		Format:      sampling.ImageFormat(sampleFormat),
		MaxAttempts: sampleMaxAttempts,
		StepSeconds: sampleStep,
		Tolerance:   sampleTolerance,
	}
	if c := GetConfig(); c != nil {
		if opts.MaxAttempts == 0 {
			opts.MaxAttempts = c.Sampler.MaxAttempts
		}
		if opts.StepSeconds == 0 {
			opts.StepSeconds = c.Sampler.StepSeconds
		}
		if opts.Tolerance == 0 {
			opts.Tolerance = c.Sampler.Tolerance
		}
		if opts.UniqueColorThreshold == 0 {
			opts.UniqueColorThreshold = c.Sampler.UniqueColorThreshold
		}
		if opts.Format == "" {
			opts.Format = sampling.ImageFormat(c.Sampler.ImageFormat)
		}
	}

	return RunSampleFrameWithDependencies(
		cmd.Context(),
		av.NewSampler(av.WithLogWriter(DefaultOutput)),
		filesystem.NewChecker(),
		outputDir,
		sampleSourcePath,
		fraction,
		opts,
		DefaultOutput,
	)
}

// RunSampleFrameWithDependencies runs the sample-frame command with injected dependencies (for testing)
func RunSampleFrameWithDependencies(
	ctx context.Context,
	sampler sampling.Sampler,
	fileChecker media.FileChecker,
	outputDir string,
	sourcePath string,
	fraction float64,
	opts sampling.Options,
	output OutputWriter,
) error {
	service := appframe.NewSampleService(sampler, fileChecker, outputDir)

	result, err := service.Sample(ctx, sourcePath, fraction, opts)
	if err != nil {
		return err
	}

	if result.UsedFallback {
		fmt.Fprintf(output, "All %d frames looked solid, keeping the first\n", result.Attempts)
	}
	fmt.Fprintf(output, "Frame saved: %s (%.1fs, attempt %d)\n", result.ImagePath, result.TimestampSeconds, result.Attempts)
	return nil
}
