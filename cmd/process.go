package cmd

import (
	"context"
	"fmt"

	appprocess "covertrack/application/process"
	domartwork "covertrack/domain/artwork"
	"covertrack/domain/media"
	"covertrack/domain/sampling"
	"covertrack/infrastructure/av"
	"covertrack/infrastructure/filesystem"
	"covertrack/infrastructure/imaging"
	"covertrack/infrastructure/tagging"

	"github.com/spf13/cobra"
)

var (
	processSourcePath  string
	processOutputDir   string
	processFraction    float64
	processMaxSide     int
	processDescription string
	processVerify      bool
	processSkipArtwork bool
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Run the complete video-to-tagged-audio pipeline",
	Long: `Run the full workflow on a video recording: extract the audio track
without re-encoding, sample a representative frame, and embed it as the
audio file's front cover.

A source without a video stream still produces the audio file; the cover
stage is skipped. The same applies when the audio lands in a container
that cannot hold cover art.

Example:
  covertrack process --source recording.mp4
  covertrack process --source recording.mp4 --fraction 0.25 --verify`,
	RunE: runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)
	processCmd.Flags().StringVar(&processSourcePath, "source", "", "Path to source video file (required)")
	processCmd.Flags().StringVar(&processOutputDir, "output-dir", "", "Directory for outputs (default from config or .)")
	processCmd.Flags().Float64Var(&processFraction, "fraction", 0, "Playback fraction the cover frame targets (default from config or 0.1)")
	processCmd.Flags().IntVar(&processMaxSide, "max-side", 0, "Maximum cover side in pixels, 0 keeps the frame size")
	processCmd.Flags().StringVar(&processDescription, "description", "", "Cover description for comment-based containers")
	processCmd.Flags().BoolVar(&processVerify, "verify", false, "Re-read the cover after embedding and compare")
	processCmd.Flags().BoolVar(&processSkipArtwork, "skip-artwork", false, "Extract audio only")
	processCmd.MarkFlagRequired("source")
}

func runProcess(cmd *cobra.Command, args []string) error {
	input := appprocess.Input{
		InputPath:   processSourcePath,
		OutputDir:   processOutputDir,
		Fraction:    processFraction,
		Artwork:     domartwork.PrepareOptions{MaxSide: processMaxSide},
		Description: processDescription,
		Verify:      processVerify,
		SkipArtwork: processSkipArtwork,
	}
	if c := GetConfig(); c != nil {
		if input.OutputDir == "" {
			input.OutputDir = c.OutputDirectory()
		}
		if input.Fraction == 0 {
			input.Fraction = c.TargetFraction()
		}
		if input.Artwork.MaxSide == 0 {
			input.Artwork.MaxSide = c.Artwork.MaxImageSide
		}
		if input.Artwork.JPEGQuality == 0 {
			input.Artwork.JPEGQuality = c.Artwork.JPEGQuality
		}
		if input.Description == "" {
			input.Description = c.Artwork.Description
		}
		input.Sampling = sampling.Options{
			MaxAttempts:          c.Sampler.MaxAttempts,
			StepSeconds:          c.Sampler.StepSeconds,
			Tolerance:            c.Sampler.Tolerance,
			UniqueColorThreshold: c.Sampler.UniqueColorThreshold,
			Format:               sampling.ImageFormat(c.Sampler.ImageFormat),
		}
	}
	if input.OutputDir == "" {
		input.OutputDir = "."
	}
	if input.Fraction == 0 {
		input.Fraction = 0.1
	}

	return RunProcessWithDependencies(
		cmd.Context(),
		av.NewProber(),
		av.NewRemuxer(),
		av.NewSampler(av.WithLogWriter(DefaultOutput)),
		imaging.NewPreparer(),
		tagging.NewEmbedder(),
		filesystem.NewChecker(),
		input,
		DefaultOutput,
	)
}

// RunProcessWithDependencies runs the process command with injected dependencies (for testing)
func RunProcessWithDependencies(
	ctx context.Context,
	prober media.Prober,
	remuxer media.Remuxer,
	sampler sampling.Sampler,
	preparer domartwork.Preparer,
	embedder domartwork.Embedder,
	fileChecker media.FileChecker,
	input appprocess.Input,
	output OutputWriter,
) error {
	service := appprocess.NewService(prober, remuxer, sampler, preparer, embedder, fileChecker, output)

	result, err := service.Process(ctx, input)
	if err != nil {
		return err
	}

	fmt.Fprintf(output, "\nDone: %s", result.AudioPath)
	if result.CoverEmbedded {
		fmt.Fprint(output, " with cover")
	} else if result.ArtworkSkipReason != "" {
		fmt.Fprintf(output, " (no cover: %s)", result.ArtworkSkipReason)
	}
	fmt.Fprintln(output)
	return nil
}
