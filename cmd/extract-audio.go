package cmd

import (
	"context"
	"fmt"

	appaudio "covertrack/application/audio"
	"covertrack/domain/media"
	"covertrack/infrastructure/av"
	"covertrack/infrastructure/filesystem"

	"github.com/spf13/cobra"
)

var (
	extractSourcePath string
	extractOutputDir  string
)

var extractAudioCmd = &cobra.Command{
	Use:   "extract-audio",
	Short: "Extract the audio track from a video file",
	Long: `Extract the first audio stream of a video file into an audio-only
container without re-encoding. The output container is chosen by the
source codec (AAC lands in .m4a, Opus in .opus, and so on); codecs with
no dedicated container land in a Matroska audio file.

Example:
  covertrack extract-audio --source recording.mp4
  covertrack extract-audio --source recording.mp4 --output-dir ./audio`,
	RunE: runExtractAudio,
}

func init() {
	rootCmd.AddCommand(extractAudioCmd)
	extractAudioCmd.Flags().StringVar(&extractSourcePath, "source", "", "Path to source video file (required)")
	extractAudioCmd.Flags().StringVar(&extractOutputDir, "output-dir", "", "Directory for the audio file (default from config or .)")
	extractAudioCmd.MarkFlagRequired("source")
}

func runExtractAudio(cmd *cobra.Command, args []string) error {
	outputDir := extractOutputDir
	if outputDir == "" {
		outputDir = GetConfig().OutputDirectory()
	}

	return RunExtractAudioWithDependencies(
		cmd.Context(),
		av.NewRemuxer(),
		filesystem.NewChecker(),
		outputDir,
		extractSourcePath,
		DefaultOutput,
	)
}

// RunExtractAudioWithDependencies runs the extract-audio command with injected dependencies (for testing)
func RunExtractAudioWithDependencies(
	ctx context.Context,
	remuxer media.Remuxer,
	fileChecker media.FileChecker,
	outputDir string,
	sourcePath string,
	output OutputWriter,
) error {
	service := appaudio.NewExtractService(remuxer, fileChecker, outputDir)

	result, err := service.Extract(ctx, sourcePath)
	if err != nil {
		return err
	}

	fmt.Fprintf(output, "Extracted %s audio: %s (%d packets", result.Codec, result.AudioPath, result.PacketsWritten)
	if result.PacketsDropped > 0 {
		fmt.Fprintf(output, ", %d dropped", result.PacketsDropped)
	}
	fmt.Fprintln(output, ")")
	return nil
}
