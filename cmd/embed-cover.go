package cmd

import (
	"fmt"

	appartwork "covertrack/application/artwork"
	domartwork "covertrack/domain/artwork"
	"covertrack/domain/media"
	"covertrack/infrastructure/filesystem"
	"covertrack/infrastructure/imaging"
	"covertrack/infrastructure/tagging"

	"github.com/spf13/cobra"
)

var (
	embedAudioPath   string
	embedImagePath   string
	embedMaxSide     int
	embedQuality     int
	embedDescription string
	embedVerify      bool
)

var embedCoverCmd = &cobra.Command{
	Use:   "embed-cover",
	Short: "Embed an image as cover art in an audio file",
	Long: `Embed a JPEG or PNG image as the front cover of an audio file.
MP4-family containers (.m4a, .mp4, .m4b, .m4r) get a covr atom;
Ogg-family containers (.opus, .ogg, .oga) get a base64 picture comment.
Images larger than the maximum side are downscaled proportionally first.

Example:
  covertrack embed-cover --audio talk.m4a --image cover.png
  covertrack embed-cover --audio talk.opus --image cover.jpg --max-side 1000 --verify`,
	RunE: runEmbedCover,
}

func init() {
	rootCmd.AddCommand(embedCoverCmd)
	embedCoverCmd.Flags().StringVar(&embedAudioPath, "audio", "", "Path to audio file (required)")
	embedCoverCmd.Flags().StringVar(&embedImagePath, "image", "", "Path to cover image (required)")
	embedCoverCmd.Flags().IntVar(&embedMaxSide, "max-side", 0, "Maximum image side in pixels, 0 keeps the original size")
	embedCoverCmd.Flags().IntVar(&embedQuality, "jpeg-quality", 0, "JPEG re-encode quality (default 90)")
	embedCoverCmd.Flags().StringVar(&embedDescription, "description", "", "Cover description for comment-based containers")
	embedCoverCmd.Flags().BoolVar(&embedVerify, "verify", false, "Re-read the cover after embedding and compare")
	embedCoverCmd.MarkFlagRequired("audio")
	embedCoverCmd.MarkFlagRequired("image")
}

func runEmbedCover(cmd *cobra.Command, args []string) error {
	prepareOpts := domartwork.PrepareOptions{
		MaxSide:     embedMaxSide,
		JPEGQuality: embedQuality,
	}
	if c := GetConfig(); c != nil {
		if prepareOpts.MaxSide == 0 {
			prepareOpts.MaxSide = c.Artwork.MaxImageSide
		}
		if prepareOpts.JPEGQuality == 0 {
			prepareOpts.JPEGQuality = c.Artwork.JPEGQuality
		}
		if embedDescription == "" {
			embedDescription = c.Artwork.Description
		}
	}

	input := appartwork.EmbedInput{
		AudioPath:   embedAudioPath,
		ImagePath:   embedImagePath,
		Description: embedDescription,
		Verify:      embedVerify,
	}
	return RunEmbedCoverWithDependencies(
		imaging.NewPreparer(),
		tagging.NewEmbedder(),
		filesystem.NewChecker(),
		prepareOpts,
		input,
		DefaultOutput,
	)
}

// RunEmbedCoverWithDependencies runs the embed-cover command with injected dependencies (for testing)
func RunEmbedCoverWithDependencies(
	preparer domartwork.Preparer,
	embedder domartwork.Embedder,
	fileChecker media.FileChecker,
	prepareOpts domartwork.PrepareOptions,
	input appartwork.EmbedInput,
	output OutputWriter,
) error {
	service := appartwork.NewEmbedService(preparer, embedder, fileChecker, prepareOpts)

	result, err := service.Embed(input)
	if err != nil {
		return err
	}

	fmt.Fprintf(output, "Cover embedded in %s (%dx%d %s, %d bytes)\n",
		input.AudioPath, result.Width, result.Height, result.MIME, result.Bytes)
	return nil
}
