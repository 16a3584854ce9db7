package cmd

import (
	"errors"
	"fmt"
	"os"

	"covertrack/domain/artwork"
	"covertrack/domain/media"
	"covertrack/infrastructure/config"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "covertrack",
	Short: "Turn video recordings into cover-tagged audio files",
	Long: `covertrack extracts the audio track of a video recording without
re-encoding, picks a representative video frame, and embeds it as cover
art in the resulting audio file:

  - Remux the first audio stream into a matching audio container
  - Sample a frame near a fraction of the duration, skipping solid frames
  - Embed the frame as front cover (MP4 atom or Ogg comment)

Example:
  covertrack process --source recording.mp4`,
}

// Execute runs the root command, mapping failures onto exit codes:
// 2 missing input, 3 no video stream, 4 no audio stream, 10 for any other
// pipeline failure, 1 otherwise.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
}

func exitCodeFor(err error) int {
	switch {
	case errors.Is(err, media.ErrInputNotFound):
		return 2
	case errors.Is(err, media.ErrNoVideoStream):
		return 3
	case errors.Is(err, media.ErrNoAudioStream):
		return 4
	case errors.Is(err, media.ErrDurationUnknown),
		errors.Is(err, media.ErrNoFrameDecoded),
		errors.Is(err, media.ErrWriteFailed),
		errors.Is(err, artwork.ErrUnsupportedContainer),
		errors.Is(err, artwork.ErrUnsupportedImage):
		return 10
	default:
		return 1
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml)")
}

func initConfig() {
	if cfgFile == "" {
		cfgFile = "config/config.yaml"
	}

	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		// Config file is optional; commands fall back to defaults
		cfg = nil
	}
}

// GetConfig returns the loaded configuration, which may be nil
func GetConfig() *config.Config {
	return cfg
}
