package cmd

import (
	"context"
	"fmt"

	"covertrack/domain/media"
	"covertrack/infrastructure/av"

	"github.com/spf13/cobra"
)

var probeCmd = &cobra.Command{
	Use:   "probe <file>",
	Short: "Show a media file's streams and audio summary",
	Long: `Inspect a media file and print its streams, duration and a digest of
the first audio stream: codec, derived bitrate and the 44.1/48 kHz family
its sample rate belongs to.

Example:
  covertrack probe recording.mp4`,
	Args: cobra.ExactArgs(1),
	RunE: runProbe,
}

func init() {
	rootCmd.AddCommand(probeCmd)
}

func runProbe(cmd *cobra.Command, args []string) error {
	return RunProbeWithDependencies(cmd.Context(), av.NewProber(), args[0], DefaultOutput)
}

// RunProbeWithDependencies runs the probe command with injected dependencies (for testing)
func RunProbeWithDependencies(ctx context.Context, prober media.Prober, path string, output OutputWriter) error {
	info, err := prober.Probe(ctx, path)
	if err != nil {
		return err
	}

	fmt.Fprintf(output, "%s (%d bytes)\n", info.Path, info.FileSize)
	for _, s := range info.Streams {
		fmt.Fprintf(output, "  #%d %s %s", s.Index, s.Type, s.CodecName)
		switch s.Type {
		case media.StreamAudio:
			fmt.Fprintf(output, " %dHz %dch", s.SampleRate, s.Channels)
		case media.StreamVideo:
			fmt.Fprintf(output, " %dx%d", s.Width, s.Height)
		}
		fmt.Fprintln(output)
	}

	summary, err := media.Summarize(info)
	if err != nil {
		return err
	}
	fmt.Fprintf(output, "Audio: %s, %.1fs, %s, %dHz family %d, %d channel(s)\n",
		summary.Codec, summary.DurationSeconds, summary.Kbps(),
		summary.SampleRate, summary.BaseSampleRate, summary.Channels)
	return nil
}
