package media

import "context"

// Prober inspects a media file and reports its streams and timing metadata.
// This is a port implemented by the container infrastructure adapter.
type Prober interface {
	Probe(ctx context.Context, path string) (*ContainerInfo, error)
}

// RemuxResult describes the outcome of an audio extraction
type RemuxResult struct {
	OutputPath string
	Codec      Codec
	// PacketsWritten counts packets copied into the output container
	PacketsWritten int
	// PacketsDropped counts packets skipped for lacking a decode timestamp.
	// These represent non-decodable container artifacts, not real audio
	// data, but the count is reported so a caller can see when a container
	// shed anything.
	PacketsDropped int
}

// Remuxer copies the first audio stream of a container into a new
// audio-only container without decoding or re-encoding.
type Remuxer interface {
	// RemuxFirstAudio writes {input_basename}.{ext} into outputDir, where
	// ext is the codec's Extension. Fails with ErrInputNotFound,
	// ErrNoAudioStream or ErrWriteFailed.
	RemuxFirstAudio(ctx context.Context, inputPath, outputDir string) (*RemuxResult, error)
}

// FileChecker abstracts file existence and size lookups
type FileChecker interface {
	Exists(path string) bool
	Size(path string) int64
}
