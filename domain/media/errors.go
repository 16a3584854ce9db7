package media

import "errors"

var (
	// ErrInputNotFound is returned when the source media file does not exist
	ErrInputNotFound = errors.New("input file not found")

	// ErrNoAudioStream is returned when the container has no audio stream
	ErrNoAudioStream = errors.New("no audio stream found in input file")

	// ErrNoVideoStream is returned when the container has no video stream
	ErrNoVideoStream = errors.New("no video stream found in input file")

	// ErrDurationUnknown is returned when neither container-level nor
	// stream-level timing metadata is present
	ErrDurationUnknown = errors.New("could not determine media duration")

	// ErrNoFrameDecoded is returned when no frame could be decoded across
	// every sampling attempt
	ErrNoFrameDecoded = errors.New("no frame could be decoded at any attempted timestamp")

	// ErrWriteFailed is returned when muxing to the output container fails
	ErrWriteFailed = errors.New("failed to write output container")
)
