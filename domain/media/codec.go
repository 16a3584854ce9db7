package media

// Codec identifies an audio codec the remuxer knows how to place into an
// output container. Unknown codecs are still remuxed; they land in the
// generic multiplexed-audio container (see Extension).
type Codec int

const (
	// CodecUnknown is any codec without a dedicated output container
	CodecUnknown Codec = iota
	CodecAAC
	CodecALAC
	CodecMP3
	CodecFLAC
	CodecOpus
	CodecVorbis
	CodecPCMS16LE
	CodecPCMS24LE
	CodecAC3
	CodecDTS
)

// fallbackExtension is the generic multiplexed-audio container used for
// codecs without a dedicated extension.
const fallbackExtension = "mka"

// ParseCodec maps a codec identifier string (as reported by the container
// prober) onto a known codec. Unrecognized names map to CodecUnknown.
func ParseCodec(name string) Codec {
	switch name {
	case "aac":
		return CodecAAC
	case "alac":
		return CodecALAC
	case "mp3":
		return CodecMP3
	case "flac":
		return CodecFLAC
	case "opus":
		return CodecOpus
	case "vorbis":
		return CodecVorbis
	case "pcm_s16le":
		return CodecPCMS16LE
	case "pcm_s24le":
		return CodecPCMS24LE
	case "ac3":
		return CodecAC3
	case "dts":
		return CodecDTS
	default:
		return CodecUnknown
	}
}

// String returns the canonical codec identifier
func (c Codec) String() string {
	switch c {
	case CodecAAC:
		return "aac"
	case CodecALAC:
		return "alac"
	case CodecMP3:
		return "mp3"
	case CodecFLAC:
		return "flac"
	case CodecOpus:
		return "opus"
	case CodecVorbis:
		return "vorbis"
	case CodecPCMS16LE:
		return "pcm_s16le"
	case CodecPCMS24LE:
		return "pcm_s24le"
	case CodecAC3:
		return "ac3"
	case CodecDTS:
		return "dts"
	default:
		return "unknown"
	}
}

// Extension returns the output file extension (without dot) used when
// extracting a stream of this codec into its own container.
func (c Codec) Extension() string {
	switch c {
	case CodecAAC, CodecALAC:
		return "m4a"
	case CodecMP3:
		return "mp3"
	case CodecFLAC:
		return "flac"
	case CodecOpus:
		return "opus"
	case CodecVorbis:
		return "ogg"
	case CodecPCMS16LE, CodecPCMS24LE:
		return "wav"
	case CodecAC3:
		return "ac3"
	case CodecDTS:
		return "dts"
	default:
		return fallbackExtension
	}
}
