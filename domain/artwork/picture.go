package artwork

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
)

// Picture type codes from the ID3v2 APIC table, shared by the picture
// metadata block convention.
const (
	// PictureTypeFrontCover marks the image as the release's front cover
	PictureTypeFrontCover = 3

	// DefaultDescription labels pipeline-embedded covers
	DefaultDescription = "Cover (front)"

	// DefaultDepth is the color depth recorded for decoded RGB covers
	DefaultDepth = 24
)

// Picture is the self-describing structure a tag-comment container embeds.
// Its binary layout (all integers big-endian):
//
//	4 bytes  picture type
//	4 bytes  MIME length, then MIME string
//	4 bytes  description length, then description (UTF-8)
//	4 bytes  width
//	4 bytes  height
//	4 bytes  color depth
//	4 bytes  indexed color count (0 for non-indexed)
//	4 bytes  image data length, then image data
type Picture struct {
	Type          uint32
	MIME          string
	Description   string
	Width         uint32
	Height        uint32
	Depth         uint32
	IndexedColors uint32
	Data          []byte
}

// NewFrontCover builds the Picture for a prepared cover image
func NewFrontCover(img Image, description string) Picture {
	if description == "" {
		description = DefaultDescription
	}
	return Picture{
		Type:        PictureTypeFrontCover,
		MIME:        img.MIME,
		Description: description,
		Width:       uint32(img.Width),
		Height:      uint32(img.Height),
		Depth:       DefaultDepth,
		Data:        img.Data,
	}
}

// Encode serializes the picture into its binary layout
func (p Picture) Encode() []byte {
	size := 4 + 4 + len(p.MIME) + 4 + len(p.Description) + 4*4 + 4 + len(p.Data)
	buf := make([]byte, 0, size)

	buf = binary.BigEndian.AppendUint32(buf, p.Type)
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(p.MIME)))
	buf = append(buf, p.MIME...)
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(p.Description)))
	buf = append(buf, p.Description...)
	buf = binary.BigEndian.AppendUint32(buf, p.Width)
	buf = binary.BigEndian.AppendUint32(buf, p.Height)
	buf = binary.BigEndian.AppendUint32(buf, p.Depth)
	buf = binary.BigEndian.AppendUint32(buf, p.IndexedColors)
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(p.Data)))
	buf = append(buf, p.Data...)

	return buf
}

// EncodeBase64 serializes and base64-encodes the picture, ready to be
// stored as a tag comment value
func (p Picture) EncodeBase64() string {
	return base64.StdEncoding.EncodeToString(p.Encode())
}

// DecodePicture parses the binary picture layout. Used to verify embedded
// covers and to replace existing ones without re-guessing dimensions.
func DecodePicture(data []byte) (Picture, error) {
	// Fixed fields alone take 32 bytes
	if len(data) < 32 {
		return Picture{}, fmt.Errorf("picture block too small: %d bytes", len(data))
	}

	var p Picture
	offset := 0

	read32 := func(what string) (uint32, error) {
		if offset+4 > len(data) {
			return 0, fmt.Errorf("picture block truncated reading %s", what)
		}
		v := binary.BigEndian.Uint32(data[offset:])
		offset += 4
		return v, nil
	}
	readBytes := func(n uint32, what string) ([]byte, error) {
		if offset+int(n) > len(data) {
			return nil, fmt.Errorf("picture block truncated reading %s", what)
		}
		b := data[offset : offset+int(n)]
		offset += int(n)
		return b, nil
	}

	var err error
	if p.Type, err = read32("picture type"); err != nil {
		return Picture{}, err
	}

	mimeLen, err := read32("MIME length")
	if err != nil {
		return Picture{}, err
	}
	mime, err := readBytes(mimeLen, "MIME type")
	if err != nil {
		return Picture{}, err
	}
	p.MIME = string(mime)

	descLen, err := read32("description length")
	if err != nil {
		return Picture{}, err
	}
	desc, err := readBytes(descLen, "description")
	if err != nil {
		return Picture{}, err
	}
	p.Description = string(desc)

	if p.Width, err = read32("width"); err != nil {
		return Picture{}, err
	}
	if p.Height, err = read32("height"); err != nil {
		return Picture{}, err
	}
	if p.Depth, err = read32("color depth"); err != nil {
		return Picture{}, err
	}
	if p.IndexedColors, err = read32("indexed colors"); err != nil {
		return Picture{}, err
	}

	dataLen, err := read32("image data length")
	if err != nil {
		return Picture{}, err
	}
	img, err := readBytes(dataLen, "image data")
	if err != nil {
		return Picture{}, err
	}
	p.Data = img

	return p, nil
}

// DecodePictureBase64 decodes a tag comment value back into a Picture
func DecodePictureBase64(value string) (Picture, error) {
	raw, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return Picture{}, fmt.Errorf("invalid base64 picture block: %w", err)
	}
	return DecodePicture(raw)
}
