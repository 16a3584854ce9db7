package artwork

import (
	"bytes"
	"encoding/base64"
	"testing"
)

func TestPictureEncodeDecodeRoundTrip(t *testing.T) {
	img := Image{
		Data:   []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x01, 0x02, 0x03},
		Kind:   KindJPEG,
		MIME:   "image/jpeg",
		Width:  640,
		Height: 360,
	}
	pic := NewFrontCover(img, "")

	decoded, err := DecodePicture(pic.Encode())
	if err != nil {
		t.Fatalf("DecodePicture() error = %v", err)
	}

	if decoded.Type != PictureTypeFrontCover {
		t.Errorf("Type = %d, want %d", decoded.Type, PictureTypeFrontCover)
	}
	if decoded.MIME != "image/jpeg" {
		t.Errorf("MIME = %q, want image/jpeg", decoded.MIME)
	}
	if decoded.Description != DefaultDescription {
		t.Errorf("Description = %q, want %q", decoded.Description, DefaultDescription)
	}
	if decoded.Width != 640 || decoded.Height != 360 {
		t.Errorf("dimensions = %dx%d, want 640x360", decoded.Width, decoded.Height)
	}
	if decoded.Depth != DefaultDepth {
		t.Errorf("Depth = %d, want %d", decoded.Depth, DefaultDepth)
	}
	if !bytes.Equal(decoded.Data, img.Data) {
		t.Error("image bytes did not survive the round trip")
	}
}

func TestPictureEncodeBase64(t *testing.T) {
	pic := NewFrontCover(Image{Data: []byte("png-bytes"), MIME: "image/png", Width: 2, Height: 2}, "cover")

	b64 := pic.EncodeBase64()
	if _, err := base64.StdEncoding.DecodeString(b64); err != nil {
		t.Fatalf("EncodeBase64() produced invalid base64: %v", err)
	}

	decoded, err := DecodePictureBase64(b64)
	if err != nil {
		t.Fatalf("DecodePictureBase64() error = %v", err)
	}
	if decoded.Width != 2 || decoded.Height != 2 {
		t.Errorf("dimensions = %dx%d, want 2x2", decoded.Width, decoded.Height)
	}
	if decoded.Description != "cover" {
		t.Errorf("Description = %q, want cover", decoded.Description)
	}
}

func TestDecodePictureRejectsTruncation(t *testing.T) {
	pic := NewFrontCover(Image{Data: []byte("data"), MIME: "image/png", Width: 1, Height: 1}, "")
	full := pic.Encode()

	for _, n := range []int{0, 10, 31, len(full) - 1} {
		if _, err := DecodePicture(full[:n]); err == nil {
			t.Errorf("DecodePicture() accepted %d-byte truncation", n)
		}
	}
}

func TestDecodePictureBase64RejectsGarbage(t *testing.T) {
	if _, err := DecodePictureBase64("not-base64!!"); err == nil {
		t.Error("DecodePictureBase64() accepted invalid base64")
	}
}
