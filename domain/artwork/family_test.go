package artwork

import "testing"

func TestFamilyForExtension(t *testing.T) {
	tests := []struct {
		ext  string
		want ContainerFamily
	}{
		{".m4a", FamilyMP4},
		{".mp4", FamilyMP4},
		{".m4b", FamilyMP4},
		{".m4r", FamilyMP4},
		{".M4A", FamilyMP4},
		{".opus", FamilyOggComment},
		{".ogg", FamilyOggComment},
		{".oga", FamilyOggComment},
		{"opus", FamilyOggComment}, // leading dot optional
		{".flac", FamilyUnknown},
		{".wav", FamilyUnknown},
		{".mp3", FamilyUnknown},
		{"", FamilyUnknown},
	}

	for _, tt := range tests {
		if got := FamilyForExtension(tt.ext); got != tt.want {
			t.Errorf("FamilyForExtension(%q) = %v, want %v", tt.ext, got, tt.want)
		}
	}
}

func TestFamilyForPath(t *testing.T) {
	if got := FamilyForPath("/out/track.opus"); got != FamilyOggComment {
		t.Errorf("FamilyForPath(track.opus) = %v, want ogg", got)
	}
	if got := FamilyForPath("/out/track.m4a"); got != FamilyMP4 {
		t.Errorf("FamilyForPath(track.m4a) = %v, want mp4", got)
	}
	if got := FamilyForPath("/out/track"); got != FamilyUnknown {
		t.Errorf("FamilyForPath(track) = %v, want unknown", got)
	}
}

func TestMIMEForFormat(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"JPEG", "image/jpeg"},
		{"jpg", "image/jpeg"},
		{"PNG", "image/png"},
		{"webp", "image/webp"},
	}

	for _, tt := range tests {
		if got := MIMEForFormat(tt.format); got != tt.want {
			t.Errorf("MIMEForFormat(%q) = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestParseImageKind(t *testing.T) {
	if ParseImageKind("jpeg") != KindJPEG || ParseImageKind("jpg") != KindJPEG {
		t.Error("jpeg variants should parse to KindJPEG")
	}
	if ParseImageKind("png") != KindPNG {
		t.Error("png should parse to KindPNG")
	}
	if ParseImageKind("gif") != KindUnknown {
		t.Error("gif should parse to KindUnknown")
	}
}

func TestImageKindString(t *testing.T) {
	if got := KindJPEG.String(); got != "jpeg" {
		t.Errorf("KindJPEG.String() = %q, want jpeg", got)
	}
	if got := KindPNG.String(); got != "png" {
		t.Errorf("KindPNG.String() = %q, want png", got)
	}
	if got := KindUnknown.String(); got != "unknown" {
		t.Errorf("KindUnknown.String() = %q, want unknown", got)
	}
}
