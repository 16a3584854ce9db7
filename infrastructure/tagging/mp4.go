package tagging

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"covertrack/domain/artwork"
)

// Data atom well-known type codes for covr payloads.
const (
	mp4CoverJPEG = 13
	mp4CoverPNG  = 14
)

var errTruncatedAtom = errors.New("truncated atom")

// atom is a parsed MPEG-4 box. Containers hold children; leaves keep their
// raw payload. The meta atom is both: its 4-byte version/flags prefix stays
// in data while the boxes after it become children.
type atom struct {
	kind     string
	data     []byte
	children []*atom
}

var mp4Containers = map[string]bool{
	"moov": true,
	"udta": true,
	"meta": true,
	"ilst": true,
	"trak": true,
	"mdia": true,
	"minf": true,
	"stbl": true,
}

func containerPrefixLen(kind string) int {
	if kind == "meta" {
		return 4
	}
	return 0
}

func parseAtoms(data []byte) ([]*atom, error) {
	var atoms []*atom
	off := 0
	for off < len(data) {
		if len(data)-off < 8 {
			return nil, errTruncatedAtom
		}
		size := int64(binary.BigEndian.Uint32(data[off:]))
		kind := string(data[off+4 : off+8])
		headerLen := 8
		switch size {
		case 0:
			size = int64(len(data) - off)
		case 1:
			if len(data)-off < 16 {
				return nil, errTruncatedAtom
			}
			size = int64(binary.BigEndian.Uint64(data[off+8:]))
			headerLen = 16
		}
		if size < int64(headerLen) || int64(off)+size > int64(len(data)) {
			return nil, errTruncatedAtom
		}
		payload := data[off+headerLen : off+int(size)]

		a := &atom{kind: kind}
		if mp4Containers[kind] {
			prefix := containerPrefixLen(kind)
			if len(payload) < prefix {
				return nil, errTruncatedAtom
			}
			a.data = append([]byte(nil), payload[:prefix]...)
			children, err := parseAtoms(payload[prefix:])
			if err != nil {
				return nil, fmt.Errorf("in %s: %w", kind, err)
			}
			a.children = children
		} else {
			a.data = append([]byte(nil), payload...)
		}
		atoms = append(atoms, a)
		off += int(size)
	}
	return atoms, nil
}

func (a *atom) size() int {
	n := 8 + len(a.data)
	for _, c := range a.children {
		n += c.size()
	}
	return n
}

func (a *atom) encodeTo(buf []byte) []byte {
	buf = binary.BigEndian.AppendUint32(buf, uint32(a.size()))
	buf = append(buf, a.kind...)
	buf = append(buf, a.data...)
	for _, c := range a.children {
		buf = c.encodeTo(buf)
	}
	return buf
}

func (a *atom) encode() []byte {
	return a.encodeTo(make([]byte, 0, a.size()))
}

func (a *atom) child(kind string) *atom {
	for _, c := range a.children {
		if c.kind == kind {
			return c
		}
	}
	return nil
}

func (a *atom) ensureChild(kind string) *atom {
	if c := a.child(kind); c != nil {
		return c
	}
	c := &atom{kind: kind, data: make([]byte, containerPrefixLen(kind))}
	a.children = append(a.children, c)
	return c
}

func (a *atom) replaceChild(kind string, repl *atom) {
	for i, c := range a.children {
		if c.kind == kind {
			a.children[i] = repl
			return
		}
	}
	a.children = append(a.children, repl)
}

// mp4MetaHandler is the hdlr payload iTunes-style metadata requires before
// an ilst is honored: mdir handler, appl manufacturer.
func mp4MetaHandler() []byte {
	data := make([]byte, 0, 25)
	data = append(data, make([]byte, 8)...)
	data = append(data, "mdirappl"...)
	data = append(data, make([]byte, 9)...)
	return data
}

func coverDataAtom(img *artwork.Image) (*atom, error) {
	var code uint32
	switch img.Kind {
	case artwork.KindJPEG:
		code = mp4CoverJPEG
	case artwork.KindPNG:
		code = mp4CoverPNG
	default:
		return nil, fmt.Errorf("%w: %s", artwork.ErrUnsupportedImage, img.MIME)
	}

	payload := make([]byte, 0, 8+len(img.Data))
	payload = binary.BigEndian.AppendUint32(payload, code)
	payload = append(payload, 0, 0, 0, 0)
	payload = append(payload, img.Data...)
	return &atom{kind: "data", data: payload}, nil
}

// setCover installs the cover under moov/udta/meta/ilst/covr, creating the
// metadata chain when the file has none. An existing covr is replaced
// wholesale, including any stacked alternates.
func setCover(moov *atom, img *artwork.Image) error {
	dataAtom, err := coverDataAtom(img)
	if err != nil {
		return err
	}

	udta := moov.ensureChild("udta")
	meta := udta.child("meta")
	if meta == nil {
		meta = &atom{kind: "meta", data: make([]byte, 4)}
		meta.children = append(meta.children, &atom{kind: "hdlr", data: mp4MetaHandler()})
		udta.children = append(udta.children, meta)
	}
	ilst := meta.ensureChild("ilst")

	covr := &atom{kind: "covr", children: []*atom{dataAtom}}
	ilst.replaceChild("covr", covr)
	return nil
}

// shiftChunkOffsets adjusts every stco/co64 entry under moov by delta.
// Needed when a moov placed ahead of mdat grows or shrinks, moving the
// media data the chunk offsets point into.
func shiftChunkOffsets(moov *atom, delta int64) {
	for _, trak := range moov.children {
		if trak.kind != "trak" {
			continue
		}
		mdia := trak.child("mdia")
		if mdia == nil {
			continue
		}
		minf := mdia.child("minf")
		if minf == nil {
			continue
		}
		stbl := minf.child("stbl")
		if stbl == nil {
			continue
		}
		if stco := stbl.child("stco"); stco != nil {
			shiftOffsets32(stco.data, delta)
		}
		if co64 := stbl.child("co64"); co64 != nil {
			shiftOffsets64(co64.data, delta)
		}
	}
}

func shiftOffsets32(data []byte, delta int64) {
	if len(data) < 8 {
		return
	}
	count := int(binary.BigEndian.Uint32(data[4:]))
	for i := 0; i < count && 8+4*(i+1) <= len(data); i++ {
		pos := 8 + 4*i
		v := int64(binary.BigEndian.Uint32(data[pos:])) + delta
		binary.BigEndian.PutUint32(data[pos:], uint32(v))
	}
}

func shiftOffsets64(data []byte, delta int64) {
	if len(data) < 8 {
		return
	}
	count := int(binary.BigEndian.Uint32(data[4:]))
	for i := 0; i < count && 8+8*(i+1) <= len(data); i++ {
		pos := 8 + 8*i
		v := int64(binary.BigEndian.Uint64(data[pos:])) + delta
		binary.BigEndian.PutUint64(data[pos:], uint64(v))
	}
}

type topLevelAtom struct {
	kind   string
	offset int64
	size   int64
}

func scanTopLevelAtoms(r io.ReaderAt, fileSize int64) ([]topLevelAtom, error) {
	var atoms []topLevelAtom
	header := make([]byte, 16)
	var off int64
	for off < fileSize {
		if fileSize-off < 8 {
			return nil, errTruncatedAtom
		}
		if _, err := r.ReadAt(header[:8], off); err != nil {
			return nil, fmt.Errorf("failed to read atom header: %w", err)
		}
		size := int64(binary.BigEndian.Uint32(header))
		kind := string(header[4:8])
		switch size {
		case 0:
			size = fileSize - off
		case 1:
			if _, err := r.ReadAt(header[8:16], off+8); err != nil {
				return nil, fmt.Errorf("failed to read extended atom size: %w", err)
			}
			size = int64(binary.BigEndian.Uint64(header[8:16]))
		}
		if size < 8 || off+size > fileSize {
			return nil, errTruncatedAtom
		}
		atoms = append(atoms, topLevelAtom{kind: kind, offset: off, size: size})
		off += size
	}
	return atoms, nil
}

// embedMP4Cover rewrites the file with a covr atom carrying img. Only the
// moov atom is rebuilt; everything around it is streamed through untouched,
// with chunk offsets patched when the moov precedes the media data.
func embedMP4Cover(path string, img *artwork.Image) error {
	src, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open audio file: %w", err)
	}
	defer src.Close()

	st, err := src.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat audio file: %w", err)
	}

	tops, err := scanTopLevelAtoms(src, st.Size())
	if err != nil {
		return fmt.Errorf("failed to scan atoms: %w", err)
	}

	var moovTop, mdatTop *topLevelAtom
	for i := range tops {
		switch tops[i].kind {
		case "moov":
			moovTop = &tops[i]
		case "mdat":
			if mdatTop == nil {
				mdatTop = &tops[i]
			}
		}
	}
	if moovTop == nil {
		return errors.New("no moov atom found")
	}

	moovBytes := make([]byte, moovTop.size)
	if _, err := src.ReadAt(moovBytes, moovTop.offset); err != nil {
		return fmt.Errorf("failed to read moov atom: %w", err)
	}
	parsed, err := parseAtoms(moovBytes)
	if err != nil {
		return fmt.Errorf("failed to parse moov atom: %w", err)
	}
	moov := parsed[0]

	if err := setCover(moov, img); err != nil {
		return err
	}

	delta := int64(moov.size()) - moovTop.size
	if delta != 0 && mdatTop != nil && moovTop.offset < mdatTop.offset {
		shiftChunkOffsets(moov, delta)
	}
	rebuilt := moov.encode()

	return replaceFile(path, func(dst *os.File) error {
		if _, err := io.Copy(dst, io.NewSectionReader(src, 0, moovTop.offset)); err != nil {
			return fmt.Errorf("failed to copy leading atoms: %w", err)
		}
		if _, err := dst.Write(rebuilt); err != nil {
			return fmt.Errorf("failed to write moov atom: %w", err)
		}
		tailOffset := moovTop.offset + moovTop.size
		if _, err := io.Copy(dst, io.NewSectionReader(src, tailOffset, st.Size()-tailOffset)); err != nil {
			return fmt.Errorf("failed to copy media data: %w", err)
		}
		return nil
	})
}
