package tagging

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"covertrack/domain/artwork"
)

// pictureCommentKey is the tag comment carrying the base64 picture block.
const pictureCommentKey = "METADATA_BLOCK_PICTURE"

const (
	oggFlagContinued = 0x01
	oggFlagBOS       = 0x02
)

var errMalformedOgg = errors.New("malformed ogg stream")

type oggPage struct {
	version    byte
	headerType byte
	granule    uint64
	serial     uint32
	sequence   uint32
	lacing     []byte
	payload    []byte
}

func readOggPage(r io.Reader) (*oggPage, error) {
	header := make([]byte, 27)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, err
	}
	if !bytes.Equal(header[:4], []byte("OggS")) {
		return nil, errMalformedOgg
	}

	p := &oggPage{
		version:    header[4],
		headerType: header[5],
		granule:    binary.LittleEndian.Uint64(header[6:14]),
		serial:     binary.LittleEndian.Uint32(header[14:18]),
		sequence:   binary.LittleEndian.Uint32(header[18:22]),
	}

	p.lacing = make([]byte, int(header[26]))
	if _, err := io.ReadFull(r, p.lacing); err != nil {
		return nil, fmt.Errorf("%w: %v", errMalformedOgg, err)
	}

	total := 0
	for _, l := range p.lacing {
		total += int(l)
	}
	p.payload = make([]byte, total)
	if _, err := io.ReadFull(r, p.payload); err != nil {
		return nil, fmt.Errorf("%w: %v", errMalformedOgg, err)
	}
	return p, nil
}

// encode serializes the page and fills in its checksum.
func (p *oggPage) encode() []byte {
	buf := make([]byte, 0, 27+len(p.lacing)+len(p.payload))
	buf = append(buf, "OggS"...)
	buf = append(buf, p.version, p.headerType)
	buf = binary.LittleEndian.AppendUint64(buf, p.granule)
	buf = binary.LittleEndian.AppendUint32(buf, p.serial)
	buf = binary.LittleEndian.AppendUint32(buf, p.sequence)
	buf = append(buf, 0, 0, 0, 0)
	buf = append(buf, byte(len(p.lacing)))
	buf = append(buf, p.lacing...)
	buf = append(buf, p.payload...)
	binary.LittleEndian.PutUint32(buf[22:], oggCRC(buf))
	return buf
}

// appendPackets splits the page payload along its lacing values. The bool
// reports whether the final packet continues on the next page.
func (p *oggPage) appendPackets(pending []byte) (packets [][]byte, rest []byte) {
	rest = pending
	off := 0
	for _, l := range p.lacing {
		rest = append(rest, p.payload[off:off+int(l)]...)
		off += int(l)
		if l < 255 {
			packets = append(packets, rest)
			rest = nil
		}
	}
	return packets, rest
}

// oggCodec describes the header packet layout of a codec we can retag.
type oggCodec struct {
	name          string
	commentPrefix []byte
	headerPackets int // including the identification packet on the BOS page
	framingByte   bool
}

func identifyOggCodec(bosPacket []byte) (*oggCodec, error) {
	switch {
	case bytes.HasPrefix(bosPacket, []byte("OpusHead")):
		return &oggCodec{
			name:          "opus",
			commentPrefix: []byte("OpusTags"),
			headerPackets: 2,
		}, nil
	case bytes.HasPrefix(bosPacket, []byte("\x01vorbis")):
		return &oggCodec{
			name:          "vorbis",
			commentPrefix: []byte("\x03vorbis"),
			headerPackets: 3,
			framingByte:   true,
		}, nil
	default:
		return nil, fmt.Errorf("%w: unrecognized ogg codec", artwork.ErrUnsupportedContainer)
	}
}

// rebuildComment replaces any existing picture comment in pkt with value,
// keeping the vendor string and every other comment.
func rebuildComment(pkt []byte, codec *oggCodec, value string) ([]byte, error) {
	if !bytes.HasPrefix(pkt, codec.commentPrefix) {
		return nil, fmt.Errorf("%w: missing %s comment header", errMalformedOgg, codec.name)
	}
	body := pkt[len(codec.commentPrefix):]
	off := 0

	readU32 := func() (uint32, error) {
		if off+4 > len(body) {
			return 0, fmt.Errorf("%w: truncated comment header", errMalformedOgg)
		}
		v := binary.LittleEndian.Uint32(body[off:])
		off += 4
		return v, nil
	}
	readString := func() (string, error) {
		n, err := readU32()
		if err != nil {
			return "", err
		}
		if off+int(n) > len(body) {
			return "", fmt.Errorf("%w: truncated comment entry", errMalformedOgg)
		}
		s := string(body[off : off+int(n)])
		off += int(n)
		return s, nil
	}

	vendor, err := readString()
	if err != nil {
		return nil, err
	}
	count, err := readU32()
	if err != nil {
		return nil, err
	}
	// Each comment carries at least its 4-byte length prefix, which bounds
	// how many a well-formed header of this size can claim.
	if int64(count) > int64(len(body)-off)/4 {
		return nil, fmt.Errorf("%w: comment count exceeds header size", errMalformedOgg)
	}

	comments := make([]string, 0, count+1)
	for i := uint32(0); i < count; i++ {
		c, err := readString()
		if err != nil {
			return nil, err
		}
		key, _, found := strings.Cut(c, "=")
		if found && strings.EqualFold(key, pictureCommentKey) {
			continue
		}
		comments = append(comments, c)
	}
	comments = append(comments, pictureCommentKey+"="+value)

	out := append([]byte(nil), codec.commentPrefix...)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(vendor)))
	out = append(out, vendor...)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(comments)))
	for _, c := range comments {
		out = binary.LittleEndian.AppendUint32(out, uint32(len(c)))
		out = append(out, c...)
	}
	if codec.framingByte {
		out = append(out, 0x01)
	}
	return out, nil
}

// paginatePackets lays packets out onto fresh header pages. Pages carry at
// most 255 lacing values; a packet cut at a page boundary continues on the
// next page with the continuation flag set.
func paginatePackets(packets [][]byte, serial uint32, startSeq uint32) []*oggPage {
	var lacing []byte
	var payload []byte
	for _, pkt := range packets {
		rest := pkt
		for len(rest) >= 255 {
			lacing = append(lacing, 255)
			rest = rest[255:]
		}
		lacing = append(lacing, byte(len(rest)))
		payload = append(payload, pkt...)
	}

	var pages []*oggPage
	seq := startSeq
	payloadOff := 0
	continued := false
	for len(lacing) > 0 {
		n := len(lacing)
		if n > 255 {
			n = 255
		}
		segs := lacing[:n]
		lacing = lacing[n:]

		size := 0
		for _, l := range segs {
			size += int(l)
		}

		page := &oggPage{
			serial:   serial,
			sequence: seq,
			lacing:   segs,
			payload:  payload[payloadOff : payloadOff+size],
		}
		if continued {
			page.headerType = oggFlagContinued
		}
		continued = segs[len(segs)-1] == 255
		payloadOff += size
		pages = append(pages, page)
		seq++
	}
	return pages
}

// embedOggCover rewrites the file's comment header so the picture comment
// carries img as a base64 picture block. The identification page and every
// audio page pass through unchanged apart from renumbering when the header
// grows onto extra pages.
func embedOggCover(path string, img *artwork.Image, opts artwork.EmbedOptions) error {
	src, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open audio file: %w", err)
	}
	defer src.Close()
	r := bufio.NewReader(src)

	bos, err := readOggPage(r)
	if err != nil {
		return fmt.Errorf("failed to read first ogg page: %w", err)
	}
	if bos.headerType&oggFlagBOS == 0 {
		return fmt.Errorf("%w: first page is not a stream start", errMalformedOgg)
	}

	codec, err := identifyOggCodec(bos.payload)
	if err != nil {
		return err
	}

	// Gather the remaining header packets; their pages get rebuilt.
	headers := [][]byte{}
	var pending []byte
	oldHeaderPages := uint32(0)
	var deferred []*oggPage
	for len(headers) < codec.headerPackets-1 {
		page, err := readOggPage(r)
		if err != nil {
			return fmt.Errorf("%w: stream ends inside codec headers", errMalformedOgg)
		}
		if page.serial != bos.serial {
			deferred = append(deferred, page)
			continue
		}
		oldHeaderPages++
		packets, rest := page.appendPackets(pending)
		pending = rest
		headers = append(headers, packets...)
	}
	if len(pending) > 0 || len(headers) > codec.headerPackets-1 {
		return fmt.Errorf("%w: audio data shares a page with codec headers", errMalformedOgg)
	}

	picture := artwork.NewFrontCover(*img, opts.Description)
	picture.Type = opts.PictureType
	comment, err := rebuildComment(headers[0], codec, picture.EncodeBase64())
	if err != nil {
		return err
	}
	headers[0] = comment

	newPages := paginatePackets(headers, bos.serial, bos.sequence+1)
	seqDelta := uint32(len(newPages)) - oldHeaderPages

	return replaceFile(path, func(dst *os.File) error {
		w := bufio.NewWriter(dst)
		if _, err := w.Write(bos.encode()); err != nil {
			return fmt.Errorf("failed to write stream start: %w", err)
		}
		for _, page := range newPages {
			if _, err := w.Write(page.encode()); err != nil {
				return fmt.Errorf("failed to write comment header: %w", err)
			}
		}
		for _, page := range deferred {
			if _, err := w.Write(page.encode()); err != nil {
				return fmt.Errorf("failed to write page: %w", err)
			}
		}
		for {
			page, err := readOggPage(r)
			if err == io.EOF {
				break
			}
			if err != nil {
				return fmt.Errorf("failed to read page: %w", err)
			}
			if page.serial == bos.serial {
				page.sequence += seqDelta
			}
			if _, err := w.Write(page.encode()); err != nil {
				return fmt.Errorf("failed to write page: %w", err)
			}
		}
		return w.Flush()
	})
}
