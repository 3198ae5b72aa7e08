package docfile

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"sort"

	"inkline/pkg/doctree"
)

const (
	MagicString = "INKLINE_DOC"
	VersionV1   = uint16(1)

	headerSize = len(MagicString) + 2 + 8 + 4
	tocEntSize = 1 + 8 + 4 + 4
)

type BlockKind uint8

const (
	BlockKindMetadata BlockKind = 0
	BlockKindBody     BlockKind = 1
)

type tocEntry struct {
	Kind   BlockKind
	Offset uint64
	Length uint32
	CRC32  uint32
}

type payloadEntry struct {
	Kind    BlockKind
	Payload []byte
}

// encodeContainer lays out header, table of contents, then the metadata and
// body payloads in that order.
func encodeContainer(doc *Document) ([]byte, error) {
	body, err := doctree.OuterHTML(doc.Root)
	if err != nil {
		return nil, fmt.Errorf("encode body: %w", err)
	}
	payloads := []payloadEntry{
		{Kind: BlockKindMetadata, Payload: encodeMetadata(doc.Metadata)},
		{Kind: BlockKindBody, Payload: []byte(body)},
	}

	tocOffset := uint64(headerSize)
	out := make([]byte, headerSize+len(payloads)*tocEntSize)
	copy(out, MagicString)
	ptr := len(MagicString)
	binary.LittleEndian.PutUint16(out[ptr:ptr+2], VersionV1)
	binary.LittleEndian.PutUint64(out[ptr+2:ptr+10], tocOffset)
	binary.LittleEndian.PutUint32(out[ptr+10:ptr+14], uint32(len(payloads)))

	ptr = headerSize
	for _, p := range payloads {
		e := tocEntry{
			Kind:   p.Kind,
			Offset: uint64(len(out)),
			Length: uint32(len(p.Payload)),
			CRC32:  crc32.ChecksumIEEE(p.Payload),
		}
		out[ptr] = byte(e.Kind)
		binary.LittleEndian.PutUint64(out[ptr+1:ptr+9], e.Offset)
		binary.LittleEndian.PutUint32(out[ptr+9:ptr+13], e.Length)
		binary.LittleEndian.PutUint32(out[ptr+13:ptr+17], e.CRC32)
		ptr += tocEntSize
		out = append(out, p.Payload...)
	}
	return out, nil
}

func decodeContainer(blob []byte) (*Document, error) {
	if len(blob) < headerSize || string(blob[:len(MagicString)]) != MagicString {
		return nil, ErrInvalidMagic
	}
	ptr := len(MagicString)
	if v := binary.LittleEndian.Uint16(blob[ptr : ptr+2]); v != VersionV1 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVer, v)
	}
	tocOffset := binary.LittleEndian.Uint64(blob[ptr+2 : ptr+10])
	tocCount := binary.LittleEndian.Uint32(blob[ptr+10 : ptr+14])
	if tocOffset > uint64(len(blob)) {
		return nil, ErrInvalidTOC
	}
	if tocOffset+uint64(tocCount)*uint64(tocEntSize) > uint64(len(blob)) {
		return nil, ErrInvalidTOC
	}

	entries := make([]tocEntry, 0, tocCount)
	ptr = int(tocOffset)
	for i := 0; i < int(tocCount); i++ {
		entries = append(entries, tocEntry{
			Kind:   BlockKind(blob[ptr]),
			Offset: binary.LittleEndian.Uint64(blob[ptr+1 : ptr+9]),
			Length: binary.LittleEndian.Uint32(blob[ptr+9 : ptr+13]),
			CRC32:  binary.LittleEndian.Uint32(blob[ptr+13 : ptr+17]),
		})
		ptr += tocEntSize
	}
	if err := validateEntryRanges(entries, len(blob)); err != nil {
		return nil, err
	}

	doc := &Document{}
	for _, e := range entries {
		payload := blob[e.Offset : e.Offset+uint64(e.Length)]
		if crc32.ChecksumIEEE(payload) != e.CRC32 {
			return nil, fmt.Errorf("docfile: crc mismatch for block kind %d", e.Kind)
		}
		switch e.Kind {
		case BlockKindMetadata:
			m, err := decodeMetadata(payload)
			if err != nil {
				return nil, err
			}
			doc.Metadata = m
		case BlockKindBody:
			root, err := decodeBody(payload)
			if err != nil {
				return nil, err
			}
			doc.Root = root
		default:
			// Unknown kinds stay skippable through the TOC.
		}
	}
	if doc.Root == nil {
		return nil, ErrMissingBody
	}
	return doc, nil
}

func decodeBody(payload []byte) (*doctree.Node, error) {
	wrapper, err := doctree.ParseHTML(string(payload))
	if err != nil {
		return nil, fmt.Errorf("decode body: %w", err)
	}
	for _, c := range wrapper.Children() {
		if c.IsElement() {
			c.Remove()
			return c, nil
		}
	}
	return nil, ErrMissingBody
}

func validateEntryRanges(entries []tocEntry, fileLen int) error {
	type rng struct{ start, end uint64 }
	ranges := make([]rng, 0, len(entries))
	for _, e := range entries {
		end := e.Offset + uint64(e.Length)
		if e.Offset < uint64(headerSize) || end > uint64(fileLen) {
			return ErrInvalidBlockRange
		}
		ranges = append(ranges, rng{start: e.Offset, end: end})
	}
	sort.Slice(ranges, func(i, j int) bool { return ranges[i].start < ranges[j].start })
	for i := 1; i < len(ranges); i++ {
		if ranges[i].start < ranges[i-1].end {
			return ErrOverlappingBlocks
		}
	}
	return nil
}

func encodeMetadata(m Metadata) []byte {
	out := make([]byte, 0, 64)
	out = appendString(out, m.Author)
	out = appendString(out, m.Title)
	out = appendU64(out, uint64(m.CreatedUnix))
	out = appendU64(out, uint64(m.ModifiedUnix))
	out = appendString(out, m.BaseStyle)
	return out
}

func decodeMetadata(b []byte) (Metadata, error) {
	var m Metadata
	var ok bool
	if m.Author, b, ok = readString(b); !ok {
		return m, errors.New("docfile: malformed metadata author")
	}
	if m.Title, b, ok = readString(b); !ok {
		return m, errors.New("docfile: malformed metadata title")
	}
	if len(b) < 16 {
		return m, errors.New("docfile: malformed metadata timestamps")
	}
	m.CreatedUnix = int64(binary.LittleEndian.Uint64(b[:8]))
	m.ModifiedUnix = int64(binary.LittleEndian.Uint64(b[8:16]))
	b = b[16:]
	if len(b) == 0 {
		return m, nil
	}
	if m.BaseStyle, _, ok = readString(b); !ok {
		return m, errors.New("docfile: malformed metadata base style")
	}
	return m, nil
}

func appendString(dst []byte, s string) []byte {
	dst = appendU32(dst, uint32(len(s)))
	return append(dst, s...)
}

func readString(src []byte) (string, []byte, bool) {
	if len(src) < 4 {
		return "", nil, false
	}
	ln := int(binary.LittleEndian.Uint32(src[:4]))
	src = src[4:]
	if len(src) < ln {
		return "", nil, false
	}
	return string(src[:ln]), src[ln:], true
}

func appendU32(dst []byte, v uint32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return append(dst, b[:]...)
}

func appendU64(dst []byte, v uint64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return append(dst, b[:]...)
}
