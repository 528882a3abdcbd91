package exif

import (
	"encoding/binary"
	"errors"
	"strings"
)

// JPEG markers.
const (
	markerSOI  = 0xD8
	markerAPP1 = 0xE1
	markerSOS  = 0xDA
	markerTEM  = 0x01
	markerRST0 = 0xD0
	markerRST7 = 0xD7
)

// TIFF tags.
const (
	tagMake             = 0x010F
	tagModel            = 0x0110
	tagOrientation      = 0x0112
	tagExifIFDPointer   = 0x8769
	tagDateTimeOriginal = 0x9003
)

// TIFF field types.
const (
	typeASCII = 2
	typeShort = 3
	typeLong  = 4
)

const ifdEntrySize = 12

var exifSignature = []byte{'E', 'x', 'i', 'f', 0, 0}

var errMalformed = errors.New("exif: malformed tiff structure")

// Metadata is the subset of EXIF a thumbnail needs. Empty strings mean the
// field was absent.
type Metadata struct {
	Orientation      int
	Make             string
	Model            string
	DateTimeOriginal string
}

// Default is the metadata assumed when a buffer carries no usable EXIF.
func Default() Metadata {
	return Metadata{Orientation: 1}
}

// Camera joins make and model into one label. Models that already start
// with the make ("Canon" / "Canon EOS R5") are not repeated.
func (m Metadata) Camera() string {
	mk := strings.TrimSpace(m.Make)
	model := strings.TrimSpace(m.Model)
	switch {
	case mk == "":
		return model
	case model == "":
		return mk
	case strings.HasPrefix(strings.ToLower(model), strings.ToLower(mk)):
		return model
	default:
		return mk + " " + model
	}
}

// Extract parses EXIF metadata from a JPEG buffer.
func Extract(data []byte) Metadata {
	if len(data) < 4 || data[0] != 0xFF || data[1] != markerSOI {
		return Default()
	}

	offset := 2
	for offset+2 <= len(data) {
		if data[offset] != 0xFF {
			return Default()
		}
		marker := data[offset+1]
		if marker == 0xFF {
			// fill byte
			offset++
			continue
		}
		offset += 2

		if marker == markerSOS {
			break
		}
		if marker == markerTEM || (marker >= markerRST0 && marker <= markerRST7) {
			continue
		}

		if offset+2 > len(data) {
			return Default()
		}
		size := int(binary.BigEndian.Uint16(data[offset:]))
		if size < 2 || offset+size > len(data) {
			return Default()
		}

		if marker == markerAPP1 {
			segment := data[offset+2 : offset+size]
			if len(segment) >= len(exifSignature) && string(segment[:len(exifSignature)]) == string(exifSignature) {
				md, err := parseTIFF(segment[len(exifSignature):])
				if err != nil {
					return Default()
				}
				return md
			}
		}

		offset += size
	}

	return Default()
}

// tiffReader reads fields from a TIFF header-relative buffer.
type tiffReader struct {
	buf   []byte
	order binary.ByteOrder
}

func (r tiffReader) u16(pos int) (uint16, error) {
	if pos < 0 || pos+2 > len(r.buf) {
		return 0, errMalformed
	}
	return r.order.Uint16(r.buf[pos:]), nil
}

func (r tiffReader) u32(pos int) (uint32, error) {
	if pos < 0 || pos+4 > len(r.buf) {
		return 0, errMalformed
	}
	return r.order.Uint32(r.buf[pos:]), nil
}

// ascii reads up to n bytes at pos, stopping at the first NUL.
func (r tiffReader) ascii(pos, n int) (string, error) {
	if pos < 0 || n < 0 || pos+n > len(r.buf) {
		return "", errMalformed
	}
	raw := r.buf[pos : pos+n]
	if i := indexNUL(raw); i >= 0 {
		raw = raw[:i]
	}
	return string(raw), nil
}

func indexNUL(b []byte) int {
	for i, c := range b {
		if c == 0 {
			return i
		}
	}
	return -1
}

// entry is one decoded IFD entry.
type entry struct {
	tag      uint16
	typ      uint16
	count    uint32
	valuePos int // position of the value field inside the entry
}

func typeSize(typ uint16) int {
	switch typ {
	case typeASCII:
		return 1
	case typeShort:
		return 2
	case typeLong:
		return 4
	default:
		return 0
	}
}

// valueOffset resolves where an entry's value lives: in place when it fits in
// the 4-byte value field, otherwise at the offset stored in that field.
func (r tiffReader) valueOffset(e entry) (int, error) {
	size := uint64(e.count) * uint64(typeSize(e.typ))
	if size <= 4 {
		return e.valuePos, nil
	}
	off, err := r.u32(e.valuePos)
	if err != nil {
		return 0, err
	}
	return int(off), nil
}

func (r tiffReader) entries(ifdOffset int) ([]entry, error) {
	count, err := r.u16(ifdOffset)
	if err != nil {
		return nil, err
	}
	if ifdOffset+2+int(count)*ifdEntrySize > len(r.buf) {
		return nil, errMalformed
	}

	out := make([]entry, 0, count)
	for i := 0; i < int(count); i++ {
		pos := ifdOffset + 2 + i*ifdEntrySize
		tag, _ := r.u16(pos)
		typ, _ := r.u16(pos + 2)
		n, _ := r.u32(pos + 4)
		out = append(out, entry{tag: tag, typ: typ, count: n, valuePos: pos + 8})
	}
	return out, nil
}

func parseTIFF(buf []byte) (Metadata, error) {
	md := Default()
	if len(buf) < 8 {
		return md, errMalformed
	}

	r := tiffReader{buf: buf, order: binary.BigEndian}
	switch string(buf[:2]) {
	case "II":
		r.order = binary.LittleEndian
	case "MM":
	default:
		return md, errMalformed
	}

	ifd0, err := r.u32(4)
	if err != nil {
		return md, err
	}
	entries, err := r.entries(int(ifd0))
	if err != nil {
		return md, err
	}

	exifIFD := -1
	for _, e := range entries {
		switch {
		case e.tag == tagOrientation && e.typ == typeShort && e.count == 1:
			v, err := r.u16(e.valuePos)
			if err != nil {
				return md, err
			}
			if v >= 1 && v <= 8 {
				md.Orientation = int(v)
			}
		case (e.tag == tagMake || e.tag == tagModel) && e.typ == typeASCII:
			pos, err := r.valueOffset(e)
			if err != nil {
				return md, err
			}
			s, err := r.ascii(pos, int(e.count))
			if err != nil {
				return md, err
			}
			if e.tag == tagMake {
				md.Make = s
			} else {
				md.Model = s
			}
		case e.tag == tagExifIFDPointer:
			off, err := r.u32(e.valuePos)
			if err != nil {
				return md, err
			}
			exifIFD = int(off)
		}
	}

	if exifIFD < 0 {
		return md, nil
	}

	sub, err := r.entries(exifIFD)
	if err != nil {
		return md, err
	}
	for _, e := range sub {
		if e.tag != tagDateTimeOriginal || e.typ != typeASCII {
			continue
		}
		pos, err := r.valueOffset(e)
		if err != nil {
			return md, err
		}
		s, err := r.ascii(pos, int(e.count))
		if err != nil {
			return md, err
		}
		md.DateTimeOriginal = s
	}

	return md, nil
}
