package ziparchive

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// ErrArchive reports an archive that cannot be represented without ZIP64 or
// could not be written. It is fatal to a batch.
var ErrArchive = errors.New("archive error")

const (
	sigLocalHeader   = 0x04034b50
	sigCentralHeader = 0x02014b50
	sigEndOfCentral  = 0x06054b50

	zipVersion20 = 20
	methodStore  = 0

	localHeaderLen   = 30
	centralHeaderLen = 46
	endOfCentralLen  = 22

	maxEntries = math.MaxUint16
)

// Entry is one file to store in an archive.
type Entry struct {
	Path string
	Data []byte
}

// centralRecord is what the central directory needs to know about a
// written entry.
type centralRecord struct {
	name   []byte
	crc    uint32
	size   uint32
	offset uint32
}

// Writer streams a store-only archive to an underlying io.Writer.
// Entries are written as they are added; Close appends the central
// directory and end record. A Writer is not safe for concurrent use.
type Writer struct {
	w       io.Writer
	offset  uint64
	central []centralRecord
	closed  bool
	err     error
}

// NewWriter returns a Writer that writes an archive to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Add appends one entry: local file header, the UTF-8 name, the raw bytes.
func (zw *Writer) Add(path string, data []byte) error {
	if zw.err != nil {
		return zw.err
	}
	if zw.closed {
		return zw.fail(fmt.Errorf("%w: add %q after close", ErrArchive, path))
	}
	if len(zw.central) >= maxEntries {
		return zw.fail(fmt.Errorf("%w: more than %d entries", ErrArchive, maxEntries))
	}

	name := []byte(path)
	if len(name) > math.MaxUint16 {
		return zw.fail(fmt.Errorf("%w: name of %d bytes exceeds 65535", ErrArchive, len(name)))
	}
	if uint64(len(data)) > math.MaxUint32 {
		return zw.fail(fmt.Errorf("%w: %q is %d bytes, exceeds 32-bit size", ErrArchive, path, len(data)))
	}
	if zw.offset > math.MaxUint32 {
		return zw.fail(fmt.Errorf("%w: local header offset %d exceeds 32 bits", ErrArchive, zw.offset))
	}

	rec := centralRecord{
		name:   name,
		crc:    CRC32(data),
		size:   uint32(len(data)),
		offset: uint32(zw.offset),
	}

	var hdr [localHeaderLen]byte
	le := binary.LittleEndian
	le.PutUint32(hdr[0:], sigLocalHeader)
	le.PutUint16(hdr[4:], zipVersion20) // version needed
	le.PutUint16(hdr[6:], 0)            // flags
	le.PutUint16(hdr[8:], methodStore)
	le.PutUint16(hdr[10:], 0) // mod time
	le.PutUint16(hdr[12:], 0) // mod date
	le.PutUint32(hdr[14:], rec.crc)
	le.PutUint32(hdr[18:], rec.size) // compressed
	le.PutUint32(hdr[22:], rec.size) // uncompressed
	le.PutUint16(hdr[26:], uint16(len(name)))
	le.PutUint16(hdr[28:], 0) // extra length

	for _, chunk := range [][]byte{hdr[:], name, data} {
		if err := zw.write(chunk); err != nil {
			return err
		}
	}

	zw.central = append(zw.central, rec)
	return nil
}

// Close writes the central directory and the end-of-central-directory
// record. It does not close the underlying writer.
func (zw *Writer) Close() error {
	if zw.err != nil {
		return zw.err
	}
	if zw.closed {
		return nil
	}
	zw.closed = true

	start := zw.offset
	if start > math.MaxUint32 {
		return zw.fail(fmt.Errorf("%w: central directory offset %d exceeds 32 bits", ErrArchive, start))
	}

	le := binary.LittleEndian
	for _, rec := range zw.central {
		var hdr [centralHeaderLen]byte
		le.PutUint32(hdr[0:], sigCentralHeader)
		le.PutUint16(hdr[4:], zipVersion20) // version made by
		le.PutUint16(hdr[6:], zipVersion20) // version needed
		le.PutUint16(hdr[8:], 0)            // flags
		le.PutUint16(hdr[10:], methodStore)
		le.PutUint16(hdr[12:], 0) // mod time
		le.PutUint16(hdr[14:], 0) // mod date
		le.PutUint32(hdr[16:], rec.crc)
		le.PutUint32(hdr[20:], rec.size)
		le.PutUint32(hdr[24:], rec.size)
		le.PutUint16(hdr[28:], uint16(len(rec.name)))
		le.PutUint16(hdr[30:], 0) // extra length
		le.PutUint16(hdr[32:], 0) // comment length
		le.PutUint16(hdr[34:], 0) // disk number start
		le.PutUint16(hdr[36:], 0) // internal attributes
		le.PutUint32(hdr[38:], 0) // external attributes
		le.PutUint32(hdr[42:], rec.offset)

		if err := zw.write(hdr[:]); err != nil {
			return err
		}
		if err := zw.write(rec.name); err != nil {
			return err
		}
	}

	size := zw.offset - start
	if size > math.MaxUint32 {
		return zw.fail(fmt.Errorf("%w: central directory of %d bytes exceeds 32 bits", ErrArchive, size))
	}

	var end [endOfCentralLen]byte
	le.PutUint32(end[0:], sigEndOfCentral)
	le.PutUint16(end[4:], 0) // this disk
	le.PutUint16(end[6:], 0) // disk with central directory
	le.PutUint16(end[8:], uint16(len(zw.central)))
	le.PutUint16(end[10:], uint16(len(zw.central)))
	le.PutUint32(end[12:], uint32(size))
	le.PutUint32(end[16:], uint32(start))
	le.PutUint16(end[20:], 0) // comment length

	return zw.write(end[:])
}

// Count returns the number of entries added so far.
func (zw *Writer) Count() int {
	return len(zw.central)
}

func (zw *Writer) write(p []byte) error {
	n, err := zw.w.Write(p)
	zw.offset += uint64(n)
	if err != nil {
		return zw.fail(fmt.Errorf("%w: %v", ErrArchive, err))
	}
	return nil
}

func (zw *Writer) fail(err error) error {
	zw.err = err
	return err
}

// Size returns the exact archive length for entries, as Build would produce.
func Size(entries []Entry) int {
	n := endOfCentralLen
	for _, e := range entries {
		n += localHeaderLen + centralHeaderLen + 2*len(e.Path) + len(e.Data)
	}
	return n
}

// Build serialises entries into a complete archive held in memory.
func Build(entries []Entry) ([]byte, error) {
	if len(entries) > maxEntries {
		return nil, fmt.Errorf("%w: %d entries exceeds %d", ErrArchive, len(entries), maxEntries)
	}

	var buf bytes.Buffer
	buf.Grow(Size(entries))

	zw := NewWriter(&buf)
	for _, e := range entries {
		if err := zw.Add(e.Path, e.Data); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
