package view

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// Cursor is a bounds-checked random access reader over a resource.
//
// Every read advances the position; a read that would cross the end of the
// source fails with ErrOutOfBounds and leaves the position where it was.
type Cursor struct {
	r    io.ReaderAt
	size int64
	pos  int64
	tmp  [2]byte
}

// NewCursor returns a cursor over the first size bytes of r.
func NewCursor(r io.ReaderAt, size int64) *Cursor {
	return &Cursor{r: r, size: size}
}

// NewBytesCursor returns a cursor over an in-memory resource.
func NewBytesCursor(b []byte) *Cursor {
	return NewCursor(bytes.NewReader(b), int64(len(b)))
}

// NewCursorFromReader builds a cursor from an arbitrary reader. Readers that
// also implement io.ReaderAt and io.Seeker (such as *os.File) are used in
// place; anything else is read fully into memory.
func NewCursorFromReader(r io.Reader) (*Cursor, error) {
	if ra, ok := r.(interface {
		io.ReaderAt
		io.Seeker
	}); ok {
		size, err := ra.Seek(0, io.SeekEnd)
		if err != nil {
			return nil, errors.Wrapf(ErrSourceUnavailable, "could not determine source size: %v", err)
		}
		return NewCursor(ra, size), nil
	}

	b, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrapf(ErrSourceUnavailable, "could not read source: %v", err)
	}
	return NewBytesCursor(b), nil
}

// Fork returns a new cursor over the same source, positioned at the start.
func (c *Cursor) Fork() *Cursor {
	return NewCursor(c.r, c.size)
}

// Pos returns the current absolute position.
func (c *Cursor) Pos() int64 {
	return c.pos
}

// Size returns the extent of the source.
func (c *Cursor) Size() int64 {
	return c.size
}

// Seek moves to an absolute offset. Seeking to exactly Size() is allowed; the
// next read will fail.
func (c *Cursor) Seek(off int64) error {
	if off < 0 || off > c.size {
		return errors.Wrapf(ErrOutOfBounds, "seek to %d, size %d", off, c.size)
	}
	c.pos = off
	return nil
}

func (c *Cursor) read(b []byte) error {
	if c.pos+int64(len(b)) > c.size {
		return errors.Wrapf(ErrOutOfBounds, "read of %d bytes at %d, size %d", len(b), c.pos, c.size)
	}
	n, err := c.r.ReadAt(b, c.pos)
	if n < len(b) {
		if err == nil || err == io.EOF {
			return errors.Wrapf(ErrOutOfBounds, "short read of %d bytes at %d", n, c.pos)
		}
		return errors.Wrapf(ErrSourceUnavailable, "read at %d: %v", c.pos, err)
	}
	c.pos += int64(len(b))
	return nil
}

// ReadU8 reads one byte.
func (c *Cursor) ReadU8() (uint8, error) {
	if err := c.read(c.tmp[:1]); err != nil {
		return 0, err
	}
	return c.tmp[0], nil
}

// ReadByte implements io.ByteReader.
func (c *Cursor) ReadByte() (byte, error) {
	return c.ReadU8()
}

// ReadU16LE reads a little-endian 16-bit value.
func (c *Cursor) ReadU16LE() (uint16, error) {
	if err := c.read(c.tmp[:2]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(c.tmp[:]), nil
}
