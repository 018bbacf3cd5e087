package view

import (
	"fmt"
	"image/color"

	"badc0de.net/pkg/go-agi/palette"
)

// Rows produces decoded cel rows one at a time, in the manner of
// bufio.Scanner.
type Rows interface {
	Next() bool
	Row() []color.RGBA
	Err() error
}

func upperNibble(b byte) byte {
	return b >> 4
}

func lowerNibble(b byte) byte {
	return b & 0x0f
}

// CelReader decodes the pixel stream of a single cel.
//
// Each row is a sequence of run bytes (high nibble color, low nibble count)
// ended by a zero byte. Rows carry no length, so the reader stops after
// exactly Height terminators. Every pixel is emitted twice to make up for the
// non-square pixels of the format.
//
// The reader consumes its cursor; decoding a cel again needs a new reader.
type CelReader struct {
	c   *Cursor
	cel *Cel

	y   int
	row []color.RGBA
	err error
}

// NewCelReader positions c at the cel's pixel data.
func NewCelReader(c *Cursor, cel *Cel) (*CelReader, error) {
	if err := c.Seek(cel.DataOffset); err != nil {
		return nil, corrupt("cel data", cel.DataOffset, err)
	}
	return &CelReader{
		c:   c,
		cel: cel,
		row: make([]color.RGBA, 0, 2*int(cel.Width)),
	}, nil
}

// Next decodes the next row. It returns false once all rows were read or on
// error; check Err afterwards.
func (r *CelReader) Next() bool {
	if r.err != nil || r.y >= int(r.cel.Height) {
		return false
	}

	r.row = r.row[:0]
	for {
		off := r.c.Pos()
		b, err := r.c.ReadU8()
		if err != nil {
			r.err = corrupt(fmt.Sprintf("cel row %d of %d", r.y, r.cel.Height), off, err)
			return false
		}
		if b == 0 {
			break
		}

		idx, count := upperNibble(b), lowerNibble(b)
		var px color.RGBA // transparent
		if idx != r.cel.TransparencyColor {
			px = palette.Color(idx)
		}
		for ; count > 0; count-- {
			r.row = append(r.row, px, px)
		}
	}
	r.y++
	return true
}

// Row returns the row decoded by the last call to Next. The slice is reused
// by the following call.
//
// A row may be shorter than twice the cel width (the rest is transparent) or,
// in broken resources, longer.
func (r *CelReader) Row() []color.RGBA {
	return r.row
}

// Y returns the index of the row returned by Row.
func (r *CelReader) Y() int {
	return r.y - 1
}

func (r *CelReader) Err() error {
	return r.err
}
