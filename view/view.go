package view

import (
	"fmt"
	"image"

	"github.com/pkg/errors"
)

// Fixed positions in the resource header.
const (
	loopCountOffset   = 2
	descriptionOffset = 3
	loopTableOffset   = 5

	celHeaderSize = 3
)

// Loop and cel counts are stored in a single byte, so these bounds hold for
// anything Parse returns.
const (
	MaxLoops = 255
	MaxCels  = 255
)

// Cel is a single frame. Offsets are absolute positions in the resource.
type Cel struct {
	HeaderOffset int64
	DataOffset   int64

	Width  uint8
	Height uint8

	// TransparencyColor is the palette index drawn as fully transparent.
	TransparencyColor uint8
	Mirrored          bool
	// HomeLoop is the loop the stored pixels belong to. When the cel is drawn
	// as part of any other loop and Mirrored is set, it is flipped.
	HomeLoop uint8
}

// DrawMirrored reports whether the cel is flipped when drawn in loop loopIdx.
func (c *Cel) DrawMirrored(loopIdx int) bool {
	return c.Mirrored && int(c.HomeLoop) != loopIdx
}

// Loop is an ordered row of cels. TotalWidth and TotalHeight are filled in by
// View.Measure.
type Loop struct {
	Offset int64
	Cels   []Cel

	TotalWidth  int
	TotalHeight int
}

// View is a parsed view resource.
type View struct {
	// DescriptionOffset points at a NUL-terminated string; zero means none.
	DescriptionOffset uint16
	Loops             []Loop
}

func (c *Cel) decodeInfo(info uint8) {
	c.Mirrored = info&0x80 != 0
	c.HomeLoop = (info & 0x70) >> 4
	c.TransparencyColor = info & 0x0F
}

// Parse walks the loop and cel offset tables of the resource under c.
//
// Only the headers are read. Pixel data is decoded later by a CelReader.
func Parse(c *Cursor) (*View, error) {
	v := &View{}

	if err := c.Seek(loopCountOffset); err != nil {
		return nil, corrupt("loop count", loopCountOffset, err)
	}
	numLoops, err := c.ReadU8()
	if err != nil {
		return nil, corrupt("loop count", loopCountOffset, err)
	}
	if v.DescriptionOffset, err = c.ReadU16LE(); err != nil {
		return nil, corrupt("description offset", descriptionOffset, err)
	}

	if err := c.Seek(loopTableOffset); err != nil {
		return nil, corrupt("loop table", loopTableOffset, err)
	}

	v.Loops = make([]Loop, numLoops)
	for i := range v.Loops {
		ptr, err := c.ReadU16LE()
		if err != nil {
			return nil, corrupt(fmt.Sprintf("loop %d offset", i), c.Pos(), err)
		}
		v.Loops[i].Offset = int64(ptr)
	}

	for i := range v.Loops {
		if err := parseLoop(c, &v.Loops[i]); err != nil {
			return nil, errors.Wrapf(err, "loop %d", i)
		}
	}

	return v, nil
}

func parseLoop(c *Cursor, l *Loop) error {
	if err := c.Seek(l.Offset); err != nil {
		return corrupt("cel count", l.Offset, err)
	}
	numCels, err := c.ReadU8()
	if err != nil {
		return corrupt("cel count", l.Offset, err)
	}

	l.Cels = make([]Cel, numCels)
	for j := range l.Cels {
		rel, err := c.ReadU16LE()
		if err != nil {
			return corrupt(fmt.Sprintf("cel %d offset", j), c.Pos(), err)
		}
		// Offsets are 16-bit; cels shared with an earlier loop are reached by
		// wrapping around.
		l.Cels[j].HeaderOffset = int64(uint16(l.Offset) + rel)
	}

	for j := range l.Cels {
		cel := &l.Cels[j]
		if err := c.Seek(cel.HeaderOffset); err != nil {
			return corrupt(fmt.Sprintf("cel %d header", j), cel.HeaderOffset, err)
		}
		var hdr [celHeaderSize]uint8
		for k := range hdr {
			if hdr[k], err = c.ReadU8(); err != nil {
				return corrupt(fmt.Sprintf("cel %d header", j), cel.HeaderOffset, err)
			}
		}
		cel.Width = hdr[0]
		cel.Height = hdr[1]
		cel.decodeInfo(hdr[2])
		cel.DataOffset = c.Pos()
	}
	return nil
}

// Measure computes every loop's TotalWidth and TotalHeight and returns the
// size of the image holding all loops, with pixels doubled horizontally.
//
// It recomputes from scratch, so calling it again is harmless.
func (v *View) Measure() image.Point {
	var size image.Point
	for i := range v.Loops {
		l := &v.Loops[i]
		l.TotalWidth, l.TotalHeight = 0, 0
		for _, cel := range l.Cels {
			l.TotalWidth += int(cel.Width)
			if int(cel.Height) > l.TotalHeight {
				l.TotalHeight = int(cel.Height)
			}
		}
		if l.TotalWidth > size.X {
			size.X = l.TotalWidth
		}
		size.Y += l.TotalHeight
	}
	size.X *= 2
	return size
}

// LoopTop returns the first canvas row of loop i. Measure must have run.
func (v *View) LoopTop(i int) int {
	y := 0
	for k := 0; k < i; k++ {
		y += v.Loops[k].TotalHeight
	}
	return y
}

// CelLeft returns the first (doubled) canvas column of cel j.
func (l *Loop) CelLeft(j int) int {
	x := 0
	for k := 0; k < j; k++ {
		x += 2 * int(l.Cels[k].Width)
	}
	return x
}

// CelCount returns the number of cels across all loops.
func (v *View) CelCount() int {
	n := 0
	for _, l := range v.Loops {
		n += len(l.Cels)
	}
	return n
}
