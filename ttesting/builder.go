package ttesting

import (
	"encoding/binary"

	"github.com/bradfitz/iter"
)

// Cel describes one cel to be laid out by a ViewBuilder. Data is the raw
// pixel stream, row terminators included; see Rows.
type Cel struct {
	Width, Height uint8
	Mirrored      bool
	HomeLoop      uint8
	Transparency  uint8
	Data          []byte
}

func (c Cel) info() byte {
	var b byte
	if c.Mirrored {
		b |= 0x80
	}
	b |= (c.HomeLoop & 0x07) << 4
	b |= c.Transparency & 0x0F
	return b
}

type celRef struct {
	own       *Cel
	loop, cel int
}

// ViewBuilder assembles synthetic view resources for tests. It is only as
// strict as the decoder needs; nothing here validates the result.
type ViewBuilder struct {
	loops       [][]celRef
	description string
	// Truncate, if non-zero, cuts the finished resource down to this many bytes.
	Truncate int
}

func NewViewBuilder() *ViewBuilder {
	return &ViewBuilder{}
}

// AddLoop appends a loop owning the passed cels and returns its index.
func (b *ViewBuilder) AddLoop(cels ...Cel) int {
	refs := make([]celRef, len(cels))
	for i := range cels {
		c := cels[i]
		refs[i] = celRef{own: &c}
	}
	b.loops = append(b.loops, refs)
	return len(b.loops) - 1
}

// AddSharedLoop appends a loop whose cel table points at the cel headers of
// an earlier loop, the way mirrored loops are stored.
func (b *ViewBuilder) AddSharedLoop(of int) int {
	refs := make([]celRef, len(b.loops[of]))
	for i := range refs {
		refs[i] = celRef{loop: of, cel: i}
	}
	b.loops = append(b.loops, refs)
	return len(b.loops) - 1
}

// SetDescription makes the resource carry a NUL-terminated description.
func (b *ViewBuilder) SetDescription(s string) {
	b.description = s
}

func putU16(out []byte, v int) []byte {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], uint16(v))
	return append(out, tmp[:]...)
}

// Bytes lays the resource out: header, loop table, then every loop followed
// by the headers and pixel streams of the cels it owns, then the description.
func (b *ViewBuilder) Bytes() []byte {
	out := []byte{0x01, 0x01, byte(len(b.loops)), 0x00, 0x00}
	loopTable := len(out)
	for range iter.N(len(b.loops)) {
		out = putU16(out, 0)
	}

	headers := make([][]int, len(b.loops))
	for i := range iter.N(len(b.loops)) {
		loopOffset := len(out)
		binary.LittleEndian.PutUint16(out[loopTable+2*i:], uint16(loopOffset))

		cels := b.loops[i]
		out = append(out, byte(len(cels)))
		celTable := len(out)
		for range iter.N(len(cels)) {
			out = putU16(out, 0)
		}

		headers[i] = make([]int, len(cels))
		for j := range iter.N(len(cels)) {
			ref := cels[j]
			var abs int
			if ref.own != nil {
				abs = len(out)
				out = append(out, ref.own.Width, ref.own.Height, ref.own.info())
				out = append(out, ref.own.Data...)
			} else {
				abs = headers[ref.loop][ref.cel]
			}
			headers[i][j] = abs
			// Relative offsets are 16-bit and wrap for headers stored before the loop.
			binary.LittleEndian.PutUint16(out[celTable+2*j:], uint16(abs-loopOffset))
		}
	}

	if b.description != "" {
		binary.LittleEndian.PutUint16(out[3:], uint16(len(out)))
		out = append(out, b.description...)
		out = append(out, 0)
	}

	if b.Truncate > 0 && b.Truncate < len(out) {
		out = out[:b.Truncate]
	}
	return out
}

// Rows builds a pixel stream from rows of run bytes, terminating each row.
func Rows(rows ...[]byte) []byte {
	var out []byte
	for _, r := range rows {
		out = append(out, r...)
		out = append(out, 0x00)
	}
	return out
}

// Run encodes count repetitions of color as a single run byte.
func Run(color, count uint8) byte {
	return color<<4 | count&0x0F
}
