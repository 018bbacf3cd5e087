package view

import (
	"errors"
	"image/color"
	"testing"

	"badc0de.net/pkg/go-agi/palette"
	"badc0de.net/pkg/go-agi/ttesting"
)

func decodeAll(t *testing.T, raw []byte, cel *Cel) ([][]color.RGBA, error) {
	t.Helper()
	r, err := NewCelReader(NewBytesCursor(raw), cel)
	if err != nil {
		return nil, err
	}
	var rows [][]color.RGBA
	for r.Next() {
		rows = append(rows, append([]color.RGBA(nil), r.Row()...))
	}
	return rows, r.Err()
}

func TestDecodeSingleRun(t *testing.T) {
	cel := &Cel{Width: 1, Height: 1, TransparencyColor: 0}
	rows, err := decodeAll(t, []byte{0x31, 0x00}, cel)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	ttesting.AssertEqualInt(t, "rows", len(rows), 1)
	ttesting.AssertEqualInt(t, "doubled pixels", len(rows[0]), 2)
	for _, px := range rows[0] {
		ttesting.AssertEqualRGBA(t, "palette[3]", px, palette.Color(3))
	}
}

func TestDecodeTransparency(t *testing.T) {
	cel := &Cel{Width: 4, Height: 1, TransparencyColor: 15}
	// White is opaque in the palette but is the transparency color here.
	rows, err := decodeAll(t, []byte{0xF2, 0x41, 0xF1, 0x00}, cel)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	red := palette.Color(4)
	want := []color.RGBA{{}, {}, {}, {}, red, red, {}, {}}
	if len(rows[0]) != len(want) {
		t.Fatalf("got %d pixels; want %d", len(rows[0]), len(want))
	}
	for i := range want {
		ttesting.AssertEqualRGBA(t, "pixel", rows[0][i], want[i])
	}
}

func TestDecodeRowsAndCounts(t *testing.T) {
	cel := &Cel{Width: 15, Height: 3, TransparencyColor: 0}
	raw := ttesting.Rows(
		[]byte{ttesting.Run(1, 15)},
		nil,
		[]byte{ttesting.Run(2, 3), ttesting.Run(7, 2)},
	)
	rows, err := decodeAll(t, raw, cel)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	ttesting.AssertEqualInt(t, "row count follows height", len(rows), 3)
	ttesting.AssertEqualInt(t, "row 0", len(rows[0]), 30)
	ttesting.AssertEqualInt(t, "empty row", len(rows[1]), 0)
	ttesting.AssertEqualInt(t, "row 2", len(rows[2]), 10)
	ttesting.AssertEqualRGBA(t, "row 2 tail", rows[2][9], palette.Color(7))
}

func TestDecodeStopsAtHeight(t *testing.T) {
	// Trailing bytes after the last terminator belong to something else.
	cel := &Cel{Width: 1, Height: 1}
	r, err := NewCelReader(NewBytesCursor([]byte{0x11, 0x00, 0x21, 0x00}), cel)
	if err != nil {
		t.Fatal(err)
	}
	n := 0
	for r.Next() {
		ttesting.AssertEqualInt(t, "row index", r.Y(), n)
		n++
	}
	if r.Err() != nil {
		t.Fatalf("decode: %v", r.Err())
	}
	ttesting.AssertEqualInt(t, "rows", n, 1)
	ttesting.AssertEqualBool(t, "stays done", r.Next(), false)
}

func TestDecodeTruncated(t *testing.T) {
	cel := &Cel{Width: 2, Height: 2}
	for _, raw := range [][]byte{
		{},
		{0x12},
		{0x12, 0x00},
		{0x12, 0x00, 0x31},
	} {
		_, err := decodeAll(t, raw, cel)
		if !errors.Is(err, ErrCorruptResource) || !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("%x: got %v; want corrupt resource caused by out of bounds", raw, err)
		}
	}
}

func TestDecodeDataOffsetOutside(t *testing.T) {
	cel := &Cel{Width: 1, Height: 1, DataOffset: 10}
	if _, err := NewCelReader(NewBytesCursor([]byte{0, 0}), cel); !errors.Is(err, ErrCorruptResource) {
		t.Errorf("got %v; want ErrCorruptResource", err)
	}
}
