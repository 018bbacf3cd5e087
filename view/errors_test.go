package view

import (
	"errors"
	"io"
	"testing"

	"badc0de.net/pkg/go-agi/ttesting"
)

// brokenReaderAt serves data up to failAt and fails every read past it.
type brokenReaderAt struct {
	data   []byte
	failAt int64
}

func (r brokenReaderAt) ReadAt(b []byte, off int64) (int, error) {
	if off+int64(len(b)) > r.failAt {
		return 0, io.ErrClosedPipe
	}
	return copy(b, r.data[off:]), nil
}

func TestSourceFailureIsNotCorruption(t *testing.T) {
	b := ttesting.NewViewBuilder()
	b.AddLoop(ttesting.Cel{Width: 1, Height: 1, Data: ttesting.Rows([]byte{0x21})})
	raw := b.Bytes()

	check := func(t *testing.T, err error) {
		t.Helper()
		if !errors.Is(err, ErrSourceUnavailable) {
			t.Errorf("got %v; want ErrSourceUnavailable", err)
		}
		if errors.Is(err, ErrCorruptResource) {
			t.Errorf("got %v; an unreadable source is not a corrupt resource", err)
		}
	}

	t.Run("parse", func(t *testing.T) {
		_, err := Parse(NewCursor(brokenReaderAt{raw, 0}, int64(len(raw))))
		check(t, err)
	})
	t.Run("cel rows", func(t *testing.T) {
		v := mustParse(t, raw)
		cel := &v.Loops[0].Cels[0]
		r, err := NewCelReader(NewCursor(brokenReaderAt{raw, cel.DataOffset}, int64(len(raw))), cel)
		if err != nil {
			t.Fatalf("NewCelReader: %v", err)
		}
		if r.Next() {
			t.Fatalf("decoded a row from a failing source")
		}
		check(t, r.Err())
	})
}

func TestOutOfBoundsIsCorruption(t *testing.T) {
	err := corrupt("loop count", loopCountOffset, ErrOutOfBounds)
	var cre *CorruptResourceError
	if !errors.As(err, &cre) {
		t.Fatalf("%v is not a *CorruptResourceError", err)
	}
	ttesting.AssertEqualInt(t, "offset", int(cre.Offset), loopCountOffset)
	ttesting.AssertEqualBool(t, "unwraps to cause", errors.Is(err, ErrOutOfBounds), true)
}
