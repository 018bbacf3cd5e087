package ttesting

import (
	"image"
	"image/color"
	"testing"
)

func AssertEqualInt(t *testing.T, name string, got, want int) {
	t.Run(name, func(t *testing.T) {
		if got != want {
			t.Errorf("got %d; want %d", got, want)
		}
	})
}

func AssertEqualBool(t *testing.T, name string, got, want bool) {
	t.Run(name, func(t *testing.T) {
		if got != want {
			t.Errorf("got %t; want %t", got, want)
		}
	})
}

func AssertEqualRGBA(t *testing.T, name string, got, want color.RGBA) {
	t.Run(name, func(t *testing.T) {
		if got != want {
			t.Errorf("got %+v; want %+v", got, want)
		}
	})
}

func AssertEqualPoint(t *testing.T, name string, got, want image.Point) {
	t.Run(name, func(t *testing.T) {
		if got != want {
			t.Errorf("got %v; want %v", got, want)
		}
	})
}

// AssertRow checks one canvas row against a list of expected colors, starting
// at column x0.
func AssertRow(t *testing.T, name string, img *image.RGBA, x0, y int, want []color.RGBA) {
	t.Run(name, func(t *testing.T) {
		for i, w := range want {
			if got := img.RGBAAt(x0+i, y); got != w {
				t.Errorf("pixel (%d,%d): got %+v; want %+v", x0+i, y, got, w)
			}
		}
	})
}
