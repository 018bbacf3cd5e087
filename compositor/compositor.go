// Package compositor paints the cels of a view into images.
//
// Composite produces a sheet with every loop on its own band of rows and the
// loop's cels side by side. CelFrame and LoopFrames render individual cels,
// for instance to animate a loop.
//
// Cels that are flagged as mirrored and drawn as part of a loop other than
// their home loop are flipped horizontally. This is how a single stored
// bitmap serves both the left and the right facing loop of a character.
package compositor

import (
	"image"

	"badc0de.net/pkg/go-agi/view"
	"github.com/golang/glog"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Decoder provides decoded rows for a cel. *view.Resource implements it.
type Decoder interface {
	DecodeCel(cel *view.Cel) (view.Rows, error)
}

type Options struct {
	// Parallel decodes cels concurrently. Cels are painted into disjoint
	// rectangles, so the result is the same.
	Parallel bool
}

// Composite measures v and paints all of its cels onto a transparent canvas.
func Composite(v *view.View, dec Decoder, opts *Options) (*image.RGBA, error) {
	size := v.Measure()
	img := image.NewRGBA(image.Rectangle{Max: size})

	parallel := opts != nil && opts.Parallel
	var g errgroup.Group

	for i := range v.Loops {
		l := &v.Loops[i]
		top := v.LoopTop(i)
		for j := range l.Cels {
			cel := &l.Cels[j]
			at := image.Pt(l.CelLeft(j), top)
			loopIdx, celIdx := i, j
			paint := func() error {
				if err := drawCel(img, at, dec, cel, loopIdx); err != nil {
					return errors.Wrapf(err, "loop %d cel %d", loopIdx, celIdx)
				}
				return nil
			}
			if parallel {
				g.Go(paint)
			} else if err := paint(); err != nil {
				return nil, err
			}
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return img, nil
}

// drawCel paints one cel with its top left corner at at.
func drawCel(img *image.RGBA, at image.Point, dec Decoder, cel *view.Cel, loopIdx int) error {
	rows, err := dec.DecodeCel(cel)
	if err != nil {
		return err
	}

	bandW := 2 * int(cel.Width)
	mirrored := cel.DrawMirrored(loopIdx)

	y := at.Y
	for rows.Next() {
		row := rows.Row()
		if len(row) > bandW {
			glog.V(1).Infof("cel at %d: row %d has %d pixels, clipping to %d", cel.HeaderOffset, y-at.Y, len(row), bandW)
			row = row[:bandW]
		}

		x, step := at.X, 1
		if mirrored {
			x, step = at.X+bandW-1, -1
		}
		for _, px := range row {
			img.SetRGBA(x, y, px)
			x += step
		}
		y++
	}
	return rows.Err()
}

// CelFrame renders a single cel as drawn in loop loopIdx.
func CelFrame(dec Decoder, cel *view.Cel, loopIdx int) (*image.RGBA, error) {
	img := image.NewRGBA(image.Rect(0, 0, 2*int(cel.Width), int(cel.Height)))
	if err := drawCel(img, image.Point{}, dec, cel, loopIdx); err != nil {
		return nil, err
	}
	return img, nil
}

// LoopFrames renders every cel of loop loopIdx into frames of equal size,
// wide enough for the widest cel and as tall as the loop. Cels are aligned on
// the bottom left corner, as the interpreter places them.
func LoopFrames(v *view.View, dec Decoder, loopIdx int) ([]*image.RGBA, error) {
	if loopIdx < 0 || loopIdx >= len(v.Loops) {
		return nil, errors.Errorf("no loop %d; view has %d", loopIdx, len(v.Loops))
	}
	v.Measure()
	l := &v.Loops[loopIdx]

	w := 0
	for _, cel := range l.Cels {
		if 2*int(cel.Width) > w {
			w = 2 * int(cel.Width)
		}
	}

	frames := make([]*image.RGBA, 0, len(l.Cels))
	for j := range l.Cels {
		cel := &l.Cels[j]
		img := image.NewRGBA(image.Rect(0, 0, w, l.TotalHeight))
		if err := drawCel(img, image.Pt(0, l.TotalHeight-int(cel.Height)), dec, cel, loopIdx); err != nil {
			return nil, errors.Wrapf(err, "loop %d cel %d", loopIdx, j)
		}
		frames = append(frames, img)
	}
	return frames, nil
}
