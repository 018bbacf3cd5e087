// Package sink encodes composited views into image files.
//
// Images are written as PNG or GIF. GIF output uses the 16 color palette
// plus a transparent entry, so no color is lost. Images may be scaled up by
// an integer factor with nearest neighbor sampling, which keeps the pixels
// sharp.
package sink

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"image/png"
	"io"
	"os"

	"github.com/golang/glog"
	"github.com/nfnt/resize"
	"github.com/pkg/errors"
	"github.com/vincent-petithory/dataurl"

	"badc0de.net/pkg/go-agi/palette"
)

const (
	FormatPNG = "png"
	FormatGIF = "gif"
)

type Options struct {
	// Format is FormatPNG (the default) or FormatGIF.
	Format string
	// Scale multiplies both dimensions; values below 2 leave the image as is.
	Scale int
}

func (o *Options) format() string {
	if o == nil || o.Format == "" {
		return FormatPNG
	}
	return o.Format
}

func (o *Options) scale() int {
	if o == nil || o.Scale < 1 {
		return 1
	}
	return o.Scale
}

// Ext returns the file extension, dot included, for the configured format.
func (o *Options) Ext() string {
	return "." + o.format()
}

// MIME returns the content type for the configured format.
func (o *Options) MIME() string {
	return "image/" + o.format()
}

// Validate reports unsupported options.
func (o *Options) Validate() error {
	switch o.format() {
	case FormatPNG, FormatGIF:
	default:
		return errors.Errorf("unsupported format %q", o.format())
	}
	if o != nil && o.Scale > 16 {
		return errors.Errorf("scale %d too large; want <= 16", o.Scale)
	}
	return nil
}

// Scale enlarges img by an integer factor.
func Scale(img image.Image, factor int) image.Image {
	if factor < 2 || img.Bounds().Empty() {
		return img
	}
	size := img.Bounds().Size()
	return resize.Resize(uint(size.X*factor), uint(size.Y*factor), img, resize.NearestNeighbor)
}

// gifPalette is the view palette with a transparent first entry.
func gifPalette() color.Palette {
	return append(color.Palette{color.Transparent}, palette.Palette()...)
}

// Paletted converts a composited image to the view palette. Pixels are
// matched exactly; anything transparent becomes index 0.
func Paletted(img image.Image) *image.Paletted {
	b := img.Bounds()
	p := image.NewPaletted(b, gifPalette())
	draw.Draw(p, b, img, b.Min, draw.Src)
	return p
}

// Encode writes img to w.
func Encode(w io.Writer, img image.Image, opts *Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	if img.Bounds().Empty() {
		return errors.New("nothing to encode: image is empty")
	}
	img = Scale(img, opts.scale())

	switch opts.format() {
	case FormatGIF:
		if err := gif.Encode(w, Paletted(img), &gif.Options{NumColors: palette.Len + 1}); err != nil {
			return errors.Wrap(err, "encoding gif")
		}
	default:
		if err := png.Encode(w, img); err != nil {
			return errors.Wrap(err, "encoding png")
		}
	}
	return nil
}

// EncodeAnimation writes frames as a looping animated GIF, delay being the
// time per frame in hundredths of a second.
func EncodeAnimation(w io.Writer, frames []*image.RGBA, delay int, scale int) error {
	if len(frames) == 0 {
		return errors.New("no frames to encode")
	}
	g := gif.GIF{BackgroundIndex: 0} // transparent
	for _, f := range frames {
		g.Image = append(g.Image, Paletted(Scale(f, scale)))
		g.Delay = append(g.Delay, delay)
		g.Disposal = append(g.Disposal, gif.DisposalBackground)
	}
	if err := gif.EncodeAll(w, &g); err != nil {
		return errors.Wrap(err, "encoding animated gif")
	}
	return nil
}

// WriteFile encodes img into a new file at path.
func WriteFile(path string, img image.Image, opts *Options) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %q", path)
	}
	if err := Encode(f, img, opts); err != nil {
		f.Close()
		os.Remove(path)
		return errors.Wrapf(err, "writing %q", path)
	}
	if err := f.Close(); err != nil {
		return errors.Wrapf(err, "closing %q", path)
	}
	glog.V(1).Infof("wrote %q (%dx%d)", path, img.Bounds().Dx(), img.Bounds().Dy())
	return nil
}

// WriteAnimationFile writes an animated GIF of frames to path.
func WriteAnimationFile(path string, frames []*image.RGBA, delay int, scale int) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %q", path)
	}
	if err := EncodeAnimation(f, frames, delay, scale); err != nil {
		f.Close()
		os.Remove(path)
		return errors.Wrapf(err, "writing %q", path)
	}
	return errors.Wrapf(f.Close(), "closing %q", path)
}

// DataURL encodes img and returns it as a data: URL.
func DataURL(img image.Image, opts *Options) (string, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, img, opts); err != nil {
		return "", err
	}
	return dataurl.New(buf.Bytes(), opts.MIME()).String(), nil
}
