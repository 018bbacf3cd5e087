// Package agi decodes AGI View resources into images.
//
// It ties together package view (parsing and cel decoding) and package
// compositor (layout), mirroring the Decode and DecodeConfig functions of the
// standard image packages. View resources carry no signature, so the format
// is not registered with image.RegisterFormat.
package agi

import (
	"image"
	"image/color"
	"io"

	"badc0de.net/pkg/go-agi/compositor"
	"badc0de.net/pkg/go-agi/view"
)

// DecodeResource parses a view without decoding any pixels.
func DecodeResource(r io.Reader) (*view.Resource, error) {
	return view.Load(r)
}

// Decode returns the sheet of all loops and cels of the view in r.
func Decode(r io.Reader) (image.Image, error) {
	img, err := DecodeWithOptions(r, nil)
	if err != nil {
		return nil, err
	}
	return img, nil
}

// DecodeWithOptions is Decode with control over how cels are decoded.
func DecodeWithOptions(r io.Reader, opts *compositor.Options) (*image.RGBA, error) {
	res, err := view.Load(r)
	if err != nil {
		return nil, err
	}
	return compositor.Composite(res.View, res, opts)
}

// DecodeConfig returns the dimensions of the sheet Decode would produce.
func DecodeConfig(r io.Reader) (image.Config, error) {
	res, err := view.Load(r)
	if err != nil {
		return image.Config{}, err
	}
	size := res.Measure()
	return image.Config{Width: size.X, Height: size.Y, ColorModel: color.RGBAModel}, nil
}
