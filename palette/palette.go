// Package palette holds the fixed 16 color table used by AGI resources.
//
// Pixel streams only carry a 4-bit color index; the colors themselves are the
// standard EGA ones, so there is nothing to load from the game files.
package palette

import (
	"image/color"
)

// Len is the number of entries in the palette.
const Len = 16

var ega = [Len]color.RGBA{
	{0x00, 0x00, 0x00, 0xFF},
	{0x00, 0x00, 0xAA, 0xFF},
	{0x00, 0xAA, 0x00, 0xFF},
	{0x00, 0xAA, 0xAA, 0xFF},
	{0xAA, 0x00, 0x00, 0xFF},
	{0xAA, 0x00, 0xAA, 0xFF},
	{0xAA, 0x55, 0x00, 0xFF},
	{0xAA, 0xAA, 0xAA, 0xFF},
	{0x55, 0x55, 0x55, 0xFF},
	{0x55, 0x55, 0xFF, 0xFF},
	{0x55, 0xFF, 0x55, 0xFF},
	{0x55, 0xFF, 0xFF, 0xFF},
	{0xFF, 0x55, 0x55, 0xFF},
	{0xFF, 0x55, 0xFF, 0xFF},
	{0xFF, 0xFF, 0x55, 0xFF},
	{0xFF, 0xFF, 0xFF, 0xFF},
}

// Color returns the opaque color for the passed index. Only the low nibble of
// the index is used.
func Color(idx uint8) color.RGBA {
	return ega[idx&0x0F]
}

// Palette returns a copy of the table as a color.Palette, suitable for
// building paletted images. Callers may modify the result.
func Palette() color.Palette {
	p := make(color.Palette, Len)
	for i, c := range ega {
		p[i] = c
	}
	return p
}
