// Package view implements a reader for AGI View resources.
//
// A view is a set of loops (typically one per facing direction), and each loop
// is a row of cels (animation frames). Cel pixels are stored as 4-bit palette
// indices, run-length encoded one row at a time.
//
// This package only parses the offset tables and decodes cel rows; package
// compositor lays all cels out into a single image.
package view
