package view

import (
	"io"
)

// Resource is a parsed view together with the source it was parsed from, so
// that its cels can be decoded on demand.
type Resource struct {
	*View
	c *Cursor
}

// Load parses a view resource from r. See NewCursorFromReader for how r is
// accessed.
func Load(r io.Reader) (*Resource, error) {
	c, err := NewCursorFromReader(r)
	if err != nil {
		return nil, err
	}
	return LoadCursor(c)
}

func LoadCursor(c *Cursor) (*Resource, error) {
	v, err := Parse(c)
	if err != nil {
		return nil, err
	}
	return &Resource{View: v, c: c}, nil
}

// DecodeCel returns a row reader for cel. Each call uses its own cursor, so
// several cels may be decoded at the same time.
func (r *Resource) DecodeCel(cel *Cel) (Rows, error) {
	return NewCelReader(r.c.Fork(), cel)
}

// Description returns the text stored with the view, if any.
func (r *Resource) Description() (string, error) {
	if r.DescriptionOffset == 0 {
		return "", nil
	}
	c := r.c.Fork()
	off := int64(r.DescriptionOffset)
	if err := c.Seek(off); err != nil {
		return "", corrupt("description", off, err)
	}
	var s []byte
	for {
		b, err := c.ReadU8()
		if err != nil {
			return "", corrupt("description", off, err)
		}
		if b == 0 {
			return string(s), nil
		}
		s = append(s, b)
	}
}
