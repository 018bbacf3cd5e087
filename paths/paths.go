// Package paths opens view resources and works out where converted images go.
package paths

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"badc0de.net/pkg/go-agi/view"
	"github.com/golang/glog"
	"github.com/pkg/errors"
)

type ReadSeekerCloser interface {
	io.Reader
	io.ReaderAt
	io.Seeker
	io.Closer
}

// Open opens a view resource for reading. Failures match
// view.ErrSourceUnavailable.
func Open(path string) (ReadSeekerCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(view.ErrSourceUnavailable, "could not open view file %q: %v", path, err)
	}
	if st, err := f.Stat(); err == nil && st.IsDir() {
		f.Close()
		return nil, errors.Wrapf(view.ErrSourceUnavailable, "%q is a directory", path)
	}
	return f, nil
}

// Resolve returns the path of the view called name inside dir. Names must be
// plain file names; anything that could escape dir is refused.
func Resolve(dir, name string) (string, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0) {
		return "", errors.Errorf("invalid view name %q", name)
	}
	return filepath.Join(dir, name), nil
}

// Output returns where the image converted from input should be written:
// the input path with ext appended, or a file of that name inside outDir.
func Output(input, outDir, ext string) string {
	name := input + ext
	if outDir != "" {
		name = filepath.Join(outDir, filepath.Base(name))
	}
	return name
}

// List returns the names of the regular, non-hidden files in dir, sorted.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(view.ErrSourceUnavailable, "could not list %q: %v", dir, err)
	}
	var names []string
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") || !e.Type().IsRegular() {
			continue
		}
		names = append(names, e.Name())
	}
	glog.V(2).Infof("paths.List(%q): %d files", dir, len(names))
	return names, nil
}
