// Package web serves view resources from a directory over HTTP.
package web

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"

	"github.com/golang/glog"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-agi/compositor"
	"badc0de.net/pkg/go-agi/paths"
	"badc0de.net/pkg/go-agi/sink"
	"badc0de.net/pkg/go-agi/view"
)

// generation is part of every ETag; bump it if the way images are generated
// changes.
const generation = 1

// loopFrameDelay is the animation delay per cel, in hundredths of a second.
const loopFrameDelay = 20

type Handler struct {
	viewDir string
	opts    *compositor.Options
}

// NewHandler constructs a web handler serving the views found in viewDir.
func NewHandler(viewDir string, opts *compositor.Options) *Handler {
	return &Handler{
		viewDir: viewDir,
		opts:    opts,
	}
}

// Register adds the handler's routes to r.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/view/", h.indexHandler).Methods("GET")
	r.HandleFunc("/view/{name}.png", h.sheetHandler).Methods("GET")
	r.HandleFunc("/view/{name}.json", h.infoHandler).Methods("GET")
	r.HandleFunc("/view/{name}/loop/{loop:[0-9]+}.gif", h.loopHandler).Methods("GET")
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, view.ErrSourceUnavailable):
		return http.StatusNotFound
	case errors.Is(err, view.ErrCorruptResource):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

type loaded struct {
	name  string
	res   *view.Resource
	mtime int64
	size  int64
}

// load opens and parses the view named in the request. On failure it writes
// the error response and returns nil.
func (h *Handler) load(w http.ResponseWriter, r *http.Request) *loaded {
	name := mux.Vars(r)["name"]
	path, err := paths.Resolve(h.viewDir, name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil
	}
	f, err := paths.Open(path)
	if err != nil {
		http.Error(w, "no such view", statusFor(err))
		return nil
	}
	defer f.Close()

	l := &loaded{name: name}
	if st, ok := f.(interface{ Stat() (os.FileInfo, error) }); ok {
		if fi, err := st.Stat(); err == nil {
			l.mtime, l.size = fi.ModTime().Unix(), fi.Size()
		}
	}

	// The resource reads lazily, so it must not hold on to f.
	b, err := io.ReadAll(f)
	if err != nil {
		glog.Errorf("error reading view %q: %v", name, err)
		http.Error(w, "cannot read view", http.StatusInternalServerError)
		return nil
	}
	res, err := view.LoadCursor(view.NewBytesCursor(b))
	if err != nil {
		glog.Errorf("error parsing view %q: %v", name, err)
		http.Error(w, err.Error(), statusFor(err))
		return nil
	}
	l.res = res
	return l
}

// notModified sets caching headers and reports whether the client already has
// the current version.
func (l *loaded) notModified(w http.ResponseWriter, r *http.Request, kind, mime string) bool {
	etag := fmt.Sprintf(`W/"view:%d:%d:%d:%s:%s:%s"`, generation, l.size, l.mtime, l.name, kind, mime)
	w.Header().Set("Cache-Control", "public; max-age=3600")
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return true
	}
	return false
}

func scaleParam(r *http.Request) (int, error) {
	s := r.URL.Query().Get("scale")
	if s == "" {
		return 1, nil
	}
	scale, err := strconv.Atoi(s)
	if err != nil || scale < 1 || scale > 16 {
		return 0, errors.Errorf("scale %q not a number in [1,16]", s)
	}
	return scale, nil
}

func (h *Handler) indexHandler(w http.ResponseWriter, r *http.Request) {
	names, err := paths.List(h.viewDir)
	if err != nil {
		glog.Errorf("error listing views: %v", err)
		http.Error(w, "failed to list views", http.StatusInternalServerError)
		return
	}
	if names == nil {
		names = []string{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(names)
}

func (h *Handler) sheetHandler(w http.ResponseWriter, r *http.Request) {
	scale, err := scaleParam(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	l := h.load(w, r)
	if l == nil {
		return
	}
	opts := &sink.Options{Format: sink.FormatPNG, Scale: scale}
	if l.notModified(w, r, "sheet"+strconv.Itoa(scale), opts.MIME()) {
		return
	}

	img, err := compositor.Composite(l.res.View, l.res, h.opts)
	if err != nil {
		glog.Errorf("error compositing view %q: %v", l.name, err)
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	if img.Bounds().Empty() {
		http.Error(w, "view has no cels", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", opts.MIME())
	w.WriteHeader(http.StatusOK)
	if err := sink.Encode(w, img, opts); err != nil {
		glog.Errorf("error encoding view %q: %v", l.name, err)
	}
}

func (h *Handler) loopHandler(w http.ResponseWriter, r *http.Request) {
	scale, err := scaleParam(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	loop, err := strconv.Atoi(mux.Vars(r)["loop"])
	if err != nil {
		http.Error(w, "loop not a number", http.StatusBadRequest)
		return
	}
	l := h.load(w, r)
	if l == nil {
		return
	}
	if loop >= len(l.res.Loops) {
		http.Error(w, fmt.Sprintf("view has %d loops", len(l.res.Loops)), http.StatusNotFound)
		return
	}
	if l.notModified(w, r, fmt.Sprintf("loop%d:%d", loop, scale), "image/gif") {
		return
	}

	frames, err := compositor.LoopFrames(l.res.View, l.res, loop)
	if err != nil {
		glog.Errorf("error rendering loop %d of view %q: %v", loop, l.name, err)
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	if len(frames) == 0 {
		http.Error(w, "loop has no cels", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "image/gif")
	w.WriteHeader(http.StatusOK)
	if err := sink.EncodeAnimation(w, frames, loopFrameDelay, scale); err != nil {
		glog.Errorf("error encoding loop %d of view %q: %v", loop, l.name, err)
	}
}

type celInfo struct {
	HeaderOffset      int64 `json:"header_offset"`
	Width             int   `json:"width"`
	Height            int   `json:"height"`
	TransparencyColor int   `json:"transparency_color"`
	Mirrored          bool  `json:"mirrored"`
	HomeLoop          int   `json:"home_loop"`
}

type loopInfo struct {
	Width  int       `json:"width"`
	Height int       `json:"height"`
	Cels   []celInfo `json:"cels"`
}

type viewInfo struct {
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Width       int        `json:"width"`
	Height      int        `json:"height"`
	Loops       []loopInfo `json:"loops"`
	Preview     string     `json:"preview,omitempty"`
}

func (h *Handler) infoHandler(w http.ResponseWriter, r *http.Request) {
	l := h.load(w, r)
	if l == nil {
		return
	}
	if l.notModified(w, r, "info", "application/json") {
		return
	}

	size := l.res.Measure()
	info := viewInfo{Name: l.name, Width: size.X, Height: size.Y, Loops: []loopInfo{}}
	if d, err := l.res.Description(); err == nil {
		info.Description = d
	} else {
		glog.Warningf("view %q: %v", l.name, err)
	}
	for _, loop := range l.res.Loops {
		li := loopInfo{Width: loop.TotalWidth, Height: loop.TotalHeight, Cels: []celInfo{}}
		for _, cel := range loop.Cels {
			li.Cels = append(li.Cels, celInfo{
				HeaderOffset:      cel.HeaderOffset,
				Width:             int(cel.Width),
				Height:            int(cel.Height),
				TransparencyColor: int(cel.TransparencyColor),
				Mirrored:          cel.Mirrored,
				HomeLoop:          int(cel.HomeLoop),
			})
		}
		info.Loops = append(info.Loops, li)
	}

	// The preview is best effort; a broken cel still leaves the metadata useful.
	if img, err := compositor.Composite(l.res.View, l.res, h.opts); err == nil {
		if u, err := sink.DataURL(img, nil); err == nil {
			info.Preview = u
		}
	} else {
		glog.Warningf("view %q: no preview: %v", l.name, err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(info)
}
