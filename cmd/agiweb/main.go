// Command agiweb serves a directory of AGI View resources over HTTP.
package main

import (
	"flag"
	"net/http"
	"os"

	"badc0de.net/pkg/flagutil/v1"
	"github.com/golang/glog"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"badc0de.net/pkg/go-agi/compositor"
	"badc0de.net/pkg/go-agi/paths"
	"badc0de.net/pkg/go-agi/web"
)

var (
	listenAddress = flag.String("listen_address", ":8080", "http listen address for agiweb")
	parallel      = flag.Bool("parallel", true, "decode cels concurrently")

	viewDir string
)

func main() {
	paths.SetupViewDirFlag("view_dir", &viewDir)
	flagutil.Parse()

	if viewDir == "" {
		glog.Fatal("no view directory found; pass -view_dir")
	}

	r := mux.NewRouter()
	web.NewHandler(viewDir, &compositor.Options{Parallel: *parallel}).Register(r)

	glog.Infof("serving views from %q on %s", viewDir, *listenAddress)
	glog.Fatal(http.ListenAndServe(*listenAddress, handlers.RecoveryHandler()(handlers.LoggingHandler(os.Stderr, r))))
}
