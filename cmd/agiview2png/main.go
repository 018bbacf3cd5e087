// Command agiview2png converts AGI View resources into images.
//
// Every view passed on the command line is converted independently; a view
// that cannot be read or decoded is reported and skipped.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"badc0de.net/pkg/flagutil/v1"
	"github.com/common-nighthawk/go-figure"
	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-agi/compositor"
	"badc0de.net/pkg/go-agi/paths"
	"badc0de.net/pkg/go-agi/sink"
	"badc0de.net/pkg/go-agi/view"
)

var (
	outDir       = flag.String("out_dir", "", "directory to write images into (default: next to each view)")
	format       = flag.String("format", sink.FormatPNG, "output format: png or gif")
	scale        = flag.Int("scale", 1, "integer factor to enlarge images by")
	animate      = flag.Bool("animate", false, "also write an animated gif of every loop")
	parallel     = flag.Bool("parallel", false, "decode cels concurrently")
	printDataURL = flag.Bool("dataurl", false, "print data URLs on stdout instead of writing files")
	banner       = flag.Bool("banner", true, "print the program banner")
)

// loopFrameDelay is the animation delay per cel, in hundredths of a second.
const loopFrameDelay = 20

type converter struct {
	opts   *sink.Options
	status io.Writer
	out    io.Writer
}

func (c *converter) convert(path string) error {
	f, err := paths.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	res, err := view.Load(f)
	if err != nil {
		return errors.Wrap(err, "parsing view")
	}
	glog.V(1).Infof("%s: %d loops, %d cels", path, len(res.Loops), res.CelCount())

	img, err := compositor.Composite(res.View, res, &compositor.Options{Parallel: *parallel})
	if err != nil {
		return errors.Wrap(err, "decoding cels")
	}

	if *printDataURL {
		u, err := sink.DataURL(img, c.opts)
		if err != nil {
			return err
		}
		fmt.Fprintln(c.out, u)
		fmt.Fprintf(c.status, "done\n")
		return nil
	}

	name := paths.Output(path, *outDir, c.opts.Ext())
	if err := sink.WriteFile(name, img, c.opts); err != nil {
		return err
	}
	fmt.Fprintf(c.status, "saved %s\n", name)

	if *animate {
		for i := range res.Loops {
			if len(res.Loops[i].Cels) == 0 {
				continue
			}
			frames, err := compositor.LoopFrames(res.View, res, i)
			if err != nil {
				return err
			}
			name := paths.Output(path, *outDir, fmt.Sprintf(".loop%d.gif", i))
			if err := sink.WriteAnimationFile(name, frames, loopFrameDelay, c.opts.Scale); err != nil {
				return err
			}
			fmt.Fprintf(c.status, "  saved %s\n", name)
		}
	}
	return nil
}

// printBanner writes the banner to the status stream, which is kept off
// stdout when data URLs are printed there.
func (c *converter) printBanner() {
	figure.Write(c.status, figure.NewFigure("agiview2png", "", true))
	fmt.Fprintf(c.status, "Convert Sierra Adventure Game Interpreter (AGI) View resources to images\n\n")
}

// run converts every path and returns how many failed.
func (c *converter) run(inputs []string) int {
	failed := 0
	for _, path := range inputs {
		fmt.Fprintf(c.status, "Converting %s... ", path)
		if err := c.convert(path); err != nil {
			fmt.Fprintf(c.status, "Error: %v\n", err)
			failed++
		}
	}
	return failed
}

func main() {
	flagutil.Parse()
	defer glog.Flush()

	c := &converter{
		opts:   &sink.Options{Format: *format, Scale: *scale},
		status: os.Stdout,
		out:    os.Stdout,
	}
	if *printDataURL {
		c.status = os.Stderr
	}

	if *banner {
		c.printBanner()
	}

	if err := c.opts.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}
	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] view path [view path ...]\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}

	if failed := c.run(flag.Args()); failed > 0 {
		glog.Errorf("%d of %d views failed to convert", failed, flag.NArg())
		glog.Flush()
		os.Exit(1)
	}
}
