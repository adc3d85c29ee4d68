// visualize-path renders a path JSON file as a static chart.
//
//	visualize-path [flags] <path.json> [output.png]
//
// Without an output file the chart is written to a temporary PNG and opened
// in the system viewer.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"velograph/algo"
	"velograph/config"
	"velograph/log"
	"velograph/publish"
	"velograph/render"

	"github.com/pkg/browser"
)

// openFile 打开查看器, 测试中替换
var openFile = browser.OpenFile

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: visualize-path [flags] <path.json> [output.png]")
	fmt.Fprintln(w, "Example: visualize-path sample_path.json")
	fmt.Fprintln(w, "         visualize-path sample_path.json output.png")
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("visualize-path", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configFile := fs.String("config", "", "YAML config file")
	publishTo := fs.String("publish", "", "upload the image to s3://bucket/prefix")
	fs.Usage = func() {
		usage(stderr)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() < 1 {
		usage(stdout)
		return 1
	}

	input := fs.Arg(0)
	output := ""
	if fs.NArg() > 1 {
		output = fs.Arg(1)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	lg := log.New(false, cfg.Log.Level, cfg.Log.Dir)
	defer lg.Close()

	var target publish.Target
	if *publishTo != "" {
		if target, err = publish.ParseURL(*publishTo); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
	}

	fmt.Fprintf(stdout, "Loading path from %s...\n", input)
	p, err := algo.LoadFromJSON(input)
	if err != nil {
		lg.Error("load failed", "file", input, "error", err)
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "Loaded %d nodes\n", p.Len())

	fmt.Fprintln(stdout, "Generating visualization...")
	if p.Empty() {
		lg.Warn("empty path", "file", input)
		fmt.Fprintln(stdout, "Error: No nodes to visualize")
		return 0
	}

	opts := render.StaticOptionsFrom(cfg.Render)
	start := time.Now()

	if output == "" {
		f, err := os.CreateTemp("", "velograph-path-*.png")
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		err = render.WriteStaticTo(f, p, "png", opts)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			lg.Error("render failed", "error", err)
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		lg.Info("rendered", "file", input, "nodes", p.Len(), "output", f.Name(), "elapsed", time.Since(start))

		if err := openFile(f.Name()); err != nil {
			fmt.Fprintf(stderr, "Error: unable to open viewer: %v\n", err)
			fmt.Fprintf(stdout, "Path visualization saved to %s\n", f.Name())
			return 1
		}
		fmt.Fprintln(stdout, "Displaying visualization (close window to exit)")
		output = f.Name()
	} else {
		if err := render.WriteStatic(p, output, opts); err != nil {
			lg.Error("render failed", "error", err)
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		lg.Info("rendered", "file", input, "nodes", p.Len(), "output", output, "elapsed", time.Since(start))
		fmt.Fprintf(stdout, "Path visualization saved to %s\n", output)
	}

	if *publishTo != "" {
		ctx := context.Background()
		pub, err := publish.NewS3Publisher(ctx, lg)
		if err == nil {
			var dest string
			if dest, err = pub.Publish(ctx, output, target); err == nil {
				fmt.Fprintf(stdout, "Published to %s\n", dest)
			}
		}
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
	}
	return 0
}
