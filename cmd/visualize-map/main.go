// visualize-map writes a path JSON file as an HTML page with an interactive
// Leaflet map and opens it in the default browser.
//
//	visualize-map [flags] <path.json> [output.html]
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"velograph/algo"
	"velograph/config"
	"velograph/log"
	"velograph/publish"
	"velograph/render"

	"github.com/pkg/browser"
)

var openFile = browser.OpenFile

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: visualize-map [flags] <path.json> [output.html]")
	fmt.Fprintln(w, "Example: visualize-map sample_path.json")
	fmt.Fprintln(w, "         visualize-map -open=false sample_path.json route.html")
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("visualize-map", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configFile := fs.String("config", "", "YAML config file")
	open := fs.Bool("open", true, "open the map in the default browser")
	publishTo := fs.String("publish", "", "upload the page to s3://bucket/prefix")
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
	output := render.DefaultMapFile
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

	if p.Empty() {
		lg.Warn("empty path", "file", input)
		fmt.Fprintln(stdout, "Error: No nodes to visualize")
		return 0
	}

	fmt.Fprintln(stdout, "Generating interactive map...")
	start := time.Now()
	output, err = render.SaveInteractive(p, output, render.MapOptionsFrom(cfg.Render))
	if err != nil {
		lg.Error("render failed", "error", err)
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	lg.Info("rendered", "file", input, "nodes", p.Len(), "output", output, "elapsed", time.Since(start))
	fmt.Fprintf(stdout, "Interactive map saved to %s\n", output)

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

	if *open {
		abs, err := filepath.Abs(output)
		if err != nil {
			abs = output
		}
		if err := openFile(abs); err != nil {
			lg.Warn("unable to open browser", "error", err)
			fmt.Fprintf(stderr, "Unable to open browser: %v\n", err)
			return 0
		}
		fmt.Fprintln(stdout, "Opened map in browser")
	}
	return 0
}
