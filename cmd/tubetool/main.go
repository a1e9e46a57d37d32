// tubetool builds tube meshes from a path file without opening a window.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/tubemesh/internal/config"
	"github.com/Faultbox/tubemesh/internal/export"
	"github.com/Faultbox/tubemesh/internal/logger"
	"github.com/Faultbox/tubemesh/internal/pathcfg"
	"github.com/Faultbox/tubemesh/internal/tube"
	"github.com/Faultbox/tubemesh/internal/tube/modifier"
	pmath "github.com/Faultbox/tubemesh/pkg/math"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "info":
		err = cmdInfo(args)
	case "export":
		err = cmdExport(args)
	case "bench":
		err = cmdBench(args)
	case "init":
		err = cmdInit(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`tubetool - tube mesh generator

Usage:
  tubetool <command> [options] [path.yaml]

Commands:
  info [path.yaml]                 Show path, segment and mesh statistics
  export -o out.obj [path.yaml]    Write the mesh as Wavefront OBJ
  bench [-n N] [path.yaml]         Time full rebuilds against incremental updates
  init [path.yaml]                 Write the default configuration

Without a path file the built-in default path is used.

Examples:
  tubetool info spiral.yaml
  tubetool export -o spiral.obj -base spiral.yaml
  tubetool bench -n 500 spiral.yaml`)
}

// commonFlags registers the flags every command accepts.
func commonFlags(fs *flag.FlagSet) (verbose *bool) {
	return fs.Bool("v", false, "Log at debug level to stderr")
}

func setup(fs *flag.FlagSet, args []string, verbose *bool) (*config.Config, error) {
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	level := "warn"
	if *verbose {
		level = "debug"
	}
	if err := logger.Init(level, ""); err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	if fs.NArg() == 0 {
		cfg := config.Default()
		return cfg, cfg.Validate()
	}
	return config.LoadFile(fs.Arg(0))
}

// newBuilder wires a builder for cfg. With base set the modifier pipeline
// is left out and only the plain segment tube is produced.
func newBuilder(cfg *config.Config, base bool) (*tube.Builder, error) {
	path := pathcfg.New(cfg.Tube.Vec3Points(), cfg.Tube.FaceCount, cfg.Tube.Radius)
	opts := []tube.Option{tube.WithLogger(logger.Named("tube"))}
	if !base {
		pipeline, err := modifier.FromConfig(cfg.Modifiers)
		if err != nil {
			return nil, err
		}
		opts = append(opts, tube.WithModifiers(pipeline...))
	}
	b := tube.NewBuilder(path, opts...)
	b.FullRebuild()
	return b, nil
}

func cmdInfo(args []string) error {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	verbose := commonFlags(fs)
	cfg, err := setup(fs, args, verbose)
	if err != nil {
		return err
	}

	b, err := newBuilder(cfg, false)
	if err != nil {
		return err
	}
	path := b.Path()
	m := b.Mesh()

	fmt.Printf("Points:     %d\n", path.PointCount())
	fmt.Printf("Faces:      %d\n", path.FaceCount())
	fmt.Printf("Radius:     %g\n", path.Radius())
	fmt.Printf("Segments:   %d\n", b.SegmentCount())
	fmt.Printf("Vertices:   %d\n", m.VertexCount())
	fmt.Printf("Triangles:  %d\n", m.TriangleCount())
	fmt.Printf("Bounds:     %v .. %v\n", fmtVec(m.Bounds.Min), fmtVec(m.Bounds.Max))

	var stages []string
	for _, s := range b.Pipeline() {
		state := "off"
		if s.Enabled() {
			state = "on"
		}
		stages = append(stages, fmt.Sprintf("%s(%s)", s.Name(), state))
	}
	fmt.Printf("Modifiers:  %s\n", strings.Join(stages, " "))

	fmt.Println()
	fmt.Println("Segments:")
	for i := 0; i < b.SegmentCount(); i++ {
		s, ok := b.GetSegmentInfo(i)
		if !ok {
			continue
		}
		note := ""
		if s.Collapsed {
			note = " (collapsed)"
		}
		fmt.Printf("  %3d  %v -> %v  length %.4g%s\n", i, fmtVec(s.StartCenter), fmtVec(s.EndCenter), s.Length(), note)
	}
	return nil
}

func cmdExport(args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	verbose := commonFlags(fs)
	out := fs.String("o", "tube.obj", "Output file")
	base := fs.Bool("base", false, "Skip modifiers and export the plain segment tube")
	cfg, err := setup(fs, args, verbose)
	if err != nil {
		return err
	}

	b, err := newBuilder(cfg, *base)
	if err != nil {
		return err
	}
	name := strings.TrimSuffix(filepath.Base(*out), filepath.Ext(*out))
	if err := export.SaveOBJ(*out, b.Mesh(), name); err != nil {
		return err
	}
	fmt.Printf("Wrote %s (%d vertices, %d triangles)\n", *out, b.Mesh().VertexCount(), b.Mesh().TriangleCount())
	return nil
}

func cmdBench(args []string) error {
	fs := flag.NewFlagSet("bench", flag.ExitOnError)
	verbose := commonFlags(fs)
	n := fs.Int("n", 200, "Iterations per mode")
	base := fs.Bool("base", false, "Skip modifiers")
	cfg, err := setup(fs, args, verbose)
	if err != nil {
		return err
	}
	if *n < 1 {
		return fmt.Errorf("-n must be positive")
	}

	b, err := newBuilder(cfg, *base)
	if err != nil {
		return err
	}
	path := b.Path()
	mid := path.PointCount() / 2
	origin, _ := path.GetPoint(mid)

	// Wiggle one interior point so each iteration has real work to do.
	wiggle := func(i int) {
		offset := pmath.Vec3{Y: 0.01 * float32(i%2)}
		path.UpdatePointPosition(mid, origin.Add(offset))
	}

	start := time.Now()
	for i := 0; i < *n; i++ {
		wiggle(i)
		b.IncrementalUpdate()
	}
	incremental := time.Since(start) / time.Duration(*n)

	start = time.Now()
	for i := 0; i < *n; i++ {
		wiggle(i)
		b.FullRebuild()
	}
	full := time.Since(start) / time.Duration(*n)

	logger.Debug("bench done", zap.Int("iterations", *n), zap.Int("points", path.PointCount()))
	fmt.Printf("Points:       %d\n", path.PointCount())
	fmt.Printf("Triangles:    %d\n", b.Mesh().TriangleCount())
	fmt.Printf("Incremental:  %v/op\n", incremental)
	fmt.Printf("Full rebuild: %v/op\n", full)
	if incremental > 0 {
		fmt.Printf("Speedup:      %.2fx\n", float64(full)/float64(incremental))
	}
	return nil
}

func cmdInit(args []string) error {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	force := fs.Bool("f", false, "Overwrite an existing file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	path := config.FileName
	if fs.NArg() > 0 {
		path = fs.Arg(0)
	}
	if _, err := os.Stat(path); err == nil && !*force {
		return fmt.Errorf("%s exists (use -f to overwrite)", path)
	}
	if err := config.Default().SaveTo(path); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}

func fmtVec(v pmath.Vec3) string {
	return fmt.Sprintf("(%.3g, %.3g, %.3g)", v.X, v.Y, v.Z)
}
