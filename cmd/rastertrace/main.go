package main

import (
	"flag"
	"fmt"
	"image/png"
	"log"
	"os"

	"github.com/ironsheep/rastertrace"
	"github.com/ironsheep/rastertrace/internal/config"
	"github.com/ironsheep/rastertrace/internal/imaging"
	"github.com/ironsheep/rastertrace/internal/raster"
	"github.com/ironsheep/rastertrace/internal/refine"
	"github.com/ironsheep/rastertrace/internal/svgmodel"
	"github.com/ironsheep/rastertrace/internal/svgwrite"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("rastertrace %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printUsage()
			return
		}
	}

	// Configure logging to stderr (stdout is reserved for piped SVG output)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	if err := run(os.Args[1:]); err != nil {
		log.Fatalf("rastertrace: %v", err)
	}
}

func printUsage() {
	fmt.Println("rastertrace - raster image to SVG vector tracer")
	fmt.Println()
	fmt.Println("Usage: rastertrace --input <path> [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --input <path>        Source raster image (PNG/JPEG/GIF)")
	fmt.Println("  --output <path>       Destination SVG file (default: stdout)")
	fmt.Println("  --backend <name>      edge, centerline, or dots (default: edge)")
	fmt.Println("  --detail <0..1>       Detail knob driving ThresholdMapping (default: 0.5)")
	fmt.Println("  --stroke-px <float>   Stroke width at a 1920x1080 reference (default: 1.5)")
	fmt.Println("  --multipass           Run a second pass at half detail and merge")
	fmt.Println("  --refine              Run the error-driven refinement loop after tracing")
	fmt.Println("  --preview <path>      Also render a PNG preview of the traced output")
	fmt.Println("  --version, -v         Print version information")
	fmt.Println("  --help, -h            Print this help message")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  RASTERTRACE_LOG_LEVEL=debug    Enable debug logging")
}

func run(args []string) error {
	fs := flag.NewFlagSet("rastertrace", flag.ContinueOnError)
	input := fs.String("input", "", "source raster image path")
	output := fs.String("output", "", "destination SVG path (default stdout)")
	backend := fs.String("backend", "edge", "edge, centerline, or dots")
	detail := fs.Float64("detail", 0.5, "detail level in [0,1]")
	strokePx := fs.Float64("stroke-px", 1.5, "stroke width at a 1920x1080 reference resolution")
	multipass := fs.Bool("multipass", false, "run a second pass at half detail and merge")
	doRefine := fs.Bool("refine", false, "run the error-driven refinement loop after tracing")
	preview := fs.String("preview", "", "also render a PNG preview to this path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *input == "" {
		return fmt.Errorf("--input is required")
	}

	if os.Getenv("RASTERTRACE_LOG_LEVEL") == "debug" {
		log.Printf("rastertrace %s (built %s, commit %s): tracing %s", Version, BuildTime, GitCommit, *input)
	}

	cfg, err := buildConfig(*backend, *detail, *strokePx, *multipass)
	if err != nil {
		return err
	}

	cache := imaging.NewImageCache()
	img, err := cache.Load(*input)
	if err != nil {
		return fmt.Errorf("load %s: %w", *input, err)
	}

	opts := rastertrace.Options{}
	if *doRefine {
		opts.EnableRefinement = true
		opts.RefineConfig = refine.DefaultConfig()
	}

	result, err := rastertrace.Trace(img, cfg, opts)
	if err != nil {
		return fmt.Errorf("trace %s: %w", *input, err)
	}
	if os.Getenv("RASTERTRACE_LOG_LEVEL") == "debug" {
		log.Printf("traced %d paths", len(result.Paths))
	}

	b := img.Bounds()
	doc := svgwrite.Write(result.Paths, svgwrite.Options{Width: b.Dx(), Height: b.Dy()})

	if err := writeOutput(*output, doc); err != nil {
		return err
	}

	if *preview != "" {
		if err := writePreview(*preview, result.Paths, b.Dx(), b.Dy()); err != nil {
			return fmt.Errorf("render preview: %w", err)
		}
	}

	return nil
}

// writePreview rasterizes the traced paths against a white background
// and writes a PNG, letting the CLI double as the "render a preview"
// collaborator SPEC_FULL.md's external-interfaces section describes.
func writePreview(path string, paths []svgmodel.SvgPath, w, h int) error {
	img := raster.Render(paths, w, h, nil)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

func buildConfig(backend string, detail, strokePx float64, multipass bool) (config.TraceLowConfig, error) {
	cfg := config.Default()
	switch backend {
	case "edge", "":
		cfg.Backend = config.BackendEdge
	case "centerline":
		cfg.Backend = config.BackendCenterline
	case "dots":
		cfg.Backend = config.BackendDots
	default:
		return config.TraceLowConfig{}, fmt.Errorf("unknown backend %q", backend)
	}
	cfg.Common.Detail = float32(detail)
	cfg.Common.StrokePxAt1080p = float32(strokePx)
	cfg.Common.EnableMultipass = multipass
	return cfg, nil
}

func writeOutput(path, doc string) error {
	if path == "" {
		_, err := fmt.Print(doc)
		return err
	}
	return os.WriteFile(path, []byte(doc), 0o644)
}
