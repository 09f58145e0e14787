// Package rastertrace is the public API: Trace converts a decoded
// raster image into an ordered list of vector path primitives via one
// of several tracing backends, optionally refined against the source
// image afterward. See spec.md §§1-6.
package rastertrace

import (
	"context"
	"image"
	"math"

	"github.com/ironsheep/rastertrace/internal/bezier"
	"github.com/ironsheep/rastertrace/internal/centerline"
	"github.com/ironsheep/rastertrace/internal/config"
	"github.com/ironsheep/rastertrace/internal/dots"
	"github.com/ironsheep/rastertrace/internal/etf"
	"github.com/ironsheep/rastertrace/internal/fdog"
	"github.com/ironsheep/rastertrace/internal/gradient"
	"github.com/ironsheep/rastertrace/internal/nms"
	"github.com/ironsheep/rastertrace/internal/refine"
	"github.com/ironsheep/rastertrace/internal/svgmodel"
	"github.com/ironsheep/rastertrace/internal/threshold"
	"github.com/ironsheep/rastertrace/internal/tracer"
	"github.com/ironsheep/rastertrace/internal/tracererr"
	"github.com/ironsheep/rastertrace/internal/workerpool"
)

// defaultStrokeColor is the fixed stroke color for Edge/Centerline
// output; neither backend samples source color per spec.md (only
// Dots' preserve_colors option does).
const defaultStrokeColor = "#000000"

// referenceDiagonalPx is the 1920x1080 reference stroke_px_at_1080p is
// normalized against.
var referenceDiagonalPx = math.Hypot(1920, 1080)

// Options controls behavior the core config doesn't: whether to run
// the refinement loop afterward, and which worker pool to fan out on.
type Options struct {
	EnableRefinement bool
	RefineConfig     refine.Config
	Pool             *workerpool.Pool // nil uses workerpool.Default()
}

// Result is the output of a single Trace call.
type Result struct {
	Paths  []svgmodel.SvgPath
	Refine *refine.Result // nil unless Options.EnableRefinement was set
}

// Trace runs cfg.Backend's pipeline on img and returns its vector
// output, optionally passed through the refinement loop. See spec.md
// §4 for the per-backend algorithms and §6 for the config surface.
func Trace(img image.Image, cfg config.TraceLowConfig, opts Options) (Result, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if err := config.ValidateDimensions(w, h); err != nil {
		return Result{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}

	pool := opts.Pool
	if pool == nil {
		pool = workerpool.Default()
	}
	strokeWidth := scaleStroke(float64(cfg.Common.StrokePxAt1080p), w, h)

	paths, err := traceBackend(img, cfg, pool, strokeWidth)
	if err != nil {
		return Result{}, err
	}

	if cfg.Common.EnableMultipass {
		paths, err = mergeMultipass(img, cfg, pool, strokeWidth, paths)
		if err != nil {
			return Result{}, err
		}
	}
	paths = svgmodel.ClampPaths(paths, float64(w), float64(h))

	result := Result{Paths: paths}
	if opts.EnableRefinement {
		rcfg := opts.RefineConfig
		r := refine.Run(img, paths, w, h, nil, rcfg)
		r.Paths = svgmodel.ClampPaths(r.Paths, float64(w), float64(h))
		result.Paths = r.Paths
		result.Refine = &r
	}
	return result, nil
}

func traceBackend(img image.Image, cfg config.TraceLowConfig, pool *workerpool.Pool, strokeWidth float64) ([]svgmodel.SvgPath, error) {
	const op = "rastertrace.traceBackend"
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	mapping := threshold.New(float64(cfg.Common.Detail), w, h)

	switch cfg.Backend {
	case config.BackendEdge:
		return traceEdge(img, cfg, mapping, pool, strokeWidth), nil
	case config.BackendCenterline:
		return traceCenterline(img, cfg, mapping, pool, strokeWidth), nil
	case config.BackendDots:
		return dotsToSvgPaths(dots.Trace(img, cfg.Dots, cfg.Common.Seed)), nil
	case config.BackendSuperpixel:
		return nil, tracererr.New(tracererr.Unsupported, op, "superpixel backend is not implemented in this build")
	default:
		return nil, tracererr.New(tracererr.InvalidConfig, op, "unknown backend")
	}
}

// scaleStroke normalizes a stroke width specified at a 1920x1080
// reference resolution to the actual image's diagonal, per spec.md
// §6's stroke_px_at_1080p description.
func scaleStroke(strokePxAt1080p float64, w, h int) float64 {
	diag := math.Hypot(float64(w), float64(h))
	return strokePxAt1080p * diag / referenceDiagonalPx
}

func traceEdge(img image.Image, cfg config.TraceLowConfig, mapping threshold.Mapping, pool *workerpool.Pool, strokeWidth float64) []svgmodel.SvgPath {
	gray := gradient.FromImage(img)
	ec := cfg.Edge

	field := etf.Compute(gray, etf.Config{
		Radius: ec.ETFRadius, Iterations: ec.ETFIterations, CoherencyTau: float64(ec.ETFCoherencyTau),
	})
	resp := fdog.Compute(gray, field, fdog.Config{
		SigmaS: float64(ec.FDoGSigmaS), SigmaC: float64(ec.FDoGSigmaC), Tau: float64(ec.FDoGTau), Passes: 1,
	})
	suppressed := nms.Suppress(resp, field, nms.Config{PreSmooth: true})
	low, high := mapping.CannyLow, mapping.CannyHigh
	if ec.NMSHigh > 0 {
		low, high = float64(ec.NMSLow), float64(ec.NMSHigh)
	}
	mask := nms.Hysteresis(suppressed, nms.Config{Low: low, High: high})

	polylines := tracer.Trace(mask, field, resp, tracer.Config{
		MinGrad: float64(ec.TraceMinGrad), MinCoherency: float64(ec.TraceMinCoherency),
		MaxGap: ec.TraceMaxGap, MaxLen: ec.TraceMaxLen, Step: 1.0,
	})
	polylines = pruneShortPolylines(polylines, mapping.MinStrokeLengthPx)

	return fitAndConvert(polylines, ec, pool, strokeWidth)
}

// pruneShortPolylines drops every polyline shorter than minLen, the
// invariant spec.md §3 requires of every polyline the tracer emits.
func pruneShortPolylines(polylines []svgmodel.Polyline, minLen float64) []svgmodel.Polyline {
	out := make([]svgmodel.Polyline, 0, len(polylines))
	for _, pl := range polylines {
		if pl.Length() >= minLen {
			out = append(out, pl)
		}
	}
	return out
}

// fitAndConvert Bezier-fits every polyline (in parallel, index-ordered
// for determinism per spec.md §4.11's ordering guarantee) when
// EnableBezierFitting is set, otherwise emits the traced polylines
// unsimplified.
func fitAndConvert(polylines []svgmodel.Polyline, ec config.EdgeConfig, pool *workerpool.Pool, strokeWidth float64) []svgmodel.SvgPath {
	out := make([]svgmodel.SvgPath, len(polylines))
	if !ec.EnableBezierFitting {
		for i, pl := range polylines {
			out[i] = svgmodel.SvgPath{
				Kind: svgmodel.ElementPath, Polyline: pl,
				Stroke: defaultStrokeColor, StrokeWidth: strokeWidth, Opacity: 1,
			}
		}
		return out
	}

	bcfg := bezier.Config{
		SplitAngleDeg: float64(ec.FitSplitAngle), MaxErr: float64(ec.FitMaxErr), LambdaCurv: float64(ec.FitLambdaCurv),
	}
	_ = pool.ForEach(context.Background(), len(polylines), func(_ context.Context, i int) error {
		segs := bezier.Fit(polylines[i], bcfg)
		out[i] = svgmodel.SvgPath{
			Kind: svgmodel.ElementPath, Beziers: segs,
			Stroke: defaultStrokeColor, StrokeWidth: strokeWidth, Opacity: 1,
		}
		return nil
	})
	return out
}

func traceCenterline(img image.Image, cfg config.TraceLowConfig, mapping threshold.Mapping, pool *workerpool.Pool, strokeWidth float64) []svgmodel.SvgPath {
	gray := gradient.FromImage(img)
	cc := centerline.DefaultConfig()
	cc.Thresholding = cfg.Centerline.Thresholding
	cc.Thinning = cfg.Centerline.Thinning
	if cfg.Centerline.MorphologyIterations > 0 {
		cc.MorphIterations = cfg.Centerline.MorphologyIterations
	}

	polylines := centerline.Trace(gray, cc, mapping.MinCenterlineBranchPx, mapping.DPEpsilonPx)

	out := make([]svgmodel.SvgPath, len(polylines))
	for i, pl := range polylines {
		out[i] = svgmodel.SvgPath{
			Kind: svgmodel.ElementPath, Polyline: pl,
			Stroke: defaultStrokeColor, StrokeWidth: strokeWidth, Opacity: 1,
		}
	}
	return out
}

func dotsToSvgPaths(ds []svgmodel.Dot) []svgmodel.SvgPath {
	out := make([]svgmodel.SvgPath, len(ds))
	for i, d := range ds {
		out[i] = svgmodel.SvgPath{
			Kind: svgmodel.ElementCircle,
			CX:   d.CX, CY: d.CY, RX: d.Radius, RY: d.Radius,
			Fill: d.Color, Opacity: d.Opacity,
		}
	}
	return out
}

// mergeMultipass runs the pipeline a second time at half the
// requested detail and concatenates the two path sets, trading
// latency for stability on noisy inputs per spec.md §6's
// enable_multipass description. There is no documented merge/dedup
// rule beyond "merge", so this keeps both passes' output rather than
// inventing an overlap-resolution heuristic the spec doesn't specify.
func mergeMultipass(img image.Image, cfg config.TraceLowConfig, pool *workerpool.Pool, strokeWidth float64, first []svgmodel.SvgPath) ([]svgmodel.SvgPath, error) {
	secondCfg := cfg
	secondCfg.Common.Detail = cfg.Common.Detail * 0.5
	secondCfg.Common.EnableMultipass = false
	second, err := traceBackend(img, secondCfg, pool, strokeWidth)
	if err != nil {
		return nil, err
	}
	return append(append([]svgmodel.SvgPath{}, first...), second...), nil
}
