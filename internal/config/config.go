// Package config defines TraceLowConfig as a small CommonConfig plus one
// of four backend-specific structs, selected by Backend. Every backend
// struct is present in every config and only the selected backend's
// fields are read, so a combination such as an ETF radius on the Dots
// backend compiles and has no effect.
// Validation lives alongside the types it validates, following the
// original source's validation module (see original_source/wasm/vectorize-core/src/config.rs)
// translated into idiomatic Go error returns instead of a Result-typed
// free function module.
package config

import (
	"math"

	"github.com/ironsheep/rastertrace/internal/tracererr"
)

// Backend selects which tracing pipeline processes the image.
type Backend int

const (
	BackendEdge Backend = iota
	BackendCenterline
	BackendDots
	BackendSuperpixel
)

func (b Backend) String() string {
	switch b {
	case BackendEdge:
		return "edge"
	case BackendCenterline:
		return "centerline"
	case BackendDots:
		return "dots"
	case BackendSuperpixel:
		return "superpixel"
	default:
		return "unknown"
	}
}

// ThresholdingStrategy selects the binarization method used by the
// Centerline backend.
type ThresholdingStrategy int

const (
	ThresholdSauvola ThresholdingStrategy = iota
	ThresholdBradleyRoth
)

// ThinningStrategy selects the skeletonization method used by the
// Centerline backend.
type ThinningStrategy int

const (
	ThinningGuoHall ThinningStrategy = iota
	ThinningDistanceRidge
)

// CommonConfig holds the fields every backend consumes.
type CommonConfig struct {
	// Detail in [0,1] feeds ThresholdMapping. Clamped if out of range.
	Detail float32
	// StrokePxAt1080p is the output stroke width, normalized to the image's
	// actual resolution relative to a 1920x1080 reference.
	StrokePxAt1080p float32
	// EnableMultipass runs the backend at two detail levels and merges
	// results, trading latency for stability on noisy inputs.
	EnableMultipass bool
	// Seed drives every PRNG in the pipeline (K-means, Poisson-disk). A
	// fixed default (42) keeps runs reproducible across platforms.
	Seed uint64
}

// DefaultCommonConfig returns the spec's documented defaults.
func DefaultCommonConfig() CommonConfig {
	return CommonConfig{
		Detail:          0.3,
		StrokePxAt1080p: 1.2,
		EnableMultipass: false,
		Seed:            42,
	}
}

// EdgeConfig holds Edge-backend-only fields (ETF/FDoG/tracer/fit).
type EdgeConfig struct {
	EnableETFFDoG       bool
	EnableFlowTracing   bool
	EnableBezierFitting bool

	ETFRadius        int
	ETFIterations    int
	ETFCoherencyTau  float32

	FDoGSigmaS float32
	FDoGSigmaC float32
	FDoGTau    float32

	// NMSLow/NMSHigh override the adaptive hysteresis thresholds from
	// ThresholdMapping when non-zero.
	NMSLow  float32
	NMSHigh float32

	TraceMinGrad       float32
	TraceMinCoherency  float32
	TraceMaxGap        int
	TraceMaxLen        int

	FitLambdaCurv  float32
	FitMaxErr      float32
	FitSplitAngle  float32
}

// DefaultEdgeConfig returns spec.md's documented Edge-backend defaults.
func DefaultEdgeConfig() EdgeConfig {
	return EdgeConfig{
		EnableETFFDoG:       true,
		EnableFlowTracing:   true,
		EnableBezierFitting: true,
		ETFRadius:           4,
		ETFIterations:       4,
		ETFCoherencyTau:     0.2,
		FDoGSigmaS:          1.2,
		FDoGSigmaC:          1.0,
		FDoGTau:             0.9,
		TraceMinGrad:        0.05,
		TraceMinCoherency:   0.2,
		TraceMaxGap:         4,
		TraceMaxLen:         4000,
		FitLambdaCurv:       0.02,
		FitMaxErr:           1.5,
		FitSplitAngle:       32,
	}
}

// CenterlineConfig holds Centerline-backend-only fields.
type CenterlineConfig struct {
	Thresholding ThresholdingStrategy
	Thinning     ThinningStrategy
	// MorphologyIterations sets the opening/closing iteration count; 0 keeps
	// centerline.DefaultConfig's single pass. The count does not vary with
	// Detail.
	MorphologyIterations int
}

// DotsConfig holds Dots-backend-only fields.
type DotsConfig struct {
	DensityThreshold float32
	MinRadius        float32
	MaxRadius        float32
	PreserveColors   bool
	AdaptiveSizing   bool
	// BackgroundTolerance in [0,1]; 1.0 is a documented degenerate
	// escape-hatch that yields an empty background mask (see SPEC_FULL.md
	// open-question resolution), not a bug to special-case away.
	BackgroundTolerance float32
}

// DefaultDotsConfig returns spec.md's documented Dots-backend defaults.
func DefaultDotsConfig() DotsConfig {
	return DotsConfig{
		DensityThreshold:    0.15,
		MinRadius:           0.8,
		MaxRadius:           3.5,
		PreserveColors:      true,
		AdaptiveSizing:      true,
		BackgroundTolerance: 0.15,
	}
}

// TraceLowConfig is the top-level configuration for a single Trace call.
// Exactly one of Edge/Centerline/Dots is consulted, selected by Backend;
// the per-backend struct fields are simply ignored when that backend
// isn't selected.
type TraceLowConfig struct {
	Backend    Backend
	Common     CommonConfig
	Edge       EdgeConfig
	Centerline CenterlineConfig
	Dots       DotsConfig
}

// Default returns a ready-to-use Edge-backend configuration.
func Default() TraceLowConfig {
	return TraceLowConfig{
		Backend: BackendEdge,
		Common:  DefaultCommonConfig(),
		Edge:    DefaultEdgeConfig(),
		Dots:    DefaultDotsConfig(),
	}
}

// Validate checks the boundary rules from spec.md §6 and §7: non-finite
// floats, out-of-range knobs, and conflicting options. It does not touch
// image dimensions; callers validate those against the decoded image via
// ValidateDimensions.
func (c TraceLowConfig) Validate() error {
	const op = "config.Validate"
	if !finite(float64(c.Common.Detail)) {
		return tracererr.New(tracererr.InvalidConfig, op, "detail must be finite")
	}
	if !finite(float64(c.Common.StrokePxAt1080p)) || c.Common.StrokePxAt1080p <= 0 {
		return tracererr.New(tracererr.InvalidConfig, op, "stroke_px_at_1080p must be finite and positive")
	}
	switch c.Backend {
	case BackendEdge:
		if err := c.Edge.validate(); err != nil {
			return tracererr.Wrap(tracererr.InvalidConfig, op, err)
		}
	case BackendDots:
		if err := c.Dots.validate(); err != nil {
			return tracererr.Wrap(tracererr.InvalidConfig, op, err)
		}
	case BackendCenterline:
		// no numeric fields requiring validation beyond the enums, which
		// are exhaustively defined and so cannot be out of range.
	case BackendSuperpixel:
		// accepted at the config layer; Trace itself reports Unsupported.
	default:
		return tracererr.New(tracererr.InvalidConfig, op, "unknown backend")
	}
	return nil
}

func (e EdgeConfig) validate() error {
	// This build's Edge pipeline is ETF/FDoG + flow-guided tracing only;
	// there is no Canny-gradient/non-flow fallback implementation to fall
	// back to, so the switch is rejected rather than silently ignored.
	// See DESIGN.md.
	if !e.EnableETFFDoG || !e.EnableFlowTracing {
		return errString("enable_etf_fdog and enable_flow_tracing must both be true in this build; a Canny/non-flow Edge path is not implemented")
	}
	for _, v := range []float64{
		float64(e.ETFCoherencyTau), float64(e.FDoGSigmaS), float64(e.FDoGSigmaC),
		float64(e.FDoGTau), float64(e.TraceMinGrad), float64(e.TraceMinCoherency),
		float64(e.FitLambdaCurv), float64(e.FitMaxErr), float64(e.FitSplitAngle),
		float64(e.NMSLow), float64(e.NMSHigh),
	} {
		if !finite(v) {
			return errString("edge config contains a non-finite value")
		}
	}
	if e.ETFRadius < 0 || e.ETFIterations < 0 {
		return errString("etf radius/iterations must be non-negative")
	}
	if e.NMSLow < 0 || e.NMSHigh < 0 || (e.NMSHigh > 0 && e.NMSLow > e.NMSHigh) {
		return errString("nms_low must be <= nms_high")
	}
	return nil
}

func (d DotsConfig) validate() error {
	for _, v := range []float64{
		float64(d.DensityThreshold), float64(d.MinRadius), float64(d.MaxRadius),
		float64(d.BackgroundTolerance),
	} {
		if !finite(v) {
			return errString("dots config contains a non-finite value")
		}
	}
	if d.MinRadius <= 0 || d.MaxRadius < d.MinRadius {
		return errString("dot_min_radius must be > 0 and <= dot_max_radius")
	}
	if d.BackgroundTolerance < 0 || d.BackgroundTolerance > 1 {
		return errString("dot_background_tolerance must be in [0,1]")
	}
	return nil
}

// ValidateDimensions enforces the boundary rules from spec.md §6.
func ValidateDimensions(width, height int) error {
	const op = "config.ValidateDimensions"
	if width <= 0 || height <= 0 {
		return tracererr.New(tracererr.InvalidDimensions, op, "width and height must be positive")
	}
	if width > 16384 || height > 16384 {
		return tracererr.New(tracererr.InvalidDimensions, op, "dimension exceeds 16384px")
	}
	if width*height > 32_000_000 {
		return tracererr.New(tracererr.InvalidDimensions, op, "pixel count exceeds 32e6")
	}
	return nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

type simpleErr string

func (e simpleErr) Error() string { return string(e) }
func errString(s string) error    { return simpleErr(s) }
