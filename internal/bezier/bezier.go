// Package bezier fits cubic Bezier segments to traced polylines: split
// at corners, least-squares fit each run with chord-length
// parameterization refined by Newton-Raphson, recursive subdivision on
// residual, curvature-regularized. See spec.md §4.6.
package bezier

import (
	"math"

	"github.com/ironsheep/rastertrace/internal/svgmodel"
)

// Config holds the fitter-specific knobs from config.EdgeConfig.
type Config struct {
	SplitAngleDeg float64 // corner-split threshold, default 32
	MaxErr        float64 // residual above which a segment is re-split
	LambdaCurv    float64 // curvature regularization weight
}

// DefaultConfig matches config.DefaultEdgeConfig's fit fields.
func DefaultConfig() Config {
	return Config{SplitAngleDeg: 32, MaxErr: 1.5, LambdaCurv: 0.02}
}

// Fit splits pl at sharp corners and least-squares fits each run,
// returning the concatenated list of cubic Bezier segments with shared
// (C0-continuous) endpoints between consecutive segments.
func Fit(pl svgmodel.Polyline, cfg Config) []svgmodel.CubicBezier {
	if len(pl) < 2 {
		return nil
	}
	runs := splitAtCorners(pl, cfg.SplitAngleDeg)

	var out []svgmodel.CubicBezier
	for _, run := range runs {
		if len(run) < 2 {
			continue
		}
		tHat1 := startTangent(run)
		tHat2 := endTangent(run)
		out = append(out, fitCubic(run, tHat1, tHat2, cfg, 0)...)
	}
	return out
}

// splitAtCorners breaks pl into runs wherever the per-vertex turning
// angle, measured between the vertex's incoming and outgoing segments,
// exceeds splitAngleDeg.
func splitAtCorners(pl svgmodel.Polyline, splitAngleDeg float64) []svgmodel.Polyline {
	if len(pl) < 3 {
		return []svgmodel.Polyline{pl}
	}
	thresh := splitAngleDeg * math.Pi / 180

	var runs []svgmodel.Polyline
	start := 0
	for i := 1; i < len(pl)-1; i++ {
		v1 := pl[i].Sub(pl[i-1])
		v2 := pl[i+1].Sub(pl[i])
		n1, n2 := v1.Norm(), v2.Norm()
		if n1 < 1e-9 || n2 < 1e-9 {
			continue
		}
		cosA := v1.Dot(v2) / (n1 * n2)
		cosA = math.Max(-1, math.Min(1, cosA))
		angle := math.Acos(cosA)
		if angle > thresh {
			runs = append(runs, pl[start:i+1])
			start = i
		}
	}
	runs = append(runs, pl[start:])
	return runs
}

func startTangent(pl svgmodel.Polyline) svgmodel.Point {
	d := pl[1].Sub(pl[0])
	return unit(d)
}

func endTangent(pl svgmodel.Polyline) svgmodel.Point {
	d := pl[len(pl)-2].Sub(pl[len(pl)-1])
	return unit(d)
}

func unit(p svgmodel.Point) svgmodel.Point {
	n := p.Norm()
	if n < 1e-12 {
		return svgmodel.Point{}
	}
	return p.Scale(1 / n)
}

const maxRecursionDepth = 8

// fitCubic implements the Graphics Gems "FitCurve" procedure: fit with
// chord-length parameterization, refine parameterization by one
// Newton-Raphson pass, and recursively split at the worst residual
// point when the fit's max error exceeds cfg.MaxErr.
func fitCubic(pts svgmodel.Polyline, tHat1, tHat2 svgmodel.Point, cfg Config, depth int) []svgmodel.CubicBezier {
	if len(pts) < 2 {
		return nil
	}
	if len(pts) == 2 {
		dist := pts[0].Dist(pts[1]) / 3
		return []svgmodel.CubicBezier{{
			P0: pts[0],
			P1: pts[0].Add(tHat1.Scale(dist)),
			P2: pts[1].Add(tHat2.Scale(dist)),
			P3: pts[1],
		}}
	}

	u := chordLengthParameterize(pts)
	curve := generateBezier(pts, u, tHat1, tHat2, cfg.LambdaCurv)
	maxErr, splitIdx := computeMaxError(pts, curve, u)
	if maxErr < cfg.MaxErr || depth >= maxRecursionDepth {
		return []svgmodel.CubicBezier{curve}
	}

	uPrime := reparameterize(curve, pts, u)
	curve2 := generateBezier(pts, uPrime, tHat1, tHat2, cfg.LambdaCurv)
	maxErr2, splitIdx2 := computeMaxError(pts, curve2, uPrime)
	if maxErr2 < cfg.MaxErr {
		return []svgmodel.CubicBezier{curve2}
	}
	if maxErr2 < maxErr {
		splitIdx = splitIdx2
	}

	if splitIdx <= 0 || splitIdx >= len(pts)-1 {
		return []svgmodel.CubicBezier{curve}
	}

	centerTangent := computeCenterTangent(pts, splitIdx)
	left := fitCubic(pts[:splitIdx+1], tHat1, centerTangent, cfg, depth+1)
	right := fitCubic(pts[splitIdx:], centerTangent.Scale(-1), tHat2, cfg, depth+1)
	return append(left, right...)
}

func chordLengthParameterize(pts svgmodel.Polyline) []float64 {
	u := make([]float64, len(pts))
	for i := 1; i < len(pts); i++ {
		u[i] = u[i-1] + pts[i-1].Dist(pts[i])
	}
	total := u[len(u)-1]
	if total > 1e-12 {
		for i := range u {
			u[i] /= total
		}
	}
	return u
}

func bernstein(t float64) (b0, b1, b2, b3 float64) {
	mt := 1 - t
	b0 = mt * mt * mt
	b1 = 3 * mt * mt * t
	b2 = 3 * mt * t * t
	b3 = t * t * t
	return
}

// generateBezier solves the standard 2x2 least-squares system for the
// two control-point distances (alpha1, alpha2) along tHat1/tHat2,
// damping the solution toward shorter (lower-curvature) control arms
// by lambdaCurv — a Tikhonov-style regularization of the system's
// diagonal, approximating the ∫κ² dt penalty spec.md §4.6 specifies.
func generateBezier(pts svgmodel.Polyline, u []float64, tHat1, tHat2 svgmodel.Point, lambdaCurv float64) svgmodel.CubicBezier {
	p0, p3 := pts[0], pts[len(pts)-1]

	var c [2][2]float64
	var x [2]float64

	for i, t := range u {
		_, b1, b2, _ := bernstein(t)
		a1 := tHat1.Scale(b1)
		a2 := tHat2.Scale(b2)

		c[0][0] += a1.Dot(a1)
		c[0][1] += a1.Dot(a2)
		c[1][0] = c[0][1]
		c[1][1] += a2.Dot(a2)

		b0, _, _, b3 := bernstein(t)
		shortfall := pts[i].Sub(p0.Scale(b0 + b1)).Sub(p3.Scale(b2 + b3))
		x[0] += a1.Dot(shortfall)
		x[1] += a2.Dot(shortfall)
	}

	c[0][0] += lambdaCurv
	c[1][1] += lambdaCurv

	det := c[0][0]*c[1][1] - c[1][0]*c[0][1]
	var alpha1, alpha2 float64
	if math.Abs(det) > 1e-12 {
		detC0X := c[0][0]*x[1] - c[1][0]*x[0]
		detXC1 := x[0]*c[1][1] - x[1]*c[0][1]
		alpha1 = detXC1 / det
		alpha2 = detC0X / det
	}

	segLen := p0.Dist(p3)
	epsilon := segLen * 1e-6
	if alpha1 < epsilon || alpha2 < epsilon {
		dist := segLen / 3
		return svgmodel.CubicBezier{
			P0: p0,
			P1: p0.Add(tHat1.Scale(dist)),
			P2: p3.Add(tHat2.Scale(dist)),
			P3: p3,
		}
	}

	return svgmodel.CubicBezier{
		P0: p0,
		P1: p0.Add(tHat1.Scale(alpha1)),
		P2: p3.Add(tHat2.Scale(alpha2)),
		P3: p3,
	}
}

// computeMaxError returns the largest distance residual between
// pts and curve (evaluated at each point's u parameter) and the index
// of the offending point.
func computeMaxError(pts svgmodel.Polyline, curve svgmodel.CubicBezier, u []float64) (float64, int) {
	maxDist := 0.0
	splitIdx := len(pts) / 2
	for i, t := range u {
		p := curve.PointAt(t)
		d := p.Dist(pts[i])
		if d > maxDist {
			maxDist = d
			splitIdx = i
		}
	}
	return maxDist, splitIdx
}

// reparameterize refines each u[i] by one Newton-Raphson step against
// the fitted curve, per spec.md §4.6.
func reparameterize(curve svgmodel.CubicBezier, pts svgmodel.Polyline, u []float64) []float64 {
	out := make([]float64, len(u))
	for i, t := range u {
		out[i] = newtonRaphsonRootFind(curve, pts[i], t)
	}
	return out
}

func newtonRaphsonRootFind(curve svgmodel.CubicBezier, point svgmodel.Point, t float64) float64 {
	qt := curve.PointAt(t)
	q1 := derivative1(curve, t)
	q2 := derivative2(curve, t)

	numerator := (qt.X-point.X)*q1.X + (qt.Y-point.Y)*q1.Y
	denominator := q1.X*q1.X + q1.Y*q1.Y + (qt.X-point.X)*q2.X + (qt.Y-point.Y)*q2.Y
	if math.Abs(denominator) < 1e-12 {
		return t
	}
	newT := t - numerator/denominator
	if newT < 0 {
		newT = 0
	} else if newT > 1 {
		newT = 1
	}
	return newT
}

func derivative1(c svgmodel.CubicBezier, t float64) svgmodel.Point {
	mt := 1 - t
	p01 := c.P1.Sub(c.P0).Scale(3 * mt * mt)
	p12 := c.P2.Sub(c.P1).Scale(6 * mt * t)
	p23 := c.P3.Sub(c.P2).Scale(3 * t * t)
	return p01.Add(p12).Add(p23)
}

func derivative2(c svgmodel.CubicBezier, t float64) svgmodel.Point {
	mt := 1 - t
	a := c.P2.Sub(c.P1.Scale(2)).Add(c.P0).Scale(6 * mt)
	b := c.P3.Sub(c.P2.Scale(2)).Add(c.P1).Scale(6 * t)
	return a.Add(b)
}

// computeCenterTangent estimates the tangent direction at the split
// point from its neighbors, used as the shared tangent between the two
// recursive halves.
func computeCenterTangent(pts svgmodel.Polyline, splitIdx int) svgmodel.Point {
	v1 := pts[splitIdx-1].Sub(pts[splitIdx])
	v2 := pts[splitIdx].Sub(pts[splitIdx+1])
	center := v1.Add(v2).Scale(0.5)
	return unit(center)
}
