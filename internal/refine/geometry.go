package refine

import (
	"math"

	"github.com/ironsheep/rastertrace/internal/svgmodel"
)

// rect is an integer pixel-space bounding box, X1/Y1 exclusive, the
// same convention svgmodel.Tile and imaging.Region use.
type rect struct{ X0, Y0, X1, Y1 int }

func tileRect(t svgmodel.Tile) rect { return rect{t.X0, t.Y0, t.X1, t.Y1} }

func (r rect) area() int {
	w, h := r.X1-r.X0, r.Y1-r.Y0
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}

func intersectRect(a, b rect) (rect, bool) {
	r := rect{
		X0: max(a.X0, b.X0), Y0: max(a.Y0, b.Y0),
		X1: min(a.X1, b.X1), Y1: min(a.Y1, b.Y1),
	}
	if r.X1 <= r.X0 || r.Y1 <= r.Y0 {
		return rect{}, false
	}
	return r, true
}

func polylineBBox(pl svgmodel.Polyline) rect {
	if len(pl) == 0 {
		return rect{}
	}
	minX, minY := pl[0].X, pl[0].Y
	maxX, maxY := pl[0].X, pl[0].Y
	for _, p := range pl[1:] {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	r := rect{X0: int(math.Floor(minX)), Y0: int(math.Floor(minY)), X1: int(math.Ceil(maxX)), Y1: int(math.Ceil(maxY))}
	// An axis-aligned segment still covers the pixel row or column it lies on.
	if r.X1 == r.X0 {
		r.X1++
	}
	if r.Y1 == r.Y0 {
		r.Y1++
	}
	return r
}

func controlBBox(b svgmodel.CubicBezier) rect {
	pts := svgmodel.Polyline{b.P0, b.P1, b.P2, b.P3}
	return polylineBBox(pts)
}

// pathBBox returns a bounding box for any SvgPath geometry this
// package deals with: the beziers' convex control hull, the raw
// polyline, or a circle/ellipse's axis-aligned extent.
func pathBBox(p svgmodel.SvgPath) (rect, bool) {
	switch {
	case len(p.Beziers) > 0:
		r := controlBBox(p.Beziers[0])
		for _, b := range p.Beziers[1:] {
			bb := controlBBox(b)
			r = rect{X0: min(r.X0, bb.X0), Y0: min(r.Y0, bb.Y0), X1: max(r.X1, bb.X1), Y1: max(r.Y1, bb.Y1)}
		}
		return r, true
	case len(p.Polyline) > 0:
		return polylineBBox(p.Polyline), true
	case p.Kind == svgmodel.ElementCircle || p.Kind == svgmodel.ElementEllipse:
		return rect{
			X0: int(math.Floor(p.CX - p.RX)), Y0: int(math.Floor(p.CY - p.RY)),
			X1: int(math.Ceil(p.CX + p.RX)), Y1: int(math.Ceil(p.CY + p.RY)),
		}, true
	default:
		return rect{}, false
	}
}

func rectPolyline(r rect) svgmodel.Polyline {
	x0, y0, x1, y1 := float64(r.X0), float64(r.Y0), float64(r.X1), float64(r.Y1)
	return svgmodel.Polyline{
		{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}, {X: x0, Y: y0},
	}
}

func splitHalves(r rect, vertical bool) (rect, rect) {
	if vertical {
		midX := (r.X0 + r.X1) / 2
		return rect{r.X0, r.Y0, midX, r.Y1}, rect{midX, r.Y0, r.X1, r.Y1}
	}
	midY := (r.Y0 + r.Y1) / 2
	return rect{r.X0, r.Y0, r.X1, midY}, rect{r.X0, midY, r.X1, r.Y1}
}
