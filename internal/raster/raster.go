// Package raster implements the refinement-only rasterizer of spec.md
// §4.10: a deterministic, anti-aliased software renderer for the
// element kinds this module emits (Path with line/cubic segments,
// Circle, Line, Ellipse), solid fills, linear gradients, and solid
// round-capped strokes. It is not a general SVG renderer.
package raster

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/math/f32"
	"golang.org/x/image/vector"

	"github.com/ironsheep/rastertrace/internal/svgmodel"
)

// Render draws paths onto a width x height canvas. background, when
// non-nil, seeds the canvas (used when the source image carried
// alpha); otherwise the canvas starts opaque white, per spec.md §4.10.
func Render(paths []svgmodel.SvgPath, width, height int, background image.Image) *image.RGBA {
	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	if background != nil {
		draw.Draw(canvas, canvas.Bounds(), background, image.Point{}, draw.Src)
	} else {
		draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	}
	for _, p := range paths {
		renderPath(canvas, p)
	}
	return canvas
}

// RenderDots draws Dot primitives directly, bypassing the Dot-to-
// SvgPath conversion the public API uses for serialization, since the
// rasterizer only needs the geometry and color/opacity, not a full
// path element.
func RenderDots(dots []svgmodel.Dot, width, height int, background image.Image) *image.RGBA {
	canvas := Render(nil, width, height, background)
	for _, d := range dots {
		z := vector.NewRasterizer(width, height)
		circlePath(z, d.CX, d.CY, d.Radius, d.Radius)
		z.Draw(canvas, canvas.Bounds(), uniformFromHex(d.Color, d.Opacity), image.Point{})
	}
	return canvas
}

func renderPath(dst *image.RGBA, p svgmodel.SvgPath) {
	w, h := dst.Bounds().Dx(), dst.Bounds().Dy()
	switch p.Kind {
	case svgmodel.ElementCircle, svgmodel.ElementEllipse:
		renderEllipse(dst, p, w, h)
	case svgmodel.ElementLine:
		renderStrokePolyline(dst, p.Polyline, p, w, h)
	default:
		if hasFill(p) {
			renderFill(dst, p, w, h)
		}
		if hasStroke(p) {
			renderStrokePolyline(dst, strokeGeometry(p), p, w, h)
		}
	}
}

func hasFill(p svgmodel.SvgPath) bool   { return p.Fill != "" && p.Fill != "none" }
func hasStroke(p svgmodel.SvgPath) bool { return p.Stroke != "" && p.Stroke != "none" && p.StrokeWidth > 0 }

// strokeGeometry returns the point sequence a path's outline should be
// stroked along: the bezier chain densified by sampling, or the raw
// polyline when no beziers are present.
func strokeGeometry(p svgmodel.SvgPath) svgmodel.Polyline {
	if len(p.Beziers) > 0 {
		return sampleBeziers(p.Beziers, 16)
	}
	return p.Polyline
}

func sampleBeziers(beziers []svgmodel.CubicBezier, stepsPerSegment int) svgmodel.Polyline {
	if len(beziers) == 0 {
		return nil
	}
	out := svgmodel.Polyline{beziers[0].P0}
	for _, b := range beziers {
		for i := 1; i <= stepsPerSegment; i++ {
			t := float64(i) / float64(stepsPerSegment)
			out = append(out, b.PointAt(t))
		}
	}
	return out
}

func renderFill(dst *image.RGBA, p svgmodel.SvgPath, w, h int) {
	z := vector.NewRasterizer(w, h)
	if len(p.Beziers) > 0 {
		tracePathBeziers(z, p.Beziers)
	} else {
		tracePolyline(z, p.Polyline)
	}
	src := fillSource(p, w, h)
	z.Draw(dst, dst.Bounds(), src, image.Point{})
}

func renderEllipse(dst *image.RGBA, p svgmodel.SvgPath, w, h int) {
	if hasFill(p) {
		z := vector.NewRasterizer(w, h)
		circlePath(z, p.CX, p.CY, p.RX, p.RY)
		z.Draw(dst, dst.Bounds(), fillSource(p, w, h), image.Point{})
	}
	if hasStroke(p) {
		renderStrokePolyline(dst, ellipseOutline(p.CX, p.CY, p.RX, p.RY, 48), p, w, h)
	}
}

func fillSource(p svgmodel.SvgPath, w, h int) image.Image {
	if p.Gradient != nil {
		return newLinearGradientImage(*p.Gradient, w, h)
	}
	return uniformFromHex(p.Fill, p.Opacity)
}

func tracePolyline(z *vector.Rasterizer, pl svgmodel.Polyline) {
	if len(pl) == 0 {
		return
	}
	z.MoveTo(vecOf(pl[0]))
	for _, pt := range pl[1:] {
		z.LineTo(vecOf(pt))
	}
	z.ClosePath()
}

func tracePathBeziers(z *vector.Rasterizer, beziers []svgmodel.CubicBezier) {
	if len(beziers) == 0 {
		return
	}
	z.MoveTo(vecOf(beziers[0].P0))
	for _, b := range beziers {
		z.CubeTo(vecOf(b.P1), vecOf(b.P2), vecOf(b.P3))
	}
	z.ClosePath()
}

// circlePath traces a 4-arc cubic-bezier approximation of an ellipse
// centered at (cx,cy) with radii (rx,ry); kappa is the standard
// circle-to-bezier control-point ratio.
const kappa = 0.5522847498307936

func circlePath(z *vector.Rasterizer, cx, cy, rx, ry float64) {
	z.MoveTo(f32.Vec2{float32(cx + rx), float32(cy)})
	z.CubeTo(
		f32.Vec2{float32(cx + rx), float32(cy + ry*kappa)},
		f32.Vec2{float32(cx + rx*kappa), float32(cy + ry)},
		f32.Vec2{float32(cx), float32(cy + ry)},
	)
	z.CubeTo(
		f32.Vec2{float32(cx - rx*kappa), float32(cy + ry)},
		f32.Vec2{float32(cx - rx), float32(cy + ry*kappa)},
		f32.Vec2{float32(cx - rx), float32(cy)},
	)
	z.CubeTo(
		f32.Vec2{float32(cx - rx), float32(cy - ry*kappa)},
		f32.Vec2{float32(cx - rx*kappa), float32(cy - ry)},
		f32.Vec2{float32(cx), float32(cy - ry)},
	)
	z.CubeTo(
		f32.Vec2{float32(cx + rx*kappa), float32(cy - ry)},
		f32.Vec2{float32(cx + rx), float32(cy - ry*kappa)},
		f32.Vec2{float32(cx + rx), float32(cy)},
	)
	z.ClosePath()
}

func ellipseOutline(cx, cy, rx, ry float64, segments int) svgmodel.Polyline {
	out := make(svgmodel.Polyline, 0, segments+1)
	for i := 0; i <= segments; i++ {
		theta := 2 * math.Pi * float64(i) / float64(segments)
		out = append(out, svgmodel.Point{X: cx + rx*math.Cos(theta), Y: cy + ry*math.Sin(theta)})
	}
	return out
}

func vecOf(p svgmodel.Point) f32.Vec2 { return f32.Vec2{float32(p.X), float32(p.Y)} }
