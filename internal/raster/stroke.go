package raster

import (
	"image"
	"math"

	"golang.org/x/image/math/f32"
	"golang.org/x/image/vector"

	"github.com/ironsheep/rastertrace/internal/svgmodel"
)

// renderStrokePolyline fills a ribbon of width p.StrokeWidth along pts
// plus a round disk at every vertex for the cap/join coverage, per
// spec.md §4.10's "solid strokes with round caps". Overlapping
// segment quads and join disks share the same winding direction, so
// union correctly under the rasterizer's accumulated coverage instead
// of canceling.
func renderStrokePolyline(dst *image.RGBA, pts svgmodel.Polyline, p svgmodel.SvgPath, w, h int) {
	if len(pts) < 2 || p.StrokeWidth <= 0 {
		return
	}
	half := p.StrokeWidth / 2
	z := vector.NewRasterizer(w, h)
	for i := 0; i < len(pts)-1; i++ {
		a, b := pts[i], pts[i+1]
		dx, dy := b.X-a.X, b.Y-a.Y
		length := math.Hypot(dx, dy)
		if length == 0 {
			continue
		}
		nx, ny := -dy/length*half, dx/length*half
		z.MoveTo(f32.Vec2{float32(a.X + nx), float32(a.Y + ny)})
		z.LineTo(f32.Vec2{float32(b.X + nx), float32(b.Y + ny)})
		z.LineTo(f32.Vec2{float32(b.X - nx), float32(b.Y - ny)})
		z.LineTo(f32.Vec2{float32(a.X - nx), float32(a.Y - ny)})
		z.ClosePath()
	}
	for _, pt := range pts {
		circlePath(z, pt.X, pt.Y, half, half)
	}
	z.Draw(dst, dst.Bounds(), uniformFromHex(p.Stroke, p.Opacity), image.Point{})
}
