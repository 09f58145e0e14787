package refine

import (
	"image"
	"image/color"
	"testing"

	"github.com/ironsheep/rastertrace/internal/svgmodel"
)

func solidImg(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func halfSplitImg(w, h int, left, right color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x < w/2 {
				img.Set(x, y, left)
			} else {
				img.Set(x, y, right)
			}
		}
	}
	return img
}

func TestTryActionASplitsOverlappingSegment(t *testing.T) {
	path := svgmodel.SvgPath{
		Kind: svgmodel.ElementPath,
		Beziers: []svgmodel.CubicBezier{
			{P0: svgmodel.Point{X: 0, Y: 10}, P1: svgmodel.Point{X: 10, Y: 10}, P2: svgmodel.Point{X: 20, Y: 10}, P3: svgmodel.Point{X: 30, Y: 10}},
		},
		Stroke: "#000000", StrokeWidth: 1, Opacity: 1,
	}
	tile := svgmodel.Tile{X0: 0, Y0: 0, X1: 32, Y1: 32}
	original := halfSplitImg(32, 32, color.Black, color.White)
	rasterized := solidImg(32, 32, color.White)

	out, ok := tryActionA(path, tile, original, rasterized)
	if !ok {
		t.Fatal("expected action A to apply when a segment overlaps the tile")
	}
	if len(out.Beziers) != 2 {
		t.Fatalf("expected the single segment to split into two, got %d", len(out.Beziers))
	}
	if out.Beziers[0].P3 != out.Beziers[1].P0 {
		t.Fatal("expected the two halves to share the split point (C0 continuity)")
	}
}

func TestTryActionANoOverlapReturnsFalse(t *testing.T) {
	path := svgmodel.SvgPath{
		Kind: svgmodel.ElementPath,
		Beziers: []svgmodel.CubicBezier{
			{P0: svgmodel.Point{X: 0, Y: 0}, P1: svgmodel.Point{X: 1, Y: 0}, P2: svgmodel.Point{X: 2, Y: 0}, P3: svgmodel.Point{X: 3, Y: 0}},
		},
	}
	tile := svgmodel.Tile{X0: 100, Y0: 100, X1: 132, Y1: 132}
	img := solidImg(10, 10, color.White)
	_, ok := tryActionA(path, tile, img, img)
	if ok {
		t.Fatal("expected action A to decline when no segment overlaps the tile")
	}
}

func TestTryActionBSplitsIntoTwoDistinctColors(t *testing.T) {
	path := svgmodel.SvgPath{
		Kind:     svgmodel.ElementPath,
		Polyline: rectPolyline(rect{0, 0, 32, 32}),
		Fill:     "#808080", Opacity: 1,
	}
	tile := svgmodel.Tile{X0: 0, Y0: 0, X1: 32, Y1: 32}
	original := halfSplitImg(32, 32, color.Black, color.White)
	rasterized := solidImg(32, 32, color.RGBA{R: 128, G: 128, B: 128, A: 255})

	pair, ok := tryActionB(path, tile, original, rasterized, 7)
	if !ok {
		t.Fatal("expected action B to split a uniformly-filled region against a bichromatic source")
	}
	if pair[0].Fill == pair[1].Fill {
		t.Fatalf("expected the two split regions to get distinct colors, both got %s", pair[0].Fill)
	}
}

func TestTryActionBDeclinesOnUniformSource(t *testing.T) {
	path := svgmodel.SvgPath{
		Kind:     svgmodel.ElementPath,
		Polyline: rectPolyline(rect{0, 0, 32, 32}),
		Fill:     "#808080", Opacity: 1,
	}
	tile := svgmodel.Tile{X0: 0, Y0: 0, X1: 32, Y1: 32}
	flat := solidImg(32, 32, color.RGBA{R: 128, G: 128, B: 128, A: 255})
	_, ok := tryActionB(path, tile, flat, flat, 7)
	if ok {
		t.Fatal("expected action B to decline when there is no error signal to split on")
	}
}

func TestTryActionCProducesGradientAlongColorAxis(t *testing.T) {
	path := svgmodel.SvgPath{
		Kind:     svgmodel.ElementPath,
		Polyline: rectPolyline(rect{0, 0, 32, 32}),
		Fill:     "#808080", Opacity: 1,
	}
	tile := svgmodel.Tile{X0: 0, Y0: 0, X1: 32, Y1: 32}
	original := halfSplitImg(32, 32, color.Black, color.White)

	out, ok := tryActionC(path, tile, original)
	if !ok {
		t.Fatal("expected action C to find a gradient axis across a black/white source region")
	}
	if out.Gradient == nil {
		t.Fatal("expected Gradient to be set")
	}
	if out.Gradient.StopColor0 == out.Gradient.StopColor1 {
		t.Fatal("expected distinct gradient stop colors for a high-contrast region")
	}
}

func TestTryActionCDeclinesOnUniformSource(t *testing.T) {
	path := svgmodel.SvgPath{
		Kind:     svgmodel.ElementPath,
		Polyline: rectPolyline(rect{0, 0, 32, 32}),
		Fill:     "#808080", Opacity: 1,
	}
	tile := svgmodel.Tile{X0: 0, Y0: 0, X1: 32, Y1: 32}
	flat := solidImg(32, 32, color.RGBA{R: 128, G: 128, B: 128, A: 255})
	_, ok := tryActionC(path, tile, flat)
	if ok {
		t.Fatal("expected action C to decline when the region has no color variation to derive an axis from")
	}
}
