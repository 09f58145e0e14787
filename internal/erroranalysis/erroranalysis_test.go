package erroranalysis

import (
	"image"
	"image/color"
	"testing"
)

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestAnalyzeTilesIdenticalImagesZeroError(t *testing.T) {
	a := solid(64, 64, color.RGBA{R: 120, G: 80, B: 200, A: 255})
	tiles := AnalyzeTiles(a, a, DefaultTileSize)
	if len(tiles) != 4 {
		t.Fatalf("expected 4 tiles for a 64x64 image with 32px tiles, got %d", len(tiles))
	}
	for _, tile := range tiles {
		if tile.MedianDeltaE > 1e-9 {
			t.Fatalf("expected zero ΔE for identical images, got %v", tile.MedianDeltaE)
		}
		if tile.MeanSSIM < 0.999 {
			t.Fatalf("expected SSIM ~1 for identical images, got %v", tile.MeanSSIM)
		}
		if tile.WorstPathIndex != -1 {
			t.Fatalf("expected WorstPathIndex to default to -1, got %d", tile.WorstPathIndex)
		}
	}
}

func TestAnalyzeTilesPartialLastTileClipped(t *testing.T) {
	a := solid(50, 40, color.White)
	tiles := AnalyzeTiles(a, a, DefaultTileSize)
	for _, tile := range tiles {
		if tile.X1 > 50 || tile.Y1 > 40 {
			t.Fatalf("expected tiles clipped to image bounds, got %+v", tile)
		}
	}
}

func TestAnalyzeTilesDifferingColorsProducesPositiveDeltaE(t *testing.T) {
	a := solid(32, 32, color.RGBA{R: 255, A: 255})
	b := solid(32, 32, color.RGBA{B: 255, A: 255})
	tiles := AnalyzeTiles(a, b, DefaultTileSize)
	if tiles[0].MedianDeltaE <= 0 {
		t.Fatal("expected a positive ΔE between a red and blue tile")
	}
}

func TestTopHotspotsSortsByDeltaEDescending(t *testing.T) {
	a := solid(64, 64, color.RGBA{R: 255, A: 255})
	b := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			if x < 32 {
				b.Set(x, y, color.RGBA{R: 255, A: 255}) // matches a
			} else {
				b.Set(x, y, color.RGBA{B: 255, A: 255}) // mismatches a
			}
		}
	}
	tiles := AnalyzeTiles(a, b, DefaultTileSize)
	top := TopHotspots(tiles, 1)
	if len(top) != 1 {
		t.Fatalf("expected exactly one hotspot, got %d", len(top))
	}
	if top[0].X0 < 32 {
		t.Fatalf("expected the mismatched right-half tile to rank first, got %+v", top[0])
	}
}

func TestWholeImageErrorsIdenticalImages(t *testing.T) {
	a := solid(40, 40, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	medianDE, meanSSIM := WholeImageErrors(a, a)
	if medianDE > 1e-9 {
		t.Fatalf("expected zero whole-image ΔE, got %v", medianDE)
	}
	if meanSSIM < 0.999 {
		t.Fatalf("expected whole-image SSIM ~1, got %v", meanSSIM)
	}
}
