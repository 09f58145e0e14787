// Package erroranalysis implements the Error Analyzer of spec.md §4.11:
// tile-wise LAB ΔE and grayscale SSIM between the source image and the
// refinement loop's rasterized candidate, plus hotspot-tile selection.
package erroranalysis

import (
	"image"
	"sort"

	"github.com/ironsheep/rastertrace/internal/gradient"
	"github.com/ironsheep/rastertrace/internal/imaging"
	"github.com/ironsheep/rastertrace/internal/svgmodel"
)

// DefaultTileSize matches spec.md §4.11's documented default; refinement
// config may override it to 16 or 64.
const DefaultTileSize = 32

// AnalyzeTiles divides original and rasterized into non-overlapping
// tileSize x tileSize tiles (the final row/column may be smaller) and
// computes each tile's median ΔE and mean SSIM. WorstPathIndex is left
// at -1 and nothing sets it later: the refinement loop picks the
// overlapping path with the highest local error per hotspot without
// recording it on the tile.
func AnalyzeTiles(original, rasterized image.Image, tileSize int) []svgmodel.Tile {
	if tileSize <= 0 {
		tileSize = DefaultTileSize
	}
	bounds := original.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	labOrig := imaging.ImageToLab(original)
	labRast := imaging.ImageToLab(rasterized)
	grayOrig := gradient.FromImage(original)
	grayRast := gradient.FromImage(rasterized)

	var tiles []svgmodel.Tile
	for y0 := 0; y0 < h; y0 += tileSize {
		y1 := y0 + tileSize
		if y1 > h {
			y1 = h
		}
		for x0 := 0; x0 < w; x0 += tileSize {
			x1 := x0 + tileSize
			if x1 > w {
				x1 = w
			}
			tiles = append(tiles, svgmodel.Tile{
				X0: x0, Y0: y0, X1: x1, Y1: y1,
				MedianDeltaE:   medianDeltaE(labOrig, labRast, w, x0, y0, x1, y1),
				MeanSSIM:       MeanSSIM(grayOrig, grayRast, x0, y0, x1, y1),
				WorstPathIndex: -1,
			})
		}
	}
	return tiles
}

func medianDeltaE(labA, labB []imaging.LabColor, width, x0, y0, x1, y1 int) float64 {
	n := (x1 - x0) * (y1 - y0)
	if n <= 0 {
		return 0
	}
	values := make([]float64, 0, n)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			i := y*width + x
			values = append(values, imaging.DeltaE76(labA[i], labB[i]))
		}
	}
	sort.Float64s(values)
	mid := len(values) / 2
	if len(values)%2 == 1 {
		return values[mid]
	}
	return (values[mid-1] + values[mid]) / 2
}

// TopHotspots returns the top-N tiles ranked by spec.md §4.11's sort key
// (−ΔE_median, −(1−SSIM_mean)): highest ΔE first, breaking ties toward
// lower SSIM. n <= 0 returns every tile.
func TopHotspots(tiles []svgmodel.Tile, n int) []svgmodel.Tile {
	sorted := make([]svgmodel.Tile, len(tiles))
	copy(sorted, tiles)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].MedianDeltaE != sorted[j].MedianDeltaE {
			return sorted[i].MedianDeltaE > sorted[j].MedianDeltaE
		}
		return sorted[i].MeanSSIM < sorted[j].MeanSSIM
	})
	if n > 0 && n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}

// WholeImageErrors reports the whole-image median ΔE and mean SSIM used
// by the refinement loop's convergence check (spec.md §4.13).
func WholeImageErrors(original, rasterized image.Image) (medianDeltaE, meanSSIM float64) {
	bounds := original.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	tiles := AnalyzeTiles(original, rasterized, max(w, h))
	if len(tiles) == 0 {
		return 0, 1
	}
	var sumSSIM float64
	des := make([]float64, len(tiles))
	for i, t := range tiles {
		des[i] = t.MedianDeltaE
		sumSSIM += t.MeanSSIM
	}
	sort.Float64s(des)
	mid := len(des) / 2
	median := des[mid]
	if len(des)%2 == 0 {
		median = (des[mid-1] + des[mid]) / 2
	}
	return median, sumSSIM / float64(len(tiles))
}
