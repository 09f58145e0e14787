package erroranalysis

import "github.com/ironsheep/rastertrace/internal/gradient"

// SSIM window constants from spec.md §4.11, applied to grayscale
// values scaled to the [0,255] dynamic range L refers to.
const (
	ssimK1 = 0.01
	ssimK2 = 0.03
	ssimL  = 255.0
	ssimC1 = (ssimK1 * ssimL) * (ssimK1 * ssimL)
	ssimC2 = (ssimK2 * ssimL) * (ssimK2 * ssimL)
)

const ssimWindow = 8

// MeanSSIM computes mean structural similarity between two grayscale
// images over a rectangular region, using non-overlapping 8x8 windows
// clipped at the region's edges.
func MeanSSIM(a, b *gradient.Gray, x0, y0, x1, y1 int) float64 {
	var sum float64
	var count int
	for wy := y0; wy < y1; wy += ssimWindow {
		wy1 := wy + ssimWindow
		if wy1 > y1 {
			wy1 = y1
		}
		for wx := x0; wx < x1; wx += ssimWindow {
			wx1 := wx + ssimWindow
			if wx1 > x1 {
				wx1 = x1
			}
			sum += windowSSIM(a, b, wx, wy, wx1, wy1)
			count++
		}
	}
	if count == 0 {
		return 1
	}
	return sum / float64(count)
}

func windowSSIM(a, b *gradient.Gray, x0, y0, x1, y1 int) float64 {
	n := float64((x1 - x0) * (y1 - y0))
	if n <= 0 {
		return 1
	}
	var sumA, sumB float64
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			sumA += a.At(x, y) * 255
			sumB += b.At(x, y) * 255
		}
	}
	muA, muB := sumA/n, sumB/n

	var varA, varB, cov float64
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			da := a.At(x, y)*255 - muA
			db := b.At(x, y)*255 - muB
			varA += da * da
			varB += db * db
			cov += da * db
		}
	}
	varA /= n
	varB /= n
	cov /= n

	numerator := (2*muA*muB + ssimC1) * (2*cov + ssimC2)
	denominator := (muA*muA + muB*muB + ssimC1) * (varA + varB + ssimC2)
	if denominator == 0 {
		return 1
	}
	return numerator / denominator
}
