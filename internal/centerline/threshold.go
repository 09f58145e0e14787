package centerline

import (
	"math"

	"github.com/ironsheep/rastertrace/internal/gradient"
	"github.com/ironsheep/rastertrace/internal/svgmodel"
)

// integralImages builds the summed-area table (and summed-area-of-squares
// table) used by both adaptive thresholding strategies for O(1) windowed
// mean/variance queries.
type integralImages struct {
	w, h     int
	sum      []float64
	sumSq    []float64
}

func buildIntegral(g *gradient.Gray) *integralImages {
	w, h := g.Width, g.Height
	sum := make([]float64, (w+1)*(h+1))
	sumSq := make([]float64, (w+1)*(h+1))
	stride := w + 1
	for y := 0; y < h; y++ {
		var rowSum, rowSumSq float64
		for x := 0; x < w; x++ {
			v := g.Pix[y*w+x]
			rowSum += v
			rowSumSq += v * v
			sum[(y+1)*stride+(x+1)] = sum[y*stride+(x+1)] + rowSum
			sumSq[(y+1)*stride+(x+1)] = sumSq[y*stride+(x+1)] + rowSumSq
		}
	}
	return &integralImages{w: w, h: h, sum: sum, sumSq: sumSq}
}

// windowStats returns the mean and variance of the window
// [x0,x1) x [y0,y1), clamped to image bounds.
func (ii *integralImages) windowStats(x0, y0, x1, y1 int) (mean, variance float64) {
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x1 > ii.w {
		x1 = ii.w
	}
	if y1 > ii.h {
		y1 = ii.h
	}
	if x1 <= x0 || y1 <= y0 {
		return 0, 0
	}
	stride := ii.w + 1
	area := float64((x1 - x0) * (y1 - y0))
	s := ii.sum[y1*stride+x1] - ii.sum[y0*stride+x1] - ii.sum[y1*stride+x0] + ii.sum[y0*stride+x0]
	sq := ii.sumSq[y1*stride+x1] - ii.sumSq[y0*stride+x1] - ii.sumSq[y1*stride+x0] + ii.sumSq[y0*stride+x0]
	mean = s / area
	variance = sq/area - mean*mean
	if variance < 0 {
		variance = 0
	}
	return mean, variance
}

// sauvolaDynamicRange is Sauvola's R constant, the expected standard
// deviation range, rescaled to this package's normalized [0,1] gray
// values (R=128 for 8-bit images conventionally becomes 0.5 here).
const sauvolaDynamicRange = 0.5

// Sauvola binarizes gray using Sauvola's local-mean/local-stddev adaptive
// threshold: T(x,y) = mean*(1 + k*(stddev/R - 1)). Pixels darker than T
// are marked foreground, matching the "dark stroke on light background"
// convention spec.md's Centerline backend assumes.
func Sauvola(gray *gradient.Gray, window int, k float64) *svgmodel.Mask {
	if window < 1 {
		window = 15
	}
	radius := window / 2
	ii := buildIntegral(gray)
	mask := svgmodel.NewMask(gray.Width, gray.Height)

	for y := 0; y < gray.Height; y++ {
		for x := 0; x < gray.Width; x++ {
			mean, variance := ii.windowStats(x-radius, y-radius, x+radius+1, y+radius+1)
			stddev := math.Sqrt(variance)
			t := mean * (1 + k*(stddev/sauvolaDynamicRange-1))
			mask.Set(x, y, gray.At(x, y) < t)
		}
	}
	return mask
}

// BradleyRoth binarizes gray using an integral-image adaptive mean with
// window size derived from the image width (w/8, per Bradley-Roth's
// original recommendation) and cutoff fraction t.
func BradleyRoth(gray *gradient.Gray, t float64) *svgmodel.Mask {
	window := gray.Width / 8
	if window < 3 {
		window = 3
	}
	radius := window / 2
	ii := buildIntegral(gray)
	mask := svgmodel.NewMask(gray.Width, gray.Height)

	for y := 0; y < gray.Height; y++ {
		for x := 0; x < gray.Width; x++ {
			mean, _ := ii.windowStats(x-radius, y-radius, x+radius+1, y+radius+1)
			mask.Set(x, y, gray.At(x, y) < mean*(1-t))
		}
	}
	return mask
}
