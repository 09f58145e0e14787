package dots

import (
	"github.com/ironsheep/rastertrace/internal/gradient"
	"github.com/ironsheep/rastertrace/internal/svgmodel"
)

// varianceRadius is the local-variance window radius used before
// normalization; spec.md §4.8 step 2 leaves the variance window
// unspecified, so it is a fixed, documented constant here.
const varianceRadius = 2

// ComputeDensity implements spec.md §4.8 steps 2-3: per-pixel gradient
// magnitude and local variance, each normalized by its own maximum, are
// summed and clamped to [0,1]. Background pixels are forced to 0 so they
// are never eligible for sampling.
func ComputeDensity(gray *gradient.Gray, background *svgmodel.Mask) *gradient.Gray {
	sobel := gradient.ComputeSobel(gray)
	gradNorm := gradient.NormalizeMagnitude(sobel.Magnitude)
	variance := gradient.LocalVariance(gray, varianceRadius)
	varNorm := normalizeByMax(variance)

	out := gradient.NewGray(gray.Width, gray.Height)
	for y := 0; y < gray.Height; y++ {
		for x := 0; x < gray.Width; x++ {
			if background != nil && background.At(x, y) {
				continue
			}
			rho := gradNorm.At(x, y) + varNorm.At(x, y)
			if rho < 0 {
				rho = 0
			} else if rho > 1 {
				rho = 1
			}
			out.Set(x, y, rho)
		}
	}
	return out
}

func normalizeByMax(g *gradient.Gray) *gradient.Gray {
	max := 0.0
	for _, v := range g.Pix {
		if v > max {
			max = v
		}
	}
	out := gradient.NewGray(g.Width, g.Height)
	if max == 0 {
		return out
	}
	for i, v := range g.Pix {
		out.Pix[i] = v / max
	}
	return out
}
