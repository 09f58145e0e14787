// Package fdog implements the Flow-Guided Difference of Gaussians edge
// response: a DoG computed perpendicular to the ETF tangent at each
// pixel, then integrated along the tangent over a short arc. See
// spec.md §4.3.
package fdog

import (
	"math"

	"github.com/ironsheep/rastertrace/internal/gradient"
	"github.com/ironsheep/rastertrace/internal/svgmodel"
)

// Config holds the FDoG-specific knobs from config.EdgeConfig.
type Config struct {
	SigmaS float64
	SigmaC float64
	Tau    float64
	Passes int
}

// DefaultConfig mirrors config.DefaultEdgeConfig's FDoG fields.
func DefaultConfig() Config {
	return Config{SigmaS: 1.2, SigmaC: 1.0, Tau: 0.9, Passes: 1}
}

const dogK = 1.6 // outer/inner sigma ratio, standard FDoG value

// Compute returns the edge response for gray given its ETF field,
// following spec.md §4.3: a perpendicular 1-D DoG sampled at each
// pixel, integrated along the tangent, then soft-thresholded.
func Compute(gray *gradient.Gray, field *svgmodel.Field, cfg Config) *svgmodel.Response {
	w, h := gray.Width, gray.Height
	resp := svgmodel.NewResponse(w, h)

	sigmaC := cfg.SigmaC
	sigmaS := cfg.SigmaS * dogK
	normRadius := int(math.Ceil(3 * math.Max(sigmaC, sigmaS)))
	if normRadius < 1 {
		normRadius = 1
	}
	arcLen := int(math.Ceil(cfg.SigmaS))
	if arcLen < 1 {
		arcLen = 1
	}

	current := gray
	for pass := 0; pass < max(cfg.Passes, 1); pass++ {
		perpResp := perpendicularDoG(current, field, sigmaC, sigmaS, normRadius)
		integrated := integrateAlongTangent(perpResp, field, arcLen)
		thresholdInPlace(integrated, cfg.Tau)
		for i, v := range integrated.Values {
			resp.Values[i] = v
		}
		if pass+1 < cfg.Passes {
			current = responseToGray(integrated)
		}
	}
	return resp
}

// perpendicularDoG samples along the normal direction (perpendicular to
// the tangent) at each pixel, building two Gaussian-weighted sums with
// sigmaC and sigmaS, and returns their difference.
func perpendicularDoG(g *gradient.Gray, field *svgmodel.Field, sigmaC, sigmaS float64, radius int) *gradient.Gray {
	out := gradient.NewGray(g.Width, g.Height)
	kC := gaussianWeights(sigmaC, radius)
	kS := gaussianWeights(sigmaS, radius)

	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			tx, ty, _ := field.At(x, y)
			// Normal is the tangent rotated 90°.
			nx, ny := -ty, tx
			var sumC, wC, sumS, wS float64
			for k := -radius; k <= radius; k++ {
				fx := float64(x) + nx*float64(k)
				fy := float64(y) + ny*float64(k)
				v := bilinear(g, fx, fy)
				sumC += v * kC[k+radius]
				wC += kC[k+radius]
				sumS += v * kS[k+radius]
				wS += kS[k+radius]
			}
			var respC, respS float64
			if wC > 1e-12 {
				respC = sumC / wC
			}
			if wS > 1e-12 {
				respS = sumS / wS
			}
			out.Set(x, y, respC-respS)
		}
	}
	return out
}

// integrateAlongTangent sums perpResp over a short arc along the
// tangent direction at each pixel (length proportional to sigma_s).
func integrateAlongTangent(perpResp *gradient.Gray, field *svgmodel.Field, arcLen int) *svgmodel.Response {
	w, h := perpResp.Width, perpResp.Height
	out := svgmodel.NewResponse(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			tx, ty, _ := field.At(x, y)
			var sum float64
			var count float64
			for s := -arcLen; s <= arcLen; s++ {
				fx := float64(x) + tx*float64(s)
				fy := float64(y) + ty*float64(s)
				sum += bilinear(perpResp, fx, fy)
				count++
			}
			if count > 0 {
				out.Set(x, y, sum/count)
			}
		}
	}
	return out
}

// thresholdInPlace applies a tanh soft threshold and zeroes anything
// below tau*max, per spec.md §4.3.
func thresholdInPlace(resp *svgmodel.Response, tau float64) {
	max := 0.0
	for _, v := range resp.Values {
		av := math.Abs(v)
		if av > max {
			max = av
		}
	}
	if max == 0 {
		return
	}
	cutoff := tau * max
	for i, v := range resp.Values {
		av := math.Abs(v)
		soft := (1 + math.Tanh(4*(av-cutoff)/max)) / 2
		av *= soft
		if av < cutoff {
			av = 0
		}
		resp.Values[i] = av
	}
}

func responseToGray(resp *svgmodel.Response) *gradient.Gray {
	g := gradient.NewGray(resp.Width, resp.Height)
	copy(g.Pix, resp.Values)
	return g
}

func gaussianWeights(sigma float64, radius int) []float64 {
	w := make([]float64, 2*radius+1)
	if sigma <= 0 {
		w[radius] = 1
		return w
	}
	for i := -radius; i <= radius; i++ {
		w[i+radius] = math.Exp(-float64(i*i) / (2 * sigma * sigma))
	}
	return w
}

// bilinear samples g at fractional coordinates, clamping to the border.
func bilinear(g *gradient.Gray, fx, fy float64) float64 {
	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	tx := fx - float64(x0)
	ty := fy - float64(y0)
	v00 := g.At(x0, y0)
	v10 := g.At(x0+1, y0)
	v01 := g.At(x0, y0+1)
	v11 := g.At(x0+1, y0+1)
	top := v00*(1-tx) + v10*tx
	bottom := v01*(1-tx) + v11*tx
	return top*(1-ty) + bottom*ty
}
