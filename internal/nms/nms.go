// Package nms implements non-maximum suppression along the ETF normal
// and hysteresis thresholding, turning a scalar edge Response into a
// binary edge Mask. See spec.md §4.4.
package nms

import (
	"math"

	"github.com/ironsheep/rastertrace/internal/gradient"
	"github.com/ironsheep/rastertrace/internal/svgmodel"
)

// Config holds the NMS/hysteresis knobs.
type Config struct {
	PreSmooth bool    // Gaussian pre-smoothing with sigma 0.8, default on.
	Low, High float64 // Overrides the adaptive thresholds when non-zero.
}

// DefaultConfig matches spec.md §4.4's defaults.
func DefaultConfig() Config {
	return Config{PreSmooth: true}
}

const preSmoothSigma = 0.8

// sparseFraction below which the adaptive low/high thresholds kick in,
// per spec.md §4.4 ("adaptively set ... when NMS output is sparse").
const sparseFraction = 0.01

// Suppress performs non-maximum suppression on resp using field's
// tangent to find the normal direction at each pixel, comparing a
// pixel's magnitude against its two bilinearly-sampled normal
// neighbors at distance 1px. Non-maximal pixels are zeroed.
func Suppress(resp *svgmodel.Response, field *svgmodel.Field, cfg Config) *svgmodel.Response {
	src := resp
	if cfg.PreSmooth {
		src = blurResponse(resp, preSmoothSigma)
	}

	out := svgmodel.NewResponse(src.Width, src.Height)
	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			mag := src.At(x, y)
			if mag <= 0 {
				continue
			}
			tx, ty, _ := field.At(x, y)
			nx, ny := -ty, tx
			n := math.Hypot(nx, ny)
			if n < 1e-12 {
				out.Set(x, y, mag)
				continue
			}
			nx, ny = nx/n, ny/n
			n1 := sampleResponse(src, float64(x)+nx, float64(y)+ny)
			n2 := sampleResponse(src, float64(x)-nx, float64(y)-ny)
			if mag >= n1 && mag >= n2 {
				out.Set(x, y, mag)
			}
		}
	}
	return out
}

// Hysteresis applies double-threshold hysteresis to a suppressed
// response, flood-filling 8-connected components that touch a strong
// pixel, per spec.md §4.4. Low/High in cfg override the adaptive
// defaults when non-zero.
func Hysteresis(suppressed *svgmodel.Response, cfg Config) *svgmodel.Mask {
	w, h := suppressed.Width, suppressed.Height
	mask := svgmodel.NewMask(w, h)

	max := suppressed.Max()
	if max == 0 {
		return mask
	}

	low, high := cfg.Low, cfg.High
	if high <= 0 {
		nonZero := 0
		for _, v := range suppressed.Values {
			if v > 0 {
				nonZero++
			}
		}
		sparse := float64(nonZero)/float64(w*h) < sparseFraction
		if sparse || low <= 0 {
			low, high = 0.1*max, 0.7*max
		}
	}
	if low <= 0 {
		low = 0.1 * high
	}

	strong := make([]bool, w*h)
	candidate := make([]bool, w*h)
	for i, v := range suppressed.Values {
		if v >= high {
			strong[i] = true
			candidate[i] = true
		} else if v >= low {
			candidate[i] = true
		}
	}

	visited := make([]bool, w*h)
	var stack []int
	idx := func(x, y int) int { return y*w + x }

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := idx(x, y)
			if !strong[i] || visited[i] {
				continue
			}
			stack = append(stack, i)
			visited[i] = true
			for len(stack) > 0 {
				cur := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				mask.Set(cur%w, cur/w, true)
				cx, cy := cur%w, cur/w
				for dy := -1; dy <= 1; dy++ {
					for dx := -1; dx <= 1; dx++ {
						if dx == 0 && dy == 0 {
							continue
						}
						nx, ny := cx+dx, cy+dy
						if nx < 0 || ny < 0 || nx >= w || ny >= h {
							continue
						}
						ni := idx(nx, ny)
						if visited[ni] || !candidate[ni] {
							continue
						}
						visited[ni] = true
						stack = append(stack, ni)
					}
				}
			}
		}
	}
	return mask
}

func sampleResponse(r *svgmodel.Response, fx, fy float64) float64 {
	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	tx := fx - float64(x0)
	ty := fy - float64(y0)
	at := func(x, y int) float64 {
		if x < 0 {
			x = 0
		}
		if x >= r.Width {
			x = r.Width - 1
		}
		if y < 0 {
			y = 0
		}
		if y >= r.Height {
			y = r.Height - 1
		}
		return r.At(x, y)
	}
	v00 := at(x0, y0)
	v10 := at(x0+1, y0)
	v01 := at(x0, y0+1)
	v11 := at(x0+1, y0+1)
	top := v00*(1-tx) + v10*tx
	bottom := v01*(1-tx) + v11*tx
	return top*(1-ty) + bottom*ty
}

// blurResponse Gaussian-blurs a response treated as a Gray buffer.
func blurResponse(r *svgmodel.Response, sigma float64) *svgmodel.Response {
	g := gradient.NewGray(r.Width, r.Height)
	copy(g.Pix, r.Values)
	blurred := gradient.Blur(g, sigma)
	out := svgmodel.NewResponse(r.Width, r.Height)
	copy(out.Values, blurred.Pix)
	return out
}
