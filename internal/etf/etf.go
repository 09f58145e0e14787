// Package etf computes the Edge Tangent Flow field: a smoothed per-pixel
// tangent direction plus a coherency scalar, the input every downstream
// Edge-backend stage (FDoG, NMS, the flow-guided tracer) walks along.
// See spec.md §4.2.
package etf

import (
	"math"

	"github.com/ironsheep/rastertrace/internal/gradient"
	"github.com/ironsheep/rastertrace/internal/svgmodel"
)

// Config holds the ETF-specific knobs from config.EdgeConfig, kept
// separate so this package doesn't import the config package (it only
// needs three numbers, not the whole TraceLowConfig surface).
type Config struct {
	Radius        int
	Iterations    int
	CoherencyTau  float64
}

// DefaultConfig mirrors config.DefaultEdgeConfig's ETF fields.
func DefaultConfig() Config {
	return Config{Radius: 4, Iterations: 4, CoherencyTau: 0.2}
}

// Compute builds the ETF field for gray, iterating Config.Iterations
// passes of the weighted tangent average described in spec.md §4.2.
func Compute(gray *gradient.Gray, cfg Config) *svgmodel.Field {
	w, h := gray.Width, gray.Height
	sobel := gradient.ComputeSobel(gray)
	normMag := gradient.NormalizeMagnitude(sobel.Magnitude)

	field := svgmodel.NewField(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			gx, gy := sobel.Gx.At(x, y), sobel.Gy.At(x, y)
			// Initial tangent is the gradient rotated 90°: (ty,-tx) = (-gy,gx).
			tx, ty := -gy, gx
			n := math.Hypot(tx, ty)
			if n > 1e-12 {
				tx, ty = tx/n, ty/n
			} else {
				tx, ty = 0, 0
			}
			field.Set(x, y, tx, ty, 0)
		}
	}

	mu := normMag.Mean()
	const eta = 1.0
	radius := cfg.Radius
	if radius < 1 {
		radius = 1
	}

	for iter := 0; iter < cfg.Iterations; iter++ {
		next := svgmodel.NewField(w, h)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				tpx, tpy, _ := field.At(x, y)

				var sumX, sumY, sumW float64
				for ky := -radius; ky <= radius; ky++ {
					ny := y + ky
					if ny < 0 || ny >= h {
						continue
					}
					for kx := -radius; kx <= radius; kx++ {
						nx := x + kx
						if nx < 0 || nx >= w {
							continue
						}

						tqx, tqy, _ := field.At(nx, ny)
						mq := normMag.At(nx, ny)

						// Sign-fold: flip q's tangent to the hemisphere
						// agreeing with p before accumulating, which is
						// exactly the "gates angular agreement" rule in
						// spec.md §4.2 — after the flip the dot product
						// used below is guaranteed non-negative.
						dot := tpx*tqx + tpy*tqy
						if dot < 0 {
							tqx, tqy, dot = -tqx, -tqy, -dot
						}

						phi := (1 + math.Tanh(eta*(mq-mu))) / 2
						weight := phi * dot // ws is the uniform box itself (loop bounds)

						sumX += weight * tqx
						sumY += weight * tqy
						sumW += weight
					}
				}

				var ntx, nty, coherency float64
				if sumW > 1e-12 {
					ntx, nty = sumX/sumW, sumY/sumW
					coherency = math.Hypot(sumX, sumY) / sumW
					if n := math.Hypot(ntx, nty); n > 1e-12 {
						ntx, nty = ntx/n, nty/n
					}
				} else {
					ntx, nty = tpx, tpy
				}
				next.Set(x, y, ntx, nty, coherency)
			}
		}
		field = next
	}

	return field
}

// Unreliable reports whether the coherency at (x,y) falls below tau,
// flagging pixels the spec calls out as isotropic/unreliable.
func Unreliable(field *svgmodel.Field, x, y int, tau float64) bool {
	_, _, c := field.At(x, y)
	return c < tau
}
