package dots

import (
	"image"

	"github.com/ironsheep/rastertrace/internal/config"
	"github.com/ironsheep/rastertrace/internal/gradient"
	"github.com/ironsheep/rastertrace/internal/imaging"
	"github.com/ironsheep/rastertrace/internal/svgmodel"
)

// DefaultForeground is used when PreserveColors is off and no dominant
// color can be established, the same "give up and go black" fallback
// the teacher's style-sampling code used for empty regions.
const DefaultForeground = "#000000"

// Trace runs the full Dots stack on img: background detection, density
// analysis, Poisson-disk placement, and color/opacity assignment. See
// spec.md §4.8.
func Trace(img image.Image, cfg config.DotsConfig, seed uint64) []svgmodel.Dot {
	gray := gradient.FromImage(img)
	bg := DetectBackground(img, BackgroundConfig{
		SampleRatio: 0.1,
		K:           8,
		Seed:        seed,
		Tolerance:   float64(cfg.BackgroundTolerance),
		Iterations:  10,
	})
	density := ComputeDensity(gray, bg)

	minRadius := float64(cfg.MinRadius)
	maxRadius := float64(cfg.MaxRadius)
	maxAttempts := DefaultMaxAttempts(gray.Width, gray.Height, minRadius)
	candidates := Sample(density, bg, float64(cfg.DensityThreshold), minRadius, maxRadius, seed, maxAttempts)

	fallback := DefaultForeground
	if !cfg.PreserveColors {
		if dominant := imaging.DominantColors(img, 1, nil); len(dominant) > 0 {
			fallback = dominant[0]
		}
	}

	out := make([]svgmodel.Dot, 0, len(candidates))
	for _, c := range candidates {
		radius := minRadius
		if cfg.AdaptiveSizing {
			radius = minRadius + (maxRadius-minRadius)*c.Rho
		}
		color := fallback
		if cfg.PreserveColors {
			color = imaging.SampleColorHex(img, int(c.X), int(c.Y))
		}
		out = append(out, svgmodel.Dot{
			CX:      c.X,
			CY:      c.Y,
			Radius:  radius,
			Color:   color,
			Opacity: opacityFor(c.Rho),
		})
	}
	return out
}

// opacityFor modulates dot opacity by local density, per spec.md §4.8
// step 5. Higher ρ (busier regions) gets a fuller, more opaque dot;
// sparse regions fade, avoiding a field of uniformly solid dots on an
// otherwise flat area.
func opacityFor(rho float64) float64 {
	const minOpacity = 0.4
	return minOpacity + (1-minOpacity)*rho
}
