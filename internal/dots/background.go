// Package dots implements the Dots backend: background detection via
// LAB K-means, gradient/variance density analysis, and density-weighted
// Poisson-disk stippling. See spec.md §4.8.
package dots

import (
	"image"

	"github.com/ironsheep/rastertrace/internal/imaging"
	"github.com/ironsheep/rastertrace/internal/svgmodel"
)

// BackgroundConfig holds the background-detection knobs.
type BackgroundConfig struct {
	SampleRatio float64 // border-strip width as a fraction of min(w,h), default 0.1
	K           int     // K-means cluster count, default 8
	Seed        uint64
	Tolerance   float64 // in [0,1]; 1.0 is a documented escape hatch, see below
	Iterations  int     // K-means iteration count
}

// DefaultBackgroundConfig matches spec.md §4.8 step 1's defaults.
func DefaultBackgroundConfig(seed uint64) BackgroundConfig {
	return BackgroundConfig{SampleRatio: 0.1, K: 8, Seed: seed, Tolerance: 0.15, Iterations: 10}
}

// DetectBackground samples the image's outer border, clusters the
// sampled colors in LAB, and marks any pixel within
// tolerance*max_ΔE of a cluster centroid (or with alpha < 10) as
// background. Tolerance == 1.0 short-circuits to an empty mask: this
// is a documented degenerate escape hatch (see DESIGN.md), not a bug —
// at tolerance 1.0 the naive threshold would swallow the whole image,
// so background rejection is disabled outright instead.
func DetectBackground(img image.Image, cfg BackgroundConfig) *svgmodel.Mask {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	mask := svgmodel.NewMask(w, h)

	if cfg.Tolerance >= 1.0 {
		return mask
	}

	samples := sampleBorder(img, cfg.SampleRatio)
	if len(samples) == 0 {
		return mask
	}
	centroids := imaging.KMeansLab(samples, cfg.K, cfg.Seed, cfg.Iterations)
	if len(centroids) == 0 {
		return mask
	}

	maxDE := 0.0
	for _, s := range samples {
		d := nearestDist(s, centroids)
		if d > maxDE {
			maxDE = d
		}
	}
	threshold := cfg.Tolerance * maxDE

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			_, _, _, a := img.At(x, y).RGBA()
			if a>>8 < 10 {
				mask.Set(x-bounds.Min.X, y-bounds.Min.Y, true)
				continue
			}
			l, aa, bb := imaging.Lab(img, x, y)
			d := nearestDist(imaging.LabColor{L: l, A: aa, B: bb}, centroids)
			mask.Set(x-bounds.Min.X, y-bounds.Min.Y, d <= threshold)
		}
	}
	return mask
}

func nearestDist(p imaging.LabColor, centroids []imaging.LabColor) float64 {
	best := -1.0
	for _, c := range centroids {
		d := imaging.DeltaE76(p, c)
		if best < 0 || d < best {
			best = d
		}
	}
	return best
}

// sampleBorder collects LAB colors from a ratio-wide ring around the
// image's edge, per spec.md §4.8 step 1.
func sampleBorder(img image.Image, ratio float64) []imaging.LabColor {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	minSide := w
	if h < minSide {
		minSide = h
	}
	strip := int(ratio * float64(minSide))
	if strip < 1 {
		strip = 1
	}

	var out []imaging.LabColor
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			dx, dy := x-bounds.Min.X, y-bounds.Min.Y
			onBorder := dx < strip || dy < strip || dx >= w-strip || dy >= h-strip
			if !onBorder {
				continue
			}
			l, a, b := imaging.Lab(img, x, y)
			out = append(out, imaging.LabColor{L: l, A: a, B: b})
		}
	}
	return out
}
