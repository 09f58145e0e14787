package dots

import (
	"testing"

	"github.com/ironsheep/rastertrace/internal/gradient"
	"github.com/ironsheep/rastertrace/internal/svgmodel"
)

func uniformDensity(w, h int, rho float64) *gradient.Gray {
	g := gradient.NewGray(w, h)
	for i := range g.Pix {
		g.Pix[i] = rho
	}
	return g
}

func TestSampleRespectsMinimumDistance(t *testing.T) {
	density := uniformDensity(80, 80, 0.0)
	candidates := Sample(density, nil, 0.5, 3.0, 6.0, 7, DefaultMaxAttempts(80, 80, 3.0))
	for i := range candidates {
		for j := range candidates {
			if i == j {
				continue
			}
			a, b := candidates[i], candidates[j]
			dx, dy := a.X-b.X, a.Y-b.Y
			dist := dx*dx + dy*dy
			if dist < 3.0*3.0-1e-6 {
				t.Fatalf("expected minimum spacing of >=3.0, got sqrt(%v) between points", dist)
			}
		}
	}
}

func TestSampleIgnoresBackgroundPixels(t *testing.T) {
	density := uniformDensity(40, 40, 0.0)
	bg := svgmodel.NewMask(40, 40)
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			bg.Set(x, y, true)
		}
	}
	candidates := Sample(density, bg, 0.5, 2.0, 4.0, 3, 5000)
	if len(candidates) != 0 {
		t.Fatalf("expected no candidates when the entire image is background, got %d", len(candidates))
	}
}

func TestSampleIgnoresPixelsAboveThreshold(t *testing.T) {
	density := uniformDensity(40, 40, 0.9)
	candidates := Sample(density, nil, 0.5, 2.0, 4.0, 3, 5000)
	if len(candidates) != 0 {
		t.Fatalf("expected no candidates when density exceeds the threshold everywhere, got %d", len(candidates))
	}
}

func TestSampleDeterministicForFixedSeed(t *testing.T) {
	density := uniformDensity(60, 60, 0.1)
	a := Sample(density, nil, 0.5, 2.0, 4.0, 99, 2000)
	b := Sample(density, nil, 0.5, 2.0, 4.0, 99, 2000)
	if len(a) != len(b) {
		t.Fatalf("expected identical candidate counts for the same seed, got %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("expected identical candidates for the same seed at index %d", i)
		}
	}
}
