package dots

import (
	"github.com/ironsheep/rastertrace/internal/gradient"
	"github.com/ironsheep/rastertrace/internal/imaging"
	"github.com/ironsheep/rastertrace/internal/svgmodel"
)

// Candidate is an accepted Poisson-disk sample: its pixel location and
// the local density that produced its minimum separation.
type Candidate struct {
	X, Y float64
	Rho  float64
}

// No pack example implements Poisson-disk sampling; this is dart-throwing
// with a density-weighted rejection radius (a direct reading of spec.md
// §4.8 step 4) rather than Bridson's fixed-radius active-list algorithm,
// since the minimum distance here varies per candidate with local ρ.
// A uniform grid keyed to minRadius keeps neighbor lookups bounded.
func gridCell(x, y, cellSize float64) [2]int {
	return [2]int{int(x / cellSize), int(y / cellSize)}
}

// DefaultMaxAttempts scales the dart-throwing attempt budget to the
// eligible area, capped to keep worst-case runtime bounded on large
// images.
func DefaultMaxAttempts(w, h int, minRadius float64) int {
	if minRadius <= 0 {
		minRadius = 1
	}
	area := float64(w * h)
	attempts := int(area / (minRadius * minRadius) * 4)
	const attemptsCap = 2_000_000
	if attempts > attemptsCap {
		attempts = attemptsCap
	}
	if attempts < 256 {
		attempts = 256
	}
	return attempts
}

// Sample implements spec.md §4.8 steps 3-4: pixels with ρ below
// densityThreshold, outside background, are candidates for Poisson-disk
// placement with minimum distance min_radius + (max_radius-min_radius)*(1-ρ).
func Sample(density *gradient.Gray, background *svgmodel.Mask, densityThreshold, minRadius, maxRadius float64, seed uint64, maxAttempts int) []Candidate {
	w, h := density.Width, density.Height
	if w == 0 || h == 0 {
		return nil
	}
	rng := imaging.NewSeededRand(seed)
	cellSize := minRadius
	if cellSize <= 0 {
		cellSize = 1
	}
	grid := make(map[[2]int][]int)
	var accepted []Candidate

	reqDist := func(rho float64) float64 {
		return minRadius + (maxRadius-minRadius)*(1-rho)
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		x := rng.NextFloat() * float64(w)
		y := rng.NextFloat() * float64(h)
		ix, iy := int(x), int(y)
		if ix < 0 || iy < 0 || ix >= w || iy >= h {
			continue
		}
		if background != nil && background.At(ix, iy) {
			continue
		}
		rho := density.At(ix, iy)
		if rho >= densityThreshold {
			continue
		}
		req := reqDist(rho)

		cell := gridCell(x, y, cellSize)
		conflict := false
		span := int(req/cellSize) + 1
		for dy := -span; dy <= span && !conflict; dy++ {
			for dx := -span; dx <= span && !conflict; dx++ {
				neighborCell := [2]int{cell[0] + dx, cell[1] + dy}
				for _, idx := range grid[neighborCell] {
					c := accepted[idx]
					ddx, ddy := c.X-x, c.Y-y
					dist2 := ddx*ddx + ddy*ddy
					minSep := req
					if other := reqDist(c.Rho); other > minSep {
						minSep = other
					}
					if dist2 < minSep*minSep {
						conflict = true
						break
					}
				}
			}
		}
		if conflict {
			continue
		}
		accepted = append(accepted, Candidate{X: x, Y: y, Rho: rho})
		grid[cell] = append(grid[cell], len(accepted)-1)
	}
	return accepted
}
