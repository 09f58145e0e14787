// Package tracer walks a binary edge mask along its ETF tangent field,
// producing ordered polylines. See spec.md §4.5.
package tracer

import (
	"math"
	"sort"

	"github.com/ironsheep/rastertrace/internal/svgmodel"
)

// Config holds the tracer-specific knobs from config.EdgeConfig.
type Config struct {
	MinGrad      float64
	MinCoherency float64
	MaxGap       int
	MaxLen       int
	Step         float64 // sub-pixel advance per iteration, default 1.0
}

// DefaultConfig matches config.DefaultEdgeConfig's tracer fields.
func DefaultConfig() Config {
	return Config{MinGrad: 0.05, MinCoherency: 0.2, MaxGap: 4, MaxLen: 4000, Step: 1.0}
}

type seed struct {
	x, y int
	mag  float64
}

// Trace walks mask along field's tangent, seeding at unvisited edge
// pixels in descending order of resp's magnitude (normalized by resp's
// max so MinGrad compares on a [0,1] scale). Polylines shorter than 2
// points are discarded.
func Trace(mask *svgmodel.Mask, field *svgmodel.Field, resp *svgmodel.Response, cfg Config) []svgmodel.Polyline {
	w, h := mask.Width, mask.Height
	maxResp := resp.Max()

	seeds := make([]seed, 0)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !mask.At(x, y) {
				continue
			}
			mag := 0.0
			if maxResp > 0 {
				mag = resp.At(x, y) / maxResp
			}
			seeds = append(seeds, seed{x, y, mag})
		}
	}
	sort.SliceStable(seeds, func(i, j int) bool { return seeds[i].mag > seeds[j].mag })

	visited := make([]bool, w*h)
	idx := func(x, y int) int { return y*w + x }

	var polylines []svgmodel.Polyline
	for _, s := range seeds {
		if visited[idx(s.x, s.y)] {
			continue
		}
		visited[idx(s.x, s.y)] = true

		tx, ty, _ := field.At(s.x, s.y)
		forward := walk(mask, field, resp, visited, float64(s.x), float64(s.y), tx, ty, cfg)
		backward := walk(mask, field, resp, visited, float64(s.x), float64(s.y), -tx, -ty, cfg)

		pl := make(svgmodel.Polyline, 0, len(forward)+len(backward)+1)
		for i := len(backward) - 1; i >= 0; i-- {
			pl = append(pl, backward[i])
		}
		pl = append(pl, svgmodel.Point{X: float64(s.x), Y: float64(s.y)})
		pl = append(pl, forward...)

		if len(pl) >= 2 {
			polylines = append(polylines, pl)
		}
	}
	return polylines
}

// walk advances from (x0,y0) in direction (dx,dy) until a termination
// condition from spec.md §4.5 step 4 is hit, returning the accepted
// points in traversal order (excluding the seed itself).
func walk(mask *svgmodel.Mask, field *svgmodel.Field, resp *svgmodel.Response, visited []bool, x0, y0, dx, dy float64, cfg Config) []svgmodel.Point {
	w, h := mask.Width, mask.Height
	maxResp := resp.Max()
	idx := func(x, y int) int { return y*w + x }

	n := math.Hypot(dx, dy)
	if n < 1e-12 {
		return nil
	}
	dx, dy = dx/n, dy/n

	step := cfg.Step
	if step <= 0 {
		step = 1.0
	}

	pos := svgmodel.Point{X: x0, Y: y0}
	curDir := svgmodel.Point{X: dx, Y: dy}

	var points []svgmodel.Point
	var length float64
	gap := 0

	for {
		next := svgmodel.Point{X: pos.X + curDir.X*step, Y: pos.Y + curDir.Y*step}

		fx, fy, ok := snapNearest(mask, field, visited, next, curDir, w, h)
		if !ok {
			gap++
			if gap > cfg.MaxGap {
				return points
			}
			pos = next
			continue
		}
		gap = 0
		visited[idx(fx, fy)] = true

		newPoint := svgmodel.Point{X: float64(fx), Y: float64(fy)}
		length += pos.Dist(newPoint)
		pos = newPoint
		points = append(points, newPoint)

		tx, ty, coherency := field.At(fx, fy)
		if tx*curDir.X+ty*curDir.Y < 0 {
			tx, ty = -tx, -ty
		}
		if n := math.Hypot(tx, ty); n > 1e-12 {
			curDir = svgmodel.Point{X: tx / n, Y: ty / n}
		}

		if coherency < cfg.MinCoherency {
			return points
		}
		mag := 0.0
		if maxResp > 0 {
			mag = resp.At(fx, fy) / maxResp
		}
		if mag < cfg.MinGrad {
			return points
		}
		if length > float64(cfg.MaxLen) {
			return points
		}
	}
}

// snapNearest searches the 3x3 window around next for the closest
// unvisited mask pixel, breaking ties by which candidate's own ETF
// tangent best matches curDir (spec.md §4.5's tie-break rule).
func snapNearest(mask *svgmodel.Mask, field *svgmodel.Field, visited []bool, next svgmodel.Point, curDir svgmodel.Point, w, h int) (int, int, bool) {
	cx := int(math.Round(next.X))
	cy := int(math.Round(next.Y))

	bestX, bestY := -1, -1
	bestDist := math.MaxFloat64
	bestScore := -2.0

	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			x, y := cx+dx, cy+dy
			if x < 0 || y < 0 || x >= w || y >= h {
				continue
			}
			if !mask.At(x, y) || visited[y*w+x] {
				continue
			}
			d := next.Dist(svgmodel.Point{X: float64(x), Y: float64(y)})
			if d < bestDist-1e-9 {
				bestDist, bestX, bestY = d, x, y
				bestScore = candidateScore(field, x, y, curDir)
			} else if math.Abs(d-bestDist) <= 1e-9 {
				score := candidateScore(field, x, y, curDir)
				if score > bestScore {
					bestScore, bestDist, bestX, bestY = score, d, x, y
				}
			}
		}
	}
	if bestX < 0 {
		return 0, 0, false
	}
	return bestX, bestY, true
}

// candidateScore returns the dot product of the candidate's sign-folded
// tangent with curDir: higher means better directional agreement.
func candidateScore(field *svgmodel.Field, x, y int, curDir svgmodel.Point) float64 {
	tx, ty, _ := field.At(x, y)
	if tx*curDir.X+ty*curDir.Y < 0 {
		tx, ty = -tx, -ty
	}
	n := math.Hypot(tx, ty)
	if n < 1e-12 {
		return -1
	}
	return (tx*curDir.X + ty*curDir.Y) / n
}
