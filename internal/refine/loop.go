package refine

import (
	"image"
	"time"

	"github.com/ironsheep/rastertrace/internal/erroranalysis"
	"github.com/ironsheep/rastertrace/internal/raster"
	"github.com/ironsheep/rastertrace/internal/svgmodel"
)

// Config holds the refinement loop's knobs from spec.md §4.13.
type Config struct {
	MaxIterations         int
	MaxTimeMs             int64
	MaxTilesPerIteration  int
	TileSize              int
	ErrorPlateauThreshold float64
	TargetDeltaE          float64
	TargetSSIM            float64
	Seed                  uint64
}

// DefaultConfig returns spec.md's documented refinement defaults.
func DefaultConfig() Config {
	return Config{
		MaxIterations:         20,
		MaxTimeMs:             5000,
		MaxTilesPerIteration:  8,
		TileSize:              erroranalysis.DefaultTileSize,
		ErrorPlateauThreshold: 0.05,
		TargetDeltaE:          2.0,
		TargetSSIM:            0.95,
		Seed:                  42,
	}
}

// TerminalState names why the refinement loop stopped.
type TerminalState int

const (
	Converged TerminalState = iota
	IterationLimit
	TimeExhausted
	Plateau
)

func (s TerminalState) String() string {
	switch s {
	case Converged:
		return "converged"
	case IterationLimit:
		return "iteration_limit"
	case TimeExhausted:
		return "time_exhausted"
	case Plateau:
		return "plateau"
	default:
		return "unknown"
	}
}

// Result is the outcome of a Run call.
type Result struct {
	Paths        []svgmodel.SvgPath
	Tiles        []svgmodel.Tile
	Iterations   int
	Terminal     TerminalState
	MedianDeltaE float64
	MeanSSIM     float64
}

// Run executes the refinement state machine of spec.md §4.13: rasterize,
// measure, pick hotspots, try actions A->B->C per hotspot, re-rasterize,
// and check convergence, until converged or a resource limit is hit.
//
// Each accepted action triggers a full-canvas re-rasterization rather
// than the spec's "rasterize only the affected bounding box":
// correctness of the accept/reject gate (which always re-measures
// against a freshly rendered canvas) does not depend on that
// optimization, and implementing incremental canvas compositing adds
// real complexity for a latency property this module doesn't
// benchmark. See DESIGN.md.
func Run(original image.Image, paths []svgmodel.SvgPath, width, height int, background image.Image, cfg Config) Result {
	start := time.Now()
	current := append([]svgmodel.SvgPath{}, paths...)

	rasterized := raster.Render(current, width, height, background)
	tiles := erroranalysis.AnalyzeTiles(original, rasterized, cfg.TileSize)
	medianDE, meanSSIM := aggregate(tiles)
	prevDE := medianDE

	iteration := 0
	terminal := IterationLimit
	for {
		if medianDE <= cfg.TargetDeltaE || meanSSIM >= cfg.TargetSSIM {
			terminal = Converged
			break
		}
		if iteration >= cfg.MaxIterations {
			terminal = IterationLimit
			break
		}
		if cfg.MaxTimeMs > 0 && time.Since(start).Milliseconds() >= cfg.MaxTimeMs {
			terminal = TimeExhausted
			break
		}

		hotspots := erroranalysis.TopHotspots(tiles, cfg.MaxTilesPerIteration)
		anyAccepted := false
		for _, tile := range hotspots {
			if applyBestAction(&current, tile, original, rasterized, cfg) {
				anyAccepted = true
			}
		}

		rasterized = raster.Render(current, width, height, background)
		tiles = erroranalysis.AnalyzeTiles(original, rasterized, cfg.TileSize)
		newDE, newSSIM := aggregate(tiles)
		iteration++

		improvement := prevDE - newDE
		medianDE, meanSSIM = newDE, newSSIM
		if !anyAccepted || improvement < cfg.ErrorPlateauThreshold {
			terminal = Plateau
			break
		}
		prevDE = newDE
	}

	return Result{
		Paths: current, Tiles: tiles, Iterations: iteration,
		Terminal: terminal, MedianDeltaE: medianDE, MeanSSIM: meanSSIM,
	}
}

func aggregate(tiles []svgmodel.Tile) (medianDeltaE, meanSSIM float64) {
	if len(tiles) == 0 {
		return 0, 1
	}
	des := make([]float64, len(tiles))
	var sumSSIM float64
	for i, t := range tiles {
		des[i] = t.MedianDeltaE
		sumSSIM += t.MeanSSIM
	}
	return medianFloat(des), sumSSIM / float64(len(tiles))
}

// applyBestAction finds the hotspot tile's highest-local-error
// overlapping path and tries actions A, B, C in order, keeping the
// first that measurably improves the tile.
func applyBestAction(current *[]svgmodel.SvgPath, tile svgmodel.Tile, original, rasterized image.Image, cfg Config) bool {
	idx, ok := worstOverlappingPath(original, rasterized, *current, tile)
	if !ok {
		return false
	}
	baseline := deltaEForRect(original, rasterized, tileRect(tile))
	path := (*current)[idx]
	w, h := rasterized.Bounds().Dx(), rasterized.Bounds().Dy()

	if candidate, ok := tryActionA(path, tile, original, rasterized); ok {
		trial := append([]svgmodel.SvgPath{}, *current...)
		trial[idx] = candidate
		trialRaster := raster.Render(trial, w, h, nil)
		if baseline-deltaEForRect(original, trialRaster, tileRect(tile)) >= cfg.ErrorPlateauThreshold {
			*current = trial
			return true
		}
	}

	if pair, ok := tryActionB(path, tile, original, rasterized, cfg.Seed); ok {
		trial := append([]svgmodel.SvgPath{}, (*current)[:idx]...)
		trial = append(trial, pair[0], pair[1])
		trial = append(trial, (*current)[idx+1:]...)
		trialRaster := raster.Render(trial, w, h, nil)
		if deltaEForRect(original, trialRaster, tileRect(tile)) < baseline {
			*current = trial
			return true
		}
	}

	if candidate, ok := tryActionC(path, tile, original); ok {
		trial := append([]svgmodel.SvgPath{}, *current...)
		trial[idx] = candidate
		trialRaster := raster.Render(trial, w, h, nil)
		if baseline-deltaEForRect(original, trialRaster, tileRect(tile)) >= 1.0 {
			*current = trial
			return true
		}
	}

	return false
}

// worstOverlappingPath picks the tile-overlapping path whose own
// rendering carries the highest local ΔE within the tile, per spec.md
// §4.12 ("pick the overlapping SvgPath with the highest local error"),
// not merely the one with the largest overlap area.
func worstOverlappingPath(original, rasterized image.Image, paths []svgmodel.SvgPath, tile svgmodel.Tile) (int, bool) {
	tr := tileRect(tile)
	best, bestErr := -1, -1.0
	for i, p := range paths {
		bbox, ok := pathBBox(p)
		if !ok {
			continue
		}
		overlap, ok := intersectRect(bbox, tr)
		if !ok {
			continue
		}
		if err := deltaEForRect(original, rasterized, overlap); err > bestErr {
			best, bestErr = i, err
		}
	}
	return best, best >= 0
}
