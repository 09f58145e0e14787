package refine

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/ironsheep/rastertrace/internal/svgmodel"
)

func TestTerminalStateString(t *testing.T) {
	cases := map[TerminalState]string{
		Converged:      "converged",
		IterationLimit: "iteration_limit",
		TimeExhausted:  "time_exhausted",
		Plateau:        "plateau",
	}
	for state, want := range cases {
		if got := state.String(); got != want {
			t.Errorf("state %d: got %q, want %q", state, got, want)
		}
	}
}

func TestRunConvergesOnAlreadyMatchingImage(t *testing.T) {
	original := solidImg(16, 16, color.White)
	result := Run(original, nil, 16, 16, nil, DefaultConfig())
	if result.Terminal != Converged {
		t.Fatalf("expected Converged for an exact match, got %s", result.Terminal)
	}
	if result.Iterations != 0 {
		t.Fatalf("expected zero iterations when already converged, got %d", result.Iterations)
	}
}

func TestRunPlateausWhenNoPathOverlapsErrorRegion(t *testing.T) {
	original := halfSplitImg(16, 16, color.Black, color.White)
	cfg := DefaultConfig()
	cfg.MaxIterations = 5
	// No paths at all means no hotspot action can ever be accepted.
	result := Run(original, nil, 16, 16, nil, cfg)
	if result.Terminal != Plateau {
		t.Fatalf("expected Plateau when there are no paths to refine, got %s", result.Terminal)
	}
	if result.Iterations != 1 {
		t.Fatalf("expected the loop to detect the plateau after its first iteration, got %d", result.Iterations)
	}
}

func TestRunRespectsIterationLimitField(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxIterations = 0
	original := halfSplitImg(16, 16, color.Black, color.White)
	result := Run(original, nil, 16, 16, nil, cfg)
	if result.Terminal != IterationLimit {
		t.Fatalf("expected IterationLimit when MaxIterations is 0, got %s", result.Terminal)
	}
	if result.Iterations != 0 {
		t.Fatalf("expected zero iterations performed, got %d", result.Iterations)
	}
}

func TestAggregateEmptyTilesDefaultsToPerfectScore(t *testing.T) {
	de, ssim := aggregate(nil)
	if de != 0 || ssim != 1 {
		t.Fatalf("expected (0, 1) for no tiles, got (%v, %v)", de, ssim)
	}
}

func TestWorstOverlappingPathPicksHighestLocalError(t *testing.T) {
	// A small path sits entirely inside a mismatched patch (high local
	// ΔE); a larger path covers the whole tile, most of which agrees
	// with the original (low median ΔE despite the bigger overlap area).
	original := solidImg(16, 16, color.Black)
	rasterized := image.NewRGBA(image.Rect(0, 0, 16, 16))
	draw.Draw(rasterized, rasterized.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
	draw.Draw(rasterized, image.Rect(0, 0, 4, 4), image.NewUniform(color.White), image.Point{}, draw.Src)

	paths := []svgmodel.SvgPath{
		{Kind: svgmodel.ElementPath, Polyline: rectPolyline(rect{0, 0, 4, 4})},
		{Kind: svgmodel.ElementPath, Polyline: rectPolyline(rect{0, 0, 16, 16})},
	}
	tile := svgmodel.Tile{X0: 0, Y0: 0, X1: 16, Y1: 16}
	idx, ok := worstOverlappingPath(original, rasterized, paths, tile)
	if !ok {
		t.Fatal("expected an overlapping path")
	}
	if idx != 0 {
		t.Fatalf("expected the higher-local-error path (index 0) to win, got %d", idx)
	}
}

func TestWorstOverlappingPathNoneOverlap(t *testing.T) {
	original := solidImg(16, 16, color.Black)
	paths := []svgmodel.SvgPath{
		{Kind: svgmodel.ElementPath, Polyline: rectPolyline(rect{100, 100, 104, 104})},
	}
	tile := svgmodel.Tile{X0: 0, Y0: 0, X1: 16, Y1: 16}
	if _, ok := worstOverlappingPath(original, original, paths, tile); ok {
		t.Fatal("expected no overlapping path")
	}
}
