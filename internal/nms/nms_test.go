package nms

import (
	"testing"

	"github.com/ironsheep/rastertrace/internal/svgmodel"
)

func flatField(w, h int, tx, ty float64) *svgmodel.Field {
	f := svgmodel.NewField(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			f.Set(x, y, tx, ty, 1.0)
		}
	}
	return f
}

func TestSuppressKeepsSingleRidge(t *testing.T) {
	w, h := 11, 5
	resp := svgmodel.NewResponse(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			d := x - 5
			if d < 0 {
				d = -d
			}
			resp.Set(x, y, 1.0-float64(d)*0.15)
		}
	}
	field := flatField(w, h, 0, 1) // tangent vertical -> normal horizontal
	cfg := DefaultConfig()
	cfg.PreSmooth = false
	out := Suppress(resp, field, cfg)
	if out.At(5, 2) <= 0 {
		t.Fatal("expected the ridge peak to survive suppression")
	}
	if out.At(3, 2) != 0 {
		t.Fatalf("expected a non-maximal pixel to be suppressed, got %v", out.At(3, 2))
	}
}

func TestSuppressZeroResponseStaysZero(t *testing.T) {
	w, h := 6, 6
	resp := svgmodel.NewResponse(w, h)
	field := flatField(w, h, 1, 0)
	out := Suppress(resp, field, DefaultConfig())
	for _, v := range out.Values {
		if v != 0 {
			t.Fatalf("expected zero response to remain zero, got %v", v)
		}
	}
}

func TestHysteresisEmptyResponseEmptyMask(t *testing.T) {
	resp := svgmodel.NewResponse(8, 8)
	mask := Hysteresis(resp, DefaultConfig())
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if mask.At(x, y) {
				t.Fatal("expected empty mask for all-zero response")
			}
		}
	}
}

func TestHysteresisStrongPixelAlwaysKept(t *testing.T) {
	resp := svgmodel.NewResponse(5, 5)
	resp.Set(2, 2, 1.0)
	mask := Hysteresis(resp, DefaultConfig())
	if !mask.At(2, 2) {
		t.Fatal("expected the single strong pixel to survive hysteresis")
	}
}

func TestHysteresisWeakPixelConnectedToStrongSurvives(t *testing.T) {
	resp := svgmodel.NewResponse(5, 5)
	resp.Set(2, 2, 1.0) // strong
	resp.Set(2, 3, 0.5) // weak, adjacent, default high=0.7*max -> this is below high, above low (0.1)
	mask := Hysteresis(resp, DefaultConfig())
	if !mask.At(2, 3) {
		t.Fatal("expected the weak pixel touching a strong 8-neighbor to be kept")
	}
}

func TestHysteresisIsolatedWeakPixelDropped(t *testing.T) {
	resp := svgmodel.NewResponse(7, 7)
	resp.Set(5, 5, 1.0) // strong, far away
	resp.Set(0, 0, 0.5) // weak, isolated
	mask := Hysteresis(resp, DefaultConfig())
	if mask.At(0, 0) {
		t.Fatal("expected isolated weak pixel to be dropped")
	}
	if !mask.At(5, 5) {
		t.Fatal("expected strong pixel to survive")
	}
}
