package centerline

import (
	"testing"

	"github.com/ironsheep/rastertrace/internal/config"
	"github.com/ironsheep/rastertrace/internal/gradient"
)

func strokeGray(w, h, strokeY, thickness int) *gradient.Gray {
	g := gradient.NewGray(w, h)
	for i := range g.Pix {
		g.Pix[i] = 0.95
	}
	for y := strokeY; y < strokeY+thickness; y++ {
		for x := 5; x < w-5; x++ {
			g.Set(x, y, 0.05)
		}
	}
	return g
}

func TestTraceProducesPolylineForStraightStroke(t *testing.T) {
	g := strokeGray(60, 20, 8, 4)
	cfg := DefaultConfig()
	polylines := Trace(g, cfg, 5, 1.0)
	if len(polylines) == 0 {
		t.Fatal("expected at least one centerline polyline for a straight stroke")
	}
}

func TestTraceBradleyRothProducesPolyline(t *testing.T) {
	g := strokeGray(60, 20, 8, 4)
	cfg := DefaultConfig()
	cfg.Thresholding = config.ThresholdBradleyRoth
	polylines := Trace(g, cfg, 5, 1.0)
	if len(polylines) == 0 {
		t.Fatal("expected at least one centerline polyline using Bradley-Roth thresholding")
	}
}

func TestTraceDistanceRidgeProducesPolyline(t *testing.T) {
	g := strokeGray(60, 20, 8, 4)
	cfg := DefaultConfig()
	cfg.Thinning = config.ThinningDistanceRidge
	polylines := Trace(g, cfg, 5, 1.0)
	if len(polylines) == 0 {
		t.Fatal("expected at least one centerline polyline using distance-ridge thinning")
	}
}

func TestTraceBlankImageProducesNoPolylines(t *testing.T) {
	g := gradient.NewGray(40, 40)
	for i := range g.Pix {
		g.Pix[i] = 0.95
	}
	polylines := Trace(g, DefaultConfig(), 5, 1.0)
	if len(polylines) != 0 {
		t.Fatalf("expected no polylines for a blank image, got %d", len(polylines))
	}
}
