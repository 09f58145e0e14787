package centerline

import (
	"testing"

	"github.com/ironsheep/rastertrace/internal/svgmodel"
)

func thickHorizontalBar(w, h, barY, barThickness int) *svgmodel.Mask {
	mask := svgmodel.NewMask(w, h)
	for y := barY; y < barY+barThickness; y++ {
		for x := 0; x < w; x++ {
			mask.Set(x, y, true)
		}
	}
	return mask
}

func countSet(mask *svgmodel.Mask) int {
	n := 0
	for _, v := range mask.Pix {
		if v != 0 {
			n++
		}
	}
	return n
}

func TestGuoHallThinsThickBar(t *testing.T) {
	mask := thickHorizontalBar(30, 10, 3, 5)
	before := countSet(mask)
	thinned := GuoHall(mask)
	after := countSet(thinned)
	if after >= before {
		t.Fatalf("expected thinning to reduce pixel count, before=%d after=%d", before, after)
	}
	if after == 0 {
		t.Fatal("expected thinning to preserve a non-empty skeleton")
	}
}

func TestGuoHallIdempotent(t *testing.T) {
	mask := thickHorizontalBar(30, 10, 3, 5)
	once := GuoHall(mask)
	twice := GuoHall(once)
	if countSet(once) != countSet(twice) {
		t.Fatalf("expected thinning to be idempotent, got %d then %d", countSet(once), countSet(twice))
	}
}

func TestGuoHallEmptyMaskStaysEmpty(t *testing.T) {
	mask := svgmodel.NewMask(10, 10)
	out := GuoHall(mask)
	if countSet(out) != 0 {
		t.Fatal("expected an empty mask to remain empty")
	}
}

func TestDistanceRidgeThinsThickBar(t *testing.T) {
	mask := thickHorizontalBar(30, 10, 3, 5)
	before := countSet(mask)
	out := DistanceRidge(mask)
	after := countSet(out)
	if after >= before {
		t.Fatalf("expected ridge extraction to reduce pixel count, before=%d after=%d", before, after)
	}
	if after == 0 {
		t.Fatal("expected ridge extraction to preserve a non-empty skeleton")
	}
}

func TestChamferDistanceZeroOnBackground(t *testing.T) {
	mask := svgmodel.NewMask(5, 5)
	mask.Set(2, 2, true)
	dist := chamferDistance(mask)
	if dist[0] != 0 {
		t.Fatalf("expected background pixel distance 0, got %v", dist[0])
	}
	if dist[2*5+2] <= 0 {
		t.Fatalf("expected foreground pixel distance > 0, got %v", dist[2*5+2])
	}
}
