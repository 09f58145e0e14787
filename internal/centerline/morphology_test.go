package centerline

import (
	"testing"

	"github.com/ironsheep/rastertrace/internal/svgmodel"
)

func TestOpenRemovesSinglePixelSpeckle(t *testing.T) {
	mask := svgmodel.NewMask(10, 10)
	mask.Set(5, 5, true) // isolated speckle
	out := Open(mask, 1)
	if out.At(5, 5) {
		t.Fatal("expected an isolated single-pixel speckle to be removed by opening")
	}
}

func TestOpenPreservesSolidBlock(t *testing.T) {
	mask := svgmodel.NewMask(10, 10)
	for y := 2; y < 8; y++ {
		for x := 2; x < 8; x++ {
			mask.Set(x, y, true)
		}
	}
	out := Open(mask, 1)
	if !out.At(4, 4) {
		t.Fatal("expected the interior of a solid block to survive opening")
	}
}

func TestCloseFillsSinglePixelHole(t *testing.T) {
	mask := svgmodel.NewMask(10, 10)
	for y := 2; y < 8; y++ {
		for x := 2; x < 8; x++ {
			mask.Set(x, y, true)
		}
	}
	mask.Set(4, 4, false) // pinhole
	out := Close(mask, 1)
	if !out.At(4, 4) {
		t.Fatal("expected a pinhole to be filled by closing")
	}
}

func TestDilate3x3ExpandsBySinglePixel(t *testing.T) {
	mask := svgmodel.NewMask(5, 5)
	mask.Set(2, 2, true)
	out := dilate3x3(mask)
	if !out.At(2, 1) || !out.At(1, 2) || !out.At(3, 2) || !out.At(2, 3) {
		t.Fatal("expected dilation to set the 4-neighbors of a single pixel")
	}
	if out.At(0, 0) {
		t.Fatal("expected dilation to leave far pixels unset")
	}
}
