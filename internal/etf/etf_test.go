package etf

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/ironsheep/rastertrace/internal/gradient"
	"github.com/ironsheep/rastertrace/internal/svgmodel"
)

func verticalEdgeImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x >= w/2 {
				img.Set(x, y, color.White)
			} else {
				img.Set(x, y, color.Black)
			}
		}
	}
	return img
}

func TestComputeUnitLengthTangents(t *testing.T) {
	gray := gradient.FromImage(verticalEdgeImage(16, 16))
	field := Compute(gray, DefaultConfig())

	for y := 0; y < field.Height; y++ {
		for x := 0; x < field.Width; x++ {
			tx, ty, _ := field.At(x, y)
			n := math.Hypot(tx, ty)
			if n == 0 {
				continue // isotropic pixels may legitimately collapse to zero
			}
			if math.Abs(n-1.0) > 1e-4 {
				t.Fatalf("tangent at (%d,%d) not unit length: %v", x, y, n)
			}
		}
	}
}

func TestComputeFlatFieldZeroTangent(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.Gray{Y: 128})
		}
	}
	gray := gradient.FromImage(img)
	field := Compute(gray, DefaultConfig())
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			tx, ty, c := field.At(x, y)
			if tx != 0 || ty != 0 {
				t.Fatalf("expected zero tangent on flat field at (%d,%d), got (%v,%v)", x, y, tx, ty)
			}
			if c != 0 {
				t.Fatalf("expected zero coherency on flat field at (%d,%d), got %v", x, y, c)
			}
		}
	}
}

func TestComputeCoherencyBounded(t *testing.T) {
	gray := gradient.FromImage(verticalEdgeImage(16, 16))
	field := Compute(gray, DefaultConfig())
	for _, c := range field.Coherency {
		if c < 0 || c > 1+1e-9 {
			t.Fatalf("coherency out of [0,1]: %v", c)
		}
	}
}

func TestComputeAlongEdgeRunsVertically(t *testing.T) {
	gray := gradient.FromImage(verticalEdgeImage(16, 16))
	field := Compute(gray, DefaultConfig())
	tx, ty, c := field.At(8, 8)
	if c < 0.3 {
		t.Fatalf("expected reasonably coherent tangent at the edge, got coherency %v", c)
	}
	// The edge runs vertically, so the tangent (flow direction) should be
	// dominated by its y component.
	if math.Abs(ty) <= math.Abs(tx) {
		t.Fatalf("expected tangent mostly vertical at vertical edge, got (%v,%v)", tx, ty)
	}
}

func TestUnreliableThreshold(t *testing.T) {
	field := svgmodel.NewField(2, 1)
	field.Set(0, 0, 1, 0, 0.1)
	field.Set(1, 0, 1, 0, 0.1)
	if !Unreliable(field, 0, 0, 0.5) {
		t.Fatal("expected coherency 0.1 < tau 0.5 to be unreliable")
	}
	if Unreliable(field, 1, 0, 0.05) {
		t.Fatal("expected coherency 0.1 >= tau 0.05 to be reliable")
	}
}
