package dots

import (
	"image"
	"image/color"
	"testing"
)

func solidImage(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestDetectBackgroundSolidImageAllBackground(t *testing.T) {
	img := solidImage(40, 40, color.White)
	cfg := DefaultBackgroundConfig(1)
	cfg.Tolerance = 0.5
	mask := DetectBackground(img, cfg)
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			if !mask.At(x, y) {
				t.Fatalf("expected solid image to be entirely background at (%d,%d)", x, y)
			}
		}
	}
}

func TestDetectBackgroundToleranceOneYieldsEmptyMask(t *testing.T) {
	img := solidImage(20, 20, color.White)
	cfg := DefaultBackgroundConfig(1)
	cfg.Tolerance = 1.0
	mask := DetectBackground(img, cfg)
	for _, v := range mask.Pix {
		if v != 0 {
			t.Fatal("expected tolerance 1.0 to disable background detection entirely")
		}
	}
}

func TestDetectBackgroundTransparentPixelAlwaysBackground(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			img.Set(x, y, color.RGBA{R: 255, G: 0, B: 0, A: 255})
		}
	}
	img.Set(5, 5, color.RGBA{R: 0, G: 0, B: 0, A: 0})
	cfg := DefaultBackgroundConfig(1)
	cfg.Tolerance = 0.0
	mask := DetectBackground(img, cfg)
	if !mask.At(5, 5) {
		t.Fatal("expected a fully transparent pixel to always be marked background")
	}
}

func TestDetectBackgroundDistinctCenterNotBackground(t *testing.T) {
	img := solidImage(40, 40, color.White)
	for y := 15; y < 25; y++ {
		for x := 15; x < 25; x++ {
			img.Set(x, y, color.RGBA{R: 0, G: 0, B: 0, A: 255})
		}
	}
	cfg := DefaultBackgroundConfig(1)
	cfg.Tolerance = 0.05
	mask := DetectBackground(img, cfg)
	if mask.At(20, 20) {
		t.Fatal("expected a strongly contrasting center region to not be classified as background")
	}
}
