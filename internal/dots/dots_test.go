package dots

import (
	"image"
	"image/color"
	"testing"

	"github.com/ironsheep/rastertrace/internal/config"
)

func TestTraceProducesDotsForTexturedImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 60, 60))
	for y := 0; y < 60; y++ {
		for x := 0; x < 60; x++ {
			v := uint8(0)
			if (x/3+y/3)%2 == 0 {
				v = 255
			}
			img.Set(x, y, color.RGBA{R: v, G: v, B: v, A: 255})
		}
	}
	cfg := config.DefaultDotsConfig()
	dots := Trace(img, cfg, 11)
	if len(dots) == 0 {
		t.Fatal("expected at least one dot for a high-contrast textured image")
	}
	for _, d := range dots {
		if d.Radius < float64(cfg.MinRadius) || d.Radius > float64(cfg.MaxRadius) {
			t.Fatalf("dot radius %v out of configured bounds [%v,%v]", d.Radius, cfg.MinRadius, cfg.MaxRadius)
		}
		if d.Opacity <= 0 || d.Opacity > 1 {
			t.Fatalf("dot opacity %v out of (0,1]", d.Opacity)
		}
		if d.Color == "" {
			t.Fatal("expected a non-empty dot color")
		}
	}
}

func TestTraceFlatImageProducesNoDots(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 40, 40))
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			img.Set(x, y, color.RGBA{R: 128, G: 128, B: 128, A: 255})
		}
	}
	cfg := config.DefaultDotsConfig()
	dots := Trace(img, cfg, 11)
	if len(dots) != 0 {
		t.Fatalf("expected no dots on a perfectly flat image, got %d", len(dots))
	}
}

func TestTracePreserveColorsOffUsesDefaultForeground(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 60, 60))
	for y := 0; y < 60; y++ {
		for x := 0; x < 60; x++ {
			v := uint8(0)
			if (x/3+y/3)%2 == 0 {
				v = 255
			}
			img.Set(x, y, color.RGBA{R: v, G: 0, B: 0, A: 255})
		}
	}
	cfg := config.DefaultDotsConfig()
	cfg.PreserveColors = false
	dots := Trace(img, cfg, 11)
	if len(dots) == 0 {
		t.Fatal("expected at least one dot")
	}
	first := dots[0].Color
	for _, d := range dots {
		if d.Color != first {
			t.Fatal("expected a single fallback color across all dots when PreserveColors is off")
		}
	}
}
