package imaging

import (
	"image"

	"github.com/disintegration/imaging"
)

// Crop extracts the rectangular region [x1,y1)-[x2,y2) from img. The
// refinement loop does not use it; it re-renders the whole canvas.
func Crop(img image.Image, x1, y1, x2, y2 int) image.Image {
	return imaging.Crop(img, image.Rect(x1, y1, x2, y2))
}

// Downscale resizes img so max(width,height) <= maxDim, preserving aspect
// ratio, using Lanczos resampling. A no-op if img already fits. This is
// the "optional down-scale to ≤ max_dim" preprocessing step from spec.md
// §2's component table.
func Downscale(img image.Image, maxDim int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxDim <= 0 || (w <= maxDim && h <= maxDim) {
		return img
	}
	if w >= h {
		return imaging.Resize(img, maxDim, 0, imaging.Lanczos)
	}
	return imaging.Resize(img, 0, maxDim, imaging.Lanczos)
}
