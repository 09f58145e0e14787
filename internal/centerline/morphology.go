package centerline

import "github.com/ironsheep/rastertrace/internal/svgmodel"

// erode3x3 sets a pixel only when every pixel in its 3x3 neighborhood
// is set (pixels outside the mask count as unset), the standard binary erosion with a
// square structuring element.
func erode3x3(mask *svgmodel.Mask) *svgmodel.Mask {
	w, h := mask.Width, mask.Height
	out := svgmodel.NewMask(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			all := true
			for dy := -1; dy <= 1 && all; dy++ {
				for dx := -1; dx <= 1; dx++ {
					nx, ny := x+dx, y+dy
					if nx < 0 || ny < 0 || nx >= w || ny >= h || !mask.At(nx, ny) {
						all = false
						break
					}
				}
			}
			out.Set(x, y, all)
		}
	}
	return out
}

// dilate3x3 sets a pixel when any pixel in its 3x3 neighborhood is set.
func dilate3x3(mask *svgmodel.Mask) *svgmodel.Mask {
	w, h := mask.Width, mask.Height
	out := svgmodel.NewMask(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			any := false
			for dy := -1; dy <= 1 && !any; dy++ {
				for dx := -1; dx <= 1; dx++ {
					nx, ny := x+dx, y+dy
					if nx >= 0 && ny >= 0 && nx < w && ny < h && mask.At(nx, ny) {
						any = true
						break
					}
				}
			}
			out.Set(x, y, any)
		}
	}
	return out
}

// Open performs morphological opening (erode then dilate) iterations
// times, removing speckle noise smaller than the structuring element
// without shrinking larger regions.
func Open(mask *svgmodel.Mask, iterations int) *svgmodel.Mask {
	cur := mask
	for i := 0; i < iterations; i++ {
		cur = dilate3x3(erode3x3(cur))
	}
	return cur
}

// Close performs morphological closing (dilate then erode) iterations
// times, filling small pinholes without expanding region boundaries.
func Close(mask *svgmodel.Mask, iterations int) *svgmodel.Mask {
	cur := mask
	for i := 0; i < iterations; i++ {
		cur = erode3x3(dilate3x3(cur))
	}
	return cur
}
