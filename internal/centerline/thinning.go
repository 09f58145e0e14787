package centerline

import (
	"math"

	"github.com/ironsheep/rastertrace/internal/svgmodel"
)

// GuoHall thins mask to a 1-pixel-wide skeleton using the Guo-Hall
// parallel thinning algorithm, alternating the two sub-iterations until
// a full pass removes no pixel (idempotent).
func GuoHall(mask *svgmodel.Mask) *svgmodel.Mask {
	w, h := mask.Width, mask.Height
	cur := cloneMask(mask)

	for {
		removedAny := false
		for sub := 0; sub < 2; sub++ {
			toRemove := make([]bool, w*h)
			for y := 0; y < h; y++ {
				for x := 0; x < w; x++ {
					if !cur.At(x, y) {
						continue
					}
					if guoHallShouldDelete(cur, x, y, sub) {
						toRemove[y*w+x] = true
					}
				}
			}
			changed := false
			for y := 0; y < h; y++ {
				for x := 0; x < w; x++ {
					if toRemove[y*w+x] {
						cur.Set(x, y, false)
						changed = true
					}
				}
			}
			removedAny = removedAny || changed
		}
		if !removedAny {
			break
		}
	}
	return cur
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

// guoHallShouldDelete implements the published Guo-Hall deletion
// condition for neighbor ring p2..p9 (clockwise starting north).
func guoHallShouldDelete(mask *svgmodel.Mask, x, y, sub int) bool {
	at := func(dx, dy int) int {
		nx, ny := x+dx, y+dy
		if nx < 0 || ny < 0 || nx >= mask.Width || ny >= mask.Height {
			return 0
		}
		return b2i(mask.At(nx, ny))
	}
	p2 := at(0, -1)
	p3 := at(1, -1)
	p4 := at(1, 0)
	p5 := at(1, 1)
	p6 := at(0, 1)
	p7 := at(-1, 1)
	p8 := at(-1, 0)
	p9 := at(-1, -1)

	c := b2i(p2 == 0 && (p3 == 1 || p4 == 1)) +
		b2i(p4 == 0 && (p5 == 1 || p6 == 1)) +
		b2i(p6 == 0 && (p7 == 1 || p8 == 1)) +
		b2i(p8 == 0 && (p9 == 1 || p2 == 1))
	if c != 1 {
		return false
	}

	n1 := b2i(p9 == 1 || p2 == 1) + b2i(p3 == 1 || p4 == 1) + b2i(p5 == 1 || p6 == 1) + b2i(p7 == 1 || p8 == 1)
	n2 := b2i(p2 == 1 || p3 == 1) + b2i(p4 == 1 || p5 == 1) + b2i(p6 == 1 || p7 == 1) + b2i(p8 == 1 || p9 == 1)
	n := n1
	if n2 < n {
		n = n2
	}
	if n < 2 || n > 3 {
		return false
	}

	var condition int
	if sub == 0 {
		condition = b2i((p6 == 1 || p7 == 1 || p9 == 0) && p8 == 1)
	} else {
		condition = b2i((p2 == 1 || p3 == 1 || p5 == 0) && p4 == 1)
	}
	return condition == 0
}

func cloneMask(mask *svgmodel.Mask) *svgmodel.Mask {
	out := svgmodel.NewMask(mask.Width, mask.Height)
	copy(out.Pix, mask.Pix)
	return out
}

// DistanceRidge thins mask by computing a two-pass chamfer distance
// transform to the background and keeping only pixels whose distance
// is a local maximum among their foreground 8-neighbors. Faster than
// Guo-Hall but less topologically precise (can leave short spurs or
// break at wide junctions), per spec.md §4.7.
func DistanceRidge(mask *svgmodel.Mask) *svgmodel.Mask {
	dist := chamferDistance(mask)
	w, h := mask.Width, mask.Height
	out := svgmodel.NewMask(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !mask.At(x, y) {
				continue
			}
			d := dist[y*w+x]
			isMax := true
			for dy := -1; dy <= 1 && isMax; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if dx == 0 && dy == 0 {
						continue
					}
					nx, ny := x+dx, y+dy
					if nx < 0 || ny < 0 || nx >= w || ny >= h || !mask.At(nx, ny) {
						continue
					}
					if dist[ny*w+nx] > d {
						isMax = false
						break
					}
				}
			}
			out.Set(x, y, isMax)
		}
	}
	return out
}

const (
	chamferOrtho = 1.0
	chamferDiag  = 1.41421356
)

// chamferDistance computes a 1-√2 chamfer approximation of the Euclidean
// distance transform from every foreground pixel to the nearest
// background pixel, via one forward and one backward raster pass.
func chamferDistance(mask *svgmodel.Mask) []float64 {
	w, h := mask.Width, mask.Height
	dist := make([]float64, w*h)
	const inf = math.MaxFloat64 / 2
	for i, v := range mask.Pix {
		if v == 0 {
			dist[i] = 0
		} else {
			dist[i] = inf
		}
	}

	idx := func(x, y int) int { return y*w + x }
	get := func(x, y int) float64 {
		if x < 0 || y < 0 || x >= w || y >= h {
			return inf
		}
		return dist[idx(x, y)]
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := idx(x, y)
			if dist[i] == 0 {
				continue
			}
			d := dist[i]
			d = math.Min(d, get(x-1, y)+chamferOrtho)
			d = math.Min(d, get(x, y-1)+chamferOrtho)
			d = math.Min(d, get(x-1, y-1)+chamferDiag)
			d = math.Min(d, get(x+1, y-1)+chamferDiag)
			dist[i] = d
		}
	}
	for y := h - 1; y >= 0; y-- {
		for x := w - 1; x >= 0; x-- {
			i := idx(x, y)
			if dist[i] == 0 {
				continue
			}
			d := dist[i]
			d = math.Min(d, get(x+1, y)+chamferOrtho)
			d = math.Min(d, get(x, y+1)+chamferOrtho)
			d = math.Min(d, get(x+1, y+1)+chamferDiag)
			d = math.Min(d, get(x-1, y+1)+chamferDiag)
			dist[i] = d
		}
	}
	return dist
}
