package centerline

import "github.com/ironsheep/rastertrace/internal/svgmodel"

var ringOffsets = [8][2]int{
	{0, -1}, {1, -1}, {1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1},
}

func skeletonNeighbors(mask *svgmodel.Mask, x, y int) []int {
	w, h := mask.Width, mask.Height
	var out []int
	for _, off := range ringOffsets {
		nx, ny := x+off[0], y+off[1]
		if nx < 0 || ny < 0 || nx >= w || ny >= h {
			continue
		}
		if mask.At(nx, ny) {
			out = append(out, ny*w+nx)
		}
	}
	return out
}

type edgeKey struct{ a, b int }

func makeEdgeKey(a, b int) edgeKey {
	if a > b {
		a, b = b, a
	}
	return edgeKey{a, b}
}

// ExtractPolylines walks the 8-connected skeleton, classifying pixels by
// degree (1 = free end, 2 = regular arc, >=3 = junction), and emits one
// polyline per arc between junctions/free ends. Arcs (and standalone
// closed loops with no junction) shorter than minBranchPx are dropped.
// See spec.md §4.7 step 4.
func ExtractPolylines(skeleton *svgmodel.Mask, minBranchPx float64) []svgmodel.Polyline {
	w, h := skeleton.Width, skeleton.Height
	degree := make([]int, w*h)
	neighborsOf := make([][]int, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !skeleton.At(x, y) {
				degree[y*w+x] = -1
				continue
			}
			n := skeletonNeighbors(skeleton, x, y)
			neighborsOf[y*w+x] = n
			degree[y*w+x] = len(n)
		}
	}

	visitedEdge := make(map[edgeKey]bool)
	var polylines []svgmodel.Polyline

	walk := func(start, first int) svgmodel.Polyline {
		path := []int{start, first}
		visitedEdge[makeEdgeKey(start, first)] = true
		prev, cur := start, first
		for degree[cur] == 2 {
			next := -1
			for _, nb := range neighborsOf[cur] {
				if nb == prev {
					continue
				}
				if !visitedEdge[makeEdgeKey(cur, nb)] {
					next = nb
					break
				}
			}
			if next < 0 {
				break
			}
			visitedEdge[makeEdgeKey(cur, next)] = true
			path = append(path, next)
			prev, cur = cur, next
			if cur == start {
				break // closed loop
			}
		}
		pl := make(svgmodel.Polyline, len(path))
		for i, idx := range path {
			pl[i] = svgmodel.Point{X: float64(idx % w), Y: float64(idx / w)}
		}
		return pl
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			if degree[i] != 1 && degree[i] < 3 {
				continue
			}
			for _, nb := range neighborsOf[i] {
				if visitedEdge[makeEdgeKey(i, nb)] {
					continue
				}
				pl := walk(i, nb)
				if pl.Length() >= minBranchPx {
					polylines = append(polylines, pl)
				}
			}
		}
	}

	// Pure loops: components with no junction/free-end pixel at all.
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			if degree[i] != 2 {
				continue
			}
			for _, nb := range neighborsOf[i] {
				if visitedEdge[makeEdgeKey(i, nb)] {
					continue
				}
				pl := walk(i, nb)
				if pl.Length() >= minBranchPx {
					polylines = append(polylines, pl)
				}
			}
		}
	}

	return polylines
}
