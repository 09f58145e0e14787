// Package simplify reduces polyline point counts: Douglas-Peucker
// (max-deviation recursive split) and Visvalingam-Whyatt (smallest
// triangle-area removal). See spec.md §4.9.
package simplify

import (
	"container/heap"
	"math"

	"github.com/ironsheep/rastertrace/internal/svgmodel"
)

// DouglasPeucker simplifies pl to within epsilon pixels of perpendicular
// deviation, preserving the first and last points exactly.
func DouglasPeucker(pl svgmodel.Polyline, epsilon float64) svgmodel.Polyline {
	if len(pl) < 3 {
		out := make(svgmodel.Polyline, len(pl))
		copy(out, pl)
		return out
	}
	keep := make([]bool, len(pl))
	keep[0] = true
	keep[len(pl)-1] = true
	dpRecurse(pl, 0, len(pl)-1, epsilon, keep)

	out := make(svgmodel.Polyline, 0, len(pl))
	for i, k := range keep {
		if k {
			out = append(out, pl[i])
		}
	}
	return out
}

func dpRecurse(pl svgmodel.Polyline, start, end int, epsilon float64, keep []bool) {
	if end-start < 2 {
		return
	}
	maxDist := -1.0
	splitIdx := -1
	for i := start + 1; i < end; i++ {
		d := perpendicularDistance(pl[i], pl[start], pl[end])
		if d > maxDist {
			maxDist, splitIdx = d, i
		}
	}
	if maxDist > epsilon {
		keep[splitIdx] = true
		dpRecurse(pl, start, splitIdx, epsilon, keep)
		dpRecurse(pl, splitIdx, end, epsilon, keep)
	}
}

func perpendicularDistance(p, a, b svgmodel.Point) float64 {
	ab := b.Sub(a)
	abLen := ab.Norm()
	if abLen < 1e-12 {
		return p.Dist(a)
	}
	ap := p.Sub(a)
	cross := ab.X*ap.Y - ab.Y*ap.X
	return math.Abs(cross) / abLen
}

// triItem is a polyline point in the Visvalingam-Whyatt working set,
// tracked with its current triangle area and doubly-linked neighbors
// in a min-heap keyed by area.
type triItem struct {
	idx        int
	area       float64
	prev, next *triItem
	heapIdx    int
	removed    bool
}

type triHeap []*triItem

func (h triHeap) Len() int            { return len(h) }
func (h triHeap) Less(i, j int) bool  { return h[i].area < h[j].area }
func (h triHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].heapIdx, h[j].heapIdx = i, j
}
func (h *triHeap) Push(x any) {
	item := x.(*triItem)
	item.heapIdx = len(*h)
	*h = append(*h, item)
}
func (h *triHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}

// VisvalingamWhyatt iteratively removes the point forming the smallest
// triangle with its neighbors until the next-smallest triangle area
// exceeds threshold (area in px²), preserving endpoints.
func VisvalingamWhyatt(pl svgmodel.Polyline, threshold float64) svgmodel.Polyline {
	n := len(pl)
	if n < 3 {
		out := make(svgmodel.Polyline, n)
		copy(out, pl)
		return out
	}

	items := make([]*triItem, n)
	for i := range pl {
		items[i] = &triItem{idx: i}
	}
	for i := 1; i < n-1; i++ {
		items[i].prev = items[i-1]
		items[i].next = items[i+1]
		items[i].area = triangleArea(pl[i-1], pl[i], pl[i+1])
	}

	h := make(triHeap, 0, n-2)
	for i := 1; i < n-1; i++ {
		heap.Push(&h, items[i])
	}

	for h.Len() > 0 {
		smallest := h[0]
		if smallest.area > threshold {
			break
		}
		heap.Pop(&h)
		smallest.removed = true

		prev, next := smallest.prev, smallest.next
		if prev.idx != 0 {
			prev.next = next
			if prev.prev != nil {
				prev.area = triangleArea(pl[prev.prev.idx], pl[prev.idx], pl[next.idx])
				heap.Fix(&h, prev.heapIdx)
			}
		} else {
			prev.next = next
		}
		if next.idx != n-1 {
			next.prev = prev
			if next.next != nil {
				next.area = triangleArea(pl[prev.idx], pl[next.idx], pl[next.next.idx])
				heap.Fix(&h, next.heapIdx)
			}
		} else {
			next.prev = prev
		}
	}

	out := make(svgmodel.Polyline, 0, n)
	for i := 0; i < n; i++ {
		if !items[i].removed {
			out = append(out, pl[i])
		}
	}
	return out
}

func triangleArea(a, b, c svgmodel.Point) float64 {
	return math.Abs((b.X-a.X)*(c.Y-a.Y)-(c.X-a.X)*(b.Y-a.Y)) / 2
}
