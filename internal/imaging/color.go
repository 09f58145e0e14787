package imaging

import (
	"fmt"
	"image"
	"math"
	"sort"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Region is a rectangular sub-area of an image, (X1,Y1) inclusive,
// (X2,Y2) exclusive — the same convention spec.md §3 uses for Tile.
type Region struct {
	X1, Y1, X2, Y2 int
}

// SampleColorHex returns the "#RRGGBB" color at a pixel, used by the Dots
// backend (§4.8 step 5, preserve_colors).
func SampleColorHex(img image.Image, x, y int) string {
	r, g, b, _ := img.At(x, y).RGBA()
	return fmt.Sprintf("#%02X%02X%02X", uint8(r>>8), uint8(g>>8), uint8(b>>8))
}

// Lab converts a pixel to CIE LAB (D65, sRGB source), the color space the
// Error Analyzer and the Dots background detector both operate in.
func Lab(img image.Image, x, y int) (l, a, bb float64) {
	r, g, b, _ := img.At(x, y).RGBA()
	c := colorful.Color{R: float64(r>>8) / 255, G: float64(g>>8) / 255, B: float64(b>>8) / 255}
	return c.Lab()
}

// LabColor is a LAB triple kept apart from the color sample it came from,
// matching the Point/buffer separation the rest of this module follows.
type LabColor struct{ L, A, B float64 }

// HexFromLab converts a LAB triple back to a clamped "#RRGGBB" sRGB
// hex string, the inverse of Lab, used by the refinement actions when
// deriving fill colors from LAB-space computations (region split,
// gradient stop colors).
func HexFromLab(l, a, b float64) string {
	return colorful.Lab(l, a, b).Clamped().Hex()
}

// DeltaE76 returns the Euclidean CIE76 distance between two LAB colors.
func DeltaE76(a, b LabColor) float64 {
	dl, da, db := a.L-b.L, a.A-b.A, a.B-b.B
	return math.Sqrt(dl*dl + da*da + db*db)
}

// ImageToLab converts every pixel of img to LAB, row-major, for the Error
// Analyzer's tile-wise ΔE computation.
func ImageToLab(img image.Image) []LabColor {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	out := make([]LabColor, w*h)
	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			c := colorful.Color{R: float64(r>>8) / 255, G: float64(g>>8) / 255, B: float64(b>>8) / 255}
			l, aa, bbv := c.Lab()
			out[i] = LabColor{l, aa, bbv}
			i++
		}
	}
	return out
}

// KMeansLab clusters a slice of LAB colors into k centroids using a
// seeded PRNG for the initial assignment (Lloyd's algorithm, fixed
// iteration count), per spec.md §4.8's "seeded PRNG, fixed seed for
// reproducibility" requirement. It never allocates more clusters than
// input points.
func KMeansLab(points []LabColor, k int, seed uint64, iterations int) []LabColor {
	if len(points) == 0 {
		return nil
	}
	if k > len(points) {
		k = len(points)
	}
	if k <= 0 {
		return nil
	}

	rng := newSplitMix64(seed)
	centroids := make([]LabColor, k)
	used := make(map[int]bool, k)
	for i := 0; i < k; i++ {
		idx := int(rng.next() % uint64(len(points)))
		for used[idx] {
			idx = (idx + 1) % len(points)
		}
		used[idx] = true
		centroids[i] = points[idx]
	}

	assign := make([]int, len(points))
	for iter := 0; iter < iterations; iter++ {
		for pi, p := range points {
			best, bestDist := 0, math.MaxFloat64
			for ci, c := range centroids {
				d := DeltaE76(p, c)
				if d < bestDist {
					bestDist, best = d, ci
				}
			}
			assign[pi] = best
		}

		sums := make([]LabColor, k)
		counts := make([]int, k)
		for pi, p := range points {
			ci := assign[pi]
			sums[ci].L += p.L
			sums[ci].A += p.A
			sums[ci].B += p.B
			counts[ci]++
		}
		for ci := range centroids {
			if counts[ci] == 0 {
				continue
			}
			centroids[ci] = LabColor{
				L: sums[ci].L / float64(counts[ci]),
				A: sums[ci].A / float64(counts[ci]),
				B: sums[ci].B / float64(counts[ci]),
			}
		}
	}
	return centroids
}

// splitMix64 is a small, dependency-free deterministic PRNG used anywhere
// the spec requires a seeded PRNG (K-means seeding, Poisson-disk
// sampling) but doesn't otherwise dictate an algorithm. No pack example
// ships a seeded-PRNG library (math/rand/v2's generators are unseeded
// convenience wrappers with no portable seeding guarantee across Go
// versions), so this is one of the few places standard-library-adjacent
// code is used directly rather than a third-party RNG crate.
type splitMix64 struct{ state uint64 }

func newSplitMix64(seed uint64) *splitMix64 { return &splitMix64{state: seed} }

func (s *splitMix64) next() uint64 {
	s.state += 0x9E3779B97F4A7C15
	z := s.state
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

// NextFloat returns a deterministic float64 in [0,1).
func (s *splitMix64) NextFloat() float64 {
	return float64(s.next()>>11) / (1 << 53)
}

// NewSeededRand exposes splitMix64 to other packages needing the same
// seeded-PRNG contract (Poisson-disk sampling in internal/dots).
func NewSeededRand(seed uint64) *splitMix64 { return newSplitMix64(seed) }

// DominantColors extracts the most common colors in an image or region
// by quantizing to a reduced RGB grid, used by the Dots backend to pick a
// default foreground color when preserve_colors is off.
func DominantColors(img image.Image, count int, region *Region) []string {
	bounds := img.Bounds()
	if region != nil {
		bounds = image.Rect(region.X1, region.Y1, region.X2, region.Y2)
	}

	counts := make(map[string]int)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			r8 := uint8((r >> 8) / 16 * 16)
			g8 := uint8((g >> 8) / 16 * 16)
			b8 := uint8((b >> 8) / 16 * 16)
			counts[fmt.Sprintf("#%02X%02X%02X", r8, g8, b8)]++
		}
	}

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return counts[keys[i]] > counts[keys[j]] })
	if len(keys) > count {
		keys = keys[:count]
	}
	return keys
}
