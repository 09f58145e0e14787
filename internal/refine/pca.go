package refine

import "math"

// eigen2x2Dominant returns the dominant (unit) eigenvector of the
// symmetric 2x2 matrix [[a,b],[b,c]], using the closed-form
// quadratic solution (always available for a 2x2 symmetric matrix,
// unlike the 3x3 LAB case below).
func eigen2x2Dominant(a, b, c float64) (x, y float64) {
	trace := a + c
	diff := (a - c) / 2
	disc := math.Sqrt(diff*diff + b*b)
	lambda := trace/2 + disc
	if b != 0 {
		x, y = lambda-c, b
	} else if a >= c {
		x, y = 1, 0
	} else {
		x, y = 0, 1
	}
	norm := math.Hypot(x, y)
	if norm == 0 {
		return 1, 0
	}
	return x / norm, y / norm
}

// eigen3x3DominantPowerIteration returns the dominant unit eigenvector
// of a symmetric 3x3 matrix via power iteration. spec.md doesn't
// specify a PCA implementation for the LAB-space axis in action C;
// power iteration is the standard closed-form-free approach for a
// small symmetric matrix with no ecosystem linear-algebra dependency
// in the example pack to reach for instead.
func eigen3x3DominantPowerIteration(m [3][3]float64, iterations int) [3]float64 {
	v := [3]float64{1, 1, 1}
	for iter := 0; iter < iterations; iter++ {
		nv := [3]float64{
			m[0][0]*v[0] + m[0][1]*v[1] + m[0][2]*v[2],
			m[1][0]*v[0] + m[1][1]*v[1] + m[1][2]*v[2],
			m[2][0]*v[0] + m[2][1]*v[1] + m[2][2]*v[2],
		}
		norm := math.Sqrt(nv[0]*nv[0] + nv[1]*nv[1] + nv[2]*nv[2])
		if norm == 0 {
			return v
		}
		v = [3]float64{nv[0] / norm, nv[1] / norm, nv[2] / norm}
	}
	return v
}
