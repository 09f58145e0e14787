// Package gradient implements the shared low-level image primitives every
// tracing backend builds on: grayscale conversion, separable Gaussian
// blur, Sobel gradients (magnitude + orientation), and local variance —
// the "Gradient / Edge Primitives" component from spec.md §2.
//
// Everything here operates on the package's own Gray buffer (row-major
// float64, normalized to [0,1]) rather than image.Image, so the hot
// convolution loops never pay for an interface dispatch per pixel — the
// same reason the teacher's edge detector pre-flattened pixels into
// [][]float64 before convolving.
package gradient
