// Package imaging provides the boundary collaborators the tracing core
// treats as external per spec.md §1/§6: loading an image from disk,
// downscaling it for preprocessing, sampling pixel colors, and converting
// to CIE LAB for perceptual comparisons. Grayscale conversion lives in
// internal/gradient (FromImage).
//
// None of the tracing algorithms themselves live here. ETF, FDoG, NMS,
// the tracer, and the fitter operate on plain buffers (gradient.Gray,
// svgmodel.Mask) rather than on image.Image; the Dots backend and the
// refinement loop read image.Image through this package's sampling and
// LAB helpers.
//
// # Coordinate System
//
// All pixel coordinates are 0-based: (0,0) is top-left, X increases
// rightward, Y increases downward, matching spec.md §3.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use; individual conversion functions
// are stateless.
package imaging
