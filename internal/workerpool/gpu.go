package workerpool

import "context"

// GPUDevice is the contract for an optional GPU acceleration backend.
// spec.md explicitly scopes GPU kernels out of this core's algorithmic
// surface, so only the interface and a no-op stub are implemented;
// every backend in this module runs its own CPU code path regardless
// of which GPUDevice is configured.
type GPUDevice interface {
	// Available reports whether the device can accept work.
	Available() bool
	// Submit runs fn as a GPU kernel dispatch. The no-op stub runs fn
	// inline on the calling goroutine.
	Submit(ctx context.Context, fn func() error) error
}

// NoGPU is the zero-configuration GPUDevice: it reports itself
// unavailable and executes submitted work inline.
type NoGPU struct{}

// Available always returns false.
func (NoGPU) Available() bool { return false }

// Submit runs fn synchronously on the calling goroutine.
func (NoGPU) Submit(_ context.Context, fn func() error) error { return fn() }
