// Package workerpool implements the process-wide concurrency resource
// spec.md §5 describes: a thread pool sized to hardware concurrency
// (clamped to [1,16]) and an optional GPU device handle. The pool is a
// lazily initialized singleton (Default), created once and passed
// explicitly to callers rather than referenced through a mutable
// package-level global, per spec.md §9's "no global state" note. The GPU
// handle is the GPUDevice interface; NoGPU is its only implementation.
package workerpool

import (
	"context"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

const (
	minWorkers = 1
	maxWorkers = 16
)

// Pool bounds fan-out concurrency to a fixed worker count via a
// semaphore-backed errgroup.
type Pool struct {
	size int
	sem  chan struct{}
}

// New creates a Pool with the given worker count, clamped to [1,16].
func New(size int) *Pool {
	if size < minWorkers {
		size = minWorkers
	} else if size > maxWorkers {
		size = maxWorkers
	}
	return &Pool{size: size, sem: make(chan struct{}, size)}
}

// Size reports the pool's worker count.
func (p *Pool) Size() int { return p.size }

// acquire blocks until a worker slot is free or ctx is canceled.
func (p *Pool) acquire(ctx context.Context) error {
	select {
	case p.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Pool) release() { <-p.sem }

// ForEach runs fn(i) for i in [0,n), bounded to the pool's worker
// count, and returns the first error encountered (if any), canceling
// remaining work. This is the shape every parallelism point in spec.md
// §5 uses: per-row convolutions, per-polyline simplification/fitting,
// per-tile error computation.
func (p *Pool) ForEach(ctx context.Context, n int, fn func(ctx context.Context, i int) error) error {
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		i := i
		if err := p.acquire(gctx); err != nil {
			break
		}
		g.Go(func() error {
			defer p.release()
			return fn(gctx, i)
		})
	}
	return g.Wait()
}

var (
	defaultOnce sync.Once
	defaultPool *Pool
)

// Default returns the process-wide lazily initialized pool, sized to
// runtime.NumCPU() clamped to [1,16]. Callers needing deterministic
// sizing (tests, WASM single-threaded builds) should construct their
// own Pool with New instead.
func Default() *Pool {
	defaultOnce.Do(func() {
		defaultPool = New(runtime.NumCPU())
	})
	return defaultPool
}
