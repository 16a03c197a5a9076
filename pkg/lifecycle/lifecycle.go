// Package lifecycle coordinates startup and shutdown hooks across the
// systems of a long-running process.
package lifecycle

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"
)

// ReadinessChecker reports whether a subsystem is ready to serve traffic.
type ReadinessChecker interface {
	Ready() bool
}

// Coordinator manages startup and shutdown hooks for the application lifecycle.
type Coordinator struct {
	ctx        context.Context
	cancel     context.CancelFunc
	startupWg  sync.WaitGroup
	shutdownWg sync.WaitGroup
	ready      bool
	readyMu    sync.RWMutex

	pendingMu sync.Mutex
	pending   map[string]int
}

// New creates a Coordinator with a cancellable context.
func New() *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{
		ctx:     ctx,
		cancel:  cancel,
		pending: make(map[string]int),
	}
}

// Context returns the coordinator's context, cancelled on shutdown.
func (c *Coordinator) Context() context.Context {
	return c.ctx
}

// OnStartup registers a function to run concurrently during startup.
func (c *Coordinator) OnStartup(fn func()) {
	c.startupWg.Go(fn)
}

// OnShutdown registers a named function to run concurrently during shutdown.
// Shutdown hooks should block on <-c.Context().Done() before executing cleanup.
// The name identifies the hook if it outlives the shutdown timeout.
func (c *Coordinator) OnShutdown(name string, fn func()) {
	c.pendingMu.Lock()
	c.pending[name]++
	c.pendingMu.Unlock()

	c.shutdownWg.Go(func() {
		defer c.finish(name)
		fn()
	})
}

// Ready returns true after all startup hooks have completed.
func (c *Coordinator) Ready() bool {
	c.readyMu.RLock()
	defer c.readyMu.RUnlock()
	return c.ready
}

// WaitForStartup blocks until all startup hooks have completed and sets the ready flag.
func (c *Coordinator) WaitForStartup() {
	c.startupWg.Wait()
	c.readyMu.Lock()
	c.ready = true
	c.readyMu.Unlock()
}

// Shutdown cancels the context and waits for shutdown hooks to complete
// within the given timeout. On timeout the error names the unfinished hooks.
func (c *Coordinator) Shutdown(timeout time.Duration) error {
	c.readyMu.Lock()
	c.ready = false
	c.readyMu.Unlock()

	c.cancel()

	done := make(chan struct{})
	go func() {
		c.shutdownWg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("shutdown timeout after %v: pending %v", timeout, c.Pending())
	}
}

// Pending returns the sorted names of shutdown hooks that have not finished.
func (c *Coordinator) Pending() []string {
	c.pendingMu.Lock()
	defer c.pendingMu.Unlock()
	return slices.Sorted(maps.Keys(c.pending))
}

func (c *Coordinator) finish(name string) {
	c.pendingMu.Lock()
	defer c.pendingMu.Unlock()
	if c.pending[name]--; c.pending[name] <= 0 {
		delete(c.pending, name)
	}
}
