package shutdown

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"reportmailer/core"
)

// Priorities used by the application. Lower values run first.
const (
	// PriorityServer stops accepting requests and drains in-flight generations.
	PriorityServer = 10
	// PriorityLogger flushes buffered log entries last.
	PriorityLogger = 90
)

type registryEntry struct {
	name     string
	fn       core.ShutdownFunc
	priority int
}

// Registry maintains an ordered collection of shutdown functions.
//
// Usage:
//
//	registry := NewRegistry()
//	registry.Register("http server", PriorityServer, server.Shutdown)
//	registry.Register("logger", PriorityLogger, func(context.Context) error {
//	    return logger.Sync()
//	})
//
//	// During shutdown:
//	if err := registry.Run(ctx); err != nil {
//	    log.Printf("shutdown: %v", err)
//	}
type Registry struct {
	mu      sync.Mutex
	entries []registryEntry
	closed  bool
}

// NewRegistry creates a Registry ready to accept registrations.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a shutdown function. Functions with equal priority run in
// registration order. Registration after Run is a no-op.
func (r *Registry) Register(name string, priority int, fn core.ShutdownFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed || fn == nil {
		return
	}
	r.entries = append(r.entries, registryEntry{name: name, fn: fn, priority: priority})
}

// Run calls every registered function in priority order, even after a
// failure, and returns the failures joined and prefixed with their names.
// Only the first call runs anything.
func (r *Registry) Run(ctx context.Context) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	sorted := r.sortedLocked()
	r.mu.Unlock()

	var errs []error
	for _, entry := range sorted {
		if err := entry.fn(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", entry.name, err))
		}
	}
	return errors.Join(errs...)
}

// Names returns the registered names in execution order.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	sorted := r.sortedLocked()
	names := make([]string, len(sorted))
	for i, entry := range sorted {
		names[i] = entry.name
	}
	return names
}

// IsClosed reports whether Run has been called.
func (r *Registry) IsClosed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

func (r *Registry) sortedLocked() []registryEntry {
	sorted := make([]registryEntry, len(r.entries))
	copy(sorted, r.entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].priority < sorted[j].priority
	})
	return sorted
}
