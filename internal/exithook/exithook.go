// Package exithook keeps the process-wide list of cleanups that must run
// before vcsnoop exits, whichever path the exit takes.
package exithook

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"pkt.systems/pslog"
)

// Registry holds pending cleanups. Each one runs at most once.
type Registry struct {
	mu    sync.Mutex
	next  uint64
	hooks map[uint64]hook
}

type hook struct {
	seq  uint64
	name string
	fn   func() error
}

// New constructs an empty Registry.
func New() *Registry {
	return &Registry{hooks: make(map[uint64]hook)}
}

var defaultRegistry = New()

// Default returns the process-wide registry.
func Default() *Registry {
	return defaultRegistry
}

// Register adds fn and returns a release func that drops it without running it.
func (r *Registry) Register(name string, fn func() error) func() {
	if r == nil || fn == nil {
		return func() {}
	}
	r.mu.Lock()
	r.next++
	seq := r.next
	r.hooks[seq] = hook{seq: seq, name: name, fn: fn}
	r.mu.Unlock()
	return func() {
		r.mu.Lock()
		delete(r.hooks, seq)
		r.mu.Unlock()
	}
}

// Pending reports how many hooks are still registered.
func (r *Registry) Pending() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.hooks)
}

// Run executes every pending hook, newest first, and empties the registry.
func (r *Registry) Run(ctx context.Context) error {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	pending := make([]hook, 0, len(r.hooks))
	for _, h := range r.hooks {
		pending = append(pending, h)
	}
	r.hooks = make(map[uint64]hook)
	r.mu.Unlock()

	slices.SortFunc(pending, func(a, b hook) int { return cmp.Compare(b.seq, a.seq) })
	log := pslog.Ctx(ctx)
	var errs []error
	for _, h := range pending {
		if err := h.fn(); err != nil {
			log.Warn("exit hook failed", "hook", h.name, "err", err)
			errs = append(errs, fmt.Errorf("%s: %w", h.name, err))
			continue
		}
		log.Debug("exit hook ran", "hook", h.name)
	}
	return errors.Join(errs...)
}

// Run executes the process-wide registry.
func Run(ctx context.Context) error {
	return defaultRegistry.Run(ctx)
}
