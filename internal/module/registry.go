package module

import (
	"fmt"
	"sort"
	"sync"
)

// Entry holds one active module together with its lock and Animator.
//
// The lock serializes all access to the module: the Router holds it for
// the full duration of a HandleCommand call, including any
// cancel-then-start animation sequence. Commands to different modules
// proceed concurrently.
type Entry struct {
	module   Module
	mu       sync.Mutex
	animator *Animator
}

// Module returns the wrapped module.
func (e *Entry) Module() Module {
	return e.module
}

// Animator returns the module's animation task runner.
func (e *Entry) Animator() *Animator {
	return e.animator
}

// Lock acquires the module's command lock.
func (e *Entry) Lock() {
	e.mu.Lock()
}

// Unlock releases the module's command lock.
func (e *Entry) Unlock() {
	e.mu.Unlock()
}

// Registry owns the authoritative set of active modules.
//
// Modules are statically known at build time: the daemon passes the
// full candidate set to Start, which initializes each in order. A
// module whose Init fails is recorded as unavailable with its failure
// reason and excluded from the active set; daemon startup continues
// regardless.
//
// The module table is read-only after Start, so lookups need no
// synchronization. Per-module state is guarded by each Entry's lock.
type Registry struct {
	entries map[string]*Entry
	order   []string          // successful init order
	failed  map[string]string // name -> init failure reason
	logger  Logger
	sink    EventSink
}

// NewRegistry creates an empty registry.
//
// Parameters:
//   - logger: Engine logger; nil for no logging
func NewRegistry(logger Logger) *Registry {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Registry{
		entries: make(map[string]*Entry),
		failed:  make(map[string]string),
		logger:  logger,
	}
}

// SetEventSink sets the sink injected into event-emitting modules.
// Must be called before Start.
func (r *Registry) SetEventSink(sink EventSink) {
	r.sink = sink
}

// Start initializes the candidate modules in the given order.
//
// For each module it calls Init; on failure the module is logged,
// recorded in Failed and excluded. Successfully initialized modules
// get an Animator (if they implement Animated) and the event sink (if
// they implement EventEmitter).
func (r *Registry) Start(modules ...Module) {
	for _, m := range modules {
		name := m.Name()

		if err := m.Init(); err != nil {
			r.failed[name] = err.Error()
			r.logger.Warn("module init failed, excluded from active set",
				"module", name,
				"error", err,
			)
			continue
		}

		entry := &Entry{
			module:   m,
			animator: NewAnimator(name, r.logger),
		}
		r.entries[name] = entry
		r.order = append(r.order, name)

		if a, ok := m.(Animated); ok {
			a.SetAnimator(entry.animator)
		}
		if e, ok := m.(EventEmitter); ok && r.sink != nil {
			e.SetEventSink(r.sink)
		}

		r.logger.Info("module initialised", "module", name)
	}
}

// Get returns the entry for the named module.
//
// Returns:
//   - *Entry: The module's entry
//   - error: ErrNotFound-wrapped error naming the module
func (r *Registry) Get(name string) (*Entry, error) {
	entry, ok := r.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return entry, nil
}

// Names returns the active module names in sorted order, for
// deterministic status and capabilities listings.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Failed returns the modules excluded at startup with their failure
// reasons. The returned map is a copy; the registry's own record is
// fixed once Start returns.
func (r *Registry) Failed() map[string]string {
	out := make(map[string]string, len(r.failed))
	for name, reason := range r.failed {
		out[name] = reason
	}
	return out
}

// States returns a state snapshot of every active module, keyed by
// module name. Each module's lock is held for its own snapshot, so a
// concurrent command is observed either fully applied or not at all.
func (r *Registry) States() map[string]any {
	states := make(map[string]any, len(r.entries))
	for _, name := range r.Names() {
		entry := r.entries[name]
		entry.Lock()
		states[name] = entry.module.State()
		entry.Unlock()
	}
	return states
}

// Capabilities returns every active module's capability listing, keyed
// by module name. Modules that failed Init are absent, not stubbed.
func (r *Registry) Capabilities() map[string][]Capability {
	caps := make(map[string][]Capability, len(r.entries))
	for _, name := range r.Names() {
		caps[name] = r.entries[name].module.Capabilities()
	}
	return caps
}

// Shutdown stops every animation task and cleans up every active
// module, in reverse initialization order. Module cleanup errors are
// contained; a panicking Cleanup is logged, never propagated.
func (r *Registry) Shutdown() {
	for i := len(r.order) - 1; i >= 0; i-- {
		name := r.order[i]
		entry := r.entries[name]

		entry.Lock()
		if _, err := entry.animator.Stop(); err != nil {
			r.logger.Error("animation stop failed during shutdown",
				"module", name,
				"error", err,
			)
		}
		r.cleanupModule(entry)
		entry.Unlock()

		r.logger.Info("module cleaned up", "module", name)
	}
}

// cleanupModule invokes Cleanup with panic containment.
func (r *Registry) cleanupModule(entry *Entry) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("module cleanup panic recovered",
				"module", entry.module.Name(),
				"panic", rec,
			)
		}
	}()
	entry.module.Cleanup()
}
