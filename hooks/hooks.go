// Package hooks implements the generic instance-list/fold pattern spec
// §4.7 describes: a Hooks[In, Out] is a mutable list of hook instances,
// and ManagedHooks is a type-keyed registry that allocates hook sets
// lazily on first access. Grounded on the teacher's phase system
// (hooks.go: PreGeneration, PostGeneration, PreToolUse, ...), generalized
// from "a fixed set of named phases" to "an open, type-keyed set of
// named hook points." Kept free of any dependency on the domain package
// so it can be imported from the core without an import cycle; concrete
// hook payload types (CanMove, CanCarry, ...) live in the root package
// and are registered here by key.
package hooks

import "sync"

// Hooks is a mutable list of hook instances sharing one input/output
// shape. Run folds every instance's outcome starting from zero, using
// fold — matching spec §4.7's "no short-circuit" requirement: every
// instance always runs.
type Hooks[In any, Out any] struct {
	mu        sync.Mutex
	instances []func(In) Out
	zero      Out
	fold      func(a, b Out) Out
}

// New creates an empty Hooks with the given zero outcome and fold
// function (e.g. CanMove's fold: Prevent if any instance said Prevent).
func New[In any, Out any](zero Out, fold func(a, b Out) Out) *Hooks[In, Out] {
	return &Hooks[In, Out]{zero: zero, fold: fold}
}

// Register appends a hook instance.
func (h *Hooks[In, Out]) Register(fn func(In) Out) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.instances = append(h.instances, fn)
}

// Run invokes every registered instance with input and folds their
// outcomes together, starting from Out's zero value. Every instance
// runs regardless of earlier outcomes.
func (h *Hooks[In, Out]) Run(input In) Out {
	h.mu.Lock()
	instances := append([]func(In) Out(nil), h.instances...)
	h.mu.Unlock()

	out := h.zero
	for _, fn := range instances {
		out = h.fold(out, fn(input))
	}
	return out
}

// Len reports how many hook instances are currently registered.
func (h *Hooks[In, Out]) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.instances)
}

// ManagedHooks is a type-keyed registry of Hooks sets, allocated
// lazily. Each hook set is named by a static "hooks_key()"-style string
// (spec §4.7); callers use the package-level Get function, which boxes
// the type parameters behind the key, to fetch or create a set.
type ManagedHooks struct {
	mu   sync.Mutex
	sets map[string]any
}

// NewManaged creates an empty ManagedHooks registry.
func NewManaged() *ManagedHooks {
	return &ManagedHooks{sets: make(map[string]any)}
}

// Get returns the Hooks[In, Out] registered under key, creating it with
// the given zero/fold if this is the first access. A key reused with
// different type parameters than its first use panics, since that
// indicates a programming error in hook-set registration, not a runtime
// condition callers should recover from.
func Get[In any, Out any](m *ManagedHooks, key string, zero Out, fold func(a, b Out) Out) *Hooks[In, Out] {
	m.mu.Lock()
	defer m.mu.Unlock()

	if v, ok := m.sets[key]; ok {
		h, ok := v.(*Hooks[In, Out])
		if !ok {
			panic("hooks: key " + key + " reused with a different hook shape")
		}
		return h
	}
	h := New[In, Out](zero, fold)
	m.sets[key] = h
	return h
}
