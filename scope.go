package hollowmere

import "encoding/json"

// Scope is implemented by every typed attachment a scope type declares.
// Each scope type names a static key (e.g. "containing", "exit"); the
// registry load/save contract in spec §4.3 is driven entirely off this
// one method, generalized from the teacher's versioned Document
// interface (document.go) to "one versioned key inside an entity's
// scope map" rather than "the entity's only content."
type Scope interface {
	ScopeKey() string
}

// ScopeOf loads scope T from e, returning the type's zero value if the
// scope is absent (spec §4.3 "missing scopes default to the type's zero
// value on first access"). The returned value is a snapshot: mutating it
// has no effect on e until passed to ReplaceScope or obtained via
// ScopeMut and Saved.
func ScopeOf[T Scope](e *Entity) (T, error) {
	var zero T
	raw := e.rawScope(zero.ScopeKey())
	if raw == nil {
		return zero, nil
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return zero, &TaggedJSONError{Kind: "json", Cause: err}
	}
	return v, nil
}

// ReplaceScope serializes v and stores it under its scope key, marking
// e dirty. This is the non-handle-based save path used by code that
// does not need the open-handle locking ScopeMut provides.
func ReplaceScope[T Scope](e *Entity, v T) error {
	return e.replaceScope(v.ScopeKey(), v)
}

// MutHandle is a mutable view of scope T borrowed from an entity. It
// guarantees that Save writes the current value back to the entity and
// that dropping an unsaved handle (simply letting it go out of scope)
// does not panic. Nothing is logged when that happens, and a handle
// dropped without Save or Close keeps its logical lock, so a later
// ScopeMut on the same entity and scope returns ErrScopeLocked.
// Session (ScopeMut in session.go) enforces the single-open-handle-per-
// (entity,scope) rule described in spec §5; MutHandle itself is a thin,
// session-agnostic wrapper so scope types can be unit tested without a
// Session.
type MutHandle[T Scope] struct {
	entity *Entity
	value  T
	saved  bool
	unlock func()
}

// NewMutHandle wraps value for entity e. Intended for use by
// Session.ScopeMut; most callers should go through the session.
func NewMutHandle[T Scope](e *Entity, value T, unlock func()) *MutHandle[T] {
	return &MutHandle[T]{entity: e, value: value, unlock: unlock}
}

// Get returns a pointer to the mutable value.
func (h *MutHandle[T]) Get() *T { return &h.value }

// Save writes the current value back to the entity, marking it dirty,
// and releases the logical lock so another handle may be opened later.
func (h *MutHandle[T]) Save() error {
	if err := ReplaceScope(h.entity, h.value); err != nil {
		return err
	}
	h.saved = true
	if h.unlock != nil {
		h.unlock()
		h.unlock = nil
	}
	return nil
}

// Close releases the logical lock without saving. It neither logs nor
// returns an error, matching spec §4.3's "does not panic."
func (h *MutHandle[T]) Close() {
	if h.unlock != nil {
		h.unlock()
		h.unlock = nil
	}
}

// Saved reports whether Save was called on this handle.
func (h *MutHandle[T]) Saved() bool { return h.saved }
