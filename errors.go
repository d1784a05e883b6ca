package hollowmere

import "errors"

// Domain errors (expected; may be converted to a reply inside one action).
var (
	ErrEntityNotFound   = errors.New("hollowmere: entity not found")
	ErrDanglingEntity   = errors.New("hollowmere: reference to missing entity")
	ErrNoSuchScope      = errors.New("hollowmere: no such scope")
	ErrImpossible       = errors.New("hollowmere: action is impossible")
	ErrContainerRequired = errors.New("hollowmere: a container is required")
	ErrInvalidKey       = errors.New("hollowmere: invalid entity key")
	ErrOverflow         = errors.New("hollowmere: quantity overflow")
)

// Session errors (always abort the session).
var (
	ErrNoSession       = errors.New("hollowmere: no session bound to this goroutine")
	ErrExpiredSession  = errors.New("hollowmere: session has expired")
	ErrSessionClosed   = errors.New("hollowmere: session is closed")
	ErrSessionReentry  = errors.New("hollowmere: a session is already bound to this goroutine")
	ErrScopeLocked     = errors.New("hollowmere: scope already has an open mutable handle")
)

// Parse errors (at the evaluation boundary, these produce a nil action
// rather than propagating; the constants exist for callers that want to
// distinguish "nothing parsed" from "a deeper failure").
var (
	ErrParseFailed = errors.New("hollowmere: could not parse input")
)

// Evaluation errors.
var (
	ErrEvaluationFailed = errors.New("hollowmere: evaluation failed")
)

// TaggedJSONError wraps a malformed or semantically invalid tagged-JSON
// payload, distinguishing transport-level malformation from ordinary
// json.Unmarshal errors so callers can special-case "nothing recognized
// this tag."
type TaggedJSONError struct {
	Kind  string // "malformed" or "json"
	Cause error
}

func (e *TaggedJSONError) Error() string {
	return "hollowmere: tagged json (" + e.Kind + "): " + e.Cause.Error()
}

func (e *TaggedJSONError) Unwrap() error { return e.Cause }

// VersionConflictError is returned by a Storage.Save call that observed
// zero affected rows: the caller's in-memory version is stale relative to
// what is persisted.
type VersionConflictError struct {
	Key             string
	ExpectedVersion uint64
}

func (e *VersionConflictError) Error() string {
	return "hollowmere: version conflict saving " + e.Key
}

// Impossible wraps ErrImpossible with a human-readable reason, used by
// actions that want SimpleReplyImpossible or SimpleReplyPrevented to carry
// context into logs without inventing a new error type per action.
type Impossible struct {
	Reason string
}

func (e *Impossible) Error() string {
	if e.Reason == "" {
		return ErrImpossible.Error()
	}
	return ErrImpossible.Error() + ": " + e.Reason
}

func (e *Impossible) Unwrap() error { return ErrImpossible }
