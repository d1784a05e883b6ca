package hollowmere

import (
	"encoding/json"
	"time"
)

// Action is the contract every plugin-contributed verb satisfies. A
// read-only action must not mutate scopes; Session may commit such a
// perform as a rollback (spec.md §4.6).
type Action interface {
	// IsReadOnly reports whether this action mutates any entity scope.
	IsReadOnly() bool

	// Perform executes the action against surroundings within session,
	// returning the effect to report back to the caller.
	Perform(session *Session, surroundings Surroundings) (Effect, error)
}

// Perform is the sum type pushed through the middleware chain. Exactly
// one of the typed fields below is non-zero for any given value;
// callers should use the PerformX constructors and a type switch (via
// Variant) rather than constructing Perform literals directly.
type Perform struct {
	variant performVariant
}

type performVariant interface{ isPerformVariant() }

// Variant returns the concrete payload carried by p, for use in a type
// switch by middleware and the terminal dispatcher.
func (p Perform) Variant() any { return p.variant }

// PerformActor wraps an actor about to perform action, before
// surroundings have been expanded.
type PerformActor struct {
	Actor  *Entity
	Action Action
}

func (PerformActor) isPerformVariant() {}

// NewPerformActor builds a Perform carrying an actor+action pair.
func NewPerformActor(actor *Entity, action Action) Perform {
	return Perform{variant: PerformActor{Actor: actor, Action: action}}
}

// PerformSurroundings wraps an action already enriched with context,
// produced by the built-in ExpandSurroundings middleware.
type PerformSurroundings struct {
	Surroundings Surroundings
	Action       Action
}

func (PerformSurroundings) isPerformVariant() {}

// NewPerformSurroundings builds a Perform already carrying surroundings.
func NewPerformSurroundings(s Surroundings, action Action) Perform {
	return Perform{variant: PerformSurroundings{Surroundings: s, Action: action}}
}

// PerformRaised wraps a raised event awaiting delivery.
type PerformRaised struct{ Raised Raised }

func (PerformRaised) isPerformVariant() {}

// NewPerformRaised builds a Perform carrying a raised event.
func NewPerformRaised(r Raised) Perform { return Perform{variant: PerformRaised{Raised: r}} }

// PerformSchedule wraps a future awaiting persistence.
type PerformSchedule struct{ Scheduling Scheduling }

func (PerformSchedule) isPerformVariant() {}

// NewPerformSchedule builds a Perform carrying a scheduled future.
func NewPerformSchedule(s Scheduling) Perform { return Perform{variant: PerformSchedule{Scheduling: s}} }

// PerformChain wraps another Perform, an extension point for
// middleware that needs to requeue a derived perform (spec.md §4.6).
type PerformChain struct{ Inner *Perform }

func (PerformChain) isPerformVariant() {}

// NewPerformChain wraps inner as a chained perform.
func NewPerformChain(inner Perform) Perform { return Perform{variant: PerformChain{Inner: &inner}} }

// PerformDelivery wraps an externally-injected event, routed to every
// plugin's Deliver method rather than to a single action.
type PerformDelivery struct{ Incoming Incoming }

func (PerformDelivery) isPerformVariant() {}

// NewPerformDelivery builds a Perform carrying an external delivery.
func NewPerformDelivery(in Incoming) Perform { return Perform{variant: PerformDelivery{Incoming: in}} }

// PerformPing is a no-op extension point, useful for middleware chain
// health checks and tests.
type PerformPing struct{ Note string }

func (PerformPing) isPerformVariant() {}

// NewPerformPing builds a Perform carrying a diagnostic ping.
func NewPerformPing(note string) Perform { return Perform{variant: PerformPing{Note: note}} }

// Surroundings is the (world, actor, area) triple made available to an
// action by the ExpandSurroundings middleware (spec.md §4.5).
type Surroundings struct {
	World *Entity
	Actor *Entity
	Area  *Entity
}

// Incoming is an externally-sourced event handed to every plugin via
// Deliver, opaque to the core beyond its tagged-JSON envelope.
type Incoming struct {
	Source  string          `json:"source"`
	Payload json.RawMessage `json:"payload"`
}

// Raised is a deferred event recorded by Session.Raise, delivered to
// its audience at commit time.
type Raised struct {
	Actor    *EntityRef      `json:"actor,omitempty"`
	Audience Audience        `json:"audience"`
	Payload  json.RawMessage `json:"payload"`
}

// Scheduling is a deferred future recorded by Session.Schedule,
// persisted at commit time.
type Scheduling struct {
	Key        string          `json:"key"`
	When       time.Time       `json:"when"`
	Serialized json.RawMessage `json:"serialized"`
}

// Effect is what an Action.Perform (or a raw middleware terminal)
// returns: success, a reply payload, or a tagged-JSON structured reply.
// Exactly one of the accessors below is meaningful; use NewEffectOk /
// NewEffectReply / NewEffectJSON to construct one.
type Effect struct {
	ok      bool
	reply   any
	tagged  json.RawMessage
	hasJSON bool
}

// NewEffectOk reports success with no reply payload.
func NewEffectOk() Effect { return Effect{ok: true} }

// NewEffectReply wraps a Go reply value (e.g. a SimpleReply or
// AreaObservation) for callers that want the typed value directly
// rather than its wire encoding.
func NewEffectReply(reply any) Effect { return Effect{ok: true, reply: reply} }

// NewEffectJSON wraps a pre-encoded tagged-JSON payload, used when an
// action's reply must cross the wire as-is (e.g. replaying a stored
// effect).
func NewEffectJSON(payload json.RawMessage) Effect {
	return Effect{ok: true, tagged: payload, hasJSON: true}
}

// IsOk reports whether the effect represents success.
func (e Effect) IsOk() bool { return e.ok }

// Reply returns the typed reply value, if any, and whether one was set.
func (e Effect) Reply() (any, bool) { return e.reply, e.reply != nil }

// JSON returns the tagged-JSON payload, if any, and whether one was set.
func (e Effect) JSON() (json.RawMessage, bool) { return e.tagged, e.hasJSON }

// EvaluateAs selects how EvaluateAndPerformAs resolves the acting
// entity: by display name or by key.
type EvaluateAs struct {
	name string
	key  EntityKey
	byKey bool
}

// EvaluateAsName resolves the actor by display name.
func EvaluateAsName(name string) EvaluateAs { return EvaluateAs{name: name} }

// EvaluateAsKey resolves the actor by key.
func EvaluateAsKey(key EntityKey) EvaluateAs { return EvaluateAs{key: key, byKey: true} }

// Resolve reports which selector was used: (name, "", false) or
// ("", key, true).
func (e EvaluateAs) Resolve() (name string, key EntityKey, byKey bool) {
	return e.name, e.key, e.byKey
}

// AfterTick is the outcome of Session.Tick: exactly one of Processed,
// Deadline, or Empty describes what happened (spec.md §4.9).
type AfterTick struct {
	processed int
	deadline  *time.Time
	empty     bool
}

// Processed reports ≥1 future was performed and returns the count.
func (a AfterTick) Processed() (int, bool) {
	if a.processed > 0 {
		return a.processed, true
	}
	return 0, false
}

// Deadline reports the next known future's time, if any are pending.
func (a AfterTick) Deadline() (time.Time, bool) {
	if a.deadline != nil {
		return *a.deadline, true
	}
	return time.Time{}, false
}

// Empty reports whether there were no futures at all.
func (a AfterTick) Empty() bool { return a.empty }

// NewAfterTickProcessed reports n futures were processed this tick.
func NewAfterTickProcessed(n int) AfterTick { return AfterTick{processed: n} }

// NewAfterTickDeadline reports no futures were due, but one is pending at t.
func NewAfterTickDeadline(t time.Time) AfterTick { return AfterTick{deadline: &t} }

// NewAfterTickEmpty reports no futures are queued at all.
func NewAfterTickEmpty() AfterTick { return AfterTick{empty: true} }
