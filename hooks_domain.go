package hollowmere

import "github.com/hollowmere/kernel/hooks"

// MoveOutcome is CanMove's fold result: Prevent if any hook instance
// says Prevent, else Allow (spec.md §4.7's worked example).
type MoveOutcome string

const (
	MoveAllow   MoveOutcome = "allow"
	MovePrevent MoveOutcome = "prevent"
)

func foldBlocking(a, b MoveOutcome) MoveOutcome {
	if a == MovePrevent || b == MovePrevent {
		return MovePrevent
	}
	return MoveAllow
}

// CanMoveInput is offered to every registered CanMove hook instance
// before GoAction actually relocates an actor.
type CanMoveInput struct {
	Actor *Entity
	From  EntityRef
	To    EntityRef
}

// CanCarryInput is offered to every registered CanCarry hook instance
// before HoldAction attaches an item to a container.
type CanCarryInput struct {
	Actor     *Entity
	Container *Entity
	Item      *Entity
}

// CanWearInput is offered to every registered CanWear hook instance
// before WearAction attaches an item to an actor.
type CanWearInput struct {
	Actor *Entity
	Item  *Entity
}

// NotifiedInput is offered to every registered Notified hook instance
// once a raised event has been resolved to its audience, before it is
// handed to the Notifier.
// The fold result is discarded; this hook set exists purely for side
// effects (logging, metrics) per spec.md §4.7's "aggregation stops at
// no short-circuit... so side effects are not lost."
type NotifiedInput struct {
	Event    Raised
	Audience []EntityKey
}

const (
	hookKeyCanMove  = "canMove"
	hookKeyCanCarry = "canCarry"
	hookKeyCanWear  = "canWear"
	hookKeyNotified = "notified"
)

// HookRegistry is the domain's typed façade over hooks.ManagedHooks:
// one accessor per named hook point, each lazily allocating its
// underlying hooks.Hooks set on first use. A Session's PluginHost passes
// the registry to every plugin's Initialize, where plugins register;
// actions call the Run accessors at the point spec.md names.
type HookRegistry struct {
	managed *hooks.ManagedHooks
}

// NewHookRegistry creates an empty registry.
func NewHookRegistry() *HookRegistry {
	return &HookRegistry{managed: hooks.NewManaged()}
}

// CanMove returns the CanMove hook set.
func (r *HookRegistry) CanMove() *hooks.Hooks[CanMoveInput, MoveOutcome] {
	return hooks.Get[CanMoveInput, MoveOutcome](r.managed, hookKeyCanMove, MoveAllow, foldBlocking)
}

// CanCarry returns the CanCarry hook set.
func (r *HookRegistry) CanCarry() *hooks.Hooks[CanCarryInput, MoveOutcome] {
	return hooks.Get[CanCarryInput, MoveOutcome](r.managed, hookKeyCanCarry, MoveAllow, foldBlocking)
}

// CanWear returns the CanWear hook set.
func (r *HookRegistry) CanWear() *hooks.Hooks[CanWearInput, MoveOutcome] {
	return hooks.Get[CanWearInput, MoveOutcome](r.managed, hookKeyCanWear, MoveAllow, foldBlocking)
}

// Notified returns the Notified hook set.
func (r *HookRegistry) Notified() *hooks.Hooks[NotifiedInput, struct{}] {
	return hooks.Get[NotifiedInput, struct{}](r.managed, hookKeyNotified, struct{}{},
		func(a, b struct{}) struct{} { return struct{}{} })
}
