// Kind and the scope types below (Containing, Occupying, Exit, Carryable,
// Wearable, Behaviors, Memory, Properties) are the standard scopes
// attached to entities: container/location back-references, area
// occupancy, exits and known routes, carryable/wearable items, scripting
// attachments, actor memory, and canonical properties. Grounded on
// original_source/plugins/core's carrying, building, and moving modules,
// reimplemented as plain Go structs implementing Scope.
package hollowmere

// Kind identifies fungibility: two Carryable or Wearable items combine
// on co-location only if their Kind values are equal. A Kind is opaque;
// callers mint one via NewKind and compare with ==, matching
// original_source's Kind(Identity) wrapped-identity approach.
type Kind string

// NewKind wraps identity as a fungibility key. Items whose scopes carry
// equal Kind values are fungible; items given distinct Kinds never
// combine, even with identical names. EntityBuilder does not assign a
// Kind: whoever writes the Carryable or Wearable scope chooses it.
func NewKind(identity string) Kind { return Kind(identity) }
