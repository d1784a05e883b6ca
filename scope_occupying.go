package hollowmere

// Occupying is attached to a living entity: the area it currently
// occupies (spec §4.3). Exactly one of Occupying/Location/Wearing
// should hold a given entity at a time, per the single-parent
// containment invariant (spec.md invariant 6).
type Occupying struct {
	Area EntityRef `json:"area"`
}

func (Occupying) ScopeKey() string { return "occupying" }

// Occupyable is attached to an area entity: the living entities
// currently occupying it, and optionally a cached set of route names
// (the finder recomputes routes from Ground Exit scopes rather than
// trusting this cache; Routes exists for quick display use by
// notifiers).
type Occupyable struct {
	Occupied []EntityRef `json:"occupied,omitempty"`
	Routes   []string               `json:"routes,omitempty"`
}

func (Occupyable) ScopeKey() string { return "occupyable" }

func (o Occupyable) indexOf(key EntityKey) int {
	for i, ref := range o.Occupied {
		if ref.Key == key {
			return i
		}
	}
	return -1
}

// IsOccupiedBy reports whether key is present in Occupied.
func (o Occupyable) IsOccupiedBy(key EntityKey) bool {
	return o.indexOf(key) >= 0
}

// AddOccupant appends ref to Occupied if absent.
func (o *Occupyable) AddOccupant(ref EntityRef) bool {
	if o.IsOccupiedBy(ref.Key) {
		return false
	}
	o.Occupied = append(o.Occupied, ref)
	return true
}

// RemoveOccupant drops key from Occupied.
func (o *Occupyable) RemoveOccupant(key EntityKey) bool {
	i := o.indexOf(key)
	if i < 0 {
		return false
	}
	o.Occupied = append(o.Occupied[:i], o.Occupied[i+1:]...)
	return true
}

// Exit marks an entity as a routable destination: one end of a named
// route out of the area it sits in (as a Ground item). Area is the
// destination the route leads to.
type Exit struct {
	Area EntityRef `json:"area"`

	// Deactivated is nil when the route is usable. A non-nil value
	// carries the reason GoAction reports instead of
	// moving the actor — see SPEC_FULL.md's deactivated-routes design
	// decision.
	Deactivated *string `json:"deactivated,omitempty"`
}

func (Exit) ScopeKey() string { return "exit" }

// Deactivate sets Deactivated to reason. Idempotent: calling it again
// with the same reason leaves the value unchanged so session
// dirty-tracking sees no diff.
func (e *Exit) Deactivate(reason string) {
	if e.Deactivated != nil && *e.Deactivated == reason {
		return
	}
	e.Deactivated = &reason
}

// Activate clears Deactivated. Idempotent for the same reason given above.
func (e *Exit) Activate() {
	if e.Deactivated == nil {
		return
	}
	e.Deactivated = nil
}

// IsActive reports whether the route can currently be used.
func (e Exit) IsActive() bool { return e.Deactivated == nil }

// Movement is an actor's memory of areas it has a known route to,
// independent of whether it is currently standing in one. Used by
// behaviors and by NPC plugins (spec §4.3).
type Movement struct {
	Routes []MovementRoute `json:"routes,omitempty"`
}

func (Movement) ScopeKey() string { return "movement" }

// MovementRoute is one remembered route.
type MovementRoute struct {
	Area EntityRef `json:"area"`
}
