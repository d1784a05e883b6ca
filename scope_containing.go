package hollowmere

// Containing is a container's inventory: the entities it currently
// holds, an optional capacity limit, and a map of "verb -> produced
// item template key" used by behavior scripts (spec §4.3). Combine
// policy (merging fungible Carryables) lives in plugins/core's carrying
// action, not here; that action neither splits Carryables nor checks
// Capacity (AtCapacity has no caller) — per spec.md's "the core
// never invents actions," Containing itself is dumb data with the
// bookkeeping methods a container needs regardless of which plugin
// manipulates it.
type Containing struct {
	Holding  []EntityRef `json:"holding"`
	Capacity *int                   `json:"capacity,omitempty"`
	Produces map[string]string      `json:"produces,omitempty"`
}

func (Containing) ScopeKey() string { return "containing" }

// IsHolding reports whether key is already present in Holding.
func (c Containing) IsHolding(key EntityKey) bool {
	return c.indexOf(key) >= 0
}

func (c Containing) indexOf(key EntityKey) int {
	for i, ref := range c.Holding {
		if ref.Key == key {
			return i
		}
	}
	return -1
}

// Add appends ref to Holding if not already present. Returns false if
// ref was already held (no-op).
func (c *Containing) Add(ref EntityRef) bool {
	if c.IsHolding(ref.Key) {
		return false
	}
	c.Holding = append(c.Holding, ref)
	return true
}

// Remove drops key from Holding. Returns false if key was not held.
func (c *Containing) Remove(key EntityKey) bool {
	i := c.indexOf(key)
	if i < 0 {
		return false
	}
	c.Holding = append(c.Holding[:i], c.Holding[i+1:]...)
	return true
}

// AtCapacity reports whether adding one more item would exceed Capacity.
// A nil Capacity means unlimited.
func (c Containing) AtCapacity() bool {
	return c.Capacity != nil && len(c.Holding) >= *c.Capacity
}

// Location is the back-reference half of containment: spec invariant 7
// requires "A contains B ⇒ B.Location.Container = A." Maintaining both
// halves in lockstep is the caller's (plugins/core's) responsibility;
// Location itself is a plain pointer-or-absent value.
type Location struct {
	Container *EntityRef `json:"container,omitempty"`
}

func (Location) ScopeKey() string { return "location" }
