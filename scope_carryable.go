package hollowmere

// Carryable marks an item as holdable and quantified: Kind identifies
// fungibility (spec glossary, "Fungible"), Quantity is how many units
// this single entity currently represents. Combining two Carryables of
// the same Kind (by obliterating one and bumping the other's quantity)
// is a carrying-plugin operation (original_source's carrying/mod.rs
// start_carrying), built on top of these plain arithmetic methods.
// plugins/core has no operation that splits one Carryable into two.
type Carryable struct {
	Kind     Kind    `json:"kind"`
	Quantity float32 `json:"quantity"`
}

func (Carryable) ScopeKey() string { return "carryable" }

// SameKind reports whether c and other can combine.
func (c Carryable) SameKind(other Carryable) bool { return c.Kind == other.Kind }

// IncreaseQuantity adds q (q must be > 0).
func (c *Carryable) IncreaseQuantity(q float32) error {
	if q <= 0 {
		return ErrImpossible
	}
	c.Quantity += q
	return nil
}

// DecreaseQuantity subtracts q; fails if q is out of range
// (original_source's sanity_check_quantity + decrease_quantity: q must
// be at least 1 and no more than the current quantity).
func (c *Carryable) DecreaseQuantity(q float32) error {
	if q < 1 || q > c.Quantity {
		return ErrImpossible
	}
	c.Quantity -= q
	return nil
}

// SetQuantity overwrites the quantity directly, used when materializing
// a freshly split-off Carryable.
func (c *Carryable) SetQuantity(q float32) { c.Quantity = q }

// Wearable marks an item as wearable, with the same fungibility concept
// as Carryable.
type Wearable struct {
	Kind Kind `json:"kind"`
}

func (Wearable) ScopeKey() string { return "wearable" }

// Wearing is attached to a living entity: the items it currently wears.
type Wearing struct {
	Wearing []EntityRef `json:"wearing,omitempty"`
}

func (Wearing) ScopeKey() string { return "wearing" }

func (w Wearing) indexOf(key EntityKey) int {
	for i, ref := range w.Wearing {
		if ref.Key == key {
			return i
		}
	}
	return -1
}

// IsWearing reports whether key is currently worn.
func (w Wearing) IsWearing(key EntityKey) bool { return w.indexOf(key) >= 0 }

// AddWorn appends ref to Wearing if absent.
func (w *Wearing) AddWorn(ref EntityRef) bool {
	if w.IsWearing(ref.Key) {
		return false
	}
	w.Wearing = append(w.Wearing, ref)
	return true
}

// RemoveWorn drops key from Wearing.
func (w *Wearing) RemoveWorn(key EntityKey) bool {
	i := w.indexOf(key)
	if i < 0 {
		return false
	}
	w.Wearing = append(w.Wearing[:i], w.Wearing[i+1:]...)
	return true
}
