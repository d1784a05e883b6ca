package hollowmere

// EntityBuilder is a fluent constructor for a single entity, grounded
// on original_source's Build (domain/build.rs): a session-scoped
// builder that composes scope-setting calls, finishing with Into to
// register the entity with the session. Generalized from the original's
// `&Self`-per-call chaining (needed there for Rust's borrow checker)
// to ordinary Go method chaining on *EntityBuilder.
type EntityBuilder struct {
	session *Session
	entity  *Entity
	err     error
}

// Build starts a new entity of class in session. A fresh key is assigned
// right away by Session.CreateEntity; calling Key replaces it.
func Build(session *Session, class EntityClass) *EntityBuilder {
	e, err := session.CreateEntity(class)
	return &EntityBuilder{session: session, entity: e, err: err}
}

// Key overrides the generated key — used only for the singleton world
// entity, which must be addressable before it has ever been saved.
func (b *EntityBuilder) Key(key EntityKey) *EntityBuilder {
	if b.err != nil {
		return b
	}
	b.entity.Key = key
	return b
}

// Named sets the entity's display name.
func (b *EntityBuilder) Named(name string) *EntityBuilder {
	if b.err != nil {
		return b
	}
	b.entity.SetName(name)
	return b
}

// Described sets the entity's description.
func (b *EntityBuilder) Described(desc string) *EntityBuilder {
	if b.err != nil {
		return b
	}
	b.entity.SetDesc(desc)
	return b
}

// Creator records who built this entity, the builder equivalent of
// original_source's Build::creator.
func (b *EntityBuilder) Creator(creator *Entity) *EntityBuilder {
	if b.err != nil {
		return b
	}
	ref := RefOf(creator)
	b.entity.Creator = &ref
	return b
}

// LeadsTo attaches an Exit scope pointing at area — the builder
// equivalent of original_source's Build::leads_to.
func (b *EntityBuilder) LeadsTo(area *Entity) *EntityBuilder {
	if b.err != nil {
		return b
	}
	b.err = ReplaceScope(b.entity, Exit{Area: RefOf(area)})
	return b
}

// Occupying sets this entity (an area) as occupied by living, wiring
// both halves of the relationship (Occupyable.Occupied here,
// Occupying.Area on each living entity) — the builder equivalent of
// original_source's Build::occupying / tools::set_occupying.
func (b *EntityBuilder) Occupying(living ...*Entity) *EntityBuilder {
	if b.err != nil {
		return b
	}
	refs := make([]EntityRef, 0, len(living))
	for _, l := range living {
		refs = append(refs, RefOf(l))
		if err := ReplaceScope(l, Occupying{Area: RefOf(b.entity)}); err != nil {
			b.err = err
			return b
		}
	}
	b.err = ReplaceScope(b.entity, Occupyable{Occupied: refs})
	return b
}

// Holding sets this entity (a container) to hold items, wiring both
// halves (Containing.Holding here, Location.Container on each item) —
// the builder equivalent of original_source's Build::holding /
// tools::set_container.
func (b *EntityBuilder) Holding(items ...*Entity) *EntityBuilder {
	if b.err != nil {
		return b
	}
	refs := make([]EntityRef, 0, len(items))
	for _, item := range items {
		refs = append(refs, RefOf(item))
		self := RefOf(b.entity)
		if err := ReplaceScope(item, Location{Container: &self}); err != nil {
			b.err = err
			return b
		}
	}
	b.err = ReplaceScope(b.entity, Containing{Holding: refs})
	return b
}

// Wearing sets this entity (a living actor) to wear items — both
// halves (Wearing.Wearing here, no back-reference needed since Wearable
// carries no owner pointer in spec.md §4.3).
func (b *EntityBuilder) Wearing(items ...*Entity) *EntityBuilder {
	if b.err != nil {
		return b
	}
	refs := make([]EntityRef, 0, len(items))
	for _, item := range items {
		refs = append(refs, RefOf(item))
	}
	b.err = ReplaceScope(b.entity, Wearing{Wearing: refs})
	return b
}

// Into registers the built entity with the session and returns it.
func (b *EntityBuilder) Into() (*Entity, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.session.AddEntity(b.entity)
}

// QuickThing is a lazily-built entity template, grounded on
// original_source's QuickThing enum: a name produces a plain object or
// place, a route produces a named Exit leading to another QuickThing's
// result, and Actual wraps an already-built entity.
type QuickThing interface {
	make(session *Session) (*Entity, error)
}

type quickObject struct{ name string }

// QuickObject builds a plain named item.
func QuickObject(name string) QuickThing { return quickObject{name} }

func (q quickObject) make(session *Session) (*Entity, error) {
	return Build(session, ClassItem).Named(q.name).Into()
}

type quickPlace struct{ name string }

// QuickPlace builds a plain named area.
func QuickPlace(name string) QuickThing { return quickPlace{name} }

func (q quickPlace) make(session *Session) (*Entity, error) {
	return Build(session, ClassArea).Named(q.name).Into()
}

type quickRoute struct {
	name        string
	destination QuickThing
}

// QuickRoute builds a named Exit item leading to destination, which is
// itself built first.
func QuickRoute(name string, destination QuickThing) QuickThing {
	return quickRoute{name: name, destination: destination}
}

func (q quickRoute) make(session *Session) (*Entity, error) {
	area, err := q.destination.make(session)
	if err != nil {
		return nil, err
	}
	return Build(session, ClassExit).Named(q.name).LeadsTo(area).Into()
}

type quickActual struct{ entity *Entity }

// QuickActual wraps an already-built entity, for callers composing
// scenes out of a mix of fresh and existing entities.
func QuickActual(e *Entity) QuickThing { return quickActual{e} }

func (q quickActual) make(session *Session) (*Entity, error) { return q.entity, nil }

// MakeQuickThings builds every thing in order, returning their entities
// in the same order.
func MakeQuickThings(session *Session, things ...QuickThing) ([]*Entity, error) {
	out := make([]*Entity, 0, len(things))
	for _, t := range things {
		e, err := t.make(session)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}
