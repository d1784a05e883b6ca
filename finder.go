package hollowmere

import "strings"

// Item is the reference grammar an actor's command text resolves to a
// concrete entity through (spec.md §4.5). Exactly one constructor
// below produces a given Item; FindItem dispatches on Variant().
type Item struct{ variant itemVariant }

type itemVariant interface{ isItemVariant() }

// Variant returns the concrete payload, for use in FindItem's dispatch.
func (i Item) Variant() any { return i.variant }

type itemArea struct{}

func (itemArea) isItemVariant() {}

// ItemArea refers to the containing area.
func ItemArea() Item { return Item{itemArea{}} }

type itemMyself struct{}

func (itemMyself) isItemVariant() {}

// ItemMyself refers to the acting entity itself.
func ItemMyself() Item { return Item{itemMyself{}} }

type itemNamed struct{ name string }

func (itemNamed) isItemVariant() {}

// ItemNamed refers to whatever case-insensitively substring-matches name.
func ItemNamed(name string) Item { return Item{itemNamed{name: name}} }

type itemRoute struct{ name string }

func (itemRoute) isItemVariant() {}

// ItemRoute refers to a named route out of the area.
func ItemRoute(name string) Item { return Item{itemRoute{name: name}} }

type itemGid struct{ gid EntityGid }

func (itemGid) isItemVariant() {}

// ItemGid refers to the entity with the given global id, exactly.
func ItemGid(gid EntityGid) Item { return Item{itemGid{gid: gid}} }

type itemContained struct{ inner *Item }

func (itemContained) isItemVariant() {}

// ItemContained refers to inner, found one level inside some container.
func ItemContained(inner Item) Item { return Item{itemContained{inner: &inner}} }

type itemHeld struct{ inner *Item }

func (itemHeld) isItemVariant() {}

// ItemHeld refers to inner, found among the actor's held items.
func ItemHeld(inner Item) Item { return Item{itemHeld{inner: &inner}} }

// relationshipSet is the expanded candidate pool FindItem searches,
// built by expand() from a Living triple (spec.md §4.5).
type relationshipSet struct {
	world, actor, area *Entity
	holding            []*Entity // actor's Containing.Holding, resolved
	ground             []*Entity // area's Containing.Holding, resolved
	contained          []*Entity // one level inside ground/holding items
	occupying          []*Entity // living entities occupying the area
	wearing            []*Entity // actor's worn items
}

// entityResolver is the minimal surface expand()/FindItem need to turn
// an EntityRef into a live Entity; Session implements it.
type entityResolver interface {
	Entity(by LookupBy) (*Entity, error)
}

func resolveRefs(r entityResolver, refs []EntityRef) []*Entity {
	out := make([]*Entity, 0, len(refs))
	for _, ref := range refs {
		e, err := r.Entity(ByKey(ref.Key))
		if err == nil && e != nil {
			out = append(out, e)
		}
	}
	return out
}

// expand builds the relationship set starting from {World, Area, Actor}
// per spec.md §4.5: Holding, Ground, Contained (one level deeper),
// Occupying, Wearing.
func expand(r entityResolver, s Surroundings) relationshipSet {
	rs := relationshipSet{world: s.World, actor: s.Actor, area: s.Area}

	if containing, err := ScopeOf[Containing](s.Actor); err == nil {
		rs.holding = resolveRefs(r, containing.Holding)
	}
	if containing, err := ScopeOf[Containing](s.Area); err == nil {
		rs.ground = resolveRefs(r, containing.Holding)
	}
	for _, group := range [][]*Entity{rs.holding, rs.ground} {
		for _, e := range group {
			if inner, err := ScopeOf[Containing](e); err == nil {
				rs.contained = append(rs.contained, resolveRefs(r, inner.Holding)...)
			}
		}
	}
	if occ, err := ScopeOf[Occupyable](s.Area); err == nil {
		rs.occupying = resolveRefs(r, occ.Occupied)
	}
	if wearing, err := ScopeOf[Wearing](s.Actor); err == nil {
		rs.wearing = resolveRefs(r, wearing.Wearing)
	}
	return rs
}

// namedRoute pairs a route name with the Exit-bearing entity; routes()
// treats any Ground item bearing an Exit scope as a named route
// (spec.md §4.5).
type namedRoute struct {
	name string
	exit *Entity
}

func routes(rs relationshipSet) []namedRoute {
	var out []namedRoute
	for _, e := range rs.ground {
		if e.HasScope((Exit{}).ScopeKey()) {
			out = append(out, namedRoute{name: e.Name(), exit: e})
		}
	}
	return out
}

func containsByName(e *Entity, substr string) bool {
	return strings.Contains(strings.ToLower(e.Name()), strings.ToLower(substr))
}

func firstByName(entities []*Entity, name string) *Entity {
	for _, e := range entities {
		if containsByName(e, name) {
			return e
		}
	}
	return nil
}

// findItem walks the expanded relationship set in the priority order
// spec.md §4.5 names per variant. First match wins.
func findItem(r entityResolver, s Surroundings, item Item) (*Entity, error) {
	rs := expand(r, s)

	switch v := item.Variant().(type) {
	case itemArea:
		return s.Area, nil

	case itemMyself:
		return s.Actor, nil

	case itemGid:
		for _, group := range [][]*Entity{rs.holding, rs.ground, rs.contained, rs.occupying, rs.wearing, {s.Actor, s.Area}} {
			for _, e := range group {
				if e.Gid == v.gid {
					return e, nil
				}
			}
		}
		return nil, ErrEntityNotFound

	case itemRoute:
		for _, rt := range routes(rs) {
			if strings.EqualFold(rt.name, v.name) {
				return rt.exit, nil
			}
		}
		return nil, ErrEntityNotFound

	case itemHeld:
		innerName, ok := itemName(*v.inner)
		if !ok {
			return nil, ErrEntityNotFound
		}
		if found := firstByName(rs.holding, innerName); found != nil {
			return found, nil
		}
		return nil, ErrEntityNotFound

	case itemNamed:
		for _, group := range [][]*Entity{rs.contained, rs.ground, rs.holding, rs.wearing, rs.occupying} {
			if found := firstByName(group, v.name); found != nil {
				return found, nil
			}
		}
		return nil, ErrEntityNotFound

	case itemContained:
		innerName, ok := itemName(*v.inner)
		if !ok {
			return nil, ErrEntityNotFound
		}
		if found := firstByName(rs.contained, innerName); found != nil {
			return found, nil
		}
		return nil, ErrEntityNotFound

	default:
		return nil, ErrEntityNotFound
	}
}

// FindItem resolves item against surroundings, using session to follow
// EntityRefs encountered along the way. This is the entry point plugins
// use to turn parsed command grammar into a concrete entity (spec.md
// §4.5).
func FindItem(session *Session, surroundings Surroundings, item Item) (*Entity, error) {
	return findItem(session, surroundings, item)
}

// itemName extracts the substring/name carried by item, if it is a
// variant that names one (Named/Route); used by Held/Contained to
// recurse per spec.md's "Contained(x) first expands, then recurses
// with x."
func itemName(item Item) (string, bool) {
	switch v := item.Variant().(type) {
	case itemNamed:
		return v.name, true
	case itemRoute:
		return v.name, true
	}
	return "", false
}
