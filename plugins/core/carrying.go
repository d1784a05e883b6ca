package core

import "github.com/hollowmere/kernel"

// HoldAction moves an item from the ground (or another container) into
// the actor's Holding, combining quantities if a Carryable of the same
// Kind is already held (original_source/plugins/core/src/carrying/
// mod.rs's start_carrying / combine-on-pickup behavior).
type HoldAction struct {
	Item  hollowmere.Item
	hooks *hollowmere.HookRegistry
}

func (HoldAction) IsReadOnly() bool { return false }

func (a HoldAction) Perform(session *hollowmere.Session, s hollowmere.Surroundings) (hollowmere.Effect, error) {
	item, err := hollowmere.FindItem(session, s, a.Item)
	if err != nil {
		return hollowmere.NewEffectReply(hollowmere.SimpleReplyNotFound()), nil
	}
	if item.Key == s.Actor.Key || item.Key == s.Area.Key {
		return hollowmere.NewEffectReply(hollowmere.SimpleReplyImpossible("you can't hold that")), nil
	}

	if a.hooks != nil {
		outcome := a.hooks.CanCarry().Run(hollowmere.CanCarryInput{Actor: s.Actor, Container: s.Actor, Item: item})
		if outcome == hollowmere.MovePrevent {
			return hollowmere.NewEffectReply(hollowmere.SimpleReplyImpossible("you can't carry that")), nil
		}
	}

	if err := detachFromCurrentLocation(session, item); err != nil {
		return hollowmere.Effect{}, err
	}
	if err := attachToContainer(session, s.Actor, item); err != nil {
		return hollowmere.Effect{}, err
	}

	if err := session.Raise(refPtr(hollowmere.RefOf(s.Actor)), hollowmere.AudienceArea(s.Area.Key),
		"carrying.held", hollowmere.CarryingHeld{Actor: hollowmere.RefOf(s.Actor), Item: hollowmere.RefOf(item)}); err != nil {
		return hollowmere.Effect{}, err
	}
	return hollowmere.NewEffectReply(hollowmere.SimpleReplyDone()), nil
}

// DropAction moves an item out of the actor's Holding and onto the
// ground (original_source's stop_carrying).
type DropAction struct {
	Item  hollowmere.Item
	hooks *hollowmere.HookRegistry
}

func (DropAction) IsReadOnly() bool { return false }

func (a DropAction) Perform(session *hollowmere.Session, s hollowmere.Surroundings) (hollowmere.Effect, error) {
	item, err := hollowmere.FindItem(session, s, a.Item)
	if err != nil {
		return hollowmere.NewEffectReply(hollowmere.SimpleReplyNotFound()), nil
	}
	location, err := hollowmere.ScopeOf[hollowmere.Location](item)
	if err != nil {
		return hollowmere.Effect{}, err
	}
	if location.Container == nil || location.Container.Key != s.Actor.Key {
		return hollowmere.NewEffectReply(hollowmere.SimpleReplyImpossible("you aren't holding that")), nil
	}

	if err := detachFromCurrentLocation(session, item); err != nil {
		return hollowmere.Effect{}, err
	}
	if err := attachToContainer(session, s.Area, item); err != nil {
		return hollowmere.Effect{}, err
	}

	if err := session.Raise(refPtr(hollowmere.RefOf(s.Actor)), hollowmere.AudienceArea(s.Area.Key),
		"carrying.dropped", hollowmere.CarryingDropped{Actor: hollowmere.RefOf(s.Actor), Item: hollowmere.RefOf(item)}); err != nil {
		return hollowmere.Effect{}, err
	}
	return hollowmere.NewEffectReply(hollowmere.SimpleReplyDone()), nil
}

// detachFromCurrentLocation removes item from whichever container's
// Holding currently lists it, and clears item's Location back-reference.
// A no-op if item has no current container (e.g. it was lying loose on
// the ground with no Location set, which the builder always avoids but
// hand-authored content might not).
func detachFromCurrentLocation(session *hollowmere.Session, item *hollowmere.Entity) error {
	location, err := hollowmere.ScopeOf[hollowmere.Location](item)
	if err != nil {
		return err
	}
	if location.Container != nil {
		container, err := session.Entity(hollowmere.ByKey(location.Container.Key))
		if err != nil {
			return err
		}
		containing, err := hollowmere.ScopeMut[hollowmere.Containing](session, container)
		if err != nil {
			return err
		}
		containing.Get().Remove(item.Key)
		if err := containing.Save(); err != nil {
			return err
		}
	}
	loc, err := hollowmere.ScopeMut[hollowmere.Location](session, item)
	if err != nil {
		return err
	}
	loc.Get().Container = nil
	return loc.Save()
}

// attachToContainer combines item into an existing same-Kind Carryable
// already held by container when possible, otherwise adds item outright
// and sets its Location back-reference (spec invariant 7).
func attachToContainer(session *hollowmere.Session, container, item *hollowmere.Entity) error {
	itemCarryable, err := hollowmere.ScopeOf[hollowmere.Carryable](item)
	hasCarryable := err == nil && item.HasScope((hollowmere.Carryable{}).ScopeKey())

	if hasCarryable {
		if existing := findCombinable(session, container, itemCarryable.Kind, item.Key); existing != nil {
			existingCarryable, err := hollowmere.ScopeMut[hollowmere.Carryable](session, existing)
			if err != nil {
				return err
			}
			if err := existingCarryable.Get().IncreaseQuantity(itemCarryable.Quantity); err != nil {
				return err
			}
			if err := existingCarryable.Save(); err != nil {
				return err
			}
			item.Destroy()
			return nil
		}
	}

	containing, err := hollowmere.ScopeMut[hollowmere.Containing](session, container)
	if err != nil {
		return err
	}
	containing.Get().Add(hollowmere.RefOf(item))
	if err := containing.Save(); err != nil {
		return err
	}
	self := hollowmere.RefOf(container)
	loc, err := hollowmere.ScopeMut[hollowmere.Location](session, item)
	if err != nil {
		return err
	}
	loc.Get().Container = &self
	return loc.Save()
}

// findCombinable scans container's current Holding for a Carryable of
// kind other than exclude, returning the first match.
func findCombinable(session *hollowmere.Session, container *hollowmere.Entity, kind hollowmere.Kind, exclude hollowmere.EntityKey) *hollowmere.Entity {
	containing, err := hollowmere.ScopeOf[hollowmere.Containing](container)
	if err != nil {
		return nil
	}
	for _, ref := range containing.Holding {
		if ref.Key == exclude {
			continue
		}
		candidate, err := session.Entity(hollowmere.ByKey(ref.Key))
		if err != nil {
			continue
		}
		carryable, err := hollowmere.ScopeOf[hollowmere.Carryable](candidate)
		if err != nil || !candidate.HasScope((hollowmere.Carryable{}).ScopeKey()) {
			continue
		}
		if carryable.SameKind(hollowmere.Carryable{Kind: kind}) {
			return candidate
		}
	}
	return nil
}
