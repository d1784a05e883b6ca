package core

import "github.com/hollowmere/kernel"

// WearAction moves a held item into the actor's Wearing set, grounded on
// original_source/plugins/core/src/fashion/mod.rs's WearAction: the item
// must already be held, and CanWear gets a veto before the swap happens.
type WearAction struct {
	Item  hollowmere.Item
	hooks *hollowmere.HookRegistry
}

func (WearAction) IsReadOnly() bool { return false }

func (a WearAction) Perform(session *hollowmere.Session, s hollowmere.Surroundings) (hollowmere.Effect, error) {
	item, err := hollowmere.FindItem(session, s, a.Item)
	if err != nil {
		return hollowmere.NewEffectReply(hollowmere.SimpleReplyNotFound()), nil
	}
	if !item.HasScope((hollowmere.Wearable{}).ScopeKey()) {
		return hollowmere.NewEffectReply(hollowmere.SimpleReplyImpossible("that can't be worn")), nil
	}
	location, err := hollowmere.ScopeOf[hollowmere.Location](item)
	if err != nil {
		return hollowmere.Effect{}, err
	}
	if location.Container == nil || location.Container.Key != s.Actor.Key {
		return hollowmere.NewEffectReply(hollowmere.SimpleReplyImpossible("you aren't holding that")), nil
	}

	if a.hooks != nil {
		outcome := a.hooks.CanWear().Run(hollowmere.CanWearInput{Actor: s.Actor, Item: item})
		if outcome == hollowmere.MovePrevent {
			return hollowmere.NewEffectReply(hollowmere.SimpleReplyImpossible("you can't wear that")), nil
		}
	}

	containing, err := hollowmere.ScopeMut[hollowmere.Containing](session, s.Actor)
	if err != nil {
		return hollowmere.Effect{}, err
	}
	containing.Get().Remove(item.Key)
	if err := containing.Save(); err != nil {
		return hollowmere.Effect{}, err
	}
	loc, err := hollowmere.ScopeMut[hollowmere.Location](session, item)
	if err != nil {
		return hollowmere.Effect{}, err
	}
	loc.Get().Container = nil
	if err := loc.Save(); err != nil {
		return hollowmere.Effect{}, err
	}

	wearing, err := hollowmere.ScopeMut[hollowmere.Wearing](session, s.Actor)
	if err != nil {
		return hollowmere.Effect{}, err
	}
	wearing.Get().AddWorn(hollowmere.RefOf(item))
	if err := wearing.Save(); err != nil {
		return hollowmere.Effect{}, err
	}

	if err := session.Raise(refPtr(hollowmere.RefOf(s.Actor)), hollowmere.AudienceArea(s.Area.Key),
		"fashion.worn", hollowmere.FashionWorn{Actor: hollowmere.RefOf(s.Actor), Item: hollowmere.RefOf(item)}); err != nil {
		return hollowmere.Effect{}, err
	}
	return hollowmere.NewEffectReply(hollowmere.SimpleReplyDone()), nil
}

// RemoveAction moves a worn item back into the actor's Holding.
type RemoveAction struct{ Item hollowmere.Item }

func (RemoveAction) IsReadOnly() bool { return false }

func (a RemoveAction) Perform(session *hollowmere.Session, s hollowmere.Surroundings) (hollowmere.Effect, error) {
	item, err := hollowmere.FindItem(session, s, a.Item)
	if err != nil {
		return hollowmere.NewEffectReply(hollowmere.SimpleReplyNotFound()), nil
	}
	wearing, err := hollowmere.ScopeMut[hollowmere.Wearing](session, s.Actor)
	if err != nil {
		return hollowmere.Effect{}, err
	}
	if !wearing.Get().IsWearing(item.Key) {
		wearing.Close()
		return hollowmere.NewEffectReply(hollowmere.SimpleReplyImpossible("you aren't wearing that")), nil
	}
	wearing.Get().RemoveWorn(item.Key)
	if err := wearing.Save(); err != nil {
		return hollowmere.Effect{}, err
	}

	if err := attachToContainer(session, s.Actor, item); err != nil {
		return hollowmere.Effect{}, err
	}

	if err := session.Raise(refPtr(hollowmere.RefOf(s.Actor)), hollowmere.AudienceArea(s.Area.Key),
		"fashion.removed", hollowmere.FashionRemoved{Actor: hollowmere.RefOf(s.Actor), Item: hollowmere.RefOf(item)}); err != nil {
		return hollowmere.Effect{}, err
	}
	return hollowmere.NewEffectReply(hollowmere.SimpleReplyDone()), nil
}
