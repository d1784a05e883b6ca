// Package core is the baseline content pack: looking, moving, carrying,
// and fashion verbs every world needs regardless of theme. Grounded on
// original_source/plugins/core/src (looking, moving, carrying, fashion
// modules), reimplemented as hollowmere.Action/hollowmere.Plugin values
// instead of the original's trait-object action registry.
package core

import "github.com/hollowmere/kernel"

// LookAction reports everything visible from within the actor's area:
// its other occupants, the ground's items, what the actor itself
// carries, and the named routes leading out (original_source's
// looking/mod.rs LookAction).
type LookAction struct{}

func (LookAction) IsReadOnly() bool { return true }

func (LookAction) Perform(session *hollowmere.Session, s hollowmere.Surroundings) (hollowmere.Effect, error) {
	obs, err := observeArea(session, s)
	if err != nil {
		return hollowmere.Effect{}, err
	}
	return hollowmere.NewEffectReply(obs), nil
}

func observeArea(session *hollowmere.Session, s hollowmere.Surroundings) (hollowmere.AreaObservation, error) {
	ground, err := hollowmere.ScopeOf[hollowmere.Containing](s.Area)
	if err != nil {
		return hollowmere.AreaObservation{}, err
	}
	occ, err := hollowmere.ScopeOf[hollowmere.Occupyable](s.Area)
	if err != nil {
		return hollowmere.AreaObservation{}, err
	}
	holding, err := hollowmere.ScopeOf[hollowmere.Containing](s.Actor)
	if err != nil {
		return hollowmere.AreaObservation{}, err
	}

	obs := hollowmere.AreaObservation{
		Area:     hollowmere.RefOf(s.Area),
		Person:   hollowmere.RefOf(s.Actor),
		Carrying: holding.Holding,
	}
	for _, ref := range occ.Occupied {
		if ref.Key != s.Actor.Key {
			obs.Living = append(obs.Living, ref)
		}
	}
	for _, ref := range ground.Holding {
		entity, err := session.Entity(hollowmere.ByKey(ref.Key))
		if err == nil && entity.HasScope((hollowmere.Exit{}).ScopeKey()) {
			obs.Routes = append(obs.Routes, entity.Name())
			continue
		}
		obs.Items = append(obs.Items, ref)
	}
	return obs, nil
}

// LookAtAction examines a single named item or living entity, reporting
// its description and (for a living entity) what it wears.
type LookAtAction struct{ Target hollowmere.Item }

func (LookAtAction) IsReadOnly() bool { return true }

func (a LookAtAction) Perform(session *hollowmere.Session, s hollowmere.Surroundings) (hollowmere.Effect, error) {
	target, err := hollowmere.FindItem(session, s, a.Target)
	if err != nil {
		return hollowmere.NewEffectReply(hollowmere.SimpleReplyNotFound()), nil
	}
	obs := hollowmere.EntityObservation{Entity: hollowmere.RefOf(target)}
	if wearing, werr := hollowmere.ScopeOf[hollowmere.Wearing](target); werr == nil {
		obs.Wearing = wearing.Wearing
	}
	return hollowmere.NewEffectReply(obs), nil
}

// LookInsideAction examines the contents of a named container.
type LookInsideAction struct{ Target hollowmere.Item }

func (LookInsideAction) IsReadOnly() bool { return true }

func (a LookInsideAction) Perform(session *hollowmere.Session, s hollowmere.Surroundings) (hollowmere.Effect, error) {
	vessel, err := hollowmere.FindItem(session, s, a.Target)
	if err != nil {
		return hollowmere.NewEffectReply(hollowmere.SimpleReplyNotFound()), nil
	}
	containing, err := hollowmere.ScopeOf[hollowmere.Containing](vessel)
	if err != nil {
		return hollowmere.Effect{}, err
	}
	return hollowmere.NewEffectReply(hollowmere.InsideObservation{
		Vessel: hollowmere.RefOf(vessel),
		Items:  containing.Holding,
	}), nil
}
