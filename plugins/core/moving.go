package core

import "github.com/hollowmere/kernel"

// GoAction relocates the actor along a named route out of its current
// area, grounded on original_source/plugins/core/src/moving/actions.rs's
// GoAction: resolve the route, run CanMove, detach/attach the Occupying
// back-reference on both ends, raise Moving::Left to the old area and
// Moving::Arrived to the new area's other occupants, then fall through
// to a LookAction so the reply describes the actor's new surroundings.
type GoAction struct {
	Route hollowmere.Item
	hooks *hollowmere.HookRegistry
}

func (GoAction) IsReadOnly() bool { return false }

func (a GoAction) Perform(session *hollowmere.Session, s hollowmere.Surroundings) (hollowmere.Effect, error) {
	exit, err := hollowmere.FindItem(session, s, a.Route)
	if err != nil {
		return hollowmere.NewEffectReply(hollowmere.SimpleReplyNotFound()), nil
	}
	route, err := hollowmere.ScopeOf[hollowmere.Exit](exit)
	if err != nil {
		return hollowmere.Effect{}, err
	}
	if !route.IsActive() {
		reason := "that way is blocked"
		if route.Deactivated != nil {
			reason = *route.Deactivated
		}
		return hollowmere.NewEffectReply(hollowmere.SimpleReplyPrevented(reason)), nil
	}
	destination, err := session.Entity(hollowmere.ByKey(route.Area.Key))
	if err != nil {
		return hollowmere.Effect{}, err
	}

	if a.hooks != nil {
		outcome := a.hooks.CanMove().Run(hollowmere.CanMoveInput{
			Actor: s.Actor,
			From:  hollowmere.RefOf(s.Area),
			To:    hollowmere.RefOf(destination),
		})
		if outcome == hollowmere.MovePrevent {
			return hollowmere.NewEffectReply(hollowmere.SimpleReplyImpossible("something prevents you from leaving")), nil
		}
	}

	if err := navigate(session, s.Actor, s.Area, destination); err != nil {
		return hollowmere.Effect{}, err
	}

	if err := session.Raise(refPtr(hollowmere.RefOf(s.Actor)), hollowmere.AudienceArea(s.Area.Key),
		"moving.left", hollowmere.MovingLeft{Actor: hollowmere.RefOf(s.Actor), To: hollowmere.RefOf(destination)}); err != nil {
		return hollowmere.Effect{}, err
	}

	hearingArrive, err := occupantsExcluding(session, destination, s.Actor.Key)
	if err != nil {
		return hollowmere.Effect{}, err
	}
	if len(hearingArrive) > 0 {
		if err := session.Raise(refPtr(hollowmere.RefOf(s.Actor)), hollowmere.AudienceIndividuals(hearingArrive...),
			"moving.arrived", hollowmere.MovingArrived{Actor: hollowmere.RefOf(s.Actor), From: hollowmere.RefOf(s.Area)}); err != nil {
			return hollowmere.Effect{}, err
		}
	}

	newSurroundings := hollowmere.Surroundings{World: s.World, Actor: s.Actor, Area: destination}
	return LookAction{}.Perform(session, newSurroundings)
}

// navigate detaches actor from from and attaches it to to, maintaining
// both halves of the Occupying/Occupyable relationship (spec invariant
// 6's single-parent containment).
func navigate(session *hollowmere.Session, actor, from, to *hollowmere.Entity) error {
	fromOcc, err := hollowmere.ScopeMut[hollowmere.Occupyable](session, from)
	if err != nil {
		return err
	}
	fromOcc.Get().RemoveOccupant(actor.Key)
	if err := fromOcc.Save(); err != nil {
		return err
	}

	toOcc, err := hollowmere.ScopeMut[hollowmere.Occupyable](session, to)
	if err != nil {
		return err
	}
	toOcc.Get().AddOccupant(hollowmere.RefOf(actor))
	if err := toOcc.Save(); err != nil {
		return err
	}

	actorOccupying, err := hollowmere.ScopeMut[hollowmere.Occupying](session, actor)
	if err != nil {
		return err
	}
	actorOccupying.Get().Area = hollowmere.RefOf(to)
	return actorOccupying.Save()
}

func occupantsExcluding(session *hollowmere.Session, area *hollowmere.Entity, exclude hollowmere.EntityKey) ([]hollowmere.EntityKey, error) {
	occ, err := hollowmere.ScopeOf[hollowmere.Occupyable](area)
	if err != nil {
		return nil, err
	}
	out := make([]hollowmere.EntityKey, 0, len(occ.Occupied))
	for _, ref := range occ.Occupied {
		if ref.Key != exclude {
			out = append(out, ref.Key)
		}
	}
	return out, nil
}

func refPtr(r hollowmere.EntityRef) *hollowmere.EntityRef { return &r }
