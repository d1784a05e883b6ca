package core

import (
	"encoding/json"
	"time"

	"github.com/hollowmere/kernel"
)

// EditAction offers a markdown working copy of an item's desc, with a
// Save template that round-trips through SaveQuickEditAction when the
// client submits its edit. Adapted from original_source's EditAction/
// QuickEdit pair: the original bundles name and desc into one
// separator-delimited blob, but this repo's EditorReply.Save contract
// (spec.md §8 scenario 5) instantiates its template with the new desc
// value directly, so the working copy here is desc alone rather than a
// combined name+desc document.
type EditAction struct{ Item hollowmere.Item }

func (EditAction) IsReadOnly() bool { return true }

func (a EditAction) Perform(session *hollowmere.Session, s hollowmere.Surroundings) (hollowmere.Effect, error) {
	editing, err := hollowmere.FindItem(session, s, a.Item)
	if err != nil {
		return hollowmere.NewEffectReply(hollowmere.SimpleReplyNotFound()), nil
	}

	template, err := json.Marshal(map[string]any{"key": editing.Key, "desc": jsonTemplateSentinelValue})
	if err != nil {
		return hollowmere.Effect{}, err
	}
	tagged, err := hollowmere.EncodeTagged(saveQuickEditKey, json.RawMessage(template))
	if err != nil {
		return hollowmere.Effect{}, err
	}
	wire, err := json.Marshal(tagged)
	if err != nil {
		return hollowmere.Effect{}, err
	}

	return hollowmere.NewEffectReply(hollowmere.EditorReply{
		Key:     editing.Key,
		Editing: hollowmere.WorkingCopyMarkdown(editing.Desc()),
		Save:    hollowmere.NewJsonTemplate(wire),
	}), nil
}

// SaveQuickEditAction writes a submitted desc back onto the named
// entity. Reached only via EditAction's JsonTemplate round trip, never
// parsed from free text (original_source's SaveQuickEditAction,
// narrowed to the single field its template actually carries).
type SaveQuickEditAction struct {
	Key  hollowmere.EntityKey `json:"key"`
	Desc string               `json:"desc"`
}

func (SaveQuickEditAction) IsReadOnly() bool { return false }

func (a SaveQuickEditAction) Perform(session *hollowmere.Session, _ hollowmere.Surroundings) (hollowmere.Effect, error) {
	target, err := session.Entity(hollowmere.ByKey(a.Key))
	if err != nil {
		return hollowmere.NewEffectReply(hollowmere.SimpleReplyNotFound()), nil
	}
	target.SetDesc(a.Desc)
	return hollowmere.NewEffectReply(hollowmere.SimpleReplyDone()), nil
}

const saveQuickEditKey = "core.saveQuickEdit"

// MakeItemAction builds a fresh Carryable item named Name, credited to
// the acting entity and placed directly into its hands (original_source's
// MakeItemAction). Built through EntityBuilder's fluent
// entity construction rather than a hand-rolled Entity{} literal, per
// the reasoning EntityBuilder was added for.
type MakeItemAction struct{ Name string }

func (MakeItemAction) IsReadOnly() bool { return false }

func (a MakeItemAction) Perform(session *hollowmere.Session, s hollowmere.Surroundings) (hollowmere.Effect, error) {
	item, err := hollowmere.Build(session, hollowmere.ClassItem).
		Named(a.Name).
		Creator(s.Actor).
		Into()
	if err != nil {
		return hollowmere.Effect{}, err
	}
	if err := hollowmere.ReplaceScope(item, hollowmere.Carryable{Kind: hollowmere.NewKind(string(item.Key)), Quantity: 1}); err != nil {
		return hollowmere.Effect{}, err
	}
	if err := attachToContainer(session, s.Actor, item); err != nil {
		return hollowmere.Effect{}, err
	}

	memory, err := hollowmere.ScopeMut[hollowmere.Memory](session, s.Actor)
	if err != nil {
		return hollowmere.Effect{}, err
	}
	event, err := json.Marshal(map[string]any{"key": item.Key, "gid": item.Gid, "name": item.Name()})
	if err != nil {
		return hollowmere.Effect{}, err
	}
	memory.Get().Remember(time.Now(), event)
	if err := memory.Save(); err != nil {
		return hollowmere.Effect{}, err
	}

	return hollowmere.NewEffectReply(hollowmere.SimpleReplyDone()), nil
}

// BidirectionalDigAction builds a new area and connects it to the
// actor's current area with two named exits, one in each direction, then
// moves the actor through the outgoing exit into the new area
// (original_source's BidirectionalDigAction). Grounded on
// EntityBuilder.LeadsTo/Occupying/Holding for the scope wiring
// `build_entity()...try_into()` does in the original, and on
// moving.go's navigate for the actual relocation.
type BidirectionalDigAction struct {
	Outgoing  string
	Returning string
	NewArea   string
}

func (BidirectionalDigAction) IsReadOnly() bool { return false }

func (a BidirectionalDigAction) Perform(session *hollowmere.Session, s hollowmere.Surroundings) (hollowmere.Effect, error) {
	newArea, err := hollowmere.Build(session, hollowmere.ClassArea).
		Named(a.NewArea).
		Described(a.NewArea).
		Occupying().
		Holding().
		Into()
	if err != nil {
		return hollowmere.Effect{}, err
	}

	if err := addRoute(session, s.Area, a.Outgoing, newArea); err != nil {
		return hollowmere.Effect{}, err
	}
	if err := addRoute(session, newArea, a.Returning, s.Area); err != nil {
		return hollowmere.Effect{}, err
	}

	if err := navigate(session, s.Actor, s.Area, newArea); err != nil {
		return hollowmere.Effect{}, err
	}

	if err := session.Raise(refPtr(hollowmere.RefOf(s.Actor)), hollowmere.AudienceArea(s.Area.Key),
		"moving.left", hollowmere.MovingLeft{Actor: hollowmere.RefOf(s.Actor), To: hollowmere.RefOf(newArea)}); err != nil {
		return hollowmere.Effect{}, err
	}

	hearingArrive, err := occupantsExcluding(session, newArea, s.Actor.Key)
	if err != nil {
		return hollowmere.Effect{}, err
	}
	if len(hearingArrive) > 0 {
		if err := session.Raise(refPtr(hollowmere.RefOf(s.Actor)), hollowmere.AudienceIndividuals(hearingArrive...),
			"moving.arrived", hollowmere.MovingArrived{Actor: hollowmere.RefOf(s.Actor), From: hollowmere.RefOf(s.Area)}); err != nil {
			return hollowmere.Effect{}, err
		}
	}

	newSurroundings := hollowmere.Surroundings{World: s.World, Actor: s.Actor, Area: newArea}
	return LookAction{}.Perform(session, newSurroundings)
}

// addRoute builds a named Exit in from leading to to and attaches it to
// from's Ground (original_source's tools::add_route).
func addRoute(session *hollowmere.Session, from *hollowmere.Entity, name string, to *hollowmere.Entity) error {
	exit, err := hollowmere.Build(session, hollowmere.ClassExit).Named(name).LeadsTo(to).Into()
	if err != nil {
		return err
	}
	ground, err := hollowmere.ScopeMut[hollowmere.Containing](session, from)
	if err != nil {
		return err
	}
	ground.Get().Add(hollowmere.RefOf(exit))
	return ground.Save()
}
