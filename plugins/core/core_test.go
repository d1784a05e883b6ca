package core_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hollowmere/kernel"
	"github.com/hollowmere/kernel/plugins/core"
	"github.com/hollowmere/kernel/storage/memstore"
)

func newDomain(t *testing.T) *hollowmere.Domain {
	t.Helper()
	d, err := hollowmere.NewDomain(context.Background(), memstore.New(), hollowmere.WithPlugins(core.New()))
	require.NoError(t, err)
	return d
}

func TestLookInEmptyArea(t *testing.T) {
	d := newDomain(t)
	session, err := d.OpenSession(context.Background())
	require.NoError(t, err)

	area, err := hollowmere.Build(session, hollowmere.ClassArea).Named("clearing").Into()
	require.NoError(t, err)
	actor, err := hollowmere.Build(session, hollowmere.ClassLiving).Named("Arin").Into()
	require.NoError(t, err)
	require.NoError(t, hollowmere.ReplaceScope(actor, hollowmere.Occupying{Area: hollowmere.RefOf(area)}))
	require.NoError(t, hollowmere.ReplaceScope(area, hollowmere.Occupyable{Occupied: []hollowmere.EntityRef{hollowmere.RefOf(actor)}}))

	effect, ok, err := session.EvaluateAndPerformAs(hollowmere.EvaluateAsKey(actor.Key), "look")
	require.NoError(t, err)
	require.True(t, ok)

	reply, hasReply := effect.Reply()
	require.True(t, hasReply)
	obs, isObs := reply.(hollowmere.AreaObservation)
	require.True(t, isObs)
	require.Empty(t, obs.Items)
	require.Empty(t, obs.Living)
	require.Empty(t, obs.Routes)

	require.NoError(t, session.Close(context.Background()))
}

func TestHoldAndDropRoundTrip(t *testing.T) {
	d := newDomain(t)
	session, err := d.OpenSession(context.Background())
	require.NoError(t, err)

	area, err := hollowmere.Build(session, hollowmere.ClassArea).Named("clearing").Into()
	require.NoError(t, err)
	actor, err := hollowmere.Build(session, hollowmere.ClassLiving).Named("Arin").Into()
	require.NoError(t, err)
	item, err := hollowmere.Build(session, hollowmere.ClassItem).Named("stick").Into()
	require.NoError(t, err)

	require.NoError(t, hollowmere.ReplaceScope(actor, hollowmere.Occupying{Area: hollowmere.RefOf(area)}))
	require.NoError(t, hollowmere.ReplaceScope(area, hollowmere.Occupyable{Occupied: []hollowmere.EntityRef{hollowmere.RefOf(actor)}}))
	self := hollowmere.RefOf(area)
	require.NoError(t, hollowmere.ReplaceScope(item, hollowmere.Location{Container: &self}))
	require.NoError(t, hollowmere.ReplaceScope(area, hollowmere.Containing{Holding: []hollowmere.EntityRef{hollowmere.RefOf(item)}}))

	effect, ok, err := session.EvaluateAndPerformAs(hollowmere.EvaluateAsKey(actor.Key), "take stick")
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, effect.IsOk())

	holding, err := hollowmere.ScopeOf[hollowmere.Containing](actor)
	require.NoError(t, err)
	require.True(t, holding.IsHolding(item.Key))

	ground, err := hollowmere.ScopeOf[hollowmere.Containing](area)
	require.NoError(t, err)
	require.False(t, ground.IsHolding(item.Key))

	effect, ok, err = session.EvaluateAndPerformAs(hollowmere.EvaluateAsKey(actor.Key), "drop stick")
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, effect.IsOk())

	holding, err = hollowmere.ScopeOf[hollowmere.Containing](actor)
	require.NoError(t, err)
	require.False(t, holding.IsHolding(item.Key))

	ground, err = hollowmere.ScopeOf[hollowmere.Containing](area)
	require.NoError(t, err)
	require.True(t, ground.IsHolding(item.Key))

	require.NoError(t, session.Close(context.Background()))
}

func TestFungibleCombineOnPickup(t *testing.T) {
	d := newDomain(t)
	session, err := d.OpenSession(context.Background())
	require.NoError(t, err)

	area, err := hollowmere.Build(session, hollowmere.ClassArea).Named("clearing").Into()
	require.NoError(t, err)
	actor, err := hollowmere.Build(session, hollowmere.ClassLiving).Named("Arin").Into()
	require.NoError(t, err)
	require.NoError(t, hollowmere.ReplaceScope(actor, hollowmere.Occupying{Area: hollowmere.RefOf(area)}))
	require.NoError(t, hollowmere.ReplaceScope(area, hollowmere.Occupyable{Occupied: []hollowmere.EntityRef{hollowmere.RefOf(actor)}}))

	kind := hollowmere.NewKind("coin")

	held, err := hollowmere.Build(session, hollowmere.ClassItem).Named("coin").Into()
	require.NoError(t, err)
	require.NoError(t, hollowmere.ReplaceScope(held, hollowmere.Carryable{Kind: kind, Quantity: 3}))
	selfActor := hollowmere.RefOf(actor)
	require.NoError(t, hollowmere.ReplaceScope(held, hollowmere.Location{Container: &selfActor}))
	require.NoError(t, hollowmere.ReplaceScope(actor, hollowmere.Containing{Holding: []hollowmere.EntityRef{hollowmere.RefOf(held)}}))

	ground, err := hollowmere.Build(session, hollowmere.ClassItem).Named("coin").Into()
	require.NoError(t, err)
	require.NoError(t, hollowmere.ReplaceScope(ground, hollowmere.Carryable{Kind: kind, Quantity: 2}))
	selfArea := hollowmere.RefOf(area)
	require.NoError(t, hollowmere.ReplaceScope(ground, hollowmere.Location{Container: &selfArea}))
	require.NoError(t, hollowmere.ReplaceScope(area, hollowmere.Containing{Holding: []hollowmere.EntityRef{hollowmere.RefOf(ground)}}))

	effect, ok, err := session.EvaluateAndPerformAs(hollowmere.EvaluateAsKey(actor.Key), "take coin")
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, effect.IsOk())

	holding, err := hollowmere.ScopeOf[hollowmere.Containing](actor)
	require.NoError(t, err)
	require.Len(t, holding.Holding, 1)

	combined, err := hollowmere.ScopeOf[hollowmere.Carryable](held)
	require.NoError(t, err)
	require.Equal(t, float32(5), combined.Quantity)

	require.NoError(t, session.Close(context.Background()))
}

func TestBidirectionalGo(t *testing.T) {
	d := newDomain(t)
	session, err := d.OpenSession(context.Background())
	require.NoError(t, err)

	start, err := hollowmere.Build(session, hollowmere.ClassArea).Named("start").Into()
	require.NoError(t, err)
	clearing, err := hollowmere.Build(session, hollowmere.ClassArea).Named("clearing").Into()
	require.NoError(t, err)
	actor, err := hollowmere.Build(session, hollowmere.ClassLiving).Named("Arin").Into()
	require.NoError(t, err)

	north, err := hollowmere.Build(session, hollowmere.ClassExit).Named("north").LeadsTo(clearing).Into()
	require.NoError(t, err)
	south, err := hollowmere.Build(session, hollowmere.ClassExit).Named("south").LeadsTo(start).Into()
	require.NoError(t, err)

	require.NoError(t, hollowmere.ReplaceScope(start, hollowmere.Containing{Holding: []hollowmere.EntityRef{hollowmere.RefOf(north)}}))
	require.NoError(t, hollowmere.ReplaceScope(clearing, hollowmere.Containing{Holding: []hollowmere.EntityRef{hollowmere.RefOf(south)}}))

	require.NoError(t, hollowmere.ReplaceScope(actor, hollowmere.Occupying{Area: hollowmere.RefOf(start)}))
	require.NoError(t, hollowmere.ReplaceScope(start, hollowmere.Occupyable{Occupied: []hollowmere.EntityRef{hollowmere.RefOf(actor)}}))

	effect, ok, err := session.EvaluateAndPerformAs(hollowmere.EvaluateAsKey(actor.Key), "go north")
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, effect.IsOk())

	occupying, err := hollowmere.ScopeOf[hollowmere.Occupying](actor)
	require.NoError(t, err)
	require.Equal(t, clearing.Key, occupying.Area.Key)

	effect, ok, err = session.EvaluateAndPerformAs(hollowmere.EvaluateAsKey(actor.Key), "go south")
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, effect.IsOk())

	occupying, err = hollowmere.ScopeOf[hollowmere.Occupying](actor)
	require.NoError(t, err)
	require.Equal(t, start.Key, occupying.Area.Key)

	require.NoError(t, session.Close(context.Background()))
}

func TestBidirectionalDig(t *testing.T) {
	d := newDomain(t)
	session, err := d.OpenSession(context.Background())
	require.NoError(t, err)

	start, err := hollowmere.Build(session, hollowmere.ClassArea).Named("start").Into()
	require.NoError(t, err)
	actor, err := hollowmere.Build(session, hollowmere.ClassLiving).Named("Arin").Into()
	require.NoError(t, err)
	require.NoError(t, hollowmere.ReplaceScope(actor, hollowmere.Occupying{Area: hollowmere.RefOf(start)}))
	require.NoError(t, hollowmere.ReplaceScope(start, hollowmere.Occupyable{Occupied: []hollowmere.EntityRef{hollowmere.RefOf(actor)}}))
	require.NoError(t, hollowmere.ReplaceScope(start, hollowmere.Containing{}))

	effect, ok, err := session.EvaluateAndPerformAs(hollowmere.EvaluateAsKey(actor.Key),
		`@dig "North Exit" to "South Exit" for "New Area"`)
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, effect.IsOk())

	occupying, err := hollowmere.ScopeOf[hollowmere.Occupying](actor)
	require.NoError(t, err)
	require.NotEqual(t, start.Key, occupying.Area.Key)

	newArea, err := session.Entity(hollowmere.ByKey(occupying.Area.Key))
	require.NoError(t, err)
	require.Equal(t, "New Area", newArea.Name())

	startGround, err := hollowmere.ScopeOf[hollowmere.Containing](start)
	require.NoError(t, err)
	require.Len(t, startGround.Holding, 1)
	outgoing, err := session.Entity(hollowmere.ByKey(startGround.Holding[0].Key))
	require.NoError(t, err)
	require.Equal(t, "North Exit", outgoing.Name())
	outgoingExit, err := hollowmere.ScopeOf[hollowmere.Exit](outgoing)
	require.NoError(t, err)
	require.Equal(t, newArea.Key, outgoingExit.Area.Key)

	newGround, err := hollowmere.ScopeOf[hollowmere.Containing](newArea)
	require.NoError(t, err)
	require.Len(t, newGround.Holding, 1)
	returning, err := session.Entity(hollowmere.ByKey(newGround.Holding[0].Key))
	require.NoError(t, err)
	require.Equal(t, "South Exit", returning.Name())
	returningExit, err := hollowmere.ScopeOf[hollowmere.Exit](returning)
	require.NoError(t, err)
	require.Equal(t, start.Key, returningExit.Area.Key)

	effect, ok, err = session.EvaluateAndPerformAs(hollowmere.EvaluateAsKey(actor.Key), "go South Exit")
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, effect.IsOk())

	occupying, err = hollowmere.ScopeOf[hollowmere.Occupying](actor)
	require.NoError(t, err)
	require.Equal(t, start.Key, occupying.Area.Key)

	require.NoError(t, session.Close(context.Background()))
}

func TestEditActionSaveRoundTripSetsDesc(t *testing.T) {
	d := newDomain(t)
	session, err := d.OpenSession(context.Background())
	require.NoError(t, err)

	area, err := hollowmere.Build(session, hollowmere.ClassArea).Named("clearing").Into()
	require.NoError(t, err)
	actor, err := hollowmere.Build(session, hollowmere.ClassLiving).Named("Arin").Into()
	require.NoError(t, err)
	require.NoError(t, hollowmere.ReplaceScope(actor, hollowmere.Occupying{Area: hollowmere.RefOf(area)}))
	require.NoError(t, hollowmere.ReplaceScope(area, hollowmere.Occupyable{Occupied: []hollowmere.EntityRef{hollowmere.RefOf(actor)}}))
	item, err := hollowmere.Build(session, hollowmere.ClassItem).Named("stick").Described("a plain stick").Into()
	require.NoError(t, err)
	self := hollowmere.RefOf(area)
	require.NoError(t, hollowmere.ReplaceScope(item, hollowmere.Location{Container: &self}))
	require.NoError(t, hollowmere.ReplaceScope(area, hollowmere.Containing{Holding: []hollowmere.EntityRef{hollowmere.RefOf(item)}}))

	effect, ok, err := session.EvaluateAndPerformAs(hollowmere.EvaluateAsKey(actor.Key), "edit stick")
	require.NoError(t, err)
	require.True(t, ok)

	reply, hasReply := effect.Reply()
	require.True(t, hasReply)
	editor, isEditor := reply.(hollowmere.EditorReply)
	require.True(t, isEditor)

	wire, err := editor.Save.Instantiate("new desc")
	require.NoError(t, err)

	var tagged hollowmere.TaggedJSON
	require.NoError(t, json.Unmarshal(wire, &tagged))

	host := hollowmere.NewPluginHost(core.New())
	require.NoError(t, host.Initialize(session, hollowmere.NewHookRegistry()))
	action, ok := host.TryDeserializeAction(tagged)
	require.True(t, ok)
	save, isSave := action.(core.SaveQuickEditAction)
	require.True(t, isSave)
	require.Equal(t, "new desc", save.Desc)

	_, err = session.Perform(hollowmere.NewPerformActor(actor, save))
	require.NoError(t, err)

	require.Equal(t, "new desc", item.Desc())

	require.NoError(t, session.Close(context.Background()))
}
