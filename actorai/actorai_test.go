package actorai_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hollowmere/kernel"
	"github.com/hollowmere/kernel/actorai"
	"github.com/hollowmere/kernel/storage/memstore"
)

func TestThinkScheduleSeedsAndReschedulesOnTick(t *testing.T) {
	ctx := context.Background()
	plugin := actorai.New(actorai.Config{})

	store := memstore.New()
	domain, err := hollowmere.NewDomain(ctx, store, hollowmere.WithPlugins(plugin))
	require.NoError(t, err)
	plugin.Bind(domain)
	defer plugin.Shutdown()

	session, err := domain.OpenSession(ctx)
	require.NoError(t, err)
	area, err := hollowmere.Build(session, hollowmere.ClassArea).Named("clearing").Into()
	require.NoError(t, err)
	npc, err := hollowmere.Build(session, hollowmere.ClassLiving).Named("Wisp").Into()
	require.NoError(t, err)
	require.NoError(t, hollowmere.ReplaceScope(npc, hollowmere.Occupying{Area: hollowmere.RefOf(area)}))
	require.NoError(t, hollowmere.ReplaceScope(area, hollowmere.Occupyable{Occupied: []hollowmere.EntityRef{hollowmere.RefOf(npc)}}))
	require.NoError(t, hollowmere.ReplaceScope(npc, hollowmere.AIActor{
		Provider:        "openai",
		IntervalSeconds: 10,
	}))
	require.NoError(t, session.Close(ctx))

	// Reopening a session re-runs Initialize, which seeds a think
	// schedule for Wisp now that it carries an AIActor scope.
	session, err = domain.OpenSession(ctx)
	require.NoError(t, err)
	require.NoError(t, session.Close(ctx))

	far := time.Now().Add(time.Hour)
	after, err := domain.Tick(ctx, far)
	require.NoError(t, err)
	count, processed := after.Processed()
	require.True(t, processed)
	require.Equal(t, 1, count)

	// No API key is configured, so the decider fails to resolve and the
	// think cycle performs no command — but it must still reschedule
	// itself, since a provider outage should never silently stop an
	// actor from thinking again later. The new schedule is one interval
	// after the wall-clock time of that cycle, well before far, so a
	// second tick at far finds it due and processes it again.
	again, err := domain.Tick(ctx, far)
	require.NoError(t, err)
	againCount, againProcessed := again.Processed()
	require.True(t, againProcessed)
	require.Equal(t, 1, againCount)
}

func TestSeedingIsIdempotentAcrossSessionReopen(t *testing.T) {
	ctx := context.Background()
	plugin := actorai.New(actorai.Config{})

	store := memstore.New()
	domain, err := hollowmere.NewDomain(ctx, store, hollowmere.WithPlugins(plugin))
	require.NoError(t, err)
	plugin.Bind(domain)
	defer plugin.Shutdown()

	session, err := domain.OpenSession(ctx)
	require.NoError(t, err)
	npc, err := hollowmere.Build(session, hollowmere.ClassLiving).Named("Wisp").Into()
	require.NoError(t, err)
	require.NoError(t, hollowmere.ReplaceScope(npc, hollowmere.AIActor{Provider: "openai"}))
	require.NoError(t, session.Close(ctx))

	// Opening (and closing) several more sessions re-runs Initialize's
	// seeding scan each time; Storage.Queue's same-key no-op means this
	// must not multiply Wisp's pending think futures.
	for i := 0; i < 3; i++ {
		s, err := domain.OpenSession(ctx)
		require.NoError(t, err)
		require.NoError(t, s.Close(ctx))
	}

	far := time.Now().Add(24 * time.Hour)
	after, err := domain.Tick(ctx, far)
	require.NoError(t, err)
	count, processed := after.Processed()
	require.True(t, processed)
	require.Equal(t, 1, count)
}
