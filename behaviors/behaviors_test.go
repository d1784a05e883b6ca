package behaviors_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hollowmere/kernel"
	"github.com/hollowmere/kernel/behaviors"
	"github.com/hollowmere/kernel/storage/memstore"
)

func TestReloadAppendsLogOnWrite(t *testing.T) {
	root := t.TempDir()
	entryPath := filepath.Join(root, "scripts", "greeter.lua")
	require.NoError(t, os.MkdirAll(filepath.Dir(entryPath), 0o755))
	require.NoError(t, os.WriteFile(entryPath, []byte("-- v1"), 0o644))

	plugin := behaviors.New(behaviors.Config{
		Root:     root,
		Patterns: []string{"**/*.lua"},
		Debounce: 10 * time.Millisecond,
	})

	ctx := context.Background()
	domain, err := hollowmere.NewDomain(ctx, memstore.New(), hollowmere.WithPlugins(plugin))
	require.NoError(t, err)
	plugin.Bind(domain)
	defer plugin.Shutdown()

	session, err := domain.OpenSession(ctx)
	require.NoError(t, err)

	npc, err := hollowmere.Build(session, hollowmere.ClassLiving).Named("Greeter").Into()
	require.NoError(t, err)
	require.NoError(t, hollowmere.ReplaceScope(npc, hollowmere.Behaviors{
		Langs: map[string]hollowmere.BehaviorLang{
			"lua": {Entry: "scripts/greeter.lua"},
		},
	}))
	require.NoError(t, session.Close(ctx))

	require.NoError(t, os.WriteFile(entryPath, []byte("-- v2"), 0o644))

	require.Eventually(t, func() bool {
		verify, err := domain.OpenSession(ctx)
		if err != nil {
			return false
		}
		defer verify.Close(ctx)
		e, err := verify.Entity(hollowmere.ByKey(npc.Key))
		if err != nil {
			return false
		}
		b, err := hollowmere.ScopeOf[hollowmere.Behaviors](e)
		if err != nil {
			return false
		}
		return len(b.Langs["lua"].Logs) > 0
	}, 2*time.Second, 20*time.Millisecond)
}

func TestIgnorePatternSuppressesReload(t *testing.T) {
	root := t.TempDir()
	entryPath := filepath.Join(root, "vendor", "skip.lua")
	require.NoError(t, os.MkdirAll(filepath.Dir(entryPath), 0o755))
	require.NoError(t, os.WriteFile(entryPath, []byte("-- v1"), 0o644))

	plugin := behaviors.New(behaviors.Config{
		Root:     root,
		Patterns: []string{"**/*.lua"},
		Ignore:   []string{"vendor/**"},
		Debounce: 10 * time.Millisecond,
	})

	ctx := context.Background()
	domain, err := hollowmere.NewDomain(ctx, memstore.New(), hollowmere.WithPlugins(plugin))
	require.NoError(t, err)
	plugin.Bind(domain)
	defer plugin.Shutdown()

	session, err := domain.OpenSession(ctx)
	require.NoError(t, err)
	npc, err := hollowmere.Build(session, hollowmere.ClassLiving).Named("Vendored").Into()
	require.NoError(t, err)
	require.NoError(t, hollowmere.ReplaceScope(npc, hollowmere.Behaviors{
		Langs: map[string]hollowmere.BehaviorLang{
			"lua": {Entry: "vendor/skip.lua"},
		},
	}))
	require.NoError(t, session.Close(ctx))

	require.NoError(t, os.WriteFile(entryPath, []byte("-- v2"), 0o644))
	time.Sleep(200 * time.Millisecond)

	verify, err := domain.OpenSession(ctx)
	require.NoError(t, err)
	defer verify.Close(ctx)
	e, err := verify.Entity(hollowmere.ByKey(npc.Key))
	require.NoError(t, err)
	b, err := hollowmere.ScopeOf[hollowmere.Behaviors](e)
	require.NoError(t, err)
	require.Empty(t, b.Langs["lua"].Logs)
}
