package hollowmere

import (
	"context"
	"fmt"
	"time"

	"github.com/hollowmere/kernel/identifiers"
	"github.com/hollowmere/kernel/storage"
)

// Domain wires one world's storage backend, gid sequence, plugin host,
// and hook registry together and hands out Sessions over it. Grounded
// on the teacher's top-level Agent constructor (agent.go in the
// original tree, since pruned): one long-lived object holding shared,
// rarely-mutated configuration, from which many short-lived units of
// work (there: conversations; here: Sessions) are opened.
type Domain struct {
	store      storage.Storage
	gids       *identifiers.GidSequence
	host       *PluginHost
	hooks      *HookRegistry
	middleware []Middleware
	notifier   Notifier
}

// DomainOption configures a Domain at construction time.
type DomainOption func(*Domain)

// WithPlugins registers plugins, in the order they should be tried for
// parsing and middleware (spec.md §4.8).
func WithPlugins(plugins ...Plugin) DomainOption {
	return func(d *Domain) { d.host = NewPluginHost(plugins...) }
}

// WithMiddleware appends session-global middleware, run after every
// plugin's own middleware and before ExpandSurroundings's built-in
// rewrite (spec.md §4.6).
func WithMiddleware(mw ...Middleware) DomainOption {
	return func(d *Domain) { d.middleware = append(d.middleware, mw...) }
}

// WithNotifier sets the Notifier every Session's commit algorithm
// delivers resolved events through (spec.md §6.4). Without one, raised
// events are still resolved to recipient keys and fed through the
// Notified hook, but never reach an external transport.
func WithNotifier(n Notifier) DomainOption {
	return func(d *Domain) { d.notifier = n }
}

// NewDomain opens store, restores the gid sequence from the persisted
// world entity (creating one at gid 0 if this is a brand-new world),
// and applies opts.
func NewDomain(ctx context.Context, store storage.Storage, opts ...DomainOption) (*Domain, error) {
	d := &Domain{
		store: store,
		gids:  identifiers.NewGidSequence(0),
		hooks: NewHookRegistry(),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.host == nil {
		d.host = NewPluginHost()
	}

	if err := d.restoreGidSequence(ctx); err != nil {
		return nil, fmt.Errorf("hollowmere: open domain: %w", err)
	}
	return d, nil
}

// restoreGidSequence loads the world entity (bootstrapping one if
// absent) and sets the gid sequence's high-water mark from it, per
// spec.md §4.1's "the gid sequence is restored from the persisted
// world entity on startup."
func (d *Domain) restoreGidSequence(ctx context.Context) error {
	if err := d.store.Begin(ctx); err != nil {
		return err
	}

	persisted, err := d.store.Load(ctx, storage.ByKey(string(WorldKey)))
	switch {
	case err == storage.ErrNotFound:
		world := &Entity{Key: WorldKey, Class: ClassWorld, Version: 1}
		world.SetGid(0)
		world.SetName("World")
		raw, merr := marshalEntity(world)
		if merr != nil {
			_ = d.store.Rollback(ctx, false)
			return merr
		}
		if serr := d.store.Save(ctx, &storage.PersistedEntity{Key: string(WorldKey), Gid: 0, Version: 1, Serialized: raw}); serr != nil {
			_ = d.store.Rollback(ctx, false)
			return serr
		}
		d.gids.SetHighWater(0)
	case err != nil:
		_ = d.store.Rollback(ctx, false)
		return err
	default:
		d.gids.SetHighWater(persisted.Gid)
	}

	return d.store.Commit(ctx)
}

// marshalEntity serializes e using its own MarshalJSON, returned as a
// string for PersistedEntity.Serialized.
func marshalEntity(e *Entity) (string, error) {
	raw := e.snapshot()
	if raw == nil {
		return "", fmt.Errorf("hollowmere: failed to serialize entity %s", e.Key)
	}
	return string(raw), nil
}

// OpenSession begins a new transactional unit of work (spec.md §4.4).
// The caller must Close (or Flush, to keep working) the returned
// Session; an unclosed Session leaks its storage transaction.
func (d *Domain) OpenSession(ctx context.Context) (*Session, error) {
	return newSession(ctx, sessionOptions{
		Store:      d.store,
		Gids:       d.gids,
		Host:       d.host,
		Hooks:      d.hooks,
		Middleware: d.middleware,
		Notifier:   d.notifier,
	})
}

// Hooks returns the domain's shared hook registry, so host-process code
// can register hooks before any session ever touches them (e.g. wiring
// a CanMove veto from outside any plugin).
func (d *Domain) Hooks() *HookRegistry { return d.hooks }

// Tick opens a session, drives it to the given time, and closes it
// committing any work the tick produced — the convenience wrapper
// named in spec.md §4.9 for callers that do not need a session for
// anything else.
func (d *Domain) Tick(ctx context.Context, now time.Time) (AfterTick, error) {
	session, err := d.OpenSession(ctx)
	if err != nil {
		return AfterTick{}, err
	}
	result, err := session.Tick(now)
	if err != nil {
		return AfterTick{}, err
	}
	if err := session.Close(ctx); err != nil {
		return AfterTick{}, err
	}
	return result, nil
}
