package hollowmere

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/hollowmere/kernel/identifiers"
	"github.com/hollowmere/kernel/storage"
)

// Notifier delivers a resolved event to one recipient (spec.md §6.4's
// "notify(audience_key, event)"). Implementations push to WebSockets,
// logs, a console, etc.; package notify/console ships a colorized
// terminal implementation.
type Notifier interface {
	Notify(ctx context.Context, key EntityKey, event TaggedJSON) error
}

// Session is the transactional unit of work described in spec.md §4.4:
// a lazily-populated entity cache, a deferred event and future queue,
// and one storage transaction. Grounded on the teacher's Session
// (session.go) lifecycle shape — construct, accumulate, Close commits —
// generalized from "one LLM conversation" to "one transactional unit of
// work over many entities."
//
// A Session is not safe for concurrent use from multiple goroutines; it
// is single-threaded cooperative per spec.md §5. It may move between
// goroutines as long as only one touches it at a time, and the current
// goroutine must bind it via SetSession before code that needs
// CurrentSession (deeply nested builders, scope loads) can find it.
type Session struct {
	mu sync.Mutex

	store    storage.Storage
	gids     *identifiers.GidSequence
	host     *PluginHost
	hooks    *HookRegistry
	extraMW  []Middleware
	notifier Notifier

	cache             map[EntityKey]*Entity
	snapshots         map[EntityKey][]byte
	persistedVersions map[EntityKey]uint64 // 0 means "never saved"

	pendingRaised    []Raised
	pendingSchedules []Scheduling

	closed        bool
	forceRollback bool // debug facility: always commit even with no diff
}

// sessionOptions configures newSession; see Domain.OpenSession.
type sessionOptions struct {
	Store      storage.Storage
	Gids       *identifiers.GidSequence
	Host       *PluginHost
	Hooks      *HookRegistry
	Middleware []Middleware
	Notifier   Notifier
}

// newSession constructs a Session and immediately begins a storage
// transaction (spec.md §4.4 "begin() on storage is called immediately").
func newSession(ctx context.Context, opts sessionOptions) (*Session, error) {
	if err := opts.Store.Begin(ctx); err != nil {
		return nil, fmt.Errorf("hollowmere: session begin: %w", err)
	}
	s := &Session{
		store:     opts.Store,
		gids:      opts.Gids,
		host:      opts.Host,
		hooks:     opts.Hooks,
		extraMW:   opts.Middleware,
		notifier:  opts.Notifier,
		cache:             make(map[EntityKey]*Entity),
		snapshots:         make(map[EntityKey][]byte),
		persistedVersions: make(map[EntityKey]uint64),
	}
	if opts.Host != nil {
		if err := opts.Host.Initialize(s, opts.Hooks); err != nil {
			_ = opts.Store.Rollback(ctx, false)
			return nil, err
		}
	}
	return s, nil
}

// ForceRollback flips the debug facility named in spec.md §4.4 step 6:
// when set, Close/Flush always call Commit even if nothing changed,
// instead of Rollback(benign=true). Intended for tests that want to
// exercise the storage layer's commit path unconditionally.
func (s *Session) ForceRollback(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forceRollback = v
}

// Entity fetches an entity by key or gid, lazily loading it from
// storage through the session's cache (spec.md §4.4).
func (s *Session) Entity(by LookupBy) (*Entity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entityLocked(by)
}

func (s *Session) entityLocked(by LookupBy) (*Entity, error) {
	if s.closed {
		return nil, ErrSessionClosed
	}
	key, gid := by.Resolve()
	if gid == nil {
		if e, ok := s.cache[key]; ok {
			return e, nil
		}
	}

	var sb storage.LookupBy
	if gid != nil {
		sb = storage.ByGid(uint64(*gid))
	} else {
		sb = storage.ByKey(string(key))
	}
	persisted, err := s.store.Load(context.Background(), sb)
	if err != nil {
		if err == storage.ErrNotFound {
			return nil, ErrEntityNotFound
		}
		return nil, err
	}
	if e, ok := s.cache[EntityKey(persisted.Key)]; ok {
		return e, nil
	}

	var e Entity
	if err := json.Unmarshal([]byte(persisted.Serialized), &e); err != nil {
		return nil, &TaggedJSONError{Kind: "json", Cause: err}
	}
	e.Version = persisted.Version
	s.cacheEntityLocked(&e)
	return &e, nil
}

func (s *Session) cacheEntityLocked(e *Entity) {
	e.bind(s)
	s.cache[e.Key] = e
	s.snapshots[e.Key] = e.snapshot()
	s.persistedVersions[e.Key] = e.Version
}

// RecursiveEntity loads an entity and warms the cache by following its
// EntityRef-bearing scopes outward to depth levels (spec.md §4.4). A
// shallow, best-effort warm: refs that fail to resolve are skipped.
func (s *Session) RecursiveEntity(by LookupBy, depth int) (*Entity, error) {
	root, err := s.Entity(by)
	if err != nil {
		return nil, err
	}
	if depth <= 0 {
		return root, nil
	}
	frontier := []*Entity{root}
	for d := 0; d < depth && len(frontier) > 0; d++ {
		var next []*Entity
		for _, e := range frontier {
			for _, ref := range e.allRefs() {
				if ref.IsZero() {
					continue
				}
				if child, err := s.Entity(ByKey(ref.Key)); err == nil {
					next = append(next, child)
				}
			}
		}
		frontier = next
	}
	return root, nil
}

// AddEntity assigns e a gid (via the identifier sequence), inserts it
// into the cache as new, and marks it dirty for the next commit
// (spec.md §4.4's add_entity).
func (s *Session) AddEntity(e *Entity) (*Entity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrSessionClosed
	}
	if !ValidKey(string(e.Key)) {
		return nil, ErrInvalidKey
	}
	if e.Key != WorldKey {
		e.SetGid(EntityGid(s.gids.Next()))
	} else if e.Gid == 0 {
		e.SetGid(0)
	}
	e.Version = 1
	s.cache[e.Key] = e
	e.bind(s)
	s.snapshots[e.Key] = nil // nil snapshot forces a diff on first commit
	s.persistedVersions[e.Key] = 0
	return e, nil
}

// CreateEntity allocates a blank entity of the given class with a fresh
// key and identity, suitable for EntityBuilder to fill in before
// AddEntity. Grounded on original_source's EntityPtr::new_blank.
func (s *Session) CreateEntity(class EntityClass) (*Entity, error) {
	identity, err := identifiers.NewIdentity()
	if err != nil {
		return nil, err
	}
	e := &Entity{
		Key:      EntityKey(identifiers.NewKey()),
		Class:    class,
		Identity: Identity{Public: identity.Public, Private: identity.Private},
	}
	return e, nil
}

// Obliterate marks e destroyed; it is removed from storage at the next
// commit (spec.md §4.4's obliterate).
func (s *Session) Obliterate(e *Entity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	e.Destroy()
	return nil
}

// Raise records a deferred event; at commit time its audience is
// resolved and notifier.Notify is called for each recipient (spec.md
// §4.4, §4.5, §8 property 5).
func (s *Session) Raise(actor *EntityRef, audience Audience, eventKey string, payload any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	tagged, err := EncodeTagged(eventKey, payload)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(tagged)
	if err != nil {
		return err
	}
	s.pendingRaised = append(s.pendingRaised, Raised{Actor: actor, Audience: audience, Payload: raw})
	return nil
}

// Schedule records a deferred future; it is persisted at commit time
// and later claimed by Session.Tick (spec.md §4.4, §4.9).
func (s *Session) Schedule(key string, when time.Time, actionKey string, payload any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	tagged, err := EncodeTagged(actionKey, payload)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(tagged)
	if err != nil {
		return err
	}
	s.pendingSchedules = append(s.pendingSchedules, Scheduling{Key: key, When: when, Serialized: raw})
	return nil
}

// CancelSchedule removes a not-yet-delivered future by key.
func (s *Session) CancelSchedule(key string) error {
	return s.store.Cancel(context.Background(), key)
}

// findSurroundings resolves the (world, actor, area) triple for actor,
// used by ExpandSurroundings and EvaluateAndPerformAs.
func (s *Session) findSurroundings(actor *Entity) (Surroundings, error) {
	world, err := s.Entity(ByKey(WorldKey))
	if err != nil {
		return Surroundings{}, err
	}
	occupying, err := ScopeOf[Occupying](actor)
	if err != nil {
		return Surroundings{}, err
	}
	if occupying.Area.IsZero() {
		return Surroundings{}, ErrContainerRequired
	}
	area, err := s.Entity(ByKey(occupying.Area.Key))
	if err != nil {
		return Surroundings{}, err
	}
	return Surroundings{World: world, Actor: actor, Area: area}, nil
}

// Perform pushes p through the plugin-contributed and built-in
// middleware chain, then the terminal dispatcher (spec.md §4.6). A
// failing action or middleware closes the session and rolls back its
// storage transaction; pending raises and futures are discarded.
func (s *Session) Perform(p Perform) (Effect, error) {
	chain := s.middlewareChain()
	effect, err := applyMiddleware(chain, p, s.terminal)
	if err != nil {
		s.abort(err)
		return Effect{}, err
	}
	return effect, nil
}

func (s *Session) middlewareChain() []Middleware {
	var chain []Middleware
	if s.host != nil {
		chain = append(chain, s.host.Middleware(s)...)
	}
	chain = append(chain, s.extraMW...)
	chain = append(chain, ExpandSurroundings(s))
	return chain
}

// terminal dispatches a fully-expanded Perform by variant (spec.md
// §4.6 "apply_middleware(mw, p, terminal)").
func (s *Session) terminal(p Perform) (Effect, error) {
	switch v := p.Variant().(type) {
	case PerformSurroundings:
		if s.host != nil {
			s.host.HaveSurroundings(s, v.Surroundings)
		}
		return v.Action.Perform(s, v.Surroundings)
	case PerformActor:
		// ExpandSurroundings should have rewritten this already; a
		// caller invoking Perform with an empty middleware chain gets
		// a clear error instead of a nil-surroundings panic downstream.
		return Effect{}, ErrContainerRequired
	case PerformRaised:
		s.mu.Lock()
		s.pendingRaised = append(s.pendingRaised, v.Raised)
		s.mu.Unlock()
		return NewEffectOk(), nil
	case PerformSchedule:
		s.mu.Lock()
		s.pendingSchedules = append(s.pendingSchedules, v.Scheduling)
		s.mu.Unlock()
		return NewEffectOk(), nil
	case PerformChain:
		return s.Perform(*v.Inner)
	case PerformDelivery:
		if s.host == nil {
			return NewEffectOk(), nil
		}
		if err := s.host.Deliver(s, v.Incoming); err != nil {
			return Effect{}, err
		}
		return NewEffectOk(), nil
	case PerformPing:
		return NewEffectReply(SimpleReplyDone()), nil
	default:
		return Effect{}, ErrEvaluationFailed
	}
}

// EvaluateAndPerformAs resolves the acting entity by name or key, tries
// every plugin's parser against text in registration order, and if one
// matches, performs it. Returns (effect, false, nil) if nothing parsed
// (spec.md §4.4, §6.4).
func (s *Session) EvaluateAndPerformAs(as EvaluateAs, text string) (Effect, bool, error) {
	name, key, byKey := as.Resolve()
	var actor *Entity
	var err error
	if byKey {
		actor, err = s.Entity(ByKey(key))
	} else {
		actor, err = s.findByName(name)
	}
	if err != nil {
		return Effect{}, false, err
	}
	if s.host == nil {
		return Effect{}, false, nil
	}
	action, ok := s.host.TryParseAction(text)
	if !ok {
		return Effect{}, false, nil
	}
	effect, err := s.Perform(NewPerformActor(actor, action))
	if err != nil {
		return Effect{}, false, err
	}
	return effect, true, nil
}

func (s *Session) findByName(name string) (*Entity, error) {
	s.mu.Lock()
	for _, e := range s.cache {
		if e.Name() == name {
			s.mu.Unlock()
			return e, nil
		}
	}
	s.mu.Unlock()
	all, err := s.store.QueryAllEntities(context.Background())
	if err != nil {
		return nil, err
	}
	for _, pe := range all {
		var e Entity
		if err := json.Unmarshal([]byte(pe.Serialized), &e); err != nil {
			continue
		}
		if e.Name() == name {
			return s.Entity(ByKey(e.Key))
		}
	}
	return nil, ErrEntityNotFound
}

// QueryEntitiesWithScope returns every entity carrying scopeKey,
// materializing each through s.Entity so callers get the session's
// cached, mutation-tracked pointer rather than a detached copy. Grounded
// on findByName's QueryAllEntities-then-filter shape, generalized from
// "match by name" to "match by scope presence" for callers (e.g. the
// behavior loader) that need every entity of a given kind rather than
// one named one.
func (s *Session) QueryEntitiesWithScope(scopeKey string) ([]*Entity, error) {
	all, err := s.store.QueryAllEntities(context.Background())
	if err != nil {
		return nil, err
	}
	var matched []*Entity
	for _, pe := range all {
		var probe Entity
		if err := json.Unmarshal([]byte(pe.Serialized), &probe); err != nil {
			continue
		}
		if !probe.HasScope(scopeKey) {
			continue
		}
		e, err := s.Entity(ByKey(probe.Key))
		if err != nil {
			continue
		}
		matched = append(matched, e)
	}
	return matched, nil
}

// Deliver injects an externally-sourced event into every plugin (spec.md
// §4.4, §6.4).
func (s *Session) Deliver(incoming Incoming) error {
	_, err := s.Perform(NewPerformDelivery(incoming))
	return err
}

// Tick claims every future due at or before now, re-materializes its
// action via the plugin host's deserializer registry, and performs each
// in queue order (spec.md §4.9). Surroundings are resolved best-effort
// from the future's own key: if it names a living entity currently
// occupying an area, that area is used; otherwise the action runs with
// only the world entity in scope, for world-level timers that target no
// single actor.
func (s *Session) Tick(now time.Time) (AfterTick, error) {
	due, err := s.store.QueryFuturesBefore(context.Background(), now)
	if err != nil {
		return AfterTick{}, err
	}
	if len(due) == 0 {
		next, perr := s.store.PeekNextFutureTime(context.Background())
		if perr != nil {
			return AfterTick{}, perr
		}
		if next == nil {
			return NewAfterTickEmpty(), nil
		}
		return NewAfterTickDeadline(*next), nil
	}

	world, err := s.Entity(ByKey(WorldKey))
	if err != nil {
		return AfterTick{}, err
	}

	processed := 0
	for _, f := range due {
		var tagged TaggedJSON
		if err := json.Unmarshal([]byte(f.Serialized), &tagged); err != nil {
			return AfterTick{}, &TaggedJSONError{Kind: "json", Cause: err}
		}
		action, ok := s.host.TryDeserializeAction(tagged)
		if !ok {
			continue
		}

		surroundings := Surroundings{World: world}
		if actor, aerr := s.Entity(ByKey(EntityKey(f.Key))); aerr == nil {
			if sur, serr := s.findSurroundings(actor); serr == nil {
				surroundings = sur
			}
		}

		chain := s.middlewareChainNoExpand()
		if _, err := applyMiddleware(chain, NewPerformSurroundings(surroundings, action), s.terminal); err != nil {
			s.abort(err)
			return AfterTick{}, err
		}
		processed++
	}

	if err := s.Flush(context.Background()); err != nil {
		return AfterTick{}, err
	}
	return NewAfterTickProcessed(processed), nil
}

// middlewareChainNoExpand returns the plugin-contributed chain without
// ExpandSurroundings, for callers (Tick) that have already resolved
// Surroundings themselves.
func (s *Session) middlewareChainNoExpand() []Middleware {
	var chain []Middleware
	if s.host != nil {
		chain = append(chain, s.host.Middleware(s)...)
	}
	chain = append(chain, s.extraMW...)
	return chain
}

// resolveAudience turns an Audience into a concrete set of recipient
// keys (spec.md §4.5). Everybody is the union of every area's occupied
// list (SPEC_FULL.md §9's decided interpretation); it requires an
// O(all entities) scan and should be reserved for rare world-broadcast
// events.
func (s *Session) resolveAudience(a Audience) ([]EntityKey, error) {
	switch a.kind {
	case audienceNobody:
		return nil, nil
	case audienceIndividuals:
		return a.individuals, nil
	case audienceArea:
		area, err := s.Entity(ByKey(a.area))
		if err != nil {
			return nil, err
		}
		occ, err := ScopeOf[Occupyable](area)
		if err != nil {
			return nil, err
		}
		keys := make([]EntityKey, 0, len(occ.Occupied))
		for _, ref := range occ.Occupied {
			keys = append(keys, ref.Key)
		}
		return keys, nil
	case audienceEverybody:
		all, err := s.store.QueryAllEntities(context.Background())
		if err != nil {
			return nil, err
		}
		seen := map[EntityKey]bool{}
		var keys []EntityKey
		for _, pe := range all {
			var e Entity
			if err := json.Unmarshal([]byte(pe.Serialized), &e); err != nil {
				continue
			}
			occ, err := ScopeOf[Occupyable](&e)
			if err != nil {
				continue
			}
			for _, ref := range occ.Occupied {
				if !seen[ref.Key] {
					seen[ref.Key] = true
					keys = append(keys, ref.Key)
				}
			}
		}
		return keys, nil
	default:
		return nil, nil
	}
}

// abort marks the session closed and rolls back storage without
// logging the original error's cause beyond propagating it to the
// caller (spec.md §4.6 "Failure semantics").
func (s *Session) abort(cause error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.pendingRaised = nil
	s.pendingSchedules = nil
	_ = s.store.Rollback(context.Background(), false)
}

// Flush runs the commit algorithm (spec.md §4.4) but leaves the session
// open for continued use: the entity cache's snapshots are refreshed
// and the pending queues cleared so subsequent work diffs against the
// just-committed state.
func (s *Session) Flush(ctx context.Context) error {
	return s.commitAlgorithm(ctx, false)
}

// Close runs the commit algorithm and marks the session closed. Calling
// any mutating method afterward returns ErrSessionClosed.
func (s *Session) Close(ctx context.Context) error {
	return s.commitAlgorithm(ctx, true)
}

// commitAlgorithm implements spec.md §4.4's seven numbered steps
// exactly, grounded on the teacher's Close-style lifecycle (stop,
// diff-against-snapshot, persist, then commit).
func (s *Session) commitAlgorithm(ctx context.Context, closing bool) (err error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		if closing {
			s.closed = true
		}
		if err != nil {
			s.closed = true
			_ = s.store.Rollback(ctx, false)
		}
		s.mu.Unlock()
	}()

	// Step 1: stop every plugin.
	if s.host != nil {
		if stopErr := s.host.Stop(s); stopErr != nil {
			return stopErr
		}
	}

	// Step 2: persist the world entity if the gid high-water moved.
	world, werr := s.entityRaw(WorldKey)
	if werr == nil && world != nil {
		if hw := s.gids.HighWater(); hw > uint64(world.Gid) {
			world.SetGid(EntityGid(hw))
		}
	}

	changed := false

	// Step 3: diff every cached entity against its snapshot; persist or
	// delete.
	s.mu.Lock()
	keys := make([]EntityKey, 0, len(s.cache))
	for k := range s.cache {
		keys = append(keys, k)
	}
	s.mu.Unlock()

	for _, key := range keys {
		s.mu.Lock()
		e := s.cache[key]
		prevSnap := s.snapshots[key]
		s.mu.Unlock()
		if e == nil {
			continue
		}
		curSnap := e.snapshot()
		if prevSnap != nil && string(prevSnap) == string(curSnap) {
			continue
		}
		changed = true

		s.mu.Lock()
		lastPersisted := s.persistedVersions[key]
		s.mu.Unlock()

		if e.Destroyed() {
			if lastPersisted > 0 {
				if derr := s.store.Delete(ctx, &storage.PersistedEntity{Key: string(e.Key), Gid: uint64(e.Gid), Version: lastPersisted}); derr != nil {
					return derr
				}
			}
			continue
		}

		// Version 1 inserts a never-before-saved entity; anything
		// already persisted bumps to lastPersisted+1 (spec.md §4.2's
		// Save contract).
		if lastPersisted == 0 {
			e.Version = 1
		} else {
			e.Version = lastPersisted + 1
		}
		if serr := s.store.Save(ctx, &storage.PersistedEntity{
			Key:        string(e.Key),
			Gid:        uint64(e.Gid),
			Version:    e.Version,
			Serialized: string(e.snapshot()),
		}); serr != nil {
			if vc, ok := serr.(*storage.VersionConflictError); ok {
				return &VersionConflictError{Key: vc.Key, ExpectedVersion: vc.ExpectedVersion}
			}
			return serr
		}
		s.mu.Lock()
		s.persistedVersions[key] = e.Version
		s.snapshots[key] = e.snapshot()
		s.mu.Unlock()
	}

	// Step 4: persist queued futures.
	s.mu.Lock()
	schedules := s.pendingSchedules
	s.pendingSchedules = nil
	s.mu.Unlock()
	for _, sc := range schedules {
		changed = true
		if qerr := s.store.Queue(ctx, &storage.PersistedFuture{Key: sc.Key, Time: sc.When, Serialized: string(sc.Serialized)}); qerr != nil {
			return qerr
		}
	}

	// Step 5: deliver queued events, resolving each audience through
	// the finder.
	s.mu.Lock()
	raised := s.pendingRaised
	s.pendingRaised = nil
	s.mu.Unlock()
	for _, r := range raised {
		changed = true
		recipients, aerr := s.resolveAudience(r.Audience)
		if aerr != nil {
			return aerr
		}
		var tagged TaggedJSON
		if err := json.Unmarshal(r.Payload, &tagged); err != nil {
			return &TaggedJSONError{Kind: "json", Cause: err}
		}
		if s.hooks != nil {
			s.hooks.Notified().Run(NotifiedInput{Event: r, Audience: recipients})
		}
		if s.notifier != nil {
			for _, key := range recipients {
				if nerr := s.notifier.Notify(ctx, key, tagged); nerr != nil {
					return nerr
				}
			}
		}
	}

	// Step 6: commit if anything changed (or the debug force-rollback
	// flag requests an unconditional commit); otherwise rollback benign.
	s.mu.Lock()
	force := s.forceRollback
	s.mu.Unlock()
	if changed || force {
		return s.store.Commit(ctx)
	}
	return s.store.Rollback(ctx, true)
}

// entityRaw returns a cached/loaded entity without the cache lock held
// across the call, used internally by commitAlgorithm.
func (s *Session) entityRaw(key EntityKey) (*Entity, error) {
	return s.Entity(ByKey(key))
}

// --- sessionHandle implementation, consumed by Entity and MutHandle ---

func (s *Session) markDirty(key EntityKey) {
	// Dirtiness is detected by diffing against the stored snapshot at
	// commit time (step 3), so there is nothing to record here beyond
	// the entity's own mutation; this method exists to satisfy
	// sessionHandle and as an extension point for future write-through
	// caching.
	_ = key
}

func (s *Session) lockScope(key EntityKey, scopeKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.cache[key]
	if !ok {
		return ErrEntityNotFound
	}
	if e.openScopes == nil {
		e.openScopes = map[string]bool{}
	}
	if e.openScopes[scopeKey] {
		return ErrScopeLocked
	}
	e.openScopes[scopeKey] = true
	return nil
}

func (s *Session) unlockScope(key EntityKey, scopeKey string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.cache[key]; ok && e.openScopes != nil {
		delete(e.openScopes, scopeKey)
	}
}

// ScopeMut opens a mutable handle on scope T of e, recording a logical
// lock for the duration of the handle (spec.md §4.3, §5 "Locking"). Go
// has no generic methods, so this is a package-level function rather
// than a *Session method.
func ScopeMut[T Scope](s *Session, e *Entity) (*MutHandle[T], error) {
	var zero T
	if err := s.lockScope(e.Key, zero.ScopeKey()); err != nil {
		return nil, err
	}
	value, err := ScopeOf[T](e)
	if err != nil {
		s.unlockScope(e.Key, zero.ScopeKey())
		return nil, err
	}
	return NewMutHandle(e, value, func() { s.unlockScope(e.Key, zero.ScopeKey()) }), nil
}
