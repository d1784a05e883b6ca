package actorai

import (
	"context"
	"sync"
	"time"

	"github.com/hollowmere/kernel"
)

// Plugin is the remote-actor bridge's content pack: it contributes no
// parsed verbs of its own, only the scheduled ThinkAction (reached by
// tagged-JSON replay, matching plugins/core's SaveHelpAction/coreSource
// convention) and, optionally, an MCP tool server standing in for the
// LLM loop for actors an external client wants to drive directly.
type Plugin struct {
	domain *hollowmere.Domain
	config Config

	mu       sync.Mutex
	deciders map[string]decider

	once   sync.Once
	bridge *mcpBridge
	stop   chan struct{}
	wg     sync.WaitGroup
}

// New constructs the bridge, unbound to any Domain yet. Call Bind with
// the constructed Domain before opening the first session, for the
// same construction-order reason documented on behaviors.New: a
// Domain's plugin list must be supplied to NewDomain before the Domain
// it returns exists to bind to.
func New(config Config) *Plugin {
	return &Plugin{config: config.withDefaults(), stop: make(chan struct{})}
}

// Bind attaches the Domain this plugin was registered on.
func (p *Plugin) Bind(domain *hollowmere.Domain) { p.domain = domain }

func (*Plugin) PluginKey() string { return "actorai" }

// Initialize seeds an initial think schedule for every entity currently
// carrying an AIActor scope. It runs on every session activation (the
// Plugin contract's documented granularity), but Storage.Queue is a
// no-op when a future with the same key is already queued, so re-running
// this scan each time a session opens only matters for actors that
// gained an AIActor scope since the last activation; it never disturbs
// an actor's already-pending schedule. The MCP bridge, by contrast, is a
// true domain-lifetime resource and is started at most once.
func (p *Plugin) Initialize(session *hollowmere.Session, hooks *hollowmere.HookRegistry) error {
	actors, err := session.QueryEntitiesWithScope(hollowmere.AIActor{}.ScopeKey())
	if err != nil {
		return err
	}
	for _, actor := range actors {
		ai, err := hollowmere.ScopeOf[hollowmere.AIActor](actor)
		if err != nil {
			continue
		}
		interval := time.Duration(ai.IntervalSeconds) * time.Second
		if interval <= 0 {
			interval = defaultInterval
		}
		_ = session.Schedule(string(actor.Key), time.Now().Add(interval), thinkActionKey, struct{}{})
	}

	var startErr error
	if p.config.MCPAddr != "" {
		p.once.Do(func() {
			startErr = p.startBridge()
		})
	}
	return startErr
}

func (p *Plugin) startBridge() error {
	p.bridge = newMCPBridge(p)
	p.wg.Add(2)
	go func() {
		defer p.wg.Done()
		_ = p.bridge.start(p.config.MCPAddr)
	}()
	go func() {
		defer p.wg.Done()
		<-p.stop
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = p.bridge.shutdown(ctx)
	}()
	return nil
}

func (p *Plugin) Middleware(session *hollowmere.Session) []hollowmere.Middleware { return nil }

func (p *Plugin) TryParseAction(text string) (hollowmere.Action, bool) { return nil, false }

func (p *Plugin) Sources() []hollowmere.ActionSource {
	return []hollowmere.ActionSource{actorSource{plugin: p}}
}

func (p *Plugin) Deliver(session *hollowmere.Session, incoming hollowmere.Incoming) error {
	return nil
}

func (p *Plugin) HaveSurroundings(session *hollowmere.Session, surroundings hollowmere.Surroundings) {
}

// Stop is a no-op for the same reason documented on behaviors.Plugin.Stop:
// it runs at the close of every session, not once at Domain shutdown.
func (p *Plugin) Stop(session *hollowmere.Session) error { return nil }

// Shutdown stops the MCP bridge, if one was started. Safe to call more
// than once or when no bridge was ever started.
func (p *Plugin) Shutdown() {
	select {
	case <-p.stop:
		return
	default:
		close(p.stop)
	}
	p.wg.Wait()
}

// setPaused flips the named actor's AIActor.Paused flag, used by the
// MCP bridge to stop an actor's own think loop from competing with an
// external client that has taken over issuing its commands.
func (p *Plugin) setPaused(session *hollowmere.Session, actorName string, paused bool) error {
	entity, err := findActorByName(session, actorName)
	if err != nil {
		return err
	}
	handle, err := hollowmere.ScopeMut[hollowmere.AIActor](session, entity)
	if err != nil {
		return err
	}
	handle.Get().Paused = paused
	return handle.Save()
}

// findActorByName scans every AIActor-scoped entity for a name match.
// There is no package-public by-name lookup on Session (EvaluateAndPerformAs
// resolves by name internally but for a combined resolve-and-perform, not
// a bare entity fetch), so the MCP bridge does its own small scan here
// rather than reaching for Session's private findByName.
func findActorByName(session *hollowmere.Session, name string) (*hollowmere.Entity, error) {
	actors, err := session.QueryEntitiesWithScope(hollowmere.AIActor{}.ScopeKey())
	if err != nil {
		return nil, err
	}
	for _, actor := range actors {
		if actor.Name() == name {
			return actor, nil
		}
	}
	return nil, hollowmere.ErrEntityNotFound
}

// actorSource re-materializes the one action this plugin persists as
// tagged JSON: a due think cycle (spec.md §4.8's deserializer-registry
// mechanism, the same one plugins/core's coreSource uses for
// SaveHelpAction).
type actorSource struct {
	plugin *Plugin
}

func (s actorSource) TryDeserializeAction(t hollowmere.TaggedJSON) (hollowmere.Action, bool) {
	if t.Key != thinkActionKey {
		return nil, false
	}
	return ThinkAction{plugin: s.plugin}, true
}
