package behaviors

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/hollowmere/kernel"
)

// Plugin is the behavior-loader content pack: it never parses or
// performs actions, it only watches the filesystem and keeps each
// entity's Behaviors scope's rolling log current when its script
// entry's file changes. Sized as a hollowmere.Plugin (rather than a
// bare goroutine wired in by cmd/) so a world's plugin list is the one
// place that declares everything touching its entities, matching the
// teacher's convention that every cross-cutting concern (tools,
// middleware) is registered the same way.
type Plugin struct {
	domain *hollowmere.Domain
	config Config

	once    sync.Once
	watcher *fileWatcher
	stop    chan struct{}
	wg      sync.WaitGroup
}

// New constructs a behavior loader, unbound to any Domain yet: a
// Domain's plugin list is supplied to NewDomain, which necessarily
// happens before the Domain exists to hand back. Call Bind with the
// constructed Domain before opening the first session, so Initialize's
// lazy watcher start (triggered by that session) has somewhere to open
// its own reload sessions.
func New(config Config) *Plugin {
	return &Plugin{config: config.withDefaults(), stop: make(chan struct{})}
}

// Bind attaches the Domain this plugin was registered on. Must be
// called after NewDomain returns and before any session is opened.
func (p *Plugin) Bind(domain *hollowmere.Domain) { p.domain = domain }

func (*Plugin) PluginKey() string { return "behaviors" }

// Initialize starts the filesystem watcher on the first session that
// touches this plugin; later sessions are no-ops. A Domain's plugin
// list is shared across every Session it opens, so a naive "start on
// every Initialize" would spawn one watcher per session.
func (p *Plugin) Initialize(session *hollowmere.Session, hooks *hollowmere.HookRegistry) error {
	var startErr error
	p.once.Do(func() {
		startErr = p.start()
	})
	return startErr
}

func (p *Plugin) start() error {
	m, err := newMatcher(p.config)
	if err != nil {
		return fmt.Errorf("behaviors: compile ignore patterns: %w", err)
	}

	fw, err := newFileWatcher(p.config, m, p.reload)
	if err != nil {
		return fmt.Errorf("behaviors: start watcher: %w", err)
	}
	if err := fw.addRecursiveWatch(p.config.Root); err != nil {
		return fmt.Errorf("behaviors: watch %s: %w", p.config.Root, err)
	}
	p.watcher = fw

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		fw.run(p.stop)
	}()
	return nil
}

// reload is called off the main session goroutine whenever a watched
// file settles after a change. It opens its own session, finds every
// entity whose Behaviors scope names the changed path as an entry, and
// appends a reload note — the hand-off point where an evaluating
// runtime (not part of this package, per spec Non-goals) would pick up
// the change.
func (p *Plugin) reload(path string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	session, err := p.domain.OpenSession(ctx)
	if err != nil {
		return
	}
	defer session.Close(ctx)

	entities, err := session.QueryEntitiesWithScope(hollowmere.Behaviors{}.ScopeKey())
	if err != nil {
		return
	}

	for _, e := range entities {
		b, err := hollowmere.ScopeOf[hollowmere.Behaviors](e)
		if err != nil {
			continue
		}
		lang, ok := entryMatchesLang(b, p.config.Root, path)
		if !ok {
			continue
		}

		handle, err := hollowmere.ScopeMut[hollowmere.Behaviors](session, e)
		if err != nil {
			continue
		}
		handle.Get().AppendLog(lang, "reloaded "+path+" at "+time.Now().Format(time.RFC3339))
		_ = handle.Save()
	}
}

// entryMatchesLang returns the language key whose entry resolves to
// path, if any.
func entryMatchesLang(b hollowmere.Behaviors, root, path string) (string, bool) {
	clean := filepath.Clean(path)
	for lang, attachment := range b.Langs {
		entry := attachment.Entry
		if !filepath.IsAbs(entry) {
			entry = filepath.Join(root, entry)
		}
		if filepath.Clean(entry) == clean {
			return lang, true
		}
	}
	return "", false
}

func (p *Plugin) Middleware(session *hollowmere.Session) []hollowmere.Middleware { return nil }

func (p *Plugin) TryParseAction(text string) (hollowmere.Action, bool) { return nil, false }

func (p *Plugin) Sources() []hollowmere.ActionSource { return nil }

func (p *Plugin) Deliver(session *hollowmere.Session, incoming hollowmere.Incoming) error {
	return nil
}

func (p *Plugin) HaveSurroundings(session *hollowmere.Session, surroundings hollowmere.Surroundings) {
}

// Stop is a no-op: it is called at the close of every session that
// touches this plugin, but the filesystem watcher is a domain-lifetime
// resource, not a session-lifetime one. Call Shutdown when the Domain
// itself is going away.
func (p *Plugin) Stop(session *hollowmere.Session) error { return nil }

// Shutdown stops the filesystem watcher. Safe to call more than once;
// only the first call does anything. Intended for process-level
// cleanup (e.g. a cmd/ main's defer), not per-session teardown.
func (p *Plugin) Shutdown() {
	select {
	case <-p.stop:
		return
	default:
		close(p.stop)
	}
	if p.watcher != nil {
		_ = p.watcher.close()
	}
	p.wg.Wait()
}
