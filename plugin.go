package hollowmere

// ActionSource re-materializes actions from their persisted tagged-JSON
// form, used when replaying stored events or scheduled futures (spec.md
// §4.8). A plugin may contribute more than one source.
type ActionSource interface {
	// TryDeserializeAction returns (action, true) if t's key is one this
	// source recognizes, else (nil, false).
	TryDeserializeAction(t TaggedJSON) (Action, bool)
}

// Plugin is the contract every content pack satisfies to extend the
// core with verbs. Grounded on the teacher's actions/actions.go
// name-keyed registry (RegisterAction/actionsRegistry), generalized
// from "one global map of named actions" to "an ordered list of
// plugins each contributing parsers, middleware, and a deserializer
// registry keyed by tagged-JSON variant key" (spec.md §4.8).
type Plugin interface {
	// PluginKey uniquely identifies this plugin.
	PluginKey() string

	// Initialize is called once per session activation, before any
	// work; plugins register their hooks here.
	Initialize(session *Session, hooks *HookRegistry) error

	// Middleware returns this plugin's ordered middleware, appended
	// before the built-ins.
	Middleware(session *Session) []Middleware

	// TryParseAction attempts to parse text into one of this plugin's
	// actions. Parsers within and across plugins are tried in
	// registration order; the first non-nil result wins.
	TryParseAction(text string) (Action, bool)

	// Sources returns this plugin's ActionSources, used to
	// re-materialize actions and events from persisted tagged JSON.
	Sources() []ActionSource

	// Deliver receives a cross-plugin or external event.
	Deliver(session *Session, incoming Incoming) error

	// HaveSurroundings is a hot-path notification, called once
	// surroundings have been expanded for a perform; plugins that do
	// not need it may no-op.
	HaveSurroundings(session *Session, surroundings Surroundings)

	// Stop is called at session close, before the commit algorithm's
	// remaining steps run.
	Stop(session *Session) error
}

// PluginHost aggregates every registered Plugin's contributions: a
// single try-parse-action used by EvaluateAndPerformAs, a deserializer
// registry for re-materializing actions from tagged JSON, collected
// middleware (plugin-contributed, in registration order, with built-ins
// appended), and Deliver routing to every plugin (spec.md §4.8's Host
// responsibilities).
type PluginHost struct {
	plugins []Plugin
}

// NewPluginHost builds a host from plugins in registration order; that
// order governs parser-priority (spec.md §8 testable property 7).
func NewPluginHost(plugins ...Plugin) *PluginHost {
	return &PluginHost{plugins: plugins}
}

// Plugins returns the registered plugins in registration order.
func (h *PluginHost) Plugins() []Plugin { return h.plugins }

// Initialize calls Initialize on every plugin in registration order.
func (h *PluginHost) Initialize(session *Session, hooks *HookRegistry) error {
	for _, p := range h.plugins {
		if err := p.Initialize(session, hooks); err != nil {
			return err
		}
	}
	return nil
}

// Middleware collects every plugin's middleware, in registration order.
func (h *PluginHost) Middleware(session *Session) []Middleware {
	var out []Middleware
	for _, p := range h.plugins {
		out = append(out, p.Middleware(session)...)
	}
	return out
}

// TryParseAction tries each plugin's parser in registration order,
// returning the first non-nil result (spec.md §4.8).
func (h *PluginHost) TryParseAction(text string) (Action, bool) {
	for _, p := range h.plugins {
		if a, ok := p.TryParseAction(text); ok {
			return a, true
		}
	}
	return nil, false
}

// TryDeserializeAction tries every plugin's sources in registration
// order, returning the first one that claims t.
func (h *PluginHost) TryDeserializeAction(t TaggedJSON) (Action, bool) {
	for _, p := range h.plugins {
		for _, src := range p.Sources() {
			if a, ok := src.TryDeserializeAction(t); ok {
				return a, true
			}
		}
	}
	return nil, false
}

// Deliver routes incoming to every plugin; the first error aborts
// delivery to the remaining plugins (matching the session's general
// fail-fast-and-rollback policy).
func (h *PluginHost) Deliver(session *Session, incoming Incoming) error {
	for _, p := range h.plugins {
		if err := p.Deliver(session, incoming); err != nil {
			return err
		}
	}
	return nil
}

// HaveSurroundings notifies every plugin.
func (h *PluginHost) HaveSurroundings(session *Session, surroundings Surroundings) {
	for _, p := range h.plugins {
		p.HaveSurroundings(session, surroundings)
	}
}

// Stop calls Stop on every plugin in registration order, collecting
// (not stopping early on) the first error, since commit-step 1 requires
// every plugin be given the chance to flush its own state even if an
// earlier one failed.
func (h *PluginHost) Stop(session *Session) error {
	var first error
	for _, p := range h.plugins {
		if err := p.Stop(session); err != nil && first == nil {
			first = err
		}
	}
	return first
}
