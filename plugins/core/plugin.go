package core

import "github.com/hollowmere/kernel"

// Plugin is the baseline content pack every hollowmere world loads:
// looking, moving, carrying, fashion, and help verbs. Grounded on the
// teacher's actions/actions.go registry shape, generalized per
// hollowmere.Plugin's contract (plugin.go) to an ordered parser list
// plus a small deserializer registry for the two actions
// (SaveHelpAction, SaveQuickEditAction) that are reached by tagged-JSON
// round-trip rather than free text.
type Plugin struct {
	hooks *hollowmere.HookRegistry
}

// New constructs the core content pack.
func New() *Plugin { return &Plugin{} }

func (*Plugin) PluginKey() string { return "core" }

func (p *Plugin) Initialize(session *hollowmere.Session, hooks *hollowmere.HookRegistry) error {
	p.hooks = hooks
	return nil
}

func (p *Plugin) Middleware(session *hollowmere.Session) []hollowmere.Middleware {
	return nil
}

func (p *Plugin) TryParseAction(text string) (hollowmere.Action, bool) {
	return p.tryParse(text)
}

func (p *Plugin) Sources() []hollowmere.ActionSource {
	return []hollowmere.ActionSource{coreSource{}}
}

func (p *Plugin) Deliver(session *hollowmere.Session, incoming hollowmere.Incoming) error {
	return nil
}

func (p *Plugin) HaveSurroundings(session *hollowmere.Session, surroundings hollowmere.Surroundings) {
}

func (p *Plugin) Stop(session *hollowmere.Session) error { return nil }

// coreSource re-materializes the actions this plugin persists as tagged
// JSON rather than parsing from text: a submitted help-page edit and a
// submitted entity quick edit (spec.md §4.8's deserializer-registry
// mechanism).
type coreSource struct{}

func (coreSource) TryDeserializeAction(t hollowmere.TaggedJSON) (hollowmere.Action, bool) {
	switch t.Key {
	case saveHelpKey:
		var action SaveHelpAction
		if err := t.Decode(&action); err != nil {
			return nil, false
		}
		return action, true
	case saveQuickEditKey:
		var action SaveQuickEditAction
		if err := t.Decode(&action); err != nil {
			return nil, false
		}
		return action, true
	default:
		return nil, false
	}
}
