package actorai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hollowmere/kernel"
)

const thinkActionKey = "actorai.think"

// ThinkAction asks an AI-driven actor's configured provider what to do
// next, performs its answer as an ordinary free-text command, and
// reschedules itself so the actor keeps thinking at its configured
// interval. Grounded on plugins/core's SaveHelpAction/coreSource round
// trip (a tagged-JSON scheduled action re-materialized by an
// ActionSource rather than parsed from player text) and on
// Session.Tick's best-effort actor resolution, which treats a due
// future's own key as the acting entity when one resolves.
type ThinkAction struct {
	plugin *Plugin
}

func (ThinkAction) IsReadOnly() bool { return false }

func (a ThinkAction) Perform(session *hollowmere.Session, s hollowmere.Surroundings) (hollowmere.Effect, error) {
	actor := s.Actor
	if actor == nil {
		return hollowmere.NewEffectOk(), nil
	}

	if !actor.HasScope((hollowmere.AIActor{}).ScopeKey()) {
		// The actor's AIActor attachment was removed since this think
		// cycle was scheduled; nothing to do, and nothing to reschedule.
		return hollowmere.NewEffectOk(), nil
	}
	ai, err := hollowmere.ScopeOf[hollowmere.AIActor](actor)
	if err != nil {
		return hollowmere.NewEffectOk(), nil
	}

	if !ai.Paused {
		a.act(session, actor, s, ai)
	}

	a.reschedule(session, actor.Key, ai)
	return hollowmere.NewEffectOk(), nil
}

func (a ThinkAction) act(session *hollowmere.Session, actor *hollowmere.Entity, s hollowmere.Surroundings, ai hollowmere.AIActor) {
	d, err := a.plugin.resolveDecider(ai.Provider)
	if err != nil {
		return
	}

	model := ai.Model
	if model == "" {
		model = a.plugin.config.DefaultModel
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	command, err := d.decide(ctx, model, ai.Instructions, summarizeSituation(actor, s))
	if err != nil {
		return
	}
	command = strings.TrimSpace(command)
	if command == "" {
		return
	}

	// A command the actor itself chose to issue that fails to parse or
	// errors is not a reason to abort the think cycle; it just thinks
	// again next interval.
	_, _, _ = session.EvaluateAndPerformAs(hollowmere.EvaluateAsKey(actor.Key), command)
}

func (a ThinkAction) reschedule(session *hollowmere.Session, actor hollowmere.EntityKey, ai hollowmere.AIActor) {
	interval := time.Duration(ai.IntervalSeconds) * time.Second
	if interval <= 0 {
		interval = defaultInterval
	}
	_ = session.Schedule(string(actor), time.Now().Add(interval), thinkActionKey, struct{}{})
}

// summarizeSituation builds the short, model-facing prompt describing
// what an actor currently perceives: its surroundings, who else is
// there, and its most recent remembered events. Grounded on the
// Memory/Occupying scopes already attached to living entities rather
// than any teacher prompt-templating code, since no example repo builds
// a game-world situation prompt.
func summarizeSituation(actor *hollowmere.Entity, s hollowmere.Surroundings) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are %s.\n", actor.Name())

	if s.Area != nil {
		fmt.Fprintf(&b, "You are in %s.\n", s.Area.Name())
		if occ, err := hollowmere.ScopeOf[hollowmere.Occupyable](s.Area); err == nil {
			var others []string
			for _, ref := range occ.Occupied {
				if ref.Key == actor.Key {
					continue
				}
				others = append(others, ref.Name)
			}
			if len(others) > 0 {
				fmt.Fprintf(&b, "Also here: %s.\n", strings.Join(others, ", "))
			}
		}
	}

	if mem, err := hollowmere.ScopeOf[hollowmere.Memory](actor); err == nil && len(mem.Entries) > 0 {
		const recent = 5
		start := 0
		if len(mem.Entries) > recent {
			start = len(mem.Entries) - recent
		}
		b.WriteString("Recent events:\n")
		for _, entry := range mem.Entries[start:] {
			fmt.Fprintf(&b, "- %s\n", string(entry.Event))
		}
	}

	return b.String()
}
