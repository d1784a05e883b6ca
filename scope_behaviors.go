package hollowmere

// Behaviors attaches scripting language runtimes to an entity: a map
// keyed by language name, each with an entry-point path, optional
// opaque persisted state, and a rolling log tail. Spec §4.3 and the
// Non-goals ("does not prescribe ... scripting runtime internals")
// place evaluation of these scripts out of core scope; the behavior
// loader (package behaviors) only discovers and hot-reloads the source
// files these entries name.
type Behaviors struct {
	Langs map[string]BehaviorLang `json:"langs,omitempty"`
}

func (Behaviors) ScopeKey() string { return "behaviors" }

// BehaviorLang is one scripting attachment.
type BehaviorLang struct {
	Entry string   `json:"entry"`
	State *string  `json:"state,omitempty"`
	Logs  []string `json:"logs,omitempty"`
}

// AppendLog appends a line to lang's rolling log, capped at 200 entries
// (oldest dropped first) so a runaway script cannot grow an entity's
// scope data without bound.
func (b *Behaviors) AppendLog(lang, line string) {
	if b.Langs == nil {
		b.Langs = map[string]BehaviorLang{}
	}
	l := b.Langs[lang]
	l.Logs = append(l.Logs, line)
	const maxLogs = 200
	if len(l.Logs) > maxLogs {
		l.Logs = l.Logs[len(l.Logs)-maxLogs:]
	}
	b.Langs[lang] = l
}
