package hollowmere

import (
	"encoding/json"
	"time"
)

// Memory is an actor's log of events it has witnessed, consulted by
// NPC plugins (actorai) and behavior scripts (spec §4.3).
type Memory struct {
	Entries []MemoryEntry `json:"entries,omitempty"`
}

func (Memory) ScopeKey() string { return "memory" }

// MemoryEntry pairs a timestamp with the raised event's tagged-JSON
// payload, kept opaque here since the memory scope has no business
// decoding event-specific fields.
type MemoryEntry struct {
	Time  time.Time       `json:"time"`
	Event json.RawMessage `json:"event"`
}

// Remember appends an entry, capped at 500 so an actor's memory scope
// cannot grow unbounded over a long session.
func (m *Memory) Remember(when time.Time, event json.RawMessage) {
	m.Entries = append(m.Entries, MemoryEntry{Time: when, Event: event})
	const maxEntries = 500
	if len(m.Entries) > maxEntries {
		m.Entries = m.Entries[len(m.Entries)-maxEntries:]
	}
}
