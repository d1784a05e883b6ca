package hollowmere

// AIActor attaches a remote decision loop to a living entity: which
// provider picks its next command, what it's told about its role, and
// how often it's asked to think again. Grounded on SPEC_FULL.md's
// "Remote actor bridge" row — the actorai package is the only consumer,
// kept here (rather than in that package) so it serializes through the
// same entity scope map as every other attachment (spec §4.3).
type AIActor struct {
	Provider     string `json:"provider"`
	Model        string `json:"model,omitempty"`
	Instructions string `json:"instructions,omitempty"`

	// IntervalSeconds spaces out successive think cycles; defaults to
	// 30 if zero.
	IntervalSeconds int `json:"intervalSeconds,omitempty"`

	// Paused makes each think cycle skip asking the provider and
	// performing a command, without removing the attachment, e.g. while
	// an external MCP client has taken over driving this actor. Paused
	// cycles still reschedule themselves, so clearing Paused resumes
	// the loop.
	Paused bool `json:"paused,omitempty"`
}

func (AIActor) ScopeKey() string { return "aiActor" }
