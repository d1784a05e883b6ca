// Package actorai is the optional remote-actor bridge: it gives a
// living entity carrying an AIActor scope an LLM-driven decision loop
// (OpenAI or Google Gemini choosing its next command text each think
// cycle) and, separately, an MCP server with two tools, act and
// release, through which an external client issues commands as a named
// AI-driven actor, pausing the LLM loop for that actor until release.
//
// Grounded on the teacher's provider packages (llm/providers/openai,
// llm/providers/google) for client construction and on mcp/
// tool_adapter.go's MCP vocabulary for the server-side mirror of the
// same dependency.
package actorai

import "time"

const defaultInterval = 30 * time.Second

// Config configures one actorai.Plugin.
type Config struct {
	// OpenAIAPIKey and GoogleAPIKey configure the two built-in
	// providers. Either may be empty if that provider is never named by
	// an actor's AIActor.Provider field.
	OpenAIAPIKey string
	GoogleAPIKey string

	// DefaultModel is used for actors whose AIActor.Model is empty.
	DefaultModel string

	// MCPAddr, if non-empty, starts the MCP tool-server bridge
	// listening on this address (e.g. ":8420"). Left empty, no MCP
	// server is started and every AI-driven actor is purely
	// LLM-controlled.
	MCPAddr string
}

func (c Config) withDefaults() Config {
	if c.DefaultModel == "" {
		c.DefaultModel = "gpt-4o-mini"
	}
	return c
}
