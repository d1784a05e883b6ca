package actorai

import (
	"context"
	"fmt"
)

// decider picks the next command for an AI-driven actor given its
// instructions and a text summary of its situation. Implementations
// wrap a specific LLM provider's client.
type decider interface {
	decide(ctx context.Context, model, instructions, situation string) (string, error)
}

// resolveDecider picks the decider named by provider, lazily
// constructing and caching the underlying client. Grounded on the
// teacher's providers.Registry (providers/registry.go)'s name-keyed
// lookup, simplified here to the two providers SPEC_FULL.md names for
// this bridge.
func (p *Plugin) resolveDecider(provider string) (decider, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if d, ok := p.deciders[provider]; ok {
		return d, nil
	}

	var d decider
	switch provider {
	case "openai":
		if p.config.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("actorai: no OpenAI API key configured")
		}
		d = newOpenAIDecider(p.config.OpenAIAPIKey)
	case "google":
		if p.config.GoogleAPIKey == "" {
			return nil, fmt.Errorf("actorai: no Google API key configured")
		}
		d = newGoogleDecider(p.config.GoogleAPIKey)
	default:
		return nil, fmt.Errorf("actorai: unknown provider %q", provider)
	}

	if p.deciders == nil {
		p.deciders = map[string]decider{}
	}
	p.deciders[provider] = d
	return d, nil
}
