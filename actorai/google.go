package actorai

import (
	"context"
	"fmt"
	"sync"

	"google.golang.org/genai"
)

// googleDecider asks Gemini what an actor should do next. Grounded on
// the teacher's llm/providers/google/google.go Provider: the same
// genai.NewClient/ClientConfig construction and the same
// client.Models.GenerateContent(ctx, model, contents, genConfig) call
// shape, narrowed here from the teacher's full multi-turn/tool-calling
// conversion (messagesToContents, convertGoogleResponse) to a single
// system-instruction-plus-user-turn exchange, since a think cycle is
// one question, not a maintained conversation.
type googleDecider struct {
	apiKey string
	mu     sync.Mutex
	client *genai.Client
}

func newGoogleDecider(apiKey string) *googleDecider {
	return &googleDecider{apiKey: apiKey}
}

func (d *googleDecider) decide(ctx context.Context, model, instructions, situation string) (string, error) {
	client, err := d.resolvedClient(ctx)
	if err != nil {
		return "", err
	}

	contents := []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{{Text: situation}},
	}}
	genConfig := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: instructions}}},
	}

	resp, err := client.Models.GenerateContent(ctx, model, contents, genConfig)
	if err != nil {
		return "", fmt.Errorf("actorai/google: generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("actorai/google: empty response")
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Text != "" {
			return part.Text, nil
		}
	}
	return "", fmt.Errorf("actorai/google: response had no text part")
}

func (d *googleDecider) resolvedClient(ctx context.Context) (*genai.Client, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.client != nil {
		return d.client, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: d.apiKey})
	if err != nil {
		return nil, fmt.Errorf("actorai/google: create client: %w", err)
	}
	d.client = client
	return d.client, nil
}
