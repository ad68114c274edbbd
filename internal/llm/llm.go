package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const systemInstruction = "You are an assessment engine. Output only JSON. Never include prose, markdown or explanations outside the JSON payload."

// Client wraps an OpenAI-compatible chat-completions API. One outbound call
// per invocation, no retries; any transport or envelope failure surfaces as
// a single wrapped error.
type Client struct {
	api   *openai.Client
	model string
}

func New(baseURL, apiKey, model string) *Client {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	config.HTTPClient = &http.Client{
		Timeout: 120 * time.Second, // LLM responses can be slow
	}
	return &Client{
		api:   openai.NewClientWithConfig(config),
		model: model,
	}
}

// Complete sends the built prompt as the user turn with a fixed
// output-only-JSON system instruction, requesting the provider's structured
// JSON mode, and returns the first completion text unprocessed.
func (c *Client) Complete(ctx context.Context, userPrompt string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemInstruction},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0.4,
	})
	if err != nil {
		return "", fmt.Errorf("LLM API call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("LLM returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
