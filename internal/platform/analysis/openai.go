package analysis

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
)

// OpenAIClient calls an OpenAI-compatible chat completion endpoint with a
// strict JSON-schema response format. One attempt per call: no retry, no
// backoff, no caching. Identical input always issues a new request.
type OpenAIClient struct {
	client *openai.Client
	model  string
	logger zerolog.Logger
}

// NewOpenAIClient constructs an analysis client. baseURL may be empty to use
// the provider default; model must name a schema-capable chat model.
func NewOpenAIClient(apiKey, baseURL, model string, logger zerolog.Logger) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIClient{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		logger: logger,
	}
}

// Analyze sends the narrative to the analysis service and returns the parsed
// report. Any failure, whether transport, empty body, or malformed payload,
// surfaces as ErrUnavailable; the underlying cause is logged only.
func (c *OpenAIClient) Analyze(ctx context.Context, rawText string) (*Analysis, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt(rawText)},
		},
		Temperature: 0.2,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "clinical_intake_report",
				Schema: &reportSchema,
				Strict: true,
			},
		},
	})
	if err != nil {
		c.logger.Error().Err(err).Msg("analysis request failed")
		return nil, ErrUnavailable
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		c.logger.Error().Msg("analysis service returned no content")
		return nil, ErrUnavailable
	}

	var a Analysis
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &a); err != nil {
		c.logger.Error().Err(err).Msg("analysis payload is not valid JSON")
		return nil, ErrUnavailable
	}
	return &a, nil
}
