package provider

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/petasbytes/go-toolcall/internal/config"
	"github.com/petasbytes/go-toolcall/tools"
	"github.com/sashabaranov/go-openai"
)

// GeminiBaseURL is Gemini's OpenAI-compatible chat-completions root.
const GeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai"

// GeminiModel calls Gemini through its OpenAI-compatible endpoint.
type GeminiModel struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	tools       []openai.Tool
}

func newGemini(cfg config.Config, defs []tools.ToolDefinition, o options) (*GeminiModel, error) {
	oc := openai.DefaultConfig(cfg.APIKey)
	oc.BaseURL = GeminiBaseURL
	if o.baseURL != "" {
		oc.BaseURL = o.baseURL
	}
	if o.httpClient != nil {
		oc.HTTPClient = o.httpClient
	}
	fns, err := geminiTools(defs)
	if err != nil {
		return nil, err
	}
	return &GeminiModel{
		client:      openai.NewClientWithConfig(oc),
		model:       cfg.Model,
		temperature: float32(cfg.Temperature),
		maxTokens:   int(cfg.MaxTokens),
		tools:       fns,
	}, nil
}

func geminiTools(defs []tools.ToolDefinition) ([]openai.Tool, error) {
	out := make([]openai.Tool, 0, len(defs))
	for _, t := range defs {
		// Gemini function declarations reject additionalProperties; the
		// registry still enforces it locally.
		schema := t.InputSchema
		schema.ExtraFields = nil
		params, err := json.Marshal(schema)
		if err != nil {
			return nil, fmt.Errorf("gemini: schema for %s: %w", t.Name, err)
		}
		out = append(out, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  json.RawMessage(params),
			},
		})
	}
	return out, nil
}

func (m *GeminiModel) Invoke(ctx context.Context, req Request) (*Response, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	msgs := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)
	if req.System != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: req.System})
	}
	for _, msg := range req.Messages {
		role := openai.ChatMessageRoleUser
		if msg.Role == RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		msgs = append(msgs, openai.ChatCompletionMessage{Role: role, Content: msg.Text})
	}

	creq := openai.ChatCompletionRequest{
		Model:       m.model,
		Messages:    msgs,
		Temperature: m.temperature,
		MaxTokens:   m.maxTokens,
	}
	if len(m.tools) > 0 {
		creq.Tools = m.tools
	}

	resp, err := m.client.CreateChatCompletion(ctx, creq)
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, ErrEmptyResponse
	}
	choice := resp.Choices[0]
	out := &Response{
		Text:       choice.Message.Content,
		StopReason: string(choice.FinishReason),
	}
	for _, tc := range choice.Message.ToolCalls {
		out.ToolCalls = append(out.ToolCalls, ToolCall{
			ID:    tc.ID,
			Name:  tc.Function.Name,
			Input: json.RawMessage(tc.Function.Arguments),
		})
	}
	return out, nil
}
