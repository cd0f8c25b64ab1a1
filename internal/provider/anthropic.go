package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/petasbytes/go-toolcall/internal/config"
	"github.com/petasbytes/go-toolcall/tools"
)

const DefaultAnthropicModel = anthropic.ModelClaude3_7SonnetLatest

// AnthropicModel calls the Anthropic Messages API.
type AnthropicModel struct {
	client      anthropic.Client
	model       anthropic.Model
	temperature float64
	maxTokens   int64
	tools       []anthropic.ToolUnionParam
}

func newAnthropic(cfg config.Config, defs []tools.ToolDefinition, o options) *AnthropicModel {
	reqOpts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		// Errors surface to the caller unchanged; nothing is retried locally.
		option.WithMaxRetries(0),
	}
	if o.httpClient != nil {
		reqOpts = append(reqOpts, option.WithHTTPClient(o.httpClient))
	}
	if o.baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(o.baseURL))
	}
	model := anthropic.Model(cfg.Model)
	if cfg.Model == "" {
		model = DefaultAnthropicModel
	}
	return &AnthropicModel{
		client:      anthropic.NewClient(reqOpts...),
		model:       model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		tools:       anthropicTools(defs),
	}
}

func anthropicTools(defs []tools.ToolDefinition) []anthropic.ToolUnionParam {
	out := make([]anthropic.ToolUnionParam, 0, len(defs))
	for _, t := range defs {
		out = append(out, anthropic.ToolUnionParam{OfTool: &anthropic.ToolParam{
			Name:        t.Name,
			Description: anthropic.String(t.Description),
			InputSchema: t.InputSchema,
		}})
	}
	return out
}

func (m *AnthropicModel) Invoke(ctx context.Context, req Request) (*Response, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	msgs := make([]anthropic.MessageParam, 0, len(req.Messages))
	for _, msg := range req.Messages {
		if msg.Role == RoleAssistant {
			msgs = append(msgs, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Text)))
		} else {
			msgs = append(msgs, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Text)))
		}
	}

	params := anthropic.MessageNewParams{
		Model:       m.model,
		MaxTokens:   m.maxTokens,
		Messages:    msgs,
		Temperature: anthropic.Float(m.temperature),
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}
	if len(m.tools) > 0 {
		params.Tools = m.tools
	}

	msg, err := m.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic: %w", err)
	}

	out := &Response{StopReason: string(msg.StopReason)}
	var text []string
	for _, block := range msg.Content {
		switch v := block.AsAny().(type) {
		case anthropic.TextBlock:
			if v.Text != "" {
				text = append(text, v.Text)
			}
		case anthropic.ToolUseBlock:
			// Pass raw JSON input through; the registry validates it.
			out.ToolCalls = append(out.ToolCalls, ToolCall{
				ID:    v.ID,
				Name:  v.Name,
				Input: json.RawMessage(v.JSON.Input.Raw()),
			})
		}
	}
	out.Text = strings.Join(text, "\n")
	return out, nil
}
