// Package provider wraps hosted chat-completion APIs behind one Model interface.
//
// A Model is told which tools exist so the remote model may request them; it
// never runs a tool itself. Each Invoke is a single request: no retries, no
// conversation state.
package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/petasbytes/go-toolcall/internal/config"
	"github.com/petasbytes/go-toolcall/tools"
)

// ErrEmptyResponse is returned when the API answers without any message.
var ErrEmptyResponse = errors.New("provider: empty response")

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role Role
	Text string
}

// Request is one chat invocation: an optional system instruction plus messages.
type Request struct {
	System   string
	Messages []Message
}

// ToolCall is a model-emitted request to run a named tool.
type ToolCall struct {
	ID    string
	Name  string
	Input json.RawMessage
}

// Response carries the model's text and its requested tool calls in the order returned.
type Response struct {
	Text       string
	ToolCalls  []ToolCall
	StopReason string
}

type Model interface {
	Invoke(ctx context.Context, req Request) (*Response, error)
}

type options struct {
	httpClient *http.Client
	baseURL    string
}

type Option func(*options)

// WithHTTPClient sets the HTTP client used for API calls.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithBaseURL overrides the API base URL.
func WithBaseURL(u string) Option {
	return func(o *options) { o.baseURL = u }
}

// New constructs the Model selected by cfg.Provider with defs advertised on every call.
// It fails before any network I/O when the API key is missing.
func New(cfg config.Config, defs []tools.ToolDefinition, opts ...Option) (Model, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	switch cfg.Provider {
	case config.ProviderGemini, config.ProviderAnthropic:
	default:
		return nil, fmt.Errorf("%w %q", config.ErrUnknownProvider, cfg.Provider)
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: %s", config.ErrMissingAPIKey, config.APIKeyEnv(cfg.Provider))
	}
	if cfg.Provider == config.ProviderAnthropic {
		return newAnthropic(cfg, defs, o), nil
	}
	g, err := newGemini(cfg, defs, o)
	if err != nil {
		return nil, err
	}
	return g, nil
}

func (r Request) validate() error {
	if len(r.Messages) == 0 {
		return errors.New("provider: request has no messages")
	}
	return nil
}
