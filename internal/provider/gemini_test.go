package provider_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/petasbytes/go-toolcall/internal/config"
	"github.com/petasbytes/go-toolcall/internal/provider"
	"github.com/petasbytes/go-toolcall/tools"
)

type geminiServer struct {
	calls int
	path  string
	auth  string
	body  []byte
}

func newGeminiServer(t *testing.T, status int, resp string) (*httptest.Server, *geminiServer) {
	t.Helper()
	gs := &geminiServer{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gs.calls++
		gs.path = r.URL.Path
		gs.auth = r.Header.Get("Authorization")
		gs.body, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(resp))
	}))
	t.Cleanup(srv.Close)
	return srv, gs
}

func newGemini(t *testing.T, srv *httptest.Server, defs []tools.ToolDefinition) provider.Model {
	t.Helper()
	m, err := provider.New(testConfig(config.ProviderGemini), defs,
		provider.WithBaseURL(srv.URL+"/v1beta/openai"), provider.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	return m
}

func TestGemini_RequestShape(t *testing.T) {
	srv, gs := newGeminiServer(t, 200, `{"choices":[{"index":0,"message":{"role":"assistant","content":"Fun fact!"},"finish_reason":"stop"}]}`)
	m := newGemini(t, srv, []tools.ToolDefinition{tools.MultiplyDefinition})

	out, err := m.Invoke(context.Background(), provider.Request{
		System:   "You are a trivia bot.",
		Messages: []provider.Message{{Role: provider.RoleUser, Text: "Please share a fun fact or trivia question."}},
	})
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if out.Text != "Fun fact!" || len(out.ToolCalls) != 0 || out.StopReason != "stop" {
		t.Fatalf("unexpected response: %+v", out)
	}
	if gs.path != "/v1beta/openai/chat/completions" {
		t.Errorf("path = %q", gs.path)
	}
	if gs.auth != "Bearer test-key" {
		t.Errorf("authorization = %q", gs.auth)
	}

	var body struct {
		Model       string  `json:"model"`
		Temperature float64 `json:"temperature"`
		Messages    []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
		Tools []struct {
			Type     string `json:"type"`
			Function struct {
				Name       string         `json:"name"`
				Parameters map[string]any `json:"parameters"`
			} `json:"function"`
		} `json:"tools"`
	}
	if err := json.Unmarshal(gs.body, &body); err != nil {
		t.Fatalf("unmarshal: %v\nbody=%s", err, gs.body)
	}
	if body.Model != "gemini-2.0-flash" {
		t.Errorf("model = %q", body.Model)
	}
	if body.Temperature < 0.69 || body.Temperature > 0.71 {
		t.Errorf("temperature = %v", body.Temperature)
	}
	if len(body.Messages) != 2 || body.Messages[0].Role != "system" || body.Messages[1].Role != "user" {
		t.Fatalf("messages = %+v", body.Messages)
	}
	if len(body.Tools) != 1 || body.Tools[0].Type != "function" || body.Tools[0].Function.Name != "multiply" {
		t.Fatalf("tools = %+v", body.Tools)
	}
	if body.Tools[0].Function.Parameters["type"] != "object" {
		t.Errorf("parameters = %v", body.Tools[0].Function.Parameters)
	}
	if _, ok := body.Tools[0].Function.Parameters["additionalProperties"]; ok {
		t.Errorf("gemini parameters should not carry additionalProperties: %v", body.Tools[0].Function.Parameters)
	}
}

func TestGemini_ParsesOrderedToolCalls(t *testing.T) {
	resp := `{"choices":[{"index":0,"finish_reason":"tool_calls","message":{"role":"assistant","content":"",
	"tool_calls":[
		{"id":"c1","type":"function","function":{"name":"multiply","arguments":"{\"a\":15,\"b\":23}"}},
		{"id":"c2","type":"function","function":{"name":"divide","arguments":"{}"}}
	]}}]}`
	srv, _ := newGeminiServer(t, 200, resp)
	m := newGemini(t, srv, []tools.ToolDefinition{tools.MultiplyDefinition})

	out, err := m.Invoke(context.Background(), provider.Request{Messages: []provider.Message{{Role: provider.RoleUser, Text: "q"}}})
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if len(out.ToolCalls) != 2 || out.ToolCalls[0].Name != "multiply" || out.ToolCalls[1].Name != "divide" {
		t.Fatalf("tool calls = %+v", out.ToolCalls)
	}
	if string(out.ToolCalls[0].Input) != `{"a":15,"b":23}` {
		t.Errorf("input = %s", out.ToolCalls[0].Input)
	}
}

func TestGemini_EmptyChoices(t *testing.T) {
	srv, _ := newGeminiServer(t, 200, `{"choices":[]}`)
	m := newGemini(t, srv, nil)
	_, err := m.Invoke(context.Background(), provider.Request{Messages: []provider.Message{{Role: provider.RoleUser, Text: "q"}}})
	if !errors.Is(err, provider.ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}
}

func TestGemini_APIError_Propagates(t *testing.T) {
	srv, gs := newGeminiServer(t, 429, `{"error":{"message":"quota exceeded","type":"rate_limit","code":429}}`)
	m := newGemini(t, srv, nil)
	_, err := m.Invoke(context.Background(), provider.Request{Messages: []provider.Message{{Role: provider.RoleUser, Text: "q"}}})
	if err == nil {
		t.Fatal("expected API error")
	}
	if gs.calls != 1 {
		t.Fatalf("expected a single attempt, got %d", gs.calls)
	}
}
