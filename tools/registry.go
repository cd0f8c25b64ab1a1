package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	jschema "github.com/google/jsonschema-go/jsonschema"
	"github.com/petasbytes/go-toolcall/internal/config"
)

// ErrUnknownTool is returned when a name has no registered tool.
var ErrUnknownTool = errors.New("tool not found")

type entry struct {
	def    ToolDefinition
	schema *jschema.Resolved
}

// Registry holds the fixed tool set for a process. It is not safe for
// concurrent registration; lookups after setup are read-only.
type Registry struct {
	order []string
	byKey map[string]entry
}

// NewRegistry registers defs in order.
func NewRegistry(defs ...ToolDefinition) (*Registry, error) {
	r := &Registry{byKey: make(map[string]entry, len(defs))}
	for _, d := range defs {
		if err := r.Register(d); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Default returns a registry with every built-in tool, wired from cfg.
func Default(cfg config.Config) (*Registry, error) {
	client := &http.Client{Timeout: cfg.Weather.Timeout}
	return NewRegistry(MultiplyDefinition, NewWeatherTool(client, cfg.Weather.BaseURL))
}

// Register compiles the tool's input schema and adds it. Registering a name
// twice replaces the earlier definition but keeps its position.
func (r *Registry) Register(def ToolDefinition) error {
	if def.Name == "" {
		return fmt.Errorf("register: tool name is empty")
	}
	if def.Function == nil {
		return fmt.Errorf("register %s: nil function", def.Name)
	}
	resolved, err := compileSchema(def.InputSchema)
	if err != nil {
		return fmt.Errorf("register %s: %w", def.Name, err)
	}
	if _, ok := r.byKey[def.Name]; !ok {
		r.order = append(r.order, def.Name)
	}
	r.byKey[def.Name] = entry{def: def, schema: resolved}
	return nil
}

// Lookup returns the tool registered under name.
func (r *Registry) Lookup(name string) (ToolDefinition, bool) {
	e, ok := r.byKey[name]
	return e.def, ok
}

// Definitions returns the registered tools in registration order.
func (r *Registry) Definitions() []ToolDefinition {
	out := make([]ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byKey[name].def)
	}
	return out
}

// Subset returns a registry holding only the named tools, keeping their order
// here. Unknown names yield ErrUnknownTool.
func (r *Registry) Subset(names ...string) (*Registry, error) {
	out := &Registry{byKey: make(map[string]entry, len(names))}
	for _, name := range names {
		e, ok := r.byKey[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
		}
		if _, dup := out.byKey[name]; !dup {
			out.order = append(out.order, name)
		}
		out.byKey[name] = e
	}
	return out, nil
}

// Invoke validates args against the named tool's schema and then runs it.
// Schema mismatches are returned as *ValidationError and the handler is not called.
func (r *Registry) Invoke(ctx context.Context, name string, args json.RawMessage) (string, error) {
	e, ok := r.byKey[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}
	var instance any
	if err := json.Unmarshal(args, &instance); err != nil {
		return "", &ValidationError{Tool: name, Err: err}
	}
	if _, isObject := instance.(map[string]any); !isObject {
		return "", &ValidationError{Tool: name, Err: fmt.Errorf("arguments must be a JSON object")}
	}
	if err := e.schema.Validate(instance); err != nil {
		return "", &ValidationError{Tool: name, Err: err}
	}
	return e.def.Function(ctx, args)
}

// compileSchema resolves the advertised input schema so the model and the
// validator share one source of truth.
func compileSchema(in any) (*jschema.Resolved, error) {
	raw, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	var s jschema.Schema
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode schema: %w", err)
	}
	resolved, err := s.Resolve(nil)
	if err != nil {
		return nil, fmt.Errorf("resolve schema: %w", err)
	}
	return resolved, nil
}
