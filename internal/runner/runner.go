package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/petasbytes/go-toolcall/internal/metrics"
	"github.com/petasbytes/go-toolcall/internal/prompt"
	"github.com/petasbytes/go-toolcall/internal/provider"
	"github.com/petasbytes/go-toolcall/internal/telemetry"
	"github.com/petasbytes/go-toolcall/tools"
)

type Runner struct {
	Model provider.Model
	Tools *tools.Registry
	// Strict makes an unknown requested tool an error instead of a silent skip.
	Strict bool
	Out    io.Writer
}

func New(model provider.Model, reg *tools.Registry) *Runner {
	return &Runner{Model: model, Tools: reg, Out: os.Stdout}
}

// ToolResult is the output of one dispatched tool call.
type ToolResult struct {
	CallID string
	Name   string
	Output string
}

type Result struct {
	Response    *provider.Response
	ToolResults []ToolResult
	// Skipped lists requested tool names that are not registered, in order.
	Skipped  []string
	Dispatch metrics.Dispatch
}

// Ask sends text as a single user message.
func (r *Runner) Ask(ctx context.Context, text string) (*Result, error) {
	return r.Run(ctx, prompt.Ask(text))
}

// Run invokes the model once and executes the requested tool calls in order.
// On a tool failure the partial Result is returned alongside the error.
func (r *Runner) Run(ctx context.Context, req provider.Request) (*Result, error) {
	ctx, turnID := telemetry.EnsureTurnID(ctx)
	telemetry.EmitPromptFeatures(ctx, promptText(req))

	start := time.Now()
	resp, err := r.Model.Invoke(ctx, req)
	fields := map[string]any{
		"turn_id":     turnID,
		"duration_ms": time.Since(start).Milliseconds(),
		"error":       nil,
	}
	if err != nil {
		fields["error"] = "model error"
		telemetry.Emit("model_call", fields)
		return nil, fmt.Errorf("invoke model: %w", err)
	}
	fields["tool_calls"] = len(resp.ToolCalls)
	fields["stop_reason"] = resp.StopReason
	fields["output_size"] = len(resp.Text)
	telemetry.Emit("model_call", fields)

	if resp.Text != "" {
		r.printf("\u001b[93mModel\u001b[0m: %s\n", resp.Text)
	}

	res := &Result{Response: resp}
	res.Dispatch.Requested = len(resp.ToolCalls)
	defer func() {
		summary := res.Dispatch.Fields()
		summary["turn_id"] = turnID
		telemetry.Emit("dispatch_summary", summary)
	}()

	for _, call := range resp.ToolCalls {
		if _, ok := r.Tools.Lookup(call.Name); !ok {
			telemetry.Emit("tool_skipped", map[string]any{
				"turn_id":   turnID,
				"tool_name": call.Name,
			})
			if r.Strict {
				res.Dispatch.Failed++
				return res, fmt.Errorf("dispatch %q: %w", call.Name, tools.ErrUnknownTool)
			}
			res.Skipped = append(res.Skipped, call.Name)
			res.Dispatch.Skipped++
			continue
		}

		out, err := r.execTool(ctx, turnID, call)
		if err != nil {
			res.Dispatch.Failed++
			return res, fmt.Errorf("dispatch %q: %w", call.Name, err)
		}
		res.Dispatch.Invoked++
		res.ToolResults = append(res.ToolResults, ToolResult{CallID: call.ID, Name: call.Name, Output: out})
		r.printf("\u001b[92mTool %s\u001b[0m: %s\n", call.Name, out)
	}
	return res, nil
}

func (r *Runner) execTool(ctx context.Context, turnID string, call provider.ToolCall) (string, error) {
	start := time.Now()
	out, err := r.Tools.Invoke(ctx, call.Name, call.Input)

	fields := map[string]any{
		"tool_name":   call.Name,
		"duration_ms": time.Since(start).Milliseconds(),
		"input_size":  len(call.Input),
		"output_size": len(out),
		"turn_id":     turnID,
		"error":       nil,
	}
	// Generic error strings only; raw payloads stay out of telemetry.
	var verr *tools.ValidationError
	switch {
	case errors.As(err, &verr):
		fields["error"] = "validation error"
		fields["output_size"] = 0
	case err != nil:
		fields["error"] = "tool error"
		fields["output_size"] = 0
	}
	telemetry.Emit("tool_exec", fields)
	return out, err
}

func (r *Runner) printf(format string, args ...any) {
	if r.Out == nil {
		return
	}
	fmt.Fprintf(r.Out, format, args...)
}

func promptText(req provider.Request) string {
	parts := make([]string, 0, len(req.Messages)+1)
	if req.System != "" {
		parts = append(parts, req.System)
	}
	for _, m := range req.Messages {
		parts = append(parts, m.Text)
	}
	return strings.Join(parts, "\n")
}
