// Package runner sends one request to the model and dispatches the tool calls
// it asks for.
//
// Invariants:
//   - tool calls are run sequentially in the order the model returned them.
//   - a call naming an unregistered tool is skipped without error unless Strict is set.
//   - validation and handler errors stop dispatch and are returned to the caller.
//
// Flow (single turn, tool results are not sent back to the model):
//
//	request -> model -> [tool_call...] -> registry lookup -> validate -> run -> log
package runner
