// Package telemetry records one tool-calling run as opt-in JSONL events:
// model_call, tool_exec, tool_skipped, dispatch_summary and prompt_features.
// Events carry names, sizes and durations only. Prompt text and tool arguments
// never reach the file.
package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const eventsFile = "events.jsonl"

// EventsPath is the file events are appended to.
func EventsPath() string {
	return filepath.Join(ArtifactsDir(), eventsFile)
}

// Emit appends the named event to EventsPath when AGT_OBSERVE_JSON=1.
// Failures go to stderr; a run never fails because of telemetry.
func Emit(name string, fields map[string]any) {
	if !ObserveEnabled() {
		return
	}
	line, err := encodeEvent(name, fields, time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "telemetry: encode %s: %v\n", name, err)
		return
	}
	if err := appendLine(EventsPath(), line); err != nil {
		fmt.Fprintf(os.Stderr, "telemetry: %v\n", err)
	}
}

// encodeEvent stamps a copy of fields with the event name and UTC time.
func encodeEvent(name string, fields map[string]any, at time.Time) ([]byte, error) {
	ev := make(map[string]any, len(fields)+2)
	for k, v := range fields {
		ev[k] = v
	}
	ev["event"] = name
	ev["time"] = at.UTC().Format(time.RFC3339Nano)
	b, err := json.Marshal(ev)
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

func appendLine(path string, line []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	if _, err := f.Write(line); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
