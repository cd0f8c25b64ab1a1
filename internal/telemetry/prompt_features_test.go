package telemetry_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/petasbytes/go-toolcall/internal/telemetry"
)

func lastEvent(t *testing.T, dir string) map[string]any {
	t.Helper()
	lines := readLines(t, dir)
	var m map[string]any
	if err := json.Unmarshal([]byte(lines[len(lines)-1]), &m); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	return m
}

func TestEmitPromptFeatures_HappyPath(t *testing.T) {
	dir := observeInto(t)
	ctx := telemetry.WithTurnID(context.Background(), "turn-xyz")

	telemetry.EmitPromptFeatures(ctx, "héllö 世界") // bytes=14, runes=8, words=2, lines=1

	m := lastEvent(t, dir)
	if m["event"] != "prompt_features" || m["turn_id"] != "turn-xyz" {
		t.Fatalf("unexpected event: %#v", m)
	}
	p, ok := m["prompt"].(map[string]any)
	if !ok {
		t.Fatalf("prompt field missing or wrong type: %T", m["prompt"])
	}
	if p["bytes"] != float64(14) || p["runes"] != float64(8) || p["words"] != float64(2) || p["lines"] != float64(1) {
		t.Fatalf("features mismatch: %#v", p)
	}
}

func TestEmitPromptFeatures_ObserveOff_NoEvent(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("AGT_ARTIFACTS_DIR", dir)
	t.Setenv("AGT_OBSERVE_JSON", "0")

	telemetry.EmitPromptFeatures(context.Background(), "some text")

	if _, err := os.Stat(filepath.Join(dir, "events.jsonl")); !os.IsNotExist(err) {
		t.Fatalf("expected no events.jsonl when observe=0, got err=%v", err)
	}
}

func TestEmitPromptFeatures_NoRawTextLeakage(t *testing.T) {
	dir := observeInto(t)
	prompt := "What is 15 multiplied by 23?"

	telemetry.EmitPromptFeatures(context.Background(), prompt)

	b, err := os.ReadFile(filepath.Join(dir, "events.jsonl"))
	if err != nil {
		t.Fatalf("read events: %v", err)
	}
	if strings.Contains(string(b), "multiplied") {
		t.Fatalf("raw prompt text found in events.jsonl: %s", b)
	}
}
