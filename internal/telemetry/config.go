package telemetry

import "os"

const defaultArtifactsDir = ".agent"

// ObserveEnabled reports whether JSONL emission is on (AGT_OBSERVE_JSON=1).
// It is read on every call so tests can toggle it with t.Setenv.
func ObserveEnabled() bool {
	return os.Getenv("AGT_OBSERVE_JSON") == "1"
}

// ArtifactsDir is where events.jsonl is written: AGT_ARTIFACTS_DIR, else .agent.
func ArtifactsDir() string {
	if d := os.Getenv("AGT_ARTIFACTS_DIR"); d != "" {
		return d
	}
	return defaultArtifactsDir
}
