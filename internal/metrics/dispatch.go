package metrics

// Dispatch counts what happened to the tool calls of one model response.
// Requested == Invoked + Skipped + Failed + calls never reached after a failure.
type Dispatch struct {
	Requested int
	Invoked   int
	Skipped   int
	Failed    int
}

// Fields renders the counters for a telemetry event.
func (d Dispatch) Fields() map[string]any {
	return map[string]any{
		"requested": d.Requested,
		"invoked":   d.Invoked,
		"skipped":   d.Skipped,
		"failed":    d.Failed,
	}
}

// Unreached is the number of requested calls that were not attempted because
// an earlier call failed.
func (d Dispatch) Unreached() int {
	n := d.Requested - d.Invoked - d.Skipped - d.Failed
	if n < 0 {
		return 0
	}
	return n
}
