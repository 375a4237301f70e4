package tasks

import "fmt"

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchChildren Phase = iota
	FetchLogs
	WriteExport
)

func (p Phase) String() string {
	switch p {
	case FetchChildren:
		return "fetch_children"
	case FetchLogs:
		return "fetch_logs"
	case WriteExport:
		return "write_export"
	default:
		return ""
	}
}

// sendProgress delivers u without blocking; updates are dropped when nobody is listening.
func sendProgress(prog chan<- ProgressUpdate, u ProgressUpdate) {
	if prog == nil {
		return
	}
	select {
	case prog <- u:
	default:
	}
}

func fetchChildrenUpdate() ProgressUpdate {
	return ProgressUpdate{Phase: FetchChildren, Step: 0, Total: 1, Message: "Fetching children..."}
}

func foundChildrenUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchChildren,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Found %d children", total),
	}
}

func fetchLogsUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchLogs,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Fetching reading log: %s...", step, total, name),
	}
}

func exportCompletedUpdate(step, total int, name string, books int, path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteExport,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d books)", step, total, name, books),
		Data:    path,
	}
}

func exportFailedUpdate(step, total int, name string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteExport,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, name, err),
	}
}
