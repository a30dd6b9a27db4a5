package tasks

import (
	"fmt"
)

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
	FetchDetails Phase = iota
	FetchExtras
	WriteFiles
)

func (p Phase) String() string {
	switch p {
	case FetchDetails:
		return "fetch_details"
	case FetchExtras:
		return "fetch_extras"
	case WriteFiles:
		return "write_files"
	default:
		return ""
	}
}

func fetchingDetailsUpdate(step, total, movieID int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchDetails,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Fetching movie %d...", step, total, movieID),
	}
}

func movieCompletedUpdate(step, total int, res MovieResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchExtras,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s", step, total, res.Title),
		Data:    res.Record,
	}
}

func movieFailedUpdate(step, total int, res MovieResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchExtras,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, res.Title, res.Error),
	}
}

func writingFilesUpdate(format string, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteFiles,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Writing %d movies as %s...", count, format),
	}
}
