package pipeline

import (
	"fmt"

	"github.com/ProfessorGeovaniHenrique/songbook/internal/models"
)

// ProgressUpdate represents a progress event during a batch run.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Run phase
	Step    int    // Items attempted so far
	Total   int    // Total items in this run
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Run phase enumeration
type Phase int

const (
	StartRun Phase = iota
	EnrichItem
	ItemEnriched
	ItemFailed
	RunPaused
	RunResumed
	RunCancelled
	RunCompleted
)

func (p Phase) String() string {
	switch p {
	case StartRun:
		return "start_run"
	case EnrichItem:
		return "enrich_item"
	case ItemEnriched:
		return "item_enriched"
	case ItemFailed:
		return "item_failed"
	case RunPaused:
		return "run_paused"
	case RunResumed:
		return "run_resumed"
	case RunCancelled:
		return "run_cancelled"
	case RunCompleted:
		return "run_completed"
	default:
		return ""
	}
}

func startRunUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   StartRun,
		Step:    0,
		Total:   total,
		Message: fmt.Sprintf("Starting enrichment of %d items...", total),
	}
}

func enrichItemUpdate(step, total int, item *models.MusicItem) ProgressUpdate {
	return ProgressUpdate{
		Phase:   EnrichItem,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s - %s", step, total, item.Artist, item.Title),
	}
}

func itemEnrichedUpdate(step, total int, item *models.MusicItem) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ItemEnriched,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d%% via %s)", step, total, item.Title, item.Confidence, item.Source),
		Data:    item,
	}
}

func itemFailedUpdate(step, total int, item *models.MusicItem, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ItemFailed,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, item.Title, err),
	}
}

func runPausedUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   RunPaused,
		Step:    step,
		Total:   total,
		Message: "Run paused",
	}
}

func runResumedUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   RunResumed,
		Step:    step,
		Total:   total,
		Message: "Run resumed",
	}
}

func runCancelledUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   RunCancelled,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Run cancelled after %d of %d items", step, total),
	}
}

func runCompletedUpdate(result *RunResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   RunCompleted,
		Step:    result.Attempted,
		Total:   result.Total,
		Message: fmt.Sprintf("Run complete: %d enriched, %d failed", result.Succeeded, result.Failed),
		Data:    result,
	}
}
