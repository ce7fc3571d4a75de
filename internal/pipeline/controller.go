package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ProfessorGeovaniHenrique/songbook/internal/models"
	"github.com/ProfessorGeovaniHenrique/songbook/internal/shared"
	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"
)

// Status enumerates the batch run state machine.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusProcessing Status = "processing"
	StatusPaused     Status = "paused"
	StatusCancelled  Status = "cancelled"
	StatusCompleted  Status = "completed"
)

// Terminal reports whether a new submission may re-enter from this state.
func (s Status) Terminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

// Enricher is the injected enrichment capability: given an item, produce
// enriched fields with a confidence score and source tag, or fail.
type Enricher interface {
	Enrich(ctx context.Context, item *models.MusicItem) (*models.Enrichment, error)
	Name() string
}

// ProcessingState is the read snapshot exposed to presentation layers.
type ProcessingState struct {
	Status    Status   `json:"status"`
	CanPause  bool     `json:"can_pause"`
	CanCancel bool     `json:"can_cancel"`
	Progress  Progress `json:"progress"`
}

// RunResult summarizes one batch run after it reaches a terminal state.
type RunResult struct {
	Outcome     models.RunOutcome
	Items       []*models.MusicItem
	Total       int
	Attempted   int
	Succeeded   int
	Failed      int
	StartedAt   time.Time
	CompletedAt time.Time
}

// Opts configures a [Controller].
type Opts struct {
	Enricher  Enricher
	RateLimit float64 // lookups per second; 0 disables limiting
	Window    int     // rolling window size for throughput estimation
	Logger    *log.Logger
}

// Controller is the batch-processing state machine. One controller instance
// serves one batch run at a time; a new submission re-enters from idle or a
// terminal state.
//
// Submit runs the item loop on the calling goroutine. Pause, Resume, Cancel,
// and Snapshot are safe to call from other goroutines.
type Controller struct {
	mu   sync.Mutex
	cond *sync.Cond

	status         Status
	items          map[string]*models.MusicItem
	order          []string
	current, total int
	pausePending   bool
	cancelPending  bool

	estimator *Estimator
	errors    *ErrorLog
	enricher  Enricher
	limiter   *rate.Limiter
	logger    *log.Logger
}

// New creates a Controller in the idle state.
func New(opts Opts) *Controller {
	c := &Controller{
		status:    StatusIdle,
		estimator: NewEstimator(opts.Window),
		errors:    NewErrorLog(),
		enricher:  opts.Enricher,
		logger:    opts.Logger,
	}
	if opts.RateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}
	if c.logger == nil {
		c.logger = shared.NewLogger(nil)
	}
	c.cond = sync.NewCond(&c.mu)
	return c
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (c *Controller) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// Submit starts a batch run over items and blocks until it reaches a terminal
// state. Allowed only from idle or a terminal state. An empty submission
// completes immediately with total 0.
//
// Each item is attempted in submission order: status moves to enriching, the
// lookup runs, and on success the enrichment is merged and the item becomes
// enriched. A failed lookup returns the item to pending and extends the error
// log; the run continues either way. Pause and cancel requests take effect at
// the next item boundary.
func (c *Controller) Submit(ctx context.Context, items []*models.MusicItem, progress chan<- ProgressUpdate) (*RunResult, error) {
	if c.enricher == nil {
		return nil, fmt.Errorf("%w: enrichment service not initialized", shared.ErrServiceUnavailable)
	}

	c.mu.Lock()
	if c.status == StatusProcessing || c.status == StatusPaused {
		c.mu.Unlock()
		return nil, shared.ErrRunActive
	}

	c.items = make(map[string]*models.MusicItem, len(items))
	c.order = make([]string, 0, len(items))
	for _, item := range items {
		c.items[item.ID] = item
		c.order = append(c.order, item.ID)
	}
	c.current, c.total = 0, len(items)
	c.pausePending, c.cancelPending = false, false
	c.estimator.Start()

	result := &RunResult{
		Items:     items,
		Total:     len(items),
		StartedAt: time.Now(),
	}

	if len(items) == 0 {
		c.status = StatusCompleted
		c.mu.Unlock()
		result.Outcome = models.RunCompleted
		result.CompletedAt = time.Now()
		c.sendProgress(progress, runCompletedUpdate(result))
		return result, nil
	}

	c.status = StatusProcessing
	c.mu.Unlock()

	c.logger.Info("batch run started", "items", len(items), "enricher", c.enricher.Name())
	c.sendProgress(progress, startRunUpdate(len(items)))

	// Wake a paused run when the context ends so the loop can tear down.
	watcherDone := make(chan struct{})
	defer close(watcherDone)
	go func() {
		select {
		case <-ctx.Done():
			c.cond.Broadcast()
		case <-watcherDone:
		}
	}()

	cancelled := false
	for _, id := range c.order {
		item := c.items[id]

		if !c.waitAtBoundary(ctx, progress) {
			cancelled = true
			break
		}

		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				cancelled = true
				break
			}
		}

		c.mu.Lock()
		item.Status = models.StatusEnriching
		step := c.current + 1
		c.mu.Unlock()
		c.sendProgress(progress, enrichItemUpdate(step, result.Total, item))

		enrichment, err := c.enricher.Enrich(ctx, item)

		c.mu.Lock()
		c.current++
		if err != nil {
			// The item stays eligible for retry.
			item.Status = models.StatusPending
			c.mu.Unlock()

			c.errors.Append(fmt.Sprintf("enrichment failed for %q", item.Title), err.Error(), []string{item.ID})
			result.Failed++
			c.logger.Warn("enrichment failed", "title", item.Title, "err", err)
			c.sendProgress(progress, itemFailedUpdate(step, result.Total, item, err))
		} else {
			item.ApplyEnrichment(enrichment)
			c.estimator.Record()
			c.mu.Unlock()

			result.Succeeded++
			c.sendProgress(progress, itemEnrichedUpdate(step, result.Total, item))
		}

		if ctx.Err() != nil {
			cancelled = true
			break
		}
	}

	c.mu.Lock()
	// An abnormal teardown must never strand an item in enriching.
	for _, id := range c.order {
		if it := c.items[id]; it.Status == models.StatusEnriching {
			it.Status = models.StatusPending
		}
	}
	result.Attempted = c.current
	result.CompletedAt = time.Now()

	if cancelled {
		c.status = StatusCancelled
		result.Outcome = models.RunCancelled
		step := c.current
		c.mu.Unlock()

		c.logger.Info("batch run cancelled", "attempted", step, "total", result.Total)
		c.sendProgress(progress, runCancelledUpdate(step, result.Total))
		return result, nil
	}

	c.status = StatusCompleted
	result.Outcome = models.RunCompleted
	c.mu.Unlock()

	c.logger.Info("batch run completed", "succeeded", result.Succeeded, "failed", result.Failed)
	c.sendProgress(progress, runCompletedUpdate(result))
	return result, nil
}

// waitAtBoundary is the pause/cancel checkpoint evaluated before each item.
// Returns false when the run should stop.
func (c *Controller) waitAtBoundary(ctx context.Context, progress chan<- ProgressUpdate) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	wasPaused := false
	for {
		if ctx.Err() != nil || c.cancelPending {
			return false
		}
		if c.pausePending {
			c.pausePending = false
			c.status = StatusPaused
			wasPaused = true
			c.sendProgress(progress, runPausedUpdate(c.current, c.total))
		}
		if c.status == StatusProcessing {
			if wasPaused {
				c.sendProgress(progress, runResumedUpdate(c.current, c.total))
			}
			return true
		}
		c.cond.Wait()
	}
}

// Pause requests suspension before the next item starts. The in-flight item
// completes normally. Allowed only while processing.
func (c *Controller) Pause() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status != StatusProcessing {
		return fmt.Errorf("%w: cannot pause from %s", shared.ErrNotProcessing, c.status)
	}
	c.pausePending = true
	return nil
}

// Resume continues a paused run from the next unprocessed item.
func (c *Controller) Resume() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case c.status == StatusPaused:
		c.status = StatusProcessing
		c.cond.Broadcast()
		return nil
	case c.pausePending:
		// Pause requested but the boundary was never reached; just withdraw it.
		c.pausePending = false
		return nil
	default:
		return fmt.Errorf("%w: cannot resume from %s", shared.ErrNotPaused, c.status)
	}
}

// Cancel stops the run after the in-flight item resolves. Remaining items
// stay pending. Allowed while processing or paused.
func (c *Controller) Cancel() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status != StatusProcessing && c.status != StatusPaused {
		return fmt.Errorf("%w: cannot cancel from %s", shared.ErrNotProcessing, c.status)
	}
	c.cancelPending = true
	c.cond.Broadcast()
	return nil
}

// Reset returns an idle or finished controller to idle and discards run
// state. The error log survives; it is cleared only explicitly or by retry.
func (c *Controller) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status == StatusProcessing || c.status == StatusPaused {
		return shared.ErrRunActive
	}
	c.status = StatusIdle
	c.items = nil
	c.order = nil
	c.current, c.total = 0, 0
	c.pausePending, c.cancelPending = false, false
	return nil
}

// Snapshot returns the current [ProcessingState] for display.
func (c *Controller) Snapshot() ProcessingState {
	c.mu.Lock()
	defer c.mu.Unlock()

	return ProcessingState{
		Status:    c.status,
		CanPause:  c.status == StatusProcessing && !c.pausePending,
		CanCancel: c.status == StatusProcessing || c.status == StatusPaused,
		Progress:  c.estimator.Snapshot(c.current, c.total),
	}
}

// Status returns the current run status.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Errors exposes the session error log (read plus retry trigger).
func (c *Controller) Errors() *ErrorLog {
	return c.errors
}

// Items returns copies of the submitted items in submission order.
func (c *Controller) Items() []models.MusicItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]models.MusicItem, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, *c.items[id])
	}
	return out
}

// Retry resubmits the items implicated by the given error entries (all
// entries when entryIDs is nil). The union of their failed items returns to
// pending, the retried entries leave the log, and a new run starts.
func (c *Controller) Retry(ctx context.Context, entryIDs []string, progress chan<- ProgressUpdate) (*RunResult, error) {
	c.mu.Lock()
	if c.status == StatusProcessing || c.status == StatusPaused {
		c.mu.Unlock()
		return nil, shared.ErrRunActive
	}
	c.mu.Unlock()

	selected := c.errors.Entries()
	if entryIDs != nil {
		want := make(map[string]bool, len(entryIDs))
		for _, id := range entryIDs {
			want[id] = true
		}
		filtered := selected[:0]
		for _, e := range selected {
			if want[e.ID] {
				filtered = append(filtered, e)
			}
		}
		selected = filtered
	}
	if len(selected) == 0 {
		return nil, fmt.Errorf("%w: no error entries to retry", shared.ErrInvalidArgument)
	}

	c.mu.Lock()
	seen := make(map[string]bool)
	var items []*models.MusicItem
	for _, entry := range selected {
		for _, id := range entry.FailedItems {
			if seen[id] {
				continue
			}
			seen[id] = true
			if item, ok := c.items[id]; ok {
				item.Status = models.StatusPending
				items = append(items, item)
			}
		}
	}
	c.mu.Unlock()

	removed := make([]string, 0, len(selected))
	for _, e := range selected {
		removed = append(removed, e.ID)
	}
	c.errors.Remove(removed)

	return c.Submit(ctx, items, progress)
}
