package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ProfessorGeovaniHenrique/songbook/internal/models"
	"github.com/ProfessorGeovaniHenrique/songbook/internal/shared"
	tu "github.com/ProfessorGeovaniHenrique/songbook/internal/testing"
)

func testItems(n int) []*models.MusicItem {
	items := make([]*models.MusicItem, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, &models.MusicItem{
			ID:     fmt.Sprintf("item-%d", i+1),
			Title:  fmt.Sprintf("Song %d", i+1),
			Artist: "Test Artist",
			Status: models.StatusPending,
		})
	}
	return items
}

// gateEnricher blocks each lookup until the test releases it, making pause
// and cancel boundaries deterministic.
type gateEnricher struct {
	started chan string
	release chan struct{}
}

func newGateEnricher() *gateEnricher {
	return &gateEnricher{
		started: make(chan string),
		release: make(chan struct{}),
	}
}

func (g *gateEnricher) Enrich(ctx context.Context, item *models.MusicItem) (*models.Enrichment, error) {
	g.started <- item.ID
	select {
	case <-g.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return &models.Enrichment{
		Fields:     models.EnrichedFields{Composer: "Gated Composer"},
		Confidence: 80,
		Source:     "exact",
	}, nil
}

func (g *gateEnricher) Name() string { return "gate" }

// waitForStatus polls the controller until it reaches want or the deadline passes.
func waitForStatus(t *testing.T, c *Controller, want Status) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if c.Status() == want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("controller never reached status %s, stuck at %s", want, c.Status())
}

func TestControllerSubmit(t *testing.T) {
	t.Run("empty submission completes immediately", func(t *testing.T) {
		c := New(Opts{Enricher: tu.NewMockEnricher()})

		result, err := c.Submit(context.Background(), nil, nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.Total != 0 || result.Attempted != 0 {
			t.Errorf("expected empty result, got total %d attempted %d", result.Total, result.Attempted)
		}
		if result.Outcome != models.RunCompleted {
			t.Errorf("expected completed outcome, got %s", result.Outcome)
		}
		if c.Status() != StatusCompleted {
			t.Errorf("expected completed status, got %s", c.Status())
		}
	})

	t.Run("enriches all items in submission order", func(t *testing.T) {
		enricher := tu.NewMockEnricher()
		c := New(Opts{Enricher: enricher})
		items := testItems(3)

		result, err := c.Submit(context.Background(), items, nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if result.Succeeded != 3 || result.Failed != 0 || result.Attempted != 3 {
			t.Errorf("unexpected counts: succeeded %d failed %d attempted %d",
				result.Succeeded, result.Failed, result.Attempted)
		}
		for _, item := range items {
			if item.Status != models.StatusEnriched {
				t.Errorf("item %s should be enriched, got %s", item.ID, item.Status)
			}
			if item.Enriched == nil || item.Enriched.Composer != "Test Composer" {
				t.Errorf("item %s missing enrichment fields", item.ID)
			}
			if item.Confidence != 85 || item.Source != "exact" {
				t.Errorf("item %s missing confidence/source, got %d/%s", item.ID, item.Confidence, item.Source)
			}
		}

		calls := enricher.Calls()
		want := []string{"item-1", "item-2", "item-3"}
		if len(calls) != len(want) {
			t.Fatalf("expected %d calls, got %d", len(want), len(calls))
		}
		for i, id := range want {
			if calls[i] != id {
				t.Errorf("call %d: expected %s, got %s", i, id, calls[i])
			}
		}
	})

	t.Run("failed item stays pending and run continues", func(t *testing.T) {
		enricher := tu.NewMockEnricher()
		enricher.Fail["item-3"] = errors.New("proxy unreachable")
		c := New(Opts{Enricher: enricher})
		items := testItems(5)

		result, err := c.Submit(context.Background(), items, nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if result.Succeeded != 4 || result.Failed != 1 {
			t.Errorf("expected 4 succeeded 1 failed, got %d/%d", result.Succeeded, result.Failed)
		}
		if items[2].Status != models.StatusPending {
			t.Errorf("failed item should return to pending, got %s", items[2].Status)
		}
		for _, i := range []int{0, 1, 3, 4} {
			if items[i].Status != models.StatusEnriched {
				t.Errorf("item %s should be enriched, got %s", items[i].ID, items[i].Status)
			}
		}

		entries := c.Errors().Entries()
		if len(entries) != 1 {
			t.Fatalf("expected 1 error entry, got %d", len(entries))
		}
		if len(entries[0].FailedItems) != 1 || entries[0].FailedItems[0] != "item-3" {
			t.Errorf("expected failed items [item-3], got %v", entries[0].FailedItems)
		}
		if entries[0].Details != "proxy unreachable" {
			t.Errorf("expected failure details preserved, got %q", entries[0].Details)
		}
	})

	t.Run("rejects submission while a run is active", func(t *testing.T) {
		gate := newGateEnricher()
		c := New(Opts{Enricher: gate})
		items := testItems(2)

		done := make(chan struct{})
		go func() {
			defer close(done)
			c.Submit(context.Background(), items, nil)
		}()

		<-gate.started

		if _, err := c.Submit(context.Background(), testItems(1), nil); !errors.Is(err, shared.ErrRunActive) {
			t.Errorf("expected ErrRunActive, got %v", err)
		}

		gate.release <- struct{}{}
		<-gate.started
		gate.release <- struct{}{}
		<-done
	})

	t.Run("resubmission allowed from a terminal state", func(t *testing.T) {
		c := New(Opts{Enricher: tu.NewMockEnricher()})

		if _, err := c.Submit(context.Background(), testItems(1), nil); err != nil {
			t.Fatalf("first run failed: %v", err)
		}
		if _, err := c.Submit(context.Background(), testItems(1), nil); err != nil {
			t.Fatalf("second run failed: %v", err)
		}
	})

	t.Run("without enricher", func(t *testing.T) {
		c := New(Opts{})

		if _, err := c.Submit(context.Background(), testItems(1), nil); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})

	t.Run("progress steps never decrease", func(t *testing.T) {
		c := New(Opts{Enricher: tu.NewMockEnricher()})
		progress := make(chan ProgressUpdate, 100)

		if _, err := c.Submit(context.Background(), testItems(5), progress); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		close(progress)

		last := 0
		for update := range progress {
			if update.Step < last {
				t.Errorf("step decreased from %d to %d in phase %s", last, update.Step, update.Phase)
			}
			last = update.Step
		}
	})

	t.Run("cancelled context ends the run as cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		enricher := tu.NewMockEnricher()
		c := New(Opts{Enricher: enricher})
		cancel()

		result, err := c.Submit(ctx, testItems(3), nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.Outcome != models.RunCancelled {
			t.Errorf("expected cancelled outcome, got %s", result.Outcome)
		}
		if result.Attempted != 0 {
			t.Errorf("expected no attempts, got %d", result.Attempted)
		}
	})
}

func TestControllerPauseResume(t *testing.T) {
	t.Run("pause takes effect at the next item boundary", func(t *testing.T) {
		gate := newGateEnricher()
		c := New(Opts{Enricher: gate})
		items := testItems(3)

		results := make(chan *RunResult, 1)
		go func() {
			result, _ := c.Submit(context.Background(), items, nil)
			results <- result
		}()

		<-gate.started
		if err := c.Pause(); err != nil {
			t.Fatalf("pause failed: %v", err)
		}
		// The in-flight item completes normally.
		gate.release <- struct{}{}

		waitForStatus(t, c, StatusPaused)

		state := c.Snapshot()
		if state.Progress.Current != 1 {
			t.Errorf("expected 1 item attempted before pause, got %d", state.Progress.Current)
		}
		if state.CanPause {
			t.Error("paused run must not offer pause")
		}
		if !state.CanCancel {
			t.Error("paused run must offer cancel")
		}
		if items[0].Status != models.StatusEnriched {
			t.Errorf("in-flight item should have completed, got %s", items[0].Status)
		}
		if items[1].Status != models.StatusPending {
			t.Errorf("next item should still be pending, got %s", items[1].Status)
		}

		if err := c.Resume(); err != nil {
			t.Fatalf("resume failed: %v", err)
		}
		for i := 0; i < 2; i++ {
			<-gate.started
			gate.release <- struct{}{}
		}

		result := <-results
		if result.Outcome != models.RunCompleted {
			t.Errorf("expected completed outcome, got %s", result.Outcome)
		}
		if result.Attempted != 3 || result.Succeeded != 3 {
			t.Errorf("expected 3 attempted 3 succeeded, got %d/%d", result.Attempted, result.Succeeded)
		}
	})

	t.Run("resume withdraws a pending pause before the boundary", func(t *testing.T) {
		gate := newGateEnricher()
		c := New(Opts{Enricher: gate})

		results := make(chan *RunResult, 1)
		go func() {
			result, _ := c.Submit(context.Background(), testItems(2), nil)
			results <- result
		}()

		<-gate.started
		if err := c.Pause(); err != nil {
			t.Fatalf("pause failed: %v", err)
		}
		if err := c.Resume(); err != nil {
			t.Fatalf("resume failed: %v", err)
		}

		gate.release <- struct{}{}
		<-gate.started
		gate.release <- struct{}{}

		result := <-results
		if result.Outcome != models.RunCompleted {
			t.Errorf("expected uninterrupted completion, got %s", result.Outcome)
		}
	})

	t.Run("invalid commands", func(t *testing.T) {
		c := New(Opts{Enricher: tu.NewMockEnricher()})

		if err := c.Pause(); !errors.Is(err, shared.ErrNotProcessing) {
			t.Errorf("expected ErrNotProcessing pausing idle, got %v", err)
		}
		if err := c.Resume(); !errors.Is(err, shared.ErrNotPaused) {
			t.Errorf("expected ErrNotPaused resuming idle, got %v", err)
		}
		if err := c.Cancel(); !errors.Is(err, shared.ErrNotProcessing) {
			t.Errorf("expected ErrNotProcessing cancelling idle, got %v", err)
		}
	})
}

func TestControllerCancel(t *testing.T) {
	t.Run("cancel stops after the in-flight item", func(t *testing.T) {
		gate := newGateEnricher()
		c := New(Opts{Enricher: gate})
		items := testItems(3)

		results := make(chan *RunResult, 1)
		go func() {
			result, _ := c.Submit(context.Background(), items, nil)
			results <- result
		}()

		<-gate.started
		if err := c.Cancel(); err != nil {
			t.Fatalf("cancel failed: %v", err)
		}
		gate.release <- struct{}{}

		result := <-results
		if result.Outcome != models.RunCancelled {
			t.Errorf("expected cancelled outcome, got %s", result.Outcome)
		}
		if result.Attempted != 1 {
			t.Errorf("expected 1 attempted, got %d", result.Attempted)
		}
		if items[0].Status != models.StatusEnriched {
			t.Errorf("in-flight item should have completed, got %s", items[0].Status)
		}
		for _, item := range items[1:] {
			if item.Status != models.StatusPending {
				t.Errorf("remaining item %s should stay pending, got %s", item.ID, item.Status)
			}
		}
		if c.Status() != StatusCancelled {
			t.Errorf("expected cancelled status, got %s", c.Status())
		}
	})

	t.Run("cancel from paused", func(t *testing.T) {
		gate := newGateEnricher()
		c := New(Opts{Enricher: gate})

		results := make(chan *RunResult, 1)
		go func() {
			result, _ := c.Submit(context.Background(), testItems(2), nil)
			results <- result
		}()

		<-gate.started
		if err := c.Pause(); err != nil {
			t.Fatalf("pause failed: %v", err)
		}
		gate.release <- struct{}{}
		waitForStatus(t, c, StatusPaused)

		if err := c.Cancel(); err != nil {
			t.Fatalf("cancel from paused failed: %v", err)
		}

		result := <-results
		if result.Outcome != models.RunCancelled {
			t.Errorf("expected cancelled outcome, got %s", result.Outcome)
		}
	})
}

func TestControllerReset(t *testing.T) {
	t.Run("reset after completion returns to idle", func(t *testing.T) {
		enricher := tu.NewMockEnricher()
		enricher.Fail["item-1"] = errors.New("boom")
		c := New(Opts{Enricher: enricher})

		if _, err := c.Submit(context.Background(), testItems(1), nil); err != nil {
			t.Fatalf("run failed: %v", err)
		}

		if err := c.Reset(); err != nil {
			t.Fatalf("reset failed: %v", err)
		}
		if c.Status() != StatusIdle {
			t.Errorf("expected idle after reset, got %s", c.Status())
		}
		// The error log outlives the run.
		if c.Errors().Count() != 1 {
			t.Errorf("expected error log to survive reset, got %d entries", c.Errors().Count())
		}
	})

	t.Run("reset rejected while active", func(t *testing.T) {
		gate := newGateEnricher()
		c := New(Opts{Enricher: gate})

		done := make(chan struct{})
		go func() {
			defer close(done)
			c.Submit(context.Background(), testItems(1), nil)
		}()

		<-gate.started
		if err := c.Reset(); !errors.Is(err, shared.ErrRunActive) {
			t.Errorf("expected ErrRunActive, got %v", err)
		}
		gate.release <- struct{}{}
		<-done
	})
}

func TestControllerRetry(t *testing.T) {
	t.Run("retries failed items and clears their entries", func(t *testing.T) {
		enricher := tu.NewMockEnricher()
		enricher.Fail["item-2"] = errors.New("transient failure")
		c := New(Opts{Enricher: enricher})
		items := testItems(3)

		first, err := c.Submit(context.Background(), items, nil)
		if err != nil {
			t.Fatalf("first run failed: %v", err)
		}
		if first.Failed != 1 {
			t.Fatalf("expected 1 failure, got %d", first.Failed)
		}

		delete(enricher.Fail, "item-2")

		second, err := c.Retry(context.Background(), nil, nil)
		if err != nil {
			t.Fatalf("retry failed: %v", err)
		}
		if second.Total != 1 || second.Succeeded != 1 {
			t.Errorf("expected retry of 1 item to succeed, got total %d succeeded %d",
				second.Total, second.Succeeded)
		}
		if items[1].Status != models.StatusEnriched {
			t.Errorf("retried item should be enriched, got %s", items[1].Status)
		}
		if c.Errors().Count() != 0 {
			t.Errorf("expected retried entries removed, got %d", c.Errors().Count())
		}
	})

	t.Run("retry without entries", func(t *testing.T) {
		c := New(Opts{Enricher: tu.NewMockEnricher()})

		if _, err := c.Submit(context.Background(), testItems(1), nil); err != nil {
			t.Fatalf("run failed: %v", err)
		}
		if _, err := c.Retry(context.Background(), nil, nil); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("retry of selected entries only", func(t *testing.T) {
		enricher := tu.NewMockEnricher()
		enricher.Fail["item-1"] = errors.New("first failure")
		enricher.Fail["item-2"] = errors.New("second failure")
		c := New(Opts{Enricher: enricher})
		items := testItems(2)

		if _, err := c.Submit(context.Background(), items, nil); err != nil {
			t.Fatalf("run failed: %v", err)
		}
		entries := c.Errors().Entries()
		if len(entries) != 2 {
			t.Fatalf("expected 2 error entries, got %d", len(entries))
		}

		delete(enricher.Fail, "item-1")
		delete(enricher.Fail, "item-2")

		result, err := c.Retry(context.Background(), []string{entries[0].ID}, nil)
		if err != nil {
			t.Fatalf("retry failed: %v", err)
		}
		if result.Total != 1 {
			t.Errorf("expected 1 retried item, got %d", result.Total)
		}
		if c.Errors().Count() != 1 {
			t.Errorf("expected the unselected entry to remain, got %d", c.Errors().Count())
		}
	})
}

func TestStatusTerminal(t *testing.T) {
	cases := []struct {
		status Status
		want   bool
	}{
		{StatusIdle, false},
		{StatusProcessing, false},
		{StatusPaused, false},
		{StatusCancelled, true},
		{StatusCompleted, true},
	}

	for _, tc := range cases {
		if got := tc.status.Terminal(); got != tc.want {
			t.Errorf("Terminal(%s) = %v, want %v", tc.status, got, tc.want)
		}
	}
}
