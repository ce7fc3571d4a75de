package models

import (
	"fmt"
	"time"
)

var _ Model = (*BatchRun)(nil)

// RunOutcome enumerates how a persisted batch run ended.
type RunOutcome string

const (
	RunCompleted RunOutcome = "completed"
	RunCancelled RunOutcome = "cancelled"
)

// BatchRun is the persisted summary of one batch submission: counts, outcome,
// and timing. Failure details live in the run's error entries.
type BatchRun struct {
	id          string
	sequence    int
	outcome     RunOutcome
	totalItems  int
	attempted   int
	succeeded   int
	failed      int
	startedAt   time.Time
	completedAt time.Time
	createdAt   time.Time
	updatedAt   time.Time
	deletedAt   *time.Time
}

// NewBatchRun creates a BatchRun summary ready for persistence.
func NewBatchRun(sequence int, outcome RunOutcome, total, attempted, succeeded, failed int, startedAt, completedAt time.Time) *BatchRun {
	now := time.Now()
	return &BatchRun{
		sequence:    sequence,
		outcome:     outcome,
		totalItems:  total,
		attempted:   attempted,
		succeeded:   succeeded,
		failed:      failed,
		startedAt:   startedAt,
		completedAt: completedAt,
		createdAt:   now,
		updatedAt:   now,
	}
}

func (b *BatchRun) ID() string             { return b.id }
func (b *BatchRun) Sequence() int          { return b.sequence }
func (b *BatchRun) Outcome() RunOutcome    { return b.outcome }
func (b *BatchRun) TotalItems() int        { return b.totalItems }
func (b *BatchRun) Attempted() int         { return b.attempted }
func (b *BatchRun) Succeeded() int         { return b.succeeded }
func (b *BatchRun) Failed() int            { return b.failed }
func (b *BatchRun) StartedAt() time.Time   { return b.startedAt }
func (b *BatchRun) CompletedAt() time.Time { return b.completedAt }
func (b *BatchRun) CreatedAt() time.Time   { return b.createdAt }
func (b *BatchRun) UpdatedAt() time.Time   { return b.updatedAt }
func (b *BatchRun) DeletedAt() *time.Time  { return b.deletedAt }

func (b *BatchRun) SetID(id string)           { b.id = id }
func (b *BatchRun) SetSequence(seq int)       { b.sequence = seq }
func (b *BatchRun) SetUpdatedAt(t time.Time)  { b.updatedAt = t }
func (b *BatchRun) SetDeletedAt(t *time.Time) { b.deletedAt = t }
func (b *BatchRun) SetCreatedAt(t time.Time)  { b.createdAt = t }

// Validate checks invariants before the entity touches the database.
func (b *BatchRun) Validate() error {
	if b.outcome != RunCompleted && b.outcome != RunCancelled {
		return fmt.Errorf("invalid run outcome: %q", b.outcome)
	}
	if b.attempted > b.totalItems {
		return fmt.Errorf("attempted count %d exceeds total %d", b.attempted, b.totalItems)
	}
	if b.succeeded+b.failed != b.attempted {
		return fmt.Errorf("succeeded %d + failed %d does not match attempted %d", b.succeeded, b.failed, b.attempted)
	}
	return nil
}
