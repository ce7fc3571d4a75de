package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ProfessorGeovaniHenrique/songbook/internal/models"
	"github.com/ProfessorGeovaniHenrique/songbook/internal/pipeline"
	"github.com/ProfessorGeovaniHenrique/songbook/internal/shared"
)

// RunRepository persists batch run summaries and the error entries they produced.
//
// A run row is written once when a finished run is saved; its error entries are
// inserted in the same transaction so a partial save never leaves orphans.
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new RunRepository with the given database connection
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create inserts a new [models.BatchRun] with generated ID and sequence
func (r *RunRepository) Create(run *models.BatchRun) error {
	sequence, err := NextSequence(r.db, "batch_runs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	run.SetID(id)
	run.SetSequence(sequence)

	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO batch_runs (id, sequence, outcome, total_items, attempted, succeeded, failed,
			started_at, completed_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		run.Outcome(),
		run.TotalItems(),
		run.Attempted(),
		run.Succeeded(),
		run.Failed(),
		run.StartedAt(),
		run.CompletedAt(),
		run.CreatedAt(),
		run.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert batch run: %w", err)
	}

	return nil
}

// SaveErrors inserts the given error entries for a persisted run
func (r *RunRepository) SaveErrors(runID string, entries []pipeline.ErrorEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO run_errors (id, run_id, occurred_at, message, details, failed_items)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	for _, entry := range entries {
		failedItems, err := json.Marshal(entry.FailedItems)
		if err != nil {
			return fmt.Errorf("failed to encode failed items: %w", err)
		}

		if _, err := tx.Exec(query, entry.ID, runID, entry.Timestamp, entry.Message, entry.Details, string(failedItems)); err != nil {
			return fmt.Errorf("failed to insert run error: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run errors: %w", err)
	}

	return nil
}

// Get retrieves a batch run by ID, excluding soft-deleted runs
func (r *RunRepository) Get(id string) (*models.BatchRun, error) {
	query := selectRunQuery + ` WHERE id = ? AND deleted_at IS NULL`

	run, err := scanRun(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("batch run not found: %s", id)
	}
	return run, err
}

// Update modifies an existing batch run in the database
func (r *RunRepository) Update(run *models.BatchRun) error {
	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	run.SetUpdatedAt(now)

	query := `
		UPDATE batch_runs
		SET outcome = ?, total_items = ?, attempted = ?, succeeded = ?, failed = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		run.Outcome(),
		run.TotalItems(),
		run.Attempted(),
		run.Succeeded(),
		run.Failed(),
		now,
		run.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update batch run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("batch run not found or already deleted: %s", run.ID())
	}

	return nil
}

// Delete soft-deletes a batch run by ID
func (r *RunRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE batch_runs
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete batch run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("batch run not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves batch runs matching the given criteria, excluding soft-deleted runs
func (r *RunRepository) List(criteria map[string]any) ([]*models.BatchRun, error) {
	query := selectRunQuery + ` WHERE deleted_at IS NULL`

	args := []any{}

	if outcome, ok := criteria["outcome"].(string); ok && outcome != "" {
		query += " AND outcome = ?"
		args = append(args, outcome)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query batch runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.BatchRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return runs, nil
}

// Errors retrieves the persisted error entries for a run, oldest-first
func (r *RunRepository) Errors(runID string) ([]pipeline.ErrorEntry, error) {
	query := `
		SELECT id, occurred_at, message, details, failed_items
		FROM run_errors
		WHERE run_id = ?
		ORDER BY occurred_at ASC
	`

	rows, err := r.db.Query(query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query run errors: %w", err)
	}
	defer rows.Close()

	var entries []pipeline.ErrorEntry
	for rows.Next() {
		var (
			entry       pipeline.ErrorEntry
			details     sql.NullString
			failedItems string
		)

		if err := rows.Scan(&entry.ID, &entry.Timestamp, &entry.Message, &details, &failedItems); err != nil {
			return nil, fmt.Errorf("failed to scan run error: %w", err)
		}

		entry.Details = details.String
		if err := json.Unmarshal([]byte(failedItems), &entry.FailedItems); err != nil {
			return nil, fmt.Errorf("failed to decode failed items: %w", err)
		}

		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return entries, nil
}

const selectRunQuery = `
	SELECT id, sequence, outcome, total_items, attempted, succeeded, failed,
		started_at, completed_at, created_at, updated_at, deleted_at
	FROM batch_runs
`

// scanRun scans one result row into a [models.BatchRun]
func scanRun(row itemScanner) (*models.BatchRun, error) {
	var (
		id          string
		sequence    int
		outcome     string
		totalItems  int
		attempted   int
		succeeded   int
		failed      int
		startedAt   time.Time
		completedAt time.Time
		createdAt   time.Time
		updatedAt   time.Time
		deletedAt   sql.NullTime
	)

	err := row.Scan(&id, &sequence, &outcome, &totalItems, &attempted, &succeeded, &failed,
		&startedAt, &completedAt, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan batch run: %w", err)
	}

	run := models.NewBatchRun(sequence, models.RunOutcome(outcome), totalItems, attempted, succeeded, failed, startedAt, completedAt)
	run.SetID(id)
	run.SetCreatedAt(createdAt)
	run.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		run.SetDeletedAt(&deletedAt.Time)
	}

	return run, nil
}
