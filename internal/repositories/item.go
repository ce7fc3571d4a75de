package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/ProfessorGeovaniHenrique/songbook/internal/models"
	"github.com/ProfessorGeovaniHenrique/songbook/internal/shared"
)

// ItemRepository implements models.Repository[*models.CatalogItem] for the enriched catalog.
//
// Catalog rows are written when a run is saved and mutated afterwards by the
// review commands. Soft deletes keep rejected history recoverable.
type ItemRepository struct {
	db *sql.DB
}

// NewItemRepository creates a new ItemRepository with the given database connection
func NewItemRepository(db *sql.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// Create inserts a new [models.CatalogItem] into the database with generated ID and sequence
func (r *ItemRepository) Create(item *models.CatalogItem) error {
	sequence, err := NextSequence(r.db, "catalog_items")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	item.SetID(id)
	item.SetSequence(sequence)

	if err := item.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	fields := item.Fields()

	query := `
		INSERT INTO catalog_items (id, sequence, item_id, title, artist, lyrics, status,
			composer, release_year, album, genre, label, country,
			confidence, source, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		item.ItemID(),
		item.Title(),
		item.Artist(),
		item.Lyrics(),
		item.Status(),
		fields.Composer,
		fields.ReleaseYear,
		fields.Album,
		fields.Genre,
		fields.Label,
		fields.Country,
		item.Confidence(),
		item.Source(),
		item.Notes(),
		item.CreatedAt(),
		item.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert catalog item: %w", err)
	}

	return nil
}

// Get retrieves a catalog item by ID, excluding soft-deleted items
func (r *ItemRepository) Get(id string) (*models.CatalogItem, error) {
	query := selectItemQuery + ` WHERE id = ? AND deleted_at IS NULL`

	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByItemID retrieves a catalog item by the in-memory item identifier it was saved under
func (r *ItemRepository) GetByItemID(itemID string) (*models.CatalogItem, error) {
	query := selectItemQuery + ` WHERE item_id = ? AND deleted_at IS NULL`

	return r.scanOne(r.db.QueryRow(query, itemID))
}

// Update modifies an existing catalog item in the database
func (r *ItemRepository) Update(item *models.CatalogItem) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	item.SetUpdatedAt(now)

	fields := item.Fields()

	query := `
		UPDATE catalog_items
		SET status = ?, composer = ?, release_year = ?, album = ?, genre = ?, label = ?, country = ?,
			confidence = ?, source = ?, notes = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		item.Status(),
		fields.Composer,
		fields.ReleaseYear,
		fields.Album,
		fields.Genre,
		fields.Label,
		fields.Country,
		item.Confidence(),
		item.Source(),
		item.Notes(),
		now,
		item.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update catalog item: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("catalog item not found or already deleted: %s", item.ID())
	}

	return nil
}

// Delete soft-deletes a catalog item by ID
func (r *ItemRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE catalog_items
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete catalog item: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("catalog item not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves all catalog items matching the given criteria, excluding soft-deleted items
func (r *ItemRepository) List(criteria map[string]any) ([]*models.CatalogItem, error) {
	query := selectItemQuery + ` WHERE deleted_at IS NULL`

	args := []any{}

	if status, ok := criteria["status"].(string); ok && status != "" {
		query += " AND status = ?"
		args = append(args, status)
	}

	if source, ok := criteria["source"].(string); ok && source != "" {
		query += " AND source = ?"
		args = append(args, source)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query catalog items: %w", err)
	}
	defer rows.Close()

	var items []*models.CatalogItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return items, nil
}

// GetItem looks up an item by its in-memory identifier and returns the
// detached [models.MusicItem] form.
func (r *ItemRepository) GetItem(itemID string) (*models.MusicItem, error) {
	entity, err := r.GetByItemID(itemID)
	if err != nil {
		return nil, err
	}

	item := entity.Item()
	return &item, nil
}

// UpdateItem writes an in-memory item's review state back to its catalog row.
func (r *ItemRepository) UpdateItem(item *models.MusicItem) error {
	entity, err := r.GetByItemID(item.ID)
	if err != nil {
		return err
	}

	entity.SetStatus(item.Status)
	entity.SetNotes(item.Notes)
	entity.SetConfidence(item.Confidence)
	entity.SetSource(item.Source)
	if item.Enriched != nil {
		entity.SetFields(*item.Enriched)
	}

	return r.Update(entity)
}

// ListItems returns every catalog row in sequence order as detached items.
func (r *ItemRepository) ListItems() ([]models.MusicItem, error) {
	entities, err := r.List(map[string]any{})
	if err != nil {
		return nil, err
	}

	items := make([]models.MusicItem, 0, len(entities))
	for _, entity := range entities {
		items = append(items, entity.Item())
	}

	return items, nil
}

const selectItemQuery = `
	SELECT id, sequence, item_id, title, artist, lyrics, status,
		composer, release_year, album, genre, label, country,
		confidence, source, notes, created_at, updated_at, deleted_at
	FROM catalog_items
`

type itemScanner interface {
	Scan(dest ...any) error
}

// scanOne scans a single [sql.Row] into a [models.CatalogItem]
func (r *ItemRepository) scanOne(row *sql.Row) (*models.CatalogItem, error) {
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, shared.ErrItemNotFound
	}
	return item, err
}

// scanItem scans one result row into a [models.CatalogItem]
func scanItem(row itemScanner) (*models.CatalogItem, error) {
	var (
		id          string
		sequence    int
		itemID      string
		title       string
		artist      sql.NullString
		lyrics      sql.NullString
		status      string
		composer    sql.NullString
		releaseYear sql.NullInt64
		album       sql.NullString
		genre       sql.NullString
		label       sql.NullString
		country     sql.NullString
		confidence  int
		source      sql.NullString
		notes       sql.NullString
		createdAt   time.Time
		updatedAt   time.Time
		deletedAt   sql.NullTime
	)

	err := row.Scan(&id, &sequence, &itemID, &title, &artist, &lyrics, &status,
		&composer, &releaseYear, &album, &genre, &label, &country,
		&confidence, &source, &notes, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan catalog item: %w", err)
	}

	dto := models.MusicItem{
		ID:     itemID,
		Title:  title,
		Artist: artist.String,
		Lyrics: lyrics.String,
		Status: models.ItemStatus(status),
		Enriched: &models.EnrichedFields{
			Composer:    composer.String,
			ReleaseYear: int(releaseYear.Int64),
			Album:       album.String,
			Genre:       genre.String,
			Label:       label.String,
			Country:     country.String,
		},
		Confidence: confidence,
		Source:     source.String,
		Notes:      notes.String,
	}

	item := models.NewCatalogItem(sequence, dto)
	item.SetID(id)
	item.SetCreatedAt(createdAt)
	item.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		item.SetDeletedAt(&deletedAt.Time)
	}

	return item, nil
}
