package models

import (
	"fmt"
	"time"
)

var _ Model = (*CatalogItem)(nil)

// CatalogItem is the persisted form of an enriched [MusicItem].
//
// Written once a batch run finishes with --save; the review commands mutate
// status, enriched fields, and notes through the repository.
type CatalogItem struct {
	id         string
	sequence   int
	itemID     string
	title      string
	artist     string
	lyrics     string
	status     ItemStatus
	fields     EnrichedFields
	confidence int
	source     string
	notes      string
	createdAt  time.Time
	updatedAt  time.Time
	deletedAt  *time.Time
}

// NewCatalogItem creates a CatalogItem from an in-memory item.
// The database ID is assigned by the repository on Create.
func NewCatalogItem(sequence int, item MusicItem) *CatalogItem {
	now := time.Now()
	c := &CatalogItem{
		sequence:   sequence,
		itemID:     item.ID,
		title:      item.Title,
		artist:     item.Artist,
		lyrics:     item.Lyrics,
		status:     item.Status,
		confidence: item.Confidence,
		source:     item.Source,
		notes:      item.Notes,
		createdAt:  now,
		updatedAt:  now,
	}
	if item.Enriched != nil {
		c.fields = *item.Enriched
	}
	return c
}

func (c *CatalogItem) ID() string             { return c.id }
func (c *CatalogItem) Sequence() int          { return c.sequence }
func (c *CatalogItem) ItemID() string         { return c.itemID }
func (c *CatalogItem) Title() string          { return c.title }
func (c *CatalogItem) Artist() string         { return c.artist }
func (c *CatalogItem) Lyrics() string         { return c.lyrics }
func (c *CatalogItem) Status() ItemStatus     { return c.status }
func (c *CatalogItem) Fields() EnrichedFields { return c.fields }
func (c *CatalogItem) Confidence() int        { return c.confidence }
func (c *CatalogItem) Source() string         { return c.source }
func (c *CatalogItem) Notes() string          { return c.notes }
func (c *CatalogItem) CreatedAt() time.Time   { return c.createdAt }
func (c *CatalogItem) UpdatedAt() time.Time   { return c.updatedAt }
func (c *CatalogItem) DeletedAt() *time.Time  { return c.deletedAt }

func (c *CatalogItem) SetID(id string)             { c.id = id }
func (c *CatalogItem) SetSequence(seq int)         { c.sequence = seq }
func (c *CatalogItem) SetUpdatedAt(t time.Time)    { c.updatedAt = t }
func (c *CatalogItem) SetDeletedAt(t *time.Time)   { c.deletedAt = t }
func (c *CatalogItem) SetStatus(s ItemStatus)      { c.status = s }
func (c *CatalogItem) SetNotes(notes string)       { c.notes = notes }
func (c *CatalogItem) SetFields(f EnrichedFields)  { c.fields = f }
func (c *CatalogItem) SetCreatedAt(t time.Time)    { c.createdAt = t }
func (c *CatalogItem) SetConfidence(score int)     { c.confidence = score }
func (c *CatalogItem) SetSource(source string)     { c.source = source }
func (c *CatalogItem) MergeFields(f EnrichedFields) {
	item := MusicItem{Enriched: &c.fields}
	item.MergeFields(f)
	c.fields = *item.Enriched
}

// Item converts the persisted entity back to its in-memory form.
func (c *CatalogItem) Item() MusicItem {
	fields := c.fields
	return MusicItem{
		ID:         c.itemID,
		Title:      c.title,
		Artist:     c.artist,
		Lyrics:     c.lyrics,
		Status:     c.status,
		Enriched:   &fields,
		Confidence: c.confidence,
		Source:     c.source,
		Notes:      c.notes,
	}
}

// Validate checks invariants before the entity touches the database.
func (c *CatalogItem) Validate() error {
	if c.title == "" {
		return fmt.Errorf("catalog item title is required")
	}
	if !c.status.Valid() {
		return fmt.Errorf("invalid catalog item status: %q", c.status)
	}
	if c.confidence < 0 || c.confidence > 100 {
		return fmt.Errorf("confidence score out of range: %d", c.confidence)
	}
	return nil
}
