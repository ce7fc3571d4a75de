package review

import (
	"fmt"

	"github.com/ProfessorGeovaniHenrique/songbook/internal/models"
	"github.com/ProfessorGeovaniHenrique/songbook/internal/shared"
)

// Filter narrows a listing to a review bucket.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterPending   Filter = "pending"
	FilterValidated Filter = "validated"
	FilterRejected  Filter = "rejected"
)

// Valid reports whether f is a known filter value.
func (f Filter) Valid() bool {
	switch f {
	case FilterAll, FilterPending, FilterValidated, FilterRejected:
		return true
	default:
		return false
	}
}

// Matches reports whether an item with the given status falls in this bucket.
func (f Filter) Matches(status models.ItemStatus) bool {
	switch f {
	case FilterAll:
		return true
	case FilterPending:
		return status.Reviewable()
	case FilterValidated:
		return status == models.StatusValidated
	case FilterRejected:
		return status == models.StatusRejected
	default:
		return false
	}
}

// ItemStore is the persistence surface the workflow operates over.
type ItemStore interface {
	GetItem(id string) (*models.MusicItem, error)
	UpdateItem(item *models.MusicItem) error
	ListItems() ([]models.MusicItem, error)
}

// Workflow applies review decisions to enriched items.
type Workflow struct {
	store ItemStore
}

// NewWorkflow creates a review workflow over the given store.
func NewWorkflow(store ItemStore) *Workflow {
	return &Workflow{store: store}
}

// Validate marks an item as validated. Terminal; only items that are
// enriched or under review can be validated.
func (w *Workflow) Validate(id string) (*models.MusicItem, error) {
	return w.decide(id, models.StatusValidated)
}

// Reject marks an item as rejected. Terminal; only items that are
// enriched or under review can be rejected.
func (w *Workflow) Reject(id string) (*models.MusicItem, error) {
	return w.decide(id, models.StatusRejected)
}

func (w *Workflow) decide(id string, status models.ItemStatus) (*models.MusicItem, error) {
	item, err := w.store.GetItem(id)
	if err != nil {
		return nil, err
	}

	if !item.Status.Reviewable() {
		return nil, fmt.Errorf("%w: %s from %s", shared.ErrInvalidTransition, status, item.Status)
	}

	item.Status = status
	if err := w.store.UpdateItem(item); err != nil {
		return nil, err
	}

	return item, nil
}

// Edit merges the provided fields into an item's enriched metadata without
// changing its status. The item must still be open for review.
func (w *Workflow) Edit(id string, fields models.EnrichedFields) (*models.MusicItem, error) {
	item, err := w.store.GetItem(id)
	if err != nil {
		return nil, err
	}

	if item.Status.Terminal() {
		return nil, fmt.Errorf("%w: edit after %s", shared.ErrInvalidTransition, item.Status)
	}

	item.MergeFields(fields)
	if err := w.store.UpdateItem(item); err != nil {
		return nil, err
	}

	return item, nil
}

// List returns items in the given bucket, in store order. A read-side
// projection; nothing is mutated.
func (w *Workflow) List(filter Filter) ([]models.MusicItem, error) {
	if !filter.Valid() {
		return nil, fmt.Errorf("%w: filter %q", shared.ErrInvalidArgument, filter)
	}

	items, err := w.store.ListItems()
	if err != nil {
		return nil, err
	}

	matched := make([]models.MusicItem, 0, len(items))
	for _, item := range items {
		if filter.Matches(item.Status) {
			matched = append(matched, item)
		}
	}

	return matched, nil
}
