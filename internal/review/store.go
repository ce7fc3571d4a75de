package review

import (
	"sync"

	"github.com/ProfessorGeovaniHenrique/songbook/internal/models"
	"github.com/ProfessorGeovaniHenrique/songbook/internal/shared"
)

// MemoryStore is an [ItemStore] over in-memory items, used when review happens
// in the same session as the run without a catalog database.
type MemoryStore struct {
	mu    sync.Mutex
	items map[string]*models.MusicItem
	order []string
}

// NewMemoryStore creates a store seeded with the given items, preserving order.
func NewMemoryStore(items []models.MusicItem) *MemoryStore {
	s := &MemoryStore{items: make(map[string]*models.MusicItem, len(items))}
	for i := range items {
		item := items[i]
		s.items[item.ID] = &item
		s.order = append(s.order, item.ID)
	}
	return s
}

func (s *MemoryStore) GetItem(id string) (*models.MusicItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return nil, shared.ErrItemNotFound
	}

	copied := *item
	return &copied, nil
}

func (s *MemoryStore) UpdateItem(item *models.MusicItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[item.ID]; !ok {
		return shared.ErrItemNotFound
	}

	copied := *item
	s.items[item.ID] = &copied
	return nil
}

func (s *MemoryStore) ListItems() ([]models.MusicItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.MusicItem, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.items[id])
	}
	return out, nil
}
