package catalog

import (
	"fmt"
	"strings"

	"github.com/ProfessorGeovaniHenrique/songbook/internal/models"
	"github.com/ProfessorGeovaniHenrique/songbook/internal/shared"
)

// Selection tracks which deduplicated titles are included for processing.
//
// Canonical titles live in an ordered slice with a side index from normalized
// key to position, so membership checks stay O(1) while the selection keeps
// input order. All mutations are synchronous; every change notifies the
// registered observer with the new full selection as an ordered list.
type Selection struct {
	titles   []models.ExtractedTitle
	index    map[string]int
	selected map[string]bool
	filter   string
	onChange func([]models.ExtractedTitle)
}

// NewSelection creates a Selection over deduplicated titles with every title
// initially selected.
func NewSelection(titles []models.ExtractedTitle) *Selection {
	s := &Selection{
		titles:   titles,
		index:    make(map[string]int, len(titles)),
		selected: make(map[string]bool, len(titles)),
	}
	for i, t := range titles {
		key := NormalizeKey(t.Title)
		s.index[key] = i
		s.selected[key] = true
	}
	return s
}

// OnChange registers the observer notified after every mutation.
func (s *Selection) OnChange(fn func([]models.ExtractedTitle)) {
	s.onChange = fn
}

// SetFilter sets the free-text filter. Filtering is a read-side concern and
// scopes bulk operations; it does not notify.
func (s *Selection) SetFilter(query string) {
	s.filter = strings.ToLower(strings.TrimSpace(query))
}

// Filter returns the current filter query.
func (s *Selection) Filter() string {
	return s.filter
}

// matchesFilter reports whether a title is visible under the current filter
// (case-insensitive substring match over title and artist).
func (s *Selection) matchesFilter(t models.ExtractedTitle) bool {
	if s.filter == "" {
		return true
	}
	return strings.Contains(strings.ToLower(t.Title), s.filter) ||
		strings.Contains(strings.ToLower(t.Artist), s.filter)
}

// Filtered returns the titles visible under the current filter, in order.
func (s *Selection) Filtered() []models.ExtractedTitle {
	if s.filter == "" {
		return s.titles
	}
	var visible []models.ExtractedTitle
	for _, t := range s.titles {
		if s.matchesFilter(t) {
			visible = append(visible, t)
		}
	}
	return visible
}

// SelectAll selects every title visible under the current filter.
func (s *Selection) SelectAll() {
	for _, t := range s.titles {
		if s.matchesFilter(t) {
			s.selected[NormalizeKey(t.Title)] = true
		}
	}
	s.notify()
}

// ClearAll deselects every title visible under the current filter.
func (s *Selection) ClearAll() {
	for _, t := range s.titles {
		if s.matchesFilter(t) {
			s.selected[NormalizeKey(t.Title)] = false
		}
	}
	s.notify()
}

// Toggle flips selection for the title identified by key (normalized or raw).
func (s *Selection) Toggle(key string) error {
	key = NormalizeKey(key)
	if _, ok := s.index[key]; !ok {
		return fmt.Errorf("%w: no extracted title %q", shared.ErrItemNotFound, key)
	}
	s.selected[key] = !s.selected[key]
	s.notify()
	return nil
}

// IsSelected reports whether the title identified by key is selected.
func (s *Selection) IsSelected(key string) bool {
	return s.selected[NormalizeKey(key)]
}

// Selected returns the currently selected titles as an ordered list.
func (s *Selection) Selected() []models.ExtractedTitle {
	var out []models.ExtractedTitle
	for _, t := range s.titles {
		if s.selected[NormalizeKey(t.Title)] {
			out = append(out, t)
		}
	}
	return out
}

// Count returns the number of selected titles.
func (s *Selection) Count() int {
	n := 0
	for _, on := range s.selected {
		if on {
			n++
		}
	}
	return n
}

func (s *Selection) notify() {
	if s.onChange != nil {
		s.onChange(s.Selected())
	}
}
