package models

import "time"

// CatalogExport bundles the read models the export commands serialize.
type CatalogExport struct {
	Name        string      `json:"name"`
	GeneratedAt time.Time   `json:"generated_at"`
	Items       []MusicItem `json:"items"`
}

// Summary tallies the export's items by review status.
func (e *CatalogExport) Summary() map[ItemStatus]int {
	counts := make(map[ItemStatus]int)
	for _, item := range e.Items {
		counts[item.Status]++
	}
	return counts
}
