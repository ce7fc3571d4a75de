package models

// ItemStatus enumerates the lifecycle of a [MusicItem].
//
// Items are created pending, move through enriching during a batch run, and
// reach validated or rejected only through explicit review actions.
type ItemStatus string

const (
	StatusPending    ItemStatus = "pending"
	StatusEnriching  ItemStatus = "enriching"
	StatusEnriched   ItemStatus = "enriched"
	StatusValidating ItemStatus = "validating"
	StatusValidated  ItemStatus = "validated"
	StatusRejected   ItemStatus = "rejected"
)

// Valid reports whether s is a known status value.
func (s ItemStatus) Valid() bool {
	switch s {
	case StatusPending, StatusEnriching, StatusEnriched, StatusValidating, StatusValidated, StatusRejected:
		return true
	default:
		return false
	}
}

// Terminal reports whether s is a terminal review status.
func (s ItemStatus) Terminal() bool {
	return s == StatusValidated || s == StatusRejected
}

// Reviewable reports whether an item with this status can enter the review workflow.
func (s ItemStatus) Reviewable() bool {
	return s == StatusEnriched || s == StatusValidating
}

// EnrichedFields holds the metadata a lookup strategy produces for an item.
// All fields are optional; zero values mean the source had nothing for them.
type EnrichedFields struct {
	Composer    string `json:"composer,omitempty"`
	ReleaseYear int    `json:"release_year,omitempty"`
	Album       string `json:"album,omitempty"`
	Genre       string `json:"genre,omitempty"`
	Label       string `json:"label,omitempty"`
	Country     string `json:"country,omitempty"`
}

// Enrichment is the result of one successful lookup: the fields, a confidence
// score in [0, 100], and a tag naming the strategy that produced the data.
type Enrichment struct {
	Fields     EnrichedFields
	Confidence int
	Source     string
}

// MusicItem is the unit of enrichment work.
//
// The batch controller is the only writer of Status during the enriching phase;
// the review workflow is the only writer of validated/rejected transitions.
type MusicItem struct {
	ID         string          `json:"id"`
	Title      string          `json:"title"`
	Artist     string          `json:"artist,omitempty"`
	Lyrics     string          `json:"lyrics,omitempty"`
	Status     ItemStatus      `json:"status"`
	Enriched   *EnrichedFields `json:"enriched,omitempty"`
	Confidence int             `json:"confidence,omitempty"`
	Source     string          `json:"source,omitempty"`
	Notes      string          `json:"notes,omitempty"`
}

// ApplyEnrichment merges a lookup result into the item and marks it enriched.
func (m *MusicItem) ApplyEnrichment(e *Enrichment) {
	fields := e.Fields
	m.Enriched = &fields
	m.Confidence = e.Confidence
	m.Source = e.Source
	m.Status = StatusEnriched
}

// MergeFields merges non-zero values from fields into the item's enriched
// metadata without touching status, confidence, or source.
func (m *MusicItem) MergeFields(fields EnrichedFields) {
	if m.Enriched == nil {
		m.Enriched = &EnrichedFields{}
	}
	if fields.Composer != "" {
		m.Enriched.Composer = fields.Composer
	}
	if fields.ReleaseYear != 0 {
		m.Enriched.ReleaseYear = fields.ReleaseYear
	}
	if fields.Album != "" {
		m.Enriched.Album = fields.Album
	}
	if fields.Genre != "" {
		m.Enriched.Genre = fields.Genre
	}
	if fields.Label != "" {
		m.Enriched.Label = fields.Label
	}
	if fields.Country != "" {
		m.Enriched.Country = fields.Country
	}
}
