package models

// ColumnMatch identifies a detected column by display name and zero-based index.
type ColumnMatch struct {
	Name  string `json:"name"`
	Index int    `json:"index"`
}

// DetectedColumns holds the zero-or-one column match per semantic role.
// A nil match means the role was absent or ambiguous in the header row.
type DetectedColumns struct {
	Title  *ColumnMatch `json:"title,omitempty"`
	Artist *ColumnMatch `json:"artist,omitempty"`
	Lyrics *ColumnMatch `json:"lyrics,omitempty"`
}

// Sheet is one tab of tabular input after column detection.
// Never mutated after creation; Preview holds a bounded sample of data rows.
type Sheet struct {
	SheetName string          `json:"sheet_name"`
	Detected  DetectedColumns `json:"detected"`
	Header    []string        `json:"header"`
	RowCount  int             `json:"row_count"`
	Preview   [][]string      `json:"preview,omitempty"`

	// Rows carries the full data rows (header excluded) for extraction.
	// Not serialized; only the bounded Preview leaves the process.
	Rows [][]string `json:"-"`
}

// SourceFile is one ingested file with its ordered sheets. Immutable once built.
type SourceFile struct {
	Filename string  `json:"filename"`
	Sheets   []Sheet `json:"sheets"`
}

// TitleSource records where an extracted title came from.
type TitleSource struct {
	Filename  string `json:"filename"`
	SheetName string `json:"sheet_name"`
	Row       int    `json:"row"`
}

// ExtractedTitle is a normalized candidate title with provenance.
// Multiple records may share the same normalized title before deduplication.
type ExtractedTitle struct {
	Title  string      `json:"title"`
	Artist string      `json:"artist,omitempty"`
	Source TitleSource `json:"source"`
}

// ExtractionStats aggregates the extraction pass. Pure derived values,
// recomputed whenever the input set changes.
type ExtractionStats struct {
	TotalFiles   int `json:"total_files"`
	TotalSheets  int `json:"total_sheets"`
	TotalTitles  int `json:"total_titles"`
	UniqueTitles int `json:"unique_titles"`
}
