package catalog

import (
	"strings"

	"github.com/ProfessorGeovaniHenrique/songbook/internal/models"
	"github.com/ProfessorGeovaniHenrique/songbook/internal/shared"
)

// DefaultTitlePrefixes are the label prefixes stripped from title cells when
// no configuration overrides them.
var DefaultTitlePrefixes = []string{"música:", "musica:", "song name:"}

const defaultPreviewRows = 5

// Extractor turns raw tabular rows into detected sheets and extracted titles.
type Extractor struct {
	prefixes    []string
	previewRows int
}

// NewExtractor creates an Extractor.
// Zero-value arguments fall back to [DefaultTitlePrefixes] and a 5-row preview.
func NewExtractor(prefixes []string, previewRows int) *Extractor {
	if len(prefixes) == 0 {
		prefixes = DefaultTitlePrefixes
	}
	if previewRows <= 0 {
		previewRows = defaultPreviewRows
	}
	return &Extractor{prefixes: prefixes, previewRows: previewRows}
}

// NormalizeKey returns the deduplication key for a title: lower-cased and
// whitespace-trimmed.
func NormalizeKey(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

// StripPrefix removes every leading occurrence of the known label prefixes
// from value, case-insensitively, and trims whitespace. Stripping is
// idempotent: a second pass over the result is a no-op.
func (e *Extractor) StripPrefix(value string) string {
	value = strings.TrimSpace(value)
	for {
		stripped := value
		lower := strings.ToLower(value)
		for _, prefix := range e.prefixes {
			if strings.HasPrefix(lower, prefix) {
				stripped = strings.TrimSpace(value[len(prefix):])
				break
			}
		}
		if stripped == value {
			return value
		}
		value = stripped
	}
}

// BuildSheet runs column detection over raw rows and produces an immutable
// [models.Sheet]. The first row is treated as the header; Preview keeps a
// bounded sample of the data rows.
func (e *Extractor) BuildSheet(name string, rows [][]string) models.Sheet {
	sheet := models.Sheet{SheetName: name}
	if len(rows) == 0 {
		return sheet
	}

	sheet.Header = rows[0]
	sheet.Detected = DetectColumns(rows[0])
	sheet.Rows = rows[1:]
	sheet.RowCount = len(sheet.Rows)

	preview := sheet.Rows
	if len(preview) > e.previewRows {
		preview = preview[:e.previewRows]
	}
	sheet.Preview = preview

	return sheet
}

// Extract reads every sheet with a detected title column and produces the
// flat ordered sequence of candidate titles. Rows whose title cell is empty
// after prefix stripping are discarded.
func (e *Extractor) Extract(files []models.SourceFile) []models.ExtractedTitle {
	var titles []models.ExtractedTitle

	for _, file := range files {
		for _, sheet := range file.Sheets {
			if sheet.Detected.Title == nil {
				continue
			}

			titleIdx := sheet.Detected.Title.Index
			for rowNum, row := range sheet.Rows {
				if titleIdx >= len(row) {
					continue
				}

				title := e.StripPrefix(row[titleIdx])
				if title == "" {
					continue
				}

				extracted := models.ExtractedTitle{
					Title: title,
					Source: models.TitleSource{
						Filename:  file.Filename,
						SheetName: sheet.SheetName,
						Row:       rowNum + 1,
					},
				}
				if artist := sheet.Detected.Artist; artist != nil && artist.Index < len(row) {
					extracted.Artist = strings.TrimSpace(row[artist.Index])
				}

				titles = append(titles, extracted)
			}
		}
	}

	return titles
}

// Deduplicate collapses titles sharing a normalized key into a single record.
// Canonical records keep input order; the first-seen record wins, including
// its provenance and artist.
func Deduplicate(titles []models.ExtractedTitle) []models.ExtractedTitle {
	unique := make([]models.ExtractedTitle, 0, len(titles))
	index := make(map[string]int, len(titles))

	for _, t := range titles {
		key := NormalizeKey(t.Title)
		if key == "" {
			continue
		}
		if _, seen := index[key]; seen {
			continue
		}
		index[key] = len(unique)
		unique = append(unique, t)
	}

	return unique
}

// Items converts extracted titles into pending work items with assigned IDs.
func Items(titles []models.ExtractedTitle) []*models.MusicItem {
	items := make([]*models.MusicItem, 0, len(titles))
	for _, t := range titles {
		items = append(items, &models.MusicItem{
			ID:     shared.GenerateID(),
			Title:  t.Title,
			Artist: t.Artist,
			Status: models.StatusPending,
		})
	}
	return items
}

// Stats recomputes the derived extraction aggregates for the given input.
func Stats(files []models.SourceFile, raw, unique []models.ExtractedTitle) models.ExtractionStats {
	sheets := 0
	for _, f := range files {
		sheets += len(f.Sheets)
	}
	return models.ExtractionStats{
		TotalFiles:   len(files),
		TotalSheets:  sheets,
		TotalTitles:  len(raw),
		UniqueTitles: len(unique),
	}
}
