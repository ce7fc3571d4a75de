// package formatter provides functions to export catalog data to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/ProfessorGeovaniHenrique/songbook/internal/models"
	"github.com/ProfessorGeovaniHenrique/songbook/internal/pipeline"
	"github.com/ProfessorGeovaniHenrique/songbook/internal/shared"
)

// ExportToCSV converts a CatalogExport to CSV format, one row per item
func ExportToCSV(export *models.CatalogExport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Title", "Artist", "Composer", "Year", "Album", "Genre", "Label", "Country", "Confidence", "Source", "Status"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, item := range export.Items {
		fields := models.EnrichedFields{}
		if item.Enriched != nil {
			fields = *item.Enriched
		}

		year := ""
		if fields.ReleaseYear != 0 {
			year = strconv.Itoa(fields.ReleaseYear)
		}

		record := []string{
			item.Title,
			item.Artist,
			fields.Composer,
			year,
			fields.Album,
			fields.Genre,
			fields.Label,
			fields.Country,
			strconv.Itoa(item.Confidence),
			item.Source,
			string(item.Status),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a CatalogExport to Markdown format with a status summary
func ExportToMarkdown(export *models.CatalogExport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", export.Name))
	buf.WriteString(fmt.Sprintf("**Items**: %d\n", len(export.Items)))

	summary := export.Summary()
	for _, status := range []models.ItemStatus{models.StatusValidated, models.StatusRejected, models.StatusEnriched, models.StatusPending} {
		if count := summary[status]; count > 0 {
			buf.WriteString(fmt.Sprintf("**%s**: %d\n", status, count))
		}
	}
	buf.WriteString("\n## Items\n\n")

	for i, item := range export.Items {
		detail := ""
		if item.Enriched != nil {
			if item.Enriched.Composer != "" {
				detail += fmt.Sprintf(" (%s", item.Enriched.Composer)
				if item.Enriched.ReleaseYear != 0 {
					detail += fmt.Sprintf(", %d", item.Enriched.ReleaseYear)
				}
				detail += ")"
			} else if item.Enriched.ReleaseYear != 0 {
				detail += fmt.Sprintf(" (%d)", item.Enriched.ReleaseYear)
			}
		}
		buf.WriteString(fmt.Sprintf("%d. %s - %s%s [%s]\n", i+1, item.Artist, item.Title, detail, item.Status))
	}

	return buf.Bytes(), nil
}

// ExportToText converts a CatalogExport to plain text format
func ExportToText(export *models.CatalogExport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Catalog: %s\n", export.Name))
	buf.WriteString(fmt.Sprintf("Items: %d\n\n", len(export.Items)))

	for i, item := range export.Items {
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, item.Artist, item.Title))
	}

	return buf.Bytes(), nil
}

// ExportErrorsToText serializes error log entries as a plain text report, oldest-first
func ExportErrorsToText(entries []pipeline.ErrorEntry) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Errors: %d\n\n", len(entries)))

	for i, entry := range entries {
		buf.WriteString(fmt.Sprintf("%d. [%s] %s\n", i+1, entry.Timestamp.Format("2006-01-02 15:04:05"), entry.Message))
		if entry.Details != "" {
			buf.WriteString(fmt.Sprintf("   details: %s\n", entry.Details))
		}
		for _, id := range entry.FailedItems {
			buf.WriteString(fmt.Sprintf("   - %s\n", id))
		}
	}

	return buf.Bytes()
}

// ToSummaryJSON generates a JSON representation of the export's status tallies
func ToSummaryJSON(export *models.CatalogExport) ([]byte, error) {
	summary := struct {
		Name        string                    `json:"name"`
		GeneratedAt string                    `json:"generated_at"`
		Total       int                       `json:"total"`
		Counts      map[models.ItemStatus]int `json:"counts"`
	}{
		Name:        export.Name,
		GeneratedAt: export.GeneratedAt.Format("2006-01-02T15:04:05Z07:00"),
		Total:       len(export.Items),
		Counts:      export.Summary(),
	}

	return shared.MarshalJSON(summary, true)
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	ItemsFile   string
	SummaryFile string
}

// WriteCSVExport exports a catalog to CSV format with an accompanying summary JSON file.
//
// Defaults to the export name as the base filename & creates {base}_items.csv and {base}_summary.json
func WriteCSVExport(export *models.CatalogExport, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = export.Name
	}

	csvData, err := ExportToCSV(export)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	itemsFile := baseFilepath + "_items.csv"
	if err := os.WriteFile(itemsFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	summaryJSON, err := ToSummaryJSON(export)
	if err != nil {
		return nil, fmt.Errorf("failed to generate summary JSON: %w", err)
	}

	summaryFile := baseFilepath + "_summary.json"
	if err := os.WriteFile(summaryFile, summaryJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write summary file: %w", err)
	}

	return &CSVExportResult{
		ItemsFile:   itemsFile,
		SummaryFile: summaryFile,
	}, nil
}

// MarkdownExportResult contains information about files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Directory string
	Files     []string
}

// WriteMarkdownExport exports a catalog to Markdown format in a dedicated directory.
//
// Directory name defaults to the export name. Creates {dir}/README.md.
func WriteMarkdownExport(export *models.CatalogExport, outputDir string) (*MarkdownExportResult, error) {
	if outputDir == "" {
		outputDir = export.Name
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &MarkdownExportResult{
		Directory: outputDir,
		Files:     []string{},
	}

	mdData, err := ExportToMarkdown(export)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := fmt.Sprintf("%s/README.md", outputDir)
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}

	result.Files = append(result.Files, mdFile)

	return result, nil
}

// WriteTextExport exports a catalog to plain text format.
//
// Defaults to {name}_items.txt as the filename.
func WriteTextExport(export *models.CatalogExport, filepath string) (string, error) {
	if filepath == "" {
		filepath = fmt.Sprintf("%s_items.txt", export.Name)
	}

	textData, err := ExportToText(export)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(filepath, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return filepath, nil
}

// WriteErrorExport writes the error log report to the given path.
//
// Defaults to {name}_errors.txt as the filename.
func WriteErrorExport(entries []pipeline.ErrorEntry, name, filepath string) (string, error) {
	if filepath == "" {
		filepath = fmt.Sprintf("%s_errors.txt", name)
	}

	if err := os.WriteFile(filepath, ExportErrorsToText(entries), 0644); err != nil {
		return "", fmt.Errorf("failed to write error report: %w", err)
	}

	return filepath, nil
}
