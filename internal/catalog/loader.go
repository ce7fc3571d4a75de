package catalog

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ProfessorGeovaniHenrique/songbook/internal/models"
)

// LoadFile reads a CSV file into a [models.SourceFile] with a single sheet
// named after the file. Ragged rows are accepted; the extractor guards
// against short rows itself.
func (e *Extractor) LoadFile(path string) (models.SourceFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.SourceFile{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return models.SourceFile{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	filename := filepath.Base(path)
	sheetName := strings.TrimSuffix(filename, filepath.Ext(filename))

	return models.SourceFile{
		Filename: filename,
		Sheets:   []models.Sheet{e.BuildSheet(sheetName, rows)},
	}, nil
}

// LoadFiles reads multiple CSV files in the given order.
func (e *Extractor) LoadFiles(paths []string) ([]models.SourceFile, error) {
	files := make([]models.SourceFile, 0, len(paths))
	for _, path := range paths {
		file, err := e.LoadFile(path)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	return files, nil
}
