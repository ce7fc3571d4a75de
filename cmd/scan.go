package main

import (
	"context"

	"github.com/ProfessorGeovaniHenrique/songbook/internal/catalog"
	"github.com/ProfessorGeovaniHenrique/songbook/internal/models"
	"github.com/urfave/cli/v3"
)

// Scan ingests sheet files and reports detected columns and extracted titles
// without touching the lookup service or the database.
func (r *Runner) Scan(ctx context.Context, cmd *cli.Command) error {
	paths := cmd.Args().Slice()
	asJSON := cmd.Bool("json")
	filter := cmd.String("filter")

	ext, err := r.extractTitles(paths)
	if err != nil {
		return err
	}

	titles := ext.unique
	if filter != "" {
		selection := catalog.NewSelection(ext.unique)
		selection.SetFilter(filter)
		titles = selection.Filtered()
	}

	if asJSON {
		return r.writeJSON(map[string]any{
			"files":  ext.files,
			"titles": titles,
			"stats":  ext.stats,
		}, true)
	}

	for _, file := range ext.files {
		r.writePlainHeader(file.Filename)
		for _, sheet := range file.Sheets {
			r.writePlain("Sheet: %s (%d rows)\n", sheet.SheetName, sheet.RowCount)
			r.writePlain("  title:  %s\n", describeMatch(sheet.Detected.Title))
			r.writePlain("  artist: %s\n", describeMatch(sheet.Detected.Artist))
			r.writePlain("  lyrics: %s\n", describeMatch(sheet.Detected.Lyrics))
		}
		r.writePlain("\n")
	}

	r.writePlainHeader("Extracted Titles")
	for i, title := range titles {
		r.writePlain("%d. %s", i+1, title.Title)
		if title.Artist != "" {
			r.writePlain(" - %s", title.Artist)
		}
		r.writePlain("\n")
	}

	r.writePlainln("Files: %d  Sheets: %d  Titles: %d (%d unique)",
		ext.stats.TotalFiles, ext.stats.TotalSheets, ext.stats.TotalTitles, ext.stats.UniqueTitles)

	return nil
}

func describeMatch(match *models.ColumnMatch) string {
	if match == nil {
		return "(not detected)"
	}
	return match.Name
}

func scanCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "scan",
		Usage:     "Detect columns and extract titles from sheet files",
		ArgsUsage: "<file.csv> [file.csv ...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "json",
				Aliases: []string{"j"},
				Usage:   "Output results as JSON",
			},
			&cli.StringFlag{
				Name:    "filter",
				Aliases: []string{"f"},
				Usage:   "Only list titles matching this text",
			},
		},
		Action: r.Scan,
	}
}
