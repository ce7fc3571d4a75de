package main

import (
	"context"
	"fmt"
	"time"

	"github.com/ProfessorGeovaniHenrique/songbook/internal/formatter"
	"github.com/ProfessorGeovaniHenrique/songbook/internal/models"
	"github.com/ProfessorGeovaniHenrique/songbook/internal/repositories"
	"github.com/ProfessorGeovaniHenrique/songbook/internal/review"
	"github.com/ProfessorGeovaniHenrique/songbook/internal/shared"
	"github.com/urfave/cli/v3"
)

// ExportCatalog writes the persisted catalog to csv, markdown, or text files.
func (r *Runner) ExportCatalog(ctx context.Context, cmd *cli.Command) error {
	name := cmd.String("name")
	format := cmd.String("format")
	output := cmd.String("output")
	filter := review.Filter(cmd.String("status"))

	if !filter.Valid() {
		return fmt.Errorf("%w: unknown status filter %q", shared.ErrInvalidArgument, filter)
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	all, err := repositories.NewItemRepository(db).ListItems()
	if err != nil {
		return err
	}

	items := make([]models.MusicItem, 0, len(all))
	for _, item := range all {
		if filter.Matches(item.Status) {
			items = append(items, item)
		}
	}

	export := &models.CatalogExport{
		Name:        name,
		GeneratedAt: time.Now(),
		Items:       items,
	}

	r.logger.Info("exporting catalog", "name", name, "format", format, "items", len(items))

	switch format {
	case "csv":
		result, err := formatter.WriteCSVExport(export, output)
		if err != nil {
			return err
		}
		r.writePlain("✓ Wrote %s and %s\n", result.ItemsFile, result.SummaryFile)
	case "markdown":
		result, err := formatter.WriteMarkdownExport(export, output)
		if err != nil {
			return err
		}
		r.writePlain("✓ Wrote %s\n", result.Files[0])
	case "text":
		path, err := formatter.WriteTextExport(export, output)
		if err != nil {
			return err
		}
		r.writePlain("✓ Wrote %s\n", path)
	default:
		return fmt.Errorf("%w: unknown format %q (csv, markdown, text)", shared.ErrInvalidArgument, format)
	}

	return nil
}

// ExportErrors writes the error report of a persisted batch run.
func (r *Runner) ExportErrors(ctx context.Context, cmd *cli.Command) error {
	runID := cmd.String("run")
	name := cmd.String("name")
	output := cmd.String("output")

	if runID == "" {
		return fmt.Errorf("%w: --run is required", shared.ErrMissingArgument)
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	entries, err := repositories.NewRunRepository(db).Errors(runID)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		r.writePlain("Run %s recorded no errors.\n", runID)
		return nil
	}

	path, err := formatter.WriteErrorExport(entries, name, output)
	if err != nil {
		return err
	}

	r.writePlain("✓ Wrote %s (%d entries)\n", path, len(entries))
	return nil
}

func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export the catalog or run error reports to files",
		Commands: []*cli.Command{
			{
				Name:  "catalog",
				Usage: "Export catalog items to csv, markdown, or text",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "name",
						Aliases: []string{"n"},
						Usage:   "Export name used for default filenames",
						Value:   "catalog",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format (csv, markdown, text)",
						Value:   "csv",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output path (base filename for csv, directory for markdown)",
					},
					&cli.StringFlag{
						Name:    "status",
						Aliases: []string{"s"},
						Usage:   "Filter by status (all, pending, validated, rejected)",
						Value:   "all",
					},
				},
				Action: r.ExportCatalog,
			},
			{
				Name:  "errors",
				Usage: "Export the error report of a saved batch run",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "run",
						Aliases:  []string{"r"},
						Usage:    "Batch run ID",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "name",
						Aliases: []string{"n"},
						Usage:   "Report name used for the default filename",
						Value:   "catalog",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path",
					},
				},
				Action: r.ExportErrors,
			},
		},
	}
}
