package main

import (
	"context"

	"github.com/ProfessorGeovaniHenrique/songbook/internal/models"
	"github.com/ProfessorGeovaniHenrique/songbook/internal/repositories"
	"github.com/ProfessorGeovaniHenrique/songbook/internal/review"
	"github.com/ProfessorGeovaniHenrique/songbook/internal/shared"
	"github.com/urfave/cli/v3"
)

// withWorkflow opens the catalog database and runs fn with a review workflow
// backed by the persisted items.
func (r *Runner) withWorkflow(fn func(*review.Workflow) error) error {
	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	return fn(review.NewWorkflow(repositories.NewItemRepository(db)))
}

// ReviewList lists persisted items, optionally filtered by review status.
func (r *Runner) ReviewList(ctx context.Context, cmd *cli.Command) error {
	filter := review.Filter(cmd.String("status"))
	asJSON := cmd.Bool("json")

	return r.withWorkflow(func(wf *review.Workflow) error {
		items, err := wf.List(filter)
		if err != nil {
			return err
		}

		if asJSON {
			return r.writeJSON(items, true)
		}

		if len(items) == 0 {
			r.writePlain("No items found.\n")
			return nil
		}

		for _, item := range items {
			r.writePlain("%-36s  %-10s  %s", item.ID, item.Status, item.Title)
			if item.Artist != "" {
				r.writePlain(" - %s", item.Artist)
			}
			if item.Confidence > 0 {
				r.writePlain("  (%d%% via %s)", item.Confidence, item.Source)
			}
			r.writePlain("\n")
		}
		r.writePlainln("%d items", len(items))
		return nil
	})
}

// ReviewValidate marks an enriched item as validated.
func (r *Runner) ReviewValidate(ctx context.Context, cmd *cli.Command) error {
	return r.decide(cmd, func(wf *review.Workflow, id string) (*models.MusicItem, error) {
		return wf.Validate(id)
	})
}

// ReviewReject marks an enriched item as rejected.
func (r *Runner) ReviewReject(ctx context.Context, cmd *cli.Command) error {
	return r.decide(cmd, func(wf *review.Workflow, id string) (*models.MusicItem, error) {
		return wf.Reject(id)
	})
}

func (r *Runner) decide(cmd *cli.Command, action func(*review.Workflow, string) (*models.MusicItem, error)) error {
	id := cmd.Args().First()
	if id == "" {
		return shared.ErrMissingArgument
	}

	return r.withWorkflow(func(wf *review.Workflow) error {
		item, err := action(wf, id)
		if err != nil {
			return err
		}
		r.logger.Info("item reviewed", "item", item.ID, "status", item.Status)
		r.writePlain("✓ %s is now %s\n", item.Title, item.Status)
		return nil
	})
}

// ReviewEdit applies manual metadata corrections to an item under review.
func (r *Runner) ReviewEdit(ctx context.Context, cmd *cli.Command) error {
	id := cmd.Args().First()
	if id == "" {
		return shared.ErrMissingArgument
	}

	fields := models.EnrichedFields{
		Composer:    cmd.String("composer"),
		ReleaseYear: int(cmd.Int("year")),
		Album:       cmd.String("album"),
		Genre:       cmd.String("genre"),
		Label:       cmd.String("label"),
		Country:     cmd.String("country"),
	}

	return r.withWorkflow(func(wf *review.Workflow) error {
		item, err := wf.Edit(id, fields)
		if err != nil {
			return err
		}
		r.writePlain("✓ Updated %s\n", item.Title)
		return r.writeJSON(item.Enriched, true)
	})
}

func reviewCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "review",
		Usage: "Review and correct enriched catalog items",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List catalog items by review status",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "status",
						Aliases: []string{"s"},
						Usage:   "Filter by status (all, pending, validated, rejected)",
						Value:   "all",
					},
					&cli.BoolFlag{
						Name:    "json",
						Aliases: []string{"j"},
						Usage:   "Output results as JSON",
					},
				},
				Action: r.ReviewList,
			},
			{
				Name:      "validate",
				Usage:     "Mark an enriched item as validated",
				ArgsUsage: "<item-id>",
				Action:    r.ReviewValidate,
			},
			{
				Name:      "reject",
				Usage:     "Mark an enriched item as rejected",
				ArgsUsage: "<item-id>",
				Action:    r.ReviewReject,
			},
			{
				Name:      "edit",
				Usage:     "Apply manual metadata corrections to an item",
				ArgsUsage: "<item-id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "composer", Usage: "Composer credit"},
					&cli.IntFlag{Name: "year", Usage: "Release year"},
					&cli.StringFlag{Name: "album", Usage: "Album title"},
					&cli.StringFlag{Name: "genre", Usage: "Genre"},
					&cli.StringFlag{Name: "label", Usage: "Record label"},
					&cli.StringFlag{Name: "country", Usage: "Country of origin"},
				},
				Action: r.ReviewEdit,
			},
		},
	}
}
