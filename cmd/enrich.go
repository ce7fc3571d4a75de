package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/ProfessorGeovaniHenrique/songbook/internal/catalog"
	"github.com/ProfessorGeovaniHenrique/songbook/internal/models"
	"github.com/ProfessorGeovaniHenrique/songbook/internal/pipeline"
	"github.com/ProfessorGeovaniHenrique/songbook/internal/repositories"
	"github.com/ProfessorGeovaniHenrique/songbook/internal/server"
	"github.com/urfave/cli/v3"
)

// EnrichRun extracts titles from the given sheet files and runs a full batch
// enrichment over them, streaming progress as it goes.
func (r *Runner) EnrichRun(ctx context.Context, cmd *cli.Command) error {
	filter := cmd.String("filter")
	rateLimit := cmd.Float64("rate-limit")
	retryFailed := cmd.Bool("retry-failed")
	save := cmd.Bool("save")
	listen := cmd.Bool("listen")

	ext, err := r.extractTitles(cmd.Args().Slice())
	if err != nil {
		return err
	}

	selection := catalog.NewSelection(ext.unique)
	if filter != "" {
		selection.ClearAll()
		selection.SetFilter(filter)
		selection.SelectAll()
	}
	if skip := cmd.String("skip"); skip != "" {
		// ClearAll is scoped to the active filter, so this deselects
		// only the titles matching the skip text.
		selection.SetFilter(skip)
		selection.ClearAll()
		selection.SetFilter(filter)
	}

	items := catalog.Items(selection.Selected())
	if len(items) == 0 {
		r.writePlain("No titles matched; nothing to enrich.\n")
		return nil
	}

	if rateLimit > 0 {
		r.controller = pipeline.New(pipeline.Opts{
			Enricher:  r.lookup,
			RateLimit: rateLimit,
			Logger:    r.logger,
		})
	}

	if listen {
		shutdown, err := r.serveControl()
		if err != nil {
			return err
		}
		defer shutdown()
	}

	r.logger.Info("starting batch run", "items", len(items), "filter", filter)
	r.writePlain("Enriching %d of %d unique titles...\n\n", len(items), len(ext.unique))

	// Create progress channel and goroutine to handle updates
	progressCh := make(chan pipeline.ProgressUpdate, 50)
	go func() {
		for update := range progressCh {
			switch update.Phase {
			case pipeline.StartRun:
				r.writePlain("▶ %s\n", update.Message)
			case pipeline.EnrichItem:
				r.writePlain("  [%d/%d] %s\n", update.Step, update.Total, update.Message)
			case pipeline.ItemFailed:
				r.writePlain("  ✗ %s\n", update.Message)
			case pipeline.RunPaused:
				r.writePlain("⏸ %s\n", update.Message)
			case pipeline.RunResumed:
				r.writePlain("▶ %s\n", update.Message)
			case pipeline.RunCancelled:
				r.writePlain("■ %s\n", update.Message)
			}
		}
	}()

	result, err := r.controller.Submit(ctx, items, progressCh)
	close(progressCh)

	if err != nil {
		return err
	}

	if retryFailed && result.Failed > 0 {
		r.writePlain("\nRetrying %d failed items...\n", result.Failed)
		retried, err := r.controller.Retry(ctx, nil, nil)
		if err != nil {
			return fmt.Errorf("retry failed: %w", err)
		}
		result = mergeRetry(result, retried)
	}

	r.writeRunSummary(result)

	if save {
		if err := r.persistRun(result); err != nil {
			return err
		}
	}

	return nil
}

// mergeRetry folds a retry pass into the original run summary. Totals stay
// those of the original submission; only the failure split moves.
func mergeRetry(original, retried *pipeline.RunResult) *pipeline.RunResult {
	merged := *original
	merged.Items = retried.Items
	merged.Succeeded += retried.Succeeded
	merged.Failed = retried.Failed
	merged.CompletedAt = retried.CompletedAt
	return &merged
}

func (r *Runner) writeRunSummary(result *pipeline.RunResult) {
	r.writePlain("\n")
	if result.Outcome == models.RunCancelled {
		r.writePlainHeader("Run Cancelled")
	} else {
		r.writePlainHeader("Run Complete")
	}
	r.writePlain("Items: %d total, %d attempted\n", result.Total, result.Attempted)
	r.writePlain("Enriched: %d  Failed: %d\n", result.Succeeded, result.Failed)
	r.writePlain("Duration: %s\n", result.CompletedAt.Sub(result.StartedAt).Round(10*time.Millisecond))

	entries := r.controller.Errors().Entries()
	if len(entries) > 0 {
		r.writePlain("\nErrors:\n")
		for _, entry := range entries {
			r.writePlain("  - %s (%d items)\n", entry.Message, len(entry.FailedItems))
		}
	}
}

// persistRun saves the run summary, its error entries, and every attempted
// item to the catalog database.
func (r *Runner) persistRun(result *pipeline.RunResult) error {
	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	runRepo := repositories.NewRunRepository(db)
	run := models.NewBatchRun(0, result.Outcome, result.Total, result.Attempted,
		result.Succeeded, result.Failed, result.StartedAt, result.CompletedAt)
	if err := runRepo.Create(run); err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	if entries := r.controller.Errors().Entries(); len(entries) > 0 {
		if err := runRepo.SaveErrors(run.ID(), entries); err != nil {
			return fmt.Errorf("failed to save run errors: %w", err)
		}
	}

	itemRepo := repositories.NewItemRepository(db)
	saved := 0
	for _, item := range result.Items {
		record := models.NewCatalogItem(0, *item)
		if err := itemRepo.Create(record); err != nil {
			r.logger.Warn("failed to save item", "title", item.Title, "error", err)
			continue
		}
		saved++
	}

	r.logger.Info("run persisted", "run", run.ID(), "items", saved)
	r.writePlain("\nSaved run %s with %d items to %s\n", run.ID(), saved, r.config.Database.Path)
	return nil
}

// serveControl mounts the run control service on the configured address and
// returns a shutdown func for when the run finishes.
func (r *Runner) serveControl() (func(), error) {
	router := server.NewBasicRouter()
	router.Use(server.LoggingMiddleware(r.logger))
	router.Handler(server.NewControlHandler(r.controller))

	addr := net.JoinHostPort(r.config.Server.Host, strconv.Itoa(r.config.Server.Port))
	srv := &http.Server{Addr: addr, Handler: router}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			r.logger.Error("control server stopped", "error", err)
		}
	}()

	r.logger.Info("control server listening", "addr", addr)
	return func() { srv.Close() }, nil
}

func enrichCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "enrich",
		Usage: "Run metadata enrichment over extracted titles",
		Commands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "Extract titles from sheet files and enrich them in a batch run",
				ArgsUsage: "<file.csv> [file.csv ...]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "filter",
						Aliases: []string{"f"},
						Usage:   "Only enrich titles matching this text",
					},
					&cli.StringFlag{
						Name:  "skip",
						Usage: "Exclude titles matching this text",
					},
					&cli.Float64Flag{
						Name:  "rate-limit",
						Usage: "Override lookups per second (0 uses the configured limit)",
					},
					&cli.BoolFlag{
						Name:  "retry-failed",
						Usage: "Retry failed items once after the run completes",
					},
					&cli.BoolFlag{
						Name:    "save",
						Aliases: []string{"s"},
						Usage:   "Persist the run and its items to the catalog database",
					},
					&cli.BoolFlag{
						Name:  "listen",
						Usage: "Serve the HTTP run control endpoints while the run is active",
					},
				},
				Action: r.EnrichRun,
			},
		},
	}
}
