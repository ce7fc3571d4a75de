package main

import (
	"context"
	"fmt"

	"github.com/ProfessorGeovaniHenrique/songbook/internal/models"
	"github.com/ProfessorGeovaniHenrique/songbook/internal/shared"
	"github.com/urfave/cli/v3"
)

// LookupTitle runs a single enrichment lookup for one title and prints the result.
func (r *Runner) LookupTitle(ctx context.Context, cmd *cli.Command) error {
	title := cmd.StringArg("title")
	artist := cmd.String("artist")

	if title == "" {
		return fmt.Errorf("%w: a title is required", shared.ErrMissingArgument)
	}

	r.logger.Info("lookup", "title", title, "artist", artist)

	item := &models.MusicItem{
		ID:     shared.GenerateID(),
		Title:  title,
		Artist: artist,
		Status: models.StatusPending,
	}

	enrichment, err := r.lookup.Enrich(ctx, item)
	if err != nil {
		return err
	}

	return r.writeJSON(map[string]any{
		"title":      title,
		"artist":     artist,
		"fields":     enrichment.Fields,
		"confidence": enrichment.Confidence,
		"source":     enrichment.Source,
	}, true)
}

// LookupGet makes a direct GET request to the lookup service
func (r *Runner) LookupGet(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	useJSON := cmd.Bool("json")

	r.logger.Info("GET request", "path", path)

	resp, err := r.api.Get(ctx, path)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d, body: %s", shared.ErrAPIRequest, resp.StatusCode, string(resp.Body))
	}

	if useJSON {
		if resp.IsJSON {
			return r.writeJSON(resp.JSONData, false)
		}
		r.output.Write(resp.Body)
		r.output.Write([]byte("\n"))
		return nil
	}

	if resp.IsJSON {
		return r.writeJSON(resp.JSONData, true)
	}

	r.output.Write(resp.Body)
	r.output.Write([]byte("\n"))
	return nil
}

// lookupCommand handles one-off lookups and raw calls against the lookup service
func lookupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "lookup",
		Usage: "Query the metadata lookup service directly",
		Commands: []*cli.Command{
			{
				Name:  "title",
				Usage: "Enrich a single title without a batch run",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "title",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "artist",
						Aliases: []string{"a"},
						Usage:   "Artist name to narrow the search",
					},
				},
				Action: r.LookupTitle,
			},
			{
				Name:  "get",
				Usage: "Direct GET to the lookup service, prints raw JSON",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
						Value: true,
					},
				},
				Action: r.LookupGet,
			},
		},
	}
}
