package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/ProfessorGeovaniHenrique/songbook/internal/catalog"
	"github.com/ProfessorGeovaniHenrique/songbook/internal/models"
	"github.com/ProfessorGeovaniHenrique/songbook/internal/pipeline"
	"github.com/ProfessorGeovaniHenrique/songbook/internal/services"
	"github.com/ProfessorGeovaniHenrique/songbook/internal/shared"
	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	lookup     *services.LookupService
	api        *services.APIService
	controller *pipeline.Controller
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Lookup     *services.LookupService
	API        *services.APIService
	Controller *pipeline.Controller
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Lookup == nil {
		timeout := time.Duration(opts.Config.Lookup.TimeoutSeconds) * time.Second
		opts.Lookup = services.NewLookupService(opts.Config.Lookup.BaseURL, timeout)
	}
	if opts.API == nil {
		opts.API = services.NewAPIService(opts.Config.Lookup.BaseURL, opts.HTTPClient)
	}
	if opts.Controller == nil {
		opts.Controller = pipeline.New(pipeline.Opts{
			Enricher:  opts.Lookup,
			RateLimit: opts.Config.Lookup.RateLimit,
			Logger:    opts.Logger,
		})
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		lookup:     opts.Lookup,
		api:        opts.API,
		controller: opts.Controller,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, scanCommand, enrichCommand, reviewCommand, exportCommand, lookupCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger swaps the runner's logger, typically to redirect logs to a file
// while the TUI owns the terminal.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// openDatabase opens the configured catalog database with pooling applied.
// Callers own the returned handle and must close it.
func (r *Runner) openDatabase() (*sql.DB, error) {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)
	return db, nil
}

// extraction is the shared scan result handed to the commands that ingest
// sheet files before doing anything else.
type extraction struct {
	files  []models.SourceFile
	raw    []models.ExtractedTitle
	unique []models.ExtractedTitle
	stats  models.ExtractionStats
}

// extractTitles loads the given sheet files and runs detection, extraction,
// and deduplication using the configured prefixes.
func (r *Runner) extractTitles(paths []string) (*extraction, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: at least one sheet file is required", shared.ErrMissingArgument)
	}

	extractor := catalog.NewExtractor(r.config.Extraction.TitlePrefixes, r.config.Extraction.PreviewRows)
	files, err := extractor.LoadFiles(paths)
	if err != nil {
		return nil, err
	}

	raw := extractor.Extract(files)
	unique := catalog.Deduplicate(raw)

	return &extraction{
		files:  files,
		raw:    raw,
		unique: unique,
		stats:  catalog.Stats(files, raw, unique),
	}, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
