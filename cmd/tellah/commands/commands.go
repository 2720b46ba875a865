package commands

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/alecthomas/kingpin/v2"
	"k8s.io/client-go/util/homedir"

	"github.com/slok/tellah/internal/conventions"
	"github.com/slok/tellah/internal/generate"
	"github.com/slok/tellah/internal/generate/fake"
	"github.com/slok/tellah/internal/generate/gemini"
	"github.com/slok/tellah/internal/log"
	"github.com/slok/tellah/internal/model"
	"github.com/slok/tellah/internal/printer"
	"github.com/slok/tellah/internal/storage/sqlite"
)

const (
	// LoggerTypeDefault is the logger default type.
	LoggerTypeDefault = "default"
	// LoggerTypeJSON is the logger json type.
	LoggerTypeJSON = "json"

	// GeneratorGemini generates content with the Gemini API.
	GeneratorGemini = "gemini"
	// GeneratorFake generates deterministic content offline.
	GeneratorFake = "fake"

	formatTable = "table"
	formatJSON  = "json"
)

// Command represents an application command, all commands that want to be executed
// should implement and setup on main.
type Command interface {
	Name() string
	Run(ctx context.Context) error
}

// RootCommand represents the root command configuration and global configuration
// for all the commands.
type RootCommand struct {
	// Global flags.
	Debug           bool
	NoLog           bool
	NoColor         bool
	LoggerType      string
	EnvFile         string
	DBPath          string
	Generator       string
	APIKey          string
	Model           string
	DoneStatus      string
	DefaultEstimate float64
	ListFormat      string
	AllowedStatuses []string

	// Global instances.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger log.Logger
}

// NewRootCommand initializes the main root configuration.
func NewRootCommand(app *kingpin.Application) *RootCommand {
	c := &RootCommand{}

	app.Flag("debug", "Enable debug mode.").BoolVar(&c.Debug)
	app.Flag("no-log", "Disable logger.").BoolVar(&c.NoLog)
	app.Flag("no-color", "Disable logger color.").BoolVar(&c.NoColor)
	app.Flag("logger", "Selects the logger type.").Default(LoggerTypeDefault).EnumVar(&c.LoggerType, LoggerTypeDefault, LoggerTypeJSON)
	app.Flag("env-file", "Dotenv file loaded before reading the configuration.").Default(conventions.EnvFile).StringVar(&c.EnvFile)

	defaultDBPath := conventions.DBPath(filepath.Join(homedir.HomeDir(), conventions.DefaultDataDir))
	app.Flag("db-path", "Path to the SQLite database file.").Default(defaultDBPath).StringVar(&c.DBPath)

	app.Flag("generator", "Content generator backend.").Default(GeneratorGemini).EnumVar(&c.Generator, GeneratorGemini, GeneratorFake)
	app.Flag("api-key", "Gemini API key.").Envar(conventions.APIKeyEnvVar).StringVar(&c.APIKey)
	app.Flag("model", "Gemini model used to generate content.").Default(gemini.DefaultModel).StringVar(&c.Model)
	app.Flag("done-status", "Task status that marks a task as completed.").Default(string(model.TaskStatusCompleted)).StringVar(&c.DoneStatus)
	app.Flag("default-estimate", "Hours used when a generated estimation can't be understood.").Default(fmt.Sprint(generate.DefaultEstimateHours)).Float64Var(&c.DefaultEstimate)
	app.Flag("list-format", "Encoding of generated task lists (auto, json, literal).").Default("auto").EnumVar(&c.ListFormat, "auto", "json", "literal")
	app.Flag("allowed-status", "Status a task can be set to (repeatable), any status is allowed when not set.").StringsVar(&c.AllowedStatuses)

	return c
}

// newRepository returns the SQLite repository configured by the global flags.
// The caller must close it.
func (r RootCommand) newRepository(ctx context.Context) (*sqlite.Repository, error) {
	repo, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{
		DBPath: r.DBPath,
		Logger: r.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create repository: %w", err)
	}

	return repo, nil
}

// newGenerator returns the content generator selected by the global flags.
func (r RootCommand) newGenerator(ctx context.Context) (generate.Generator, error) {
	switch r.Generator {
	case GeneratorFake:
		return fake.NewGenerator(fake.GeneratorConfig{Logger: r.Logger})
	case GeneratorGemini:
		if r.APIKey == "" {
			return nil, fmt.Errorf("gemini api key is missing, set the %s environment variable or use --api-key", conventions.APIKeyEnvVar)
		}
		return gemini.NewGenerator(ctx, gemini.GeneratorConfig{
			APIKey: r.APIKey,
			Model:  r.Model,
			Logger: r.Logger,
		})
	default:
		return nil, fmt.Errorf("unknown generator %q", r.Generator)
	}
}

// newPipeline returns the generation pipeline configured by the global flags.
func (r RootCommand) newPipeline(ctx context.Context) (*generate.Pipeline, error) {
	gen, err := r.newGenerator(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not create generator: %w", err)
	}

	formats, err := generate.ParseListFormats(r.ListFormat)
	if err != nil {
		return nil, err
	}

	p, err := generate.NewPipeline(generate.PipelineConfig{
		Generator:            gen,
		Logger:               r.Logger,
		DoneStatus:           model.TaskStatus(r.DoneStatus),
		DefaultEstimateHours: &r.DefaultEstimate,
		ListFormats:          formats,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create pipeline: %w", err)
	}

	return p, nil
}

func (r RootCommand) newPrinter(format string) printer.Printer {
	if format == formatJSON {
		return printer.NewJSONPrinter(r.Stdout)
	}
	return printer.NewTablePrinter(r.Stdout)
}

func addFormatFlag(cmd *kingpin.CmdClause, format *string) {
	cmd.Flag("format", "Output format (table, json).").Default(formatTable).EnumVar(format, formatTable, formatJSON)
}

func closeRepository(repo *sqlite.Repository, logger log.Logger) {
	if err := repo.Close(); err != nil {
		logger.Warningf("could not close repository: %s", err)
	}
}
