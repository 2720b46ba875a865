package lib

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"k8s.io/client-go/util/homedir"

	"github.com/slok/tellah/internal/conventions"
	"github.com/slok/tellah/internal/generate"
	"github.com/slok/tellah/internal/generate/fake"
	"github.com/slok/tellah/internal/generate/gemini"
	"github.com/slok/tellah/internal/log"
	"github.com/slok/tellah/internal/model"
	"github.com/slok/tellah/internal/storage"
	"github.com/slok/tellah/internal/storage/sqlite"
)

// Config configures the SDK client.
//
// All fields are optional and have sensible defaults. At minimum, an empty
// Config{} will use ~/.tellah/tellah.db for storage and Gemini with the API key
// of the GOOGLE_AI_API_KEY environment variable.
type Config struct {
	// DBPath is the SQLite database path.
	// Default: <DataDir>/tellah.db.
	DBPath string

	// DataDir is the base directory for tellah data.
	// Default: ~/.tellah.
	DataDir string

	// Logger receives structured log output from the SDK.
	// Default: noop (silent). See the log sub-package for the interface.
	Logger log.Logger

	// Generator selects the content generator.
	// Default: [GeneratorGemini].
	//
	// Set this to [GeneratorFake] for testing without network access.
	Generator GeneratorType

	// APIKey is the Gemini API key.
	// Default: the GOOGLE_AI_API_KEY environment variable.
	APIKey string

	// Model is the Gemini model.
	// Default: gemini-2.5-flash.
	Model string

	// DoneStatus is the task status that marks a task as completed.
	// Default: "Completed".
	DoneStatus TaskStatus

	// DefaultEstimateHours is used when a generated estimation can't be understood,
	// 0 is a valid value.
	// Default: 1.
	DefaultEstimateHours *float64

	// AllowedStatuses restricts the statuses tasks can be set to.
	// Default: any status.
	AllowedStatuses []string
}

func (c *Config) defaults() error {
	if c.DataDir == "" {
		c.DataDir = filepath.Join(homedir.HomeDir(), conventions.DefaultDataDir)
	}

	if c.DBPath == "" {
		c.DBPath = conventions.DBPath(c.DataDir)
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}

	if c.Generator == "" {
		c.Generator = GeneratorGemini
	}

	if c.Generator == GeneratorGemini && c.APIKey == "" {
		c.APIKey = os.Getenv(conventions.APIKeyEnvVar)
		if c.APIKey == "" {
			return fmt.Errorf("gemini api key is missing, set APIKey or the %s environment variable: %w", conventions.APIKeyEnvVar, ErrNotValid)
		}
	}

	if c.DoneStatus == "" {
		c.DoneStatus = TaskStatusCompleted
	}

	return nil
}

// Client is the main SDK entry point for managing projects and tasks programmatically.
//
// Create a Client with [New] and release its resources with [Client.Close].
// A Client is safe for concurrent use.
type Client struct {
	repo            storage.Repository
	pipeline        *generate.Pipeline
	logger          log.Logger
	doneStatus      model.TaskStatus
	allowedStatuses []string
	closeFn         func() error
}

// New creates a new SDK client backed by a SQLite database.
//
// The caller must call [Client.Close] when done to release the database
// connection. Typically used with defer:
//
//	client, err := lib.New(ctx, lib.Config{})
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
func New(ctx context.Context, cfg Config) (*Client, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	gen, err := newGenerator(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("could not create generator: %w", err)
	}

	pipeline, err := generate.NewPipeline(generate.PipelineConfig{
		Generator:            gen,
		Logger:               cfg.Logger,
		DoneStatus:           model.TaskStatus(cfg.DoneStatus),
		DefaultEstimateHours: cfg.DefaultEstimateHours,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create pipeline: %w", err)
	}

	repo, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{
		DBPath: cfg.DBPath,
		Logger: cfg.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create repository: %w", err)
	}

	return &Client{
		repo:            repo,
		pipeline:        pipeline,
		logger:          cfg.Logger,
		doneStatus:      model.TaskStatus(cfg.DoneStatus),
		allowedStatuses: cfg.AllowedStatuses,
		closeFn:         repo.Close,
	}, nil
}

// Close releases resources held by the client, including the database connection.
// After Close returns, the client must not be used.
func (c *Client) Close() error {
	if c.closeFn != nil {
		return c.closeFn()
	}
	return nil
}

func newGenerator(ctx context.Context, cfg Config) (generate.Generator, error) {
	switch cfg.Generator {
	case GeneratorGemini:
		return gemini.NewGenerator(ctx, gemini.GeneratorConfig{
			APIKey: cfg.APIKey,
			Model:  cfg.Model,
			Logger: cfg.Logger,
		})
	case GeneratorFake:
		return fake.NewGenerator(fake.GeneratorConfig{Logger: cfg.Logger})
	default:
		return nil, fmt.Errorf("unsupported generator type: %s: %w", cfg.Generator, ErrNotValid)
	}
}
