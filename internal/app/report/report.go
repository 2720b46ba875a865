package report

import (
	"context"
	"fmt"

	"github.com/slok/tellah/internal/app/lookup"
	"github.com/slok/tellah/internal/log"
	"github.com/slok/tellah/internal/model"
	"github.com/slok/tellah/internal/storage"
)

// Reporter generates project reports.
type Reporter interface {
	GenerateReport(ctx context.Context, projectName, projectDescription string, tasks []model.Task) (model.Report, error)
}

// ServiceConfig is the configuration for the report service.
type ServiceConfig struct {
	Repository storage.Repository
	Generator  Reporter
	Logger     log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}

	if c.Generator == nil {
		return fmt.Errorf("generator is required")
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}

	return nil
}

// Service generates project reports.
type Service struct {
	repo   storage.Repository
	gen    Reporter
	logger log.Logger
}

// NewService creates a new report service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		repo:   cfg.Repository,
		gen:    cfg.Generator,
		logger: cfg.Logger,
	}, nil
}

// Request represents the report request parameters.
type Request struct {
	Project string
}

// Run generates the report of a project.
func (s *Service) Run(ctx context.Context, req Request) (*model.Report, error) {
	p, err := lookup.Project(ctx, s.repo, req.Project)
	if err != nil {
		return nil, err
	}

	tasks, err := s.repo.ListTasks(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("could not list tasks: %w", err)
	}

	r, err := s.gen.GenerateReport(ctx, p.Name, p.Description, tasks)
	if err != nil {
		return nil, fmt.Errorf("could not generate report: %w", err)
	}

	return &r, nil
}
