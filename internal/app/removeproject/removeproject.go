package removeproject

import (
	"context"
	"fmt"

	"github.com/slok/tellah/internal/app/lookup"
	"github.com/slok/tellah/internal/log"
	"github.com/slok/tellah/internal/model"
	"github.com/slok/tellah/internal/storage"
)

// ServiceConfig is the configuration for the remove project service.
type ServiceConfig struct {
	Repository storage.Repository
	Logger     log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.RemoveProject"})

	return nil
}

// Service removes a project with all its tasks.
type Service struct {
	repo   storage.Repository
	logger log.Logger
}

// NewService creates a new remove project service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		repo:   cfg.Repository,
		logger: cfg.Logger,
	}, nil
}

// Request represents the remove project request parameters.
type Request struct {
	// Project is the project name or ID to remove.
	Project string
}

// Run removes a project by name or ID.
func (s *Service) Run(ctx context.Context, req Request) (*model.Project, error) {
	p, err := lookup.Project(ctx, s.repo, req.Project)
	if err != nil {
		return nil, err
	}

	if err := s.repo.DeleteProject(ctx, p.ID); err != nil {
		return nil, fmt.Errorf("could not delete project from repository: %w", err)
	}

	s.logger.Infof("removed project: %s (ID: %s)", p.Name, p.ID)
	return p, nil
}
