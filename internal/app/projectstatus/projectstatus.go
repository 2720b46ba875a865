package projectstatus

import (
	"context"
	"fmt"

	"github.com/slok/tellah/internal/app/lookup"
	"github.com/slok/tellah/internal/log"
	"github.com/slok/tellah/internal/model"
	"github.com/slok/tellah/internal/storage"
)

// ServiceConfig is the configuration for the project status service.
type ServiceConfig struct {
	Repository storage.Repository
	// DoneStatus is the status of completed tasks.
	// Default: "Completed".
	DoneStatus model.TaskStatus
	Logger     log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}

	if c.DoneStatus == "" {
		c.DoneStatus = model.TaskStatusCompleted
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}

	return nil
}

// Service gets the current state of a project.
type Service struct {
	repo       storage.Repository
	doneStatus model.TaskStatus
	logger     log.Logger
}

// NewService creates a new project status service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		repo:       cfg.Repository,
		doneStatus: cfg.DoneStatus,
		logger:     cfg.Logger,
	}, nil
}

// Request represents the project status request parameters.
type Request struct {
	// Project is the project name or ID.
	Project string
}

// Result is a project with all its tasks.
type Result struct {
	Project  model.Project
	Tasks    []model.Task
	Progress model.TaskProgress
}

// Run gets the status of a project.
func (s *Service) Run(ctx context.Context, req Request) (*Result, error) {
	p, err := lookup.Project(ctx, s.repo, req.Project)
	if err != nil {
		return nil, err
	}

	tasks, err := s.repo.ListTasks(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("could not list tasks: %w", err)
	}

	return &Result{
		Project:  *p,
		Tasks:    tasks,
		Progress: model.ComputeProgress(tasks, s.doneStatus),
	}, nil
}
