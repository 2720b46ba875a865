package listprojects

import (
	"context"
	"fmt"

	"github.com/slok/tellah/internal/log"
	"github.com/slok/tellah/internal/model"
	"github.com/slok/tellah/internal/storage"
)

// ServiceConfig is the configuration for the list projects service.
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
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.ListProjects"})

	return nil
}

// Service lists projects with their progress.
type Service struct {
	repo       storage.Repository
	doneStatus model.TaskStatus
	logger     log.Logger
}

// NewService creates a new list projects service.
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

// Request represents the list projects request parameters.
type Request struct {
	// PendingOnly only returns projects with tasks left to do.
	PendingOnly bool
}

// Run lists projects.
func (s *Service) Run(ctx context.Context, req Request) ([]model.ProjectSummary, error) {
	projects, err := s.repo.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not list projects: %w", err)
	}

	summaries := make([]model.ProjectSummary, 0, len(projects))
	for _, p := range projects {
		tasks, err := s.repo.ListTasks(ctx, p.ID)
		if err != nil {
			return nil, fmt.Errorf("could not list tasks of project %s: %w", p.ID, err)
		}

		progress := model.ComputeProgress(tasks, s.doneStatus)
		if req.PendingOnly && progress.Total > 0 && progress.Done == progress.Total {
			continue
		}

		summaries = append(summaries, model.ProjectSummary{Project: p, Progress: progress})
	}

	s.logger.Debugf("found %d projects", len(summaries))
	return summaries, nil
}
