package breakdown

import (
	"context"
	"fmt"
	"strings"

	"github.com/slok/tellah/internal/app/lookup"
	"github.com/slok/tellah/internal/log"
	"github.com/slok/tellah/internal/model"
	"github.com/slok/tellah/internal/storage"
)

// TaskListGenerator generates the task list of a project.
type TaskListGenerator interface {
	GenerateTaskList(ctx context.Context, projectDescription string) ([]string, error)
}

// ServiceConfig is the configuration for the breakdown service.
type ServiceConfig struct {
	Repository storage.Repository
	Generator  TaskListGenerator
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
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.Breakdown"})

	return nil
}

// Service breaks down projects into high level tasks.
type Service struct {
	repo   storage.Repository
	gen    TaskListGenerator
	logger log.Logger
}

// NewService creates a new breakdown service.
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

// Request represents the breakdown request parameters.
type Request struct {
	Project string
	// DryRun returns the generated tasks without storing them.
	DryRun bool
}

// Run generates the tasks of a project and appends them to the project.
//
// The project description is used to generate the tasks, projects without
// description use their name.
func (s *Service) Run(ctx context.Context, req Request) ([]model.Task, error) {
	p, err := lookup.Project(ctx, s.repo, req.Project)
	if err != nil {
		return nil, err
	}

	desc := strings.TrimSpace(p.Description)
	if desc == "" {
		desc = p.Name
	}

	descriptions, err := s.gen.GenerateTaskList(ctx, desc)
	if err != nil {
		return nil, fmt.Errorf("could not generate task list: %w", err)
	}

	tasks := make([]model.Task, 0, len(descriptions))
	for _, d := range descriptions {
		tasks = append(tasks, model.Task{ProjectID: p.ID, Description: d, Status: model.TaskStatusNotStarted})
	}

	if req.DryRun {
		return tasks, nil
	}

	created, err := s.repo.CreateTasks(ctx, p.ID, tasks)
	if err != nil {
		return nil, fmt.Errorf("could not store tasks: %w", err)
	}

	s.logger.WithValues(log.Kv{"project-id": p.ID}).Infof("Added %d generated tasks to project %q", len(created), p.Name)

	return created, nil
}
