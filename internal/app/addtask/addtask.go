package addtask

import (
	"context"
	"fmt"
	"strings"

	"github.com/slok/tellah/internal/app/lookup"
	"github.com/slok/tellah/internal/log"
	"github.com/slok/tellah/internal/model"
	"github.com/slok/tellah/internal/storage"
)

// ServiceConfig is the configuration for the add task service.
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
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.AddTask"})

	return nil
}

// Service appends manual tasks to projects.
type Service struct {
	repo   storage.Repository
	logger log.Logger
}

// NewService creates a new add task service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		repo:   cfg.Repository,
		logger: cfg.Logger,
	}, nil
}

// Request represents the add task request parameters.
type Request struct {
	Project     string
	Description string
	// Status is the initial task status.
	// Default: "Not Started".
	Status         model.TaskStatus
	EstimatedHours *float64
}

// Run adds a task at the end of the project.
func (s *Service) Run(ctx context.Context, req Request) (*model.Task, error) {
	if strings.TrimSpace(req.Description) == "" {
		return nil, fmt.Errorf("task description is required: %w", model.ErrNotValid)
	}

	p, err := lookup.Project(ctx, s.repo, req.Project)
	if err != nil {
		return nil, err
	}

	status := model.TaskStatus(strings.TrimSpace(string(req.Status)))
	if status == "" {
		status = model.TaskStatusNotStarted
	}

	created, err := s.repo.CreateTasks(ctx, p.ID, []model.Task{{
		Description:    strings.TrimSpace(req.Description),
		Status:         status,
		EstimatedHours: req.EstimatedHours,
	}})
	if err != nil {
		return nil, fmt.Errorf("could not create task: %w", err)
	}
	if len(created) != 1 {
		return nil, fmt.Errorf("expected 1 created task, got %d", len(created))
	}

	t := created[0]
	s.logger.WithValues(log.Kv{"project-id": p.ID}).Infof("Added task #%d to project %q", t.Sequence, p.Name)

	return &t, nil
}
