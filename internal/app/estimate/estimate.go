package estimate

import (
	"context"
	"fmt"
	"strings"

	"github.com/slok/tellah/internal/app/lookup"
	"github.com/slok/tellah/internal/log"
	"github.com/slok/tellah/internal/model"
	"github.com/slok/tellah/internal/storage"
)

// TimeEstimator estimates the hours required by a task.
type TimeEstimator interface {
	EstimateTime(ctx context.Context, taskDescription string) (float64, error)
}

// ServiceConfig is the configuration for the estimate service.
type ServiceConfig struct {
	Repository storage.Repository
	Generator  TimeEstimator
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
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.Estimate"})

	return nil
}

// Service estimates the time of project tasks.
type Service struct {
	repo   storage.Repository
	gen    TimeEstimator
	logger log.Logger
}

// NewService creates a new estimate service.
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

// Request represents the estimate request parameters.
type Request struct {
	Project string
	// Task is the task number or ID, when empty all the project tasks
	// without estimation are estimated.
	Task string
	// Force estimates tasks that already have an estimation.
	Force bool
}

// Run estimates tasks and stores the estimations. The estimated tasks are returned.
func (s *Service) Run(ctx context.Context, req Request) ([]model.Task, error) {
	p, err := lookup.Project(ctx, s.repo, req.Project)
	if err != nil {
		return nil, err
	}

	var tasks []model.Task
	if strings.TrimSpace(req.Task) != "" {
		t, err := lookup.Task(ctx, s.repo, p.ID, req.Task)
		if err != nil {
			return nil, err
		}
		// A single task is always estimated.
		tasks = []model.Task{*t}
	} else {
		all, err := s.repo.ListTasks(ctx, p.ID)
		if err != nil {
			return nil, fmt.Errorf("could not list tasks: %w", err)
		}
		for _, t := range all {
			if t.EstimatedHours == nil || req.Force {
				tasks = append(tasks, t)
			}
		}
	}

	logger := s.logger.WithValues(log.Kv{"project-id": p.ID})
	estimated := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		hours, err := s.gen.EstimateTime(ctx, t.Description)
		if err != nil {
			return estimated, fmt.Errorf("could not estimate task #%d: %w", t.Sequence, err)
		}

		t.EstimatedHours = &hours
		if err := s.repo.UpdateTask(ctx, t); err != nil {
			return estimated, fmt.Errorf("could not store task #%d estimation: %w", t.Sequence, err)
		}
		logger.Debugf("Task #%d estimated in %.2fh", t.Sequence, hours)

		estimated = append(estimated, t)
	}

	logger.Infof("Estimated %d tasks of project %q", len(estimated), p.Name)

	return estimated, nil
}
