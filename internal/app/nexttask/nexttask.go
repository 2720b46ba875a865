package nexttask

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/slok/tellah/internal/app/lookup"
	"github.com/slok/tellah/internal/log"
	"github.com/slok/tellah/internal/model"
	"github.com/slok/tellah/internal/storage"
)

// NextTaskSuggester suggests the next task to work on.
type NextTaskSuggester interface {
	SuggestNextTask(ctx context.Context, candidates []string, completed []string) (model.Proposal, error)
}

// ServiceConfig is the configuration for the next task service.
type ServiceConfig struct {
	Repository storage.Repository
	Generator  NextTaskSuggester
	// DoneStatus is the status of completed tasks.
	// Default: "Completed".
	DoneStatus model.TaskStatus
	Logger     log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}

	if c.Generator == nil {
		return fmt.Errorf("generator is required")
	}

	if c.DoneStatus == "" {
		c.DoneStatus = model.TaskStatusCompleted
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.NextTask"})

	return nil
}

// Service suggests the next task of a project.
type Service struct {
	repo       storage.Repository
	gen        NextTaskSuggester
	doneStatus model.TaskStatus
	logger     log.Logger
}

// NewService creates a new next task service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		repo:       cfg.Repository,
		gen:        cfg.Generator,
		doneStatus: cfg.DoneStatus,
		logger:     cfg.Logger,
	}, nil
}

// Request represents the next task request parameters.
type Request struct {
	Project string
	// Start marks the suggested task as in progress.
	Start bool
}

// Result is the next task suggestion.
type Result struct {
	// Task is the suggested task, nil when every task is completed.
	Task *model.Task
	// Started is true when the task status has been changed to in progress.
	Started bool
}

// Run suggests the next task. The generated suggestion is only returned if it
// names one of the pending tasks of the project.
func (s *Service) Run(ctx context.Context, req Request) (*Result, error) {
	p, err := lookup.Project(ctx, s.repo, req.Project)
	if err != nil {
		return nil, err
	}

	tasks, err := s.repo.ListTasks(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("could not list tasks: %w", err)
	}

	var candidates, pending []string
	pendingDescs := map[string]bool{}
	for _, t := range tasks {
		candidates = append(candidates, t.Description)
		if !t.IsStatus(s.doneStatus) {
			pending = append(pending, t.Description)
			pendingDescs[strings.TrimSpace(t.Description)] = true
		}
	}

	// Tasks are matched by description, a completed task can't hide a pending one
	// with the same description.
	var completed []string
	for _, t := range tasks {
		if t.IsStatus(s.doneStatus) && !pendingDescs[strings.TrimSpace(t.Description)] {
			completed = append(completed, t.Description)
		}
	}

	proposal, err := s.gen.SuggestNextTask(ctx, candidates, completed)
	if err != nil {
		return nil, fmt.Errorf("could not suggest next task: %w", err)
	}

	if proposal.None {
		s.logger.Infof("No pending tasks on project %q", p.Name)
		return &Result{}, nil
	}

	desc, err := proposal.Accept(pending)
	if err != nil {
		if errors.Is(err, model.ErrNotValid) {
			return nil, fmt.Errorf("suggested task %q is not a pending task of the project: %w", proposal.Value, model.ErrNotValid)
		}
		return nil, err
	}

	var next *model.Task
	for _, t := range tasks {
		if t.Description == desc && !t.IsStatus(s.doneStatus) {
			next = &t
			break
		}
	}
	if next == nil {
		return nil, fmt.Errorf("suggested task %q: %w", desc, model.ErrNotFound)
	}

	res := &Result{Task: next}
	if req.Start && !next.IsStatus(model.TaskStatusInProgress) {
		next.Status = model.TaskStatusInProgress
		if err := s.repo.UpdateTask(ctx, *next); err != nil {
			return nil, fmt.Errorf("could not start task: %w", err)
		}
		res.Started = true
		s.logger.Infof("Task #%d of project %q started", next.Sequence, p.Name)
	}

	return res, nil
}
