package updatestatus

import (
	"context"
	"fmt"
	"strings"

	"github.com/slok/tellah/internal/app/lookup"
	"github.com/slok/tellah/internal/log"
	"github.com/slok/tellah/internal/model"
	"github.com/slok/tellah/internal/storage"
)

// StatusUpdater proposes task statuses from natural language instructions.
type StatusUpdater interface {
	UpdateStatus(ctx context.Context, req model.StatusUpdateRequest) (model.Proposal, error)
}

// ServiceConfig is the configuration for the update status service.
type ServiceConfig struct {
	Repository storage.Repository
	// Generator is only required to update statuses from instructions.
	Generator StatusUpdater
	// AllowedStatuses are the statuses a task can have, any status is allowed when empty.
	AllowedStatuses []string
	Logger          log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}

	allowed := make([]string, 0, len(c.AllowedStatuses))
	for _, s := range c.AllowedStatuses {
		s = strings.TrimSpace(s)
		if s == "" {
			return fmt.Errorf("allowed statuses can't be empty")
		}
		allowed = append(allowed, s)
	}
	c.AllowedStatuses = allowed

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.UpdateStatus"})

	return nil
}

// Service updates the status of tasks.
type Service struct {
	repo    storage.Repository
	gen     StatusUpdater
	allowed []string
	logger  log.Logger
}

// NewService creates a new update status service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		repo:    cfg.Repository,
		gen:     cfg.Generator,
		allowed: cfg.AllowedStatuses,
		logger:  cfg.Logger,
	}, nil
}

// Request represents the update status request parameters.
// Exactly one of Status or Instruction must be set.
type Request struct {
	Project string
	Task    string
	// Status is the new status.
	Status string
	// Instruction is a natural language instruction used to generate the new status
	// (e.g: "I finished the API yesterday").
	Instruction string
}

// Result is the updated task.
type Result struct {
	Task           model.Task
	PreviousStatus model.TaskStatus
}

// Run updates the status of a task. Statuses are validated against the allowed
// statuses before being stored, including the generated ones.
func (s *Service) Run(ctx context.Context, req Request) (*Result, error) {
	status := strings.TrimSpace(req.Status)
	instruction := strings.TrimSpace(req.Instruction)
	switch {
	case status == "" && instruction == "":
		return nil, fmt.Errorf("a status or an instruction is required: %w", model.ErrNotValid)
	case status != "" && instruction != "":
		return nil, fmt.Errorf("status and instruction can't be used at the same time: %w", model.ErrNotValid)
	case instruction != "" && s.gen == nil:
		return nil, fmt.Errorf("a generator is required to update statuses from instructions: %w", model.ErrNotValid)
	}

	p, err := lookup.Project(ctx, s.repo, req.Project)
	if err != nil {
		return nil, err
	}

	t, err := lookup.Task(ctx, s.repo, p.ID, req.Task)
	if err != nil {
		return nil, err
	}

	proposal := model.NewProposal(status)
	if instruction != "" {
		proposal, err = s.gen.UpdateStatus(ctx, model.StatusUpdateRequest{
			Instruction:     instruction,
			ProjectName:     p.Name,
			TaskDescription: t.Description,
			CurrentStatus:   t.Status,
			KnownStatuses:   s.allowed,
		})
		if err != nil {
			return nil, fmt.Errorf("could not generate task status: %w", err)
		}
	}

	newStatus, err := proposal.Accept(s.allowed)
	if err != nil {
		return nil, fmt.Errorf("invalid status %q (allowed: %s): %w", proposal.Value, strings.Join(s.allowed, ", "), err)
	}

	res := &Result{PreviousStatus: t.Status}
	t.Status = model.TaskStatus(newStatus)
	if err := s.repo.UpdateTask(ctx, *t); err != nil {
		return nil, fmt.Errorf("could not update task: %w", err)
	}
	res.Task = *t

	s.logger.WithValues(log.Kv{"project-id": p.ID}).Infof("Task #%d status changed from %q to %q", t.Sequence, res.PreviousStatus, t.Status)

	return res, nil
}
