package importproject

import (
	"context"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/slok/tellah/internal/log"
	"github.com/slok/tellah/internal/model"
	"github.com/slok/tellah/internal/storage"
)

// PlanLoader loads project plans.
type PlanLoader interface {
	GetPlan(ctx context.Context, path string) (model.ProjectPlan, error)
}

// ServiceConfig is the configuration for the import project service.
type ServiceConfig struct {
	Repository storage.Repository
	PlanLoader PlanLoader
	Logger     log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}

	if c.PlanLoader == nil {
		return fmt.Errorf("plan loader is required")
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.ImportProject"})

	return nil
}

// Service creates projects from project plan files.
type Service struct {
	repo   storage.Repository
	loader PlanLoader
	logger log.Logger
}

// NewService creates a new import project service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		repo:   cfg.Repository,
		loader: cfg.PlanLoader,
		logger: cfg.Logger,
	}, nil
}

// Request represents the import project request parameters.
type Request struct {
	// Path is the project plan file path.
	Path string
	// Name overrides the plan project name.
	Name string
}

// Result is the imported project with its tasks.
type Result struct {
	Project model.Project
	Tasks   []model.Task
}

// Run imports a project plan.
func (s *Service) Run(ctx context.Context, req Request) (*Result, error) {
	plan, err := s.loader.GetPlan(ctx, req.Path)
	if err != nil {
		return nil, fmt.Errorf("could not load project plan: %w", err)
	}

	if req.Name != "" {
		plan.Name = req.Name
	}

	p := model.Project{
		ID:          ulid.Make().String(),
		Name:        plan.Name,
		Description: plan.Description,
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.CreateProject(ctx, p); err != nil {
		return nil, fmt.Errorf("could not create project: %w", err)
	}

	tasks := make([]model.Task, 0, len(plan.Tasks))
	for _, t := range plan.Tasks {
		tasks = append(tasks, model.Task{Description: t.Description, Status: t.Status})
	}

	created, err := s.repo.CreateTasks(ctx, p.ID, tasks)
	if err != nil {
		// Don't leave a half imported project.
		if derr := s.repo.DeleteProject(ctx, p.ID); derr != nil {
			s.logger.Errorf("Could not clean up project %s: %s", p.ID, derr)
		}
		return nil, fmt.Errorf("could not store project tasks: %w", err)
	}

	s.logger.WithValues(log.Kv{"project-id": p.ID}).Infof("Imported project %q with %d tasks from %s", p.Name, len(created), req.Path)

	return &Result{Project: p, Tasks: created}, nil
}
