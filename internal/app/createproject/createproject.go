package createproject

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/slok/tellah/internal/log"
	"github.com/slok/tellah/internal/model"
	"github.com/slok/tellah/internal/storage"
)

// Generator is the generation used to create projects.
type Generator interface {
	GenerateProjectName(ctx context.Context, projectDescription string) (string, error)
	GenerateTaskList(ctx context.Context, projectDescription string) ([]string, error)
}

// ServiceConfig is the configuration for the create project service.
type ServiceConfig struct {
	Repository storage.Repository
	// Generator is only required to name projects or break them down.
	Generator Generator
	Logger    log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.CreateProject"})

	return nil
}

// Service creates projects.
type Service struct {
	repo   storage.Repository
	gen    Generator
	logger log.Logger
}

// NewService creates a new create project service.
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

// Request represents the create project request parameters.
type Request struct {
	// Name is the project name, when empty a name is generated from the description.
	Name        string
	Description string
	// Breakdown generates and stores the initial tasks of the project.
	Breakdown bool
}

// Result is the created project with its initial tasks.
type Result struct {
	Project model.Project
	Tasks   []model.Task
}

// Run creates a project.
func (s *Service) Run(ctx context.Context, req Request) (*Result, error) {
	name := strings.TrimSpace(req.Name)
	desc := strings.TrimSpace(req.Description)

	if name == "" && desc == "" {
		return nil, fmt.Errorf("a project name or description is required: %w", model.ErrNotValid)
	}

	if (name == "" || req.Breakdown) && s.gen == nil {
		return nil, fmt.Errorf("a generator is required to name or break down projects: %w", model.ErrNotValid)
	}

	if req.Breakdown && desc == "" {
		return nil, fmt.Errorf("a description is required to break down a project: %w", model.ErrNotValid)
	}

	if name == "" {
		n, err := s.gen.GenerateProjectName(ctx, desc)
		if err != nil {
			return nil, fmt.Errorf("could not generate project name: %w", err)
		}
		name = n
		s.logger.Infof("Generated project name %q", name)
	}

	p := model.Project{
		ID:          ulid.Make().String(),
		Name:        name,
		Description: desc,
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	// Generate before storing, so a failed generation doesn't leave an empty project.
	var descriptions []string
	if req.Breakdown {
		d, err := s.gen.GenerateTaskList(ctx, desc)
		if err != nil {
			return nil, fmt.Errorf("could not break down project: %w", err)
		}
		descriptions = d
	}

	if err := s.repo.CreateProject(ctx, p); err != nil {
		return nil, fmt.Errorf("could not create project: %w", err)
	}

	res := &Result{Project: p}
	if len(descriptions) > 0 {
		tasks := make([]model.Task, 0, len(descriptions))
		for _, d := range descriptions {
			tasks = append(tasks, model.Task{Description: d, Status: model.TaskStatusNotStarted})
		}

		created, err := s.repo.CreateTasks(ctx, p.ID, tasks)
		if err != nil {
			if derr := s.repo.DeleteProject(ctx, p.ID); derr != nil {
				s.logger.Errorf("Could not clean up project %s: %s", p.ID, derr)
			}
			return nil, fmt.Errorf("could not store project tasks: %w", err)
		}
		res.Tasks = created
	}

	s.logger.WithValues(log.Kv{"project-id": p.ID}).Infof("Created project %q with %d tasks", p.Name, len(res.Tasks))

	return res, nil
}
