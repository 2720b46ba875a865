package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/slok/tellah/internal/log"
	"github.com/slok/tellah/internal/model"
)

// RepositoryConfig is the configuration for the memory repository.
type RepositoryConfig struct {
	Logger log.Logger
}

func (c *RepositoryConfig) defaults() error {
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "storage.Memory"})
	return nil
}

// Repository is an in-memory implementation of storage.Repository.
type Repository struct {
	projects map[string]model.Project
	tasks    map[string]model.Task
	mu       sync.RWMutex
	logger   log.Logger
}

// NewRepository creates a new memory repository.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Repository{
		projects: make(map[string]model.Project),
		tasks:    make(map[string]model.Task),
		logger:   cfg.Logger,
	}, nil
}

// CreateProject creates a new project in the repository.
func (r *Repository) CreateProject(ctx context.Context, p model.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.projects[p.ID]; ok {
		return fmt.Errorf("project with id %s: %w", p.ID, model.ErrAlreadyExists)
	}

	for _, existing := range r.projects {
		if existing.Name == p.Name {
			return fmt.Errorf("project %q already exists: %w", p.Name, model.ErrAlreadyExists)
		}
	}

	r.projects[p.ID] = p
	r.logger.Debugf("Created project in repository: %s", p.ID)

	return nil
}

// GetProject retrieves a project by ID.
func (r *Repository) GetProject(ctx context.Context, id string) (*model.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.projects[id]
	if !ok {
		return nil, fmt.Errorf("project %s: %w", id, model.ErrNotFound)
	}

	return &p, nil
}

// GetProjectByName retrieves a project by name.
func (r *Repository) GetProjectByName(ctx context.Context, name string) (*model.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.projects {
		if p.Name == name {
			return &p, nil
		}
	}

	return nil, fmt.Errorf("project with name %s: %w", name, model.ErrNotFound)
}

// ListProjects returns all projects ordered by creation.
func (r *Repository) ListProjects(ctx context.Context) ([]model.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	projects := make([]model.Project, 0, len(r.projects))
	for _, p := range r.projects {
		projects = append(projects, p)
	}

	sort.Slice(projects, func(i, j int) bool {
		if !projects[i].CreatedAt.Equal(projects[j].CreatedAt) {
			return projects[i].CreatedAt.Before(projects[j].CreatedAt)
		}
		return projects[i].ID < projects[j].ID
	})

	return projects, nil
}

// DeleteProject deletes a project and its tasks.
func (r *Repository) DeleteProject(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.projects[id]; !ok {
		return fmt.Errorf("project %s: %w", id, model.ErrNotFound)
	}

	delete(r.projects, id)
	for tid, t := range r.tasks {
		if t.ProjectID == id {
			delete(r.tasks, tid)
		}
	}
	r.logger.Debugf("Deleted project from repository: %s", id)

	return nil
}

// CreateTasks appends tasks to a project, nothing is stored if any of the tasks is invalid.
func (r *Repository) CreateTasks(ctx context.Context, projectID string, tasks []model.Task) ([]model.Task, error) {
	if len(tasks) == 0 {
		return nil, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.projects[projectID]; !ok {
		return nil, fmt.Errorf("project %s: %w", projectID, model.ErrNotFound)
	}

	maxSeq := 0
	for _, t := range r.tasks {
		if t.ProjectID == projectID && t.Sequence > maxSeq {
			maxSeq = t.Sequence
		}
	}

	now := time.Now().UTC()
	created := make([]model.Task, 0, len(tasks))
	for i, t := range tasks {
		t.ID = ulid.Make().String()
		t.ProjectID = projectID
		t.Sequence = maxSeq + i + 1
		t.CreatedAt = now
		t.UpdatedAt = now
		if t.Status == "" {
			t.Status = model.TaskStatusNotStarted
		}
		if err := t.Validate(); err != nil {
			return nil, err
		}
		created = append(created, t)
	}

	for _, t := range created {
		r.tasks[t.ID] = t
	}
	r.logger.Debugf("Added %d tasks to project %s", len(created), projectID)

	return created, nil
}

// GetTask retrieves a task by ID.
func (r *Repository) GetTask(ctx context.Context, id string) (*model.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tasks[id]
	if !ok {
		return nil, fmt.Errorf("task %s: %w", id, model.ErrNotFound)
	}

	return &t, nil
}

// GetTaskBySequence retrieves a task by its sequence inside a project.
func (r *Repository) GetTaskBySequence(ctx context.Context, projectID string, sequence int) (*model.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, t := range r.tasks {
		if t.ProjectID == projectID && t.Sequence == sequence {
			return &t, nil
		}
	}

	return nil, fmt.Errorf("task %d of project %s: %w", sequence, projectID, model.ErrNotFound)
}

// ListTasks returns the tasks of a project ordered by sequence.
func (r *Repository) ListTasks(ctx context.Context, projectID string) ([]model.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var tasks []model.Task
	for _, t := range r.tasks {
		if t.ProjectID == projectID {
			tasks = append(tasks, t)
		}
	}

	sort.Slice(tasks, func(i, j int) bool { return tasks[i].Sequence < tasks[j].Sequence })

	return tasks, nil
}

// UpdateTask updates the mutable fields of an existing task.
func (r *Repository) UpdateTask(ctx context.Context, t model.Task) error {
	if err := t.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.tasks[t.ID]
	if !ok || stored.ProjectID != t.ProjectID {
		return fmt.Errorf("task %s: %w", t.ID, model.ErrNotFound)
	}

	stored.Description = t.Description
	stored.Status = t.Status
	stored.EstimatedHours = t.EstimatedHours
	stored.UpdatedAt = time.Now().UTC()
	r.tasks[t.ID] = stored
	r.logger.Debugf("Updated task in repository: %s", t.ID)

	return nil
}
