package storage

import (
	"context"

	"github.com/slok/tellah/internal/model"
)

// Repository is the interface for project and task persistence.
type Repository interface {
	CreateProject(ctx context.Context, p model.Project) error
	GetProject(ctx context.Context, id string) (*model.Project, error)
	GetProjectByName(ctx context.Context, name string) (*model.Project, error)
	// ListProjects returns the projects ordered by creation.
	ListProjects(ctx context.Context) ([]model.Project, error)
	// DeleteProject deletes the project and all its tasks.
	DeleteProject(ctx context.Context, id string) error

	// CreateTasks appends the tasks to the project atomically. Each task gets a new ID
	// and the next sequence of the project, the stored tasks are returned in order.
	CreateTasks(ctx context.Context, projectID string, tasks []model.Task) ([]model.Task, error)
	GetTask(ctx context.Context, id string) (*model.Task, error)
	GetTaskBySequence(ctx context.Context, projectID string, sequence int) (*model.Task, error)
	// ListTasks returns the tasks of a project ordered by sequence.
	ListTasks(ctx context.Context, projectID string) ([]model.Task, error)
	UpdateTask(ctx context.Context, t model.Task) error
}

//go:generate mockery --case underscore --output storagemock --outpkg storagemock --name Repository --structname MockRepository
