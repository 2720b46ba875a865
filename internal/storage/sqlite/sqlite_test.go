package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/tellah/internal/log"
	"github.com/slok/tellah/internal/model"
	"github.com/slok/tellah/internal/storage/sqlite"
)

func projectFixture(id, name string) model.Project {
	return model.Project{
		ID:          id,
		Name:        name,
		Description: "A personal blog",
		CreatedAt:   time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
}

func hours(h float64) *float64 { return &h }

func newRepo(t *testing.T) *sqlite.Repository {
	t.Helper()
	repo, err := sqlite.NewRepository(context.Background(), sqlite.RepositoryConfig{
		DBPath: filepath.Join(t.TempDir(), "test.db"),
		Logger: log.Noop,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestRepositoryProjects(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	p1 := projectFixture("id-1", "blog")
	p2 := projectFixture("id-2", "shop")
	p2.CreatedAt = p2.CreatedAt.Add(time.Hour)
	require.NoError(t, repo.CreateProject(ctx, p2))
	require.NoError(t, repo.CreateProject(ctx, p1))

	got, err := repo.GetProject(ctx, "id-1")
	require.NoError(t, err)
	assert.Equal(t, p1, *got)

	gotByName, err := repo.GetProjectByName(ctx, "shop")
	require.NoError(t, err)
	assert.Equal(t, "id-2", gotByName.ID)

	all, err := repo.ListProjects(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.Project{p1, p2}, all)

	require.NoError(t, repo.DeleteProject(ctx, "id-1"))
	_, err = repo.GetProject(ctx, "id-1")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestRepositoryProjectErrors(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	require.NoError(t, repo.CreateProject(ctx, projectFixture("id-1", "blog")))

	err := repo.CreateProject(ctx, projectFixture("id-1", "other"))
	assert.ErrorIs(t, err, model.ErrAlreadyExists)

	err = repo.CreateProject(ctx, projectFixture("id-2", "blog"))
	assert.ErrorIs(t, err, model.ErrAlreadyExists)

	_, err = repo.GetProjectByName(ctx, "missing")
	assert.ErrorIs(t, err, model.ErrNotFound)

	err = repo.DeleteProject(ctx, "missing")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestRepositoryTasks(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	require.NoError(t, repo.CreateProject(ctx, projectFixture("id-1", "blog")))

	created, err := repo.CreateTasks(ctx, "id-1", []model.Task{
		{Description: "Write spec"},
		{Description: "Design schema", Status: model.TaskStatusInProgress},
	})
	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.Equal(t, 1, created[0].Sequence)
	assert.Equal(t, model.TaskStatusNotStarted, created[0].Status)
	assert.Equal(t, 2, created[1].Sequence)
	assert.NotEmpty(t, created[0].ID)
	assert.NotEqual(t, created[0].ID, created[1].ID)

	// Sequences continue after the current ones.
	more, err := repo.CreateTasks(ctx, "id-1", []model.Task{{Description: "Deploy", EstimatedHours: hours(2.5)}})
	require.NoError(t, err)
	assert.Equal(t, 3, more[0].Sequence)

	tasks, err := repo.ListTasks(ctx, "id-1")
	require.NoError(t, err)
	assert.Equal(t, append(created, more...), tasks)

	bySeq, err := repo.GetTaskBySequence(ctx, "id-1", 3)
	require.NoError(t, err)
	assert.Equal(t, "Deploy", bySeq.Description)
	require.NotNil(t, bySeq.EstimatedHours)
	assert.Equal(t, 2.5, *bySeq.EstimatedHours)

	task := created[0]
	task.Status = model.TaskStatusCompleted
	task.EstimatedHours = hours(4)
	require.NoError(t, repo.UpdateTask(ctx, task))

	updated, err := repo.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TaskStatusCompleted, updated.Status)
	assert.Equal(t, 4.0, *updated.EstimatedHours)
	assert.Equal(t, "Write spec", updated.Description)
}

func TestRepositoryTaskErrors(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	require.NoError(t, repo.CreateProject(ctx, projectFixture("id-1", "blog")))

	_, err := repo.CreateTasks(ctx, "missing", []model.Task{{Description: "Write spec"}})
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = repo.CreateTasks(ctx, "id-1", []model.Task{{Description: "Write spec"}, {Description: "  "}})
	assert.ErrorIs(t, err, model.ErrNotValid)

	// Failed batches are not partially stored.
	tasks, err := repo.ListTasks(ctx, "id-1")
	require.NoError(t, err)
	assert.Empty(t, tasks)

	_, err = repo.GetTask(ctx, "missing")
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = repo.GetTaskBySequence(ctx, "id-1", 1)
	assert.ErrorIs(t, err, model.ErrNotFound)

	err = repo.UpdateTask(ctx, model.Task{ID: "missing", ProjectID: "id-1", Description: "x"})
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestRepositoryDeleteProjectCascadesTasks(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	require.NoError(t, repo.CreateProject(ctx, projectFixture("id-1", "blog")))

	created, err := repo.CreateTasks(ctx, "id-1", []model.Task{{Description: "Write spec"}})
	require.NoError(t, err)

	require.NoError(t, repo.DeleteProject(ctx, "id-1"))

	_, err = repo.GetTask(ctx, created[0].ID)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestRepositoryPersistsAcrossOpens(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "tellah.db")

	repo, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{DBPath: path})
	require.NoError(t, err)
	require.NoError(t, repo.CreateProject(ctx, projectFixture("id-1", "blog")))
	require.NoError(t, repo.Close())

	repo, err = sqlite.NewRepository(ctx, sqlite.RepositoryConfig{DBPath: path})
	require.NoError(t, err)
	defer repo.Close()

	got, err := repo.GetProjectByName(ctx, "blog")
	require.NoError(t, err)
	assert.Equal(t, "id-1", got.ID)

	version, err := repo.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
}

func TestNewRepositoryRequiresPath(t *testing.T) {
	_, err := sqlite.NewRepository(context.Background(), sqlite.RepositoryConfig{})
	assert.Error(t, err)
}
