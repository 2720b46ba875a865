package lib_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/tellah/pkg/lib"
)

// newTestClient creates a client with a temp SQLite DB and the fake generator.
func newTestClient(t *testing.T) *lib.Client {
	t.Helper()

	client, err := lib.New(context.Background(), lib.Config{
		DBPath:    filepath.Join(t.TempDir(), "test.db"),
		DataDir:   t.TempDir(),
		Generator: lib.GeneratorFake,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = client.Close()
	})

	return client
}

func TestNewRequiresAPIKey(t *testing.T) {
	t.Setenv("GOOGLE_AI_API_KEY", "")

	_, err := lib.New(context.Background(), lib.Config{
		DBPath: filepath.Join(t.TempDir(), "test.db"),
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, lib.ErrNotValid)
	assert.Contains(t, err.Error(), "GOOGLE_AI_API_KEY")
}

func TestCreateProject(t *testing.T) {
	tests := map[string]struct {
		opts     lib.CreateProjectOpts
		expName  string
		expTasks int
		expIs    error
	}{
		"Creating a named project should work.": {
			opts:    lib.CreateProjectOpts{Name: "blog", Description: "A personal blog"},
			expName: "blog",
		},

		"Creating a project without name should generate it.": {
			opts:    lib.CreateProjectOpts{Description: "A personal blog"},
			expName: "Fake Project",
		},

		"Creating a project with breakdown should store the generated tasks.": {
			opts:     lib.CreateProjectOpts{Name: "blog", Description: "A personal blog", Breakdown: true},
			expName:  "blog",
			expTasks: 5,
		},

		"Creating a project without name nor description should fail.": {
			opts:  lib.CreateProjectOpts{},
			expIs: lib.ErrNotValid,
		},

		"Breaking down a project without description should fail.": {
			opts:  lib.CreateProjectOpts{Name: "blog", Breakdown: true},
			expIs: lib.ErrNotValid,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			client := newTestClient(t)

			ps, err := client.CreateProject(context.Background(), test.opts)

			if test.expIs != nil {
				assert.ErrorIs(t, err, test.expIs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.expName, ps.Project.Name)
			assert.NotEmpty(t, ps.Project.ID)
			assert.Len(t, ps.Tasks, test.expTasks)
			assert.Equal(t, test.expTasks, ps.Progress.Total)
		})
	}
}

func TestCreateProjectDuplicated(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	_, err := client.CreateProject(ctx, lib.CreateProjectOpts{Name: "blog", Description: "A blog"})
	require.NoError(t, err)

	_, err = client.CreateProject(ctx, lib.CreateProjectOpts{Name: "blog", Description: "Another blog"})
	assert.ErrorIs(t, err, lib.ErrAlreadyExists)
}

func TestProjectLifecycle(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	created, err := client.CreateProject(ctx, lib.CreateProjectOpts{Name: "blog", Description: "A personal blog"})
	require.NoError(t, err)

	// Manual tasks.
	_, err = client.AddTask(ctx, "blog", lib.AddTaskOpts{Description: "Write posts"})
	require.NoError(t, err)
	t2, err := client.AddTask(ctx, created.Project.ID, lib.AddTaskOpts{Description: "Deploy", Status: lib.TaskStatusCompleted})
	require.NoError(t, err)
	assert.Equal(t, 2, t2.Sequence)

	// Estimations only on tasks without one.
	estimated, err := client.EstimateTask(ctx, "blog", "", nil)
	require.NoError(t, err)
	require.Len(t, estimated, 2)
	require.NotNil(t, estimated[0].EstimatedHours)
	assert.Equal(t, 2.0, *estimated[0].EstimatedHours)

	estimated, err = client.EstimateTask(ctx, "blog", "", nil)
	require.NoError(t, err)
	assert.Empty(t, estimated)

	// Next task is the first pending one.
	next, err := client.SuggestNextTask(ctx, "blog", &lib.SuggestNextTaskOpts{Start: true})
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, "Write posts", next.Description)
	assert.Equal(t, lib.TaskStatusInProgress, next.Status)

	// Status from an instruction.
	updated, err := client.UpdateTaskStatus(ctx, "blog", "#1", lib.UpdateTaskStatusOpts{Instruction: "I finished it"})
	require.NoError(t, err)
	assert.Equal(t, lib.TaskStatusCompleted, updated.Status)

	next, err = client.SuggestNextTask(ctx, "blog", nil)
	require.NoError(t, err)
	assert.Nil(t, next)

	// Progress.
	ps, err := client.GetProject(ctx, "blog")
	require.NoError(t, err)
	assert.Equal(t, lib.Progress{Done: 2, Total: 2, Percent: 100}, ps.Progress)

	summaries, err := client.ListProjects(ctx, &lib.ListProjectsOpts{PendingOnly: true})
	require.NoError(t, err)
	assert.Empty(t, summaries)

	r, err := client.Report(ctx, "blog")
	require.NoError(t, err)
	assert.Equal(t, "blog", r.ProjectName)
	assert.Equal(t, 100.0, r.Progress.Percent)
	assert.NotEmpty(t, r.Text)

	// Removal.
	removed, err := client.RemoveProject(ctx, "blog")
	require.NoError(t, err)
	assert.Equal(t, created.Project.ID, removed.ID)

	_, err = client.GetProject(ctx, "blog")
	assert.ErrorIs(t, err, lib.ErrNotFound)
}

func TestBreakdownProjectDryRun(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	_, err := client.CreateProject(ctx, lib.CreateProjectOpts{Name: "blog", Description: "A personal blog"})
	require.NoError(t, err)

	tasks, err := client.BreakdownProject(ctx, "blog", &lib.BreakdownOpts{DryRun: true})
	require.NoError(t, err)
	assert.Len(t, tasks, 5)

	ps, err := client.GetProject(ctx, "blog")
	require.NoError(t, err)
	assert.Empty(t, ps.Tasks)

	tasks, err = client.BreakdownProject(ctx, "blog", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, tasks[0].Sequence)
	assert.Equal(t, "Define scope", tasks[0].Description)
}

func TestImportProject(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	path := filepath.Join(t.TempDir(), "plan.yaml")
	plan := `
name: shop
description: An online shop
tasks:
  - Design catalog
  - description: Payments
    status: In Progress
`
	require.NoError(t, os.WriteFile(path, []byte(plan), 0o600))

	ps, err := client.ImportProject(ctx, lib.ImportProjectOpts{Path: path})
	require.NoError(t, err)
	assert.Equal(t, "shop", ps.Project.Name)
	require.Len(t, ps.Tasks, 2)
	assert.Equal(t, lib.TaskStatusNotStarted, ps.Tasks[0].Status)
	assert.Equal(t, lib.TaskStatusInProgress, ps.Tasks[1].Status)
}

func TestTaskErrors(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	_, err := client.AddTask(ctx, "missing", lib.AddTaskOpts{Description: "x"})
	assert.ErrorIs(t, err, lib.ErrNotFound)

	_, err = client.CreateProject(ctx, lib.CreateProjectOpts{Name: "blog", Description: "A blog"})
	require.NoError(t, err)

	_, err = client.UpdateTaskStatus(ctx, "blog", "7", lib.UpdateTaskStatusOpts{Status: lib.TaskStatusCompleted})
	assert.ErrorIs(t, err, lib.ErrNotFound)

	_, err = client.UpdateTaskStatus(ctx, "blog", "not-a-ref", lib.UpdateTaskStatusOpts{Status: lib.TaskStatusCompleted})
	assert.ErrorIs(t, err, lib.ErrNotValid)
}
