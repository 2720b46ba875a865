package breakdown_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/tellah/internal/app/breakdown"
	"github.com/slok/tellah/internal/generate"
	"github.com/slok/tellah/internal/generate/fake"
	"github.com/slok/tellah/internal/model"
	"github.com/slok/tellah/internal/storage/memory"
)

func TestServiceRun(t *testing.T) {
	tests := map[string]struct {
		project   model.Project
		response  string
		genErr    error
		req       breakdown.Request
		expTasks  []string
		expStored []string
		expPrompt string
		expErr    bool
	}{
		"Generated tasks should be stored after the existing ones.": {
			project:   model.Project{ID: "p1", Name: "blog", Description: "Build a blog"},
			response:  "```json\n[\"Write spec\",\"Design schema\",\"Build API\",\"Build UI\",\"Deploy\"]\n```",
			req:       breakdown.Request{Project: "blog"},
			expTasks:  []string{"Write spec", "Design schema", "Build API", "Build UI", "Deploy"},
			expStored: []string{"Existing", "Write spec", "Design schema", "Build API", "Build UI", "Deploy"},
			expPrompt: "Build a blog",
		},

		"Unparseable answers should store the fallback tasks.": {
			project:   model.Project{ID: "p1", Name: "blog", Description: "Build a blog"},
			response:  "```\n```",
			req:       breakdown.Request{Project: "blog"},
			expTasks:  []string{"Task 1", "Task 2", "Task 3", "Task 4", "Task 5"},
			expStored: []string{"Existing", "Task 1", "Task 2", "Task 3", "Task 4", "Task 5"},
			expPrompt: "Build a blog",
		},

		"Projects without description should use their name.": {
			project:   model.Project{ID: "p1", Name: "blog"},
			response:  `["Write spec"]`,
			req:       breakdown.Request{Project: "blog"},
			expTasks:  []string{"Write spec"},
			expStored: []string{"Existing", "Write spec"},
			expPrompt: "Project description: blog",
		},

		"A dry run should not store the tasks.": {
			project:   model.Project{ID: "p1", Name: "blog", Description: "Build a blog"},
			response:  `["Write spec"]`,
			req:       breakdown.Request{Project: "blog", DryRun: true},
			expTasks:  []string{"Write spec"},
			expStored: []string{"Existing"},
			expPrompt: "Build a blog",
		},

		"Generation errors should fail without storing anything.": {
			project:   model.Project{ID: "p1", Name: "blog", Description: "Build a blog"},
			genErr:    errors.New("unauthorized"),
			req:       breakdown.Request{Project: "blog"},
			expStored: []string{"Existing"},
			expErr:    true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)
			ctx := context.Background()

			repo, err := memory.NewRepository(memory.RepositoryConfig{})
			require.NoError(err)
			require.NoError(repo.CreateProject(ctx, test.project))
			_, err = repo.CreateTasks(ctx, test.project.ID, []model.Task{{Description: "Existing"}})
			require.NoError(err)

			gen, err := fake.NewGenerator(fake.GeneratorConfig{
				Responses: map[generate.Kind]string{generate.KindTaskList: test.response},
				Err:       test.genErr,
			})
			require.NoError(err)
			pipeline, err := generate.NewPipeline(generate.PipelineConfig{Generator: gen})
			require.NoError(err)

			svc, err := breakdown.NewService(breakdown.ServiceConfig{Repository: repo, Generator: pipeline})
			require.NoError(err)

			tasks, err := svc.Run(ctx, test.req)

			stored, lerr := repo.ListTasks(ctx, test.project.ID)
			require.NoError(lerr)
			var storedDescs []string
			for _, task := range stored {
				storedDescs = append(storedDescs, task.Description)
			}
			assert.Equal(test.expStored, storedDescs)
			assert.Equal(1, gen.CallCount())

			if test.expErr {
				assert.Error(err)
				return
			}
			require.NoError(err)

			var got []string
			for _, task := range tasks {
				got = append(got, task.Description)
			}
			assert.Equal(test.expTasks, got)
			assert.Contains(gen.Calls()[0].Prompt, test.expPrompt)
		})
	}
}
