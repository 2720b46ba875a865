package generate_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/slok/tellah/internal/generate"
	"github.com/slok/tellah/internal/generate/fake"
	"github.com/slok/tellah/internal/generate/generatemock"
	"github.com/slok/tellah/internal/log"
	"github.com/slok/tellah/internal/model"
)

func newFakeGenerator(t *testing.T, responses map[generate.Kind]string, err error) *fake.Generator {
	t.Helper()
	gen, genErr := fake.NewGenerator(fake.GeneratorConfig{Responses: responses, Err: err})
	require.NoError(t, genErr)
	return gen
}

func newPipeline(t *testing.T, gen generate.Generator) *generate.Pipeline {
	t.Helper()
	p, err := generate.NewPipeline(generate.PipelineConfig{Generator: gen, Logger: log.Noop})
	require.NoError(t, err)
	return p
}

func TestNewPipeline(t *testing.T) {
	tests := map[string]struct {
		cfg    generate.PipelineConfig
		expErr bool
		errMsg string
	}{
		"Valid config should not fail.": {
			cfg: generate.PipelineConfig{Generator: &generatemock.MockGenerator{}},
		},

		"Missing generator should fail.": {
			cfg:    generate.PipelineConfig{},
			expErr: true,
			errMsg: "generator is required",
		},

		"Negative default estimate should fail.": {
			cfg:    generate.PipelineConfig{Generator: &generatemock.MockGenerator{}, DefaultEstimateHours: hoursPtr(-1)},
			expErr: true,
			errMsg: "can't be negative",
		},

		"Unknown list formats should fail.": {
			cfg:    generate.PipelineConfig{Generator: &generatemock.MockGenerator{}, ListFormats: []generate.ListFormat{"xml"}},
			expErr: true,
			errMsg: "unknown list format",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			p, err := generate.NewPipeline(test.cfg)

			if test.expErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), test.errMsg)
				assert.Nil(t, p)
			} else {
				require.NoError(t, err)
				assert.NotNil(t, p)
			}
		})
	}
}

func TestPipelineGenerateTaskList(t *testing.T) {
	tests := map[string]struct {
		response string
		genErr   error
		expTasks []string
		expErr   bool
	}{
		"A fenced JSON answer should return the decoded tasks.": {
			response: "```json\n[\"Write spec\",\"Design schema\",\"Build API\",\"Build UI\",\"Deploy\"]\n```",
			expTasks: []string{"Write spec", "Design schema", "Build API", "Build UI", "Deploy"},
		},

		"A garbage answer should return the fallback tasks.": {
			response: "\n\n```\n```\n",
			expTasks: []string{"Task 1", "Task 2", "Task 3", "Task 4", "Task 5"},
		},

		"A generator failure should be returned as a transport error.": {
			genErr: errors.New("quota exceeded"),
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)

			gen := newFakeGenerator(t, map[generate.Kind]string{generate.KindTaskList: test.response}, test.genErr)
			p := newPipeline(t, gen)

			tasks, err := p.GenerateTaskList(context.Background(), "Build a blog")

			if test.expErr {
				var terr *generate.TransportError
				require.ErrorAs(t, err, &terr)
				assert.Equal(generate.KindTaskList, terr.Kind)
				assert.ErrorIs(err, test.genErr)
			} else {
				require.NoError(t, err)
				assert.Equal(test.expTasks, tasks)
			}

			require.Equal(t, 1, gen.CallCount())
			assert.Contains(gen.Calls()[0].Prompt, "Build a blog")
			assert.Contains(gen.Calls()[0].Prompt, "JSON array of strings")
		})
	}
}

func TestPipelineGenerateTaskListAsksForTheFirstFormat(t *testing.T) {
	gen := newFakeGenerator(t, map[generate.Kind]string{generate.KindTaskList: `['a', 'b']`}, nil)
	p, err := generate.NewPipeline(generate.PipelineConfig{
		Generator:   gen,
		ListFormats: []generate.ListFormat{generate.ListFormatLiteral},
	})
	require.NoError(t, err)

	tasks, err := p.GenerateTaskList(context.Background(), "Build a blog")
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, tasks)
	assert.Contains(t, gen.Calls()[0].Prompt, "bracketed list")
}

func TestPipelineEstimateTime(t *testing.T) {
	tests := map[string]struct {
		response        string
		defaultEstimate *float64
		expHours        float64
	}{
		"A number should be returned as is.": {
			response: "12.5",
			expHours: 12.5,
		},

		"A non numeric answer should return the default estimate.": {
			response: "abc",
			expHours: 1.0,
		},

		"A negative answer should return the default estimate.": {
			response: "-3",
			expHours: 1.0,
		},

		"A non numeric answer should return the configured default estimate.": {
			response:        "I think about 3 hours",
			defaultEstimate: hoursPtr(4),
			expHours:        4,
		},

		"A non numeric answer should return a configured zero default estimate.": {
			response:        "abc",
			defaultEstimate: hoursPtr(0),
			expHours:        0,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			gen := newFakeGenerator(t, map[generate.Kind]string{generate.KindTimeEstimate: test.response}, nil)
			p, err := generate.NewPipeline(generate.PipelineConfig{
				Generator:            gen,
				DefaultEstimateHours: test.defaultEstimate,
			})
			require.NoError(t, err)

			hours, err := p.EstimateTime(context.Background(), "Design schema")
			require.NoError(t, err)

			assert.Equal(t, test.expHours, hours)
			assert.Equal(t, 1, gen.CallCount())
		})
	}
}

func TestPipelineEstimateTimeTransportError(t *testing.T) {
	gen := newFakeGenerator(t, nil, context.DeadlineExceeded)
	p := newPipeline(t, gen)

	_, err := p.EstimateTime(context.Background(), "Design schema")

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPipelineSuggestNextTask(t *testing.T) {
	tests := map[string]struct {
		candidates  []string
		completed   []string
		response    string
		expProposal model.Proposal
		expCalls    int
		expPrompt   []string
		expNoPrompt []string
	}{
		"All candidates completed should not call the generator.": {
			candidates:  []string{"A", "B"},
			completed:   []string{"A", "B"},
			expProposal: model.NoSuggestion(),
			expCalls:    0,
		},

		"No candidates should not call the generator.": {
			expProposal: model.NoSuggestion(),
			expCalls:    0,
		},

		"Only pending candidates should be sent.": {
			candidates:  []string{"A", "B", "C"},
			completed:   []string{"A"},
			response:    "  C\n",
			expProposal: model.Proposal{Value: "C"},
			expCalls:    1,
			expPrompt:   []string{"- B", "- C"},
			expNoPrompt: []string{"- A"},
		},

		"Generated value should be returned without validation.": {
			candidates:  []string{"A", "B"},
			response:    "Z",
			expProposal: model.Proposal{Value: "Z"},
			expCalls:    1,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)

			gen := newFakeGenerator(t, map[generate.Kind]string{generate.KindNextTask: test.response}, nil)
			p := newPipeline(t, gen)

			proposal, err := p.SuggestNextTask(context.Background(), test.candidates, test.completed)
			require.NoError(t, err)

			assert.Equal(test.expProposal, proposal)
			require.Equal(t, test.expCalls, gen.CallCount())
			for _, exp := range test.expPrompt {
				assert.Contains(gen.Calls()[0].Prompt, exp)
			}
			for _, exp := range test.expNoPrompt {
				assert.NotContains(gen.Calls()[0].Prompt, exp)
			}
		})
	}
}

func TestPipelineUpdateStatus(t *testing.T) {
	gen := &generatemock.MockGenerator{}
	gen.On("Complete", mock.Anything, mock.MatchedBy(func(prompt string) bool {
		return assert.Contains(t, prompt, "Project: Blog") &&
			assert.Contains(t, prompt, "Task: Build API") &&
			assert.Contains(t, prompt, "Current status: Not Started") &&
			assert.Contains(t, prompt, "Known statuses: Not Started, Blocked") &&
			assert.Contains(t, prompt, "Instruction: it is blocked by the design")
	})).Once().Return(" Blocked \n", nil)

	p := newPipeline(t, gen)

	proposal, err := p.UpdateStatus(context.Background(), model.StatusUpdateRequest{
		Instruction:     "it is blocked by the design",
		ProjectName:     "Blog",
		TaskDescription: "Build API",
		CurrentStatus:   model.TaskStatusNotStarted,
		KnownStatuses:   []string{"Not Started", "Blocked"},
	})
	require.NoError(t, err)

	assert.Equal(t, model.Proposal{Value: "Blocked"}, proposal)
	gen.AssertExpectations(t)
}

func TestPipelineUsesGenerationKindOnContext(t *testing.T) {
	var gotKinds []generate.Kind
	gen := generate.GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		gotKinds = append(gotKinds, generate.KindFrom(ctx))
		return "1", nil
	})
	p := newPipeline(t, gen)
	ctx := context.Background()

	_, _ = p.GenerateTaskList(ctx, "x")
	_, _ = p.EstimateTime(ctx, "x")
	_, _ = p.SuggestNextTask(ctx, []string{"x"}, nil)
	_, _ = p.UpdateStatus(ctx, model.StatusUpdateRequest{})
	_, _ = p.GenerateReport(ctx, "x", "x", nil)
	_, _ = p.GenerateProjectName(ctx, "x")

	assert.Equal(t, []generate.Kind{
		generate.KindTaskList,
		generate.KindTimeEstimate,
		generate.KindNextTask,
		generate.KindStatusUpdate,
		generate.KindReport,
		generate.KindProjectName,
	}, gotKinds)
	assert.Equal(t, generate.KindUnknown, generate.KindFrom(ctx))
}

func TestPipelineGenerateReport(t *testing.T) {
	tests := map[string]struct {
		tasks       []model.Task
		doneStatus  model.TaskStatus
		expProgress model.TaskProgress
		expPercent  float64
		expPrompt   []string
	}{
		"No tasks should have zero progress.": {
			expProgress: model.TaskProgress{},
			expPercent:  0,
			expPrompt:   []string{"Total Tasks: 0", "Completed Tasks: 0", "Progress: 0.00%"},
		},

		"Two of four done tasks should have 50% progress.": {
			tasks: []model.Task{
				{Description: "Write spec", Status: "done"},
				{Description: "Design schema", Status: "done"},
				{Description: "Build API", Status: "In Progress"},
				{Description: "Deploy", Status: "Not Started"},
			},
			doneStatus:  "done",
			expProgress: model.TaskProgress{Done: 2, Total: 4},
			expPercent:  50.0,
			expPrompt: []string{
				"Total Tasks: 4",
				"Completed Tasks: 2",
				"Progress: 50.00%",
				"- Build API (Status: In Progress)",
			},
		},

		"Default done status should be Completed.": {
			tasks: []model.Task{
				{Description: "Write spec", Status: model.TaskStatusCompleted},
				{Description: "Deploy", Status: "done"},
			},
			expProgress: model.TaskProgress{Done: 1, Total: 2},
			expPercent:  50.0,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)

			gen := newFakeGenerator(t, map[generate.Kind]string{generate.KindReport: "\nAll good.\n"}, nil)
			p, err := generate.NewPipeline(generate.PipelineConfig{Generator: gen, DoneStatus: test.doneStatus})
			require.NoError(t, err)

			report, err := p.GenerateReport(context.Background(), "Blog", "A personal blog", test.tasks)
			require.NoError(t, err)

			assert.Equal("Blog", report.ProjectName)
			assert.Equal("All good.", report.Text)
			assert.Equal(test.expProgress, report.Progress)
			assert.Equal(test.expPercent, report.Progress.Percent())

			require.Equal(t, 1, gen.CallCount())
			prompt := gen.Calls()[0].Prompt
			assert.Contains(prompt, "Project Name: Blog")
			assert.Contains(prompt, "Project Description: A personal blog")
			for _, exp := range test.expPrompt {
				assert.Contains(prompt, exp)
			}
		})
	}
}

func TestPipelineGenerateProjectName(t *testing.T) {
	tests := map[string]struct {
		response string
		expName  string
	}{
		"The name should be trimmed.": {
			response: "  Inkwell \n",
			expName:  "Inkwell",
		},

		"Wrapping quotes and markdown should be removed.": {
			response: "**\"Inkwell\"**",
			expName:  "Inkwell",
		},

		"An empty name should use the default name.": {
			response: "``` ```",
			expName:  generate.DefaultProjectName,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			gen := newFakeGenerator(t, map[generate.Kind]string{generate.KindProjectName: test.response}, nil)
			p := newPipeline(t, gen)

			got, err := p.GenerateProjectName(context.Background(), "A personal blog")
			require.NoError(t, err)

			assert.Equal(t, test.expName, got)
		})
	}
}

func hoursPtr(h float64) *float64 { return &h }
