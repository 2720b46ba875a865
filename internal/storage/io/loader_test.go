package io_test

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/tellah/internal/model"
	storageio "github.com/slok/tellah/internal/storage/io"
)

func TestPlanYAMLRepositoryGetPlan(t *testing.T) {
	tests := map[string]struct {
		fs      fstest.MapFS
		path    string
		expPlan model.ProjectPlan
		expErr  bool
	}{
		"A complete plan should load successfully.": {
			fs: fstest.MapFS{
				"plan.yaml": &fstest.MapFile{Data: []byte(`
name: blog
description: A personal blog
tasks:
  - description: Write spec
    status: Completed
  - description: Design schema
`)},
			},
			path: "plan.yaml",
			expPlan: model.ProjectPlan{
				Name:        "blog",
				Description: "A personal blog",
				Tasks: []model.PlannedTask{
					{Description: "Write spec", Status: model.TaskStatusCompleted},
					{Description: "Design schema", Status: model.TaskStatusNotStarted},
				},
			},
		},

		"Tasks as plain strings should load successfully.": {
			fs: fstest.MapFS{
				"plan.yaml": &fstest.MapFile{Data: []byte(`
name: blog
tasks:
  - Write spec
  - "Deploy "
`)},
			},
			path: "plan.yaml",
			expPlan: model.ProjectPlan{
				Name: "blog",
				Tasks: []model.PlannedTask{
					{Description: "Write spec", Status: model.TaskStatusNotStarted},
					{Description: "Deploy", Status: model.TaskStatusNotStarted},
				},
			},
		},

		"A plan without tasks should load successfully.": {
			fs: fstest.MapFS{
				"plan.yaml": &fstest.MapFile{Data: []byte(`name: blog`)},
			},
			path:    "plan.yaml",
			expPlan: model.ProjectPlan{Name: "blog"},
		},

		"A plan without name should fail.": {
			fs: fstest.MapFS{
				"plan.yaml": &fstest.MapFile{Data: []byte(`description: A personal blog`)},
			},
			path:   "plan.yaml",
			expErr: true,
		},

		"A plan with an empty task should fail.": {
			fs: fstest.MapFS{
				"plan.yaml": &fstest.MapFile{Data: []byte(`
name: blog
tasks:
  - description: "  "
`)},
			},
			path:   "plan.yaml",
			expErr: true,
		},

		"Unknown fields should fail.": {
			fs: fstest.MapFS{
				"plan.yaml": &fstest.MapFile{Data: []byte(`
name: blog
owner: me
`)},
			},
			path:   "plan.yaml",
			expErr: true,
		},

		"Invalid YAML should fail.": {
			fs: fstest.MapFS{
				"plan.yaml": &fstest.MapFile{Data: []byte(`name: [blog`)},
			},
			path:   "plan.yaml",
			expErr: true,
		},

		"A missing file should fail.": {
			fs:     fstest.MapFS{},
			path:   "plan.yaml",
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			repo := storageio.NewPlanYAMLRepository(test.fs)

			plan, err := repo.GetPlan(context.Background(), test.path)

			if test.expErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, test.expPlan, plan)
			}
		})
	}
}
