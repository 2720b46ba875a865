package io

import (
	"context"
	"fmt"
	"io/fs"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/slok/tellah/internal/model"
)

// PlanYAMLRepository loads project plans from YAML files.
type PlanYAMLRepository struct {
	fs fs.FS
}

// NewPlanYAMLRepository creates a new YAML project plan repository.
func NewPlanYAMLRepository(filesystem fs.FS) *PlanYAMLRepository {
	return &PlanYAMLRepository{fs: filesystem}
}

// GetPlan loads a project plan from a YAML file and returns a validated domain model.
func (r *PlanYAMLRepository) GetPlan(ctx context.Context, path string) (model.ProjectPlan, error) {
	data, err := fs.ReadFile(r.fs, path)
	if err != nil {
		return model.ProjectPlan{}, fmt.Errorf("reading plan file: %w", err)
	}

	if ctx.Err() != nil {
		return model.ProjectPlan{}, ctx.Err()
	}

	var plan ProjectPlan
	dec := yaml.NewDecoder(strings.NewReader(string(data)))
	dec.KnownFields(true)
	if err := dec.Decode(&plan); err != nil {
		return model.ProjectPlan{}, fmt.Errorf("parsing YAML: %w: %w", err, model.ErrNotValid)
	}

	m := plan.toModel()
	if err := m.Validate(); err != nil {
		return model.ProjectPlan{}, fmt.Errorf("invalid project plan: %w", err)
	}

	return m, nil
}

// ProjectPlan represents the YAML structure of a project plan.
type ProjectPlan struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Tasks       []PlanTask `yaml:"tasks"`
}

// PlanTask represents the YAML structure of a task in a project plan.
// A task can also be written as a plain string.
type PlanTask struct {
	Description string `yaml:"description"`
	Status      string `yaml:"status"`
}

// UnmarshalYAML accepts both the mapping and the scalar forms.
func (t *PlanTask) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		t.Description = n.Value
		return nil
	}

	type plain PlanTask
	var p plain
	if err := n.Decode(&p); err != nil {
		return err
	}
	*t = PlanTask(p)

	return nil
}

func (p ProjectPlan) toModel() model.ProjectPlan {
	m := model.ProjectPlan{
		Name:        strings.TrimSpace(p.Name),
		Description: strings.TrimSpace(p.Description),
	}

	for _, t := range p.Tasks {
		status := model.TaskStatus(strings.TrimSpace(t.Status))
		if status == "" {
			status = model.TaskStatusNotStarted
		}
		m.Tasks = append(m.Tasks, model.PlannedTask{
			Description: strings.TrimSpace(t.Description),
			Status:      status,
		})
	}

	return m
}
