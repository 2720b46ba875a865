package model

import (
	"fmt"
	"strings"
	"time"
)

// Project groups the tasks of a single piece of work.
type Project struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
}

// Validate validates the project.
func (p *Project) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("name is required: %w", ErrNotValid)
	}

	return nil
}

// ProjectPlan is a project definition with its initial tasks, ready to be stored.
type ProjectPlan struct {
	Name        string
	Description string
	Tasks       []PlannedTask
}

// PlannedTask is a task that belongs to a project plan.
type PlannedTask struct {
	Description string
	Status      TaskStatus
}

// Validate validates the project plan.
func (p *ProjectPlan) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("name is required: %w", ErrNotValid)
	}

	for i, t := range p.Tasks {
		if strings.TrimSpace(t.Description) == "" {
			return fmt.Errorf("task %d description is required: %w", i+1, ErrNotValid)
		}
	}

	return nil
}

// ProjectSummary is a project with its task progress.
type ProjectSummary struct {
	Project  Project
	Progress TaskProgress
}
