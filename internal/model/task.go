package model

import (
	"fmt"
	"strings"
	"time"
)

// TaskStatus represents the state of a task.
//
// Statuses are an open set: the constants are the values the application
// uses on its own, but users (and the generator) can set any other value.
type TaskStatus string

const (
	TaskStatusNotStarted TaskStatus = "Not Started"
	TaskStatusInProgress TaskStatus = "In Progress"
	TaskStatusCompleted  TaskStatus = "Completed"
)

// Task represents a single unit of work of a project.
type Task struct {
	ID          string
	ProjectID   string
	Sequence    int
	Description string
	Status      TaskStatus
	// EstimatedHours is nil until the task has been estimated.
	EstimatedHours *float64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Validate validates the task.
func (t *Task) Validate() error {
	if t.ProjectID == "" {
		return fmt.Errorf("project id is required: %w", ErrNotValid)
	}

	if strings.TrimSpace(t.Description) == "" {
		return fmt.Errorf("description is required: %w", ErrNotValid)
	}

	if t.EstimatedHours != nil && *t.EstimatedHours < 0 {
		return fmt.Errorf("estimated hours can't be negative: %w", ErrNotValid)
	}

	return nil
}

// IsStatus returns true if the task status matches the given one, ignoring case
// and surrounding whitespace.
func (t Task) IsStatus(status TaskStatus) bool {
	return strings.EqualFold(strings.TrimSpace(string(t.Status)), strings.TrimSpace(string(status)))
}

// TaskProgress represents the completion state of a project.
type TaskProgress struct {
	Done  int
	Total int
}

// Percent returns the completion percentage, 0 when there are no tasks.
func (p TaskProgress) Percent() float64 {
	if p.Total == 0 {
		return 0
	}

	return float64(p.Done) / float64(p.Total) * 100
}

// ComputeProgress counts the tasks that are in the done status.
func ComputeProgress(tasks []Task, done TaskStatus) TaskProgress {
	p := TaskProgress{Total: len(tasks)}
	for _, t := range tasks {
		if t.IsStatus(done) {
			p.Done++
		}
	}

	return p
}
