package lib

import (
	"errors"
	"time"

	"github.com/slok/tellah/internal/generate"
	"github.com/slok/tellah/internal/model"
)

// GeneratorType identifies the content generator implementation.
type GeneratorType string

const (
	// GeneratorGemini generates content with the Gemini API.
	GeneratorGemini GeneratorType = "gemini"

	// GeneratorFake generates deterministic content without network access.
	// Use this for testing.
	GeneratorFake GeneratorType = "fake"
)

// TaskStatus is the status of a task.
//
// Statuses are an open set, the constants are the ones tellah uses on its own.
type TaskStatus string

const (
	// TaskStatusNotStarted is the status of new tasks.
	TaskStatusNotStarted TaskStatus = "Not Started"
	// TaskStatusInProgress is the status of started tasks.
	TaskStatusInProgress TaskStatus = "In Progress"
	// TaskStatusCompleted is the default status of finished tasks.
	TaskStatusCompleted TaskStatus = "Completed"
)

// Project is a project returned by the SDK.
type Project struct {
	// ID is the unique identifier (ULID) assigned at creation.
	ID string
	// Name is the unique project name.
	Name        string
	Description string
	CreatedAt   time.Time
}

// Task is a project task returned by the SDK.
type Task struct {
	// ID is the unique identifier (ULID) assigned at creation.
	ID        string
	ProjectID string
	// Sequence is the task number inside the project, starting at 1.
	// It can be used to reference the task on the task methods.
	Sequence    int
	Description string
	Status      TaskStatus
	// EstimatedHours is nil until the task has been estimated.
	EstimatedHours *float64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Progress is the completion progress of a set of tasks.
type Progress struct {
	Done  int
	Total int
	// Percent is the completed percentage, 0 when there are no tasks.
	Percent float64
}

// ProjectStatus is a project with its tasks.
type ProjectStatus struct {
	Project  Project
	Tasks    []Task
	Progress Progress
}

// ProjectSummary is a project with its progress.
type ProjectSummary struct {
	Project  Project
	Progress Progress
}

// Report is a generated project progress report.
type Report struct {
	ProjectName string
	Progress    Progress
	// Text is the generated report.
	Text string
}

// CreateProjectOpts configures project creation.
type CreateProjectOpts struct {
	// Name is the project name, generated from the description when empty.
	Name string
	// Description is what the project is about (required).
	Description string
	// Breakdown generates and stores the initial project tasks.
	Breakdown bool
}

// ImportProjectOpts configures a project import from a YAML plan file.
type ImportProjectOpts struct {
	// Path is the plan file path (required).
	Path string
	// Name overrides the plan project name.
	Name string
}

// ListProjectsOpts configures project listing. Pass nil for defaults.
type ListProjectsOpts struct {
	// PendingOnly only returns projects with tasks left to do.
	PendingOnly bool
}

// AddTaskOpts configures a manual task addition.
type AddTaskOpts struct {
	// Description is the task description (required).
	Description string
	// Status is the initial status.
	// Default: [TaskStatusNotStarted].
	Status         TaskStatus
	EstimatedHours *float64
}

// BreakdownOpts configures a project breakdown. Pass nil for defaults.
type BreakdownOpts struct {
	// DryRun returns the generated tasks without storing them.
	DryRun bool
}

// EstimateOpts configures task estimation. Pass nil for defaults.
type EstimateOpts struct {
	// Force estimates tasks that already have an estimation.
	Force bool
}

// SuggestNextTaskOpts configures the next task suggestion. Pass nil for defaults.
type SuggestNextTaskOpts struct {
	// Start marks the suggested task as in progress.
	Start bool
}

// UpdateTaskStatusOpts configures a task status update.
// Exactly one of Status or Instruction must be set.
type UpdateTaskStatusOpts struct {
	// Status is the new status.
	Status TaskStatus
	// Instruction is a natural language update the new status is generated from
	// (e.g: "I finished it yesterday").
	Instruction string
}

// Errors returned by the SDK, check them with [errors.Is].
var (
	// ErrNotFound is returned when a project or task does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when a project with the same name already exists.
	ErrAlreadyExists = errors.New("already exists")
	// ErrNotValid is returned on invalid input or generated content that can't be used.
	ErrNotValid = errors.New("not valid")
	// ErrGeneration is returned when the content generator could not be reached.
	ErrGeneration = errors.New("generation failed")
)

// --- Conversion helpers ---

func fromInternalProject(p model.Project) Project {
	return Project{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
	}
}

func fromInternalTask(t model.Task) Task {
	return Task{
		ID:             t.ID,
		ProjectID:      t.ProjectID,
		Sequence:       t.Sequence,
		Description:    t.Description,
		Status:         TaskStatus(t.Status),
		EstimatedHours: t.EstimatedHours,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}

func fromInternalTaskList(ts []model.Task) []Task {
	result := make([]Task, len(ts))
	for i, t := range ts {
		result[i] = fromInternalTask(t)
	}
	return result
}

func fromInternalProgress(p model.TaskProgress) Progress {
	return Progress{Done: p.Done, Total: p.Total, Percent: p.Percent()}
}

// --- Error mapping ---

// mapError makes internal errors match the SDK sentinel errors while keeping
// the original message and chain.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	var terr *generate.TransportError
	switch {
	case errors.Is(err, model.ErrNotFound):
		return &mappedError{original: err, sentinel: ErrNotFound}
	case errors.Is(err, model.ErrAlreadyExists):
		return &mappedError{original: err, sentinel: ErrAlreadyExists}
	case errors.Is(err, model.ErrNotValid):
		return &mappedError{original: err, sentinel: ErrNotValid}
	case errors.As(err, &terr):
		return &mappedError{original: err, sentinel: ErrGeneration}
	default:
		return err
	}
}

type mappedError struct {
	original error
	sentinel error
}

func (e *mappedError) Error() string { return e.original.Error() }

func (e *mappedError) Is(target error) bool {
	return target == e.sentinel
}

func (e *mappedError) Unwrap() error { return e.original }
