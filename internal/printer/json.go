package printer

import (
	"encoding/json"
	"io"
	"time"

	"github.com/slok/tellah/internal/model"
)

// JSONPrinter prints project information in JSON format.
type JSONPrinter struct {
	writer io.Writer
}

// NewJSONPrinter creates a new JSON printer.
func NewJSONPrinter(w io.Writer) *JSONPrinter {
	return &JSONPrinter{writer: w}
}

type progressOutput struct {
	Done    int     `json:"done"`
	Total   int     `json:"total"`
	Percent float64 `json:"percent"`
}

type projectOutput struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Progress    progressOutput `json:"progress"`
	CreatedAt   time.Time      `json:"created_at"`
	Tasks       *[]taskOutput  `json:"tasks,omitempty"`
}

type taskOutput struct {
	ID             string    `json:"id,omitempty"`
	Sequence       int       `json:"sequence,omitempty"`
	Description    string    `json:"description"`
	Status         string    `json:"status"`
	EstimatedHours *float64  `json:"estimated_hours"`
	UpdatedAt      time.Time `json:"updated_at,omitzero"`
}

type reportOutput struct {
	Project  string         `json:"project"`
	Progress progressOutput `json:"progress"`
	Report   string         `json:"report"`
}

type messageOutput struct {
	Message string `json:"message"`
}

// PrintProjects prints projects in JSON format.
func (j *JSONPrinter) PrintProjects(projects []model.ProjectSummary) error {
	items := make([]projectOutput, 0, len(projects))
	for _, s := range projects {
		items = append(items, newProjectOutput(s.Project, s.Progress))
	}

	return j.encode(items)
}

// PrintProject prints a project with its tasks in JSON format.
func (j *JSONPrinter) PrintProject(p model.Project, tasks []model.Task, progress model.TaskProgress) error {
	out := newProjectOutput(p, progress)
	ts := newTaskOutputs(tasks)
	out.Tasks = &ts

	return j.encode(out)
}

// PrintTasks prints tasks in JSON format.
func (j *JSONPrinter) PrintTasks(tasks []model.Task) error {
	return j.encode(newTaskOutputs(tasks))
}

// PrintReport prints a project report in JSON format.
func (j *JSONPrinter) PrintReport(r model.Report) error {
	return j.encode(reportOutput{
		Project:  r.ProjectName,
		Progress: newProgressOutput(r.Progress),
		Report:   r.Text,
	})
}

// PrintMessage prints a simple message in JSON format.
func (j *JSONPrinter) PrintMessage(msg string) error {
	return j.encode(messageOutput{Message: msg})
}

func (j *JSONPrinter) encode(v any) error {
	enc := json.NewEncoder(j.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newProgressOutput(p model.TaskProgress) progressOutput {
	return progressOutput{Done: p.Done, Total: p.Total, Percent: p.Percent()}
}

func newProjectOutput(p model.Project, progress model.TaskProgress) projectOutput {
	return projectOutput{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Progress:    newProgressOutput(progress),
		CreatedAt:   p.CreatedAt.UTC(),
	}
}

func newTaskOutputs(tasks []model.Task) []taskOutput {
	out := make([]taskOutput, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, taskOutput{
			ID:             t.ID,
			Sequence:       t.Sequence,
			Description:    t.Description,
			Status:         string(t.Status),
			EstimatedHours: t.EstimatedHours,
			UpdatedAt:      t.UpdatedAt.UTC(),
		})
	}
	return out
}
