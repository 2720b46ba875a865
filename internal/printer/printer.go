package printer

import "github.com/slok/tellah/internal/model"

// Printer knows how to print projects and tasks in different formats.
type Printer interface {
	PrintProjects(projects []model.ProjectSummary) error
	PrintProject(project model.Project, tasks []model.Task, progress model.TaskProgress) error
	PrintTasks(tasks []model.Task) error
	PrintReport(report model.Report) error
	PrintMessage(msg string) error
}
