package printer

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/slok/tellah/internal/model"
)

// TablePrinter prints project information in a table format.
type TablePrinter struct {
	writer io.Writer
}

// NewTablePrinter creates a new table printer.
func NewTablePrinter(w io.Writer) *TablePrinter {
	return &TablePrinter{writer: w}
}

// PrintProjects prints projects in a table format.
func (t *TablePrinter) PrintProjects(projects []model.ProjectSummary) error {
	if len(projects) == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintln(tw, "NAME\tTASKS\tPROGRESS\tCREATED")
	for _, s := range projects {
		fmt.Fprintf(tw, "%s\t%d/%d\t%s\t%s\n",
			s.Project.Name,
			s.Progress.Done,
			s.Progress.Total,
			FormatPercent(s.Progress),
			TimeAgo(s.Project.CreatedAt),
		)
	}

	return nil
}

// PrintProject prints a project with its tasks.
func (t *TablePrinter) PrintProject(p model.Project, tasks []model.Task, progress model.TaskProgress) error {
	fmt.Fprintf(t.writer, "Name:         %s\n", p.Name)
	fmt.Fprintf(t.writer, "ID:           %s\n", p.ID)
	if p.Description != "" {
		fmt.Fprintf(t.writer, "Description:  %s\n", p.Description)
	}
	fmt.Fprintf(t.writer, "Progress:     %s (%d/%d)\n", FormatPercent(progress), progress.Done, progress.Total)
	fmt.Fprintf(t.writer, "Estimated:    %s\n", FormatHours(totalHours(tasks)))
	fmt.Fprintf(t.writer, "Created:      %s\n", FormatTimestamp(p.CreatedAt))

	if len(tasks) == 0 {
		return nil
	}

	fmt.Fprintln(t.writer)
	return t.PrintTasks(tasks)
}

// PrintTasks prints tasks in a table format.
func (t *TablePrinter) PrintTasks(tasks []model.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintln(tw, "#\tTASK\tSTATUS\tESTIMATE")
	for _, task := range tasks {
		seq := "-"
		if task.Sequence > 0 {
			seq = fmt.Sprintf("%d", task.Sequence)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", seq, task.Description, task.Status, FormatHours(task.EstimatedHours))
	}

	return nil
}

// PrintReport prints a project report.
func (t *TablePrinter) PrintReport(r model.Report) error {
	fmt.Fprintf(t.writer, "Project:   %s\n", r.ProjectName)
	fmt.Fprintf(t.writer, "Progress:  %s (%d/%d)\n\n", FormatPercent(r.Progress), r.Progress.Done, r.Progress.Total)
	fmt.Fprintln(t.writer, r.Text)
	return nil
}

// PrintMessage prints a simple text message.
func (t *TablePrinter) PrintMessage(msg string) error {
	fmt.Fprintln(t.writer, msg)
	return nil
}

// totalHours sums the estimated tasks, nil when no task is estimated.
func totalHours(tasks []model.Task) *float64 {
	var total *float64
	for _, t := range tasks {
		if t.EstimatedHours == nil {
			continue
		}
		if total == nil {
			total = new(float64)
		}
		*total += *t.EstimatedHours
	}
	return total
}
