package generate

import (
	"fmt"
	"strings"

	"github.com/slok/tellah/internal/model"
)

const (
	taskListPromptTpl = `Based on the following project description, generate a list of 5-7 high-level tasks that would be necessary to complete the project.
%s

Project description: %s`

	taskListJSONInstruction    = "Return the tasks as a JSON array of strings."
	taskListLiteralInstruction = "Return the tasks as a bracketed list of quoted strings, like ['First task', 'Second task']."

	estimatePromptTpl = `Estimate the time in hours it would take to complete this task: %s. Return only a number.`

	nextTaskPromptTpl = `Given the following list of tasks for a project, suggest which task should be done next. Consider dependencies, complexity, and impact. Return only the name of the task.

Tasks:
%s`

	statusPromptTpl = `You keep track of the status of the tasks of a project.

Project: %s
Task: %s
Current status: %s
%s
Instruction: %s

Based on the instruction, return only the new status of the task, without any explanation.`

	reportPromptTpl = `Generate a brief project report based on the following information:

Project Name: %s
Project Description: %s
Total Tasks: %d
Completed Tasks: %d
Progress: %.2f%%

Task List:
%s

Provide a summary of the project status, highlight key achievements, and suggest next steps.`

	projectNamePromptTpl = `Generate a concise and catchy project name based on this description: %s. Return only the name.`
)

func taskListPrompt(description string, formats []ListFormat) string {
	instruction := taskListJSONInstruction
	if len(formats) > 0 && formats[0] == ListFormatLiteral {
		instruction = taskListLiteralInstruction
	}

	return fmt.Sprintf(taskListPromptTpl, instruction, description)
}

func estimatePrompt(taskDescription string) string {
	return fmt.Sprintf(estimatePromptTpl, taskDescription)
}

func nextTaskPrompt(tasks []string) string {
	return fmt.Sprintf(nextTaskPromptTpl, bulletList(tasks))
}

func statusPrompt(req model.StatusUpdateRequest) string {
	known := ""
	if len(req.KnownStatuses) > 0 {
		known = fmt.Sprintf("Known statuses: %s\n", strings.Join(req.KnownStatuses, ", "))
	}

	current := string(req.CurrentStatus)
	if current == "" {
		current = "unknown"
	}

	return fmt.Sprintf(statusPromptTpl, req.ProjectName, req.TaskDescription, current, known, req.Instruction)
}

func reportPrompt(projectName, projectDescription string, tasks []model.Task, progress model.TaskProgress) string {
	lines := make([]string, 0, len(tasks))
	for _, t := range tasks {
		lines = append(lines, fmt.Sprintf("%s (Status: %s)", t.Description, t.Status))
	}

	return fmt.Sprintf(reportPromptTpl, projectName, projectDescription, progress.Total, progress.Done, progress.Percent(), bulletList(lines))
}

func projectNamePrompt(description string) string {
	return fmt.Sprintf(projectNamePromptTpl, description)
}

func bulletList(items []string) string {
	var b strings.Builder
	for i, it := range items {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("- ")
		b.WriteString(it)
	}
	return b.String()
}
