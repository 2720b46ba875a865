package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/tellah/internal/app/addtask"
	"github.com/slok/tellah/internal/model"
)

type TaskAddCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	project     string
	description string
	status      string
	hours       float64
	format      string
}

// NewTaskAddCommand returns the task add command.
func NewTaskAddCommand(rootCmd *RootCommand, parent *kingpin.CmdClause) *TaskAddCommand {
	c := &TaskAddCommand{rootCmd: rootCmd}

	c.Cmd = parent.Command("add", "Add a task to a project.")
	c.Cmd.Arg("project", "Project name or ID.").Required().StringVar(&c.project)
	c.Cmd.Arg("description", "Task description.").Required().StringVar(&c.description)
	c.Cmd.Flag("status", "Initial task status.").Default(string(model.TaskStatusNotStarted)).StringVar(&c.status)
	c.Cmd.Flag("hours", "Estimated hours of the task.").Default("-1").Float64Var(&c.hours)
	addFormatFlag(c.Cmd, &c.format)

	return c
}

func (c TaskAddCommand) Name() string { return c.Cmd.FullCommand() }

func (c TaskAddCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	repo, err := c.rootCmd.newRepository(ctx)
	if err != nil {
		return err
	}
	defer closeRepository(repo, logger)

	svc, err := addtask.NewService(addtask.ServiceConfig{
		Repository: repo,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	req := addtask.Request{
		Project:     c.project,
		Description: c.description,
		Status:      model.TaskStatus(c.status),
	}
	if c.hours >= 0 {
		hours := c.hours
		req.EstimatedHours = &hours
	}

	task, err := svc.Run(ctx, req)
	if err != nil {
		return fmt.Errorf("could not add task: %w", err)
	}

	if err := c.rootCmd.newPrinter(c.format).PrintTasks([]model.Task{*task}); err != nil {
		return fmt.Errorf("could not print task: %w", err)
	}

	return nil
}
