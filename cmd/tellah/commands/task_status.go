package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/tellah/internal/app/updatestatus"
)

type TaskStatusCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	project     string
	task        string
	status      string
	instruction string
}

// NewTaskStatusCommand returns the task status command.
func NewTaskStatusCommand(rootCmd *RootCommand, parent *kingpin.CmdClause) *TaskStatusCommand {
	c := &TaskStatusCommand{rootCmd: rootCmd}

	c.Cmd = parent.Command("status", "Update the status of a task.")
	c.Cmd.Arg("project", "Project name or ID.").Required().StringVar(&c.project)
	c.Cmd.Arg("task", "Task number or ID.").Required().StringVar(&c.task)
	c.Cmd.Flag("set", "New task status.").Short('s').StringVar(&c.status)
	c.Cmd.Flag("instruction", "Natural language update used to generate the new status (e.g: \"I finished it yesterday\").").Short('i').StringVar(&c.instruction)

	return c
}

func (c TaskStatusCommand) Name() string { return c.Cmd.FullCommand() }

func (c TaskStatusCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	svcCfg := updatestatus.ServiceConfig{
		AllowedStatuses: c.rootCmd.AllowedStatuses,
		Logger:          logger,
	}

	if c.instruction != "" {
		pipeline, err := c.rootCmd.newPipeline(ctx)
		if err != nil {
			return err
		}
		svcCfg.Generator = pipeline
	}

	repo, err := c.rootCmd.newRepository(ctx)
	if err != nil {
		return err
	}
	defer closeRepository(repo, logger)
	svcCfg.Repository = repo

	svc, err := updatestatus.NewService(svcCfg)
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	res, err := svc.Run(ctx, updatestatus.Request{
		Project:     c.project,
		Task:        c.task,
		Status:      c.status,
		Instruction: c.instruction,
	})
	if err != nil {
		return fmt.Errorf("could not update task status: %w", err)
	}

	msg := fmt.Sprintf("Task #%d: %q -> %q", res.Task.Sequence, res.PreviousStatus, res.Task.Status)
	if err := c.rootCmd.newPrinter(formatTable).PrintMessage(msg); err != nil {
		return fmt.Errorf("could not print message: %w", err)
	}

	return nil
}
