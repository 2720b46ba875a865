package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/tellah/internal/app/estimate"
)

type TaskEstimateCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	project string
	task    string
	force   bool
	format  string
}

// NewTaskEstimateCommand returns the task estimate command.
func NewTaskEstimateCommand(rootCmd *RootCommand, parent *kingpin.CmdClause) *TaskEstimateCommand {
	c := &TaskEstimateCommand{rootCmd: rootCmd}

	c.Cmd = parent.Command("estimate", "Estimate the hours of a task, or of every unestimated project task.")
	c.Cmd.Arg("project", "Project name or ID.").Required().StringVar(&c.project)
	c.Cmd.Arg("task", "Task number or ID.").StringVar(&c.task)
	c.Cmd.Flag("force", "Estimate again the tasks that already have an estimation.").BoolVar(&c.force)
	addFormatFlag(c.Cmd, &c.format)

	return c
}

func (c TaskEstimateCommand) Name() string { return c.Cmd.FullCommand() }

func (c TaskEstimateCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	pipeline, err := c.rootCmd.newPipeline(ctx)
	if err != nil {
		return err
	}

	repo, err := c.rootCmd.newRepository(ctx)
	if err != nil {
		return err
	}
	defer closeRepository(repo, logger)

	svc, err := estimate.NewService(estimate.ServiceConfig{
		Repository: repo,
		Generator:  pipeline,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	tasks, err := svc.Run(ctx, estimate.Request{
		Project: c.project,
		Task:    c.task,
		Force:   c.force,
	})
	if err != nil {
		return fmt.Errorf("could not estimate: %w", err)
	}

	p := c.rootCmd.newPrinter(c.format)
	if len(tasks) == 0 && c.format != formatJSON {
		return p.PrintMessage("Every task is already estimated")
	}
	if err := p.PrintTasks(tasks); err != nil {
		return fmt.Errorf("could not print tasks: %w", err)
	}

	return nil
}
