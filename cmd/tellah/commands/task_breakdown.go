package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/tellah/internal/app/breakdown"
)

type TaskBreakdownCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	project string
	dryRun  bool
	format  string
}

// NewTaskBreakdownCommand returns the task breakdown command.
func NewTaskBreakdownCommand(rootCmd *RootCommand, parent *kingpin.CmdClause) *TaskBreakdownCommand {
	c := &TaskBreakdownCommand{rootCmd: rootCmd}

	c.Cmd = parent.Command("breakdown", "Generate the tasks of a project from its description.")
	c.Cmd.Arg("project", "Project name or ID.").Required().StringVar(&c.project)
	c.Cmd.Flag("dry-run", "Show the generated tasks without storing them.").BoolVar(&c.dryRun)
	addFormatFlag(c.Cmd, &c.format)

	return c
}

func (c TaskBreakdownCommand) Name() string { return c.Cmd.FullCommand() }

func (c TaskBreakdownCommand) Run(ctx context.Context) error {
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

	svc, err := breakdown.NewService(breakdown.ServiceConfig{
		Repository: repo,
		Generator:  pipeline,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	tasks, err := svc.Run(ctx, breakdown.Request{
		Project: c.project,
		DryRun:  c.dryRun,
	})
	if err != nil {
		return fmt.Errorf("could not break down project: %w", err)
	}

	if err := c.rootCmd.newPrinter(c.format).PrintTasks(tasks); err != nil {
		return fmt.Errorf("could not print tasks: %w", err)
	}

	return nil
}
