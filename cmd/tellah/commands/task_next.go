package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/tellah/internal/app/nexttask"
	"github.com/slok/tellah/internal/model"
)

type TaskNextCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	project string
	start   bool
	format  string
}

// NewTaskNextCommand returns the task next command.
func NewTaskNextCommand(rootCmd *RootCommand, parent *kingpin.CmdClause) *TaskNextCommand {
	c := &TaskNextCommand{rootCmd: rootCmd}

	c.Cmd = parent.Command("next", "Suggest the next task to work on.")
	c.Cmd.Arg("project", "Project name or ID.").Required().StringVar(&c.project)
	c.Cmd.Flag("start", "Mark the suggested task as in progress.").BoolVar(&c.start)
	addFormatFlag(c.Cmd, &c.format)

	return c
}

func (c TaskNextCommand) Name() string { return c.Cmd.FullCommand() }

func (c TaskNextCommand) Run(ctx context.Context) error {
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

	svc, err := nexttask.NewService(nexttask.ServiceConfig{
		Repository: repo,
		Generator:  pipeline,
		DoneStatus: model.TaskStatus(c.rootCmd.DoneStatus),
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	res, err := svc.Run(ctx, nexttask.Request{
		Project: c.project,
		Start:   c.start,
	})
	if err != nil {
		return fmt.Errorf("could not suggest next task: %w", err)
	}

	p := c.rootCmd.newPrinter(c.format)
	if res.Task == nil {
		if c.format == formatJSON {
			return p.PrintTasks(nil)
		}
		return p.PrintMessage("No tasks left, every task is completed")
	}

	if err := p.PrintTasks([]model.Task{*res.Task}); err != nil {
		return fmt.Errorf("could not print task: %w", err)
	}

	return nil
}
