package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/tellah/internal/app/projectstatus"
	"github.com/slok/tellah/internal/model"
)

type ProjectStatusCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	project string
	format  string
}

// NewProjectStatusCommand returns the project status command.
func NewProjectStatusCommand(rootCmd *RootCommand, parent *kingpin.CmdClause) *ProjectStatusCommand {
	c := &ProjectStatusCommand{rootCmd: rootCmd}

	c.Cmd = parent.Command("status", "Show a project and its tasks.")
	c.Cmd.Arg("project", "Project name or ID.").Required().StringVar(&c.project)
	addFormatFlag(c.Cmd, &c.format)

	return c
}

func (c ProjectStatusCommand) Name() string { return c.Cmd.FullCommand() }

func (c ProjectStatusCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	repo, err := c.rootCmd.newRepository(ctx)
	if err != nil {
		return err
	}
	defer closeRepository(repo, logger)

	svc, err := projectstatus.NewService(projectstatus.ServiceConfig{
		Repository: repo,
		DoneStatus: model.TaskStatus(c.rootCmd.DoneStatus),
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	res, err := svc.Run(ctx, projectstatus.Request{Project: c.project})
	if err != nil {
		return fmt.Errorf("could not get project: %w", err)
	}

	if err := c.rootCmd.newPrinter(c.format).PrintProject(res.Project, res.Tasks, res.Progress); err != nil {
		return fmt.Errorf("could not print project: %w", err)
	}

	return nil
}
