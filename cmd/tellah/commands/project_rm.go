package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/tellah/internal/app/removeproject"
)

type ProjectRemoveCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	project string
}

// NewProjectRemoveCommand returns the project rm command.
func NewProjectRemoveCommand(rootCmd *RootCommand, parent *kingpin.CmdClause) *ProjectRemoveCommand {
	c := &ProjectRemoveCommand{rootCmd: rootCmd}

	c.Cmd = parent.Command("rm", "Remove a project and all its tasks.")
	c.Cmd.Arg("project", "Project name or ID.").Required().StringVar(&c.project)

	return c
}

func (c ProjectRemoveCommand) Name() string { return c.Cmd.FullCommand() }

func (c ProjectRemoveCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	repo, err := c.rootCmd.newRepository(ctx)
	if err != nil {
		return err
	}
	defer closeRepository(repo, logger)

	svc, err := removeproject.NewService(removeproject.ServiceConfig{
		Repository: repo,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	project, err := svc.Run(ctx, removeproject.Request{Project: c.project})
	if err != nil {
		return fmt.Errorf("could not remove project: %w", err)
	}

	if err := c.rootCmd.newPrinter(formatTable).PrintMessage(fmt.Sprintf("Removed project: %s", project.Name)); err != nil {
		return fmt.Errorf("could not print message: %w", err)
	}

	return nil
}
