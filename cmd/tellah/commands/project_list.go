package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/tellah/internal/app/listprojects"
	"github.com/slok/tellah/internal/model"
)

type ProjectListCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	pending bool
	format  string
}

// NewProjectListCommand returns the project list command.
func NewProjectListCommand(rootCmd *RootCommand, parent *kingpin.CmdClause) *ProjectListCommand {
	c := &ProjectListCommand{rootCmd: rootCmd}

	c.Cmd = parent.Command("list", "List all projects.").Alias("ls")
	c.Cmd.Flag("pending", "Only list projects with tasks left to do.").BoolVar(&c.pending)
	addFormatFlag(c.Cmd, &c.format)

	return c
}

func (c ProjectListCommand) Name() string { return c.Cmd.FullCommand() }

func (c ProjectListCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	repo, err := c.rootCmd.newRepository(ctx)
	if err != nil {
		return err
	}
	defer closeRepository(repo, logger)

	svc, err := listprojects.NewService(listprojects.ServiceConfig{
		Repository: repo,
		DoneStatus: model.TaskStatus(c.rootCmd.DoneStatus),
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	projects, err := svc.Run(ctx, listprojects.Request{PendingOnly: c.pending})
	if err != nil {
		return fmt.Errorf("could not list projects: %w", err)
	}

	if err := c.rootCmd.newPrinter(c.format).PrintProjects(projects); err != nil {
		return fmt.Errorf("could not print projects: %w", err)
	}

	return nil
}
