package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/tellah/internal/app/report"
)

type ReportCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	project string
	format  string
}

// NewReportCommand returns the report command.
func NewReportCommand(rootCmd *RootCommand, app *kingpin.Application) *ReportCommand {
	c := &ReportCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("report", "Generate a progress report of a project.")
	c.Cmd.Arg("project", "Project name or ID.").Required().StringVar(&c.project)
	addFormatFlag(c.Cmd, &c.format)

	return c
}

func (c ReportCommand) Name() string { return c.Cmd.FullCommand() }

func (c ReportCommand) Run(ctx context.Context) error {
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

	svc, err := report.NewService(report.ServiceConfig{
		Repository: repo,
		Generator:  pipeline,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	r, err := svc.Run(ctx, report.Request{Project: c.project})
	if err != nil {
		return fmt.Errorf("could not generate report: %w", err)
	}

	if err := c.rootCmd.newPrinter(c.format).PrintReport(*r); err != nil {
		return fmt.Errorf("could not print report: %w", err)
	}

	return nil
}
