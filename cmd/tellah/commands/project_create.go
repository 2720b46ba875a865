package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/tellah/internal/app/createproject"
	"github.com/slok/tellah/internal/model"
)

type ProjectCreateCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	description string
	name        string
	breakdown   bool
	format      string
}

// NewProjectCreateCommand returns the project create command.
func NewProjectCreateCommand(rootCmd *RootCommand, parent *kingpin.CmdClause) *ProjectCreateCommand {
	c := &ProjectCreateCommand{rootCmd: rootCmd}

	c.Cmd = parent.Command("create", "Create a new project.")
	c.Cmd.Arg("description", "What the project is about.").Required().StringVar(&c.description)
	c.Cmd.Flag("name", "Project name, generated from the description when not set.").Short('n').StringVar(&c.name)
	c.Cmd.Flag("breakdown", "Generate the initial tasks of the project.").BoolVar(&c.breakdown)
	addFormatFlag(c.Cmd, &c.format)

	return c
}

func (c ProjectCreateCommand) Name() string { return c.Cmd.FullCommand() }

func (c ProjectCreateCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	svcCfg := createproject.ServiceConfig{Logger: logger}

	// Only naming and breaking down projects needs the generator.
	if c.name == "" || c.breakdown {
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

	svc, err := createproject.NewService(svcCfg)
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	res, err := svc.Run(ctx, createproject.Request{
		Name:        c.name,
		Description: c.description,
		Breakdown:   c.breakdown,
	})
	if err != nil {
		return fmt.Errorf("could not create project: %w", err)
	}

	p := c.rootCmd.newPrinter(c.format)
	if c.format == formatJSON {
		return p.PrintProject(res.Project, res.Tasks, model.ComputeProgress(res.Tasks, model.TaskStatus(c.rootCmd.DoneStatus)))
	}

	if err := p.PrintMessage(fmt.Sprintf("Created project: %s (%s)", res.Project.Name, res.Project.ID)); err != nil {
		return fmt.Errorf("could not print message: %w", err)
	}
	if len(res.Tasks) > 0 {
		if err := p.PrintTasks(res.Tasks); err != nil {
			return fmt.Errorf("could not print tasks: %w", err)
		}
	}

	return nil
}
