package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/tellah/internal/app/importproject"
	"github.com/slok/tellah/internal/model"
	storageio "github.com/slok/tellah/internal/storage/io"
)

type ProjectImportCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	path   string
	name   string
	format string
}

// NewProjectImportCommand returns the project import command.
func NewProjectImportCommand(rootCmd *RootCommand, parent *kingpin.CmdClause) *ProjectImportCommand {
	c := &ProjectImportCommand{rootCmd: rootCmd}

	c.Cmd = parent.Command("import", "Create a project with its tasks from a YAML plan file.")
	c.Cmd.Arg("file", "Project plan YAML file.").Required().StringVar(&c.path)
	c.Cmd.Flag("name", "Overrides the plan project name.").Short('n').StringVar(&c.name)
	addFormatFlag(c.Cmd, &c.format)

	return c
}

func (c ProjectImportCommand) Name() string { return c.Cmd.FullCommand() }

func (c ProjectImportCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	// Plans are read relative to their own directory.
	absPath, err := filepath.Abs(c.path)
	if err != nil {
		return fmt.Errorf("invalid plan path: %w", err)
	}
	loader := storageio.NewPlanYAMLRepository(os.DirFS(filepath.Dir(absPath)))

	repo, err := c.rootCmd.newRepository(ctx)
	if err != nil {
		return err
	}
	defer closeRepository(repo, logger)

	svc, err := importproject.NewService(importproject.ServiceConfig{
		Repository: repo,
		PlanLoader: loader,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	res, err := svc.Run(ctx, importproject.Request{
		Path: filepath.Base(absPath),
		Name: c.name,
	})
	if err != nil {
		return fmt.Errorf("could not import project: %w", err)
	}

	p := c.rootCmd.newPrinter(c.format)
	if c.format == formatJSON {
		return p.PrintProject(res.Project, res.Tasks, model.ComputeProgress(res.Tasks, model.TaskStatus(c.rootCmd.DoneStatus)))
	}

	msg := fmt.Sprintf("Imported project: %s (%d tasks)", res.Project.Name, len(res.Tasks))
	if err := p.PrintMessage(msg); err != nil {
		return fmt.Errorf("could not print message: %w", err)
	}

	return nil
}
