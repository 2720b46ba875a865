package commands

import "github.com/alecthomas/kingpin/v2"

// NewTaskCommand returns the parent command of the task subcommands.
func NewTaskCommand(app *kingpin.Application) *kingpin.CmdClause {
	return app.Command("task", "Manage project tasks.")
}
