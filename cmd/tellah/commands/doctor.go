package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/tellah/internal/conventions"
)

type checkStatus int

const (
	checkStatusOK checkStatus = iota
	checkStatusWarning
	checkStatusError
)

type checkResult struct {
	id      string
	status  checkStatus
	message string
}

type DoctorCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	ping bool
}

// NewDoctorCommand returns the doctor command.
func NewDoctorCommand(rootCmd *RootCommand, app *kingpin.Application) *DoctorCommand {
	c := &DoctorCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("doctor", "Run preflight checks of the storage and the content generator.")
	c.Cmd.Flag("ping", "Make a real generation call to check the generator connectivity.").BoolVar(&c.ping)

	return c
}

func (c DoctorCommand) Name() string { return c.Cmd.FullCommand() }

func (c DoctorCommand) Run(ctx context.Context) error {
	out := c.rootCmd.Stdout

	results := []checkResult{c.checkDatabase(ctx)}
	results = append(results, c.checkGenerator(ctx)...)

	totalErrors := 0
	totalWarnings := 0
	for _, r := range results {
		fmt.Fprintf(out, "  %s %-12s %s\n", getStatusIcon(r.status), r.id, r.message)

		switch r.status {
		case checkStatusError:
			totalErrors++
		case checkStatusWarning:
			totalWarnings++
		}
	}

	// Summary
	fmt.Fprintln(out)
	if totalErrors == 0 && totalWarnings == 0 {
		fmt.Fprintln(out, "All checks passed!")
	} else {
		var summary []string
		if totalErrors > 0 {
			summary = append(summary, fmt.Sprintf("%d error(s)", totalErrors))
		}
		if totalWarnings > 0 {
			summary = append(summary, fmt.Sprintf("%d warning(s)", totalWarnings))
		}
		fmt.Fprintln(out, strings.Join(summary, ", "))
	}

	if totalErrors > 0 {
		return fmt.Errorf("preflight checks failed with %d error(s)", totalErrors)
	}

	return nil
}

func (c DoctorCommand) checkDatabase(ctx context.Context) checkResult {
	repo, err := c.rootCmd.newRepository(ctx)
	if err != nil {
		return checkResult{id: "database", status: checkStatusError, message: err.Error()}
	}
	defer closeRepository(repo, c.rootCmd.Logger)

	version, err := repo.SchemaVersion(ctx)
	if err != nil {
		return checkResult{id: "database", status: checkStatusError, message: err.Error()}
	}

	return checkResult{
		id:      "database",
		status:  checkStatusOK,
		message: fmt.Sprintf("%s (schema v%d)", c.rootCmd.DBPath, version),
	}
}

func (c DoctorCommand) checkGenerator(ctx context.Context) []checkResult {
	if c.rootCmd.Generator == GeneratorFake {
		return []checkResult{{id: "generator", status: checkStatusWarning, message: "using the offline fake generator"}}
	}

	if c.rootCmd.APIKey == "" {
		return []checkResult{{
			id:      "generator",
			status:  checkStatusError,
			message: fmt.Sprintf("gemini api key is missing, set the %s environment variable", conventions.APIKeyEnvVar),
		}}
	}

	pipeline, err := c.rootCmd.newPipeline(ctx)
	if err != nil {
		return []checkResult{{id: "generator", status: checkStatusError, message: err.Error()}}
	}
	results := []checkResult{{id: "generator", status: checkStatusOK, message: "gemini model " + c.rootCmd.Model}}

	if !c.ping {
		return results
	}

	name, err := pipeline.GenerateProjectName(ctx, "A tool to check that a command line application is healthy")
	if err != nil {
		return append(results, checkResult{id: "ping", status: checkStatusError, message: err.Error()})
	}

	return append(results, checkResult{id: "ping", status: checkStatusOK, message: fmt.Sprintf("generated %q", name)})
}

func getStatusIcon(status checkStatus) string {
	switch status {
	case checkStatusOK:
		return "OK"
	case checkStatusWarning:
		return "!!"
	case checkStatusError:
		return "XX"
	default:
		return "??"
	}
}
