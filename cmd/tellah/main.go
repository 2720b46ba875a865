package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"github.com/oklog/run"
	"github.com/sirupsen/logrus"

	"github.com/slok/tellah/cmd/tellah/commands"
	"github.com/slok/tellah/internal/conventions"
	"github.com/slok/tellah/internal/log"
	loglogrus "github.com/slok/tellah/internal/log/logrus"
	"github.com/slok/tellah/internal/utils/env"
)

const (
	// Version is the application version (set via ldflags).
	Version = "dev"
)

// Run runs the main application.
func Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) (err error) {
	// Dotenv files are loaded before parsing so flags can be set from them.
	envFile, required := envFileFromArgs(args[1:])
	envLoaded, err := env.LoadFile(envFile, required)
	if err != nil {
		return err
	}

	app := kingpin.New("tellah", "AI assisted project and task tracking tool.")
	app.DefaultEnvars()
	rootCmd := commands.NewRootCommand(app)

	// Setup commands (registers flags).
	projectCmd := commands.NewProjectCommand(app)
	projectCreateCmd := commands.NewProjectCreateCommand(rootCmd, projectCmd)
	projectListCmd := commands.NewProjectListCommand(rootCmd, projectCmd)
	projectStatusCmd := commands.NewProjectStatusCommand(rootCmd, projectCmd)
	projectRemoveCmd := commands.NewProjectRemoveCommand(rootCmd, projectCmd)
	projectImportCmd := commands.NewProjectImportCommand(rootCmd, projectCmd)

	taskCmd := commands.NewTaskCommand(app)
	taskAddCmd := commands.NewTaskAddCommand(rootCmd, taskCmd)
	taskBreakdownCmd := commands.NewTaskBreakdownCommand(rootCmd, taskCmd)
	taskEstimateCmd := commands.NewTaskEstimateCommand(rootCmd, taskCmd)
	taskNextCmd := commands.NewTaskNextCommand(rootCmd, taskCmd)
	taskStatusCmd := commands.NewTaskStatusCommand(rootCmd, taskCmd)

	reportCmd := commands.NewReportCommand(rootCmd, app)
	doctorCmd := commands.NewDoctorCommand(rootCmd, app)

	cmds := map[string]commands.Command{
		projectCreateCmd.Name(): projectCreateCmd,
		projectListCmd.Name():   projectListCmd,
		projectStatusCmd.Name(): projectStatusCmd,
		projectRemoveCmd.Name(): projectRemoveCmd,
		projectImportCmd.Name(): projectImportCmd,
		taskAddCmd.Name():       taskAddCmd,
		taskBreakdownCmd.Name(): taskBreakdownCmd,
		taskEstimateCmd.Name():  taskEstimateCmd,
		taskNextCmd.Name():      taskNextCmd,
		taskStatusCmd.Name():    taskStatusCmd,
		reportCmd.Name():        reportCmd,
		doctorCmd.Name():        doctorCmd,
	}

	// Parse command.
	cmdName, err := app.Parse(args[1:])
	if err != nil {
		return fmt.Errorf("invalid command configuration: %w", err)
	}

	// Set standard input/output.
	rootCmd.Stdin = stdin
	rootCmd.Stdout = stdout
	rootCmd.Stderr = stderr

	// Commands that print tables or JSON don't log unless debugging,
	// so logs don't get mixed with the printed output.
	printerCommands := map[string]bool{
		"project list":   true,
		"project status": true,
		"report":         true,
		"doctor":         true,
	}
	if printerCommands[cmdName] && !rootCmd.Debug {
		rootCmd.NoLog = true
	}

	// Set logger.
	rootCmd.Logger = getLogger(ctx, *rootCmd)
	if envLoaded {
		rootCmd.Logger.Debugf("Environment loaded from %s", envFile)
	}

	var g run.Group

	// OS signals.
	{
		signalCtx, signalCancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
		defer signalCancel()

		g.Add(
			func() error {
				<-signalCtx.Done()
				rootCmd.Logger.Debugf("Termination signal received")
				return nil
			},
			func(_ error) {
				signalCancel()
			},
		)
	}

	// Execute command.
	{
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		g.Add(
			func() error {
				err := cmds[cmdName].Run(ctx)
				if err != nil {
					return fmt.Errorf("%q command failed: %w", cmdName, err)
				}
				return nil
			},
			func(_ error) {
				cancel()
			},
		)
	}

	return g.Run()
}

// envFileFromArgs returns the dotenv file to load and if it must exist, a file
// set explicitly (by flag or env var) is required, the default one is optional.
func envFileFromArgs(args []string) (path string, required bool) {
	for i, arg := range args {
		if arg == "--" {
			break
		}
		if v, ok := strings.CutPrefix(arg, "--env-file="); ok {
			return v, true
		}
		if arg == "--env-file" && i+1 < len(args) {
			return args[i+1], true
		}
	}

	if v := os.Getenv(conventions.EnvVarPrefix + "_ENV_FILE"); v != "" {
		return v, true
	}

	return conventions.EnvFile, false
}

// getLogger returns the application logger.
func getLogger(ctx context.Context, config commands.RootCommand) log.Logger {
	if config.NoLog {
		return log.Noop
	}

	// If logger not disabled use logrus logger.
	logrusLog := logrus.New()
	logrusLog.Out = config.Stderr // Logs go to stderr so stdout only has the command output.
	logrusLogEntry := logrus.NewEntry(logrusLog)

	if config.Debug {
		logrusLogEntry.Logger.SetLevel(logrus.DebugLevel)
	}

	// Log format.
	switch config.LoggerType {
	case commands.LoggerTypeDefault:
		logrusLogEntry.Logger.SetFormatter(&logrus.TextFormatter{
			ForceColors:   !config.NoColor,
			DisableColors: config.NoColor,
		})
	case commands.LoggerTypeJSON:
		logrusLogEntry.Logger.SetFormatter(&logrus.JSONFormatter{})
	}

	logger := loglogrus.NewLogrus(logrusLogEntry).WithValues(log.Kv{
		"version": Version,
	})

	logger.Debugf("Debug level is enabled") // Will log only when debug enabled.

	return logger
}

func main() {
	ctx := context.Background()
	err := Run(ctx, os.Args, os.Stdin, os.Stdout, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
