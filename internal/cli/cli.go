package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/fortmake/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("fortmake", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
fortmake - An incremental build orchestrator for Fortran projects.

Usage:
  fortmake [options] [TARGET ...]
  fortmake [options] clean
  fortmake [options] init

Arguments:
  TARGET
    Executable or object names declared in the manifest. The name 'all'
    stands for every declared executable and is the default when no
    target is given.

Commands:
  clean   Remove every artifact the manifest can produce.
  init    Generate a starter manifest from the Fortran sources on disk.

Options:
`)
		flagSet.PrintDefaults()
	}

	fileFlag := flagSet.String("file", "", "Path to the build manifest. Defaults to build.hcl.")
	fFlag := flagSet.String("f", "", "Path to the build manifest (shorthand).")
	chdirFlag := flagSet.String("chdir", "", "Run as if started in this directory.")
	cFlag := flagSet.String("C", "", "Run as if started in this directory (shorthand).")
	dryRunFlag := flagSet.Bool("dry-run", false, "Print the actions a command would run without executing them.")
	watchFlag := flagSet.Bool("watch", false, "Rebuild whenever a source file or the manifest changes.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	manifestPath := ""
	if *fileFlag != "" {
		manifestPath = *fileFlag
	} else if *fFlag != "" {
		manifestPath = *fFlag
	}

	projectDir := ""
	if *chdirFlag != "" {
		projectDir = *chdirFlag
	} else if *cFlag != "" {
		projectDir = *cFlag
	}
	slog.Debug("Paths determined.", "manifest", manifestPath, "project_dir", projectDir)

	// The first positional argument selects the command when it names one;
	// otherwise every positional argument is a build target.
	command := app.CommandBuild
	var targets []string
	if rest := flagSet.Args(); len(rest) > 0 {
		switch rest[0] {
		case app.CommandClean, app.CommandInit:
			command = rest[0]
			if len(rest) > 1 {
				msg := fmt.Sprintf("command %q takes no further arguments", command)
				return nil, false, &ExitError{Code: 2, Message: msg}
			}
		default:
			targets = rest
		}
	}
	slog.Debug("Command determined.", "command", command, "targets", targets)

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		Command:      command,
		Targets:      targets,
		ManifestPath: manifestPath,
		ProjectDir:   projectDir,
		DryRun:       *dryRunFlag,
		Watch:        *watchFlag,
		LogFormat:    logFormat,
		LogLevel:     logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
