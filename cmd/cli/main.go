package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-git/go-billy/v5/osfs"

	"github.com/vk/fortmake/internal/app"
	"github.com/vk/fortmake/internal/cli"
	"github.com/vk/fortmake/internal/hcl"
)

// main is the entrypoint for the fortmake application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	// Ctrl-C cancels the context, which unwinds watch mode and any running
	// toolchain action.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The real main function handles errors and exit codes.
	if err := run(ctx, os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error
// handling.
func run(ctx context.Context, outW, errW io.Writer, args []string) error {
	appConfig, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	// Root all filesystem access at the project directory so -C works
	// without changing the process working directory.
	fs := osfs.New(appConfig.ProjectDir)
	loader := hcl.NewLoader(fs)
	fortmakeApp := app.NewApp(outW, errW, appConfig, fs, loader)

	return fortmakeApp.Run(ctx)
}
