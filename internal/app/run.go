package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/vk/fortmake/internal/config"
	"github.com/vk/fortmake/internal/ctxlog"
	"github.com/vk/fortmake/internal/dag"
	"github.com/vk/fortmake/internal/executor"
	"github.com/vk/fortmake/internal/scaffold"
	"github.com/vk/fortmake/internal/toolchain"
	"github.com/vk/fortmake/internal/watch"
)

// Run executes the configured command.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "command", a.cfg.Command)

	switch a.cfg.Command {
	case CommandInit:
		return scaffold.Generate(ctx, a.fs, a.cfg.ManifestPath)
	case CommandClean:
		return a.clean(ctx)
	case CommandBuild:
		if a.cfg.Watch {
			return a.watch(ctx)
		}
		return a.build(ctx)
	default:
		return fmt.Errorf("unknown command %q", a.cfg.Command)
	}
}

// build loads the manifest and brings the requested targets up to date.
func (a *App) build(ctx context.Context) error {
	recipe, graph, err := a.loadGraph(ctx)
	if err != nil {
		return err
	}

	plan, err := dag.Resolve(ctx, graph, a.fs, a.cfg.Targets)
	if err != nil {
		return err
	}
	a.logger.Debug("Build plan resolved.", "target_count", len(plan))

	return a.newExecutor(recipe.Toolchain).Run(ctx, graph, plan)
}

// clean removes every artifact the manifest can produce, plus stray Fortran
// module files.
func (a *App) clean(ctx context.Context) error {
	recipe, graph, err := a.loadGraph(ctx)
	if err != nil {
		return err
	}
	return a.newExecutor(recipe.Toolchain).Clean(ctx, graph)
}

// watch runs an initial build, then rebuilds whenever a source file or the
// manifest changes, until ctx is canceled.
func (a *App) watch(ctx context.Context) error {
	w, err := watch.New(a.cfg.ProjectDir, filepath.Base(a.cfg.ManifestPath), a.build)
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	// Cancellation via Ctrl-C is the normal way to leave watch mode, not a
	// failure.
	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// loadGraph parses the manifest and assembles the target graph from it.
func (a *App) loadGraph(ctx context.Context) (*config.Recipe, *dag.Graph, error) {
	ctx = ctxlog.With(ctx, "manifest", a.cfg.ManifestPath)

	recipe, err := a.loader.Load(ctx, a.cfg.ManifestPath)
	if err != nil {
		return nil, nil, err
	}
	a.logger.Debug("Manifest loaded.",
		"executables", len(recipe.Executables), "objects", len(recipe.Objects))

	graph, err := dag.Build(ctx, recipe)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build dependency graph: %w", err)
	}
	a.logger.Debug("Dependency graph built.", "node_count", graph.Len())

	return recipe, graph, nil
}

// newExecutor wires an executor to the project directory and the configured
// output streams.
func (a *App) newExecutor(tc config.Toolchain) *executor.Executor {
	runner := toolchain.NewRunner(
		toolchain.WithWorkingDir(a.cfg.ProjectDir),
		toolchain.WithStdoutWriter(a.outW),
		toolchain.WithStderrWriter(a.errW),
	)

	opts := []executor.Option{executor.WithPlanWriter(a.outW)}
	if a.cfg.DryRun {
		opts = append(opts, executor.WithDryRun())
	}
	return executor.New(a.fs, runner, tc, opts...)
}
