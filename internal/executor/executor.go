package executor

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/go-git/go-billy/v5"
	"github.com/vk/fortmake/internal/config"
	"github.com/vk/fortmake/internal/ctxlog"
	"github.com/vk/fortmake/internal/dag"
	"github.com/vk/fortmake/internal/toolchain"
)

// ActionRunner executes a single toolchain action. It is satisfied by
// toolchain.Runner and by fakes in tests.
type ActionRunner interface {
	Run(ctx context.Context, action toolchain.Action) error
}

// Executor walks a resolved build plan sequentially, regenerating exactly
// the targets whose artifacts are stale.
type Executor struct {
	fs     billy.Filesystem
	runner ActionRunner
	tc     config.Toolchain
	dryRun bool
	out    io.Writer
}

// Option configures the executor.
type Option func(*Executor)

// WithDryRun makes the executor print the actions a build would run
// instead of executing them.
func WithDryRun() Option {
	return func(e *Executor) {
		e.dryRun = true
	}
}

// WithPlanWriter redirects where dry-run actions are printed.
func WithPlanWriter(w io.Writer) Option {
	return func(e *Executor) {
		e.out = w
	}
}

// New creates an executor over the given filesystem and action runner.
func New(fs billy.Filesystem, runner ActionRunner, tc config.Toolchain, opts ...Option) *Executor {
	e := &Executor{
		fs:     fs,
		runner: runner,
		tc:     tc,
		out:    os.Stdout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes the plan one target at a time, in order. Fresh targets are
// skipped; the first failed action aborts the run and leaves earlier
// artifacts in place.
func (e *Executor) Run(ctx context.Context, graph *dag.Graph, plan []*dag.Node) error {
	logger := ctxlog.FromContext(ctx)

	// rebuilt tracks targets regenerated during this run, so dependents
	// rebuild even when filesystem timestamps are too coarse to show the
	// change. Dry runs rely on it to cascade would-be rebuilds.
	rebuilt := make(map[string]bool)

	for _, node := range plan {
		if err := ctx.Err(); err != nil {
			return err
		}

		stale, reason, err := e.stale(node, graph, rebuilt)
		if err != nil {
			return err
		}
		if !stale {
			logger.Debug("Target is fresh, skipping.", "target", node.ID)
			continue
		}

		action, err := e.actionFor(node, graph)
		if err != nil {
			return err
		}

		if e.dryRun {
			fmt.Fprintln(e.out, action.String())
			rebuilt[node.ID] = true
			continue
		}

		logger.Info("Building target.", "target", node.ID, "kind", node.Kind.String(), "reason", reason)
		if err := e.runner.Run(ctx, action); err != nil {
			return fmt.Errorf("building target %s: %w", node.ID, err)
		}
		rebuilt[node.ID] = true
	}

	if len(rebuilt) == 0 {
		logger.Info("Nothing to do, all targets are up to date.", "plan_size", len(plan))
	} else {
		logger.Info("Build finished.", "targets_built", len(rebuilt))
	}
	return nil
}

// stale reports whether the node's artifact must be regenerated: it is
// missing, an input was rebuilt during this run, or an input's timestamp is
// strictly later than the artifact's. Equal timestamps mean fresh.
func (e *Executor) stale(node *dag.Node, graph *dag.Graph, rebuilt map[string]bool) (bool, string, error) {
	artifact, err := e.fs.Stat(node.Artifact)
	if err != nil {
		if os.IsNotExist(err) {
			return true, "artifact missing", nil
		}
		return false, "", fmt.Errorf("failed to stat artifact %s: %w", node.Artifact, err)
	}

	for _, input := range node.Inputs {
		if rebuilt[input] {
			return true, fmt.Sprintf("input %s rebuilt", input), nil
		}

		path := input
		if inputNode, ok := graph.Node(input); ok {
			path = inputNode.Path()
		}
		info, err := e.fs.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				// A missing input artifact always forces a rebuild; the
				// resolver has already verified leaf sources exist.
				return true, fmt.Sprintf("input %s missing", path), nil
			}
			return false, "", fmt.Errorf("failed to stat input %s: %w", path, err)
		}
		if info.ModTime().After(artifact.ModTime()) {
			return true, fmt.Sprintf("input %s newer", path), nil
		}
	}

	return false, "", nil
}

// actionFor maps a buildable node onto its toolchain action, translating
// input IDs into on-disk paths.
func (e *Executor) actionFor(node *dag.Node, graph *dag.Graph) (toolchain.Action, error) {
	inputs := make([]string, len(node.Inputs))
	for i, id := range node.Inputs {
		inputs[i] = id
		if inputNode, ok := graph.Node(id); ok {
			inputs[i] = inputNode.Path()
		}
	}

	switch node.Kind {
	case dag.ObjectKind:
		return toolchain.Compile(e.tc, inputs[0], node.Artifact, node.Flags), nil
	case dag.ExecutableKind:
		return toolchain.Link(e.tc, inputs, node.Artifact, node.Flags), nil
	default:
		return toolchain.Action{}, fmt.Errorf("target %s has no action for kind %s", node.ID, node.Kind)
	}
}
