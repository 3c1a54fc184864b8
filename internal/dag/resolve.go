package dag

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/vk/fortmake/internal/ctxlog"
)

// AggregateAll is the builtin aggregate target. It expands to every
// declared executable in declaration order.
const AggregateAll = "all"

// UnresolvedTargetError reports a requested or dependency target with no
// matching rule and no existing source file.
type UnresolvedTargetError struct {
	// Target is the name that could not be resolved.
	Target string
	// NeededBy is the dependent that required the target. Empty for a
	// direct request.
	NeededBy string
}

func (e *UnresolvedTargetError) Error() string {
	if e.NeededBy != "" {
		return fmt.Sprintf("no rule to build target %q, needed by %q", e.Target, e.NeededBy)
	}
	return fmt.Sprintf("no rule to build target %q", e.Target)
}

// Resolve expands the requested target names into an ordered build plan
// where every dependency precedes its dependents. An empty request defaults
// to the `all` aggregate. Unknown object names are derived on demand from
// the naming convention, and leaf sources are checked for existence on the
// given filesystem.
func Resolve(ctx context.Context, graph *Graph, fs billy.Filesystem, names []string) ([]*Node, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Resolving build plan.", "targets", names)

	var plan []*Node
	visited := make(map[string]bool)

	var visit func(id, neededBy string) error
	visit = func(id, neededBy string) error {
		if visited[id] {
			return nil
		}
		visited[id] = true

		node, exists := graph.Node(id)
		if !exists {
			node, exists = derive(graph, id)
			if !exists {
				return &UnresolvedTargetError{Target: id, NeededBy: neededBy}
			}
		}

		if node.Kind == SourceKind {
			if _, err := fs.Stat(node.ID); err != nil {
				if os.IsNotExist(err) {
					return &UnresolvedTargetError{Target: node.ID, NeededBy: neededBy}
				}
				return fmt.Errorf("failed to stat source %s: %w", node.ID, err)
			}
			return nil
		}

		for _, input := range node.Inputs {
			if err := visit(input, id); err != nil {
				return err
			}
		}

		plan = append(plan, node)
		return nil
	}

	for _, name := range expandAggregates(graph, names) {
		if err := visit(name, ""); err != nil {
			return nil, err
		}
	}

	logger.Debug("Build plan resolved.", "step_count", len(plan))
	return plan, nil
}

// derive creates a pattern-derived object node for an undeclared NAME.o
// request, together with its source leaf and dependency edge.
func derive(graph *Graph, id string) (*Node, bool) {
	if !strings.HasSuffix(id, ".o") {
		return nil, false
	}

	source := sourceFor(id)
	node := &Node{
		ID:       id,
		Kind:     ObjectKind,
		Artifact: id,
		Inputs:   []string{source},
	}
	graph.AddNode(node)
	if _, exists := graph.Node(source); !exists {
		graph.AddNode(&Node{ID: source, Kind: SourceKind})
	}
	if err := graph.AddEdge(source, id); err != nil {
		return nil, false
	}
	return node, true
}

// expandAggregates replaces the builtin `all` aggregate with the declared
// executables, preserving request order, and defaults an empty request to
// the aggregate itself.
func expandAggregates(graph *Graph, names []string) []string {
	if len(names) == 0 {
		names = []string{AggregateAll}
	}

	var out []string
	for _, name := range names {
		if name != AggregateAll {
			out = append(out, name)
			continue
		}
		for _, exe := range graph.Executables() {
			out = append(out, exe.ID)
		}
	}
	return out
}
