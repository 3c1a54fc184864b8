package dag

import (
	"context"
	"fmt"
	"strings"

	"github.com/vk/fortmake/internal/config"
	"github.com/vk/fortmake/internal/ctxlog"
)

// sourceFor derives the conventional compilation unit for an object
// artifact: NAME.o is built from NAME.f90.
func sourceFor(objectName string) string {
	return strings.TrimSuffix(objectName, ".o") + ".f90"
}

// Build constructs a complete, validated dependency graph from a recipe.
func Build(ctx context.Context, recipe *config.Recipe) (*Graph, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Build: Starting graph construction.")
	graph := New()

	// First pass: create nodes for every declared and derived target.
	createNodes(ctx, recipe, graph)
	logger.Debug("Build: Node creation complete.", "node_count", graph.Len())

	// Second pass: link dependencies, creating leaf source nodes on demand.
	if err := linkNodes(ctx, graph); err != nil {
		return nil, err
	}
	logger.Debug("Build: Node linking complete.")

	if err := graph.DetectCycles(); err != nil {
		return nil, fmt.Errorf("error validating dependency graph: %w", err)
	}
	logger.Debug("Build: Cycle detection passed.")

	return graph, nil
}

// createNodes performs the first pass of graph creation: one node per
// declared object and executable, plus derived object nodes for executable
// inputs that have no declaration of their own.
func createNodes(ctx context.Context, recipe *config.Recipe, graph *Graph) {
	logger := ctxlog.FromContext(ctx)

	for _, obj := range recipe.Objects {
		source := obj.Source
		if source == "" {
			source = sourceFor(obj.Name)
		}
		graph.AddNode(&Node{
			ID:       obj.Name,
			Kind:     ObjectKind,
			Artifact: obj.Name,
			Inputs:   []string{source},
			Flags:    obj.Flags,
		})
	}

	for _, exe := range recipe.Executables {
		artifact := exe.Output
		if artifact == "" {
			artifact = exe.Name
		}
		graph.AddNode(&Node{
			ID:       exe.Name,
			Kind:     ExecutableKind,
			Artifact: artifact,
			Inputs:   exe.Objects,
			Flags:    exe.Flags,
		})
		for _, obj := range exe.Objects {
			if _, exists := graph.Node(obj); exists {
				continue
			}
			logger.Debug("Deriving object target from naming convention.", "object", obj)
			graph.AddNode(&Node{
				ID:       obj,
				Kind:     ObjectKind,
				Artifact: obj,
				Inputs:   []string{sourceFor(obj)},
			})
		}
	}
}

// linkNodes performs the second pass, establishing dependency links. An
// input that matches another target becomes an edge to that target; any
// other input becomes a leaf source node.
func linkNodes(ctx context.Context, graph *Graph) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Starting node linking pass.")

	for _, node := range graph.Buildable() {
		for _, input := range node.Inputs {
			if _, exists := graph.Node(input); !exists {
				graph.AddNode(&Node{ID: input, Kind: SourceKind})
			}
			if err := graph.AddEdge(input, node.ID); err != nil {
				return err
			}
		}
	}

	logger.Debug("Finished node linking pass.")
	return nil
}
