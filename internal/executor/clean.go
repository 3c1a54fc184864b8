package executor

import (
	"context"
	"fmt"
	"os"

	"github.com/vk/fortmake/internal/ctxlog"
	"github.com/vk/fortmake/internal/dag"
	"github.com/vk/fortmake/internal/fsutil"
)

// moduleExtensions are the compiler-generated module interface files swept
// up by clean alongside the declared artifacts.
var moduleExtensions = []string{".mod", ".smod"}

// Clean removes every artifact the graph can produce plus the module
// interface files the compiler drops next to objects. Absent files are
// treated as already clean, so repeated cleans always succeed.
func (e *Executor) Clean(ctx context.Context, graph *dag.Graph) error {
	logger := ctxlog.FromContext(ctx)

	candidates := make([]string, 0, graph.Len())
	for _, node := range graph.Buildable() {
		candidates = append(candidates, node.Artifact)
	}
	for _, ext := range moduleExtensions {
		found, err := fsutil.FindFilesByExtension(e.fs, ".", ext)
		if err != nil {
			return fmt.Errorf("failed to scan for %s files: %w", ext, err)
		}
		candidates = append(candidates, found...)
	}

	removed := 0
	for _, path := range candidates {
		if e.dryRun {
			fmt.Fprintln(e.out, "rm -f "+path)
			continue
		}
		ok, err := e.removeArtifact(path)
		if err != nil {
			return err
		}
		if ok {
			logger.Debug("Removed artifact.", "path", path)
			removed++
		}
	}

	logger.Info("Clean finished.", "removed", removed)
	return nil
}

// removeArtifact deletes a generated file, treating absence as success.
func (e *Executor) removeArtifact(path string) (bool, error) {
	if err := e.fs.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return true, nil
}
