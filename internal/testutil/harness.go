package testutil

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/stretchr/testify/require"

	"github.com/vk/fortmake/internal/app"
	"github.com/vk/fortmake/internal/hcl"
)

// SafeBuffer is a thread-safe buffer for capturing output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcomes of one command run against a project.
type HarnessResult struct {
	Stdout    string
	LogOutput string
	Err       error
}

// NewProject materializes a throwaway project directory from a map of
// relative paths to file contents and returns its path.
func NewProject(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

// RunCommand runs one application command against the project directory
// using a default background context.
func RunCommand(t *testing.T, dir string, cfg app.Config) *HarnessResult {
	t.Helper()
	return RunCommandWithContext(context.Background(), t, dir, cfg)
}

// RunCommandWithContext runs one application command against the project
// directory with a caller-provided context. The config's ProjectDir is forced
// to dir; logging defaults to debug so failures carry context.
func RunCommandWithContext(ctx context.Context, t *testing.T, dir string, cfg app.Config) *HarnessResult {
	t.Helper()

	cfg.ProjectDir = dir
	if cfg.LogLevel == "" {
		cfg.LogLevel = "debug"
	}
	conf, err := app.NewConfig(cfg)
	require.NoError(t, err)

	stdout := &SafeBuffer{}
	logBuffer := &SafeBuffer{}

	fs := osfs.New(dir)
	application := app.NewApp(stdout, logBuffer, conf, fs, hcl.NewLoader(fs))
	runErr := application.Run(ctx)

	if os.Getenv("FORTMAKE_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
	}

	return &HarnessResult{
		Stdout:    stdout.String(),
		LogOutput: logBuffer.String(),
		Err:       runErr,
	}
}

// Touch sets the modification time of a project file.
func Touch(t *testing.T, dir, name string, mtime time.Time) {
	t.Helper()
	require.NoError(t, os.Chtimes(filepath.Join(dir, name), mtime, mtime))
}

// RemoveFile deletes a project file that must exist.
func RemoveFile(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.Remove(filepath.Join(dir, name)))
}

// PlanLines splits a dry-run plan into its individual action lines.
func PlanLines(plan string) []string {
	trimmed := strings.TrimSpace(plan)
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "\n")
}
