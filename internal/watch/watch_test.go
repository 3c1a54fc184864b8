package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func waitFor(t *testing.T, ch <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
	}
}

func TestWatcher_RebuildsOnSourceChange(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	source := filepath.Join(dir, "efficient.f90")
	require.NoError(t, os.WriteFile(source, []byte("program demo\nend program demo\n"), 0o644))

	rebuilds := make(chan struct{}, 16)
	w, err := New(dir, "build.hcl", func(ctx context.Context) error {
		rebuilds <- struct{}{}
		return nil
	}, WithDebounce(50*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Act & Assert: the initial build fires unconditionally.
	waitFor(t, rebuilds, "the initial build")

	// A source edit triggers a rebuild once the debounce window settles.
	require.NoError(t, os.WriteFile(source, []byte("program demo2\nend program demo2\n"), 0o644))
	waitFor(t, rebuilds, "the rebuild after a source change")

	cancel()
	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop after cancellation")
	}
}

func TestWatcher_IgnoresArtifactChurn(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	rebuilds := make(chan struct{}, 16)
	w, err := New(dir, "build.hcl", func(ctx context.Context) error {
		rebuilds <- struct{}{}
		return nil
	}, WithDebounce(50*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	waitFor(t, rebuilds, "the initial build")

	// Act: artifacts appearing must not schedule a rebuild.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "efficient.o"), []byte("obj"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "efficient"), []byte("bin"), 0o755))

	// Assert
	select {
	case <-rebuilds:
		t.Fatal("artifact churn must not trigger a rebuild")
	case <-time.After(300 * time.Millisecond):
	}

	cancel()
	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop after cancellation")
	}
}

func TestWatcher_KeepsWatchingAfterFailedRebuild(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	source := filepath.Join(dir, "broken.f90")
	require.NoError(t, os.WriteFile(source, []byte("program broken\n"), 0o644))

	calls := make(chan struct{}, 16)
	w, err := New(dir, "build.hcl", func(ctx context.Context) error {
		calls <- struct{}{}
		return os.ErrInvalid // every cycle fails
	}, WithDebounce(50*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	waitFor(t, calls, "the initial build")

	// Act: the failure must not stop the loop; the next edit rebuilds.
	require.NoError(t, os.WriteFile(source, []byte("program broken2\n"), 0o644))

	// Assert
	waitFor(t, calls, "the rebuild after the failed cycle")

	cancel()
	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop after cancellation")
	}
}
