package system

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/fortmake/internal/app"
	"github.com/vk/fortmake/internal/testutil"
)

const selectionManifest = `
compiler = "./fakefc"
flags    = ["-O2"]

executable "efficient" {
  objects = ["efficient.o"]
}

executable "inefficient" {
  objects = ["inefficient.o"]
}
`

func newSelectionProject(t *testing.T) string {
	t.Helper()

	dir := testutil.NewProject(t, map[string]string{
		"build.hcl":       selectionManifest,
		"efficient.f90":   "program efficient\nend program\n",
		"inefficient.f90": "program inefficient\nend program\n",
	})
	testutil.StubCompiler(t, dir)
	return dir
}

// TestTargetSelection_SingleExecutable verifies that naming one executable
// builds only its chain.
func TestTargetSelection_SingleExecutable(t *testing.T) {
	// --- Arrange ---
	dir := newSelectionProject(t)

	// --- Act ---
	result := testutil.RunCommand(t, dir, app.Config{
		Command: app.CommandBuild,
		Targets: []string{"efficient"},
	})

	// --- Assert ---
	require.NoError(t, result.Err)

	invocations := testutil.CompilerLog(t, dir)
	require.Len(t, invocations, 2)
	assert.Equal(t, "fakefc -O2 -c efficient.f90 -o efficient.o", invocations[0])
	assert.Equal(t, "fakefc -O2 efficient.o -o efficient", invocations[1])

	_, err := os.Stat(filepath.Join(dir, "inefficient.o"))
	assert.True(t, os.IsNotExist(err), "unrequested target must not be built")
}

// TestTargetSelection_DirectObject verifies an object can be requested on its
// own without linking anything.
func TestTargetSelection_DirectObject(t *testing.T) {
	// --- Arrange ---
	dir := newSelectionProject(t)

	// --- Act ---
	result := testutil.RunCommand(t, dir, app.Config{
		Command: app.CommandBuild,
		Targets: []string{"inefficient.o"},
	})

	// --- Assert ---
	require.NoError(t, result.Err)

	invocations := testutil.CompilerLog(t, dir)
	require.Len(t, invocations, 1)
	assert.Equal(t, "fakefc -O2 -c inefficient.f90 -o inefficient.o", invocations[0])
}

// TestTargetSelection_MixedTargets verifies a request can combine executables
// and objects without duplicating shared work.
func TestTargetSelection_MixedTargets(t *testing.T) {
	// --- Arrange ---
	dir := newSelectionProject(t)

	// --- Act ---
	result := testutil.RunCommand(t, dir, app.Config{
		Command: app.CommandBuild,
		Targets: []string{"efficient.o", "efficient"},
	})

	// --- Assert ---
	require.NoError(t, result.Err)

	invocations := testutil.CompilerLog(t, dir)
	require.Len(t, invocations, 2, "the object requested twice must compile once")
	assert.Equal(t, "fakefc -O2 -c efficient.f90 -o efficient.o", invocations[0])
	assert.Equal(t, "fakefc -O2 efficient.o -o efficient", invocations[1])
}
