package system

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vk/fortmake/internal/testutil"
)

// twoProgramManifest mirrors the canonical project: two executables, each
// linked from a single object.
const twoProgramManifest = `
compiler = "./fakefc"
flags    = ["-O2"]

executable "efficient" {
  objects = ["efficient.o"]
}

executable "inefficient" {
  objects = ["inefficient.o"]
}

object "efficient.o" {
  source = "efficient.f90"
}

object "inefficient.o" {
  source = "inefficient.f90"
}
`

// newTwoProgramProject materializes the canonical project with a stub
// compiler installed.
func newTwoProgramProject(t *testing.T) string {
	t.Helper()

	dir := testutil.NewProject(t, map[string]string{
		"build.hcl":       twoProgramManifest,
		"efficient.f90":   "program efficient\nend program\n",
		"inefficient.f90": "program inefficient\nend program\n",
	})
	testutil.StubCompiler(t, dir)
	return dir
}

// settleTimes pins sources at base and artifacts a minute later so a freshly
// built project reads as up to date regardless of filesystem timestamp
// granularity.
func settleTimes(t *testing.T, dir string, base time.Time, sources, artifacts []string) {
	t.Helper()

	for _, name := range sources {
		testutil.Touch(t, dir, name, base)
	}
	for _, name := range artifacts {
		testutil.Touch(t, dir, name, base.Add(time.Minute))
	}
}

func requireExists(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		_, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err, "expected %s to exist", name)
	}
}

func requireAbsent(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		_, err := os.Stat(filepath.Join(dir, name))
		require.True(t, os.IsNotExist(err), "expected %s to be absent", name)
	}
}
