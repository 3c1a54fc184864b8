package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/fortmake/internal/app"
	"github.com/vk/fortmake/internal/testutil"
)

// TestManifestErrors verifies malformed manifests fail loading with messages
// that name the problem, and that no toolchain action ever runs.
func TestManifestErrors(t *testing.T) {
	testCases := []struct {
		name     string
		manifest string
		wantMsg  string
	}{
		{
			name:     "syntax error",
			manifest: `executable "efficient" {`,
			wantMsg:  "failed to parse manifest",
		},
		{
			name: "unknown block type",
			manifest: `
library "efficient" {
  objects = ["efficient.o"]
}
`,
			wantMsg: "failed to decode manifest",
		},
		{
			name: "executable without objects",
			manifest: `
executable "efficient" {
  objects = []
}
`,
			wantMsg: "at least one entry",
		},
		{
			name: "duplicate targets",
			manifest: `
executable "efficient" {
  objects = ["efficient.o"]
}

executable "efficient" {
  objects = ["efficient.o"]
}
`,
			wantMsg: "duplicate target",
		},
		{
			name: "reserved executable name",
			manifest: `
executable "clean" {
  objects = ["clean_util.o"]
}
`,
			wantMsg: "name is reserved",
		},
		{
			name: "cycle between chained objects",
			manifest: `
executable "efficient" {
  objects = ["first.o"]
}

object "first.o" {
  source = "second.o"
}

object "second.o" {
  source = "first.o"
}
`,
			wantMsg: "cycle detected",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// --- Arrange ---
			dir := testutil.NewProject(t, map[string]string{
				"build.hcl":     tc.manifest,
				"efficient.f90": "program efficient\nend program\n",
			})
			testutil.StubCompiler(t, dir)

			// --- Act ---
			result := testutil.RunCommand(t, dir, app.Config{Command: app.CommandBuild})

			// --- Assert ---
			require.Error(t, result.Err)
			assert.Contains(t, result.Err.Error(), tc.wantMsg)
			assert.Empty(t, testutil.CompilerLog(t, dir))
		})
	}
}
