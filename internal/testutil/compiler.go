package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// StubCompilerName is how manifests reference the stub compiler script.
// The leading ./ keeps resolution relative to the project directory instead
// of PATH.
const StubCompilerName = "./fakefc"

// CompilerLogName is the file the stub appends one line per invocation to.
const CompilerLogName = "fakefc.log"

// stubScriptTemplate mimics just enough of a Fortran compiler for the
// executor: it records the invocation and writes the artifact named by -o.
// The %s slot holds an optional failure hook.
const stubScriptTemplate = `#!/bin/sh
echo "fakefc $*" >> fakefc.log
out=""
grab=""
for arg in "$@"; do
	if [ "$grab" = "1" ]; then
		out="$arg"
		grab=""
		continue
	fi
	[ "$arg" = "-o" ] && grab="1"
done
%s
if [ -n "$out" ]; then
	echo "artifact $out" > "$out"
fi
exit 0
`

// StubCompiler installs a stub compiler script into the project directory.
// Every invocation succeeds.
func StubCompiler(t *testing.T, dir string) {
	t.Helper()
	writeStub(t, dir, "")
}

// StubCompilerFailingOn installs a stub compiler that fails any invocation
// producing the given output, mimicking a source file that does not compile.
func StubCompilerFailingOn(t *testing.T, dir, output string) {
	t.Helper()
	hook := fmt.Sprintf(`if [ "$out" = %q ]; then
	echo "fakefc: Error: cannot produce $out" >&2
	exit 1
fi`, output)
	writeStub(t, dir, hook)
}

func writeStub(t *testing.T, dir, failHook string) {
	t.Helper()
	script := fmt.Sprintf(stubScriptTemplate, failHook)
	path := filepath.Join(dir, filepath.Base(StubCompilerName))
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
}

// CompilerLog returns the invocation lines recorded by the stub compiler, or
// nil when it never ran.
func CompilerLog(t *testing.T, dir string) []string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, CompilerLogName))
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	return PlanLines(string(data))
}

// ResetCompilerLog clears the recorded invocations between test phases.
func ResetCompilerLog(t *testing.T, dir string) {
	t.Helper()
	err := os.Remove(filepath.Join(dir, CompilerLogName))
	if err != nil && !os.IsNotExist(err) {
		require.NoError(t, err)
	}
}
