package toolchain

import (
	"strings"

	"github.com/vk/fortmake/internal/config"
)

// Action is a single external toolchain invocation: a command, its fully
// expanded arguments, and the artifact it produces.
type Action struct {
	// Command is the toolchain program to invoke.
	Command string
	// Args are the command arguments in order.
	Args []string
	// Output is the artifact path the action writes.
	Output string
}

// String renders the action the way a shell would receive it.
func (a Action) String() string {
	return strings.Join(append([]string{a.Command}, a.Args...), " ")
}

// Compile returns the action that compiles a single source into an object
// artifact: `compiler <toolchain flags> <target flags> -c source -o object`.
func Compile(tc config.Toolchain, source, object string, targetFlags []string) Action {
	args := make([]string, 0, len(tc.Flags)+len(targetFlags)+4)
	args = append(args, tc.Flags...)
	args = append(args, targetFlags...)
	args = append(args, "-c", source, "-o", object)
	return Action{Command: tc.Compiler, Args: args, Output: object}
}

// Link returns the action that links object artifacts into an executable:
// `compiler <toolchain flags> <target flags> objects... -o output`.
func Link(tc config.Toolchain, objects []string, output string, targetFlags []string) Action {
	args := make([]string, 0, len(tc.Flags)+len(targetFlags)+len(objects)+2)
	args = append(args, tc.Flags...)
	args = append(args, targetFlags...)
	args = append(args, objects...)
	args = append(args, "-o", output)
	return Action{Command: tc.Compiler, Args: args, Output: output}
}
