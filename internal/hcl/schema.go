package hcl

import "github.com/hashicorp/hcl/v2"

// toolchainConfig captures only the top-level toolchain attributes. It is
// decoded first, without an evaluation context, so both attributes must be
// literal values.
type toolchainConfig struct {
	Compiler *string  `hcl:"compiler,optional"`
	Flags    []string `hcl:"flags,optional"`
	Remain   hcl.Body `hcl:",remain"`
}

// fileRoot represents the full manifest structure. Unlike toolchainConfig it
// carries no remain body, so unknown attributes and blocks are reported as
// decode errors.
type fileRoot struct {
	Compiler    *string            `hcl:"compiler,optional"`
	Flags       []string           `hcl:"flags,optional"`
	Executables []*ExecutableBlock `hcl:"executable,block"`
	Objects     []*ObjectBlock     `hcl:"object,block"`
}

// ExecutableBlock represents an `executable` block from a build manifest: a
// program linked from one or more object artifacts.
type ExecutableBlock struct {
	Name    string   `hcl:"name,label"`
	Objects []string `hcl:"objects"`
	Output  *string  `hcl:"output,optional"`
	Flags   []string `hcl:"flags,optional"`
}

// ObjectBlock represents an `object` block from a build manifest: a compiled
// object target. Source may be omitted when the object follows the NAME.o
// from NAME.f90 convention.
type ObjectBlock struct {
	Name   string   `hcl:"name,label"`
	Source *string  `hcl:"source,optional"`
	Flags  []string `hcl:"flags,optional"`
}
