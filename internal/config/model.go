package config

import (
	"fmt"
	"strings"
)

// DefaultCompiler is the toolchain command used when the manifest does not
// name one.
const DefaultCompiler = "gfortran"

// DefaultManifestName is the file the CLI looks for when no -f flag is given.
const DefaultManifestName = "build.hcl"

// Recipe is the unified, format-agnostic representation of a build manifest:
// the toolchain settings plus every declared target.
type Recipe struct {
	Toolchain   Toolchain
	Executables []*Executable
	Objects     []*Object
}

// Toolchain holds the two configuration variables substituted into every
// compile and link action.
type Toolchain struct {
	Compiler string
	Flags    []string
}

// Executable is the format-agnostic representation of an `executable` block.
// Objects lists the object artifacts linked into the binary, in declaration
// order.
type Executable struct {
	Name    string
	Objects []string
	Output  string
	Flags   []string
}

// Object is the format-agnostic representation of an `object` block. Name is
// the artifact path (for example "efficient.o"); Source is the compilation
// unit it is built from.
type Object struct {
	Name   string
	Source string
	Flags  []string
}

// FindExecutable returns the declared executable with the given name, or nil.
func (r *Recipe) FindExecutable(name string) *Executable {
	for _, e := range r.Executables {
		if e.Name == name {
			return e
		}
	}
	return nil
}

// FindObject returns the declared object with the given name, or nil.
func (r *Recipe) FindObject(name string) *Object {
	for _, o := range r.Objects {
		if o.Name == name {
			return o
		}
	}
	return nil
}

// reservedNames are target names claimed by the CLI itself and therefore
// unavailable to manifests.
var reservedNames = map[string]bool{
	"all":   true,
	"clean": true,
	"init":  true,
}

// Validate checks the structural invariants of the recipe: unique target
// names across both kinds, no collisions with reserved command names, at
// least one object per executable, and object references that look like
// object artifacts.
func (r *Recipe) Validate() error {
	if r.Toolchain.Compiler == "" {
		return fmt.Errorf("toolchain compiler must not be empty")
	}

	seen := make(map[string]string)
	for _, o := range r.Objects {
		if !strings.HasSuffix(o.Name, ".o") {
			return fmt.Errorf("object %q: name must end in .o", o.Name)
		}
		if prev, dup := seen[o.Name]; dup {
			return fmt.Errorf("duplicate target %q (already declared as %s)", o.Name, prev)
		}
		seen[o.Name] = "object"
	}
	for _, e := range r.Executables {
		if reservedNames[e.Name] {
			return fmt.Errorf("executable %q: name is reserved", e.Name)
		}
		if prev, dup := seen[e.Name]; dup {
			return fmt.Errorf("duplicate target %q (already declared as %s)", e.Name, prev)
		}
		seen[e.Name] = "executable"

		if len(e.Objects) == 0 {
			return fmt.Errorf("executable %q: objects must list at least one entry", e.Name)
		}
		for _, obj := range e.Objects {
			if !strings.HasSuffix(obj, ".o") {
				return fmt.Errorf("executable %q: input %q is not an object artifact", e.Name, obj)
			}
		}
	}
	return nil
}
