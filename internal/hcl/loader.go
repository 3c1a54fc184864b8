package hcl

import (
	"context"
	"fmt"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/fortmake/internal/config"
	"github.com/vk/fortmake/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct {
	fs billy.Filesystem
}

// NewLoader creates a new HCL manifest loader reading from the given
// filesystem.
func NewLoader(fs billy.Filesystem) *Loader {
	return &Loader{fs: fs}
}

// Load orchestrates the entire manifest loading process: parse, evaluate the
// toolchain attributes, decode the target blocks against them, and validate
// the resulting recipe.
func (l *Loader) Load(ctx context.Context, path string) (*config.Recipe, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path", path)

	src, err := util.ReadFile(l.fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, diags)
	}

	// The toolchain attributes are decoded first so that target blocks can
	// reference them as variables in their own expressions.
	var tc toolchainConfig
	if diags := gohcl.DecodeBody(file.Body, nil, &tc); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode toolchain attributes in %s: %w", path, diags)
	}

	toolchain := config.Toolchain{Compiler: config.DefaultCompiler, Flags: tc.Flags}
	if tc.Compiler != nil && *tc.Compiler != "" {
		toolchain.Compiler = *tc.Compiler
	}

	var root fileRoot
	if diags := gohcl.DecodeBody(file.Body, evalContext(toolchain), &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode manifest %s: %w", path, diags)
	}

	recipe := &config.Recipe{Toolchain: toolchain}
	for _, block := range root.Executables {
		recipe.Executables = append(recipe.Executables, l.translateExecutable(block))
	}
	for _, block := range root.Objects {
		recipe.Objects = append(recipe.Objects, l.translateObject(block))
	}

	if err := recipe.Validate(); err != nil {
		return nil, fmt.Errorf("invalid manifest %s: %w", path, err)
	}

	logger.Debug("HCL loading complete.", "executables", len(recipe.Executables), "objects", len(recipe.Objects))
	return recipe, nil
}

// evalContext exposes the toolchain settings as the `compiler` and `flags`
// variables, so target blocks can splice them into their own attribute
// expressions.
func evalContext(tc config.Toolchain) *hcl.EvalContext {
	flags := cty.ListValEmpty(cty.String)
	if len(tc.Flags) > 0 {
		vals := make([]cty.Value, len(tc.Flags))
		for i, f := range tc.Flags {
			vals[i] = cty.StringVal(f)
		}
		flags = cty.ListVal(vals)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"compiler": cty.StringVal(tc.Compiler),
			"flags":    flags,
		},
	}
}
