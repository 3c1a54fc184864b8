package scaffold

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/vk/fortmake/internal/config"
	"github.com/vk/fortmake/internal/ctxlog"
	"github.com/vk/fortmake/internal/fsutil"
	"github.com/zclconf/go-cty/cty"
)

// defaultFlags seed the generated manifest with a sensible optimization
// level; users are expected to edit them.
var defaultFlags = []string{"-O2"}

// programStmt matches the opening statement of a Fortran main program.
// Module and submodule files have no such statement and become plain
// object targets.
var programStmt = regexp.MustCompile(`(?im)^\s*program\s+\w+`)

// Generate discovers the .f90 compilation units under the filesystem root
// and writes a starter manifest to manifestPath. It refuses to overwrite an
// existing manifest.
func Generate(ctx context.Context, fs billy.Filesystem, manifestPath string) error {
	logger := ctxlog.FromContext(ctx)

	if _, err := fs.Stat(manifestPath); err == nil {
		return fmt.Errorf("manifest %s already exists, refusing to overwrite", manifestPath)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to check for existing manifest: %w", err)
	}

	sources, err := fsutil.FindFilesByExtension(fs, ".", ".f90")
	if err != nil {
		return fmt.Errorf("failed to discover sources: %w", err)
	}
	if len(sources) == 0 {
		return fmt.Errorf("no .f90 sources found, nothing to scaffold")
	}
	sort.Strings(sources)
	logger.Debug("Discovered Fortran sources.", "count", len(sources))

	file := hclwrite.NewEmptyFile()
	body := file.Body()
	body.SetAttributeValue("compiler", cty.StringVal(config.DefaultCompiler))
	body.SetAttributeValue("flags", flagsVal(defaultFlags))

	for _, source := range sources {
		isProgram, err := hasProgramStatement(fs, source)
		if err != nil {
			return err
		}

		object := strings.TrimSuffix(source, ".f90") + ".o"
		if isProgram {
			name := strings.TrimSuffix(source, ".f90")
			body.AppendNewline()
			block := body.AppendNewBlock("executable", []string{name})
			block.Body().SetAttributeValue("objects", flagsVal([]string{object}))
		}

		body.AppendNewline()
		block := body.AppendNewBlock("object", []string{object})
		block.Body().SetAttributeValue("source", cty.StringVal(source))
	}

	if err := util.WriteFile(fs, manifestPath, file.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write manifest %s: %w", manifestPath, err)
	}

	logger.Info("Manifest scaffolded.", "path", manifestPath, "sources", len(sources))
	return nil
}

// hasProgramStatement reports whether a source file declares a main program.
func hasProgramStatement(fs billy.Filesystem, path string) (bool, error) {
	content, err := util.ReadFile(fs, path)
	if err != nil {
		return false, fmt.Errorf("failed to read source %s: %w", path, err)
	}
	return programStmt.Match(content), nil
}

// flagsVal converts a string slice into a cty list for hclwrite.
func flagsVal(values []string) cty.Value {
	if len(values) == 0 {
		return cty.ListValEmpty(cty.String)
	}
	vals := make([]cty.Value, len(values))
	for i, v := range values {
		vals[i] = cty.StringVal(v)
	}
	return cty.ListVal(vals)
}
