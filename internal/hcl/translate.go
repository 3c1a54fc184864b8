package hcl

import "github.com/vk/fortmake/internal/config"

// translateExecutable converts a decoded executable block into the agnostic
// model, defaulting the output artifact to the target name.
func (l *Loader) translateExecutable(block *ExecutableBlock) *config.Executable {
	out := block.Name
	if block.Output != nil && *block.Output != "" {
		out = *block.Output
	}
	return &config.Executable{
		Name:    block.Name,
		Objects: block.Objects,
		Output:  out,
		Flags:   block.Flags,
	}
}

// translateObject converts a decoded object block into the agnostic model.
// A missing source is left empty for the resolver to derive from the object
// naming convention.
func (l *Loader) translateObject(block *ObjectBlock) *config.Object {
	var src string
	if block.Source != nil {
		src = *block.Source
	}
	return &config.Object{
		Name:   block.Name,
		Source: src,
		Flags:  block.Flags,
	}
}
