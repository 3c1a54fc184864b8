package app

import (
	"errors"
	"fmt"

	"github.com/vk/fortmake/internal/config"
)

// Commands understood by the application.
const (
	CommandBuild = "build"
	CommandClean = "clean"
	CommandInit  = "init"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Command      string   // one of the Command constants
	Targets      []string // build targets; empty means every executable
	ManifestPath string   // manifest path, relative to ProjectDir
	ProjectDir   string   // directory all actions run in

	DryRun bool
	Watch  bool

	LogFormat string
	LogLevel  string
}

// NewConfig fills in defaults and validates that the flag combination makes
// sense for the chosen command.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.Command == "" {
		cfg.Command = CommandBuild
	}
	if cfg.ManifestPath == "" {
		cfg.ManifestPath = config.DefaultManifestName
	}
	if cfg.ProjectDir == "" {
		cfg.ProjectDir = "."
	}

	switch cfg.Command {
	case CommandBuild:
		// Every flag applies to a build.
	case CommandClean:
		if len(cfg.Targets) > 0 {
			return nil, fmt.Errorf("command %q does not accept targets", cfg.Command)
		}
		if cfg.Watch {
			return nil, fmt.Errorf("command %q cannot run in watch mode", cfg.Command)
		}
	case CommandInit:
		if len(cfg.Targets) > 0 {
			return nil, fmt.Errorf("command %q does not accept targets", cfg.Command)
		}
		if cfg.Watch {
			return nil, fmt.Errorf("command %q cannot run in watch mode", cfg.Command)
		}
		if cfg.DryRun {
			return nil, errors.New(`command "init" does not support dry-run mode`)
		}
	default:
		return nil, fmt.Errorf("unknown command %q", cfg.Command)
	}

	return &cfg, nil
}
