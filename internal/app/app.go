package app

import (
	"io"
	"log/slog"

	"github.com/go-git/go-billy/v5"

	"github.com/vk/fortmake/internal/config"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle.
type App struct {
	outW   io.Writer
	errW   io.Writer
	logger *slog.Logger
	cfg    *Config
	fs     billy.Filesystem
	loader config.Loader
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger. The filesystem must
// be rooted at the project directory; the loader translates manifests into
// recipes. Logs go to errW so stdout stays reserved for the action plan.
func NewApp(outW, errW io.Writer, cfg *Config, fs billy.Filesystem, loader config.Loader) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, errW)
	logger.Debug("Logger configured successfully.")

	return &App{
		outW:   outW,
		errW:   errW,
		logger: logger,
		cfg:    cfg,
		fs:     fs,
		loader: loader,
	}
}
