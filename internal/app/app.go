package app

import (
	"io"
	"log/slog"

	"github.com/specialistvlad/tmplresolve/internal/config"
	"github.com/specialistvlad/tmplresolve/internal/hcl"
	"github.com/specialistvlad/tmplresolve/internal/yamlrules"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW    io.Writer
	logger  *slog.Logger
	config  *Config
	loaders []config.Loader
}

// New is the constructor for the main application. The JSON report is
// written to outW. Without explicit loaders both the HCL and the YAML/JSON
// rule formats are understood.
func New(outW io.Writer, cfg *Config, loaders ...config.Loader) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, cfg.LogOutput)
	logger.Debug("Logger configured successfully.")

	if len(loaders) == 0 {
		loaders = []config.Loader{hcl.NewLoader(), yamlrules.NewLoader()}
	}
	return &App{
		outW:    outW,
		logger:  logger,
		config:  cfg,
		loaders: loaders,
	}
}
