package app

import (
	"errors"
	"fmt"
	"io"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ConfigPaths []string // rule files or directories
	Paths       []string // templates or directories of templates

	// AppRoot overrides the app_root of the rule files when set.
	AppRoot string
	// Audit collects every resolver error as a diagnostic instead of
	// failing the file on the first one.
	Audit bool
	// SuggestRules, when set, is the path an HCL file of disambiguate rules
	// is written to.
	SuggestRules string
	// Print includes the rewritten template text in the report.
	Print bool

	Workers   int
	LogFormat string
	LogLevel  string
	// LogOutput receives log records; nil discards them.
	LogOutput io.Writer
}

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.Paths) == 0 {
		return nil, errors.New("at least one template path is required")
	}
	if cfg.Workers < 0 {
		return nil, fmt.Errorf("workers must not be negative, got %d", cfg.Workers)
	}
	if cfg.Workers == 0 {
		cfg.Workers = DefaultWorkers
	}
	return &cfg, nil
}

// DefaultWorkers bounds the number of templates resolved at once.
const DefaultWorkers = 8
