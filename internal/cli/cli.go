package cli

import (
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/specialistvlad/tmplresolve/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

type flags struct {
	configs      []string
	appRoot      string
	audit        bool
	print        bool
	suggestRules string
	workers      int
	logFormat    string
	logLevel     string
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")

	var (
		f      flags
		config *app.Config
	)
	cmd := &cobra.Command{
		Use:   "tmplresolve [flags] PATH...",
		Short: "Statically resolve component, helper and modifier references in templates",
		Long: `tmplresolve rewrites every global component, helper and modifier reference
in the given templates to a locally bound identifier backed by an import
specifier, following the rules in the given rule files.

PATH is a template file or a directory searched recursively for .hbs files.
Rule files (-c) may be HCL (.hcl), YAML (.yaml, .yml) or JSON (.json).`,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, paths []string) error {
			if len(paths) == 0 {
				slog.Debug("No template path provided, printing usage and exiting.")
				return cmd.Usage()
			}
			cfg, err := f.config(paths)
			if err != nil {
				return err
			}
			config = cfg
			return nil
		},
	}
	if args == nil {
		args = []string{} // cobra falls back to os.Args on nil
	}
	cmd.SetArgs(args)
	cmd.SetOut(output)
	cmd.SetErr(output)

	fs := cmd.Flags()
	fs.StringArrayVarP(&f.configs, "config", "c", nil, "Rule file or directory of rule files. Repeatable; later files override earlier options.")
	fs.StringVar(&f.appRoot, "app-root", "", "Application root; overrides app_root from the rule files.")
	fs.BoolVar(&f.audit, "audit", false, "Collect every resolver error as a diagnostic instead of failing the file.")
	fs.BoolVar(&f.print, "print", false, "Include the rewritten template text in the report.")
	fs.StringVar(&f.suggestRules, "suggest-rules", "", "Write HCL disambiguate rules for every ambiguous reference to this file.")
	fs.IntVar(&f.workers, "workers", app.DefaultWorkers, "Number of templates resolved concurrently.")
	fs.StringVar(&f.logFormat, "log-format", "text", "Log output format. Options: 'text' or 'json'.")
	fs.StringVar(&f.logLevel, "log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := cmd.Execute(); err != nil {
		if exitErr, ok := err.(*ExitError); ok {
			return nil, false, exitErr
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	if config == nil {
		// Help or usage was printed.
		return nil, true, nil
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}

func (f *flags) config(paths []string) (*app.Config, error) {
	logFormat := strings.ToLower(f.logFormat)
	if logFormat != "text" && logFormat != "json" {
		return nil, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(f.logLevel)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	cfg, err := app.NewConfig(app.Config{
		ConfigPaths:  f.configs,
		Paths:        paths,
		AppRoot:      f.appRoot,
		Audit:        f.audit,
		Print:        f.print,
		SuggestRules: f.suggestRules,
		Workers:      f.workers,
		LogFormat:    logFormat,
		LogLevel:     logLevel,
	})
	if err != nil {
		return nil, &ExitError{Code: 2, Message: err.Error()}
	}
	return cfg, nil
}
