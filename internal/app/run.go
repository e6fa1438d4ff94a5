package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/specialistvlad/tmplresolve/internal/ast"
	"github.com/specialistvlad/tmplresolve/internal/config"
	"github.com/specialistvlad/tmplresolve/internal/ctxlog"
	"github.com/specialistvlad/tmplresolve/internal/diagnostics"
	"github.com/specialistvlad/tmplresolve/internal/hcl"
	"github.com/specialistvlad/tmplresolve/internal/parser"
	"github.com/specialistvlad/tmplresolve/internal/resolver"
	"github.com/specialistvlad/tmplresolve/internal/rules"
)

// ErrUnresolved is returned by a strict run in which at least one template
// failed. The report has already been written when it is returned.
var ErrUnresolved = errors.New("templates failed to resolve")

// Run executes one resolution run and writes its report.
func (a *App) Run(ctx context.Context) error {
	runID := uuid.NewString()
	logger := a.logger.With("run_id", runID)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("App.Run method started.")

	model, err := a.loadModel(ctx)
	if err != nil {
		return err
	}
	ix, err := rules.Build(model.AppRoot, model.Packages)
	if err != nil {
		return fmt.Errorf("failed to compile rules: %w", err)
	}
	components, files := ix.Len()
	logger.Debug("Rule index compiled.", "components", components, "files", files)

	templates, err := a.discoverTemplates()
	if err != nil {
		return err
	}

	mode := "strict"
	if a.config.Audit {
		mode = "audit"
	}
	logger.Info("Starting resolution run.", "mode", mode, "templates", len(templates), "workers", a.config.Workers)

	report := &Report{RunID: runID, Mode: mode, Files: make([]*FileReport, len(templates))}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.config.Workers)
	for i, file := range templates {
		i, file := i, file
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			report.Files[i] = a.resolveFile(gctx, file, model, ix)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("resolution run aborted: %w", err)
	}

	report.summarize()
	if err := report.write(a.outW); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	if a.config.SuggestRules != "" {
		if err := a.writeSuggestions(ctx, model.AppRoot, report); err != nil {
			return err
		}
	}

	s := report.Summary
	logger.Info("Resolution run finished.", "files", s.Files, "rewrites", s.Rewrites, "diagnostics", s.Diagnostics, "failed", s.Failed)
	if s.Failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrUnresolved, s.Failed, s.Files)
	}
	return nil
}

// resolveFile parses and resolves one template with its own engine. Failures
// are recorded in the returned report rather than returned.
func (a *App) resolveFile(ctx context.Context, file string, model *config.Model, ix *rules.Index) *FileReport {
	logger := ctxlog.FromContext(ctx)
	fr := &FileReport{File: file}

	src, err := os.ReadFile(file)
	if err != nil {
		fr.Error = err.Error()
		return fr
	}
	tree, err := parser.Parse(string(src))
	if err != nil {
		fr.Error = err.Error()
		logger.Warn("Template could not be parsed.", "file", file, "error", err)
		return fr
	}

	opts := []resolver.Option{resolver.WithIndex(ix)}
	var collector *diagnostics.Collector
	if a.config.Audit {
		collector = diagnostics.NewCollector()
		opts = append(opts, resolver.WithCollector(collector))
	}

	res, err := resolver.Resolve(ctx, tree, file, model, opts...)
	if err != nil {
		fr.Error = err.Error()
		var re *diagnostics.ResolverError
		if errors.As(err, &re) {
			fr.failure = re
		}
		logger.Warn("Template failed to resolve.", "file", file, "error", err)
		return fr
	}

	fr.Imports = res.Imports
	fr.Rewrites = res.Rewrites
	if collector != nil {
		fr.Diagnostics = collector.ByFile(file)
	}
	if a.config.Print {
		fr.Template = ast.Print(tree)
	}
	return fr
}

// writeSuggestions writes disambiguate rules for every ambiguous reference
// of the run. Nothing is written when there are none.
func (a *App) writeSuggestions(ctx context.Context, appRoot string, report *Report) error {
	ambiguous := make(map[string][]string)
	for _, f := range report.Files {
		if names := f.ambiguous(); len(names) > 0 {
			ambiguous[f.File] = names
		}
	}
	logger := ctxlog.FromContext(ctx)
	if len(ambiguous) == 0 {
		logger.Info("No ambiguous references, no rules suggested.")
		return nil
	}
	if err := os.WriteFile(a.config.SuggestRules, hcl.SuggestRules(appRoot, ambiguous), 0o644); err != nil {
		return fmt.Errorf("failed to write suggested rules: %w", err)
	}
	logger.Info("Suggested rules written.", "path", a.config.SuggestRules, "files", len(ambiguous))
	return nil
}
