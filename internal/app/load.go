package app

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/specialistvlad/tmplresolve/internal/config"
	"github.com/specialistvlad/tmplresolve/internal/ctxlog"
	"github.com/specialistvlad/tmplresolve/internal/fsutil"
)

// TemplateExtension is the extension of the template files a run resolves.
const TemplateExtension = ".hbs"

// loadModel reads every rule file in ConfigPaths, in order, each with the
// loader owning its extension, and applies the AppRoot override.
func (a *App) loadModel(ctx context.Context) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	model := &config.Model{}

	if len(a.config.ConfigPaths) > 0 {
		var exts []string
		for _, l := range a.loaders {
			exts = append(exts, l.Extensions()...)
		}
		files, err := fsutil.FindFiles(a.config.ConfigPaths, exts...)
		if err != nil {
			return nil, fmt.Errorf("failed to discover rule files: %w", err)
		}
		for _, file := range files {
			loader := a.loaderFor(file)
			fileModel, err := loader.Load(ctx, file)
			if err != nil {
				return nil, fmt.Errorf("failed to load configuration: %w", err)
			}
			model.Merge(fileModel)
		}
		logger.Debug("Rule files loaded.", "files", len(files), "packages", len(model.Packages))
	}

	if a.config.AppRoot != "" {
		model.AppRoot = a.config.AppRoot
	}
	if model.AppRoot != "" {
		abs, err := filepath.Abs(model.AppRoot)
		if err != nil {
			return nil, fmt.Errorf("invalid app root %q: %w", model.AppRoot, err)
		}
		model.AppRoot = abs
	}
	return model, nil
}

// loaderFor returns the first loader claiming file's extension. Files are
// only ever discovered by the extensions the loaders list.
func (a *App) loaderFor(file string) config.Loader {
	for _, l := range a.loaders {
		if fsutil.HasExtension(file, l.Extensions()...) {
			return l
		}
	}
	panic(fmt.Sprintf("no loader for %s", file))
}

// discoverTemplates expands Paths into absolute template file names.
func (a *App) discoverTemplates() ([]string, error) {
	files, err := fsutil.FindFiles(a.config.Paths, TemplateExtension)
	if err != nil {
		return nil, fmt.Errorf("failed to discover templates: %w", err)
	}
	out := make([]string, 0, len(files))
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return nil, fmt.Errorf("invalid template path %q: %w", f, err)
		}
		out = append(out, abs)
	}
	return out, nil
}
