package yamlrules

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/specialistvlad/tmplresolve/internal/config"
	"github.com/specialistvlad/tmplresolve/internal/ctxlog"
	"github.com/specialistvlad/tmplresolve/internal/fsutil"
)

// Loader implements config.Loader for YAML and JSON rule files.
type Loader struct{}

func NewLoader() *Loader {
	return &Loader{}
}

// Extensions implements config.Loader.
func (l *Loader) Extensions() []string {
	return []string{".yaml", ".yml", ".json"}
}

// Load implements config.Loader. Unknown keys are rejected.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)

	files, err := fsutil.FindFiles(paths, l.Extensions()...)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered YAML rule files.", "count", len(files))

	model := &config.Model{}
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read rule file %s: %w", file, err)
		}
		fileModel, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("in rule file %s: %w", file, err)
		}
		model.Merge(fileModel)
	}
	logger.Debug("YAML loading complete.", "files", len(files), "packages", len(model.Packages))
	return model, nil
}

// Parse decodes a single YAML or JSON document. An empty document yields an
// empty model.
func Parse(data []byte) (*config.Model, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var root fileRoot
	if err := dec.Decode(&root); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode rules: %w", err)
	}
	return translate(&root), nil
}

func translate(root *fileRoot) *config.Model {
	m := &config.Model{AppRoot: root.AppRoot}
	if root.hasOptions() {
		m.OptionsSet = true
		m.Options = config.Options{
			StaticComponents:             deref(root.StaticComponents),
			StaticHelpers:                deref(root.StaticHelpers),
			StaticModifiers:              deref(root.StaticModifiers),
			AllowUnsafeDynamicComponents: deref(root.AllowUnsafeDynamicComponents),
			Namespace:                    deref(root.Namespace),
			Locals:                       root.Locals,
		}
	}
	for _, p := range root.ActivePackageRules {
		if p == nil {
			continue
		}
		m.Packages = append(m.Packages, &config.PackageRules{
			Name:           p.Package,
			Roots:          p.Roots,
			Components:     translateRules(p.Components),
			AppTemplates:   translateRules(p.AppTemplates),
			AddonTemplates: translateRules(p.AddonTemplates),
		})
	}
	return m
}

func translateRules(in map[string]*fileRules) map[string]*config.ComponentRules {
	out := make(map[string]*config.ComponentRules, len(in))
	for key, r := range in {
		if r == nil {
			r = &fileRules{}
		}
		rule := &config.ComponentRules{
			SafeToIgnore:      r.SafeToIgnore,
			Disambiguate:      r.Disambiguate,
			SafeInteriorPaths: r.SafeInteriorPaths,
		}
		for _, a := range r.AcceptsComponentArguments {
			rule.AcceptsComponentArguments = append(rule.AcceptsComponentArguments, config.ArgumentRule(a))
		}
		for _, y := range r.YieldsSafeComponents {
			rule.YieldsSafeComponents = append(rule.YieldsSafeComponents, config.SafeYield(y))
		}
		for _, y := range r.YieldsArguments {
			rule.YieldsArguments = append(rule.YieldsArguments, config.ArgumentYield(y))
		}
		if r.Layout != nil {
			rule.Layout = &config.Layout{AddonPath: r.Layout.AddonPath, AppPath: r.Layout.AppPath}
		}
		out[key] = rule
	}
	return out
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
