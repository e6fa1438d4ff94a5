// This file contains the logic for translating HCL schema structs into the
// format-agnostic configuration model defined in the config package.

package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/specialistvlad/tmplresolve/internal/config"
	"github.com/specialistvlad/tmplresolve/internal/ctxlog"
)

func (l *Loader) translateFile(ctx context.Context, root *fileRoot) (*config.Model, error) {
	m := &config.Model{}
	if o := root.Options; o != nil {
		m.OptionsSet = true
		m.AppRoot = o.AppRoot
		m.Options = config.Options{
			StaticComponents:             o.StaticComponents,
			StaticHelpers:                o.StaticHelpers,
			StaticModifiers:              o.StaticModifiers,
			AllowUnsafeDynamicComponents: o.AllowUnsafeDynamicComponents,
			Namespace:                    o.Namespace,
			Locals:                       o.Locals,
		}
	}
	for _, p := range root.Packages {
		pkg, err := l.translatePackage(ctx, p)
		if err != nil {
			return nil, err
		}
		m.Packages = append(m.Packages, pkg)
	}
	return m, nil
}

// translatePackage converts one package block into the agnostic model.
func (l *Loader) translatePackage(ctx context.Context, p *packageBlock) (*config.PackageRules, error) {
	logger := ctxlog.FromContext(ctx).With("package", p.Name)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Translating HCL package to internal config model.")

	pkg := &config.PackageRules{
		Name:           p.Name,
		Roots:          p.Roots,
		Components:     make(map[string]*config.ComponentRules),
		AppTemplates:   make(map[string]*config.ComponentRules),
		AddonTemplates: make(map[string]*config.ComponentRules),
	}
	sections := []struct {
		kind   string
		blocks []*ruleBlock
		into   map[string]*config.ComponentRules
	}{
		{kind: "component", blocks: p.Components, into: pkg.Components},
		{kind: "app_template", blocks: p.AppTemplates, into: pkg.AppTemplates},
		{kind: "addon_template", blocks: p.AddonTemplates, into: pkg.AddonTemplates},
	}
	for _, s := range sections {
		for _, b := range s.blocks {
			rule, err := translateRule(ctx, b)
			if err != nil {
				return nil, fmt.Errorf("package %q, %s %q: %w", p.Name, s.kind, b.Key, err)
			}
			s.into[b.Key] = rule
		}
	}
	return pkg, nil
}

func translateRule(ctx context.Context, b *ruleBlock) (*config.ComponentRules, error) {
	rule := &config.ComponentRules{
		SafeToIgnore:      b.SafeToIgnore,
		Disambiguate:      b.Disambiguate,
		SafeInteriorPaths: b.SafeInteriorPaths,
	}
	if b.Layout != nil {
		rule.Layout = &config.Layout{AddonPath: b.Layout.AddonPath, AppPath: b.Layout.AppPath}
	}

	var err error
	if rule.AcceptsComponentArguments, err = argumentRules(ctx, b.AcceptsComponentArguments); err != nil {
		return nil, err
	}
	if rule.YieldsSafeComponents, err = safeYields(ctx, b.YieldsSafeComponents); err != nil {
		return nil, err
	}
	if rule.YieldsArguments, err = argumentYields(ctx, b.YieldsArguments); err != nil {
		return nil, err
	}
	return rule, nil
}

// isExprDefined checks if an HCL expression was actually present in the source
// code. The HCL decoder populates omitted optional fields with zero-width
// expression objects, so a simple nil check is insufficient.
func isExprDefined(ctx context.Context, expr hcl.Expression, attrName string) bool {
	if expr == nil {
		return false
	}
	r := expr.Range()
	isDefined := r.End.Byte > r.Start.Byte
	ctxlog.FromContext(ctx).Debug("Checking if HCL attribute was explicitly defined.",
		"attribute", attrName,
		"hcl_range", r.String(),
		"is_defined", isDefined,
	)
	return isDefined
}

// elements evaluates a list-valued attribute and returns its elements.
func elements(ctx context.Context, expr hcl.Expression, attrName string) ([]cty.Value, error) {
	if !isExprDefined(ctx, expr, attrName) {
		return nil, nil
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid %s: %w", attrName, diags)
	}
	if val.IsNull() {
		return nil, nil
	}
	if !val.Type().IsTupleType() && !val.Type().IsListType() {
		return nil, fmt.Errorf("%s: %s must be a list, got %s", expr.Range(), attrName, val.Type().FriendlyName())
	}
	var out []cty.Value
	for it := val.ElementIterator(); it.Next(); {
		_, v := it.Element()
		out = append(out, v)
	}
	return out, nil
}

func isObject(v cty.Value) bool {
	return v.Type().IsObjectType() || v.Type().IsMapType()
}

// decodeMap converts an object value to a Go map of the given element type.
func decodeMap(v cty.Value, elem cty.Type, target any) error {
	conv, err := convert.Convert(v, cty.Map(elem))
	if err != nil {
		return fmt.Errorf("cannot convert %s to map of %s: %w", v.Type().FriendlyName(), elem.FriendlyName(), err)
	}
	return gocty.FromCtyValue(conv, target)
}

// argumentRules translates entries written either as "name" or as
// { name = "...", becomes = "..." }.
func argumentRules(ctx context.Context, expr hcl.Expression) ([]config.ArgumentRule, error) {
	vals, err := elements(ctx, expr, "accepts_component_arguments")
	if err != nil {
		return nil, err
	}
	var out []config.ArgumentRule
	for i, v := range vals {
		switch {
		case v.Type() == cty.String:
			var name string
			if err := gocty.FromCtyValue(v, &name); err != nil {
				return nil, fmt.Errorf("accepts_component_arguments[%d]: %w", i, err)
			}
			out = append(out, config.ArgumentRule{Name: name})
		case isObject(v):
			var spec map[string]string
			if err := decodeMap(v, cty.String, &spec); err != nil {
				return nil, fmt.Errorf("accepts_component_arguments[%d]: %w", i, err)
			}
			if spec["name"] == "" {
				return nil, fmt.Errorf("accepts_component_arguments[%d]: name is required", i)
			}
			out = append(out, config.ArgumentRule{Name: spec["name"], Becomes: spec["becomes"]})
		default:
			return nil, fmt.Errorf("accepts_component_arguments[%d]: expected string or object, got %s", i, v.Type().FriendlyName())
		}
	}
	return out, nil
}

// safeYields translates entries written as true/false, null or an object of
// field = bool.
func safeYields(ctx context.Context, expr hcl.Expression) ([]config.SafeYield, error) {
	vals, err := elements(ctx, expr, "yields_safe_components")
	if err != nil {
		return nil, err
	}
	var out []config.SafeYield
	for i, v := range vals {
		var y config.SafeYield
		switch {
		case v.IsNull():
		case v.Type() == cty.Bool:
			if err := gocty.FromCtyValue(v, &y.Safe); err != nil {
				return nil, fmt.Errorf("yields_safe_components[%d]: %w", i, err)
			}
		case isObject(v):
			if err := decodeMap(v, cty.Bool, &y.Fields); err != nil {
				return nil, fmt.Errorf("yields_safe_components[%d]: %w", i, err)
			}
		default:
			return nil, fmt.Errorf("yields_safe_components[%d]: expected bool, null or object, got %s", i, v.Type().FriendlyName())
		}
		out = append(out, y)
	}
	return out, nil
}

// argumentYields translates entries written as an argument name, null or
// an object of field = argument name.
func argumentYields(ctx context.Context, expr hcl.Expression) ([]config.ArgumentYield, error) {
	vals, err := elements(ctx, expr, "yields_arguments")
	if err != nil {
		return nil, err
	}
	var out []config.ArgumentYield
	for i, v := range vals {
		var y config.ArgumentYield
		switch {
		case v.IsNull():
		case v.Type() == cty.String:
			if err := gocty.FromCtyValue(v, &y.Argument); err != nil {
				return nil, fmt.Errorf("yields_arguments[%d]: %w", i, err)
			}
		case isObject(v):
			if err := decodeMap(v, cty.String, &y.Fields); err != nil {
				return nil, fmt.Errorf("yields_arguments[%d]: %w", i, err)
			}
		default:
			return nil, fmt.Errorf("yields_arguments[%d]: expected string, null or object, got %s", i, v.Type().FriendlyName())
		}
		out = append(out, y)
	}
	return out, nil
}
