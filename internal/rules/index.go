package rules

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/specialistvlad/tmplresolve/internal/ast"
	"github.com/specialistvlad/tmplresolve/internal/config"
	"github.com/specialistvlad/tmplresolve/internal/naming"
	"github.com/specialistvlad/tmplresolve/internal/parser"
)

// Index is the compiled lookup structure built from the active package
// rules of one application.
type Index struct {
	components map[string]*Rule
	files      map[string]*Rule
}

// Component returns the rule for a canonical dashed component name.
func (ix *Index) Component(name string) (*Rule, bool) {
	if ix == nil {
		return nil, false
	}
	r, ok := ix.components[name]
	return r, ok
}

// File returns the rule for the template at absPath.
func (ix *Index) File(absPath string) (*Rule, bool) {
	if ix == nil {
		return nil, false
	}
	r, ok := ix.files[filepath.Clean(absPath)]
	return r, ok
}

// ComponentNames returns the names that carry a rule, sorted.
func (ix *Index) ComponentNames() []string {
	names := make([]string, 0, len(ix.components))
	for n := range ix.components {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Len reports the number of component and file rules.
func (ix *Index) Len() (components, files int) {
	return len(ix.components), len(ix.files)
}

// Build compiles pkgs into an Index. Later packages override earlier ones
// when they declare the same component name or file.
func Build(appRoot string, pkgs []*config.PackageRules) (*Index, error) {
	ix := &Index{
		components: make(map[string]*Rule),
		files:      make(map[string]*Rule),
	}
	for _, pkg := range pkgs {
		if pkg == nil {
			continue
		}
		if err := ix.addPackage(appRoot, pkg); err != nil {
			return nil, err
		}
	}
	return ix, nil
}

func (ix *Index) addPackage(appRoot string, pkg *config.PackageRules) error {
	for _, snippet := range sortedKeys(pkg.Components) {
		raw := pkg.Components[snippet]
		name, ok := SnippetName(snippet)
		if !ok {
			return &ConfigError{Package: pkg.Name, Key: snippet, Message: "unable to determine a component name from snippet"}
		}
		rule, err := Preprocess(raw)
		if err != nil {
			return wrapConfigError(err, pkg.Name, snippet)
		}
		ix.components[name] = rule

		if raw.Layout != nil {
			for _, root := range pkg.Roots {
				if raw.Layout.AddonPath != "" {
					ix.files[filepath.Join(root, raw.Layout.AddonPath)] = rule
				}
				if raw.Layout.AppPath != "" {
					ix.files[filepath.Join(root, raw.Layout.AppPath)] = rule
				}
			}
		}
	}

	for _, path := range sortedKeys(pkg.AppTemplates) {
		rule, err := Preprocess(pkg.AppTemplates[path])
		if err != nil {
			return wrapConfigError(err, pkg.Name, path)
		}
		ix.files[filepath.Join(appRoot, path)] = rule
	}

	for _, path := range sortedKeys(pkg.AddonTemplates) {
		rule, err := Preprocess(pkg.AddonTemplates[path])
		if err != nil {
			return wrapConfigError(err, pkg.Name, path)
		}
		for _, root := range pkg.Roots {
			ix.files[filepath.Join(root, path)] = rule
		}
	}
	return nil
}

func wrapConfigError(err error, pkg, key string) error {
	if ce, ok := err.(*ConfigError); ok {
		ce.Package, ce.Key = pkg, key
		return ce
	}
	return fmt.Errorf("package %q, rule %q: %w", pkg, key, err)
}

// Preprocess turns a raw rule into its compiled form.
func Preprocess(raw *config.ComponentRules) (*Rule, error) {
	rule := &Rule{}
	if raw == nil {
		return rule, nil
	}
	rule.SafeToIgnore = raw.SafeToIgnore
	rule.SafeInteriorPaths = slices.Clone(raw.SafeInteriorPaths)

	for _, arg := range raw.AcceptsComponentArguments {
		name := strings.TrimPrefix(arg.Name, "@")
		if name == "" {
			return nil, &ConfigError{Message: "acceptsComponentArguments entry has no name"}
		}
		becomes := strings.TrimPrefix(arg.Becomes, "this.")
		if becomes == "" {
			becomes = name
		}
		rule.ArgumentsAreComponents = append(rule.ArgumentsAreComponents, name)
		rule.SafeInteriorPaths = append(rule.SafeInteriorPaths, becomes, "this."+becomes, "@"+name)
	}

	rule.Yields = compileYields(raw.YieldsSafeComponents, raw.YieldsArguments)

	if len(raw.Disambiguate) > 0 {
		rule.Disambiguate = make(map[string]Disambiguation, len(raw.Disambiguate))
		for name, choice := range raw.Disambiguate {
			d, ok := ParseDisambiguation(choice)
			if !ok {
				return nil, &ConfigError{Message: fmt.Sprintf("disambiguate %q: unknown choice %q, expected component, helper or data", name, choice)}
			}
			rule.Disambiguate[name] = d
		}
	}
	return rule, nil
}

// compileYields merges the two positional yield declarations. A position or
// field declared safe wins over one declared as a forwarded argument.
func compileYields(safe []config.SafeYield, args []config.ArgumentYield) []YieldSlot {
	n := max(len(safe), len(args))
	if n == 0 {
		return nil
	}
	slots := make([]YieldSlot, n)
	for i := range slots {
		slot := &slots[i]
		if i < len(safe) {
			if safe[i].Safe {
				slot.Kind = YieldSafeComponent
			}
			for field, ok := range safe[i].Fields {
				if ok {
					slot.setField(field, Yield{Kind: YieldSafeComponent})
				}
			}
		}
		if i < len(args) {
			if args[i].Argument != "" && slot.Kind == YieldNotSafe {
				slot.Yield = Yield{Kind: YieldForwardsArgument, Argument: strings.TrimPrefix(args[i].Argument, "@")}
			}
			for field, arg := range args[i].Fields {
				if arg == "" {
					continue
				}
				if _, taken := slot.Fields[field]; taken {
					continue
				}
				slot.setField(field, Yield{Kind: YieldForwardsArgument, Argument: strings.TrimPrefix(arg, "@")})
			}
		}
	}
	return slots
}

func (s *YieldSlot) setField(name string, y Yield) {
	if s.Fields == nil {
		s.Fields = make(map[string]Yield)
	}
	s.Fields[name] = y
}

// SnippetName extracts the canonical component name from an invocation
// snippet: the dashed tag of the first element, or the callee of the first
// curly call. For {{component "x"}} the literal name is used.
func SnippetName(snippet string) (string, bool) {
	tree, err := parser.Parse(snippet)
	if err != nil {
		return "", false
	}
	var name string
	ast.Inspect(tree, func(n ast.Node) {
		if name != "" {
			return
		}
		switch n := n.(type) {
		case *ast.ElementNode:
			name = naming.Dasherize(n.Tag)
		case *ast.MustacheStatement:
			name = calleeName(n.Path, n.Params)
		case *ast.BlockStatement:
			name = calleeName(n.Path, n.Params)
		}
	})
	return name, name != ""
}

func calleeName(callee ast.Expression, params []ast.Expression) string {
	path, ok := callee.(*ast.PathExpression)
	if !ok {
		return ""
	}
	if path.Original == "component" && len(params) > 0 {
		if lit, ok := params[0].(*ast.StringLiteral); ok {
			return lit.Value
		}
	}
	return path.Original
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
