package resolver

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/specialistvlad/tmplresolve/internal/ast"
	"github.com/specialistvlad/tmplresolve/internal/config"
	"github.com/specialistvlad/tmplresolve/internal/diagnostics"
	"github.com/specialistvlad/tmplresolve/internal/naming"
	"github.com/specialistvlad/tmplresolve/internal/rewriter"
	"github.com/specialistvlad/tmplresolve/internal/rules"
	"github.com/specialistvlad/tmplresolve/internal/scope"
)

// engine is the per-file visitor. It is never shared between files.
type engine struct {
	logger    *slog.Logger
	filename  string
	source    string
	opts      config.Options
	namespace string
	locals    []string

	loadIndex func() (*rules.Index, error)
	ix        *rules.Index
	fileRule  *rules.Rule

	scope     scope.Stack
	binder    *rewriter.Binder
	collector *diagnostics.Collector
	rewrites  int
}

// prepare compiles (or fetches) the rule index on the first candidate node.
func (e *engine) prepare() error {
	if e.ix != nil {
		return nil
	}
	ix, err := e.loadIndex()
	if err != nil {
		return fmt.Errorf("loading rule index: %w", err)
	}
	e.ix = ix
	e.fileRule, _ = ix.File(e.filename)
	return nil
}

func (e *engine) Enter(n ast.Node) error {
	switch n := n.(type) {
	case *ast.Template:
		e.scope.Push(append(append([]string(nil), n.BlockParams...), e.locals...))
	case *ast.Block:
		e.scope.Push(n.BlockParams)
	case *ast.ElementNode:
		if err := e.prepare(); err != nil {
			return err
		}
		if err := e.enterElement(n); err != nil {
			return err
		}
		e.scope.Push(n.BlockParams)
	case *ast.MustacheStatement:
		if err := e.prepare(); err != nil {
			return err
		}
		return e.enterMustache(n)
	case *ast.BlockStatement:
		if err := e.prepare(); err != nil {
			return err
		}
		return e.enterBlock(n)
	case *ast.SubExpression:
		if err := e.prepare(); err != nil {
			return err
		}
		return e.enterSubExpression(n)
	case *ast.ElementModifierStatement:
		if err := e.prepare(); err != nil {
			return err
		}
		return e.enterModifier(n)
	}
	return nil
}

func (e *engine) Exit(n ast.Node) error {
	switch n.(type) {
	case *ast.Template, *ast.Block, *ast.ElementNode:
		return e.scope.Pop()
	}
	return nil
}

// globalPath returns the callee as a path when it could name a global:
// not this-relative, not an @argument, not dotted and not bound locally.
func (e *engine) globalPath(callee ast.Expression) (*ast.PathExpression, bool) {
	path, ok := callee.(*ast.PathExpression)
	if !ok || path.This || path.Data || len(path.Parts) != 1 {
		return nil, false
	}
	if e.scope.InScope(path.Head()) {
		return nil, false
	}
	return path, true
}

func (e *engine) enterMustache(n *ast.MustacheStatement) error {
	path, ok := e.globalPath(n.Path)
	if !ok {
		return nil
	}
	if path.Original == "component" && len(n.Params) > 0 {
		res := e.dynamicComponent(n.Params[0], nil)
		return e.emit(res, replaceParam(n.Params, 0))
	}

	hasArgs := len(n.Params) > 0 || n.Hash.Len() > 0
	res := e.mustacheTarget(path.Original, hasArgs, n.Loc)
	if err := e.emit(res, replaceCallee(&n.Path)); err != nil {
		return err
	}
	if res != nil && res.Kind == KindComponent {
		return e.componentHashArgs(n.Hash, res.Name, res.ArgumentsAreComponents)
	}
	return nil
}

// mustacheTarget applies the ambiguity policy to a top-level {{name ...}}.
func (e *engine) mustacheTarget(name string, hasArgs bool, loc ast.Loc) *Resolution {
	if builtinKeywords[name] || e.ignored(name) {
		return nil
	}
	if d, ok := e.fileRule.DisambiguationFor(name); ok {
		switch d {
		case rules.DisambiguateComponent:
			return e.targetComponent(name)
		case rules.DisambiguateHelper:
			return e.targetHelper(name)
		default:
			return nil
		}
	}

	if !hasArgs && !strings.ContainsAny(name, "/@") {
		if !e.opts.StaticComponents {
			return nil
		}
		angle := naming.Capitalize(naming.Camelize(name))
		res := errorResolution(diagnostics.KindAmbiguousNoArgs,
			"unsupported ambiguous syntax",
			fmt.Sprintf(`"{{%s}}" is ambiguous and could mean "{{this.%s}}" or component "<%s />" or helper "{{ (%s) }}". Change it to one of those unambiguous forms, or add a disambiguate rule for this file.`,
				name, name, angle, name),
			loc)
		res.Err.Name = name
		return res
	}

	switch {
	case e.opts.StaticComponents && e.opts.StaticHelpers:
		return e.componentResolution(name, "ambiguous")
	case e.opts.StaticComponents || e.opts.StaticHelpers:
		res := errorResolution(diagnostics.KindAmbiguousWithArgs,
			"unsupported ambiguous syntax",
			fmt.Sprintf(`"{{%s ...}}" could be a component or a helper, and the staticComponents and staticHelpers options do not agree on which. Use "<%s />" or "(%s ...)" to be explicit, or add a disambiguate rule for this file.`,
				name, naming.Capitalize(naming.Camelize(name)), name),
			loc)
		res.Err.Name = name
		return res
	}
	return nil
}

func (e *engine) enterBlock(n *ast.BlockStatement) error {
	path, ok := e.globalPath(n.Path)
	if !ok {
		return nil
	}
	var res *Resolution
	if path.Original == "component" && len(n.Params) > 0 {
		res = e.dynamicComponent(n.Params[0], nil)
		if err := e.emit(res, replaceParam(n.Params, 0)); err != nil {
			return err
		}
	} else {
		res = e.targetComponent(path.Original)
		if err := e.emit(res, replaceCallee(&n.Path)); err != nil {
			return err
		}
	}
	if res == nil || res.Kind != KindComponent {
		return nil
	}

	name, hash := res.Name, n.Hash
	if n.Program == nil {
		return e.componentHashArgs(hash, name, res.ArgumentsAreComponents)
	}
	e.scope.EnterComponentBlock(res.Yields, res.ArgumentsAreComponents, func(args []string) error {
		return e.componentHashArgs(hash, name, args)
	})
	return nil
}

func (e *engine) enterElement(n *ast.ElementNode) error {
	root, _, _ := strings.Cut(n.Tag, ".")
	if e.scope.InScope(root) || !isComponentTag(n.Tag) {
		return nil
	}
	res := e.targetComponent(naming.Dasherize(n.Tag))
	if err := e.emit(res, func(id string) { n.Tag = id }); err != nil {
		return err
	}
	if res == nil || res.Kind != KindComponent {
		return nil
	}
	name := res.Name
	e.scope.EnterComponentBlock(res.Yields, res.ArgumentsAreComponents, func(args []string) error {
		return e.componentAttributeArgs(n, name, args)
	})
	return nil
}

// isComponentTag reports whether an element tag can name a global
// component. Lower-case tags are markup; @arg tags, named blocks and
// dotted paths are always local.
func isComponentTag(tag string) bool {
	r, _ := utf8.DecodeRuneInString(tag)
	if r == utf8.RuneError || unicode.IsLower(r) || r == '@' || r == ':' {
		return false
	}
	return !strings.Contains(tag, ".")
}

func (e *engine) enterSubExpression(n *ast.SubExpression) error {
	path, ok := e.globalPath(n.Path)
	if !ok {
		return nil
	}
	if len(n.Params) > 0 {
		var res *Resolution
		switch path.Original {
		case "component":
			res = e.dynamicComponent(n.Params[0], nil)
		case "helper":
			res = e.dynamicHelper(n.Params[0])
		case "modifier":
			res = e.dynamicModifier(n.Params[0])
		}
		if res != nil {
			return e.emit(res, replaceParam(n.Params, 0))
		}
		if builtinKeywords[path.Original] {
			return nil
		}
	}
	return e.emit(e.targetHelper(path.Original), replaceCallee(&n.Path))
}

func (e *engine) enterModifier(n *ast.ElementModifierStatement) error {
	path, ok := e.globalPath(n.Path)
	if !ok {
		return nil
	}
	return e.emit(e.targetModifier(path.Original), replaceCallee(&n.Path))
}

// componentHashArgs resolves the named arguments of a curly invocation that
// the component declares to be components.
func (e *engine) componentHashArgs(hash *ast.Hash, component string, args []string) error {
	for _, arg := range unique(args) {
		pair := hash.Pair(arg)
		if pair == nil {
			continue
		}
		res := e.dynamicComponent(pair.Value, &impliedBy{component: component, argument: arg})
		loc := pair.Value.Location()
		if err := e.emit(res, func(id string) { pair.Value = ast.NewPath(id, loc) }); err != nil {
			return err
		}
	}
	return nil
}

// componentAttributeArgs is componentHashArgs for the @arguments of an
// angle-bracket invocation.
func (e *engine) componentAttributeArgs(el *ast.ElementNode, component string, args []string) error {
	for _, arg := range unique(args) {
		attr := el.Attribute("@" + arg)
		if attr == nil {
			continue
		}
		res := e.dynamicComponent(attr.Value, &impliedBy{component: component, argument: arg})
		loc := attr.Value.Location()
		err := e.emit(res, func(id string) {
			attr.Value = &ast.MustacheStatement{Path: ast.NewPath(id, loc), Loc: loc}
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (e *engine) ignored(name string) bool {
	rule, ok := e.ix.Component(name)
	return ok && rule.SafeToIgnore
}

func (e *engine) targetComponent(name string) *Resolution {
	if !e.opts.StaticComponents || builtinKeywords[name] || e.ignored(name) {
		return nil
	}
	return e.componentResolution(name, "components")
}

func (e *engine) componentResolution(name, kind string) *Resolution {
	res := &Resolution{
		Kind:      KindComponent,
		Specifier: e.namespace + "/" + kind + "/" + name,
		Name:      name,
		NameHint:  naming.LastSegment(name),
	}
	if rule, ok := e.ix.Component(name); ok {
		res.Yields = rule.Yields
		res.ArgumentsAreComponents = rule.ArgumentsAreComponents
	}
	return res
}

func (e *engine) targetHelper(name string) *Resolution {
	if !e.opts.StaticHelpers || builtinKeywords[name] || e.ignored(name) {
		return nil
	}
	return &Resolution{
		Kind:      KindHelper,
		Specifier: e.namespace + "/helpers/" + name,
		Name:      name,
		NameHint:  naming.LastSegment(name),
	}
}

func (e *engine) targetModifier(name string) *Resolution {
	if !e.opts.StaticModifiers || builtinKeywords[name] || e.ignored(name) {
		return nil
	}
	return &Resolution{
		Kind:      KindModifier,
		Specifier: e.namespace + "/modifiers/" + name,
		Name:      name,
		NameHint:  naming.LastSegment(name),
	}
}

// emit binds a successful resolution and hands the identifier to replace,
// or reports an error resolution. A nil resolution is a no-op.
func (e *engine) emit(res *Resolution, replace func(id string)) error {
	if res == nil {
		return nil
	}
	if res.Kind == KindError {
		return e.report(res.Err)
	}
	id := e.binder.Bind(res.Specifier, res.NameHint)
	replace(id)
	e.rewrites++
	e.logger.Debug("Reference rewritten.", "kind", res.Kind.String(), "specifier", res.Specifier, "identifier", id)
	return nil
}

func (e *engine) report(d *ErrorDetail) error {
	if d.Kind == diagnostics.KindUnsafeDynamic && e.opts.AllowUnsafeDynamicComponents {
		e.logger.Debug("Unsafe dynamic component tolerated.", "detail", d.Detail)
		return nil
	}
	rerr := &diagnostics.ResolverError{
		Kind:     d.Kind,
		Message:  d.Message,
		Detail:   d.Detail,
		Name:     d.Name,
		Loc:      d.Loc,
		Filename: e.filename,
	}
	if e.collector != nil {
		e.logger.Debug("Resolver diagnostic recorded.", "kind", d.Kind.String(), "message", d.Message, "line", d.Loc.Start.Line)
		e.collector.Add(rerr.Diagnostic(e.source))
		return nil
	}
	e.logger.Debug("Resolver error.", "kind", d.Kind.String(), "message", d.Message, "line", d.Loc.Start.Line)
	return rerr
}

func replaceCallee(slot *ast.Expression) func(string) {
	return func(id string) {
		*slot = ast.NewPath(id, (*slot).Location())
	}
}

func replaceParam(params []ast.Expression, i int) func(string) {
	return func(id string) {
		params[i] = ast.NewPath(id, params[i].Location())
	}
}

func unique(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

func cleanFilename(filename string) string {
	if filename == "" {
		return filename
	}
	return filepath.Clean(filename)
}
