package resolver

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/specialistvlad/tmplresolve/internal/ast"
	"github.com/specialistvlad/tmplresolve/internal/config"
	"github.com/specialistvlad/tmplresolve/internal/ctxlog"
	"github.com/specialistvlad/tmplresolve/internal/diagnostics"
	"github.com/specialistvlad/tmplresolve/internal/rewriter"
	"github.com/specialistvlad/tmplresolve/internal/rules"
)

// Result summarises a successful resolution of one template.
type Result struct {
	// Imports are the bound specifiers in first-use order.
	Imports []rewriter.Import
	// Rewrites counts the references replaced, coalesced ones included.
	Rewrites int
}

// Resolve rewrites tree in place. filename is the template's absolute path;
// it selects the file's own rule and is reported with every error.
//
// In strict mode the first resolver error is returned as a
// *diagnostics.ResolverError and the tree may be partially rewritten. A
// *rules.ConfigError is returned when the model's rules cannot be compiled.
func Resolve(ctx context.Context, tree *ast.Template, filename string, model *config.Model, opts ...Option) (*Result, error) {
	if tree == nil {
		return nil, errors.New("resolver: nil template")
	}
	if model == nil {
		model = &config.Model{}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	filename = cleanFilename(filename)
	logger := ctxlog.FromContext(ctx).With("file", filename)
	logger.Debug("Resolving template.", "audit", o.collector != nil)

	e := &engine{
		logger:    logger,
		filename:  filename,
		source:    tree.Source,
		opts:      model.Options,
		namespace: model.Options.SpecifierNamespace(),
		locals:    model.Options.Locals,
		collector: o.collector,
		binder:    rewriter.NewBinder(reservedNames(tree, model.Options.Locals)...),
	}
	if o.index != nil {
		ix := o.index
		e.loadIndex = func() (*rules.Index, error) { return ix, nil }
	} else {
		e.loadIndex = sync.OnceValues(func() (*rules.Index, error) {
			return rules.Build(model.AppRoot, model.Packages)
		})
	}

	if err := ast.Walk(e, tree); err != nil {
		if diagnostics.IsResolverError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("resolving %s: %w", filename, err)
	}

	res := &Result{Imports: e.binder.Imports(), Rewrites: e.rewrites}
	logger.Debug("Template resolved.", "imports", len(res.Imports), "rewrites", res.Rewrites)
	return res, nil
}

// reservedNames collects every name the template binds itself, so a bound
// identifier never shadows or is shadowed by one of them.
func reservedNames(tree *ast.Template, locals []string) []string {
	names := append([]string(nil), locals...)
	ast.Inspect(tree, func(n ast.Node) {
		switch n := n.(type) {
		case *ast.Template:
			names = append(names, n.BlockParams...)
		case *ast.Block:
			names = append(names, n.BlockParams...)
		case *ast.ElementNode:
			names = append(names, n.BlockParams...)
		}
	})
	return names
}
