package resolver

import (
	"fmt"

	"github.com/specialistvlad/tmplresolve/internal/ast"
	"github.com/specialistvlad/tmplresolve/internal/diagnostics"
)

// impliedBy names the component argument that made a value be treated as a
// component.
type impliedBy struct {
	component string
	argument  string
}

// dynamicComponent classifies a value passed where a component is expected:
// the first argument of {{component ...}}, or a named argument listed in
// a component's argumentsAreComponents.
func (e *engine) dynamicComponent(param ast.Node, implied *impliedBy) *Resolution {
	if !e.opts.StaticComponents {
		return nil
	}
	switch p := param.(type) {
	case *ast.StringLiteral:
		return e.targetComponent(p.Value)
	case *ast.TextNode:
		return e.targetComponent(p.Chars)
	case *ast.PathExpression:
		return e.dynamicPath(p, implied)
	case *ast.MustacheStatement:
		if len(p.Params) == 0 && p.Hash.Len() == 0 {
			return e.dynamicComponent(p.Path, implied)
		}
		if isCall(p.Path, "component") {
			return nil
		}
	case *ast.SubExpression:
		if isCall(p.Path, "component") || isCall(p.Path, "ensure-safe-component") {
			return nil
		}
	}
	return errorResolution(diagnostics.KindUnsafeDynamic,
		"Unsafe dynamic component",
		"cannot statically analyze this expression",
		param.Location())
}

func (e *engine) dynamicPath(p *ast.PathExpression, implied *impliedBy) *Resolution {
	if e.scope.SafeComponentInScope(p.Original) || e.fileRule.SafeInterior(p.Original) {
		return nil
	}
	message := "Unsafe dynamic component"
	if implied != nil {
		message = fmt.Sprintf("argument %q to component %q is treated as a component, but the value you're passing is dynamic",
			implied.argument, implied.component)
	}
	res := errorResolution(diagnostics.KindUnsafeDynamic, message, p.Original, p.Loc)
	res.Err.Name = p.Original
	return res
}

// dynamicHelper resolves (helper "name"). Any other argument is a runtime
// value and is left alone.
func (e *engine) dynamicHelper(param ast.Expression) *Resolution {
	if lit, ok := param.(*ast.StringLiteral); ok {
		return e.targetHelper(lit.Value)
	}
	return nil
}

// dynamicModifier resolves (modifier "name") like dynamicHelper.
func (e *engine) dynamicModifier(param ast.Expression) *Resolution {
	if lit, ok := param.(*ast.StringLiteral); ok {
		return e.targetModifier(lit.Value)
	}
	return nil
}

func isCall(callee ast.Expression, name string) bool {
	path, ok := callee.(*ast.PathExpression)
	return ok && path.Original == name
}
