package resolver

import (
	"github.com/specialistvlad/tmplresolve/internal/ast"
	"github.com/specialistvlad/tmplresolve/internal/diagnostics"
	"github.com/specialistvlad/tmplresolve/internal/rules"
)

// Kind is the outcome class of a single resolution.
type Kind int

const (
	KindComponent Kind = iota + 1
	KindHelper
	KindModifier
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindComponent:
		return "component"
	case KindHelper:
		return "helper"
	case KindModifier:
		return "modifier"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// ErrorDetail describes why a reference could not be resolved.
type ErrorDetail struct {
	Kind    diagnostics.Kind
	Message string
	Detail  string
	Name    string
	Loc     ast.Loc
}

// Resolution is the decision for one reference. A nil *Resolution means the
// reference is left alone.
type Resolution struct {
	Kind      Kind
	Specifier string
	// Name is the canonical dashed name that was looked up.
	Name string
	// NameHint seeds the bound identifier; it is the last segment of Name.
	NameHint string

	// Component only.
	Yields                 []rules.YieldSlot
	ArgumentsAreComponents []string

	Err *ErrorDetail
}

func errorResolution(kind diagnostics.Kind, message, detail string, loc ast.Loc) *Resolution {
	return &Resolution{
		Kind: KindError,
		Err:  &ErrorDetail{Kind: kind, Message: message, Detail: detail, Loc: loc},
	}
}
