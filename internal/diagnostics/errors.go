// Package diagnostics carries resolver failures: as a terminal error in
// strict mode, or as collected per-file diagnostics in audit mode.
package diagnostics

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/tmplresolve/internal/ast"
)

// Kind classifies a resolver failure.
type Kind int

const (
	// KindUnsafeDynamic is a dynamic component reference that cannot be
	// proven safe.
	KindUnsafeDynamic Kind = iota + 1
	// KindAmbiguousNoArgs is a bare {{name}} that could be data, a helper
	// or a component.
	KindAmbiguousNoArgs
	// KindAmbiguousWithArgs is a {{name arg}} the two static toggles do not
	// agree on.
	KindAmbiguousWithArgs
)

func (k Kind) String() string {
	switch k {
	case KindUnsafeDynamic:
		return "unsafe-dynamic-component"
	case KindAmbiguousNoArgs:
		return "ambiguous-no-args"
	case KindAmbiguousWithArgs:
		return "ambiguous-with-args"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// MarshalText makes Kind readable in JSON reports.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText parses the form written by MarshalText.
func (k *Kind) UnmarshalText(text []byte) error {
	for _, c := range []Kind{KindUnsafeDynamic, KindAmbiguousNoArgs, KindAmbiguousWithArgs} {
		if c.String() == string(text) {
			*k = c
			return nil
		}
	}
	return fmt.Errorf("unknown diagnostic kind %q", text)
}

// IsAmbiguity reports whether k is one of the ambiguity kinds a disambiguate
// rule can settle.
func (k Kind) IsAmbiguity() bool {
	return k == KindAmbiguousNoArgs || k == KindAmbiguousWithArgs
}

// ResolverError is the terminal failure of a strict-mode resolution.
type ResolverError struct {
	Kind    Kind
	Message string
	Detail  string
	// Name is the reference the error is about, when there is one.
	Name     string
	Loc      ast.Loc
	Filename string
}

func (e *ResolverError) Error() string {
	return fmt.Sprintf("%s: %s in %s", e.Message, e.Detail, e.Filename)
}

// IsResolverError reports whether err is or wraps a *ResolverError.
func IsResolverError(err error) bool {
	var re *ResolverError
	return errors.As(err, &re)
}

// Diagnostic is a resolver failure recorded in audit mode. Source is the
// full text of the file, so a reporter can render the offending span.
type Diagnostic struct {
	Kind     Kind    `json:"kind"`
	Message  string  `json:"message"`
	Filename string  `json:"filename"`
	Detail   string  `json:"detail"`
	Name     string  `json:"name,omitempty"`
	Loc      ast.Loc `json:"loc"`
	Source   string  `json:"-"`
}

// Snippet returns the part of Source covered by Loc, or "" when the offsets
// do not fit the source.
func (d Diagnostic) Snippet() string {
	start, end := d.Loc.Start.Offset, d.Loc.End.Offset
	if start < 0 || end > len(d.Source) || start > end {
		return ""
	}
	return d.Source[start:end]
}

// Diagnostic converts e into its audit-mode form.
func (e *ResolverError) Diagnostic(source string) Diagnostic {
	return Diagnostic{
		Kind:     e.Kind,
		Message:  e.Message,
		Filename: e.Filename,
		Detail:   e.Detail,
		Name:     e.Name,
		Loc:      e.Loc,
		Source:   source,
	}
}
