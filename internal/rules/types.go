package rules

import (
	"fmt"
	"slices"
)

// YieldKind classifies what is known about one yielded value.
type YieldKind int

const (
	// YieldNotSafe means nothing is known; using the value as a component is
	// an unsafe dynamic use.
	YieldNotSafe YieldKind = iota
	// YieldSafeComponent means the value is a component the resolver has
	// already seen to.
	YieldSafeComponent
	// YieldForwardsArgument means the value is one of the component's own
	// named arguments, passed back out.
	YieldForwardsArgument
)

func (k YieldKind) String() string {
	switch k {
	case YieldSafeComponent:
		return "safe-component"
	case YieldForwardsArgument:
		return "forwards-argument"
	default:
		return "not-safe"
	}
}

// Yield is what is known about a yielded value or one of its fields.
type Yield struct {
	Kind YieldKind
	// Argument is the forwarded argument name when Kind is
	// YieldForwardsArgument.
	Argument string
}

// YieldSlot describes the block parameter at one position: the value as a
// whole, and any of its fields reached with a second path segment.
type YieldSlot struct {
	Yield
	Fields map[string]Yield
}

// Field returns what is known about name within the slot.
func (s YieldSlot) Field(name string) Yield {
	return s.Fields[name]
}

// Disambiguation is a per-file choice for an otherwise ambiguous bare name.
type Disambiguation int

const (
	DisambiguateComponent Disambiguation = iota + 1
	DisambiguateHelper
	DisambiguateData
)

func (d Disambiguation) String() string {
	switch d {
	case DisambiguateComponent:
		return "component"
	case DisambiguateHelper:
		return "helper"
	case DisambiguateData:
		return "data"
	default:
		return fmt.Sprintf("Disambiguation(%d)", int(d))
	}
}

// ParseDisambiguation maps the rule-file spelling to a Disambiguation.
func ParseDisambiguation(s string) (Disambiguation, bool) {
	switch s {
	case "component":
		return DisambiguateComponent, true
	case "helper":
		return DisambiguateHelper, true
	case "data":
		return DisambiguateData, true
	}
	return 0, false
}

// Rule is a preprocessed component or template rule.
type Rule struct {
	SafeToIgnore bool
	// ArgumentsAreComponents lists named arguments (without "@") whose
	// values must themselves resolve as components.
	ArgumentsAreComponents []string
	// SafeInteriorPaths are dotted paths the file's author asserts are safe
	// to pass to the dynamic component form.
	SafeInteriorPaths []string
	Yields            []YieldSlot
	Disambiguate      map[string]Disambiguation
}

// SafeInterior reports whether path is listed in SafeInteriorPaths. A nil
// rule lists nothing.
func (r *Rule) SafeInterior(path string) bool {
	if r == nil {
		return false
	}
	return slices.Contains(r.SafeInteriorPaths, path)
}

// DisambiguationFor returns the file's choice for name, if any.
func (r *Rule) DisambiguationFor(name string) (Disambiguation, bool) {
	if r == nil {
		return 0, false
	}
	d, ok := r.Disambiguate[name]
	return d, ok
}

// ConfigError reports a rule declaration that cannot be compiled. It is
// fatal: the resolver never runs with a partially compiled index.
type ConfigError struct {
	Package string
	Key     string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid rule %q in package %q: %s", e.Key, e.Package, e.Message)
}
