package config

// DefaultNamespace is the prefix of every emitted import specifier unless a
// rule file overrides it.
const DefaultNamespace = "#compat"

// Model is the unified, format-agnostic representation of the resolver
// configuration for one application.
type Model struct {
	Options Options
	// OptionsSet records that Options came from a file rather than defaults.
	OptionsSet bool
	// AppRoot is the absolute path of the application; app template rules
	// are keyed relative to it.
	AppRoot  string
	Packages []*PackageRules
}

// Options are the global toggles that decide which kinds of reference are
// resolved statically.
type Options struct {
	StaticComponents bool
	StaticHelpers    bool
	StaticModifiers  bool
	// AllowUnsafeDynamicComponents drops dynamic-component errors instead of
	// failing the file.
	AllowUnsafeDynamicComponents bool
	// Namespace prefixes every specifier, e.g. "#compat/components/foo".
	Namespace string
	// Locals are names bound around the whole template by its host.
	Locals []string
}

// PackageRules holds the rules one package contributes.
type PackageRules struct {
	Name string
	// Roots are the absolute directories the package is installed under.
	Roots []string
	// Components is keyed by an invocation snippet such as "<Menu />" or
	// "{{menu-bar}}".
	Components map[string]*ComponentRules
	// AppTemplates is keyed by a path relative to the application root.
	AppTemplates map[string]*ComponentRules
	// AddonTemplates is keyed by a path relative to each of Roots.
	AddonTemplates map[string]*ComponentRules
}

// ComponentRules is a raw, human-authored rule for a component or a
// template file.
type ComponentRules struct {
	SafeToIgnore              bool
	AcceptsComponentArguments []ArgumentRule
	YieldsSafeComponents      []SafeYield
	YieldsArguments           []ArgumentYield
	// Disambiguate maps a bare name used in this file to "component",
	// "helper" or "data".
	Disambiguate      map[string]string
	SafeInteriorPaths []string
	Layout            *Layout
}

// ArgumentRule names a named argument whose value is a component. Becomes is
// the property the component stores it under; it defaults to Name.
type ArgumentRule struct {
	Name    string
	Becomes string
}

// SafeYield describes one yielded block parameter: either the whole value is
// a safe component, or some of its fields are.
type SafeYield struct {
	Safe   bool
	Fields map[string]bool
}

// ArgumentYield describes one yielded block parameter that forwards one of
// the component's own named arguments, either whole or per field.
type ArgumentYield struct {
	Argument string
	Fields   map[string]string
}

// Layout locates a component's own template inside its package.
type Layout struct {
	AddonPath string
	AppPath   string
}

// Merge appends other's packages to m and takes other's options and app
// root when they are set.
func (m *Model) Merge(other *Model) {
	if other == nil {
		return
	}
	if other.OptionsSet {
		m.Options = other.Options
		m.OptionsSet = true
	}
	if other.AppRoot != "" {
		m.AppRoot = other.AppRoot
	}
	m.Packages = append(m.Packages, other.Packages...)
}

// SpecifierNamespace returns the configured namespace or DefaultNamespace.
func (o Options) SpecifierNamespace() string {
	if o.Namespace == "" {
		return DefaultNamespace
	}
	return o.Namespace
}
