package yamlrules

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

type fileRoot struct {
	AppRoot                      string         `yaml:"appRoot"`
	StaticComponents             *bool          `yaml:"staticComponents"`
	StaticHelpers                *bool          `yaml:"staticHelpers"`
	StaticModifiers              *bool          `yaml:"staticModifiers"`
	AllowUnsafeDynamicComponents *bool          `yaml:"allowUnsafeDynamicComponents"`
	Namespace                    *string        `yaml:"namespace"`
	Locals                       []string       `yaml:"locals"`
	ActivePackageRules           []*packageRule `yaml:"activePackageRules"`
}

// hasOptions reports whether the file sets any resolver toggle.
func (r *fileRoot) hasOptions() bool {
	return r.StaticComponents != nil || r.StaticHelpers != nil || r.StaticModifiers != nil ||
		r.AllowUnsafeDynamicComponents != nil || r.Namespace != nil || r.Locals != nil
}

type packageRule struct {
	Package        string                `yaml:"package"`
	Roots          []string              `yaml:"roots"`
	Components     map[string]*fileRules `yaml:"components"`
	AppTemplates   map[string]*fileRules `yaml:"appTemplates"`
	AddonTemplates map[string]*fileRules `yaml:"addonTemplates"`
}

type fileRules struct {
	SafeToIgnore              bool              `yaml:"safeToIgnore"`
	AcceptsComponentArguments []argumentRule    `yaml:"acceptsComponentArguments"`
	YieldsSafeComponents      []safeYield       `yaml:"yieldsSafeComponents"`
	YieldsArguments           []argumentYield   `yaml:"yieldsArguments"`
	Disambiguate              map[string]string `yaml:"disambiguate"`
	SafeInteriorPaths         []string          `yaml:"safeInteriorPaths"`
	Layout                    *layout           `yaml:"layout"`
}

type layout struct {
	AddonPath string `yaml:"addonPath"`
	AppPath   string `yaml:"appPath"`
}

// argumentRule is written as a bare name or as {name, becomes}.
type argumentRule struct {
	Name    string
	Becomes string
}

func (a *argumentRule) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.ScalarNode:
		return n.Decode(&a.Name)
	case yaml.MappingNode:
		var aux struct {
			Name    string `yaml:"name"`
			Becomes string `yaml:"becomes"`
		}
		if err := n.Decode(&aux); err != nil {
			return err
		}
		if aux.Name == "" {
			return fmt.Errorf("line %d: component argument needs a name", n.Line)
		}
		*a = argumentRule(aux)
		return nil
	default:
		return fmt.Errorf("line %d: component argument must be a string or a mapping", n.Line)
	}
}

// safeYield is written as a boolean or as a mapping of field to boolean.
// A null entry decodes to the zero value.
type safeYield struct {
	Safe   bool
	Fields map[string]bool
}

func (y *safeYield) UnmarshalYAML(n *yaml.Node) error {
	switch {
	case n.Kind == yaml.ScalarNode && n.ShortTag() == "!!bool":
		return n.Decode(&y.Safe)
	case n.Kind == yaml.MappingNode:
		return n.Decode(&y.Fields)
	default:
		return fmt.Errorf("line %d: yielded component must be a boolean, null or a mapping", n.Line)
	}
}

// argumentYield is written as an argument name or as a mapping of field to
// argument name. A null entry decodes to the zero value.
type argumentYield struct {
	Argument string
	Fields   map[string]string
}

func (y *argumentYield) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.ScalarNode:
		return n.Decode(&y.Argument)
	case yaml.MappingNode:
		return n.Decode(&y.Fields)
	default:
		return fmt.Errorf("line %d: yielded argument must be a string, null or a mapping", n.Line)
	}
}
