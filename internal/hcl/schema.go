package hcl

import "github.com/hashicorp/hcl/v2"

// fileRoot is a struct used to decode all possible top-level blocks from any file.
type fileRoot struct {
	Options  *optionsBlock   `hcl:"options,block"`
	Packages []*packageBlock `hcl:"package,block"`
	Remain   hcl.Body        `hcl:",remain"`
}

type optionsBlock struct {
	AppRoot                      string   `hcl:"app_root,optional"`
	StaticComponents             bool     `hcl:"static_components,optional"`
	StaticHelpers                bool     `hcl:"static_helpers,optional"`
	StaticModifiers              bool     `hcl:"static_modifiers,optional"`
	AllowUnsafeDynamicComponents bool     `hcl:"allow_unsafe_dynamic_components,optional"`
	Namespace                    string   `hcl:"namespace,optional"`
	Locals                       []string `hcl:"locals,optional"`
}

type packageBlock struct {
	Name           string       `hcl:"name,label"`
	Roots          []string     `hcl:"roots,optional"`
	Components     []*ruleBlock `hcl:"component,block"`
	AppTemplates   []*ruleBlock `hcl:"app_template,block"`
	AddonTemplates []*ruleBlock `hcl:"addon_template,block"`
}

// ruleBlock is shared by component, app_template and addon_template blocks.
// The three yield and argument attributes mix strings, booleans, nulls and
// objects, so they are kept as raw expressions and translated by hand.
type ruleBlock struct {
	Key                       string            `hcl:"key,label"`
	SafeToIgnore              bool              `hcl:"safe_to_ignore,optional"`
	AcceptsComponentArguments hcl.Expression    `hcl:"accepts_component_arguments,optional"`
	YieldsSafeComponents      hcl.Expression    `hcl:"yields_safe_components,optional"`
	YieldsArguments           hcl.Expression    `hcl:"yields_arguments,optional"`
	Disambiguate              map[string]string `hcl:"disambiguate,optional"`
	SafeInteriorPaths         []string          `hcl:"safe_interior_paths,optional"`
	Layout                    *layoutBlock      `hcl:"layout,block"`
}

type layoutBlock struct {
	AddonPath string `hcl:"addon_path,optional"`
	AppPath   string `hcl:"app_path,optional"`
}
