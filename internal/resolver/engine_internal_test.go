package resolver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/tmplresolve/internal/ast"
	"github.com/specialistvlad/tmplresolve/internal/config"
	"github.com/specialistvlad/tmplresolve/internal/ctxlog"
	"github.com/specialistvlad/tmplresolve/internal/rewriter"
	"github.com/specialistvlad/tmplresolve/internal/rules"
)

func newTestEngine(t *testing.T, opts config.Options, pkgs ...*config.PackageRules) *engine {
	t.Helper()
	ix, err := rules.Build("/app", pkgs)
	require.NoError(t, err)
	return &engine{
		logger:    ctxlog.FromContext(context.Background()),
		filename:  "/app/templates/index.hbs",
		opts:      opts,
		namespace: opts.SpecifierNamespace(),
		loadIndex: func() (*rules.Index, error) { return ix, nil },
		ix:        ix,
		binder:    rewriter.NewBinder(),
	}
}

// toggleCombinations returns every combination of the three static toggles.
func toggleCombinations() []config.Options {
	var out []config.Options
	for i := 0; i < 8; i++ {
		out = append(out, config.Options{
			StaticComponents: i&1 != 0,
			StaticHelpers:    i&2 != 0,
			StaticModifiers:  i&4 != 0,
		})
	}
	return out
}

func TestBuiltinsNeverResolve(t *testing.T) {
	for _, opts := range toggleCombinations() {
		e := newTestEngine(t, opts)
		for _, name := range Builtins() {
			assert.Nil(t, e.targetComponent(name), "component %q with %+v", name, opts)
			assert.Nil(t, e.targetHelper(name), "helper %q with %+v", name, opts)
			assert.Nil(t, e.targetModifier(name), "modifier %q with %+v", name, opts)
			assert.Nil(t, e.mustacheTarget(name, false, ast.Loc{}), "bare %q with %+v", name, opts)
			assert.Nil(t, e.mustacheTarget(name, true, ast.Loc{}), "call %q with %+v", name, opts)
		}
	}
}

func TestBuiltinList(t *testing.T) {
	assert.Len(t, Builtins(), 37)
	assert.True(t, IsBuiltin("yield"))
	assert.True(t, IsBuiltin("-in-element"))
	assert.False(t, IsBuiltin("hello-world"))
}

func TestSafeToIgnoreNeverResolves(t *testing.T) {
	pkg := &config.PackageRules{
		Name: "legacy",
		Components: map[string]*config.ComponentRules{
			"<OldThing />": {SafeToIgnore: true},
		},
	}
	e := newTestEngine(t, config.Options{StaticComponents: true, StaticHelpers: true, StaticModifiers: true}, pkg)

	assert.Nil(t, e.targetComponent("old-thing"))
	assert.Nil(t, e.targetHelper("old-thing"))
	assert.Nil(t, e.targetModifier("old-thing"))
	assert.Nil(t, e.mustacheTarget("old-thing", false, ast.Loc{}))
	assert.Nil(t, e.mustacheTarget("old-thing", true, ast.Loc{}))
	assert.Nil(t, e.dynamicComponent(&ast.StringLiteral{Value: "old-thing"}, nil))

	assert.NotNil(t, e.targetComponent("new-thing"))
}

func TestBareNamesAreDataWithoutStaticComponents(t *testing.T) {
	for _, opts := range toggleCombinations() {
		if opts.StaticComponents {
			continue
		}
		e := newTestEngine(t, opts)
		for _, name := range []string{"foo", "hello-world", "x-y-z", "camelCase"} {
			assert.Nil(t, e.mustacheTarget(name, false, ast.Loc{}), "%q with %+v", name, opts)
		}
	}
}

func TestTargetSpecifiers(t *testing.T) {
	e := newTestEngine(t, config.Options{StaticComponents: true, StaticHelpers: true, StaticModifiers: true})

	testCases := []struct {
		res       *Resolution
		kind      Kind
		specifier string
		hint      string
	}{
		{res: e.targetComponent("ui/text-field"), kind: KindComponent, specifier: "#compat/components/ui/text-field", hint: "text-field"},
		{res: e.targetHelper("format-date"), kind: KindHelper, specifier: "#compat/helpers/format-date", hint: "format-date"},
		{res: e.targetModifier("auto-focus"), kind: KindModifier, specifier: "#compat/modifiers/auto-focus", hint: "auto-focus"},
		{res: e.mustacheTarget("a/b", false, ast.Loc{}), kind: KindComponent, specifier: "#compat/ambiguous/a/b", hint: "b"},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.specifier, func(t *testing.T) {
			require.NotNil(t, tc.res)
			assert.Equal(t, tc.kind, tc.res.Kind)
			assert.Equal(t, tc.specifier, tc.res.Specifier)
			assert.Equal(t, tc.hint, tc.res.NameHint)
		})
	}
}

func TestIsComponentTag(t *testing.T) {
	testCases := map[string]bool{
		"HelloWorld": true,
		"Ui::Button": true,
		"A1":         true,
		"div":        false,
		"my-element": false,
		"@slot":      false,
		":header":    false,
		"Foo.Bar":    false,
		"":           false,
	}
	for tag, want := range testCases {
		assert.Equal(t, want, isComponentTag(tag), tag)
	}
}
