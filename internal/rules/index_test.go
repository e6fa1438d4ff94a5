package rules

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/tmplresolve/internal/config"
)

func TestSnippetName(t *testing.T) {
	testCases := []struct {
		snippet string
		want    string
		ok      bool
	}{
		{snippet: "<Menu />", want: "menu", ok: true},
		{snippet: "<HelloWorld @x={{1}} />", want: "hello-world", ok: true},
		{snippet: "<Ui::TextField />", want: "ui/text-field", ok: true},
		{snippet: "{{menu-bar}}", want: "menu-bar", ok: true},
		{snippet: "{{#menu-bar}}{{/menu-bar}}", want: "menu-bar", ok: true},
		{snippet: `{{component "fancy-box"}}`, want: "fancy-box", ok: true},
		{snippet: "just text", ok: false},
		{snippet: "<div", ok: false},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.snippet, func(t *testing.T) {
			got, ok := SnippetName(tc.snippet)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestPreprocess(t *testing.T) {
	// Arrange
	raw := &config.ComponentRules{
		AcceptsComponentArguments: []config.ArgumentRule{
			{Name: "title"},
			{Name: "@body", Becomes: "bodyComponent"},
		},
		YieldsSafeComponents: []config.SafeYield{
			{Safe: true},
			{Fields: map[string]bool{"header": true, "ignored": false}},
		},
		YieldsArguments: []config.ArgumentYield{
			{Argument: "title"},
			{Fields: map[string]string{"header": "title", "footer": "@body"}},
			{Argument: "body"},
		},
		SafeInteriorPaths: []string{"this.widget"},
	}

	// Act
	rule, err := Preprocess(raw)

	// Assert
	require.NoError(t, err)
	want := &Rule{
		ArgumentsAreComponents: []string{"title", "body"},
		SafeInteriorPaths: []string{
			"this.widget",
			"title", "this.title", "@title",
			"bodyComponent", "this.bodyComponent", "@body",
		},
		Yields: []YieldSlot{
			{Yield: Yield{Kind: YieldSafeComponent}},
			{Fields: map[string]Yield{
				"header": {Kind: YieldSafeComponent},
				"footer": {Kind: YieldForwardsArgument, Argument: "body"},
			}},
			{Yield: Yield{Kind: YieldForwardsArgument, Argument: "body"}},
		},
	}
	if diff := cmp.Diff(want, rule); diff != "" {
		t.Errorf("compiled rule mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, rule.SafeInterior("this.bodyComponent"))
	assert.False(t, rule.SafeInterior("this.other"))
}

func TestPreprocess_Disambiguate(t *testing.T) {
	rule, err := Preprocess(&config.ComponentRules{
		Disambiguate: map[string]string{"hello": "helper", "x": "data"},
	})
	require.NoError(t, err)

	d, ok := rule.DisambiguationFor("hello")
	assert.True(t, ok)
	assert.Equal(t, DisambiguateHelper, d)
	_, ok = rule.DisambiguationFor("missing")
	assert.False(t, ok)

	_, err = Preprocess(&config.ComponentRules{Disambiguate: map[string]string{"hello": "modifier"}})
	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Contains(t, cfgErr.Message, "modifier")
}

func TestBuild(t *testing.T) {
	// Arrange
	menu := &config.ComponentRules{
		YieldsSafeComponents: []config.SafeYield{{Safe: true}},
		Layout:               &config.Layout{AddonPath: "templates/components/menu.hbs"},
	}
	pkgs := []*config.PackageRules{
		{
			Name:  "menus",
			Roots: []string{"/deps/menus", "/other/menus"},
			Components: map[string]*config.ComponentRules{
				"<Menu />":      menu,
				"{{old-thing}}": {SafeToIgnore: true},
			},
			AddonTemplates: map[string]*config.ComponentRules{
				"templates/components/list.hbs": {SafeInteriorPaths: []string{"this.row"}},
			},
		},
		{
			Name: "app-rules",
			AppTemplates: map[string]*config.ComponentRules{
				"templates/index.hbs": {Disambiguate: map[string]string{"thing": "component"}},
			},
			Components: map[string]*config.ComponentRules{
				"{{old-thing}}": {},
			},
		},
	}

	// Act
	ix, err := Build("/app", pkgs)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"menu", "old-thing"}, ix.ComponentNames())

	rule, ok := ix.Component("menu")
	require.True(t, ok)
	assert.Equal(t, YieldSafeComponent, rule.Yields[0].Kind)

	for _, p := range []string{"/deps/menus/templates/components/menu.hbs", "/other/menus/templates/components/menu.hbs"} {
		fileRule, ok := ix.File(p)
		require.True(t, ok, p)
		assert.Same(t, rule, fileRule)
	}

	list, ok := ix.File("/other/menus/templates/components/list.hbs")
	require.True(t, ok)
	assert.True(t, list.SafeInterior("this.row"))

	index, ok := ix.File("/app/templates/index.hbs")
	require.True(t, ok)
	d, _ := index.DisambiguationFor("thing")
	assert.Equal(t, DisambiguateComponent, d)

	// The later package wins for a duplicated component.
	old, _ := ix.Component("old-thing")
	assert.False(t, old.SafeToIgnore)

	components, files := ix.Len()
	assert.Equal(t, 2, components)
	assert.Equal(t, 5, files)
}

func TestBuild_Errors(t *testing.T) {
	testCases := []struct {
		name string
		pkg  *config.PackageRules
		key  string
	}{
		{
			name: "snippet without a name",
			pkg:  &config.PackageRules{Name: "p", Components: map[string]*config.ComponentRules{"plain text": {}}},
			key:  "plain text",
		},
		{
			name: "bad disambiguation",
			pkg: &config.PackageRules{Name: "p", AppTemplates: map[string]*config.ComponentRules{
				"templates/a.hbs": {Disambiguate: map[string]string{"x": "nope"}},
			}},
			key: "templates/a.hbs",
		},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := Build("/app", []*config.PackageRules{tc.pkg})
			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, "p", cfgErr.Package)
			assert.Equal(t, tc.key, cfgErr.Key)
		})
	}
}

func TestIndex_NilSafe(t *testing.T) {
	var ix *Index
	_, ok := ix.Component("x")
	assert.False(t, ok)
	_, ok = ix.File("/x")
	assert.False(t, ok)

	var r *Rule
	assert.False(t, r.SafeInterior("this.x"))
}
