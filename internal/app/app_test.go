package app_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/specialistvlad/tmplresolve/internal/app"
	"github.com/specialistvlad/tmplresolve/internal/hcl"
	"github.com/specialistvlad/tmplresolve/internal/testutil"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// report mirrors app.Report with diagnostic kinds kept as text.
type report struct {
	RunID string `json:"run_id"`
	Mode  string `json:"mode"`
	Files []struct {
		File    string `json:"file"`
		Imports []struct {
			Specifier  string `json:"specifier"`
			Identifier string `json:"identifier"`
		} `json:"imports"`
		Rewrites    int    `json:"rewrites"`
		Template    string `json:"template"`
		Error       string `json:"error"`
		Diagnostics []struct {
			Kind    string `json:"kind"`
			Message string `json:"message"`
			Name    string `json:"name"`
		} `json:"diagnostics"`
	} `json:"files"`
	Summary app.Summary `json:"summary"`
}

type fixture struct {
	root  string
	rules string
}

func newFixture(t *testing.T, templates map[string]string) *fixture {
	t.Helper()
	root := t.TempDir()
	for name, src := range templates {
		p := filepath.Join(root, "templates", name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(src), 0o644))
	}
	rules := filepath.Join(t.TempDir(), "rules.hcl")
	content := fmt.Sprintf("options {\n  app_root = %q\n  static_components = true\n}\n", root)
	require.NoError(t, os.WriteFile(rules, []byte(content), 0o644))
	return &fixture{root: root, rules: rules}
}

func (f *fixture) run(t *testing.T, cfg app.Config) (*report, *testutil.SafeBuffer, error) {
	t.Helper()
	logs := &testutil.SafeBuffer{}
	if cfg.ConfigPaths == nil {
		cfg.ConfigPaths = []string{f.rules}
	}
	if cfg.Paths == nil {
		cfg.Paths = []string{filepath.Join(f.root, "templates")}
	}
	cfg.LogOutput = logs
	cfg.LogLevel = "debug"
	c, err := app.NewConfig(cfg)
	require.NoError(t, err)

	out := &bytes.Buffer{}
	runErr := app.New(out, c).Run(context.Background())

	var rep report
	if out.Len() > 0 {
		require.NoError(t, json.Unmarshal(out.Bytes(), &rep), out.String())
	}
	return &rep, logs, runErr
}

func TestRun_StrictSuccess(t *testing.T) {
	// Arrange
	f := newFixture(t, map[string]string{
		"index.hbs":            "<HelloWorld />",
		"components/thing.hbs": "<div>{{this.name}}</div>",
	})

	// Act
	rep, logs, err := f.run(t, app.Config{Print: true, Workers: 2})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "strict", rep.Mode)
	assert.NotEmpty(t, rep.RunID)
	require.Len(t, rep.Files, 2)
	assert.Equal(t, app.Summary{Files: 2, Rewrites: 1}, rep.Summary)

	byName := map[string]int{}
	for i, fr := range rep.Files {
		byName[filepath.Base(fr.File)] = i
	}
	index := rep.Files[byName["index.hbs"]]
	require.Len(t, index.Imports, 1)
	assert.Equal(t, "#compat/components/hello-world", index.Imports[0].Specifier)
	assert.Equal(t, "helloWorld_", index.Imports[0].Identifier)
	assert.Equal(t, "<helloWorld_ />", index.Template)

	thing := rep.Files[byName["thing.hbs"]]
	assert.Empty(t, thing.Imports)
	assert.Equal(t, "<div>{{this.name}}</div>", thing.Template)

	assert.Contains(t, logs.String(), "run_id="+rep.RunID)
	assert.Contains(t, logs.String(), "Resolution run finished.")
}

func TestRun_StrictFailureReportsEveryFile(t *testing.T) {
	f := newFixture(t, map[string]string{
		"a.hbs": "{{hello-world}}",
		"b.hbs": "<HelloWorld />",
		"c.hbs": "{{#if}}",
	})

	rep, _, err := f.run(t, app.Config{})

	require.Error(t, err)
	assert.True(t, errors.Is(err, app.ErrUnresolved))
	assert.Contains(t, err.Error(), "2 of 3")
	require.Len(t, rep.Files, 3)
	assert.Equal(t, 2, rep.Summary.Failed)
	for _, fr := range rep.Files {
		switch filepath.Base(fr.File) {
		case "a.hbs":
			assert.Contains(t, fr.Error, "ambiguous")
		case "b.hbs":
			assert.Empty(t, fr.Error)
			assert.Len(t, fr.Imports, 1)
		case "c.hbs":
			assert.Contains(t, fr.Error, "parse error")
		}
		assert.Empty(t, fr.Template)
	}
}

func TestRun_AuditSuggestsRules(t *testing.T) {
	// Arrange
	f := newFixture(t, map[string]string{
		"index.hbs": "{{hello-world}}\n{{user-card}}\n<Known />",
	})
	suggested := filepath.Join(t.TempDir(), "suggested.hcl")

	// Act
	rep, _, err := f.run(t, app.Config{Audit: true, SuggestRules: suggested})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "audit", rep.Mode)
	require.Len(t, rep.Files, 1)
	diags := rep.Files[0].Diagnostics
	require.Len(t, diags, 2)
	assert.Equal(t, "ambiguous-no-args", diags[0].Kind)
	assert.Equal(t, "hello-world", diags[0].Name)
	assert.Equal(t, "user-card", diags[1].Name)
	assert.Equal(t, 2, rep.Summary.Diagnostics)
	assert.Len(t, rep.Files[0].Imports, 1)

	model, err := hcl.NewLoader().Load(context.Background(), suggested)
	require.NoError(t, err)
	require.Len(t, model.Packages, 1)
	rule := model.Packages[0].AppTemplates["templates/index.hbs"]
	require.NotNil(t, rule)
	assert.Equal(t, map[string]string{"hello-world": "component", "user-card": "component"}, rule.Disambiguate)

	// The suggested rules settle every ambiguity in strict mode.
	rep, _, err = f.run(t, app.Config{ConfigPaths: []string{f.rules, suggested}, Print: true})
	require.NoError(t, err)
	assert.Equal(t, "{{helloWorld_}}\n{{userCard_}}\n<known_ />", rep.Files[0].Template)
	assert.Equal(t, 3, rep.Summary.Rewrites)
}

func TestRun_YAMLRules(t *testing.T) {
	f := newFixture(t, map[string]string{"index.hbs": `{{if (format-date this.when) "x"}}`})
	rules := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(rules, []byte(fmt.Sprintf("appRoot: %q\nstaticHelpers: true\n", f.root)), 0o644))

	rep, _, err := f.run(t, app.Config{ConfigPaths: []string{rules}, Print: true})

	require.NoError(t, err)
	assert.Equal(t, `{{if (formatDate_ this.when) "x"}}`, rep.Files[0].Template)
	assert.Equal(t, "#compat/helpers/format-date", rep.Files[0].Imports[0].Specifier)
}

func TestRun_AppRootOverride(t *testing.T) {
	f := newFixture(t, map[string]string{"index.hbs": "{{hello-world}}"})
	rules := filepath.Join(t.TempDir(), "rules.hcl")
	require.NoError(t, os.WriteFile(rules, []byte(`
options {
  app_root          = "/nowhere"
  static_components = true
}
package "app" {
  app_template "templates/index.hbs" {
    disambiguate = { "hello-world" = "data" }
  }
}
`), 0o644))

	_, _, err := f.run(t, app.Config{ConfigPaths: []string{rules}})
	require.Error(t, err)

	rep, _, err := f.run(t, app.Config{ConfigPaths: []string{rules}, AppRoot: f.root})
	require.NoError(t, err)
	assert.Zero(t, rep.Summary.Rewrites)
}

func TestRun_ConfigErrors(t *testing.T) {
	f := newFixture(t, map[string]string{"index.hbs": "<A />"})

	testCases := []struct {
		name    string
		content string
		errText string
	}{
		{name: "syntax", content: "options {", errText: "failed to load configuration"},
		{name: "bad snippet", content: "package \"p\" {\n  component \"just text\" {}\n}\n", errText: "failed to compile rules"},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			rules := filepath.Join(t.TempDir(), "rules.hcl")
			require.NoError(t, os.WriteFile(rules, []byte(tc.content), 0o644))

			rep, _, err := f.run(t, app.Config{ConfigPaths: []string{rules}})

			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errText)
			assert.Empty(t, rep.Files)
		})
	}
}

func TestNewConfig(t *testing.T) {
	_, err := app.NewConfig(app.Config{})
	require.Error(t, err)

	_, err = app.NewConfig(app.Config{Paths: []string{"x"}, Workers: -1})
	require.Error(t, err)

	cfg, err := app.NewConfig(app.Config{Paths: []string{"x"}})
	require.NoError(t, err)
	assert.Equal(t, app.DefaultWorkers, cfg.Workers)
}
