package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/tmplresolve/internal/app"
)

// IntegrationResult holds the outcome of one end-to-end app run.
type IntegrationResult struct {
	// Root is the temporary directory the files were written under.
	Root      string
	Report    *app.Report
	Output    string
	LogOutput string
	Err       error
}

// RootPlaceholder is replaced with the temporary root in every file written
// by RunIntegrationTest, so rule files can name absolute package roots.
const RootPlaceholder = "__ROOT__"

// RunIntegrationTest writes files under a temporary root and runs the app
// over it. Rule files are read from rules/, templates from app/ and
// node_modules/; app/ is the application root unless cfg names another. Fields of cfg left
// empty are filled in accordingly.
func RunIntegrationTest(t *testing.T, files map[string]string, cfg app.Config) *IntegrationResult {
	t.Helper()

	root := t.TempDir()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		content = strings.ReplaceAll(content, RootPlaceholder, filepath.ToSlash(root))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}

	if cfg.ConfigPaths == nil {
		cfg.ConfigPaths = []string{filepath.Join(root, "rules")}
	}
	if cfg.Paths == nil {
		cfg.Paths = []string{filepath.Join(root, "app"), filepath.Join(root, "node_modules")}
	}
	if cfg.AppRoot == "" {
		cfg.AppRoot = filepath.Join(root, "app")
	}
	logs := &SafeBuffer{}
	cfg.LogOutput = logs
	cfg.LogLevel = "debug"

	c, err := app.NewConfig(cfg)
	require.NoError(t, err, "integration config must be valid")

	out := &bytes.Buffer{}
	runErr := app.New(out, c).Run(context.Background())

	if os.Getenv("TMPLRESOLVE_TEST_LOGS") == "true" {
		t.Logf("--- App log for %s ---\n%s", t.Name(), logs.String())
	}

	res := &IntegrationResult{
		Root:      root,
		Output:    out.String(),
		LogOutput: logs.String(),
		Err:       runErr,
	}
	if out.Len() > 0 {
		res.Report = &app.Report{}
		require.NoError(t, json.Unmarshal(out.Bytes(), res.Report), "report must be valid JSON")
	}
	return res
}

// File returns the report of the template at rel, a slash-separated path
// relative to Root.
func (r *IntegrationResult) File(t *testing.T, rel string) *app.FileReport {
	t.Helper()
	require.NotNil(t, r.Report, "run wrote no report")
	want := filepath.Join(r.Root, filepath.FromSlash(rel))
	for _, f := range r.Report.Files {
		if f.File == want {
			return f
		}
	}
	require.Failf(t, "template missing from report", "no report for %s", rel)
	return nil
}

// Specifiers lists the import specifiers bound for the template at rel.
func (r *IntegrationResult) Specifiers(t *testing.T, rel string) []string {
	t.Helper()
	var out []string
	for _, imp := range r.File(t, rel).Imports {
		out = append(out, imp.Specifier)
	}
	return out
}
