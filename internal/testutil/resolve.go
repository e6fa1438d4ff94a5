package testutil

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/tmplresolve/internal/ast"
	"github.com/specialistvlad/tmplresolve/internal/config"
	"github.com/specialistvlad/tmplresolve/internal/ctxlog"
	"github.com/specialistvlad/tmplresolve/internal/parser"
	"github.com/specialistvlad/tmplresolve/internal/resolver"
)

// AppRoot is the application root used by Model.
const AppRoot = "/app"

// IndexFile is the template path ResolveTemplate resolves as.
const IndexFile = AppRoot + "/templates/index.hbs"

// Model builds a configuration rooted at AppRoot.
func Model(opts config.Options, pkgs ...*config.PackageRules) *config.Model {
	return &config.Model{
		Options:    opts,
		OptionsSet: true,
		AppRoot:    AppRoot,
		Packages:   pkgs,
	}
}

// ResolveResult holds the outcome of resolving one template string.
type ResolveResult struct {
	// Output is the rewritten template printed back to source.
	Output    string
	Tree      *ast.Template
	Result    *resolver.Result
	Err       error
	LogOutput string
}

// ResolveTemplate parses src and resolves it as IndexFile.
func ResolveTemplate(t *testing.T, src string, model *config.Model, opts ...resolver.Option) *ResolveResult {
	t.Helper()
	return ResolveFile(t, IndexFile, src, model, opts...)
}

// ResolveFile parses src and resolves it as filename with a debug logger
// attached to the context.
func ResolveFile(t *testing.T, filename, src string, model *config.Model, opts ...resolver.Option) *ResolveResult {
	t.Helper()

	tree, err := parser.Parse(src)
	require.NoError(t, err, "template must parse")

	logs := &SafeBuffer{}
	logger := slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := ctxlog.WithLogger(context.Background(), logger)

	res, err := resolver.Resolve(ctx, tree, filename, model, opts...)

	if os.Getenv("TMPLRESOLVE_TEST_LOGS") == "true" {
		t.Logf("--- Resolver log for %s ---\n%s", t.Name(), logs.String())
	}
	return &ResolveResult{
		Output:    ast.Print(tree),
		Tree:      tree,
		Result:    res,
		Err:       err,
		LogOutput: logs.String(),
	}
}
