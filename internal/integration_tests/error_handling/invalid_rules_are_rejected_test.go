package integration_tests

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/tmplresolve/internal/app"
	"github.com/specialistvlad/tmplresolve/internal/testutil"
)

// Test for: invalid rule files fail the run before any template is resolved.
func TestErrorHandling_InvalidRules_AreRejected(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		file    string
		content string
		errText string
	}{
		{
			name:    "hcl syntax error",
			file:    "rules/main.hcl",
			content: "package \"p\" {\n  component \"<X />\" {\n",
			errText: "failed to parse",
		},
		{
			name:    "unknown yaml key",
			file:    "rules/main.yaml",
			content: "staticComponent: true\n",
			errText: "staticComponent",
		},
		{
			name:    "snippet without a name",
			file:    "rules/main.hcl",
			content: "package \"p\" {\n  component \"just words\" {}\n}\n",
			errText: "unable to determine a component name",
		},
		{
			name:    "unknown disambiguation",
			file:    "rules/main.json",
			content: `{"activePackageRules": [{"package": "p", "appTemplates": {"templates/index.hbs": {"disambiguate": {"x": "modifier"}}}}]}`,
			errText: "disambiguate",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// --- Arrange ---
			files := map[string]string{
				tc.file:                   tc.content,
				"app/templates/index.hbs": "<HelloWorld />",
			}

			// --- Act ---
			result := testutil.RunIntegrationTest(t, files, app.Config{})

			// --- Assert ---
			require.Error(t, result.Err)
			assert.Contains(t, result.Err.Error(), tc.errText)
			assert.Nil(t, result.Report, "no report is written when the rules are invalid")
		})
	}
}
