package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/tmplresolve/internal/app"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name       string
		args       []string
		want       *app.Config
		shouldExit bool
		errCode    int
		errText    string
		output     string
	}{
		{
			name: "defaults",
			args: []string{"app/templates"},
			want: &app.Config{
				Paths:     []string{"app/templates"},
				Workers:   app.DefaultWorkers,
				LogFormat: "text",
				LogLevel:  "info",
			},
		},
		{
			name: "all flags",
			args: []string{
				"-c", "rules.hcl", "--config", "more.yaml",
				"--app-root", "/app", "--audit", "--print",
				"--suggest-rules", "out.hcl", "--workers", "3",
				"--log-format", "JSON", "--log-level", "debug",
				"a.hbs", "b",
			},
			want: &app.Config{
				ConfigPaths:  []string{"rules.hcl", "more.yaml"},
				Paths:        []string{"a.hbs", "b"},
				AppRoot:      "/app",
				Audit:        true,
				Print:        true,
				SuggestRules: "out.hcl",
				Workers:      3,
				LogFormat:    "json",
				LogLevel:     "debug",
			},
		},
		{name: "help", args: []string{"-h"}, shouldExit: true, output: "Usage:"},
		{name: "no paths", args: []string{"--audit"}, shouldExit: true, output: "Usage:"},
		{name: "unknown flag", args: []string{"--nope", "x"}, errCode: 2, errText: "unknown flag: --nope"},
		{name: "bad log format", args: []string{"--log-format", "xml", "x"}, errCode: 2, errText: "invalid log-format"},
		{name: "bad log level", args: []string{"--log-level", "loud", "x"}, errCode: 2, errText: "invalid log-level"},
		{name: "negative workers", args: []string{"--workers", "-1", "x"}, errCode: 2, errText: "workers"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			out := &bytes.Buffer{}

			cfg, shouldExit, err := Parse(tc.args, out)

			if tc.errCode != 0 {
				require.Error(t, err)
				var exitErr *ExitError
				require.ErrorAs(t, err, &exitErr)
				assert.Equal(t, tc.errCode, exitErr.Code)
				assert.Contains(t, exitErr.Error(), tc.errText)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.shouldExit, shouldExit)
			assert.Equal(t, tc.want, cfg)
			if tc.output != "" {
				assert.Contains(t, out.String(), tc.output)
			}
		})
	}
}
