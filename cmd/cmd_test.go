package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grafana/k6x"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func writeScripts(t *testing.T, scripts map[string]string) string {
	t.Helper()

	dir := t.TempDir()

	for name, src := range scripts {
		file := filepath.Join(dir, filepath.FromSlash(name))

		require.NoError(t, os.MkdirAll(filepath.Dir(file), 0o755))
		require.NoError(t, os.WriteFile(file, []byte(src), 0o644))
	}

	return dir
}

func run(cmd *cobra.Command, args ...string) (string, error) {
	var out bytes.Buffer

	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())

	return out.String(), err
}

var testScripts = map[string]string{ //nolint:gochecknoglobals
	"script.js": "\"use k6 >= 0.50\";\n" +
		"\"use k6 with k6/x/faker >= 0.3\";\n" +
		"import { open } from \"./lib/db.js\";\n",
	"lib/db.js": "\"use k6 with k6/x/sql >= 0.4\";\n",
}

func TestDeps(t *testing.T) {
	t.Parallel()

	dir := writeScripts(t, testScripts)
	script := filepath.Join(dir, "script.js")

	out, err := run(NewDeps(), script)
	require.NoError(t, err)
	require.Equal(t, "k6 >=0.50.0\nk6/x/faker >=0.3.0\nk6/x/sql >=0.4.0\n", out)

	out, err = run(NewDeps(), "--json", "--with", "dashboard@v0.2", script)
	require.NoError(t, err)
	require.JSONEq(t, `{"k6":">=0.50.0","k6/x/faker":">=0.3.0","k6/x/sql":">=0.4.0","dashboard":">=0.2.0"}`, out)

	out, err = run(NewDeps(), "--with", "k6@v0.49")
	require.NoError(t, err)
	require.Equal(t, "k6 >=0.49.0\n", out)

	_, err = run(NewDeps(), "--with", "k6/x/faker@", script)
	require.ErrorIs(t, err, k6x.ErrInvalidDependencyFormat)

	_, err = run(NewDeps(), filepath.Join(dir, "missing.js"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestManifest(t *testing.T) {
	t.Parallel()

	dir := writeScripts(t, testScripts)
	script := filepath.Join(dir, "script.js")

	const canonical = "k6@v0.50.0,k6/x/faker@v0.3.0,k6/x/sql@v0.4.0"

	testCases := []struct {
		title       string
		args        []string
		expect      string
		expectError error
	}{
		{title: "canonical", args: []string{script}, expect: canonical},
		{
			title:  "path",
			args:   []string{"--path", "--platform", "linux/arm64", script},
			expect: "/linux/arm64/" + canonical,
		},
		{
			title:  "query",
			args:   []string{"--query", "-p", "windows/amd64", script},
			expect: "/windows/amd64/k6/x/faker,k6/x/sql",
		},
		{
			title:       "unsupported platform",
			args:        []string{"--query", "--platform", "plan9/386", script},
			expectError: ErrUnsupportedPlatform,
		},
		{
			title:       "invalid platform",
			args:        []string{"--platform", "linux", script},
			expectError: k6x.ErrInvalidPlatform,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.title, func(t *testing.T) {
			t.Parallel()

			out, err := run(NewManifest(), tc.args...)
			require.ErrorIs(t, err, tc.expectError)

			if tc.expectError != nil {
				return
			}

			require.Equal(t, tc.expect, strings.TrimSpace(out))
		})
	}
}

func TestManifestKey(t *testing.T) {
	t.Parallel()

	dir := writeScripts(t, testScripts)

	key, err := run(NewManifest(), "--key", filepath.Join(dir, "script.js"))
	require.NoError(t, err)

	// same requirements given in the command line
	other, err := run(
		NewManifest(),
		"--key",
		"--with", "k6/x/sql@v0.4",
		"--with", "k6@v0.50.0",
		"--with", "k6/x/faker@0.3.0",
	)
	require.NoError(t, err)
	require.Equal(t, key, other)
}

func TestManifestJSON(t *testing.T) {
	t.Parallel()

	dir := writeScripts(t, testScripts)

	out, err := run(NewManifest(), "--json", filepath.Join(dir, "script.js"))
	require.NoError(t, err)
	require.JSONEq(t, `{
		"k6": "0.50.0",
		"extensions": [
			{"name": "k6/x/faker", "version": "0.3.0"},
			{"name": "k6/x/sql", "version": "0.4.0"}
		]
	}`, out)

	_, err = run(NewManifest(), "--json", "--key", filepath.Join(dir, "script.js"))
	require.Error(t, err)
}

//nolint:paralleltest
func TestEnvironment(t *testing.T) {
	t.Setenv("K6X_WITH", "k6/x/faker@v0.3.0,k6@v0.50.0")
	t.Setenv("K6X_LOG_LEVEL", "debug")

	out, err := run(NewManifest())
	require.NoError(t, err)
	require.Equal(t, "k6@v0.50.0,k6/x/faker@v0.3.0\n", out)

	// flags take precedence over the environment
	out, err = run(NewManifest(), "--with", "k6/x/sql")
	require.NoError(t, err)
	require.Equal(t, "k6@v0.0.0,k6/x/sql@v0.0.0\n", out)

	t.Setenv("K6X_LOG_LEVEL", "loud")

	_, err = run(NewManifest())
	require.Error(t, err)
}
