package main_test

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	main "github.com/jmendel/docpack/cmd/docpack"
	"github.com/stretchr/testify/require"
)

// precedenceArgs builds against the fake deployment without the --output
// flag so defaults from the config file and environment apply.
func precedenceArgs(ts *httptest.Server, extra ...string) []string {
	args := []string{
		"build", "--all", "--no-index", "--no-progress",
		"--frontend-url", ts.URL,
		"--documents-url", ts.URL,
		"--rate-limit", "0",
		"--name-format", "devdocs_{clean_slug}",
	}
	return append(args, extra...)
}

func TestRun_ConfigPrecedence(t *testing.T) {
	// Subtests mutate the process environment, so none run in parallel.

	archiveIn := func(t *testing.T, dir string) {
		t.Helper()
		_, err := os.Stat(filepath.Join(dir, "devdocs_mockdoc.docpack"))
		require.NoError(t, err)
	}

	t.Run("config file supplies flag defaults", func(t *testing.T) {
		ts := fakeDevdocs(t)
		dir := t.TempDir()
		outDir := filepath.Join(dir, "from-config")

		m := main.NewMain()
		m.ConfigPath = filepath.Join(dir, "config.yml")
		require.NoError(t, os.WriteFile(m.ConfigPath, []byte("output: "+outDir+"\n"), 0o644))

		err := m.Run(context.Background(), precedenceArgs(ts), &bytes.Buffer{}, &bytes.Buffer{})
		require.NoError(t, err)
		archiveIn(t, outDir)
	})

	t.Run("environment overrides the config file", func(t *testing.T) {
		ts := fakeDevdocs(t)
		dir := t.TempDir()
		fromConfig := filepath.Join(dir, "from-config")
		fromEnv := filepath.Join(dir, "from-env")

		m := main.NewMain()
		m.ConfigPath = filepath.Join(dir, "config.yml")
		require.NoError(t, os.WriteFile(m.ConfigPath, []byte("output: "+fromConfig+"\n"), 0o644))
		t.Setenv("DOCPACK_OUTPUT", fromEnv)

		err := m.Run(context.Background(), precedenceArgs(ts), &bytes.Buffer{}, &bytes.Buffer{})
		require.NoError(t, err)
		archiveIn(t, fromEnv)
	})

	t.Run("flags override the environment", func(t *testing.T) {
		ts := fakeDevdocs(t)
		dir := t.TempDir()
		fromEnv := filepath.Join(dir, "from-env")
		fromFlag := filepath.Join(dir, "from-flag")

		m := main.NewMain()
		m.ConfigPath = filepath.Join(dir, "config.yml")
		t.Setenv("DOCPACK_OUTPUT", fromEnv)

		err := m.Run(context.Background(), precedenceArgs(ts, "--output", fromFlag), &bytes.Buffer{}, &bytes.Buffer{})
		require.NoError(t, err)
		archiveIn(t, fromFlag)
	})

	t.Run("rejects a malformed config file", func(t *testing.T) {
		dir := t.TempDir()

		m := main.NewMain()
		m.ConfigPath = filepath.Join(dir, "config.yml")
		require.NoError(t, os.WriteFile(m.ConfigPath, []byte("output: [unclosed"), 0o644))

		err := m.Run(context.Background(), []string{"list"}, &bytes.Buffer{}, &bytes.Buffer{})
		require.Error(t, err)
		require.Contains(t, err.Error(), "reading config")
	})
}
