package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/f9-o/devctl/internal/core/config"
	"github.com/f9-o/devctl/internal/core/logger"
	"github.com/f9-o/devctl/internal/core/registry"
	"github.com/f9-o/devctl/internal/core/state"
)

// newTestRuntime loads the default config for an empty project under a
// private DEVCTL_HOME and opens a fresh history database.
func newTestRuntime(t *testing.T) *Runtime {
	t.Helper()
	home := t.TempDir()
	t.Setenv("DEVCTL_HOME", home)
	root := t.TempDir()
	testChdir(t, root)

	cfg, err := config.Load("")
	require.NoError(t, err)

	db, err := state.Open(filepath.Join(home, "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return &Runtime{
		Config:   cfg,
		Log:      logger.Discard(),
		State:    db,
		Registry: registry.New(),
		Root:     root,
	}
}

// execute runs cmd with args under rt and returns everything it printed.
func execute(t *testing.T, rt *Runtime, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(NewContext(context.Background(), rt))
	return out.String(), err
}

// writeScript creates an executable shell script named name in dir.
func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))
	return path
}

// testChdir changes the working directory for the duration of the test and
// restores it on cleanup (stand-in for testing.T.Chdir, added in Go 1.24).
func testChdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
