// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LiftLog Contributors

package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liftlog/liftlog/internal/config"
)

// isolateConfig keeps the developer's config, dotenv and environment out
// of a test.
func isolateConfig(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for name := range config.EnvKeys() {
		t.Setenv(name, "")
	}
}

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	envArgs := []string{"--env-file", filepath.Join(t.TempDir(), "missing.env")}
	cmd.SetArgs(append(envArgs, args...))
	err := cmd.Execute()
	return buf.String(), err
}

func TestRootCommand_HasExpectedSubcommands(t *testing.T) {
	output, err := execute(t, "--help")
	require.NoError(t, err)

	for _, sub := range []string{"serve", "migrate", "status", "config"} {
		assert.Contains(t, output, sub, "Help missing %q command", sub)
	}
}

func TestRootCommand_PersistentFlags(t *testing.T) {
	output, err := execute(t, "--help")
	require.NoError(t, err)

	for _, flag := range []string{"--config", "--env-file", "--database-url", "--http-addr", "--log-level"} {
		assert.Contains(t, output, flag)
	}
}

func TestRootCommand_ConfigFlag(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantFlag string
	}{
		{
			name:     "separate value",
			args:     []string{"--config", "/path/to/config.yaml", "--help"},
			wantFlag: "/path/to/config.yaml",
		},
		{
			name:     "with equals",
			args:     []string{"--config=/etc/liftlog.yaml", "--help"},
			wantFlag: "/etc/liftlog.yaml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.wantFlag, configFile)
		})
	}
}

func TestLoadOptions(t *testing.T) {
	t.Run("explicit config is required", func(t *testing.T) {
		cmd := NewRootCmd()
		require.NoError(t, cmd.ParseFlags([]string{"--config", "/etc/liftlog.yaml"}))

		opts := loadOptions(cmd)
		assert.Equal(t, "/etc/liftlog.yaml", opts.File)
		assert.True(t, opts.Required)
		assert.Equal(t, defaultEnvFile, opts.EnvFile)
	})

	t.Run("xdg default is optional", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", dir)
		cmd := NewRootCmd()
		require.NoError(t, cmd.ParseFlags(nil))

		opts := loadOptions(cmd)
		assert.Equal(t, filepath.Join(dir, "liftlog", "config.yaml"), opts.File)
		assert.False(t, opts.Required)
	})
}

func TestRootCommand_Version(t *testing.T) {
	cmd := NewRootCmd()
	cmd.Version = "1.2.3"
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--version"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "1.2.3")
}
