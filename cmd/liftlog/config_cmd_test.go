// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LiftLog Contributors

package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/liftlog/liftlog/internal/config"
	"github.com/liftlog/liftlog/pkg/errutil"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const showSecret = "super-secret-session-key-0123456789"

func TestConfigShow_RedactsSecrets(t *testing.T) {
	isolateConfig(t)
	t.Setenv("LIFTLOG_SESSION_SECRET", showSecret)
	t.Setenv("DATABASE_URL", "postgres://liftlog:hunter2@db:5432/liftlog")

	out, err := execute(t, "config", "show")
	require.NoError(t, err)

	assert.NotContains(t, out, showSecret)
	assert.NotContains(t, out, "hunter2")

	var tree map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &tree))
	httpSection, ok := tree["http"].(map[string]any)
	require.True(t, ok, "http section missing from %s", out)
	assert.Equal(t, "[REDACTED]", httpSection["session_secret"])
	assert.Equal(t, ":8080", httpSection["addr"])
}

func TestConfigShow_JSON(t *testing.T) {
	isolateConfig(t)
	cfgPath := writeConfig(t, "http:\n  addr: \":9090\"\nsessions:\n  ttl: 24h\n")

	out, err := execute(t, "--config", cfgPath, "config", "show", "--format", "json")
	require.NoError(t, err)

	var cfg config.Config
	require.NoError(t, json.Unmarshal([]byte(out), &cfg))
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, "24h0m0s", cfg.Sessions.TTL.Std().String())
}

func TestConfigShow_WorksWithoutRequiredValues(t *testing.T) {
	isolateConfig(t)

	_, err := execute(t, "config", "show")
	require.NoError(t, err)
}

func TestConfigShow_UnknownFormat(t *testing.T) {
	isolateConfig(t)

	_, err := execute(t, "config", "show", "--format", "toml")
	errutil.AssertErrorCode(t, err, "CONFIG_INVALID_FORMAT")
}

func TestConfigShow_InvalidFile(t *testing.T) {
	isolateConfig(t)
	cfgPath := writeConfig(t, "htttp:\n  addr: \":9090\"\n")

	_, err := execute(t, "--config", cfgPath, "config", "show")
	errutil.AssertErrorCode(t, err, "CONFIG_SCHEMA_INVALID")
}

func TestConfigSchema(t *testing.T) {
	out, err := execute(t, "config", "schema")
	require.NoError(t, err)

	var schema map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &schema))
	assert.Equal(t, config.SchemaID, schema["$id"])
	assert.Contains(t, schema["properties"], "sessions")
}
