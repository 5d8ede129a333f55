package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureConfigDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	server, config, operator := "", path, ""
	ctx := newCommandContext(&server, &config, &operator)

	cfg, err := ctx.ensureConfig()
	require.NoError(t, err)
	assert.Equal(t, defaultServer, cfg.Server)
	assert.Empty(t, cfg.Token)
}

func TestConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	server, config, operator := "", path, ""
	ctx := newCommandContext(&server, &config, &operator)

	cfg, err := ctx.ensureConfig()
	require.NoError(t, err)

	cfg.Server = "https://api.example.com"
	cfg.OperatorEmail = "ops@example.com"
	cfg.Token = "tok-123"
	require.NoError(t, ctx.saveConfig(cfg))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	server2, config2, operator2 := "", path, ""
	ctx2 := newCommandContext(&server2, &config2, &operator2)
	loaded, err := ctx2.ensureConfig()
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", loaded.Server)
	assert.Equal(t, "ops@example.com", loaded.OperatorEmail)
	assert.Equal(t, "tok-123", loaded.Token)
}

func TestFlagsOverrideConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	server, config, operator := "https://flag.example.com", path, "flag@example.com"
	ctx := newCommandContext(&server, &config, &operator)

	cfg, err := ctx.ensureConfig()
	require.NoError(t, err)

	assert.Equal(t, "https://flag.example.com", ctx.serverURL(cfg))
	assert.Equal(t, "flag@example.com", ctx.operatorEmail(cfg))
}

func TestRenderTable(t *testing.T) {
	out := renderTable(
		[]string{"Name", "Count"},
		[][]string{{"alpha", "1"}, {"beta", "22"}},
		[]columnAlignment{alignLeft, alignRight},
	)
	// Header cells are upper-cased by the table style.
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "COUNT")
	assert.Contains(t, out, "alpha")
	assert.Contains(t, out, "22")
}
