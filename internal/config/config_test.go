package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	// Run from a directory without a config.yaml so only defaults apply.
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "expense-tracker.db", cfg.Database.Path)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "categories.yaml", cfg.Categories.SeedFile)
}

func TestLoadEnvOverride(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	t.Setenv("EXPENSE_LOG_LEVEL", "debug")
	t.Setenv("EXPENSE_DATABASE_PATH", "/tmp/override.db")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/tmp/override.db", cfg.Database.Path)
}

func TestLoadRejectsInvalidLevel(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	t.Setenv("EXPENSE_LOG_LEVEL", "shouty")

	_, err = Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		var c Config
		c.Log.Level = "info"
		c.Log.Format = "json"
		c.Database.Path = "x.db"
		c.Server.Addr = ":8080"
		return &c
	}

	assert.NoError(t, validate(valid()))

	c := valid()
	c.Log.Format = "xml"
	assert.Error(t, validate(c))

	c = valid()
	c.Database.Path = ""
	assert.Error(t, validate(c))

	c = valid()
	c.Server.Addr = ""
	assert.Error(t, validate(c))
}
