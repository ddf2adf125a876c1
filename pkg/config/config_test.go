package config

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"DATABASE_URL", "KENNEL_SEED_ENABLED", "KENNEL_SEED_DATA_DIR",
		"KENNEL_PUBLIC_ROLE_TYPE", "KENNEL_FEATURED_PUPPIES",
		"KENNEL_LOG_LEVEL", "KENNEL_LOG_FORMAT",
	} {
		t.Setenv(name, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0o600))
	t.Setenv("KENNEL_CONFIG_PATH", dir)
	return dir
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("KENNEL_CONFIG_PATH", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.SeedEnabled)
	assert.Equal(t, "public", cfg.PublicRoleType)
	assert.Equal(t, 3, cfg.FeaturedPuppies)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	for _, attr := range cfg.Attributes() {
		assert.Equal(t, "default", attr.Source, attr.Name)
	}
	require.NoError(t, cfg.Validate())
}

func TestLoadSourcePrecedence(t *testing.T) {
	clearEnv(t)
	dir := writeConfig(t, `
seed_enabled: false
featured_puppies: 4
log_level: debug
public_role_type: visitor
`)
	t.Setenv("KENNEL_FEATURED_PUPPIES", "2")
	t.Setenv("DATABASE_URL", "postgres://kennel:secret@db:5432/kennel?sslmode=disable")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, ConfigFileName), cfg.ConfigFilePath())
	assert.False(t, cfg.SeedEnabled)
	assert.Equal(t, "file", cfg.Source("seed_enabled"))
	assert.Equal(t, 2, cfg.FeaturedPuppies)
	assert.Equal(t, "environment", cfg.Source("featured_puppies"))
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "file", cfg.Source("log_level"))
	assert.Equal(t, "visitor", cfg.PublicRoleType)
	assert.Equal(t, "environment", cfg.Source("database_url"))
	assert.Equal(t, "default", cfg.Source("log_format"))
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestLoadInvalidFile(t *testing.T) {
	clearEnv(t)
	writeConfig(t, "featured_puppies: [not a number")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadInvalidEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("KENNEL_CONFIG_PATH", t.TempDir())
	t.Setenv("KENNEL_SEED_ENABLED", "maybe")

	_, err := Load()
	assert.ErrorContains(t, err, "KENNEL_SEED_ENABLED")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*KennelConfig)
		wantErr string
	}{
		{"valid", func(*KennelConfig) {}, ""},
		{"bad level", func(c *KennelConfig) { c.LogLevel = "verbose" }, "log_level"},
		{"bad format", func(c *KennelConfig) { c.LogFormat = "xml" }, "log_format"},
		{"negative featured", func(c *KennelConfig) { c.FeaturedPuppies = -1 }, "featured_puppies"},
		{"empty role", func(c *KennelConfig) { c.PublicRoleType = " " }, "public_role_type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newDefault()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestAttributesRedactPassword(t *testing.T) {
	cfg := newDefault()
	cfg.DatabaseURL = "postgres://kennel:secret@db:5432/kennel"

	for _, attr := range cfg.Attributes() {
		if attr.Name == "database_url" {
			assert.NotContains(t, attr.Value, "secret")
			assert.Contains(t, attr.Value, "db:5432")
		}
	}
}

func TestFormatText(t *testing.T) {
	cfg := newDefault()
	out := cfg.FormatText()

	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "featured_puppies")
	assert.Contains(t, out, "(not set)")
}

func TestFormatJSON(t *testing.T) {
	cfg := newDefault()
	out, err := cfg.FormatJSON()
	require.NoError(t, err)

	var parsed struct {
		Attributes []Attribute `json:"attributes"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &parsed))
	assert.Len(t, parsed.Attributes, len(attributeNames()))
}
