package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "./data/exports", cfg.Import.InputDir)
	require.Equal(t, "./out/import.sql", cfg.Import.OutputFile)
	require.Equal(t, 0, cfg.Import.DefaultYear)
	require.Equal(t, ":8080", cfg.Server.Listen)
	require.Empty(t, cfg.Database.URL)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("OVNI_IMPORT_INPUT_DIR", "/tmp/exports")
	t.Setenv("OVNI_DATABASE_URL", "postgres://x")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "/tmp/exports", cfg.Import.InputDir)
	require.Equal(t, "postgres://x", cfg.Database.URL)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `[import]
input_dir = "/srv/exports"
default_year = 2023

[server]
listen = ":9090"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "/srv/exports", cfg.Import.InputDir)
	require.Equal(t, 2023, cfg.Import.DefaultYear)
	require.Equal(t, ":9090", cfg.Server.Listen)
	// untouched keys keep defaults
	require.Equal(t, "./out/import.sql", cfg.Import.OutputFile)
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := Load("/nonexistent/config.toml")
	require.Error(t, err)
}
