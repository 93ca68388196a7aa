package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default("Panadería El Trigal SpA", "76.123.456-7")
	cfg.Import.Timezone = "America/Santiago"

	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestDefaults(t *testing.T) {
	cfg := Default("Mi Empresa", "1-9")

	assert.Equal(t, "Mi Empresa", cfg.Company.Name)
	assert.Equal(t, "1-9", cfg.Company.RUT)
	assert.Equal(t, int64(10<<20), cfg.Import.MaxFileBytes)
	assert.Equal(t, []string{".xlsx", ".xlsm"}, cfg.Import.Extensions)
	assert.Equal(t, "cartola", cfg.Import.DefaultFormat)
	assert.Equal(t, "UTC", cfg.Import.Timezone)
	assert.True(t, cfg.Git.AutoCommit)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("company: [unclosed"), 0o644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "parsing config")
}

func TestYAMLFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, Default("Test Biz", "76.123.456-7")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "name: Test Biz")
	assert.Contains(t, contents, "rut: 76.123.456-7")
	assert.Contains(t, contents, "max_file_bytes: 10485760")
	assert.Contains(t, contents, "auto_commit: true")
}
