package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"DATABASE_PATH", "PORT", "EXPORT_STORAGE_PATH", "UNDO_DEPTH", "CORS_ALLOWED_ORIGINS", "SEED_ON_EMPTY", "PERSIST_HISTORY"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "familyring.db", cfg.DatabasePath)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 50, cfg.UndoDepth)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.SeedOnEmpty)
	assert.True(t, cfg.PersistHistory)
	assert.True(t, filepath.IsAbs(cfg.ExportStoragePath))
	assert.Equal(t, DefaultExportsSubDir, filepath.Base(cfg.ExportStoragePath))
}

func TestLoadConfigOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DATABASE_PATH", filepath.Join(dir, "f.db"))
	t.Setenv("PORT", "9090")
	t.Setenv("EXPORT_STORAGE_PATH", dir)
	t.Setenv("UNDO_DEPTH", "5")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("SEED_ON_EMPTY", "false")
	t.Setenv("PERSIST_HISTORY", "0")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "f.db"), cfg.DatabasePath)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, dir, cfg.ExportStoragePath)
	assert.Equal(t, 5, cfg.UndoDepth)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.SeedOnEmpty)
	assert.False(t, cfg.PersistHistory)
}

func TestLoadConfigInvalidValuesFallBack(t *testing.T) {
	t.Setenv("PORT", "-1")
	t.Setenv("UNDO_DEPTH", "many")
	t.Setenv("SEED_ON_EMPTY", "perhaps")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, defaultPort, cfg.Port)
	assert.Equal(t, defaultUndoDepth, cfg.UndoDepth)
	assert.True(t, cfg.SeedOnEmpty)
}

func TestLoadConfigRejectsEmptyOriginList(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", " , ")

	_, err := LoadConfig()
	assert.Error(t, err)
}
