package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_FullFile(t *testing.T) {
	cfg, err := Load("testdata/full.yaml")
	require.NoError(t, err)

	assert.Equal(t, BackendRedis, cfg.Storage.Backend)
	assert.Equal(t, "redis://cache:6379/2", cfg.Storage.RedisURL)
	assert.Equal(t, "team-board", cfg.Storage.Record)
	assert.Equal(t, DefaultPath, cfg.Storage.Path, "unset keys keep defaults")
	assert.Equal(t, "0.0.0.0:9000", cfg.Server.Addr)
	assert.Equal(t, "https://boards.example/", cfg.Server.BaseURL)
	assert.Equal(t, "debug", cfg.Log.Level)

	opts := cfg.EditorOptions()
	assert.Equal(t, 5*time.Second, opts.DeleteWindow)
	assert.Equal(t, 250*time.Millisecond, opts.SavedDelay)
}

func TestParse_EmptyDocument(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParse_Rejects(t *testing.T) {
	tests := map[string]string{
		"unknown key":     "storage:\n  backnd: sqlite\n",
		"bad backend":     "storage:\n  backend: postgres\n",
		"bad duration":    "timing:\n  delete_window: soon\n",
		"zero window":     "timing:\n  delete_window: 0s\n",
		"empty record":    "storage:\n  record: \"\"\n",
		"empty redis url": "storage:\n  backend: redis\n  redis_url: \"\"\n",
		"not a mapping":   "- a\n- b\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoad_ReportsPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("nope: 1\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}
