package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJSON(t *testing.T) {
	dir := t.TempDir()
	full := writeTempJSON(t, dir, "full.json", map[string]any{
		"api_url":         "https://json.example/api",
		"token_store":     "memory",
		"request_timeout": 5000000000,
	})

	t.Run("loads from -config", func(t *testing.T) {
		cfg := &Config{WebURL: "keep"}
		parseJSON(cfg, []string{"-config", full})

		assert.Equal(t, "https://json.example/api", cfg.APIURL)
		assert.Equal(t, "memory", cfg.TokenStore)
		assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
		assert.Equal(t, "keep", cfg.WebURL, "absent keys are left alone")
	})

	t.Run("short flag with equals", func(t *testing.T) {
		cfg := &Config{}
		parseJSON(cfg, []string{"-a", "x", "-c=" + full})

		assert.Equal(t, "memory", cfg.TokenStore)
	})

	t.Run("no flag → no changes", func(t *testing.T) {
		cfg := &Config{APIURL: "defaults"}
		parseJSON(cfg, []string{"-a", "other"})

		assert.Equal(t, "defaults", cfg.APIURL)
	})

	t.Run("invalid JSON → panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		require.Panics(t, func() { parseJSON(&Config{}, []string{"-c", bad}) })
	})

	t.Run("bad duration → panics", func(t *testing.T) {
		p := writeTempJSON(t, dir, "dur.json", map[string]any{"request_timeout": "eventually"})

		require.Panics(t, func() { parseJSON(&Config{}, []string{"-c", p}) })
	})

	t.Run("missing file → panics", func(t *testing.T) {
		require.Panics(t, func() { parseJSON(&Config{}, []string{"-c", filepath.Join(dir, "nope.json")}) })
	})
}
