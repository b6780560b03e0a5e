package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv(t *testing.T) {
	tests := []struct {
		name    string
		environ []string
		check   func(t *testing.T, c *Config)
	}{
		{
			name:    "all variables",
			environ: []string{"DROPNSHARE_API_URL=https://a/api", "DROPNSHARE_WEB_URL=https://a", "DROPNSHARE_TOKEN_STORE=memory", "DROPNSHARE_DB_PATH=/x.db", "DROPNSHARE_REDIS_ADDR=r:1", "DROPNSHARE_REDIS_PREFIX=p:", "DROPNSHARE_LOG_LEVEL=info", "DROPNSHARE_REQUEST_TIMEOUT=2s"},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, Config{APIURL: "https://a/api", WebURL: "https://a", TokenStore: "memory", DBPath: "/x.db", RedisAddr: "r:1", RedisPrefix: "p:", LogLevel: "info", RequestTimeout: 2 * time.Second}, *c)
			},
		},
		{
			name:    "expo fallback",
			environ: []string{"EXPO_PUBLIC_API_URL=https://expo/api"},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, "https://expo/api", c.APIURL)
			},
		},
		{
			name:    "own variable beats expo",
			environ: []string{"EXPO_PUBLIC_API_URL=https://expo/api", "DROPNSHARE_API_URL=https://own/api"},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, "https://own/api", c.APIURL)
			},
		},
		{
			name:    "unset keeps defaults",
			environ: nil,
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, DefaultAPIURL, c.APIURL)
				assert.Equal(t, "sqlite", c.TokenStore)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{}
			c.LoadDefaults()
			parseEnv(c, tt.environ, "")
			tt.check(t, c)
		})
	}
}

func TestParseEnv_DotenvDoesNotOverrideProcess(t *testing.T) {
	dotenv := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(dotenv, []byte("DROPNSHARE_TOKEN_STORE=memory\nDROPNSHARE_LOG_LEVEL=error\n"), 0o600))

	c := &Config{}
	c.LoadDefaults()
	parseEnv(c, []string{"DROPNSHARE_TOKEN_STORE=redis"}, dotenv)

	assert.Equal(t, "redis", c.TokenStore)
	assert.Equal(t, "error", c.LogLevel)
}

func TestParseEnv_BadDurationPanics(t *testing.T) {
	c := &Config{}
	require.Panics(t, func() {
		parseEnv(c, []string{"DROPNSHARE_REQUEST_TIMEOUT=soon"}, "")
	})
}
