package config

import (
	"errors"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// envConfig lists the recognised environment variables. Unset variables
// leave the current value alone.
type envConfig struct {
	APIURL         string        `env:"DROPNSHARE_API_URL"`
	ExpoAPIURL     string        `env:"EXPO_PUBLIC_API_URL"`
	WebURL         string        `env:"DROPNSHARE_WEB_URL"`
	TokenStore     string        `env:"DROPNSHARE_TOKEN_STORE"`
	DBPath         string        `env:"DROPNSHARE_DB_PATH"`
	RedisAddr      string        `env:"DROPNSHARE_REDIS_ADDR"`
	RedisPrefix    string        `env:"DROPNSHARE_REDIS_PREFIX"`
	LogLevel       string        `env:"DROPNSHARE_LOG_LEVEL"`
	RequestTimeout time.Duration `env:"DROPNSHARE_REQUEST_TIMEOUT"`
}

// parseEnv overlays cfg with the environment. Values from dotenvPath fill in
// variables the process environment does not set. A missing dotenv file is
// ignored; unreadable files and malformed values panic.
func parseEnv(cfg *Config, environ []string, dotenvPath string) {
	vars := env.ToMap(environ)

	if dotenvPath != "" {
		fileVars, err := godotenv.Read(dotenvPath)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			panic(err)
		}
		for k, v := range fileVars {
			if _, set := vars[k]; !set {
				vars[k] = v
			}
		}
	}

	ec := envConfig{
		APIURL:         cfg.APIURL,
		WebURL:         cfg.WebURL,
		TokenStore:     cfg.TokenStore,
		DBPath:         cfg.DBPath,
		RedisAddr:      cfg.RedisAddr,
		RedisPrefix:    cfg.RedisPrefix,
		LogLevel:       cfg.LogLevel,
		RequestTimeout: cfg.RequestTimeout,
	}
	if err := env.ParseWithOptions(&ec, env.Options{Environment: vars}); err != nil {
		panic(err)
	}

	cfg.APIURL = ec.APIURL
	if _, set := vars["DROPNSHARE_API_URL"]; !set && ec.ExpoAPIURL != "" {
		cfg.APIURL = ec.ExpoAPIURL
	}
	cfg.WebURL = ec.WebURL
	cfg.TokenStore = ec.TokenStore
	cfg.DBPath = ec.DBPath
	cfg.RedisAddr = ec.RedisAddr
	cfg.RedisPrefix = ec.RedisPrefix
	cfg.LogLevel = ec.LogLevel
	cfg.RequestTimeout = ec.RequestTimeout
}
