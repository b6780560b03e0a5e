package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/dropnshare/internal/flagx"
)

// duration accepts "3s"-style strings or integer nanoseconds.
type duration time.Duration

func (d *duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch x := v.(type) {
	case float64:
		*d = duration(time.Duration(x))
	case string:
		parsed, err := time.ParseDuration(x)
		if err != nil {
			return err
		}
		*d = duration(parsed)
	default:
		return fmt.Errorf("invalid duration %s", b)
	}
	return nil
}

// jsonConfig is the on-disk shape. Absent keys keep their current value.
type jsonConfig struct {
	APIURL         *string   `json:"api_url"`
	WebURL         *string   `json:"web_url"`
	TokenStore     *string   `json:"token_store"`
	DBPath         *string   `json:"db_path"`
	RedisAddr      *string   `json:"redis_addr"`
	RedisPrefix    *string   `json:"redis_prefix"`
	LogLevel       *string   `json:"log_level"`
	RequestTimeout *duration `json:"request_timeout"`
}

// parseJSON overlays cfg with the file named by -c/-config in args. Read or
// decode errors panic.
func parseJSON(cfg *Config, args []string) {
	path := flagx.ConfigPath(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.APIURL, jc.APIURL)
	setString(&cfg.WebURL, jc.WebURL)
	setString(&cfg.TokenStore, jc.TokenStore)
	setString(&cfg.DBPath, jc.DBPath)
	setString(&cfg.RedisAddr, jc.RedisAddr)
	setString(&cfg.RedisPrefix, jc.RedisPrefix)
	setString(&cfg.LogLevel, jc.LogLevel)
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = time.Duration(*jc.RequestTimeout)
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
