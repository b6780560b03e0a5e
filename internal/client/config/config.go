package config

import (
	"os"
	"regexp"
	"time"

	"github.com/dmitrijs2005/dropnshare/internal/client/tokenstore"
	"github.com/dmitrijs2005/dropnshare/internal/filex"
)

// DefaultAPIURL is the production API endpoint.
const DefaultAPIURL = "https://arhamnatiq.dropnsharee.com/api"

// Config holds runtime settings for the DropNShare CLI.
//
// RequestTimeout of zero leaves the HTTP transport's own default in place.
type Config struct {
	APIURL         string
	WebURL         string
	TokenStore     string
	DBPath         string
	RedisAddr      string
	RedisPrefix    string
	LogLevel       string
	RequestTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIURL = DefaultAPIURL
	c.WebURL = ""
	c.TokenStore = tokenstore.BackendSQLite
	c.DBPath = filex.DefaultDataPath("client.db")
	c.RedisAddr = "127.0.0.1:6379"
	c.RedisPrefix = "dropnshare:"
	c.LogLevel = "warn"
	c.RequestTimeout = 0
}

// WebOrigin returns WebURL, or APIURL with a trailing /api removed when no
// separate web origin is configured.
func (c *Config) WebOrigin() string {
	if c.WebURL != "" {
		return c.WebURL
	}
	return apiSuffix.ReplaceAllString(c.APIURL, "")
}

var apiSuffix = regexp.MustCompile(`/api/?$`)

// LoadConfig builds a Config from defaults, the .env file, the process
// environment, an optional JSON file and the command line, in that order.
// Later sources take precedence.
func LoadConfig() *Config {
	return Load(os.Args[1:], os.Environ(), ".env")
}

// Load is LoadConfig with explicit inputs. dotenvPath may name a missing
// file.
func Load(args, environ []string, dotenvPath string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg, environ, dotenvPath)
	parseJSON(cfg, args)
	parseFlags(cfg, args)
	return cfg
}
