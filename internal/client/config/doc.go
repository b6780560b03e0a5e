// Package config loads runtime configuration for the DropNShare CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. A .env file in the working directory, if present (godotenv).
//  3. Environment variables (caarlos0/env). The process environment wins
//     over the .env file.
//  4. Optional JSON file selected via -c or -config.
//  5. Command-line flags, which override everything else.
//
// # Environment
//
//	DROPNSHARE_API_URL          API base URL (falls back to EXPO_PUBLIC_API_URL)
//	DROPNSHARE_WEB_URL          web origin for download page links
//	DROPNSHARE_TOKEN_STORE      sqlite | redis | memory
//	DROPNSHARE_DB_PATH          SQLite database path
//	DROPNSHARE_REDIS_ADDR       Redis address for the redis token store
//	DROPNSHARE_REDIS_PREFIX     Redis key prefix
//	DROPNSHARE_LOG_LEVEL        debug | info | warn | error
//	DROPNSHARE_REQUEST_TIMEOUT  e.g. "30s"; 0 keeps the transport default
//
// # Flags
//
//	-a string   API base URL
//	-w string   web origin
//	-d string   SQLite database path
//	-s string   token store backend
//
// # JSON schema
//
//	{
//	  "api_url": "https://example.com/api",
//	  "web_url": "https://example.com",
//	  "token_store": "sqlite",
//	  "db_path": "/home/me/.config/dropnshare/client.db",
//	  "redis_addr": "127.0.0.1:6379",
//	  "redis_prefix": "dropnshare:",
//	  "log_level": "info",
//	  "request_timeout": "30s"
//	}
//
// When no web origin is configured, (*Config).WebOrigin derives it from the
// API URL by stripping a trailing /api.
package config
