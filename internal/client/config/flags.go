package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/dropnshare/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string   API base URL
//	-w string   web origin used for download page links
//	-d string   SQLite database path
//	-s string   token store backend: sqlite, redis or memory
//
// Only these flags are taken from args, so the JSON loader's -c does not
// interfere. Parse errors panic.
func parseFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-w", "-d", "-s"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.APIURL, "a", cfg.APIURL, "API base URL")
	fs.StringVar(&cfg.WebURL, "w", cfg.WebURL, "web origin for download links")
	fs.StringVar(&cfg.DBPath, "d", cfg.DBPath, "path to the local SQLite database")
	fs.StringVar(&cfg.TokenStore, "s", cfg.TokenStore, "token store backend (sqlite, redis, memory)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
