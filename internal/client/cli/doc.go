// Package cli provides the interactive DropNShare command-line client.
//
// It wires configuration, the token store, the API client, the session
// manager and the upload service, then runs a small REPL. On start the
// stored session is restored before the first prompt is shown.
//
// Commands:
//   - register, login, logout
//   - whoami, refresh
//   - upload <file>... (prompts for paths when none are given)
//   - links (repeat the links of the last upload)
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
