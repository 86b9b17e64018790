// Package cli provides the interactive tillpoint terminal.
//
// It wires configuration, the local store, the API client, and an
// interactive REPL that keeps working when the backend is down: reads are
// served from the cache and writes are queued for replay. Typical flow:
// prompt for credentials (offline fallback included), start a background
// connectivity watcher, and execute operator commands.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
