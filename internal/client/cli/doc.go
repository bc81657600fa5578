// Package cli provides the interactive punchclock terminal client.
//
// It wires configuration, the local drafts database, API services and a
// REPL. Typical flow: log in with employee id and PIN (or as an admin), start
// a background connectivity watcher, and execute user commands.
//
// Key features:
//   - Live clocking (in, out, break, resume) and today's status
//   - History, compliance reports and XLSX export
//   - Day editing with local validation, suggestions and parked drafts
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
