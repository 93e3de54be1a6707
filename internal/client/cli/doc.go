// Package cli provides the interactive library admin command-line client.
//
// It wires configuration, the remote gateway, the listing machine and the
// editor, deletion and report workflows into a REPL. Typical flow: probe the
// server, show the first page of libraries, start a background connectivity
// watcher and execute operator commands.
//
// Key features:
//   - Switch tables, page, search, sort and filter listings
//   - Add / Edit records through schema-driven forms
//   - Delete with confirmation and active-subscription inspection
//   - Run reports with filters and client-side fallbacks
//
// The REPL is started via App.Run(ctx), which blocks until the operator
// exits. See App, StartOnlineStatusWatcher and runREPL for details.
package cli
