// Package cli provides the interactive study materials command-line client.
//
// It wires configuration, the local cache, the backend API and the services
// into a REPL. Every command is a row in a table; the first word of a line
// selects it and the rest are its arguments.
//
// Key features:
//   - Login / Logout with the session kept in the local cache
//   - Browse materials, manage favorites, publish and upload files
//   - Notifications, material review and committee applications
//   - Search with a local keyword history
//
// After each command the queued user notifications are printed. Backend
// failures switch the prompt to offline mode until a call succeeds again.
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
package cli
