// Package app wires configuration, the settings store, the poll loop and the
// editor UI into the intelwatch program.
//
// # Startup
//
//  1. Load .env, config.toml and environment overrides, then apply CLI options
//  2. Check the chat log directory exists
//  3. Build the zap logger (JSON file with the UI, console when headless)
//  4. Load or create the settings file; a new file plays the alert once
//  5. Start the poller, plus an fsnotify watcher when watch_fs is set
//  6. Run the editor UI, or block on the poller when headless
//
// # Poll cycle
//
// Each cycle takes a snapshot of the settings, selects the newest log file
// per channel, reads only the lines stamped after the file's last seen
// timestamp and matches them against the watch lists. A match triggers the
// alert player, which never blocks the loop. Cycle results go to state.Store
// for the UI footer.
//
// The first time a file is seen only its newest timestamp is recorded, so
// history already in the file never alerts.
//
// # Errors
//
// Configuration and log directory problems are returned from Run. Failures
// inside a cycle are logged and recorded in the activity snapshot; the loop
// keeps going.
package app
