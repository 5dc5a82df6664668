// Package config loads intelwatch's startup configuration.
//
// # Resolution Order
//
// Later sources override earlier ones:
//
//  1. Built-in defaults
//  2. ~/.config/intelwatch/config.toml (or the --config path)
//  3. Environment: INTELWATCH_LOG_DIR, INTELWATCH_SETTINGS, INTELWATCH_POLL,
//     optionally seeded from a .env file via LoadDotEnv
//  4. Command line flags and the positional log directory (applied by cmd)
//
// A missing config file is not an error. A present but malformed one is.
//
// # TOML Format
//
//	log_dir       = "~/Documents/EVE/logs/Chatlogs"
//	settings_path = "~/.config/intelwatch/settings.jin"
//	poll_interval = "1s"
//	watch_fs      = true
//	alert_command = ["paplay", "~/.config/intelwatch/alert.wav"]
//	log_file      = "~/.local/state/intelwatch/intelwatch.log"
//
// Every field is optional. Paths, and alert_command arguments starting with
// "~", are expanded to absolute paths.
//
// # Validation
//
// Load does not touch the log directory. ValidateLogDir is called by the app
// once all overrides are applied; a missing or non-directory path is fatal
// and reported as ErrNotDirectory.
package config
