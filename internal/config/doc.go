// Package config loads Localizei settings.
//
// Settings come from ~/.config/localizei/config.toml (or the path passed with
// --config), overridden by LOCALIZEI_* environment variables, for example
// LOCALIZEI_SUPABASE_ANON_KEY. Missing files and empty values fall back to
// built-in defaults:
//
//   - supabase_url: the hosted project URL
//   - cache_path: ~/.cache/localizei/listing.db
//   - session_path: ~/.config/localizei/session.json
//   - log_path: ~/.local/state/localizei/localizei.log
//   - poll_interval: 60s
//   - splash_delay: 5s (0 disables the splash)
//   - carousel_interval: 4s
//
// Paths starting with ~ are expanded against the user's home directory.
// A file that exists but is not valid TOML is an error. A missing anon key is
// not: Validate reports ErrMissingAnonKey and the caller logs it.
package config
