// Package app provides the orchestration layer for the Localizei application.
//
// # Overview
//
// This package wires together configuration, logging, the offline cache,
// the identity session, the listing poller and the UI. It is the
// composition root: every dependency is built here and handed down.
//
// # Startup
//
//  1. Load config.toml and LOCALIZEI_* overrides (config.Load)
//  2. Send slog output to the log file, since the TUI owns the terminal
//  3. Load UI preferences (theme, last e-mail)
//  4. Open the SQLite cache and seed state.Store with the last listing
//  5. Build the identity manager and restore the saved session in the background
//  6. Start the poller, which refreshes the listing right away
//  7. Run the TUI and block until the user quits or the context ends
//
// # Data Flow
//
//	Run()
//	  ├─> config.Load()          read config
//	  ├─> logging.Setup()        log file
//	  ├─> cache.Open()           seed state.Store
//	  ├─> identity.Manager       Restore() in a goroutine
//	  ├─> Poller.Start()         background refresh
//	  └─> ui.Run()               TUI (blocks)
//
//	Poller loop:
//	  BeginRefresh()
//	  errgroup: FetchStores() + FetchCategories()
//	  store.Update()  ──> UI reads store.Snapshot() on its own tick
//	  cache.SaveStores() / SaveCategories()
//
// # Error Handling
//
// Only configuration and logging setup errors are fatal. A missing anon key,
// an unusable cache or a disabled login are logged and the shell starts
// anyway. Refresh failures are recorded on the state store and retried with
// exponential backoff capped at 30 seconds; the UI shows them as a banner.
//
// # Commands
//
// ListStores and Logout back the non-interactive subcommands. ListStores runs
// one poller refresh against the same cache, so it prints the last known
// listing when the backend is unreachable.
package app
