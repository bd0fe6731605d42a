// Package ui implements the Localizei terminal shell with Bubble Tea.
//
// The root Model owns a router.Router and renders exactly one screen for
// the view it resolves to. Screens get their data from the latest
// state.Snapshot and navigate only through the router's operations
// (NavigateTo, SelectCategory, SelectStore, GoBack).
//
// # Screen lifecycle
//
// Every router transition remounts the active screen: the previous screen's
// local state (cursor, search text, carousel, viewport) is discarded and its
// timers are stopped. Timer messages carry the id and tag of the timer that
// scheduled them, so a tick that was already in flight when its screen was
// unmounted is ignored instead of updating the new screen.
//
// Two timers exist:
//
//   - the splash, a one-shot delay shown before the shell (any key skips it)
//   - the category carousel, advancing the banner index every few seconds
//     modulo the number of banners
//
// # Session
//
// The identity stream is bridged into the program as sessionMsg values.
// Only the newest event is kept, so the most recent callback always wins.
// When a sign-in started from the auth modal produces a user whose profile
// is still incomplete, the shell opens the menu with the profile form
// focused. Restored sessions never trigger that redirect.
//
// # Listing status
//
// While the poller is fetching, the header shows an "atualizando" spinner.
// A failed refresh shows an inline banner above the tab bar. Neither changes
// the active view.
package ui
