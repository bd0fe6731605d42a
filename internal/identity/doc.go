// Package identity wraps the hosted identity provider.
//
// Client speaks the provider's REST API (password sign-in, sign-up,
// profile update) and refreshes id tokens through the OAuth2 refresh grant.
// Manager keeps the current session, persists it to a JSON file between
// runs, and publishes every change on a Stream.
//
// The Stream is the only way the UI learns about the user. Subscribe
// returns a cancel handle; the UI subscribes when the program starts and
// releases the handle on exit. Every Event carries a sequence number, and
// consumers keep only the highest one they have seen, so the most recent
// publish always wins even if deliveries race.
//
// Listener failures (unreadable session file, refresh rejected, provider
// unreachable) never surface as errors to the UI: they publish a nil user.
package identity
