// Package supabase is a read-only client for the hosted listing backend.
//
// The backend exposes tables over PostgREST. Localizei reads two of them:
//
//	GET /rest/v1/stores?select=*&order=name.asc
//	GET /rest/v1/categories?select=id,name,icon&order=name.asc
//
// Every request carries the project's anon key in the apikey header. The
// Authorization header uses the signed-in user's access token when one is
// available (see WithAccessToken) and falls back to the anon key otherwise.
//
// Errors are returned wrapped with the request stage ("create request",
// "execute request", "decode response"). Credential rejections (401/403)
// wrap ErrUnauthorized so callers can tell them apart from outages. None of
// these are fatal to the UI; the poller records them and the shell shows
// an inline banner.
package supabase
