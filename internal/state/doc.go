// Package state holds the store listing shared between the background
// refresher and the UI.
//
// The refresher is the single writer; the UI reads a Snapshot on every render.
// Snapshots are returned by value with cloned slices so rendering code can
// sort or filter them freely.
//
//	Refresher:                    UI:
//	  store.BeginRefresh()          snap := store.Snapshot()
//	  stores, cats, err := fetch()  render(snap)
//	  store.Update(stores, cats, err)
//
// A failed Update keeps the last good listing and records the error. After two
// consecutive failures the snapshot reports IsOffline so the header can show
// a banner instead of silently serving stale data.
//
// Seed installs a listing read from the local cache at startup. It never
// replaces data from a live refresh that has already landed.
package state
