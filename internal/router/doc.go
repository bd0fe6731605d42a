// Package router owns Localizei's navigation state: which screen is active
// and which category or store a detail screen is showing.
//
// # State machine
//
// The states are the View values. The router starts on ViewHome and has no
// terminal state. Four transitions exist and none of them can fail:
//
//	NavigateTo(v)      active = v
//	SelectCategory(c)  category = c; active = ViewCategoryDetail
//	SelectStore(s)     store = s;    active = ViewStoreDetail
//	GoBack()           active = ViewHome
//
// Selections are last-write-wins. Selecting a second store replaces the
// first one entirely; fields are never merged.
//
// # Resolution
//
// Screens never read the raw fields. Resolve returns the view to render
// together with the one entity that view may read:
//
//	active              selection present   resolved
//	category_detail     yes                 category_detail + category
//	category_detail     no                  home
//	store_detail        yes                 store_detail + store
//	store_detail        no                  home
//	anything else       n/a                 active, empty selection
//
// A selection left over from an earlier detail visit stays stored but is
// not exposed while another view is active.
//
// # Ownership
//
// Router is a value type owned by the UI's root model. All calls happen on
// the Bubble Tea update loop, so it has no locking.
package router
