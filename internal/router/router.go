package router

import "github.com/five82/localizei/internal/catalog"

// View identifies one of the screens the shell can render.
type View int

const (
	ViewHome View = iota
	ViewExplore
	ViewStatus
	ViewMarketplace
	ViewCategoryDetail
	ViewStoreDetail
	ViewCashback
	ViewMenu
)

var viewNames = [...]string{
	ViewHome:           "home",
	ViewExplore:        "explore",
	ViewStatus:         "status",
	ViewMarketplace:    "marketplace",
	ViewCategoryDetail: "category_detail",
	ViewStoreDetail:    "store_detail",
	ViewCashback:       "cashback",
	ViewMenu:           "menu",
}

// String returns the view tag, e.g. "category_detail".
func (v View) String() string {
	if v < 0 || int(v) >= len(viewNames) {
		return "unknown"
	}
	return viewNames[v]
}

// Valid reports whether v is one of the enumerated views.
func (v View) Valid() bool {
	return v >= 0 && int(v) < len(viewNames)
}

// IsDetail reports whether the view needs a selection to render.
func (v View) IsDetail() bool {
	return v == ViewCategoryDetail || v == ViewStoreDetail
}

// ParseView maps a tag back to its View.
func ParseView(tag string) (View, bool) {
	for i, name := range viewNames {
		if name == tag {
			return View(i), true
		}
	}
	return ViewHome, false
}

// Views lists every view in declaration order.
func Views() []View {
	out := make([]View, len(viewNames))
	for i := range viewNames {
		out[i] = View(i)
	}
	return out
}

// Selection carries the entities handed to detail screens. Resolve only
// fills the field the resolved view reads; the other is always nil.
type Selection struct {
	Category *catalog.Category
	Store    *catalog.Store
}

// Navigator is the callback set screens use to move around.
type Navigator interface {
	NavigateTo(v View)
	SelectCategory(c catalog.Category)
	SelectStore(s catalog.Store)
	GoBack()
}

var _ Navigator = (*Router)(nil)

// Router holds the active view and the last selected entity of each kind.
// The zero value is ready to use and starts on home.
type Router struct {
	active   View
	category *catalog.Category
	store    *catalog.Store
	// transitions counts navigation calls so owners can detect remounts
	// even when the view tag did not change.
	transitions uint64
}

// New returns a router on the home view with an empty selection.
func New() Router {
	return Router{active: ViewHome}
}

// NavigateTo makes v the active view. Out-of-range values are treated as
// home so the router never holds a tag it cannot render.
func (r *Router) NavigateTo(v View) {
	if !v.Valid() {
		v = ViewHome
	}
	r.active = v
	r.transitions++
}

// SelectCategory binds c and opens the category detail view.
func (r *Router) SelectCategory(c catalog.Category) {
	cat := c
	r.category = &cat
	r.NavigateTo(ViewCategoryDetail)
}

// SelectStore binds s and opens the store detail view.
func (r *Router) SelectStore(s catalog.Store) {
	st := s
	r.store = &st
	r.NavigateTo(ViewStoreDetail)
}

// GoBack always lands on home; there is no history stack.
func (r *Router) GoBack() {
	r.NavigateTo(ViewHome)
}

// Active returns the stored view tag without applying the detail fallback.
func (r Router) Active() View {
	return r.active
}

// Transitions returns how many navigation calls the router has applied.
func (r Router) Transitions() uint64 {
	return r.transitions
}

// Resolve returns the view to render and the selection it may read. A
// detail view without its selection resolves to home with no selection.
func (r Router) Resolve() (View, Selection) {
	switch r.active {
	case ViewCategoryDetail:
		if r.category == nil {
			return ViewHome, Selection{}
		}
		c := *r.category
		return ViewCategoryDetail, Selection{Category: &c}
	case ViewStoreDetail:
		if r.store == nil {
			return ViewHome, Selection{}
		}
		s := *r.store
		return ViewStoreDetail, Selection{Store: &s}
	default:
		return r.active, Selection{}
	}
}

// Current is shorthand for the resolved view.
func (r Router) Current() View {
	v, _ := r.Resolve()
	return v
}
