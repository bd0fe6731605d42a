package ui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/localizei/internal/catalog"
	"github.com/five82/localizei/internal/router"
)

// screenState is the local state of the mounted screen. It is rebuilt on
// every navigation, so nothing here survives leaving a screen.
type screenState struct {
	view     router.View
	cursor   int
	editing  bool // a text input owns the keyboard
	search   textinput.Model
	profile  textinput.Model
	carousel carousel
	detail   viewport.Model
}

// unmount stops the screen's timers.
func (s screenState) unmount() screenState {
	s.carousel = s.carousel.Stop()
	s.editing = false
	return s
}

// syncScreen remounts the active screen when the router moved since the
// last mount. Navigating to the same view still remounts it.
func (m Model) syncScreen() (Model, tea.Cmd) {
	if m.router.Transitions() == m.mounted {
		return m, nil
	}
	m.screen = m.screen.unmount()
	m.mounted = m.router.Transitions()

	var cmd tea.Cmd
	m.screen, cmd = m.mountScreen()
	return m, cmd
}

func (m Model) mountScreen() (screenState, tea.Cmd) {
	view, sel := m.router.Resolve()
	s := screenState{view: view}

	var cmd tea.Cmd
	switch view {
	case router.ViewExplore:
		s.search = newSearchInput(m.theme)

	case router.ViewCategoryDetail:
		s.carousel = newCarousel(len(catalog.DefaultBanners), m.carouselInterval)
		s.carousel, cmd = s.carousel.Start()

	case router.ViewStoreDetail:
		s.detail = viewport.New(m.contentWidth(), m.contentHeight())
		s.detail.SetContent(m.storeDetailContent(*sel.Store))

	case router.ViewMenu:
		s.profile = newProfileInput(m.theme)
		if m.user != nil && m.user.ProfilePending {
			s.profile.Focus()
			s.editing = true
			cmd = textinput.Blink
		}
	}
	return s, cmd
}

func (m *Model) resizeScreen() {
	if m.screen.view != router.ViewStoreDetail {
		return
	}
	m.screen.detail.Width = m.contentWidth()
	m.screen.detail.Height = m.contentHeight()
	if _, sel := m.router.Resolve(); sel.Store != nil {
		m.screen.detail.SetContent(m.storeDetailContent(*sel.Store))
	}
}

// listEntry is one selectable row of a list screen. Exactly one of
// category, store or action is set.
type listEntry struct {
	category *catalog.Category
	store    *catalog.Store
	action   menuAction
}

// entries returns the selectable rows of the mounted screen.
func (m Model) entries() []listEntry {
	view, sel := m.router.Resolve()
	switch view {
	case router.ViewHome:
		var out []listEntry
		for _, c := range m.categories() {
			c := c
			out = append(out, listEntry{category: &c})
		}
		return append(out, storeEntries(m.featuredStores())...)
	case router.ViewExplore:
		return storeEntries(catalog.Search(m.snapshot.Stores, m.screen.search.Value()))
	case router.ViewMarketplace:
		return storeEntries(m.marketplaceStores())
	case router.ViewCategoryDetail:
		return storeEntries(catalog.FilterByCategory(m.snapshot.Stores, *sel.Category))
	case router.ViewCashback:
		return storeEntries(catalog.CashbackStores(m.snapshot.Stores))
	case router.ViewMenu:
		var out []listEntry
		for _, a := range m.menuActions() {
			out = append(out, listEntry{action: a})
		}
		return out
	default:
		return nil
	}
}

func storeEntries(stores []catalog.Store) []listEntry {
	out := make([]listEntry, 0, len(stores))
	for i := range stores {
		out = append(out, listEntry{store: &stores[i]})
	}
	return out
}

func (m *Model) clampCursor() {
	n := len(m.entries())
	if m.screen.cursor >= n {
		m.screen.cursor = n - 1
	}
	if m.screen.cursor < 0 {
		m.screen.cursor = 0
	}
}

// handleScreenKey processes keys for the active screen once global keys
// have been ruled out.
func (m Model) handleScreenKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	view, sel := m.router.Resolve()

	switch view {
	case router.ViewStoreDetail:
		if key.Matches(msg, m.keys.OpenCategory) && sel.Store != nil {
			if c, ok := m.categoryOf(*sel.Store); ok {
				m.router.SelectCategory(c)
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.screen.detail, cmd = m.screen.detail.Update(msg)
		return m, cmd

	case router.ViewCategoryDetail:
		switch {
		case key.Matches(msg, m.keys.NextBanner):
			m.screen.carousel = m.screen.carousel.Step(1)
			return m, nil
		case key.Matches(msg, m.keys.PrevBanner):
			m.screen.carousel = m.screen.carousel.Step(-1)
			return m, nil
		}

	case router.ViewExplore:
		if key.Matches(msg, m.keys.Search) {
			m.screen.editing = true
			return m, m.screen.search.Focus()
		}
	}

	return m.handleListKey(msg)
}

func (m Model) handleListKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	entries := m.entries()
	n := len(entries)
	if n == 0 {
		return m, nil
	}
	page := m.contentHeight() / 2
	if page < 1 {
		page = 1
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		m.screen.cursor--
	case key.Matches(msg, m.keys.Down):
		m.screen.cursor++
	case key.Matches(msg, m.keys.Top):
		m.screen.cursor = 0
	case key.Matches(msg, m.keys.Bottom):
		m.screen.cursor = n - 1
	case key.Matches(msg, m.keys.PageUp):
		m.screen.cursor -= page
	case key.Matches(msg, m.keys.PageDown):
		m.screen.cursor += page
	case key.Matches(msg, m.keys.Select):
		m.clampCursor()
		return m.activate(entries[m.screen.cursor])
	default:
		return m, nil
	}
	m.clampCursor()
	return m, nil
}

// activate opens the entry under the cursor.
func (m Model) activate(e listEntry) (Model, tea.Cmd) {
	switch {
	case e.category != nil:
		m.router.SelectCategory(*e.category)
	case e.store != nil:
		m.router.SelectStore(*e.store)
	default:
		return m.runMenuAction(e.action)
	}
	return m, nil
}

// handleInputKey routes keys while a text input has focus.
func (m Model) handleInputKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch m.screen.view {
	case router.ViewExplore:
		switch {
		case key.Matches(msg, m.keys.Cancel):
			m.screen.search.Blur()
			m.screen.editing = false
			return m, nil
		case msg.Type == tea.KeyEnter:
			m.screen.search.Blur()
			m.screen.editing = false
			m.clampCursor()
			return m, nil
		case msg.Type == tea.KeyUp:
			m.screen.cursor--
			m.clampCursor()
			return m, nil
		case msg.Type == tea.KeyDown:
			m.screen.cursor++
			m.clampCursor()
			return m, nil
		}

	case router.ViewMenu:
		switch {
		case key.Matches(msg, m.keys.Cancel):
			m.screen.profile.Blur()
			m.screen.editing = false
			return m, nil
		case msg.Type == tea.KeyEnter:
			return m.submitProfile()
		}
	}
	return m.updateScreenInput(msg)
}

func (m Model) updateScreenInput(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.screen.view {
	case router.ViewExplore:
		before := m.screen.search.Value()
		m.screen.search, cmd = m.screen.search.Update(msg)
		if m.screen.search.Value() != before {
			m.screen.cursor = 0
		}
	case router.ViewMenu:
		m.screen.profile, cmd = m.screen.profile.Update(msg)
	}
	return m, cmd
}

// Tabs

type tabDef struct {
	view  router.View
	label string
}

var tabs = []tabDef{
	{router.ViewHome, "Início"},
	{router.ViewExplore, "Explorar"},
	{router.ViewStatus, "Status"},
	{router.ViewMarketplace, "Mercado"},
	{router.ViewCashback, "Cashback"},
	{router.ViewMenu, "Menu"},
}

// tabIndex returns the tab highlighted for v. Detail screens belong to Início.
func tabIndex(v router.View) int {
	for i, t := range tabs {
		if t.view == v {
			return i
		}
	}
	return 0
}

func nextTab(current router.View, delta int) router.View {
	i := (tabIndex(current) + delta + len(tabs)) % len(tabs)
	return tabs[i].view
}
