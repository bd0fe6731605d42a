package ui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/localizei/internal/catalog"
	"github.com/five82/localizei/internal/router"
)

// renderMain renders the shell: header, optional error banner, tab bar,
// the active screen and the footer.
func (m Model) renderMain() string {
	parts := []string{m.renderHeader()}
	if banner := m.renderErrorBanner(); banner != "" {
		parts = append(parts, banner)
	}
	parts = append(parts, m.renderTabBar())

	content := lipgloss.NewStyle().
		Width(m.contentWidth()).
		Height(m.contentHeight()).
		MaxHeight(m.contentHeight()).
		Padding(0, 1).
		Render(m.renderContent())
	parts = append(parts, content, m.renderFooter())

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	left := []string{bg.Render("📍 "+brandName, styles.Logo)}
	if m.width >= LayoutCompactWidth {
		left = append(left, bg.Render(m.neighborhood, styles.MutedText))
	}

	var right []string
	if m.snapshot.Loading {
		right = append(right, bg.Render(m.spinner.View()+" atualizando", styles.InfoText))
	}
	right = append(right, m.userBadge(styles, bg))

	line := bg.Spread(bg.Join(left, "  "), bg.Join(right, "  "), m.width-2)
	return styles.Header.Width(m.width).Render(line)
}

// userBadge shows who is signed in. Until the first session value arrives
// it shows a loading placeholder instead.
func (m Model) userBadge(styles Styles, bg BgStyle) string {
	switch {
	case !m.authReady:
		return bg.Render("Carregando...", styles.FaintText)
	case m.user == nil:
		return bg.Render("Entrar (L)", styles.AccentText)
	case m.user.ProfilePending:
		return bg.Render(truncate(m.user.Email, 24)+" · perfil incompleto", styles.WarningText)
	default:
		return bg.Render("● "+truncate(m.user.DisplayName, 24), styles.SuccessText)
	}
}

// renderErrorBanner is the inline, non-fatal listing error. It never
// changes the active view.
func (m Model) renderErrorBanner() string {
	if m.snapshot.LastError == nil {
		return ""
	}
	text := "⚠ Não foi possível atualizar as lojas."
	if m.snapshot.IsOffline() {
		text += " Sem conexão, exibindo a última lista salva."
	}
	text += " (r tenta de novo)"
	return m.theme.Styles().Banner.Width(m.width).Render(truncate(text, m.width-2))
}

func (m Model) renderTabBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)
	bg := NewBgStyle(m.theme.SurfaceAlt)
	active := tabIndex(m.activeView())

	parts := make([]string, 0, len(tabs))
	for i, t := range tabs {
		label := fmt.Sprintf("%d %s", i+1, t.label)
		if m.width < LayoutCompactWidth {
			label = fmt.Sprintf("%d", i+1)
		}
		if i == active {
			parts = append(parts, styles.ActiveTab.Render(label))
			continue
		}
		parts = append(parts, styles.Tab.Render(label))
	}
	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.SurfaceAlt)).
		Width(m.width).
		Render(bg.Join(parts, " "))
}

func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	if m.flash != "" {
		return styles.Footer.Width(m.width).Render(styles.InfoText.Background(lipgloss.Color(m.theme.Surface)).Render(m.flash))
	}

	hints := "1-6 abas · enter abrir · / buscar · r atualizar · T tema · ? ajuda · q sair"
	switch m.screen.view {
	case router.ViewCategoryDetail:
		hints = "h/l banners · enter abrir loja · esc início · ? ajuda"
	case router.ViewStoreDetail:
		hints = "j/k rolar · c categoria · esc início · ? ajuda"
	case router.ViewExplore:
		if m.screen.editing {
			hints = "digite para buscar · ↑/↓ mover · enter confirmar · esc sair da busca"
		}
	case router.ViewMenu:
		if m.screen.editing {
			hints = "enter salvar · esc cancelar"
		}
	}
	return styles.Footer.Width(m.width).Render(truncate(hints, m.width-2))
}

// renderContent renders the main content area for the resolved view.
func (m Model) renderContent() string {
	view, sel := m.router.Resolve()
	switch view {
	case router.ViewExplore:
		return m.renderExplore()
	case router.ViewStatus:
		return m.renderStatus()
	case router.ViewMarketplace:
		return m.renderStoreList("Mercado do bairro", "Ofertas e lojas da região", m.marketplaceStores())
	case router.ViewCategoryDetail:
		return m.renderCategory(*sel.Category)
	case router.ViewStoreDetail:
		return m.screen.detail.View()
	case router.ViewCashback:
		return m.renderStoreList("Cashback", "Receba parte do valor de volta nessas lojas", catalog.CashbackStores(m.snapshot.Stores))
	case router.ViewMenu:
		return m.renderMenu()
	default:
		return m.renderHome()
	}
}

func (m Model) renderHome() string {
	styles := m.theme.Styles()
	cats := m.categories()

	var lines []string
	lines = append(lines, styles.Text.Bold(true).Render("Categorias"))
	focusLine := 0
	for i, c := range cats {
		if i == m.screen.cursor {
			focusLine = len(lines)
		}
		lines = append(lines, m.entryLine(i, c.Icon+" "+c.Name))
	}

	lines = append(lines, "", styles.Text.Bold(true).Render("Destaques"))
	featured := m.featuredStores()
	switch {
	case len(featured) == 0 && m.snapshot.Loading:
		lines = append(lines, styles.MutedText.Render("Carregando lojas..."))
	case len(featured) == 0:
		lines = append(lines, styles.MutedText.Render("Nenhuma loja cadastrada ainda."))
	}
	for i, s := range featured {
		idx := len(cats) + i
		if idx == m.screen.cursor {
			focusLine = len(lines)
		}
		lines = append(lines, m.entryLine(idx, m.storeLine(s)))
	}
	return strings.Join(window(lines, focusLine, m.contentHeight()), "\n")
}

func (m Model) renderExplore() string {
	styles := m.theme.Styles()
	results := catalog.Search(m.snapshot.Stores, m.screen.search.Value())

	lines := []string{m.screen.search.View()}
	if !m.screen.editing {
		lines[0] += styles.FaintText.Render("  (/ para buscar)")
	}
	lines = append(lines, styles.MutedText.Render(fmt.Sprintf("%d resultado(s)", len(results))), "")

	header := len(lines)
	if len(results) == 0 {
		lines = append(lines, styles.MutedText.Render("Nada encontrado. Tente outro termo."))
	}
	for i, s := range results {
		lines = append(lines, m.entryLine(i, m.storeLine(s)))
	}
	return strings.Join(window(lines, header+m.screen.cursor, m.contentHeight()), "\n")
}

func (m Model) renderStatus() string {
	styles := m.theme.Styles()
	label := styles.MutedText.Width(22)
	row := func(k, v string) string { return label.Render(k) + styles.Text.Render(v) }

	var lines []string
	switch {
	case m.user == nil:
		lines = append(lines,
			styles.Text.Bold(true).Render("Olá, visitante"),
			styles.MutedText.Render("Entre para acompanhar seu cashback (L)."),
		)
	default:
		name := m.user.DisplayName
		if name == "" {
			name = m.user.Email
		}
		lines = append(lines,
			styles.Text.Bold(true).Render("Olá, "+name),
			row("Conta", m.user.Email),
		)
		if m.user.ProfilePending {
			lines = append(lines, styles.WarningText.Render("Complete seu perfil no Menu (6)."))
		}
	}
	lines = append(lines, "")

	stores := m.snapshot.Stores
	cashback := catalog.CashbackStores(stores)
	lines = append(lines,
		row("Lojas no bairro", fmt.Sprintf("%d", len(stores))),
		row("Categorias", fmt.Sprintf("%d", len(m.categories()))),
		row("Com cashback", fmt.Sprintf("%d", len(cashback))),
	)
	if len(cashback) > 0 {
		best := cashback[0]
		lines = append(lines, row("Maior cashback", best.Name+" · "+formatPercent(best.Cashback)))
	}

	updated := humanizeSince(m.snapshot.LastUpdated, time.Now())
	if m.snapshot.FromCache {
		updated += " (lista salva)"
	}
	conn := styles.SuccessText.Render("online")
	if m.snapshot.IsOffline() {
		conn = styles.DangerText.Render("offline")
	}
	lines = append(lines, row("Atualizado", updated), label.Render("Conexão")+conn)
	return strings.Join(lines, "\n")
}

func (m Model) renderStoreList(title, subtitle string, stores []catalog.Store) string {
	styles := m.theme.Styles()
	lines := []string{
		styles.Text.Bold(true).Render(title),
		styles.MutedText.Render(subtitle),
		"",
	}
	header := len(lines)
	if len(stores) == 0 {
		lines = append(lines, styles.MutedText.Render("Nenhuma loja por aqui ainda."))
	}
	for i, s := range stores {
		lines = append(lines, m.entryLine(i, m.storeLine(s)))
	}
	return strings.Join(window(lines, header+m.screen.cursor, m.contentHeight()), "\n")
}

func (m Model) renderCategory(c catalog.Category) string {
	styles := m.theme.Styles()

	lines := []string{
		styles.AccentText.Render("‹ ") + styles.Text.Bold(true).Render(c.Icon+" "+c.Name),
		"",
		m.renderCarousel(),
		"",
		m.renderSubcategories(catalog.SubcategoriesFor(c.Name)),
		"",
		styles.Text.Bold(true).Render("Lojas"),
	}

	stores := catalog.FilterByCategory(m.snapshot.Stores, c)
	if len(stores) == 0 {
		lines = append(lines, styles.MutedText.Render("Nenhuma loja nesta categoria ainda."))
	}
	for i, s := range stores {
		lines = append(lines, m.entryLine(i, m.storeLine(s)))
	}

	// The carousel and tiles span several lines; scroll on physical lines.
	all := strings.Split(strings.Join(lines, "\n"), "\n")
	focus := len(all) - 1
	if len(stores) > 0 {
		focus = len(all) - len(stores) + m.screen.cursor
	}
	return strings.Join(window(all, focus, m.contentHeight()), "\n")
}

func (m Model) renderCarousel() string {
	styles := m.theme.Styles()
	idx := m.screen.carousel.Index()
	banner := catalog.DefaultBanners[idx]

	dots := make([]string, len(catalog.DefaultBanners))
	for i := range dots {
		if i == idx {
			dots[i] = styles.AccentText.Render("━━")
		} else {
			dots[i] = styles.FaintText.Render("·")
		}
	}

	width := m.contentWidth() - 4
	if width > 72 {
		width = 72
	}
	body := styles.Text.Bold(true).Render(banner.Caption) + "\n" +
		styles.FaintText.Render(truncate(banner.ImageURL, width-4)) + "\n" +
		strings.Join(dots, " ")
	return styles.Card.Width(width).Render(body)
}

func (m Model) renderSubcategories(subs []catalog.Subcategory) string {
	styles := m.theme.Styles()
	tile := styles.Card.Width(18).Align(lipgloss.Center)

	perRow := 2
	if m.width >= LayoutWideWidth {
		perRow = 4
	}
	var rows []string
	for i := 0; i < len(subs); i += perRow {
		end := i + perRow
		if end > len(subs) {
			end = len(subs)
		}
		tiles := make([]string, 0, perRow)
		for _, s := range subs[i:end] {
			tiles = append(tiles, tile.Render(s.Icon+" "+s.Name))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, tiles...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) renderMenu() string {
	styles := m.theme.Styles()

	lines := []string{styles.Text.Bold(true).Render("Menu")}
	if m.user != nil {
		lines = append(lines, styles.MutedText.Render(m.user.Email))
	}
	lines = append(lines, "")
	for i, a := range m.menuActions() {
		lines = append(lines, m.entryLine(i, a.label(m)))
		if a == actionProfile && (m.screen.editing || m.screen.profile.Value() != "") {
			lines = append(lines, "   "+m.screen.profile.View())
		}
	}
	lines = append(lines, "", styles.FaintText.Render(brandName+" · "+m.neighborhood))
	return strings.Join(lines, "\n")
}

// entryLine renders one selectable row, highlighted under the cursor.
func (m Model) entryLine(i int, text string) string {
	styles := m.theme.Styles()
	text = truncate(text, m.contentWidth()-6)
	if i == m.screen.cursor && !m.screen.editing {
		return styles.Selected.Render("› " + text)
	}
	if i == m.screen.cursor {
		return styles.AccentText.Render("› ") + text
	}
	return "  " + text
}

func (m Model) storeLine(s catalog.Store) string {
	parts := []string{s.Name}
	if s.Category != "" {
		parts = append(parts, s.Category)
	}
	if r := formatRating(s.Rating); r != "" {
		parts = append(parts, r)
	}
	if s.HasCashback() {
		parts = append(parts, formatPercent(s.Cashback)+" cashback")
	}
	if s.Verified {
		parts = append(parts, "✓")
	}
	return strings.Join(parts, " · ")
}

func (m Model) storeDetailContent(s catalog.Store) string {
	styles := m.theme.Styles()
	label := styles.MutedText.Width(12)

	title := styles.Text.Bold(true).Render(s.Name)
	if s.Verified {
		title += " " + styles.SuccessText.Render("✓ verificada")
	}
	lines := []string{styles.AccentText.Render("‹ ") + title}
	if s.Category != "" {
		lines = append(lines, styles.MutedText.Render(s.Category))
	}
	if r := formatRating(s.Rating); r != "" {
		lines = append(lines, styles.WarningText.Render(r))
	}
	if s.HasCashback() {
		lines = append(lines, styles.SuccessText.Render(formatPercent(s.Cashback)+" de cashback"))
	}
	if s.Description != "" {
		desc := lipgloss.NewStyle().Width(m.contentWidth() - 4).Render(s.Description)
		lines = append(lines, "", styles.Text.Render(desc))
	}
	lines = append(lines, "")

	fields := []struct{ k, v string }{
		{"Endereço", s.Address},
		{"Telefone", s.Phone},
		{"WhatsApp", s.WhatsApp},
		{"Instagram", s.Instagram},
		{"Horário", s.Hours},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.v) == "" {
			continue
		}
		lines = append(lines, label.Render(f.k)+styles.Text.Render(f.v))
	}
	return strings.Join(lines, "\n")
}

// categories returns the backend list, or the built-in one before the
// first refresh.
func (m Model) categories() []catalog.Category {
	if len(m.snapshot.Categories) > 0 {
		return m.snapshot.Categories
	}
	return catalog.DefaultCategories
}

func (m Model) categoryOf(s catalog.Store) (catalog.Category, bool) {
	for _, c := range m.categories() {
		if s.InCategory(c) {
			return c, true
		}
	}
	return catalog.Category{}, false
}

// featuredStores returns the best-rated stores, verified first on ties.
func (m Model) featuredStores() []catalog.Store {
	out := append([]catalog.Store(nil), m.snapshot.Stores...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Rating != out[j].Rating {
			return out[i].Rating > out[j].Rating
		}
		return out[i].Verified && !out[j].Verified
	})
	if len(out) > featuredCount {
		out = out[:featuredCount]
	}
	return out
}

// marketplaceStores orders the listing by category, then name.
func (m Model) marketplaceStores() []catalog.Store {
	out := append([]catalog.Store(nil), m.snapshot.Stores...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func (m Model) contentWidth() int {
	if m.width <= 0 {
		return 80
	}
	return m.width
}

// contentHeight is the terminal height minus header, tab bar, footer and
// the error banner when shown.
func (m Model) contentHeight() int {
	chrome := 3
	if m.snapshot.LastError != nil {
		chrome++
	}
	h := m.height - chrome
	if h < 3 {
		return 3
	}
	return h
}
