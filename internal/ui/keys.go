package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Refresh    key.Binding
	Login      key.Binding
	Tab        key.Binding
	ShiftTab   key.Binding
	Back       key.Binding

	// Tabs
	TabHome        key.Binding
	TabExplore     key.Binding
	TabStatus      key.Binding
	TabMarketplace key.Binding
	TabCashback    key.Binding
	TabMenu        key.Binding

	// Lists
	Up       key.Binding
	Down     key.Binding
	Top      key.Binding
	Bottom   key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Select   key.Binding

	// Screen actions
	Search       key.Binding
	PrevBanner   key.Binding
	NextBanner   key.Binding
	OpenCategory key.Binding

	// Auth modal
	NextField  key.Binding
	PrevField  key.Binding
	ToggleMode key.Binding
	Submit     key.Binding
	Cancel     key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Sair"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Ajuda"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Alternar tema"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Atualizar lojas"),
		),
		Login: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "Entrar / criar conta"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Próxima aba"),
		),
		ShiftTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "Aba anterior"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "backspace"),
			key.WithHelp("esc", "Voltar ao início"),
		),

		TabHome:        key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "Início")),
		TabExplore:     key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "Explorar")),
		TabStatus:      key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "Status")),
		TabMarketplace: key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "Mercado")),
		TabCashback:    key.NewBinding(key.WithKeys("5"), key.WithHelp("5", "Cashback")),
		TabMenu:        key.NewBinding(key.WithKeys("6"), key.WithHelp("6", "Menu")),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "Subir"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "Descer"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Topo"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Fim"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("ctrl+u", "Página acima"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("ctrl+d", "Página abaixo"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Abrir"),
		),

		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Buscar"),
		),
		PrevBanner: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/←", "Banner anterior"),
		),
		NextBanner: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/→", "Próximo banner"),
		),
		OpenCategory: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Ver categoria da loja"),
		),

		NextField: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "Próximo campo"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "Campo anterior"),
		),
		ToggleMode: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "Entrar / cadastrar"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Confirmar"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Cancelar"),
		),
	}
}

// tabKeys maps each tab binding to its position in the tab bar.
func (k keyMap) tabKeys() []key.Binding {
	return []key.Binding{k.TabHome, k.TabExplore, k.TabStatus, k.TabMarketplace, k.TabCashback, k.TabMenu}
}
