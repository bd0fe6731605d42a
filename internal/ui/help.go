package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// renderHelp renders the help overlay from the key map.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()
	k := m.keys

	sections := []helpSection{
		{
			title: "Navegação",
			items: append(bindingItems(k.tabKeys()...), bindingItems(k.Tab, k.ShiftTab, k.Back)...),
		},
		{
			title: "Listas",
			items: bindingItems(k.Up, k.Down, k.Top, k.Bottom, k.Select, k.Search),
		},
		{
			title: "Categoria e loja",
			items: bindingItems(k.PrevBanner, k.NextBanner, k.OpenCategory),
		},
		{
			title: "Geral",
			items: bindingItems(k.Login, k.Refresh, k.CycleTheme, k.Help, k.Quit),
		},
	}

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Atalhos"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 30)))
	b.WriteString("\n\n")

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.Warning)).
		Width(12)
	for i, section := range sections {
		b.WriteString(styles.AccentText.Bold(true).Render(section.title))
		b.WriteString("\n")
		for _, item := range section.items {
			b.WriteString(keyStyle.Render(item.key))
			b.WriteString(styles.Text.Render(item.desc))
			b.WriteString("\n")
		}
		if i < len(sections)-1 {
			b.WriteString("\n")
		}
	}

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(1, 2).
		Width(44)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(b.String()),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}

type helpSection struct {
	title string
	items []helpItem
}

type helpItem struct {
	key  string
	desc string
}

func bindingItems(bindings ...key.Binding) []helpItem {
	out := make([]helpItem, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		out = append(out, helpItem{key: h.Key, desc: h.Desc})
	}
	return out
}
