package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type splashDoneMsg struct{ id int }

// splash gates the shell behind a branded screen for a fixed delay.
type splash struct {
	id      int
	delay   time.Duration
	visible bool
}

func newSplash(delay time.Duration) splash {
	return splash{id: nextTimerID(), delay: delay, visible: delay > 0}
}

// Start schedules dismissal. It returns nil when the splash is disabled.
func (s splash) Start() tea.Cmd {
	if !s.visible {
		return nil
	}
	id := s.id
	return tea.Tick(s.delay, func(time.Time) tea.Msg {
		return splashDoneMsg{id: id}
	})
}

// Dismiss hides the splash early. The pending timer becomes a no-op.
func (s splash) Dismiss() splash {
	s.visible = false
	s.id = nextTimerID()
	return s
}

func (s splash) Update(msg tea.Msg) splash {
	if done, ok := msg.(splashDoneMsg); ok && done.id == s.id {
		s.visible = false
	}
	return s
}

func (m Model) renderSplash() string {
	styles := m.theme.Styles()

	pin := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.Accent)).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(0, 2).
		Render("📍")

	sponsor := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Warning)).
		Padding(0, 1).
		Render(styles.WarningText.Bold(true).Render("W") + " " + styles.Text.Render(sponsorName))

	lines := []string{
		pin,
		"",
		styles.Logo.Render(brandName),
		styles.MutedText.Render(m.neighborhood),
		"",
		styles.FaintText.Render(strings.ToUpper("Patrocinador Master")),
		sponsor,
		"",
		styles.AccentText.Render("── ") + styles.MutedText.Render("Carregando experiências da Freguesia..."),
		styles.FaintText.Render("qualquer tecla para pular"),
	}
	block := lipgloss.JoinVertical(lipgloss.Center, lines...)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, block,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}
