package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/localizei/internal/identity"
)

const authTimeout = 15 * time.Second

const minPasswordLen = 6

type authSubmitMsg struct {
	signUp   bool
	email    string
	password string
}

type authResultMsg struct {
	email string
	err   error
}

type profileResultMsg struct{ err error }

const (
	fieldEmail = iota
	fieldPassword
	fieldCount
)

// authModal is the e-mail and password form used to sign in or sign up.
type authModal struct {
	signUp bool
	inputs [fieldCount]textinput.Model
	focus  int
	busy   bool
	err    string
}

func newAuthModal(email string) authModal {
	emailInput := textinput.New()
	emailInput.Placeholder = "voce@exemplo.com"
	emailInput.Prompt = ""
	emailInput.CharLimit = 254
	emailInput.SetValue(email)

	password := textinput.New()
	password.Placeholder = "senha"
	password.Prompt = ""
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.CharLimit = 128

	a := authModal{inputs: [fieldCount]textinput.Model{emailInput, password}}
	if email != "" {
		a.focus = fieldPassword
	}
	a.inputs[a.focus].Focus()
	return a
}

func (a authModal) withError(msg string) authModal {
	a.busy = false
	a.err = msg
	return a
}

func (a authModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		a.inputs[a.focus], cmd = a.inputs[a.focus].Update(msg)
		return a, cmd, false
	}
	if a.busy {
		// Only cancelling is allowed while a request is in flight.
		return a, nil, key.Matches(k, keys.Cancel)
	}

	switch {
	case key.Matches(k, keys.Cancel):
		return a, nil, true

	case key.Matches(k, keys.ToggleMode):
		a.signUp = !a.signUp
		a.err = ""
		return a, nil, false

	case key.Matches(k, keys.NextField):
		return a, a.setFocus(a.focus + 1), false

	case key.Matches(k, keys.PrevField):
		return a, a.setFocus(a.focus - 1), false

	case key.Matches(k, keys.Submit):
		if a.focus == fieldEmail && a.inputs[fieldPassword].Value() == "" {
			return a, a.setFocus(fieldPassword), false
		}
		return a.submit()
	}

	var cmd tea.Cmd
	a.inputs[a.focus], cmd = a.inputs[a.focus].Update(msg)
	return a, cmd, false
}

func (a *authModal) setFocus(i int) tea.Cmd {
	a.inputs[a.focus].Blur()
	a.focus = (i + fieldCount) % fieldCount
	return a.inputs[a.focus].Focus()
}

func (a authModal) submit() (Modal, tea.Cmd, bool) {
	email := strings.TrimSpace(a.inputs[fieldEmail].Value())
	password := a.inputs[fieldPassword].Value()

	if email == "" || password == "" {
		a.err = "Informe e-mail e senha."
		return a, nil, false
	}
	if !strings.Contains(email, "@") {
		a.err = "E-mail inválido."
		return a, nil, false
	}
	if a.signUp && len([]rune(password)) < minPasswordLen {
		a.err = identity.UserMessage(identity.ErrWeakPassword)
		return a, nil, false
	}

	a.busy = true
	a.err = ""
	submit := authSubmitMsg{signUp: a.signUp, email: email, password: password}
	return a, func() tea.Msg { return submit }, false
}

func (a authModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()

	title := "Entrar"
	toggle := "Não tem conta? ctrl+t para criar"
	if a.signUp {
		title = "Criar conta"
		toggle = "Já tem conta? ctrl+t para entrar"
	}

	labels := [fieldCount]string{"E-mail", "Senha"}
	var b strings.Builder
	b.WriteString(styles.Logo.Render(brandName))
	b.WriteString("  ")
	b.WriteString(styles.Text.Bold(true).Render(title))
	b.WriteString("\n\n")
	for i := range a.inputs {
		label := styles.MutedText
		if i == a.focus {
			label = styles.AccentText.Bold(true)
		}
		b.WriteString(label.Render(labels[i]))
		b.WriteString("\n")
		b.WriteString(a.inputs[i].View())
		b.WriteString("\n\n")
	}

	switch {
	case a.busy:
		b.WriteString(styles.InfoText.Render("Conectando..."))
	case a.err != "":
		b.WriteString(styles.DangerText.Render(a.err))
	default:
		b.WriteString(styles.FaintText.Render(toggle))
	}
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("enter confirmar · esc cancelar"))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.Accent)).
		Padding(1, 2).
		Width(44).
		Render(b.String())

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}

// openAuth shows the auth modal, pre-filled with the last e-mail used.
func (m Model) openAuth() (Model, tea.Cmd) {
	if m.auth == nil {
		m.flash = identity.UserMessage(identity.ErrMissingAPIKey)
		return m, nil
	}
	if m.user != nil {
		m.flash = "Você já está conectado."
		return m, nil
	}
	m.modal = newAuthModal(m.prefs.LastEmail)
	return m, textinput.Blink
}

func (m Model) submitAuth(msg authSubmitMsg) (Model, tea.Cmd) {
	if m.auth == nil {
		return m, nil
	}
	m.awaitingLogin = true
	auth, ctx := m.auth, m.ctx
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, authTimeout)
		defer cancel()
		var err error
		if msg.signUp {
			err = auth.SignUp(ctx, msg.email, msg.password)
		} else {
			err = auth.SignIn(ctx, msg.email, msg.password)
		}
		return authResultMsg{email: msg.email, err: err}
	}
}

func (m Model) handleAuthResult(msg authResultMsg) (Model, tea.Cmd) {
	if msg.err != nil {
		m.awaitingLogin = false
		if a, ok := m.modal.(authModal); ok {
			m.modal = a.withError(identity.UserMessage(msg.err))
		} else {
			m.flash = identity.UserMessage(msg.err)
		}
		return m, nil
	}

	// The session event normally closes the modal first; this covers the
	// case where it has not been delivered yet.
	m.modal = nil
	if m.prefs.LastEmail != msg.email {
		m.prefs.LastEmail = msg.email
		m.savePrefs()
	}
	return m, nil
}

func (m Model) submitProfile() (Model, tea.Cmd) {
	name := strings.TrimSpace(m.screen.profile.Value())
	if name == "" {
		m.flash = "Informe seu nome."
		return m, nil
	}
	m.screen.profile.Blur()
	m.screen.editing = false
	if m.auth == nil {
		return m, nil
	}
	auth, ctx := m.auth, m.ctx
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, authTimeout)
		defer cancel()
		return profileResultMsg{err: auth.CompleteProfile(ctx, name)}
	}
}
