package ui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type menuAction int

const (
	actionNone menuAction = iota
	actionLogin
	actionProfile
	actionTheme
	actionRefresh
	actionLogout
)

func (a menuAction) label(m Model) string {
	switch a {
	case actionLogin:
		return "Entrar ou criar conta"
	case actionProfile:
		return "Completar perfil"
	case actionTheme:
		return "Tema: " + m.theme.Name
	case actionRefresh:
		return "Atualizar lojas"
	case actionLogout:
		return "Sair da conta"
	default:
		return ""
	}
}

// menuActions lists the menu rows for the current session.
func (m Model) menuActions() []menuAction {
	var out []menuAction
	switch {
	case m.user == nil:
		out = append(out, actionLogin)
	case m.user.ProfilePending:
		out = append(out, actionProfile)
	}
	out = append(out, actionTheme)
	if m.refresh != nil {
		out = append(out, actionRefresh)
	}
	if m.user != nil {
		out = append(out, actionLogout)
	}
	return out
}

func (m Model) runMenuAction(a menuAction) (Model, tea.Cmd) {
	switch a {
	case actionLogin:
		return m.openAuth()
	case actionProfile:
		m.screen.editing = true
		return m, m.screen.profile.Focus()
	case actionTheme:
		m.cycleTheme()
	case actionRefresh:
		m.requestRefresh()
	case actionLogout:
		if m.auth != nil {
			m.auth.SignOut()
			m.flash = "Você saiu da conta."
		}
	}
	return m, nil
}

func newProfileInput(theme Theme) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "Como podemos te chamar?"
	ti.Prompt = "Nome: "
	ti.CharLimit = 60
	ti.PromptStyle = theme.Styles().AccentText
	return ti
}

func newSearchInput(theme Theme) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "Buscar lojas, categorias..."
	ti.Prompt = "🔍 "
	ti.CharLimit = 80
	ti.PromptStyle = theme.Styles().AccentText
	return ti
}
