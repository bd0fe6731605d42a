package ui

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/localizei/internal/identity"
	"github.com/five82/localizei/internal/prefs"
	"github.com/five82/localizei/internal/router"
	"github.com/five82/localizei/internal/state"
)

// Options configures the UI.
type Options struct {
	Context          context.Context
	Store            *state.Store
	Auth             AuthService // nil disables login
	Refresh          func()      // asks the poller for an immediate refresh
	Neighborhood     string
	SplashDelay      time.Duration // zero skips the splash
	CarouselInterval time.Duration
	PollTick         time.Duration
	Prefs            prefs.Prefs
	PrefsPath        string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx              context.Context
	store            *state.Store
	auth             AuthService
	refresh          func()
	prefs            prefs.Prefs
	prefsPath        string
	pollTick         time.Duration
	neighborhood     string
	carouselInterval time.Duration

	// UI state
	keys   keyMap
	theme  Theme
	width  int
	height int
	ready  bool

	// Navigation. mounted is the router transition the current screen
	// state was built for.
	router  router.Router
	mounted uint64
	screen  screenState

	splash   splash
	spinner  spinner.Model
	snapshot state.Snapshot

	// Session
	sessions      *sessionBridge
	user          *identity.User
	sessionSeq    uint64
	authReady     bool
	awaitingLogin bool // set while a sign-in started from the auth modal is pending

	modal    Modal
	showHelp bool
	flash    string
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick <= 0 {
		pollTick = DefaultUIInterval
	}

	neighborhood := strings.TrimSpace(opts.Neighborhood)
	if neighborhood == "" {
		neighborhood = defaultNeighborhood
	}

	p := opts.Prefs
	if p.Theme == "" {
		p.Theme = themeDark
	}

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot

	m := Model{
		ctx:              ctx,
		store:            opts.Store,
		auth:             opts.Auth,
		refresh:          opts.Refresh,
		prefs:            p,
		prefsPath:        opts.PrefsPath,
		pollTick:         pollTick,
		neighborhood:     neighborhood,
		carouselInterval: opts.CarouselInterval,
		keys:             DefaultKeyMap(),
		theme:            GetTheme(p.Theme),
		router:           router.New(),
		splash:           newSplash(opts.SplashDelay),
		spinner:          sp,
		sessions:         newSessionBridge(),
		authReady:        opts.Auth == nil,
	}
	m.screen, _ = m.mountScreen()
	m.mounted = m.router.Transitions()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tickCmd(m.pollTick),
		m.spinner.Tick,
		m.splash.Start(),
	}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	if m.auth != nil {
		m.sessions.attach(m.auth)
		cmds = append(cmds, m.sessions.wait(m.ctx))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model. Every message may move the router; the
// active screen is remounted afterwards when it did.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	next, mountCmd := next.syncScreen()
	return next, tea.Batch(cmd, mountCmd)
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resizeScreen()
		return m, nil

	case splashDoneMsg:
		m.splash = m.splash.Update(msg)
		return m, nil

	case carouselTickMsg:
		var cmd tea.Cmd
		m.screen.carousel, cmd = m.screen.carousel.Update(msg)
		return m, cmd

	case tickMsg:
		cmds := []tea.Cmd{tickCmd(m.pollTick)}
		if m.store != nil {
			cmds = append(cmds, fetchSnapshotCmd(m.store))
		}
		return m, tea.Batch(cmds...)

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		m.clampCursor()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case sessionMsg:
		return m.handleSession(identity.Event(msg))

	case authSubmitMsg:
		return m.submitAuth(msg)

	case authResultMsg:
		return m.handleAuthResult(msg)

	case profileResultMsg:
		if msg.err != nil {
			m.flash = identity.UserMessage(msg.err)
			return m, nil
		}
		m.flash = "Perfil atualizado."
		return m, nil
	}

	// Cursor blink and other component messages go to whatever has focus.
	if m.modal != nil {
		var cmd tea.Cmd
		m.modal, cmd, _ = m.modal.Update(msg, m.keys)
		return m, cmd
	}
	if m.screen.editing {
		return m.updateScreenInput(msg)
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Carregando..."
	}
	if m.splash.visible {
		return m.renderSplash()
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// Any key skips the splash.
	if m.splash.visible {
		m.splash = m.splash.Dismiss()
		return m, nil
	}

	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if m.modal != nil {
		var (
			cmd    tea.Cmd
			closed bool
		)
		m.modal, cmd, closed = m.modal.Update(msg, m.keys)
		if closed {
			m.modal = nil
			m.awaitingLogin = false
		}
		return m, cmd
	}

	if m.screen.editing {
		return m.handleInputKey(msg)
	}

	m.flash = ""

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.cycleTheme()
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		m.requestRefresh()
		return m, nil

	case key.Matches(msg, m.keys.Login):
		return m.openAuth()

	case key.Matches(msg, m.keys.Tab):
		m.router.NavigateTo(nextTab(m.activeView(), 1))
		return m, nil

	case key.Matches(msg, m.keys.ShiftTab):
		m.router.NavigateTo(nextTab(m.activeView(), -1))
		return m, nil

	case key.Matches(msg, m.keys.Back):
		if m.activeView() != router.ViewHome {
			m.router.GoBack()
		}
		return m, nil
	}

	for i, b := range m.keys.tabKeys() {
		if key.Matches(msg, b) {
			m.router.NavigateTo(tabs[i].view)
			return m, nil
		}
	}

	return m.handleScreenKey(msg)
}

func (m Model) handleSession(ev identity.Event) (Model, tea.Cmd) {
	next := m.sessions.wait(m.ctx)
	if m.authReady && ev.Seq < m.sessionSeq {
		return m, next
	}
	m.user = ev.User
	m.sessionSeq = ev.Seq
	m.authReady = true

	if m.awaitingLogin && m.user != nil {
		m.awaitingLogin = false
		m.modal = nil
		if m.user.ProfilePending {
			m.router.NavigateTo(router.ViewMenu)
		}
	}
	return m, next
}

func (m *Model) cycleTheme() {
	m.theme = GetTheme(NextTheme(m.theme.Name))
	m.prefs.Theme = m.theme.Name
	m.savePrefs()
	m.flash = "Tema: " + m.theme.Name
}

func (m *Model) requestRefresh() {
	if m.refresh == nil {
		return
	}
	m.refresh()
	m.flash = "Atualizando lojas..."
}

func (m Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
		slog.Warn("save prefs failed", "path", m.prefsPath, "error", err)
	}
}

// activeView is the view actually rendered, after the detail fallback.
func (m Model) activeView() router.View {
	v, _ := m.router.Resolve()
	return v
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	m := New(opts)
	defer m.sessions.Close()

	programOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if opts.Context != nil {
		programOpts = append(programOpts, tea.WithContext(opts.Context))
	}
	p := tea.NewProgram(m, programOpts...)
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && opts.Context != nil && opts.Context.Err() != nil {
		return nil
	}
	return err
}
