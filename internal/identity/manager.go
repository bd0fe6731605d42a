package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Manager owns the current session, persists it between runs, and
// publishes every change on its Stream.
type Manager struct {
	provider Provider
	path     string
	stream   Stream
	now      func() time.Time

	mu      sync.Mutex
	session *Session
	// pubMu keeps session assignment and publish in the same order.
	pubMu sync.Mutex
}

// NewManager builds a Manager. provider may be nil when login is not
// configured; every call then fails with ErrMissingAPIKey and the stream
// reports a signed-out user. An empty path disables persistence.
func NewManager(provider Provider, sessionPath string) *Manager {
	return &Manager{provider: provider, path: sessionPath, now: time.Now}
}

// Subscribe registers a listener on the session stream.
func (m *Manager) Subscribe(fn func(Event)) (cancel func()) {
	return m.stream.Subscribe(fn)
}

// Current returns the latest published user, nil when signed out.
func (m *Manager) Current() *User {
	ev, _ := m.stream.Current()
	return ev.User
}

// AccessToken returns the id token of the current session or "".
func (m *Manager) AccessToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return ""
	}
	return m.session.IDToken
}

// Restore loads the persisted session and refreshes it when stale. Any
// failure is logged and treated as signed out; Restore always publishes.
func (m *Manager) Restore(ctx context.Context) {
	s, err := LoadSession(m.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			slog.Warn("load session failed", "path", m.path, "error", err)
		}
		m.set(nil)
		return
	}
	if s.Expired(m.now()) {
		if m.provider == nil {
			m.set(nil)
			return
		}
		refreshed, err := m.provider.Refresh(ctx, s)
		if err != nil {
			slog.Warn("refresh session failed", "error", err)
			if errors.Is(err, ErrNotSignedIn) {
				m.clearFile()
			}
			m.set(nil)
			return
		}
		s = refreshed
		m.persist(s)
	}
	m.set(&s)
}

// SignIn authenticates and publishes the new user.
func (m *Manager) SignIn(ctx context.Context, email, password string) error {
	if m.provider == nil {
		return ErrMissingAPIKey
	}
	s, err := m.provider.SignIn(ctx, email, password)
	if err != nil {
		return err
	}
	m.persist(s)
	m.set(&s)
	return nil
}

// SignUp registers and publishes the new user with ProfilePending set.
func (m *Manager) SignUp(ctx context.Context, email, password string) error {
	if m.provider == nil {
		return ErrMissingAPIKey
	}
	s, err := m.provider.SignUp(ctx, email, password)
	if err != nil {
		return err
	}
	m.persist(s)
	m.set(&s)
	return nil
}

// CompleteProfile stores the display name, clearing ProfilePending.
func (m *Manager) CompleteProfile(ctx context.Context, displayName string) error {
	if m.provider == nil {
		return ErrMissingAPIKey
	}
	m.mu.Lock()
	current := m.session
	m.mu.Unlock()
	if current == nil {
		return ErrNotSignedIn
	}
	s, err := m.provider.UpdateProfile(ctx, *current, displayName)
	if err != nil {
		return err
	}
	m.persist(s)
	m.set(&s)
	return nil
}

// SignOut forgets the session locally and on disk.
func (m *Manager) SignOut() {
	m.clearFile()
	m.set(nil)
}

// Fail records a listener failure. The user is treated as absent.
func (m *Manager) Fail(err error) {
	slog.Warn("identity listener failed", "error", err)
	m.set(nil)
}

func (m *Manager) set(s *Session) {
	m.pubMu.Lock()
	defer m.pubMu.Unlock()

	m.mu.Lock()
	m.session = s
	m.mu.Unlock()
	if s == nil {
		m.stream.Publish(nil)
		return
	}
	m.stream.Publish(s.User())
}

func (m *Manager) persist(s Session) {
	if m.path == "" {
		return
	}
	if err := SaveSession(m.path, s); err != nil {
		slog.Warn("save session failed", "path", m.path, "error", err)
	}
}

func (m *Manager) clearFile() {
	if m.path == "" {
		return
	}
	if err := os.Remove(m.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("remove session failed", "path", m.path, "error", err)
	}
}

// LoadSession reads a session saved by SaveSession.
func LoadSession(path string) (Session, error) {
	if path == "" {
		return Session{}, os.ErrNotExist
	}
	f, err := os.Open(path) // #nosec G304
	if err != nil {
		return Session{}, err
	}
	defer func() { _ = f.Close() }()

	var s Session
	if err := json.NewDecoder(f).Decode(&s); err != nil {
		return Session{}, fmt.Errorf("decode session: %w", err)
	}
	if s.RefreshToken == "" {
		return Session{}, fmt.Errorf("session has no refresh token: %w", ErrNotSignedIn)
	}
	return s, nil
}

// SaveSession writes s with owner-only permissions.
func SaveSession(path string, s Session) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}
