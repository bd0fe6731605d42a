package ui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/localizei/internal/identity"
)

// AuthService is the identity surface the shell needs. *identity.Manager
// implements it.
type AuthService interface {
	Subscribe(fn func(identity.Event)) (cancel func())
	SignIn(ctx context.Context, email, password string) error
	SignUp(ctx context.Context, email, password string) error
	CompleteProfile(ctx context.Context, displayName string) error
	SignOut()
}

type sessionMsg identity.Event

// sessionBridge turns the identity stream's callbacks into Bubble Tea
// messages. Only the newest event is kept; intermediate values that arrive
// while the UI is busy are skipped.
type sessionBridge struct {
	mu     sync.Mutex
	latest identity.Event
	has    bool
	signal chan struct{}
	cancel func()
}

func newSessionBridge() *sessionBridge {
	return &sessionBridge{signal: make(chan struct{}, 1)}
}

// attach subscribes to auth. Calling it again is a no-op.
func (b *sessionBridge) attach(auth AuthService) {
	if auth == nil {
		return
	}
	b.mu.Lock()
	if b.cancel != nil {
		b.mu.Unlock()
		return
	}
	b.mu.Unlock()

	cancel := auth.Subscribe(b.deliver)

	b.mu.Lock()
	b.cancel = cancel
	b.mu.Unlock()
}

func (b *sessionBridge) deliver(ev identity.Event) {
	b.mu.Lock()
	if b.has && ev.Seq < b.latest.Seq {
		b.mu.Unlock()
		return
	}
	b.latest, b.has = ev, true
	b.mu.Unlock()

	select {
	case b.signal <- struct{}{}:
	default:
	}
}

// wait blocks until a new event is delivered or ctx ends.
func (b *sessionBridge) wait(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case <-b.signal:
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		return sessionMsg(b.latest)
	}
}

// Close releases the subscription.
func (b *sessionBridge) Close() {
	b.mu.Lock()
	cancel := b.cancel
	b.cancel = nil
	b.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}
