package identity

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStream_ReplayAndCancel(t *testing.T) {
	var s Stream
	var got []Event
	cancel := s.Subscribe(func(ev Event) { got = append(got, ev) })
	assert.Empty(t, got, "nothing to replay before first publish")

	s.Publish(&User{UID: "a"})
	s.Publish(nil)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].User.UID)
	assert.Nil(t, got[1].User)
	assert.Greater(t, got[1].Seq, got[0].Seq)

	var late []Event
	cancelLate := s.Subscribe(func(ev Event) { late = append(late, ev) })
	require.Len(t, late, 1)
	assert.Nil(t, late[0].User)
	assert.Equal(t, got[1].Seq, late[0].Seq)

	cancel()
	cancel()
	assert.Equal(t, 1, s.Subscribers())
	s.Publish(&User{UID: "b"})
	assert.Len(t, got, 2, "cancelled subscriber must not be called")
	assert.Len(t, late, 2)
	cancelLate()
	assert.Equal(t, 0, s.Subscribers())
}

func TestStream_PublishCopiesUser(t *testing.T) {
	var s Stream
	u := &User{UID: "a", DisplayName: "Ana"}
	s.Publish(u)
	u.DisplayName = "changed"
	ev, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "Ana", ev.User.DisplayName)
}

func TestStream_ConcurrentPublishKeepsHighestSeq(t *testing.T) {
	var s Stream
	var mu sync.Mutex
	var highest uint64
	s.Subscribe(func(ev Event) {
		mu.Lock()
		if ev.Seq > highest {
			highest = ev.Seq
		}
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Publish(&User{UID: "x"})
		}()
	}
	wg.Wait()

	ev, _ := s.Current()
	assert.Equal(t, uint64(50), ev.Seq)
	assert.Equal(t, ev.Seq, highest)
}

func newIdentityServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("key") != "test-key" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		switch r.URL.Path {
		case "/v1/accounts:signInWithPassword":
			var body map[string]any
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body["password"] != "secret1" {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"error":{"code":400,"message":"INVALID_LOGIN_CREDENTIALS"}}`))
				return
			}
			_, _ = w.Write([]byte(`{"localId":"u1","email":"ana@example.com","displayName":"Ana","idToken":"id1","refreshToken":"r1","expiresIn":"3600"}`))
		case "/v1/accounts:signUp":
			_, _ = w.Write([]byte(`{"localId":"u2","email":"novo@example.com","idToken":"id2","refreshToken":"r2","expiresIn":"3600"}`))
		case "/v1/accounts:update":
			_, _ = w.Write([]byte(`{"localId":"u2","displayName":"Novo"}`))
		case "/token":
			_ = r.ParseForm()
			if r.PostForm.Get("grant_type") != "refresh_token" || r.PostForm.Get("refresh_token") != "r1" {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
				return
			}
			_, _ = w.Write([]byte(`{"access_token":"fresh","id_token":"fresh-id","refresh_token":"r1b","expires_in":"3600","token_type":"Bearer"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestClient(t *testing.T, server *httptest.Server) *Client {
	t.Helper()
	c, err := NewClient("test-key", server.URL+"/v1", server.URL+"/token")
	require.NoError(t, err)
	return c
}

func TestNewClient_RequiresKey(t *testing.T) {
	_, err := NewClient("  ", "", "")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestClient_SignInAndErrors(t *testing.T) {
	c := newTestClient(t, newIdentityServer(t))
	ctx := context.Background()

	s, err := c.SignIn(ctx, " ana@example.com ", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "u1", s.UID)
	assert.Equal(t, "id1", s.IDToken)
	assert.False(t, s.User().ProfilePending)
	assert.False(t, s.Expired(time.Now()))

	_, err = c.SignIn(ctx, "ana@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, "E-mail ou senha inválidos.", UserMessage(err))
}

func TestClient_SignUpIsProfilePending(t *testing.T) {
	c := newTestClient(t, newIdentityServer(t))
	s, err := c.SignUp(context.Background(), "novo@example.com", "secret1")
	require.NoError(t, err)
	assert.True(t, s.User().ProfilePending)

	updated, err := c.UpdateProfile(context.Background(), s, "Novo")
	require.NoError(t, err)
	assert.Equal(t, "Novo", updated.DisplayName)
	assert.Equal(t, "id2", updated.IDToken, "tokens carry over when the response omits them")
	assert.False(t, updated.User().ProfilePending)

	_, err = c.UpdateProfile(context.Background(), Session{}, "x")
	assert.ErrorIs(t, err, ErrNotSignedIn)
}

func TestClient_RefreshUsesOAuthGrant(t *testing.T) {
	c := newTestClient(t, newIdentityServer(t))

	s, err := c.Refresh(context.Background(), Session{UID: "u1", RefreshToken: "r1"})
	require.NoError(t, err)
	assert.Equal(t, "fresh-id", s.IDToken)
	assert.Equal(t, "r1b", s.RefreshToken)
	assert.Equal(t, "u1", s.UID)
	assert.False(t, s.Expired(time.Now()))

	_, err = c.Refresh(context.Background(), Session{RefreshToken: "revoked"})
	assert.ErrorIs(t, err, ErrNotSignedIn)

	_, err = c.Refresh(context.Background(), Session{})
	assert.ErrorIs(t, err, ErrNotSignedIn)
}

func TestMapProviderError(t *testing.T) {
	assert.ErrorIs(t, mapProviderError("WEAK_PASSWORD : Password should be at least 6 characters", 400), ErrWeakPassword)
	assert.ErrorIs(t, mapProviderError("EMAIL_EXISTS", 400), ErrEmailExists)
	assert.ErrorIs(t, mapProviderError("TOKEN_EXPIRED", 400), ErrNotSignedIn)
	err := mapProviderError("QUOTA_EXCEEDED", 429)
	assert.Contains(t, err.Error(), "QUOTA_EXCEEDED")
	assert.Equal(t, "Não foi possível conectar. Tente novamente.", UserMessage(err))
	assert.Empty(t, UserMessage(nil))
}

func TestSessionPersistenceRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	want := Session{UID: "u1", Email: "a@b.c", IDToken: "id", RefreshToken: "r", Expiry: time.Now().Add(time.Hour).UTC().Truncate(time.Second)}
	require.NoError(t, SaveSession(path, want))

	got, err := LoadSession(path)
	require.NoError(t, err)
	assert.Equal(t, want.UID, got.UID)
	assert.True(t, want.Expiry.Equal(got.Expiry))

	require.NoError(t, SaveSession(path, Session{UID: "x"}))
	_, err = LoadSession(path)
	assert.ErrorIs(t, err, ErrNotSignedIn)
}

func TestManager_RestoreRefreshesExpiredSession(t *testing.T) {
	c := newTestClient(t, newIdentityServer(t))
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, SaveSession(path, Session{UID: "u1", DisplayName: "Ana", IDToken: "old", RefreshToken: "r1", Expiry: time.Now().Add(-time.Hour)}))

	m := NewManager(c, path)
	var events []Event
	m.Subscribe(func(ev Event) { events = append(events, ev) })
	m.Restore(context.Background())

	require.Len(t, events, 1)
	require.NotNil(t, events[0].User)
	assert.Equal(t, "Ana", events[0].User.DisplayName)
	assert.Equal(t, "fresh-id", m.AccessToken())

	saved, err := LoadSession(path)
	require.NoError(t, err)
	assert.Equal(t, "r1b", saved.RefreshToken)
}

func TestManager_RestoreRejectedRefreshSignsOut(t *testing.T) {
	c := newTestClient(t, newIdentityServer(t))
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, SaveSession(path, Session{UID: "u1", RefreshToken: "revoked"}))

	m := NewManager(c, path)
	m.Restore(context.Background())
	assert.Nil(t, m.Current())
	_, err := LoadSession(path)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestManager_SignInSignUpSignOut(t *testing.T) {
	c := newTestClient(t, newIdentityServer(t))
	path := filepath.Join(t.TempDir(), "session.json")
	m := NewManager(c, path)
	ctx := context.Background()

	require.NoError(t, m.SignIn(ctx, "ana@example.com", "secret1"))
	require.NotNil(t, m.Current())
	assert.Equal(t, "u1", m.Current().UID)

	require.NoError(t, m.SignUp(ctx, "novo@example.com", "secret1"))
	assert.True(t, m.Current().ProfilePending)
	require.NoError(t, m.CompleteProfile(ctx, "Novo"))
	assert.False(t, m.Current().ProfilePending)

	m.SignOut()
	assert.Nil(t, m.Current())
	assert.Empty(t, m.AccessToken())
	assert.ErrorIs(t, m.CompleteProfile(ctx, "x"), ErrNotSignedIn)
}

func TestManager_NoProviderStaysSignedOut(t *testing.T) {
	m := NewManager(nil, "")
	m.Restore(context.Background())
	ev, ok := m.stream.Current()
	require.True(t, ok)
	assert.Nil(t, ev.User)
	assert.ErrorIs(t, m.SignIn(context.Background(), "a", "b"), ErrMissingAPIKey)

	m.Fail(errors.New("listener broke"))
	assert.Nil(t, m.Current())
}

func TestManager_FailTreatsUserAsAbsent(t *testing.T) {
	c := newTestClient(t, newIdentityServer(t))
	m := NewManager(c, "")
	require.NoError(t, m.SignIn(context.Background(), "ana@example.com", "secret1"))

	var got []Event
	cancel := m.Subscribe(func(ev Event) { got = append(got, ev) })
	defer cancel()

	m.Fail(errors.New("listener broke"))

	require.Len(t, got, 2)
	assert.NotNil(t, got[0].User)
	assert.Nil(t, got[1].User)
	assert.Greater(t, got[1].Seq, got[0].Seq)
	assert.Nil(t, m.Current())
	assert.Empty(t, m.AccessToken())
}
