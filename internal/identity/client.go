package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// Provider errors mapped from the identity service's error codes.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailExists        = errors.New("email already registered")
	ErrWeakPassword       = errors.New("password too weak")
	ErrNotSignedIn        = errors.New("not signed in")
	ErrMissingAPIKey      = errors.New("identity api key is not configured")
)

const (
	DefaultBaseURL  = "https://identitytoolkit.googleapis.com/v1"
	DefaultTokenURL = "https://securetoken.googleapis.com/v1/token"
	requestTimeout  = 10 * time.Second
)

// Session is a signed-in account plus the tokens that keep it alive.
type Session struct {
	UID          string    `json:"uid"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"display_name"`
	IDToken      string    `json:"id_token"`
	RefreshToken string    `json:"refresh_token"`
	Expiry       time.Time `json:"expiry"`
}

// User projects the session onto the fields screens care about.
func (s Session) User() *User {
	return &User{
		UID:            s.UID,
		Email:          s.Email,
		DisplayName:    s.DisplayName,
		ProfilePending: strings.TrimSpace(s.DisplayName) == "",
	}
}

// Expired reports whether the id token needs a refresh, with a minute of slack.
func (s Session) Expired(now time.Time) bool {
	return s.Expiry.IsZero() || now.Add(time.Minute).After(s.Expiry)
}

// Provider is the hosted identity service.
type Provider interface {
	SignIn(ctx context.Context, email, password string) (Session, error)
	SignUp(ctx context.Context, email, password string) (Session, error)
	UpdateProfile(ctx context.Context, s Session, displayName string) (Session, error)
	Refresh(ctx context.Context, s Session) (Session, error)
}

var _ Provider = (*Client)(nil)

// Client talks to the identity REST API.
type Client struct {
	apiKey   string
	baseURL  string
	tokenURL string
	http     *http.Client
	now      func() time.Time
}

// NewClient builds a Client. Empty URLs use the public endpoints.
func NewClient(apiKey, baseURL, tokenURL string) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	if strings.TrimSpace(tokenURL) == "" {
		tokenURL = DefaultTokenURL
	}
	return &Client{
		apiKey:   apiKey,
		baseURL:  strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		tokenURL: strings.TrimSpace(tokenURL),
		http:     &http.Client{Timeout: requestTimeout},
		now:      time.Now,
	}, nil
}

type authResponse struct {
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	DisplayName  string `json:"displayName"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// SignIn exchanges email and password for a session.
func (c *Client) SignIn(ctx context.Context, email, password string) (Session, error) {
	return c.credentials(ctx, "accounts:signInWithPassword", email, password)
}

// SignUp creates an account. The new session has no display name, so its
// user starts with ProfilePending set.
func (c *Client) SignUp(ctx context.Context, email, password string) (Session, error) {
	return c.credentials(ctx, "accounts:signUp", email, password)
}

func (c *Client) credentials(ctx context.Context, endpoint, email, password string) (Session, error) {
	body := map[string]any{
		"email":             strings.TrimSpace(email),
		"password":          password,
		"returnSecureToken": true,
	}
	var resp authResponse
	if err := c.post(ctx, endpoint, body, &resp); err != nil {
		return Session{}, err
	}
	return c.sessionFrom(resp, Session{}), nil
}

// UpdateProfile sets the display name on the account.
func (c *Client) UpdateProfile(ctx context.Context, s Session, displayName string) (Session, error) {
	if s.IDToken == "" {
		return Session{}, ErrNotSignedIn
	}
	body := map[string]any{
		"idToken":           s.IDToken,
		"displayName":       strings.TrimSpace(displayName),
		"returnSecureToken": true,
	}
	var resp authResponse
	if err := c.post(ctx, "accounts:update", body, &resp); err != nil {
		return Session{}, err
	}
	next := c.sessionFrom(resp, s)
	if next.DisplayName == "" {
		next.DisplayName = strings.TrimSpace(displayName)
	}
	return next, nil
}

// Refresh trades the refresh token for a new id token through the OAuth2
// refresh grant.
func (c *Client) Refresh(ctx context.Context, s Session) (Session, error) {
	if s.RefreshToken == "" {
		return Session{}, ErrNotSignedIn
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.http)
	cfg := c.oauthConfig()
	src := cfg.TokenSource(ctx, &oauth2.Token{RefreshToken: s.RefreshToken})
	tok, err := src.Token()
	if err != nil {
		var re *oauth2.RetrieveError
		if errors.As(err, &re) && re.Response != nil && re.Response.StatusCode == http.StatusBadRequest {
			return Session{}, fmt.Errorf("refresh session: %w", ErrNotSignedIn)
		}
		return Session{}, fmt.Errorf("refresh session: %w", err)
	}

	next := s
	next.IDToken = tok.AccessToken
	if id, ok := tok.Extra("id_token").(string); ok && id != "" {
		next.IDToken = id
	}
	if tok.RefreshToken != "" {
		next.RefreshToken = tok.RefreshToken
	}
	next.Expiry = tok.Expiry
	if next.Expiry.IsZero() {
		next.Expiry = c.now().Add(time.Hour)
	}
	return next, nil
}

func (c *Client) oauthConfig() *oauth2.Config {
	u, err := url.Parse(c.tokenURL)
	tokenURL := c.tokenURL
	if err == nil {
		q := u.Query()
		q.Set("key", c.apiKey)
		u.RawQuery = q.Encode()
		tokenURL = u.String()
	}
	return &oauth2.Config{
		Endpoint: oauth2.Endpoint{
			TokenURL:  tokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

func (c *Client) sessionFrom(resp authResponse, prev Session) Session {
	s := prev
	if resp.LocalID != "" {
		s.UID = resp.LocalID
	}
	if resp.Email != "" {
		s.Email = resp.Email
	}
	if resp.DisplayName != "" {
		s.DisplayName = resp.DisplayName
	}
	if resp.IDToken != "" {
		s.IDToken = resp.IDToken
	}
	if resp.RefreshToken != "" {
		s.RefreshToken = resp.RefreshToken
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(resp.ExpiresIn)); err == nil && secs > 0 {
		s.Expiry = c.now().Add(time.Duration(secs) * time.Second)
	}
	return s
}

func (c *Client) post(ctx context.Context, endpoint string, body, dest any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	reqURL := c.baseURL + "/" + endpoint + "?key=" + url.QueryEscape(c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		var apiErr errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil {
			return fmt.Errorf("identity %s returned status %d", endpoint, resp.StatusCode)
		}
		return mapProviderError(apiErr.Error.Message, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// mapProviderError turns codes like "WEAK_PASSWORD : Password should be..."
// into sentinel errors.
func mapProviderError(message string, status int) error {
	code := strings.TrimSpace(message)
	if i := strings.Index(code, " "); i > 0 {
		code = code[:i]
	}
	switch code {
	case "EMAIL_NOT_FOUND", "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS", "INVALID_EMAIL", "USER_DISABLED":
		return fmt.Errorf("%s: %w", code, ErrInvalidCredentials)
	case "EMAIL_EXISTS":
		return fmt.Errorf("%s: %w", code, ErrEmailExists)
	case "WEAK_PASSWORD":
		return fmt.Errorf("%s: %w", code, ErrWeakPassword)
	case "INVALID_ID_TOKEN", "TOKEN_EXPIRED", "USER_NOT_FOUND", "INVALID_REFRESH_TOKEN":
		return fmt.Errorf("%s: %w", code, ErrNotSignedIn)
	case "":
		return fmt.Errorf("identity returned status %d", status)
	default:
		return fmt.Errorf("identity error %s (status %d)", code, status)
	}
}

// UserMessage returns the text shown in the auth modal for err.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidCredentials):
		return "E-mail ou senha inválidos."
	case errors.Is(err, ErrEmailExists):
		return "Este e-mail já está cadastrado."
	case errors.Is(err, ErrWeakPassword):
		return "A senha precisa ter pelo menos 6 caracteres."
	case errors.Is(err, ErrNotSignedIn):
		return "Sua sessão expirou. Entre novamente."
	case errors.Is(err, ErrMissingAPIKey):
		return "Login indisponível nesta instalação."
	default:
		return "Não foi possível conectar. Tente novamente."
	}
}
