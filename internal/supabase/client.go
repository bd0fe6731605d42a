package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/five82/localizei/internal/catalog"
)

// ErrUnauthorized is returned when the backend rejects the anon key or the
// session token.
var ErrUnauthorized = errors.New("backend rejected credentials")

// ListingFetcher defines the read side of the hosted listing backend.
// This interface is implemented by *Client and can be used for testing.
type ListingFetcher interface {
	FetchStores(ctx context.Context) ([]catalog.Store, error)
	FetchCategories(ctx context.Context) ([]catalog.Category, error)
}

// Ensure Client implements ListingFetcher at compile time.
var _ ListingFetcher = (*Client)(nil)

// Client talks to the PostgREST endpoint of the hosted backend.
type Client struct {
	baseURL   *url.URL
	anonKey   string
	http      *http.Client
	userAgent string
	token     func() string
}

const (
	defaultUserAgent = "localizei/0.1"
	requestTimeout   = 5 * time.Second
	restPrefix       = "/rest/v1"
)

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient swaps the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithAccessToken makes requests carry the signed-in user's token instead of
// the anon key as bearer. The func is consulted on every request and may
// return "" when nobody is signed in.
func WithAccessToken(token func() string) Option {
	return func(c *Client) { c.token = token }
}

// NewClient builds a Client for the project URL and anon key.
func NewClient(projectURL, anonKey string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(projectURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL: base,
		anonKey: strings.TrimSpace(anonKey),
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// FetchStores retrieves the store listing ordered by name.
func (c *Client) FetchStores(ctx context.Context) ([]catalog.Store, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	values := url.Values{}
	values.Set("select", "*")
	values.Set("order", "name.asc")
	var payload []catalog.Store
	if err := c.get(ctx, "stores", values, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// FetchCategories retrieves the category list ordered by name.
func (c *Client) FetchCategories(ctx context.Context) ([]catalog.Category, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	values := url.Values{}
	values.Set("select", "id,name,icon")
	values.Set("order", "name.asc")
	var payload []catalog.Category
	if err := c.get(ctx, "categories", values, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func (c *Client) get(ctx context.Context, table string, values url.Values, dest any) error {
	rel := &url.URL{Path: c.baseURL.Path + restPrefix + "/" + table, RawQuery: values.Encode()}
	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.anonKey != "" {
		req.Header.Set("apikey", c.anonKey)
	}
	if bearer := c.bearer(); bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("api %s: %w (status %d)", table, ErrUnauthorized, resp.StatusCode)
	case resp.StatusCode >= 400:
		return fmt.Errorf("api %s returned status %d", table, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) bearer() string {
	if c.token != nil {
		if t := strings.TrimSpace(c.token()); t != "" {
			return t
		}
	}
	return c.anonKey
}

func parseBaseURL(projectURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(projectURL)
	if trimmed == "" {
		return nil, fmt.Errorf("project url is empty")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse project url %q: %w", projectURL, err)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
