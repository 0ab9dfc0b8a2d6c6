// Package apiclient is the single request pipeline used for every call to
// the portal API.
//
// Each request is counted on the busy tracker for its whole lifetime,
// carries the session's bearer token when there is one, and is tagged
// with an X-Request-ID. A 401 from any endpoint invalidates the session:
// the credential store and session state are cleared and the navigator is
// sent to the login entry point before the error is returned. Errors are
// never swallowed and nothing is retried.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/uecsr/portal/internal/busy"
	"github.com/uecsr/portal/internal/credstore"
	"github.com/uecsr/portal/internal/logger"
)

// DefaultLoginPath is the login entry point used after a rejected token.
const DefaultLoginPath = "/admin/login"

const maxBodySize = 10 << 20

// Session is the part of session state the pipeline depends on.
type Session interface {
	// Token returns the current bearer token or "".
	Token() string
	// ClearAuth resets the session to anonymous.
	ClearAuth()
}

// Navigator performs a full navigation that discards in-app state.
type Navigator interface {
	HardRedirect(path string)
}

// Client sends requests to the portal API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	session   Session
	busy      *busy.Tracker
	store     credstore.Store
	nav       Navigator
	loginPath string
	log       *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithSession sets the token source that is also cleared on 401.
func WithSession(s Session) Option {
	return func(c *Client) { c.session = s }
}

// WithBusy shares a busy tracker with the caller.
func WithBusy(t *busy.Tracker) Option {
	return func(c *Client) { c.busy = t }
}

// WithStore sets the credential store purged on 401.
func WithStore(s credstore.Store) Option {
	return func(c *Client) { c.store = s }
}

// WithNavigator sets where the 401 redirect is sent.
func WithNavigator(n Navigator) Option {
	return func(c *Client) { c.nav = n }
}

// WithLoginPath overrides DefaultLoginPath.
func WithLoginPath(path string) Option {
	return func(c *Client) { c.loginPath = path }
}

// WithLogger sets the request logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New returns a Client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", baseURL)
	}

	c := &Client{
		baseURL:   u,
		http:      &http.Client{},
		loginPath: DefaultLoginPath,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.busy == nil {
		c.busy = busy.New()
	}
	c.log = logger.OrNop(c.log)
	return c, nil
}

// Busy returns the tracker counting this client's requests.
func (c *Client) Busy() *busy.Tracker {
	return c.busy
}

// BaseURL returns the API origin.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Request describes one API call.
type Request struct {
	Method string
	// Path is relative to the base URL, e.g. "/noticias/admin".
	Path  string
	Query url.Values
	// Body is JSON-encoded unless it is an io.Reader, which is sent as is
	// with ContentType.
	Body        any
	ContentType string
}

// Do sends req and decodes a successful JSON response into out (when out
// is non-nil).
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	done := c.busy.Begin()
	defer done()

	httpReq, err := c.newRequest(ctx, req)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	requestID := httpReq.Header.Get("X-Request-ID")

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.log.Debug("request failed",
			zap.String("method", req.Method),
			zap.String("path", req.Path),
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		return fmt.Errorf("%s %s: %w", req.Method, req.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	c.log.Debug("request",
		zap.String("method", req.Method),
		zap.String("path", req.Path),
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", requestID),
		zap.Duration("duration", time.Since(start)),
	)
	if err != nil {
		return fmt.Errorf("%s %s: read body: %w", req.Method, req.Path, err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.invalidate(ctx, req.Path)
		return newAPIError(resp.StatusCode, body)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, body)
	}

	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrInvalidResponse, req.Method, req.Path, err)
	}
	return nil
}

// Get is shorthand for a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query}, out)
}

// Post sends body as JSON.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body}, out)
}

// Put sends body as JSON.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPut, Path: path, Body: body}, out)
}

// Patch sends body as JSON.
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPatch, Path: path, Body: body}, out)
}

// Delete sends a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: path}, out)
}

// ImageURL resolves an image reference returned by the API. Relative
// paths are served from the API origin.
func (c *Client) ImageURL(raw string) string {
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(raw, "http") {
		return raw
	}
	if !strings.HasPrefix(raw, "/") {
		raw = "/" + raw
	}
	return c.baseURL.String() + raw
}

func (c *Client) newRequest(ctx context.Context, req Request) (*http.Request, error) {
	if req.Method == "" {
		req.Method = http.MethodGet
	}
	u := *c.baseURL
	u.Path = strings.TrimRight(c.baseURL.Path, "/") + "/" + strings.TrimLeft(req.Path, "/")
	if len(req.Query) > 0 {
		u.RawQuery = req.Query.Encode()
	}

	var (
		body        io.Reader
		contentType = req.ContentType
	)
	switch b := req.Body.(type) {
	case nil:
	case io.Reader:
		body = b
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("encode body: %w", err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u.String(), body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", uuid.NewString())
	if c.session != nil {
		if token := c.session.Token(); token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return httpReq, nil
}

// invalidate drops every trace of the rejected session and forces a full
// navigation to the login entry point.
func (c *Client) invalidate(ctx context.Context, path string) {
	c.log.Warn("session rejected by API, signing out", zap.String("path", path))
	if c.store != nil {
		if err := c.store.Clear(ctx); err != nil {
			c.log.Error("failed to clear credential store", zap.Error(err))
		}
	}
	if c.session != nil {
		c.session.ClearAuth()
	}
	if c.nav != nil {
		c.nav.HardRedirect(c.loginPath)
	}
}

// IsUnauthorized reports whether err comes from a 401 response.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}
