// Package redcat is a client for the Redcat Cloud back-office API: form
// login, store lookup, keyword item search, and the PLU availability rules
// that take catalog items offline and bring them back online.
package redcat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"t4auto/internal/domain"
	"t4auto/internal/logger"
	"t4auto/internal/retry"
)

const (
	DefaultBaseURL = "https://t4australia.redcatcloud.com.au"
	DefaultTimeout = 30 * time.Second

	// DefaultUserAgent mimics a desktop browser; the back office rejects
	// some requests from unknown agents.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

	pageSize = 100

	loginPath       = "/api/v1/login"
	logoutPath      = "/auth/logout"
	storesPath      = "/api/v1/config/lookup/stores/"
	activeItemsPath = "/api/v1/plus-active/"
	rulesPath       = "/api/v1/pluavailabilityrules"
)

// Options configures a Client. Zero values select the defaults.
type Options struct {
	BaseURL string
	Timeout time.Duration

	// Transport overrides the HTTP transport. Every session gets its own
	// cookie jar on top of it.
	Transport http.RoundTripper

	UserAgent string

	// RequestsPerSecond caps the request rate. Zero means unlimited.
	RequestsPerSecond float64

	Logger *log.Logger

	// Retry controls retries of idempotent GET requests. Nil selects
	// retry.DefaultConfig.
	Retry *retry.Config
}

// session is one authenticated cookie jar and the stores it can see.
type session struct {
	http   *http.Client
	stores []domain.Store
}

// Client talks to one Redcat back office. It is safe for concurrent use:
// Login and Logout may run while another goroutine is mid-request, which
// then finishes on the session it started with.
type Client struct {
	baseURL   string
	timeout   time.Duration
	transport http.RoundTripper
	userAgent string
	limiter   *rate.Limiter
	retry     retry.Config
	log       *log.Logger

	mu   sync.RWMutex
	sess *session
}

// New creates a logged-out Client.
func New(opts Options) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		timeout:   opts.Timeout,
		transport: opts.Transport,
		userAgent: opts.UserAgent,
		log:       logger.OrDiscard(opts.Logger),
		retry:     retry.DefaultConfig(),
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.userAgent == "" {
		c.userAgent = DefaultUserAgent
	}
	if opts.Retry != nil {
		c.retry = *opts.Retry
	}
	if opts.RequestsPerSecond > 0 {
		burst := int(opts.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}
	c.retry.OnRetry = func(attempt int, err error, delay time.Duration) {
		c.log.Warn("request failed, retrying", "attempt", attempt, "delay", delay, "err", err)
	}
	return c
}

// BaseURL returns the back office the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) newSession() *session {
	jar, _ := cookiejar.New(nil) // only fails for a non-nil options value
	return &session{
		http: &http.Client{
			Timeout:   c.timeout,
			Transport: c.transport,
			Jar:       jar,
		},
	}
}

// current returns the logged-in session or ErrNotLoggedIn.
func (c *Client) current() (*session, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.sess == nil {
		return nil, domain.ErrNotLoggedIn
	}
	return c.sess, nil
}

// LoggedIn reports whether the client holds a session.
func (c *Client) LoggedIn() bool {
	_, err := c.current()
	return err == nil
}

// Stores returns a copy of the stores cached at login.
func (c *Client) Stores() []domain.Store {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.sess == nil {
		return nil
	}
	out := make([]domain.Store, len(c.sess.stores))
	copy(out, c.sess.stores)
	return out
}

// --- HTTP helpers ---

// StatusError is returned for any response other than 200 OK.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("redcat: %s %s: HTTP %d", e.Method, e.Path, e.Code)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// Transient reports whether the request may succeed if repeated.
func (e *StatusError) Transient() bool {
	return e.Code >= http.StatusInternalServerError || e.Code == http.StatusTooManyRequests
}

// Unwrap maps well-known status codes to domain sentinels.
func (e *StatusError) Unwrap() error {
	switch e.Code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return domain.ErrUnauthorized
	case http.StatusTooManyRequests:
		return domain.ErrRateLimited
	}
	return nil
}

// doJSON sends one request and decodes the JSON response into out. A form
// body is sent url-encoded; repeated keys stay repeated.
func (c *Client) doJSON(ctx context.Context, s *session, method, path string, query, form url.Values, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("redcat: failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	start := time.Now()
	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("redcat: request failed: %w", err)
	}
	defer resp.Body.Close()
	c.log.Debug("request", "method", method, "path", path, "status", resp.StatusCode, "took", time.Since(start))

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{
			Method: method,
			Path:   path,
			Code:   resp.StatusCode,
			Body:   strings.TrimSpace(string(snippet)),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("redcat: failed to decode response: %w", err)
	}
	return nil
}

// getJSON performs an idempotent GET with retries.
func getJSON[T any](ctx context.Context, c *Client, s *session, path string, query url.Values) (T, error) {
	var out T
	err := retry.Do(ctx, c.retry, retry.IsRetryable, func() error {
		var attempt T
		if err := c.doJSON(ctx, s, http.MethodGet, path, query, nil, &attempt); err != nil {
			return err
		}
		out = attempt
		return nil
	})
	return out, err
}

// isStatus reports whether err is a StatusError and returns its code.
func isStatus(err error) (int, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code, true
	}
	return 0, false
}
