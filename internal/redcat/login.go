package redcat

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"t4auto/internal/domain"
)

// discardTimeout bounds the logout sent for a dropped session.
const discardTimeout = 5 * time.Second

// Login authenticates with username and password on a fresh session and
// then loads the stores the account can manage.
//
// Rejected credentials and non-200 responses are reported through the
// returned LoginStatus with a nil error, and the previous session (if any)
// is kept; a successful login ends the previous server session. A failed
// store lookup after an accepted login returns an error
// wrapping domain.ErrStoreLookup: without stores no action can be resolved.
func (c *Client) Login(ctx context.Context, creds domain.Credentials) (domain.LoginStatus, error) {
	s := c.newSession()

	form := url.Values{
		"username":     {creds.Username},
		"psw":          {creds.Password},
		"auth_type":    {"U"},
		"next":         {"/admin"},
		"save_session": {"true"},
	}

	var out envelope[any]
	if err := c.doJSON(ctx, s, http.MethodPost, loginPath, nil, form, &out); err != nil {
		if code, ok := isStatus(err); ok {
			c.log.Warn("login refused", "user", creds.Username, "status", code)
			return domain.LoginStatus{Message: fmt.Sprintf("login failed: HTTP %d", code)}, nil
		}
		return domain.LoginStatus{}, fmt.Errorf("failed to log in: %w", err)
	}
	if !out.Success {
		msg := out.message()
		if msg == "" {
			msg = "login rejected"
		}
		c.log.Warn("login rejected", "user", creds.Username, "reason", msg)
		return domain.LoginStatus{Message: msg}, nil
	}

	stores, err := c.listStores(ctx, s)
	if err != nil {
		c.discard(ctx, s)
		return domain.LoginStatus{}, fmt.Errorf("%w: %w", domain.ErrStoreLookup, err)
	}
	s.stores = stores

	c.mu.Lock()
	prev := c.sess
	c.sess = s
	c.mu.Unlock()

	if prev != nil {
		c.discard(ctx, prev)
	}

	c.log.Info("logged in", "user", creds.Username, "stores", len(stores))
	return domain.LoginStatus{Success: true, Message: "Login successfully"}, nil
}

// Logout ends the server session and always discards the local one, so
// the client is logged out afterwards whatever the server answered.
func (c *Client) Logout(ctx context.Context) (domain.LoginStatus, error) {
	c.mu.Lock()
	s := c.sess
	c.sess = nil
	c.mu.Unlock()

	if s == nil {
		return domain.LoginStatus{Success: true, Message: "Not logged in"}, nil
	}

	if err := c.doJSON(ctx, s, http.MethodGet, logoutPath, nil, nil, nil); err != nil {
		if code, ok := isStatus(err); ok {
			return domain.LoginStatus{Message: fmt.Sprintf("logout failed: HTTP %d", code)}, nil
		}
		return domain.LoginStatus{}, fmt.Errorf("failed to log out: %w", err)
	}

	c.log.Info("logged out")
	return domain.LoginStatus{Success: true, Message: "Logout successfully"}, nil
}

// discard ends a server session that is no longer referenced. Failures are
// only logged.
func (c *Client) discard(ctx context.Context, s *session) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), discardTimeout)
	defer cancel()

	if err := c.doJSON(ctx, s, http.MethodGet, logoutPath, nil, nil, nil); err != nil {
		c.log.Warn("failed to end dropped session", "err", err)
	}
}
