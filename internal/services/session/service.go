// Package session turns the persisted configuration and keychain entry
// into a logged-in back-office session, and serves the account's store
// list from cache when it can.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"t4auto/internal/agent"
	"t4auto/internal/config"
	"t4auto/internal/domain"
	"t4auto/internal/logger"
	"t4auto/internal/redcat"
	"t4auto/internal/services/auth"
	"t4auto/internal/storecache"
)

// Authenticator logs in and exposes the stores found at login.
// *agent.Agent satisfies it.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (domain.LoginStatus, error)
	Stores() []domain.Store
}

var _ Authenticator = (*agent.Agent)(nil)

// Service builds and authenticates clients from the user's configuration.
type Service struct {
	cfg   *config.Config
	auth  auth.Store
	cache *storecache.Cache
	log   *log.Logger
}

// NewService creates a session service. A nil cache disables store
// caching.
func NewService(cfg *config.Config, store auth.Store, cache *storecache.Cache, l *log.Logger) *Service {
	return &Service{cfg: cfg, auth: store, cache: cache, log: logger.OrDiscard(l)}
}

// Load builds a Service from the config file, the OS keychain and the
// default store cache.
func Load(l *log.Logger) (*Service, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return NewService(cfg, auth.DefaultStore(), storecache.NewDefault(), l), nil
}

// Config returns the configuration the service was built from.
func (s *Service) Config() *config.Config {
	return s.cfg
}

// Username returns the configured account.
func (s *Service) Username() string {
	return s.cfg.Username
}

// NewClient returns a logged-out client for the configured back office.
func (s *Service) NewClient() *redcat.Client {
	return redcat.New(redcat.Options{
		BaseURL:           s.cfg.EffectiveBaseURL(),
		RequestsPerSecond: s.cfg.RequestsPerSecond,
		Logger:            s.log,
	})
}

// Login authenticates a with the stored credentials and refreshes the
// store cache. A rejected login is returned as an error carrying the
// server's message.
func (s *Service) Login(ctx context.Context, a Authenticator) error {
	creds, err := auth.Credentials(s.auth, s.cfg.Username)
	if err != nil {
		return err
	}

	status, err := a.Login(ctx, creds.Username, creds.Password)
	if err != nil {
		return err
	}
	if !status.Success {
		return fmt.Errorf("%w: %s", domain.ErrUnauthorized, status.Message)
	}

	if err := s.cache.Put(s.cfg.EffectiveBaseURL(), creds.Username, a.Stores()); err != nil {
		s.log.Warn("failed to cache stores", "err", err)
	}
	return nil
}

// Stores returns the account's stores, from cache unless refresh is set or
// the cache is cold. A cold fetch logs in and out again.
func (s *Service) Stores(ctx context.Context, refresh bool) ([]domain.Store, error) {
	if !refresh {
		stores, ok, err := s.cache.Get(s.cfg.EffectiveBaseURL(), s.cfg.Username)
		if err != nil {
			s.log.Warn("failed to read store cache", "err", err)
		}
		if ok {
			return stores, nil
		}
	}

	client := s.NewClient()
	a := agent.New(client, agent.WithLogger(s.log))
	if err := s.Login(ctx, a); err != nil {
		return nil, err
	}
	defer func() {
		if _, err := a.Logout(context.WithoutCancel(ctx)); err != nil {
			s.log.Warn("logout failed", "err", err)
		}
	}()

	return a.Stores(), nil
}

// CachedStores returns the cached store list without logging in, or nil
// when the cache is cold.
func (s *Service) CachedStores() []domain.Store {
	stores, ok, err := s.cache.Get(s.cfg.EffectiveBaseURL(), s.cfg.Username)
	if err != nil || !ok {
		return nil
	}
	return stores
}

// Verify checks creds against the back office without storing anything,
// and caches the stores on success.
func (s *Service) Verify(ctx context.Context, creds domain.Credentials) (domain.LoginStatus, error) {
	client := s.NewClient()
	status, err := client.Login(ctx, creds)
	if err != nil || !status.Success {
		return status, err
	}

	if err := s.cache.Put(s.cfg.EffectiveBaseURL(), creds.Username, client.Stores()); err != nil {
		s.log.Warn("failed to cache stores", "err", err)
	}
	if _, err := client.Logout(ctx); err != nil {
		s.log.Warn("logout failed", "err", err)
	}
	return status, nil
}

// Remember stores the password in the keychain and makes creds.Username
// the configured account.
func (s *Service) Remember(creds domain.Credentials) error {
	if err := s.auth.SetPassword(creds.Username, creds.Password); err != nil {
		return fmt.Errorf("failed to store password: %w", err)
	}
	s.cfg.Username = creds.Username
	return s.cfg.Save()
}

// Forget removes the configured account's password and cached stores. The
// username stays in the config.
func (s *Service) Forget() error {
	if err := s.cache.Invalidate(s.cfg.EffectiveBaseURL(), s.cfg.Username); err != nil {
		s.log.Warn("failed to clear store cache", "err", err)
	}
	return s.auth.DeletePassword(s.cfg.Username)
}

// HasPassword reports whether a password is stored for the configured
// account.
func (s *Service) HasPassword() (bool, error) {
	if s.cfg.Username == "" {
		return false, nil
	}
	_, err := s.auth.GetPassword(s.cfg.Username)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, auth.ErrPasswordNotFound):
		return false, nil
	default:
		return false, err
	}
}
