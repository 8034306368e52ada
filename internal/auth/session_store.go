// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LiftLog Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/samber/oops"
)

// SessionConfig controls session lifetime and cleanup.
type SessionConfig struct {
	TTL             time.Duration // How long a login stays valid
	CleanupInterval time.Duration // How often expired sessions are swept
}

// DefaultSessionConfig returns the default session configuration.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		TTL:             DefaultSessionTTL,
		CleanupInterval: time.Hour,
	}
}

// SessionStoreOption configures a SessionStore.
type SessionStoreOption func(*SessionStore)

// WithSessionLogger sets the logger used by the store and its cleaner.
func WithSessionLogger(logger *slog.Logger) SessionStoreOption {
	return func(s *SessionStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source. Used by tests.
func WithClock(clock func() time.Time) SessionStoreOption {
	return func(s *SessionStore) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithSweepObserver registers a callback receiving the number of sessions
// removed by each cleanup cycle.
func WithSweepObserver(fn func(removed int64)) SessionStoreOption {
	return func(s *SessionStore) {
		s.onSweep = fn
	}
}

// SessionStore maps opaque browser tokens to users.
type SessionStore struct {
	cfg      SessionConfig
	sessions SessionRepository
	users    UserRepository
	logger   *slog.Logger
	clock    func() time.Time
	onSweep  func(removed int64)

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSessionStore creates a session store.
func NewSessionStore(cfg SessionConfig, sessions SessionRepository, users UserRepository, opts ...SessionStoreOption) (*SessionStore, error) {
	if sessions == nil {
		return nil, oops.Code("SESSION_INVALID_STORE").Errorf("session repository is required")
	}
	if users == nil {
		return nil, oops.Code("SESSION_INVALID_STORE").Errorf("user repository is required")
	}
	if cfg.TTL <= 0 {
		return nil, oops.Code("SESSION_INVALID_STORE").With("ttl", cfg.TTL).Errorf("session ttl must be positive")
	}

	s := &SessionStore{
		cfg:      cfg,
		sessions: sessions,
		users:    users,
		logger:   slog.Default(),
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Login creates a session for the user and returns the plaintext token to
// hand to the browser.
func (s *SessionStore) Login(ctx context.Context, user *User, userAgent, ipAddress string) (string, error) {
	if user == nil {
		return "", oops.Code("SESSION_INVALID_USER").Errorf("user is required")
	}

	token, tokenHash, err := GenerateSessionToken()
	if err != nil {
		return "", oops.Code("SESSION_CREATE_FAILED").
			With("operation", "generate session token").
			Wrap(err)
	}

	session, err := NewSession(user.ID, tokenHash, userAgent, ipAddress, s.clock().UTC().Add(s.cfg.TTL))
	if err != nil {
		return "", oops.Code("SESSION_CREATE_FAILED").
			With("operation", "create session").
			Wrap(err)
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return "", oops.Code("SESSION_CREATE_FAILED").
			With("operation", "persist session").
			With("user_id", user.ID.String()).
			Wrap(err)
	}
	return token, nil
}

// CurrentUser resolves a token to its user. Empty, unknown and expired tokens,
// and sessions whose user no longer exists, all return ErrNoSession.
func (s *SessionStore) CurrentUser(ctx context.Context, token string) (*User, error) {
	if token == "" {
		return nil, noSession("empty token")
	}

	tokenHash := HashSessionToken(token)
	session, err := s.sessions.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, noSession("unknown token")
		}
		return nil, oops.Code("SESSION_LOOKUP_FAILED").
			With("operation", "get session by token hash").
			Wrap(err)
	}

	now := s.clock()
	if session.IsExpiredAt(now) {
		return nil, noSession("expired")
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, noSession("user deleted")
		}
		return nil, oops.Code("SESSION_LOOKUP_FAILED").
			With("operation", "get session user").
			With("user_id", session.UserID.String()).
			Wrap(err)
	}

	if err := s.sessions.Touch(ctx, tokenHash, now.UTC()); err != nil {
		s.logger.Warn("failed to record session activity", "session_id", session.ID.String(), "error", err)
	}
	return user, nil
}

// Logout removes the session for token. Unknown tokens are ignored.
func (s *SessionStore) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.DeleteByTokenHash(ctx, HashSessionToken(token)); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return oops.Code("SESSION_DELETE_FAILED").
			With("operation", "delete session").
			Wrap(err)
	}
	return nil
}

// Sweep deletes every expired session once.
func (s *SessionStore) Sweep(ctx context.Context) (int64, error) {
	removed, err := s.sessions.DeleteExpired(ctx, s.clock().UTC())
	if err != nil {
		return 0, oops.Code("SESSION_SWEEP_FAILED").Wrap(err)
	}
	if s.onSweep != nil {
		s.onSweep(removed)
	}
	if removed > 0 {
		s.logger.Info("removed expired sessions", "count", removed)
	}
	return removed, nil
}

// StartCleaner begins sweeping expired sessions every CleanupInterval until
// ctx is cancelled or Stop is called. A non-positive interval disables it.
func (s *SessionStore) StartCleaner(ctx context.Context) {
	if s.cfg.CleanupInterval <= 0 {
		s.logger.Info("session cleaner disabled")
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(1)
	go s.runCleaner(ctx)
}

// Stop stops the cleaner and waits for it to exit.
func (s *SessionStore) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

func (s *SessionStore) runCleaner(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.cfg.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Sweep(ctx); err != nil && ctx.Err() == nil {
				s.logger.Error("session sweep failed", "error", err)
			}
		}
	}
}
