// Package session owns the client's credential state. The server keeps
// the tokens in HttpOnly cookies, so "credential state" here means the
// cookie jar plus the policy around it: obtain on login, refresh when
// the access token ages out, clear on logout or any auth failure.
package session

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/quillhq/quill/common/apierr"
	"github.com/quillhq/quill/common/clients"
	"github.com/quillhq/quill/common/logger"
)

const (
	accessCookie  = "access_token"
	refreshCookie = "refresh_token"

	// Refresh slightly before the access token actually expires so an
	// in-flight request doesn't race the deadline
	expiryLeeway = 30 * time.Second
)

// Session manages the authenticated session against the notes API
type Session struct {
	mu        sync.Mutex
	api       *clients.NotesAPI
	log       *logger.Logger
	onExpired func()
}

// Option configures a Session
type Option func(*Session)

// WithExpiredHandler sets the redirect-to-login signal, invoked
// whenever an operation hits an auth failure and the session is cleared
func WithExpiredHandler(fn func()) Option {
	return func(s *Session) {
		s.onExpired = fn
	}
}

// New creates a session bound to the given API client
func New(api *clients.NotesAPI, log *logger.Logger, opts ...Option) *Session {
	s := &Session{
		api: api,
		log: log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login authenticates and lets the server install the token cookies.
// Invalid credentials surface as an auth-kind APIError.
func (s *Session) Login(ctx context.Context, username, password string) error {
	if err := s.api.Login(ctx, username, password); err != nil {
		return err
	}

	s.log.Info("logged in", "user", username)
	return nil
}

// Register creates a new account. It does not log in.
func (s *Session) Register(ctx context.Context, username, password string) error {
	return s.api.Register(ctx, username, password)
}

// Logout terminates the session. It is idempotent: local credentials
// are always cleared, and a server that is unreachable or already
// considers us logged out does not make logout fail.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.api.Logout(ctx); err != nil && !apierr.IsAuth(err) {
		s.log.Warn("logout request failed, clearing local session anyway", "error", err)
	}

	return s.clearLocked()
}

// Authenticated reports whether any token cookie is held. It says
// nothing about validity; the server is the authority.
func (s *Session) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cookie(accessCookie) != nil || s.cookie(refreshCookie) != nil
}

// EnsureFresh refreshes the access token when it is missing or about to
// expire and a refresh token is still held. Safe to call before any
// API operation; a no-op for anonymous sessions.
func (s *Session) EnsureFresh(ctx context.Context) error {
	s.mu.Lock()
	fresh := s.accessFreshLocked()
	hasRefresh := s.cookie(refreshCookie) != nil
	s.mu.Unlock()

	if fresh || !hasRefresh {
		return nil
	}

	if err := s.api.Refresh(ctx); err != nil {
		if apierr.IsAuth(err) {
			s.Expire()
		}
		return err
	}

	s.log.Debug("access token refreshed")
	return nil
}

// HandleFailure applies the cross-cutting auth policy: if err is an
// auth failure the session is cleared and the redirect signal fired.
// Reports whether the session was terminated.
func (s *Session) HandleFailure(err error) bool {
	if !apierr.IsAuth(err) {
		return false
	}
	s.Expire()
	return true
}

// Expire clears local credential state and signals redirect-to-login
func (s *Session) Expire() {
	s.mu.Lock()
	if err := s.clearLocked(); err != nil {
		s.log.Error("failed to clear session", "error", err)
	}
	handler := s.onExpired
	s.mu.Unlock()

	s.log.Info("session expired")
	if handler != nil {
		handler()
	}
}

func (s *Session) clearLocked() error {
	return s.api.HTTP().ResetJar()
}

func (s *Session) cookie(name string) *http.Cookie {
	for _, c := range s.api.HTTP().Cookies(s.api.BaseURL()) {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// accessFreshLocked reports whether the held access token will still be
// valid in expiryLeeway from now. The token is parsed without
// verification; the client only reads the expiry claim, the server
// still verifies the signature on every request.
func (s *Session) accessFreshLocked() bool {
	c := s.cookie(accessCookie)
	if c == nil {
		return false
	}

	token, _, err := jwt.NewParser().ParseUnverified(c.Value, jwt.MapClaims{})
	if err != nil {
		return false
	}

	exp, err := token.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}

	return time.Now().Add(expiryLeeway).Before(exp.Time)
}
