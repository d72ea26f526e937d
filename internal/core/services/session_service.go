package services

import (
	"context"
	"sync"
	"time"

	"freshpress-pos/internal/adapters/remote"
	"freshpress-pos/internal/core/domain"
	"freshpress-pos/internal/pkg/token"

	"github.com/rs/zerolog/log"
)

// RemoteAuth is the slice of the central-server client the session
// manager needs.
type RemoteAuth interface {
	Login(ctx context.Context, input remote.LoginRequest) (*remote.LoginResponse, error)
	RefreshToken(ctx context.Context, refresh string) (string, error)
}

// CaptchaVerifier checks a login captcha answer. Verification is one
// shot; the challenge is gone afterwards either way.
type CaptchaVerifier interface {
	Verify(id, code string) error
}

var ErrNoSession = domain.E(domain.KindUnauthorized, "no active session")

const (
	defaultRefreshAhead = 300 * time.Second
	defaultBackoffUnit  = time.Second
	defaultMaxRetries   = 3

	// fallbackTokenTTL is assumed when a refreshed access token carries
	// no parseable expiry.
	fallbackTokenTTL = 30 * time.Minute
)

// SessionService owns the process-wide central-server session: the
// token triple, the background refresher, and login/logout. At most one
// refresher runs at a time; starting a new one cancels the old.
type SessionService struct {
	remote         RemoteAuth
	captcha        CaptchaVerifier
	captchaEnabled func() bool

	mu  sync.Mutex
	tok *domain.Token

	handleMu sync.Mutex
	cancel   context.CancelFunc
	done     chan struct{}

	refreshAhead time.Duration
	backoffUnit  time.Duration
	maxRetries   int
}

// NewSessionService creates a session service. captchaEnabled may be
// nil, which disables the captcha gate.
func NewSessionService(remoteAuth RemoteAuth, captcha CaptchaVerifier, captchaEnabled func() bool) *SessionService {
	return &SessionService{
		remote:         remoteAuth,
		captcha:        captcha,
		captchaEnabled: captchaEnabled,
		refreshAhead:   defaultRefreshAhead,
		backoffUnit:    defaultBackoffUnit,
		maxRetries:     defaultMaxRetries,
	}
}

// LoginInput is a store login request
type LoginInput struct {
	Account     string `json:"account" validate:"required"`
	Password    string `json:"password" validate:"required"`
	CaptchaID   string `json:"captcha_id"`
	CaptchaCode string `json:"captcha_code"`
}

// Login authenticates against the central server, stores the token
// triple and starts the background refresher. A fresh login replaces
// any existing session and its refresher.
func (s *SessionService) Login(ctx context.Context, input LoginInput) (*domain.Token, error) {
	if s.captchaEnabled != nil && s.captchaEnabled() {
		if s.captcha == nil {
			return nil, domain.E(domain.KindInternalServer, "captcha gate enabled but no verifier configured")
		}
		if err := s.captcha.Verify(input.CaptchaID, input.CaptchaCode); err != nil {
			return nil, err
		}
	}

	resp, err := s.remote.Login(ctx, remote.LoginRequest{
		Account:  input.Account,
		Password: input.Password,
	})
	if err != nil {
		return nil, err
	}

	expiresAt := resp.ExpiresAt
	if expiresAt == 0 {
		if parsed, err := token.ExpiryEpoch(resp.AccessToken); err == nil {
			expiresAt = parsed
		} else {
			expiresAt = time.Now().Add(fallbackTokenTTL).Unix()
		}
	}

	tok := &domain.Token{
		Access:    resp.AccessToken,
		Refresh:   resp.RefreshToken,
		ExpiresAt: expiresAt,
		Profile:   resp.Profile,
	}
	s.mu.Lock()
	s.tok = tok
	s.mu.Unlock()

	s.startRefresher()
	log.Info().Str("account", input.Account).Uint("store_id", tok.Profile.StoreID).Msg("store logged in")

	copied := *tok
	return &copied, nil
}

// Bearer returns the current access token for outgoing calls.
func (s *SessionService) Bearer() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tok == nil {
		return "", ErrNoSession
	}
	return s.tok.Access, nil
}

// Profile returns the logged-in store's profile snapshot.
func (s *SessionService) Profile() (*domain.StoreProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tok == nil {
		return nil, ErrNoSession
	}
	p := s.tok.Profile
	return &p, nil
}

// StoreID returns the logged-in store's id.
func (s *SessionService) StoreID() (uint, error) {
	p, err := s.Profile()
	if err != nil {
		return 0, err
	}
	return p.StoreID, nil
}

// Logout stops the refresher and drops the token. Safe to call without
// an active session.
func (s *SessionService) Logout() {
	s.handleMu.Lock()
	if s.cancel != nil {
		s.cancel()
		<-s.done
		s.cancel = nil
		s.done = nil
	}
	s.handleMu.Unlock()

	s.mu.Lock()
	s.tok = nil
	s.mu.Unlock()
	log.Info().Msg("store logged out")
}

// startRefresher replaces the running refresher, waiting for the old
// one to exit before the new one starts.
func (s *SessionService) startRefresher() {
	s.handleMu.Lock()
	defer s.handleMu.Unlock()

	if s.cancel != nil {
		s.cancel()
		<-s.done
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done
	go s.refreshLoop(ctx, done)
}

// refreshLoop wakes at min(remaining validity, refreshAhead) and
// refreshes once the token is within refreshAhead of expiry. When a
// refresh fails after all retries the session is cleared and the loop
// exits; the operator must log in again.
func (s *SessionService) refreshLoop(ctx context.Context, done chan struct{}) {
	defer close(done)
	for {
		s.mu.Lock()
		tok := s.tok
		s.mu.Unlock()
		if tok == nil {
			return
		}

		remaining := token.RemainingValidity(tok.ExpiresAt, time.Now())
		if remaining <= s.refreshAhead {
			if !s.refreshWithRetries(ctx, tok.Refresh) {
				if ctx.Err() == nil {
					log.Warn().Msg("token refresh failed, session cleared")
					s.mu.Lock()
					s.tok = nil
					s.mu.Unlock()
				}
				return
			}
			continue
		}

		sleep := remaining
		if sleep > s.refreshAhead {
			sleep = s.refreshAhead
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(sleep):
		}
	}
}

// refreshWithRetries tries the refresh call with doubling backoff
// between attempts.
func (s *SessionService) refreshWithRetries(ctx context.Context, refresh string) bool {
	for attempt := 0; ; attempt++ {
		access, err := s.remote.RefreshToken(ctx, refresh)
		if err == nil {
			expiresAt, perr := token.ExpiryEpoch(access)
			if perr != nil {
				expiresAt = time.Now().Add(fallbackTokenTTL).Unix()
			}
			s.mu.Lock()
			if s.tok != nil {
				s.tok.Access = access
				s.tok.ExpiresAt = expiresAt
			}
			s.mu.Unlock()
			return true
		}
		if attempt >= s.maxRetries {
			return false
		}
		backoff := s.backoffUnit << uint(attempt)
		log.Warn().Err(err).Dur("backoff", backoff).Msg("token refresh attempt failed")
		select {
		case <-ctx.Done():
			return false
		case <-time.After(backoff):
		}
	}
}
