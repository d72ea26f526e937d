package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"freshpress-pos/internal/adapters/remote"
	"freshpress-pos/internal/core/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, ttl time.Duration) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

type fakeRemote struct {
	mu         sync.Mutex
	loginResp  *remote.LoginResponse
	loginErr   error
	refreshTok string
	refreshErr error
	logins     int
	refreshes  int
}

func (f *fakeRemote) Login(_ context.Context, _ remote.LoginRequest) (*remote.LoginResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logins++
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	resp := *f.loginResp
	return &resp, nil
}

func (f *fakeRemote) RefreshToken(_ context.Context, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshes++
	return f.refreshTok, f.refreshErr
}

func (f *fakeRemote) refreshCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.refreshes
}

type fakeCaptcha struct {
	err    error
	checks int
}

func (f *fakeCaptcha) Verify(_, _ string) error {
	f.checks++
	return f.err
}

func loginResponse(t *testing.T, accessTTL time.Duration) *remote.LoginResponse {
	t.Helper()
	return &remote.LoginResponse{
		AccessToken:  signedToken(t, accessTTL),
		RefreshToken: "refresh-1",
		Profile: domain.StoreProfile{
			StoreID:   7,
			StoreName: "FreshPress Downtown",
			Account:   "downtown",
		},
	}
}

func TestSessionLoginAndBearer(t *testing.T) {
	fake := &fakeRemote{loginResp: loginResponse(t, time.Hour)}
	s := NewSessionService(fake, nil, nil)
	defer s.Logout()

	tok, err := s.Login(context.Background(), LoginInput{Account: "downtown", Password: "pw"})
	require.NoError(t, err)
	assert.NotEmpty(t, tok.Access)

	access, err := s.Bearer()
	require.NoError(t, err)
	assert.Equal(t, tok.Access, access)

	storeID, err := s.StoreID()
	require.NoError(t, err)
	assert.Equal(t, uint(7), storeID)
}

func TestSessionBearerWithoutLogin(t *testing.T) {
	s := NewSessionService(&fakeRemote{}, nil, nil)
	_, err := s.Bearer()
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindUnauthorized))
}

func TestSessionCaptchaGate(t *testing.T) {
	fake := &fakeRemote{loginResp: loginResponse(t, time.Hour)}
	captcha := &fakeCaptcha{err: ErrCaptchaFailed}
	s := NewSessionService(fake, captcha, func() bool { return true })

	_, err := s.Login(context.Background(), LoginInput{Account: "a", Password: "b"})
	require.Error(t, err)
	assert.Equal(t, 1, captcha.checks)
	assert.Equal(t, 0, fake.logins, "captcha failure must not reach the remote server")

	captcha.err = nil
	_, err = s.Login(context.Background(), LoginInput{Account: "a", Password: "b"})
	require.NoError(t, err)
	s.Logout()
}

func TestSessionRefreshesExpiringToken(t *testing.T) {
	fresh := signedToken(t, time.Hour)
	fake := &fakeRemote{
		loginResp:  loginResponse(t, 30*time.Second), // inside the refresh window
		refreshTok: fresh,
	}
	s := NewSessionService(fake, nil, nil)
	defer s.Logout()

	_, err := s.Login(context.Background(), LoginInput{Account: "a", Password: "b"})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		access, err := s.Bearer()
		return err == nil && access == fresh
	}, 2*time.Second, 10*time.Millisecond, "refresher never swapped the access token")
	assert.GreaterOrEqual(t, fake.refreshCount(), 1)
}

func TestSessionClearsAfterExhaustedRetries(t *testing.T) {
	fake := &fakeRemote{
		loginResp:  loginResponse(t, 30*time.Second),
		refreshErr: errors.New("central server down"),
	}
	s := NewSessionService(fake, nil, nil)
	s.backoffUnit = time.Millisecond

	_, err := s.Login(context.Background(), LoginInput{Account: "a", Password: "b"})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		_, err := s.Bearer()
		return err != nil
	}, 2*time.Second, 10*time.Millisecond, "failed refresh should clear the session")
	// initial attempt plus maxRetries backoffs.
	assert.Equal(t, defaultMaxRetries+1, fake.refreshCount())
}

func TestSessionLogoutStopsRefresher(t *testing.T) {
	fake := &fakeRemote{loginResp: loginResponse(t, time.Hour)}
	s := NewSessionService(fake, nil, nil)

	_, err := s.Login(context.Background(), LoginInput{Account: "a", Password: "b"})
	require.NoError(t, err)

	s.handleMu.Lock()
	done := s.done
	s.handleMu.Unlock()
	require.NotNil(t, done)

	s.Logout()
	select {
	case <-done:
	default:
		t.Fatal("refresher still running after logout")
	}
	_, err = s.Bearer()
	assert.Error(t, err)
}

func TestSessionReloginReplacesRefresher(t *testing.T) {
	fake := &fakeRemote{loginResp: loginResponse(t, time.Hour)}
	s := NewSessionService(fake, nil, nil)
	defer s.Logout()

	_, err := s.Login(context.Background(), LoginInput{Account: "a", Password: "b"})
	require.NoError(t, err)
	s.handleMu.Lock()
	first := s.done
	s.handleMu.Unlock()

	_, err = s.Login(context.Background(), LoginInput{Account: "a", Password: "b"})
	require.NoError(t, err)
	s.handleMu.Lock()
	second := s.done
	s.handleMu.Unlock()

	assert.NotEqual(t, first, second)
	select {
	case <-first:
	default:
		t.Fatal("old refresher still running after re-login")
	}
}
