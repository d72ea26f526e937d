package services

import (
	"sync"
	"time"

	"freshpress-pos/internal/core/domain"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	captchaCodeLen = 4
	captchaTTL     = 5 * time.Minute
)

var ErrCaptchaFailed = domain.E(domain.KindBadRequest, "captcha verification failed")

type captchaEntry struct {
	Code      string
	ExpiresAt time.Time
}

// CaptchaService issues and verifies login captcha challenges. The
// store is in-memory; challenges do not survive a restart, which is
// fine because neither do login forms.
type CaptchaService struct {
	mu      sync.Mutex
	entries map[string]captchaEntry
	ttl     time.Duration
}

// NewCaptchaService creates a new captcha service
func NewCaptchaService() *CaptchaService {
	return &CaptchaService{
		entries: make(map[string]captchaEntry),
		ttl:     captchaTTL,
	}
}

// Issue creates a new challenge and returns its id and answer. The
// caller renders the answer as an image; the id travels with the form.
func (s *CaptchaService) Issue() (id, code string, err error) {
	code, err = randomDigits(captchaCodeLen)
	if err != nil {
		return "", "", domain.WrapErr(domain.KindInternalServer, err, "draw captcha code")
	}
	id = uuid.New().String()

	s.mu.Lock()
	s.entries[id] = captchaEntry{
		Code:      code,
		ExpiresAt: time.Now().Add(s.ttl),
	}
	s.mu.Unlock()
	return id, code, nil
}

// Verify checks an answer against the stored challenge. One shot: the
// challenge is removed whether the answer matches or not.
func (s *CaptchaService) Verify(id, code string) error {
	s.mu.Lock()
	entry, ok := s.entries[id]
	delete(s.entries, id)
	s.mu.Unlock()

	if !ok || time.Now().After(entry.ExpiresAt) || entry.Code != code {
		return ErrCaptchaFailed
	}
	return nil
}

// Sweep drops expired challenges. Run periodically by the scheduler.
func (s *CaptchaService) Sweep() {
	now := time.Now()
	s.mu.Lock()
	var swept int
	for id, entry := range s.entries {
		if now.After(entry.ExpiresAt) {
			delete(s.entries, id)
			swept++
		}
	}
	s.mu.Unlock()
	if swept > 0 {
		log.Debug().Int("swept", swept).Msg("expired captchas removed")
	}
}

// Pending returns the number of live challenges.
func (s *CaptchaService) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
