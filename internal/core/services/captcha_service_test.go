package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaptchaIssueAndVerify(t *testing.T) {
	s := NewCaptchaService()

	id, code, err := s.Issue()
	require.NoError(t, err)
	assert.Len(t, code, captchaCodeLen)
	assert.NoError(t, s.Verify(id, code))

	// one shot: the challenge is gone after a successful check.
	assert.Error(t, s.Verify(id, code))
}

func TestCaptchaWrongAnswerBurnsChallenge(t *testing.T) {
	s := NewCaptchaService()

	id, code, err := s.Issue()
	require.NoError(t, err)
	assert.Error(t, s.Verify(id, "nope"))
	assert.Error(t, s.Verify(id, code))
}

func TestCaptchaUnknownID(t *testing.T) {
	s := NewCaptchaService()
	assert.Error(t, s.Verify("missing", "0000"))
}

func TestCaptchaExpiryAndSweep(t *testing.T) {
	s := NewCaptchaService()
	s.ttl = -time.Second // issued already expired

	id, code, err := s.Issue()
	require.NoError(t, err)
	assert.Error(t, s.Verify(id, code))

	_, _, err = s.Issue()
	require.NoError(t, err)
	require.Equal(t, 1, s.Pending())
	s.Sweep()
	assert.Equal(t, 0, s.Pending())
}
