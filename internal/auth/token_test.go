package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	s, err := NewSessions("test-secret", time.Hour)
	require.NoError(t, err)

	id := uuid.New()
	token, err := s.Issue(id)
	require.NoError(t, err)

	got, err := s.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestParseRejectsForeignAndExpiredTokens(t *testing.T) {
	s, err := NewSessions("test-secret", time.Hour)
	require.NoError(t, err)
	other, err := NewSessions("other-secret", time.Hour)
	require.NoError(t, err)

	token, err := other.Issue(uuid.New())
	require.NoError(t, err)
	_, err = s.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	token, err = s.Issue(uuid.New())
	require.NoError(t, err)
	s.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = s.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = s.Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRandomSecretWhenUnset(t *testing.T) {
	a, err := NewSessions("", time.Hour)
	require.NoError(t, err)
	b, err := NewSessions("", time.Hour)
	require.NoError(t, err)

	token, err := a.Issue(uuid.New())
	require.NoError(t, err)
	_, err = b.Parse(token)
	assert.Error(t, err)
}
