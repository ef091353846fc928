package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParticipantTokenRoundTrip(t *testing.T) {
	auth := NewAuthService("secret", time.Hour)

	token, err := auth.IssueParticipantToken("session-1")
	require.NoError(t, err)

	claims, err := auth.ValidateParticipantToken(token)
	require.NoError(t, err)
	assert.Equal(t, "session-1", claims.SessionID)
}

func TestParticipantTokenWrongSecret(t *testing.T) {
	token, err := NewAuthService("one", time.Hour).IssueParticipantToken("s")
	require.NoError(t, err)

	_, err = NewAuthService("two", time.Hour).ValidateParticipantToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParticipantTokenExpires(t *testing.T) {
	auth := NewAuthService("secret", time.Minute)
	issued := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	auth.now = func() time.Time { return issued }

	token, err := auth.IssueParticipantToken("s")
	require.NoError(t, err)

	auth.now = func() time.Time { return issued.Add(2 * time.Minute) }
	_, err = auth.ValidateParticipantToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthorizeGarbage(t *testing.T) {
	auth := NewAuthService("secret", time.Hour)
	assert.ErrorIs(t, auth.Authorize("not-a-jwt", "s"), ErrInvalidToken)
}
