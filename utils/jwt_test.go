package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour, 24*time.Hour)

	access, err := issuer.IssueAccess(42)
	require.NoError(t, err)

	claims, err := issuer.Parse(access, AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)

	refresh, expires, err := issuer.IssueRefresh(42)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), expires, time.Minute)

	claims, err = issuer.Parse(refresh, RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
}

func TestTokenIssuer_RejectsWrongKind(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour, time.Hour)

	refresh, _, err := issuer.IssueRefresh(1)
	require.NoError(t, err)
	_, err = issuer.Parse(refresh, AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuer_RejectsForeignSignature(t *testing.T) {
	token, err := NewTokenIssuer("one", time.Hour, time.Hour).IssueAccess(1)
	require.NoError(t, err)

	_, err = NewTokenIssuer("two", time.Hour, time.Hour).Parse(token, AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuer_RejectsExpired(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Minute, time.Minute)
	issuer.now = func() time.Time { return time.Now().Add(-time.Hour) }

	token, err := issuer.IssueAccess(1)
	require.NoError(t, err)

	_, err = issuer.Parse(token, AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuer_RejectsGarbage(t *testing.T) {
	_, err := NewTokenIssuer("secret", time.Hour, time.Hour).Parse("not.a.token", AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
