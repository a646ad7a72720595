package service

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/moneymanager/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestTokenService(t *testing.T) {
	t.Parallel()

	now := testNow
	tokens, err := NewTokenService([]byte(testSecret), "", 0)
	require.NoError(t, err)
	tokens.Now = func() time.Time { return now }

	token, err := tokens.Issue("ana@example.com")
	require.NoError(t, err)

	t.Run("valid for its subject only", func(t *testing.T) {
		require.True(t, tokens.Validate(token, "ana@example.com"))
		require.False(t, tokens.Validate(token, "bob@example.com"))

		subject, err := tokens.ExtractSubject(token)
		require.NoError(t, err)
		require.Equal(t, "ana@example.com", subject)
	})

	t.Run("expires after ten hours", func(t *testing.T) {
		now = testNow.Add(jwtx.DefaultAccessTokenTTL - time.Second)
		require.True(t, tokens.Validate(token, "ana@example.com"))

		now = testNow.Add(jwtx.DefaultAccessTokenTTL)
		require.False(t, tokens.Validate(token, "ana@example.com"))

		_, err := tokens.ExtractSubject(token)
		require.ErrorIs(t, err, ErrAuthFailure)
		require.ErrorIs(t, err, jwtx.ErrExpired)
		now = testNow
	})

	t.Run("rejects tokens from another key", func(t *testing.T) {
		other, err := NewTokenService([]byte("ffffffffffffffffffffffffffffffff"), "", 0)
		require.NoError(t, err)
		other.Now = func() time.Time { return testNow }

		foreign, err := other.Issue("ana@example.com")
		require.NoError(t, err)
		require.False(t, tokens.Validate(foreign, "ana@example.com"))
		require.False(t, tokens.Validate("not.a.token", "ana@example.com"))
	})
}

func TestNewTokenServiceRejectsShortSecret(t *testing.T) {
	t.Parallel()

	_, err := NewTokenService([]byte("short"), "", 0)
	require.ErrorIs(t, err, jwtx.ErrWeakSecret)
}
