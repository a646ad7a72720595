package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegisterAndActivate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newTestEnv(t)

	p, err := env.profiles.Register(ctx, Registration{
		FullName: "Ana Lima",
		Email:    "  Ana@Example.com ",
		Password: "s3cret!",
	})
	require.NoError(t, err)
	require.Equal(t, "ana@example.com", p.Email)
	require.NotEmpty(t, p.ID)

	active, err := env.profiles.IsActive(ctx, "ana@example.com")
	require.NoError(t, err)
	require.False(t, active)

	sent := env.mailer.Sent()
	require.Len(t, sent, 1)
	require.Equal(t, "ana@example.com", sent[0].To)
	require.Equal(t, activationSubject, sent[0].Subject)
	require.Contains(t, sent[0].HTMLBody, "http://localhost:8080/api/v1.0/activate?token=")

	token := env.tokenFromMail(t, "ana@example.com")

	stored, err := env.profiles.GetByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	require.NotEqual(t, token, stored.ActivationTokenHash, "raw token must not be stored")

	require.NoError(t, env.profiles.Activate(ctx, token))
	active, err = env.profiles.IsActive(ctx, "ANA@example.com")
	require.NoError(t, err)
	require.True(t, active)

	require.ErrorIs(t, env.profiles.Activate(ctx, token), ErrAlreadyActivated)
	require.ErrorIs(t, env.profiles.Activate(ctx, "bogus"), ErrActivationTokenInvalid)
	require.ErrorIs(t, env.profiles.Activate(ctx, ""), ErrActivationTokenInvalid)
}

func TestRegisterValidation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.profiles.Register(ctx, Registration{FullName: "Ana", Email: "ana@example.com", Password: "pw"})
	require.NoError(t, err)

	tests := []struct {
		name string
		reg  Registration
		want error
	}{
		{"missing name", Registration{Email: "x@example.com", Password: "pw"}, ErrInvalidRegistration},
		{"missing password", Registration{FullName: "X", Email: "x@example.com"}, ErrInvalidRegistration},
		{"bad email", Registration{FullName: "X", Email: "not-an-email", Password: "pw"}, ErrInvalidEmail},
		{"display name form", Registration{FullName: "X", Email: "X <x@example.com>", Password: "pw"}, ErrInvalidEmail},
		{"duplicate email", Registration{FullName: "Ana", Email: "ANA@example.com", Password: "pw"}, ErrEmailTaken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.profiles.Register(ctx, tt.reg)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRegisterKeepsProfileWhenMailFails(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newTestEnv(t)
	env.mailer.FailFor = map[string]error{"ana@example.com": errors.New("smtp down")}

	_, err := env.profiles.Register(ctx, Registration{FullName: "Ana", Email: "ana@example.com", Password: "pw"})
	require.NoError(t, err)

	_, err = env.profiles.GetByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	require.Empty(t, env.mailer.Sent())
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newTestEnv(t)

	ana := env.activeProfile(t, "Ana", "ana@example.com")
	_, err := env.profiles.Register(ctx, Registration{FullName: "Bob", Email: "bob@example.com", Password: "pw"})
	require.NoError(t, err)

	t.Run("success issues a token for the email", func(t *testing.T) {
		res, err := env.profiles.Authenticate(ctx, "Ana@example.com", "s3cret!")
		require.NoError(t, err)
		require.Equal(t, ana.ID, res.Profile.ID)
		require.True(t, env.tokens.Validate(res.Token, "ana@example.com"))
	})

	t.Run("wrong password and unknown email look the same", func(t *testing.T) {
		_, err := env.profiles.Authenticate(ctx, "ana@example.com", "wrong")
		require.ErrorIs(t, err, ErrInvalidCredentials)

		_, err = env.profiles.Authenticate(ctx, "ghost@example.com", "s3cret!")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("inactive account is refused", func(t *testing.T) {
		_, err := env.profiles.Authenticate(ctx, "bob@example.com", "pw")
		require.ErrorIs(t, err, ErrAccountInactive)

		_, err = env.profiles.Authenticate(ctx, "bob@example.com", "nope")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestCurrentProfile(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newTestEnv(t)

	ana := env.activeProfile(t, "Ana", "ana@example.com")

	got, err := env.profiles.Current(ctx, ana.ID)
	require.NoError(t, err)
	require.Equal(t, "Ana", got.FullName)

	_, err = env.profiles.Current(ctx, "")
	require.ErrorIs(t, err, ErrProfileNotFound)
	_, err = env.profiles.Current(ctx, "missing")
	require.ErrorIs(t, err, ErrProfileNotFound)
	_, err = env.profiles.GetByEmail(ctx, "ghost@example.com")
	require.ErrorIs(t, err, ErrProfileNotFound)
}

func TestActivationLinkEscapesToken(t *testing.T) {
	t.Parallel()

	s := &ProfileService{ActivationBaseURL: "https://api.example.com/"}
	link := s.ActivationLink("a b")
	require.True(t, strings.HasPrefix(link, "https://api.example.com/api/v1.0/activate?token="))
	require.True(t, strings.HasSuffix(link, "a+b"))

}
