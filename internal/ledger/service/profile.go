package service

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"net/url"
	"strings"
	"time"

	"github.com/aussiebroadwan/moneymanager/internal/ledger/domain"
	"github.com/aussiebroadwan/moneymanager/internal/ledger/metrics"
	"github.com/aussiebroadwan/moneymanager/internal/ledger/store"
	"github.com/aussiebroadwan/moneymanager/pkg/cryptox"
	"github.com/aussiebroadwan/moneymanager/pkg/idx"
	"github.com/aussiebroadwan/moneymanager/pkg/mailx"
	"github.com/aussiebroadwan/moneymanager/pkg/slogx"
)

var (
	ErrInvalidRegistration    = errors.New("full name, email and password are required")
	ErrInvalidEmail           = errors.New("invalid email address")
	ErrEmailTaken             = errors.New("email already registered")
	ErrActivationTokenInvalid = errors.New("activation token not found")
	ErrAlreadyActivated       = errors.New("profile already activated")
	ErrInvalidCredentials     = errors.New("invalid email or password")
	ErrAccountInactive        = errors.New("account not active")
	ErrProfileNotFound        = errors.New("profile not found")
)

const activationSubject = "Activate your My Money account"

// Registration is the input of ProfileService.Register.
type Registration struct {
	FullName        string
	Email           string
	Password        string
	ProfileImageURL string
}

// LoginResult is returned by a successful Authenticate.
type LoginResult struct {
	Token   string
	Profile domain.PublicProfile
}

type ProfileService struct {
	Store  store.Store
	Mailer mailx.Sender
	Tokens *TokenService

	// ActivationBaseURL prefixes the activation link, e.g. https://api.example.com
	ActivationBaseURL string

	Now func() time.Time
}

func (s *ProfileService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// normalizeEmail lowercases and trims so lookups match regardless of how the
// address was typed.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an inactive profile and mails its activation link.
func (s *ProfileService) Register(ctx context.Context, reg Registration) (domain.PublicProfile, error) {
	log := slogx.FromContext(ctx)

	// 1. Validate input
	fullName := strings.TrimSpace(reg.FullName)
	email := normalizeEmail(reg.Email)
	if fullName == "" || email == "" || reg.Password == "" {
		return domain.PublicProfile{}, ErrInvalidRegistration
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return domain.PublicProfile{}, ErrInvalidEmail
	}

	// 2. Check the email is free
	if _, err := s.Store.Profiles().GetProfileByEmail(ctx, email); err == nil {
		log.Warn("registration attempted with taken email")
		return domain.PublicProfile{}, ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		log.Error("failed to look up profile", slog.Any("error", err))
		return domain.PublicProfile{}, err
	}

	// 3. Hash the password
	hash, err := cryptox.HashPassword(reg.Password)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		return domain.PublicProfile{}, err
	}

	// 4. Generate the activation token; only its fingerprint is stored
	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		log.Error("failed to generate activation token", slog.Any("error", err))
		return domain.PublicProfile{}, err
	}

	now := s.now().UTC()
	profile := domain.Profile{
		ID:                  idx.NewAt(now).String(),
		FullName:            fullName,
		Email:               email,
		PasswordHash:        hash,
		ProfileImageURL:     strings.TrimSpace(reg.ProfileImageURL),
		ActivationTokenHash: cryptox.FingerprintToken(token),
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	// 5. Persist. A concurrent registration can still win the race, the
	// unique index settles it.
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		return tx.Profiles().CreateProfile(ctx, profile)
	})
	if errors.Is(err, store.ErrAlreadyExists) {
		return domain.PublicProfile{}, ErrEmailTaken
	}
	if err != nil {
		log.Error("failed to create profile", slog.Any("error", err))
		return domain.PublicProfile{}, err
	}

	log.Info("profile registered", slog.String("profile_id", profile.ID))

	// 6. Mail the activation link. Failure here leaves the profile in place.
	err = s.sendActivation(ctx, profile, token)
	metrics.RecordMail("activation", err)
	if err != nil {
		log.Error("failed to send activation mail",
			slog.String("profile_id", profile.ID),
			slog.Any("error", err),
		)
	}

	return profile.Public(), nil
}

// ActivationLink is the URL mailed to a new profile.
func (s *ProfileService) ActivationLink(token string) string {
	return strings.TrimRight(s.ActivationBaseURL, "/") + "/api/v1.0/activate?token=" + url.QueryEscape(token)
}

func (s *ProfileService) sendActivation(ctx context.Context, p domain.Profile, token string) error {
	if s.Mailer == nil {
		return errors.New("no mailer configured")
	}

	body, err := render(activationMail, struct {
		FullName string
		Link     string
	}{p.FullName, s.ActivationLink(token)})
	if err != nil {
		return err
	}

	return s.Mailer.Send(ctx, mailx.Message{
		To:       p.Email,
		Subject:  activationSubject,
		HTMLBody: body,
	})
}

// Activate consumes an activation token. Unknown tokens and tokens of an
// already active profile fail with distinct errors.
func (s *ProfileService) Activate(ctx context.Context, token string) error {
	log := slogx.FromContext(ctx)

	if token == "" {
		return ErrActivationTokenInvalid
	}

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		profile, err := tx.Profiles().GetProfileByActivationHash(ctx, cryptox.FingerprintToken(token))
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("activation attempted with unknown token")
			return ErrActivationTokenInvalid
		}
		if err != nil {
			return err
		}

		if profile.IsActive {
			return ErrAlreadyActivated
		}

		// Conditional update; a concurrent activation leaves nothing to flip.
		err = tx.Profiles().ActivateProfile(ctx, profile.ID, s.now().UTC())
		if errors.Is(err, store.ErrNotFound) {
			return ErrAlreadyActivated
		}
		if err != nil {
			return err
		}

		log.Info("profile activated", slog.String("profile_id", profile.ID))
		return nil
	})
}

// IsActive reports whether the profile for email exists and is active.
func (s *ProfileService) IsActive(ctx context.Context, email string) (bool, error) {
	profile, err := s.Store.Profiles().GetProfileByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return profile.IsActive, nil
}

// Authenticate verifies credentials and issues a bearer token. Unknown email
// and wrong password fail identically; the active flag is only revealed to
// callers who know the password.
func (s *ProfileService) Authenticate(ctx context.Context, email, password string) (LoginResult, error) {
	log := slogx.FromContext(ctx)

	// 1. Look up the profile
	profile, err := s.Store.Profiles().GetProfileByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, store.ErrNotFound) {
		log.Warn("login attempted for unknown email")
		return LoginResult{}, ErrInvalidCredentials
	}
	if err != nil {
		log.Error("failed to look up profile", slog.Any("error", err))
		return LoginResult{}, err
	}

	// 2. Verify the password
	if err := cryptox.VerifyPassword(password, profile.PasswordHash); err != nil {
		if !errors.Is(err, cryptox.ErrPasswordMismatch) {
			log.Error("failed to verify password", slog.String("profile_id", profile.ID), slog.Any("error", err))
		}
		return LoginResult{}, ErrInvalidCredentials
	}

	// 3. Refuse inactive accounts before a token exists
	if !profile.IsActive {
		log.Info("login refused for inactive profile", slog.String("profile_id", profile.ID))
		return LoginResult{}, ErrAccountInactive
	}

	// 4. Issue the token
	token, err := s.Tokens.Issue(profile.Email)
	if err != nil {
		log.Error("failed to issue token", slog.Any("error", err))
		return LoginResult{}, err
	}

	return LoginResult{Token: token, Profile: profile.Public()}, nil
}

// GetByEmail returns the full profile for email.
func (s *ProfileService) GetByEmail(ctx context.Context, email string) (domain.Profile, error) {
	profile, err := s.Store.Profiles().GetProfileByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, store.ErrNotFound) {
		return domain.Profile{}, ErrProfileNotFound
	}
	return profile, err
}

// Current returns the public view of the caller's profile.
func (s *ProfileService) Current(ctx context.Context, profileID string) (domain.PublicProfile, error) {
	if profileID == "" {
		return domain.PublicProfile{}, ErrProfileNotFound
	}

	profile, err := s.Store.Profiles().GetProfileByID(ctx, profileID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.PublicProfile{}, ErrProfileNotFound
	}
	if err != nil {
		return domain.PublicProfile{}, err
	}
	return profile.Public(), nil
}
