package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/moneymanager/pkg/jwtx"
)

var ErrAuthFailure = errors.New("authentication failed")

// TokenService issues and checks the bearer tokens handed out at login. The
// subject of every token is the profile email.
type TokenService struct {
	Signer *jwtx.HS256
	Issuer string
	TTL    time.Duration
	Now    func() time.Time
}

// NewTokenService builds an HS256 token service. ttl <= 0 falls back to
// jwtx.DefaultAccessTokenTTL.
func NewTokenService(secret []byte, issuer string, ttl time.Duration) (*TokenService, error) {
	signer, err := jwtx.NewHS256(secret, issuer)
	if err != nil {
		return nil, err
	}
	if ttl <= 0 {
		ttl = jwtx.DefaultAccessTokenTTL
	}

	s := &TokenService{Signer: signer, Issuer: issuer, TTL: ttl, Now: time.Now}
	signer.WithClock(func() time.Time { return s.Now() })
	return s, nil
}

// Issue signs a token for subject expiring TTL from now.
func (s *TokenService) Issue(subject string) (string, error) {
	return s.Signer.Sign(jwtx.NewAccessClaims(subject, s.Issuer, s.TTL, s.Now()))
}

// Validate reports whether token verifies and was issued to expectedSubject.
func (s *TokenService) Validate(token, expectedSubject string) bool {
	subject, err := s.ExtractSubject(token)
	return err == nil && subject == expectedSubject
}

// ExtractSubject verifies token and returns its subject.
func (s *TokenService) ExtractSubject(token string) (string, error) {
	claims, err := s.Signer.Verify(token)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrAuthFailure, err)
	}
	return claims.Subject, nil
}

// Verifier exposes the underlying verifier to the authentication gate.
func (s *TokenService) Verifier() jwtx.Verifier {
	return s.Signer
}
