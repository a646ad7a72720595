package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MinSecretLength is the smallest HMAC key accepted, matching the SHA-256
// output size.
const MinSecretLength = 32

// HS256 signs and verifies tokens with a shared HMAC-SHA256 secret. It
// implements both Signer and Verifier.
type HS256 struct {
	secret []byte
	issuer string
	now    func() time.Time
}

var (
	_ Signer   = (*HS256)(nil)
	_ Verifier = (*HS256)(nil)
)

// NewHS256 creates an HS256 signer/verifier. An empty issuer disables the
// issuer check on verification.
func NewHS256(secret []byte, issuer string) (*HS256, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("%w: need %d bytes, got %d", ErrWeakSecret, MinSecretLength, len(secret))
	}

	key := make([]byte, len(secret))
	copy(key, secret)

	return &HS256{secret: key, issuer: issuer, now: time.Now}, nil
}

// WithClock swaps the time source used for exp/nbf checks.
func (h *HS256) WithClock(now func() time.Time) *HS256 {
	h.now = now
	return h
}

func (h *HS256) Alg() string { return jwt.SigningMethodHS256.Alg() }

// Sign serialises the claims into a compact JWS.
func (h *HS256) Sign(c Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(h.secret)
	if err != nil {
		return "", fmt.Errorf("jwtx: sign: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and algorithm first, then the time window and
// issuer against the configured clock.
func (h *HS256) Verify(tokenStr string) (Claims, error) {
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())

	var claims Claims
	_, err := parser.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, ErrAlgMismatch
		}
		return h.secret, nil
	})
	if err != nil {
		return Claims{}, classifyParseError(err)
	}

	if err := claims.ValidateExpiryAt(h.now()); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateIssuer(h.issuer); err != nil {
		return Claims{}, err
	}
	if claims.Subject == "" {
		return Claims{}, fmt.Errorf("%w: missing subject", ErrInvalidClaim)
	}

	return claims, nil
}

func classifyParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	case errors.Is(err, ErrAlgMismatch), errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %v", ErrAlgMismatch, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %v", ErrInvalidSig, err)
	default:
		return fmt.Errorf("%w: %v", ErrInvalidClaim, err)
	}
}
