// Package auth issues and validates the bearer tokens handed out on login.
//
// Tokens are HS256 JWTs carrying the user id as "sub" and an "email"
// claim, plus fixed issuer and audience values. They are stateless: a token
// stays valid until it expires and there is no server-side revocation.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/shopfront/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenLifetime is how long an issued token stays valid.
const DefaultTokenLifetime = 24 * time.Hour

// MinSecretLength is the shortest HMAC secret accepted at startup.
const MinSecretLength = 32

var (
	ErrSecretTooShort = fmt.Errorf("jwt secret must be at least %d bytes", MinSecretLength)
	ErrNoIssuer       = errors.New("jwt issuer must be set")
	ErrNoAudience     = errors.New("jwt audience must be set")
	ErrEmptySubject   = errors.New("token subject must not be empty")
)

// Claims is the payload of an issued token.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// TokenService signs and checks tokens with a process-wide secret.
// It holds no mutable state and is safe for concurrent use.
type TokenService struct {
	secret   []byte
	issuer   string
	audience string
	lifetime time.Duration
	now      func() time.Time
}

// Option configures a TokenService.
type Option func(*TokenService)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *TokenService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewTokenService validates the signing configuration. A zero lifetime falls
// back to DefaultTokenLifetime.
func NewTokenService(secret []byte, issuer, audience string, lifetime time.Duration, opts ...Option) (*TokenService, error) {
	if len(secret) < MinSecretLength {
		return nil, ErrSecretTooShort
	}
	if issuer == "" {
		return nil, ErrNoIssuer
	}
	if audience == "" {
		return nil, ErrNoAudience
	}
	if lifetime <= 0 {
		lifetime = DefaultTokenLifetime
	}

	s := &TokenService{
		secret:   append([]byte(nil), secret...),
		issuer:   issuer,
		audience: audience,
		lifetime: lifetime,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Issue returns a signed token for the user and its UTC expiry. The exp
// claim has whole-second precision, so the expiry is now+lifetime truncated
// to the second and the returned time always equals the claim.
func (s *TokenService) Issue(subjectID, email string) (string, time.Time, error) {
	if subjectID == "" {
		return "", time.Time{}, ErrEmptySubject
	}

	expiresAt := jwt.NewNumericDate(s.now().Add(s.lifetime))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			ExpiresAt: expiresAt,
		},
		Email: email,
	})

	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt.Time.UTC(), nil
}

// Validate parses tokenString and returns its claims. Every failure wraps
// common.ErrInvalidToken; expiry additionally wraps common.ErrTokenExpired.
func (s *TokenService) Validate(tokenString string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)

	claims := &Claims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %w", common.ErrInvalidToken, common.ErrTokenExpired)
		}
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidToken, err)
	}

	if !token.Valid || claims.Subject == "" {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
