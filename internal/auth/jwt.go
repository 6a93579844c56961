package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// issuer is pinned on every token and checked on validation, so tokens
// minted by other applications sharing a secret by accident are rejected.
const issuer = "myflix"

// TokenLifetime is how long an issued token stays valid. There is no
// refresh or revocation path: possession of an unexpired, validly signed
// token is the sole credential until it ages out.
const TokenLifetime = 7 * 24 * time.Hour

// TokenService signs and validates JWT access tokens.
//
// It holds the process-wide HMAC secret, loaded once from configuration at
// startup and never rotated at runtime. The same secret signs and verifies —
// HS256 is symmetric.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
// The secret should be at least 32 bytes of random data in production,
// e.g. JWT_SECRET=$(openssl rand -hex 32).
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// claims is the JWT payload. jwt.RegisteredClaims supplies the standard
// fields; "sub" carries the username of the authenticated account.
type claims struct {
	jwt.RegisteredClaims
}

// Generate creates and signs a token for the given username, valid for
// TokenLifetime (7 days) from now.
func (s *TokenService) Generate(username string) (string, error) {
	return s.GenerateWithDuration(username, TokenLifetime)
}

// GenerateWithDuration creates a token with a custom expiry duration.
// Used by tests to mint already-expired tokens.
func (s *TokenService) GenerateWithDuration(username string, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a token string, returning the username from
// the subject claim.
//
// Checks performed: HMAC signature against the process secret, expiry,
// issuer, and the signing algorithm. Restricting the algorithm to HS256
// via WithValidMethods closes the classic algorithm-confusion hole where a
// token signed with "none" slips through.
//
// Every failure collapses into a single opaque error — an expired token is
// indistinguishable from a forged one to the caller.
func (s *TokenService) Validate(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("auth: token expired")
		}
		return "", fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("auth: invalid token claims")
	}

	if c.Subject == "" {
		return "", fmt.Errorf("auth: token has no subject")
	}

	return c.Subject, nil
}
