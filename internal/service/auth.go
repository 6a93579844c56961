// Package service contains the business logic layer.
//
// Handlers parse HTTP and write responses; services enforce the rules and
// orchestrate; repositories read and write the store. Services receive
// repository interfaces, never concrete sqlite types, so the tests in this
// package run against in-memory fakes.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/numenot/myflix-api/internal/apperror"
	"github.com/numenot/myflix-api/internal/auth"
	"github.com/numenot/myflix-api/internal/model"
	"github.com/numenot/myflix-api/internal/repository"
)

// AuthService is the credential verifier: it checks a username/password
// pair against the store and, on success, issues the JWT the client will
// present on every subsequent request.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger

	// dummyHash is compared against when the username is unknown, so the
	// unknown-user path costs the same bcrypt work as the wrong-password
	// path. Without it, response timing would reveal which usernames exist.
	dummyHash string
}

// NewAuthService creates an AuthService with all dependencies injected.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	dummy, err := passwords.Hash("decoy-password-for-timing-parity")
	if err != nil {
		// Hash only fails for empty or oversized input; this is neither.
		panic(fmt.Sprintf("service/auth: hashing decoy password: %v", err))
	}

	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
		dummyHash: dummy,
	}
}

// AuthResult bundles the authenticated user with the issued token so the
// login handler can respond in one step.
type AuthResult struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

// Login verifies the credentials and issues a token.
//
// Both failure modes — unknown username and wrong password — return the
// identical apperror.InvalidCredentials value, and both perform a full
// bcrypt comparison, so neither the response body nor its timing
// distinguishes them. Store failures are returned as-is for the handler to
// surface as a generic 500.
func (s *AuthService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			// Burn the same bcrypt work as a real comparison.
			s.passwords.Verify(s.dummyHash, password)
			s.logger.Warn("login failed", slog.String("username", username))
			return nil, apperror.InvalidCredentials()
		}
		return nil, fmt.Errorf("service/auth: looking up user %s: %w", username, err)
	}

	if !s.passwords.Verify(user.PasswordHash, password) {
		s.logger.Warn("login failed", slog.String("username", username))
		return nil, apperror.InvalidCredentials()
	}

	token, err := s.tokens.Generate(user.Username)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for %s: %w", username, err)
	}

	s.logger.Info("user logged in", slog.String("username", user.Username))

	return &AuthResult{
		User:  user,
		Token: token,
	}, nil
}
