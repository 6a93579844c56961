package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"time"

	"github.com/numenot/myflix-api/internal/apperror"
	"github.com/numenot/myflix-api/internal/auth"
	"github.com/numenot/myflix-api/internal/model"
	"github.com/numenot/myflix-api/internal/repository"
)

// MinUsernameLength is the registration rule: usernames are at least five
// alphanumeric characters.
const MinUsernameLength = 5

// birthdayLayout is the accepted wire format for the optional birthday.
const birthdayLayout = "2006-01-02"

// UserService handles registration, profile management and the favorites
// relation. It needs the movie repository too: adding a favorite checks
// the movie exists, and the favorites listing resolves IDs to full
// catalog records.
type UserService struct {
	users     repository.UserRepository
	movies    repository.MovieRepository
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewUserService creates a UserService with all dependencies injected.
func NewUserService(
	users repository.UserRepository,
	movies repository.MovieRepository,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *UserService {
	return &UserService{
		users:     users,
		movies:    movies,
		passwords: passwords,
		logger:    logger,
	}
}

// UserInput is the request shape shared by registration and profile
// update. Birthday is an optional "YYYY-MM-DD" string.
type UserInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	Birthday string `json:"birthday,omitempty"`
}

// validate applies the registration rules and collects every violation so
// the client sees all of them at once, not just the first.
func validate(in UserInput) []apperror.Violation {
	var violations []apperror.Violation

	if len(in.Username) < MinUsernameLength {
		violations = append(violations, apperror.Violation{
			Field:   "username",
			Message: fmt.Sprintf("username must be at least %d characters", MinUsernameLength),
		})
	}
	if !isAlphanumeric(in.Username) {
		violations = append(violations, apperror.Violation{
			Field:   "username",
			Message: "username must contain only alphanumeric characters",
		})
	}
	if in.Password == "" {
		violations = append(violations, apperror.Violation{
			Field:   "password",
			Message: "password is required",
		})
	}
	// bcrypt reads at most 72 bytes; anything longer must be rejected here
	// rather than surface as an internal hashing failure.
	if len(in.Password) > 72 {
		violations = append(violations, apperror.Violation{
			Field:   "password",
			Message: "password must be 72 bytes or fewer",
		})
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		violations = append(violations, apperror.Violation{
			Field:   "email",
			Message: "email does not appear to be valid",
		})
	}
	if in.Birthday != "" {
		if _, err := time.Parse(birthdayLayout, in.Birthday); err != nil {
			violations = append(violations, apperror.Violation{
				Field:   "birthday",
				Message: "birthday must be in YYYY-MM-DD format",
			})
		}
	}

	return violations
}

func isAlphanumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

// Register validates the input, hashes the password and creates the user.
// Validation failures return apperror.ErrValidation with the full
// violation list; a taken username returns apperror.ErrConflict.
func (s *UserService) Register(ctx context.Context, in UserInput) (*model.User, error) {
	if violations := validate(in); len(violations) > 0 {
		return nil, apperror.ValidationFailed(violations...)
	}

	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("service/user: hashing password: %w", err)
	}

	user := &model.User{
		Username:     in.Username,
		PasswordHash: hash,
		Email:        in.Email,
		Birthday:     parseBirthday(in.Birthday),
		Favorites:    []string{},
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("service/user: creating user %s: %w", in.Username, err)
	}

	s.logger.Info("user registered", slog.String("username", user.Username))

	return user, nil
}

// Get returns the user's profile, favorites included.
func (s *UserService) Get(ctx context.Context, username string) (*model.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("service/user: getting user %s: %w", username, err)
	}
	return user, nil
}

// Update replaces the profile fields of an existing user. The same rules
// apply as at registration, and the password is re-hashed — the stored
// digest always corresponds to the latest plaintext.
func (s *UserService) Update(ctx context.Context, username string, in UserInput) (*model.User, error) {
	if violations := validate(in); len(violations) > 0 {
		return nil, apperror.ValidationFailed(violations...)
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("service/user: getting user %s: %w", username, err)
	}

	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("service/user: hashing password: %w", err)
	}

	user.Username = in.Username
	user.PasswordHash = hash
	user.Email = in.Email
	user.Birthday = parseBirthday(in.Birthday)

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrConflict) || errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("service/user: updating user %s: %w", username, err)
	}

	s.logger.Info("user updated", slog.String("username", user.Username))

	return user, nil
}

// Delete removes the account and, through the store's cascade, its
// favorites rows. Tokens already issued for it stay valid until expiry;
// they just authorize routes that will now answer 404.
func (s *UserService) Delete(ctx context.Context, username string) error {
	if err := s.users.Delete(ctx, username); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return err
		}
		return fmt.Errorf("service/user: deleting user %s: %w", username, err)
	}

	s.logger.Info("user deleted", slog.String("username", username))
	return nil
}

// AddFavorite adds a movie to the user's favorites set. The movie must
// exist in the catalog. Adding a movie already in the set is a no-op —
// the set stays membership-unique. Returns the updated profile.
func (s *UserService) AddFavorite(ctx context.Context, username, movieID string) (*model.User, error) {
	if _, err := s.movies.GetByID(ctx, movieID); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("service/user: checking movie %s: %w", movieID, err)
	}

	if err := s.users.AddFavorite(ctx, username, movieID); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("service/user: adding favorite %s for %s: %w", movieID, username, err)
	}

	return s.Get(ctx, username)
}

// RemoveFavorite removes a movie from the user's favorites set; removing
// a non-member is a no-op. Returns the updated profile.
func (s *UserService) RemoveFavorite(ctx context.Context, username, movieID string) (*model.User, error) {
	if err := s.users.RemoveFavorite(ctx, username, movieID); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("service/user: removing favorite %s for %s: %w", movieID, username, err)
	}

	return s.Get(ctx, username)
}

// ListFavorites resolves the user's favorites to full catalog records, in
// insertion order. A favorite whose movie has vanished from the catalog is
// skipped rather than failing the whole listing.
func (s *UserService) ListFavorites(ctx context.Context, username string) ([]model.Movie, error) {
	ids, err := s.users.ListFavorites(ctx, username)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("service/user: listing favorites for %s: %w", username, err)
	}

	movies := []model.Movie{}
	for _, id := range ids {
		movie, err := s.movies.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, apperror.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("service/user: resolving favorite %s: %w", id, err)
		}
		movies = append(movies, *movie)
	}

	return movies, nil
}

// parseBirthday converts an already-validated "YYYY-MM-DD" string to a
// *time.Time, nil for the empty string.
func parseBirthday(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(birthdayLayout, s)
	if err != nil {
		return nil
	}
	return &t
}
