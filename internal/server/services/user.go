// Package services contains server-side business logic. This file implements
// UserService, which handles registration, login and the legacy lookup by id.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/shopfront/internal/common"
	"github.com/dmitrijs2005/shopfront/internal/cryptox"
	"github.com/dmitrijs2005/shopfront/internal/server/models"
	"github.com/dmitrijs2005/shopfront/internal/server/repositories/repomanager"
)

const (
	MaxEmailLength    = 255
	MinPasswordLength = 6
	MaxPasswordLength = 100

	subjectSuffixBytes = 4

	// users.uid is VARCHAR(100); the prefix plus "_" and 8 hex chars fits.
	maxSubjectPrefixRunes = 64
)

// ErrEmailRegistered is returned by Register when the email is taken.
var ErrEmailRegistered = common.NewConflictError("Email already registered")

// ErrInvalidCredentials is returned by Login for both an unknown email and a
// wrong password so callers cannot probe which accounts exist.
var ErrInvalidCredentials = fmt.Errorf("%w: invalid email or password", common.ErrorUnauthorized)

// TokenIssuer mints access tokens for an authenticated user.
type TokenIssuer interface {
	Issue(subjectID, email string) (string, time.Time, error)
}

// LoginResult is the outcome of a successful login.
type LoginResult struct {
	Token        string
	ExpiresAtUTC time.Time
}

// seams for tests
var (
	hashPassword  = cryptox.HashPassword
	newSubjectHex = common.MakeRandHexString
	matchPassword = cryptox.MatchCredential
)

// UserService provides account operations:
// - Register: validate and create users with hashed credentials
// - Login: verify credentials and issue a bearer token
// - GetByID: legacy lookup by subject id
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	tokens      TokenIssuer
}

// NewUserService constructs a UserService.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, tokens TokenIssuer) *UserService {
	return &UserService{db: db, repomanager: m, tokens: tokens}
}

// Register validates the request, derives a subject id from the email and
// stores the user with a PBKDF2 credential. It reports whether the store
// confirmed the write.
func (s *UserService) Register(ctx context.Context, email, password string) (bool, error) {
	if err := validateEmail(email); err != nil {
		return false, err
	}
	if err := validatePassword(password); err != nil {
		return false, err
	}

	repo := s.repomanager.Users(s.db)

	exists, err := repo.ExistsByEmail(ctx, email)
	if err != nil {
		return false, fmt.Errorf("error checking email: %w", err)
	}
	if exists {
		return false, ErrEmailRegistered
	}

	id, err := newSubjectID(email)
	if err != nil {
		return false, fmt.Errorf("error generating user id: %w", err)
	}

	stored, err := hashPassword(password)
	if err != nil {
		return false, fmt.Errorf("error hashing password: %w", err)
	}

	written, err := repo.Insert(ctx, &models.User{ID: id, Email: email, Password: stored})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return false, ErrEmailRegistered
		}
		return false, fmt.Errorf("error creating user: %w", err)
	}

	return written, nil
}

// Login verifies the credentials and issues a token on success.
func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || strings.TrimSpace(password) == "" {
		return nil, common.NewValidationError("email and password are required")
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error finding user: %w", err)
	}

	if !matchPassword(password, user.Password) {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("error issuing token: %w", err)
	}

	return &LoginResult{Token: token, ExpiresAtUTC: expiresAt}, nil
}

// GetByID returns the user with the given subject id or common.ErrorNotFound.
func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	if strings.TrimSpace(id) == "" {
		return nil, common.NewValidationError("id is required")
	}
	repo := s.repomanager.Users(s.db)
	return repo.FindByID(ctx, id)
}

func validateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return common.NewValidationError("valid email is required")
	}
	if len(email) > MaxEmailLength {
		return common.NewValidationError(fmt.Sprintf("email must be at most %d characters", MaxEmailLength))
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Name != "" || addr.Address != email {
		return common.NewValidationError("valid email is required")
	}
	return nil
}

func validatePassword(password string) error {
	n := utf8.RuneCountInString(password)
	if strings.TrimSpace(password) == "" || n < MinPasswordLength {
		return common.NewValidationError(fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}
	if n > MaxPasswordLength {
		return common.NewValidationError(fmt.Sprintf("password must be at most %d characters", MaxPasswordLength))
	}
	return nil
}

// newSubjectID builds "<local part>_<8 hex chars>". Long local parts are
// cut to maxSubjectPrefixRunes.
func newSubjectID(email string) (string, error) {
	local, _, _ := strings.Cut(email, "@")
	if r := []rune(local); len(r) > maxSubjectPrefixRunes {
		local = string(r[:maxSubjectPrefixRunes])
	}
	suffix, err := newSubjectHex(subjectSuffixBytes)
	if err != nil {
		return "", err
	}
	return local + "_" + suffix, nil
}
