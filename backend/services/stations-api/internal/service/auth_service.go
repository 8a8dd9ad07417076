package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"unicode/utf8"

	"go.uber.org/zap"

	"evcharging/backend/services/stations-api/internal/models"
	"evcharging/backend/services/stations-api/internal/password"
	"evcharging/backend/services/stations-api/internal/repository"
)

// UserRepository defines storage contract used by the service.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	User  *models.PublicUser
	Token string
}

// AuthService contains registration/login logic.
type AuthService struct {
	repo      UserRepository
	hasher    password.Hasher
	tokenizer *TokenService
	logger    *zap.Logger

	decoyOnce sync.Once
	decoyHash string
}

// decoyPassword is hashed once so that logins for unknown emails cost a
// bcrypt comparison too.
const decoyPassword = "evcharging-decoy-password"

// NewAuthService builds AuthService.
func NewAuthService(repo UserRepository, hasher password.Hasher, tokenizer *TokenService, logger *zap.Logger) *AuthService {
	return &AuthService{
		repo:      repo,
		hasher:    hasher,
		tokenizer: tokenizer,
		logger:    logger,
	}
}

// Register creates a user and signs a token for it.
func (s *AuthService) Register(ctx context.Context, username, email, plaintext string) (*AuthResult, error) {
	user, err := s.CreateUser(ctx, username, email, plaintext)
	if err != nil {
		return nil, err
	}

	token, err := s.tokenizer.IssueToken(user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: token}, nil
}

// CreateUser hashes plaintext and stores a new account.
func (s *AuthService) CreateUser(ctx context.Context, username, email, plaintext string) (*models.PublicUser, error) {
	username = strings.TrimSpace(username)
	email = repository.NormalizeEmail(email)
	if username == "" || email == "" || plaintext == "" {
		return nil, &ValidationError{Reason: ReasonRequired}
	}
	switch {
	case utf8.RuneCountInString(username) > models.MaxUsernameLength:
		return nil, &ValidationError{Field: "username", Reason: "is too long"}
	case utf8.RuneCountInString(email) > models.MaxEmailLength:
		return nil, &ValidationError{Field: "email", Reason: "is too long"}
	case len(plaintext) > password.MaxLength:
		return nil, &ValidationError{Field: "password", Reason: "is longer than 72 bytes"}
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(plaintext)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrConstraintViolation) {
			return nil, ErrUserExists
		}
		return nil, err
	}

	s.logger.Info("user registered", zap.Int64("user_id", user.ID), zap.String("email", user.Email))
	return user.Public(), nil
}

// Login authenticates a user and produces a JWT. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, plaintext string) (*AuthResult, error) {
	email = repository.NormalizeEmail(email)
	if email == "" || plaintext == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.compareDecoy(plaintext)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.VerifyPassword(user, plaintext) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokenizer.IssueToken(user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user.Public(), Token: token}, nil
}

// FindByEmail returns the stored user including the hash.
func (s *AuthService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.repo.GetByEmail(ctx, email)
}

// FindByID returns the user without the hash.
func (s *AuthService) FindByID(ctx context.Context, id int64) (*models.PublicUser, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return user.Public(), nil
}

// VerifyPassword compares plaintext against the stored hash.
func (s *AuthService) VerifyPassword(user *models.User, plaintext string) bool {
	if user == nil {
		return false
	}
	if err := s.hasher.Compare(user.PasswordHash, plaintext); err != nil {
		if !errors.Is(err, password.ErrMismatch) {
			s.logger.Warn("password hash comparison failed", zap.Int64("user_id", user.ID), zap.Error(err))
		}
		return false
	}
	return true
}

func (s *AuthService) compareDecoy(plaintext string) {
	s.decoyOnce.Do(func() {
		hash, err := s.hasher.Hash(decoyPassword)
		if err != nil {
			s.logger.Warn("decoy hash unavailable", zap.Error(err))
			return
		}
		s.decoyHash = hash
	})
	if s.decoyHash != "" {
		_ = s.hasher.Compare(s.decoyHash, plaintext)
	}
}

// Authenticate resolves a bearer token to a user id.
func (s *AuthService) Authenticate(token string) (int64, error) {
	return s.tokenizer.Authenticate(token)
}
