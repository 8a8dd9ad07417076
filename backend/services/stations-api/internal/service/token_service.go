package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenLifetime is the validity window of issued tokens.
const DefaultTokenLifetime = 7 * 24 * time.Hour

// Claims represents JWT payload.
type Claims struct {
	UserID int64 `json:"user_id"`
	jwt.RegisteredClaims
}

// TokenService handles JWT creation and validation.
type TokenService struct {
	secret    []byte
	expiresIn time.Duration
	now       func() time.Time
}

// TokenOption customises TokenService.
type TokenOption func(*TokenService)

// WithClock replaces time.Now for issuance and expiry checks.
func WithClock(now func() time.Time) TokenOption {
	return func(t *TokenService) {
		if now != nil {
			t.now = now
		}
	}
}

// NewTokenService returns configured token service.
func NewTokenService(secret string, expiresIn time.Duration, opts ...TokenOption) *TokenService {
	if expiresIn <= 0 {
		expiresIn = DefaultTokenLifetime
	}
	t := &TokenService{secret: []byte(secret), expiresIn: expiresIn, now: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// IssueToken signs a token bound to userID.
func (t *TokenService) IssueToken(userID int64) (string, error) {
	if userID == 0 {
		return "", errors.New("token: user id is required")
	}

	now := t.now().UTC()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.expiresIn)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Authenticate verifies tokenString and returns the embedded user id.
// Errors are ErrMissingCredential or wrap ErrInvalidCredential.
func (t *TokenService) Authenticate(tokenString string) (int64, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return 0, ErrMissingCredential
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("token: unexpected signing method")
		}
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidCredential, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == 0 {
		return 0, fmt.Errorf("%w: invalid claims", ErrInvalidCredential)
	}
	return claims.UserID, nil
}
