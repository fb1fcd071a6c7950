// Package auth authenticates callers by HS256 bearer tokens whose email
// claim names the inventory owner.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/osse101/MediDispenser_Go/internal/domain"
)

// DefaultTokenTTL matches the lifetime of tokens issued at login
const DefaultTokenTTL = 24 * time.Hour

var (
	ErrTokenMissing = errors.New("token is missing")
	ErrTokenExpired = errors.New("token has expired")
	ErrTokenInvalid = errors.New("token is invalid")
)

// Claims are the JWT claims carried by access tokens
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenService signs and validates access tokens
type TokenService struct {
	signingKey []byte
	now        func() time.Time
}

// NewTokenService creates a token service keyed by secret
func NewTokenService(secret string) *TokenService {
	return &TokenService{signingKey: []byte(secret), now: time.Now}
}

// GenerateToken issues a token for email valid for ttl
func (s *TokenService) GenerateToken(email string, ttl time.Duration) (string, error) {
	email, err := domain.NormalizeUser(email)
	if err != nil {
		return "", err
	}
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	})
	return token.SignedString(s.signingKey)
}

// ValidateToken verifies the signature and expiry and returns the
// normalised email claim
func (s *TokenService) ValidateToken(tokenString string) (string, error) {
	if tokenString == "" {
		return "", ErrTokenMissing
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return "", ErrTokenInvalid
	}

	email, err := domain.NormalizeUser(claims.Email)
	if err != nil {
		return "", fmt.Errorf("%w: missing email claim", ErrTokenInvalid)
	}
	return email, nil
}
