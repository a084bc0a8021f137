package jwtutil

import (
	"errors"
	"fmt"
	"time"

	"shop-service/pkg/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

// UserClaims represents the JWT claims for user authentication.
// The subject carries the user id.
type UserClaims struct {
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// UserID returns the subject of the token
func (c *UserClaims) UserID() string {
	return c.Subject
}

// TokenPair is returned on every successful authentication
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// JWTUtil signs and validates access and refresh tokens with separate secrets
type JWTUtil struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

func NewJWTUtil(cfg config.JWTConfig) *JWTUtil {
	return &JWTUtil{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
		now:           time.Now,
	}
}

// RefreshTTL is the lifetime of refresh tokens, used for the cookie max age
func (j *JWTUtil) RefreshTTL() time.Duration {
	return j.refreshTTL
}

// GenerateTokenPair creates an access and a refresh token for the user
func (j *JWTUtil) GenerateTokenPair(userID, email, role string) (*TokenPair, error) {
	access, err := j.sign(userID, email, role, j.accessTTL, j.accessSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}
	refresh, err := j.sign(userID, email, role, j.refreshTTL, j.refreshSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (j *JWTUtil) sign(userID, email, role string, ttl time.Duration, secret []byte) (string, error) {
	now := j.now()
	claims := UserClaims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ValidateAccessToken validates and parses an access token
func (j *JWTUtil) ValidateAccessToken(tokenString string) (*UserClaims, error) {
	return j.validate(tokenString, j.accessSecret)
}

// ValidateRefreshToken validates and parses a refresh token
func (j *JWTUtil) ValidateRefreshToken(tokenString string) (*UserClaims, error) {
	return j.validate(tokenString, j.refreshSecret)
}

func (j *JWTUtil) validate(tokenString string, secret []byte) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(j.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*UserClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
