package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/linenflow/linenflow/internal/authz"
)

// ErrInvalidToken indicates a token that failed signature or claim
// validation.
var ErrInvalidToken = errors.New("auth: invalid token")

// Claims carried by both access and refresh tokens. The user id rides
// in the registered subject claim.
type Claims struct {
	Email string     `json:"email"`
	Role  authz.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenConfig holds signing material and lifetimes for issued tokens.
// Access and refresh tokens are signed with distinct secrets so a
// leaked refresh secret cannot mint access tokens and vice versa.
type TokenConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

func signToken(secret string, user *User, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		Email: user.Email,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func parseToken(secret, raw string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("auth: unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// NewAccessToken issues a short-lived access token for user.
func (c TokenConfig) NewAccessToken(user *User) (string, error) {
	return signToken(c.AccessSecret, user, c.AccessTTL)
}

// NewRefreshToken issues a refresh token for user.
func (c TokenConfig) NewRefreshToken(user *User) (string, error) {
	return signToken(c.RefreshSecret, user, c.RefreshTTL)
}

// ParseAccessToken validates an access token and returns its claims.
func (c TokenConfig) ParseAccessToken(raw string) (*Claims, error) {
	return parseToken(c.AccessSecret, raw)
}

// ParseRefreshToken validates a refresh token and returns its claims.
func (c TokenConfig) ParseRefreshToken(raw string) (*Claims, error) {
	return parseToken(c.RefreshSecret, raw)
}
