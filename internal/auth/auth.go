// Package auth implements the storefront's mock authentication: any
// email and password are accepted and a signed token is issued. No
// credential check happens anywhere.
package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrMissingCredentials = errors.New("email and password are required")

type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Login validates only that credentials are present, then issues a
// token for the email. This mirrors the demo's accept-anything login.
func Login(secret, email, password string, ttl time.Duration) (string, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return "", ErrMissingCredentials
	}
	return GenerateToken(secret, email, ttl)
}

func GenerateToken(secret, email string, ttl time.Duration) (string, error) {
	c := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return t.SignedString([]byte(secret))
}

func ParseToken(secret, tokenStr string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := t.Claims.(*Claims); ok && t.Valid {
		return claims, nil
	}
	return nil, jwt.ErrTokenInvalidClaims
}
