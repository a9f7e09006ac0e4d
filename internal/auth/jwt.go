// Package auth resolves session tokens issued by the hosted auth provider.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// ErrUnauthorized is returned when a token is missing, invalid or expired.
var ErrUnauthorized = errors.New("unauthorized")

// User is the authenticated identity behind a session.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Verifier resolves a session access token to a user.
type Verifier interface {
	Verify(ctx context.Context, token string) (*User, error)
}

// sessionClaims are the claims carried by provider access tokens
type sessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// JWTVerifier checks HS256 access tokens locally with the project's JWT secret
type JWTVerifier struct {
	secret []byte
}

var _ Verifier = (*JWTVerifier)(nil)

// NewJWTVerifier creates a new JWT verifier
func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

// Verify validates the signature and expiry and returns the subject as the user id.
func (v *JWTVerifier) Verify(ctx context.Context, tokenString string) (*User, error) {
	tokenString = strings.TrimPrefix(tokenString, "Bearer ")
	if tokenString == "" {
		return nil, ErrUnauthorized
	}

	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, fmt.Errorf("%w: token has no subject", ErrUnauthorized)
	}

	return &User{ID: claims.Subject, Email: claims.Email}, nil
}
