// Package auth resolves bearer tokens to user identities. A token is a
// signed HS256 JWT naming the user (subject) and the session (jti); it is
// only honored while the named session row exists and has not expired.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenManager handles session token generation and validation.
type TokenManager struct {
	secret []byte
	issuer string
}

// NewTokenManager creates a new token manager.
// secret must be at least 32 characters for HS256 security.
func NewTokenManager(secret, issuer string) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		issuer: issuer,
	}
}

// Generate creates a signed HS256 JWT with the user ID as subject and the
// session ID as jti. The token expiry mirrors the session expiry so a token
// never outlives its session.
func (m *TokenManager) Generate(userID, sessionID uuid.UUID, expiresAt time.Time) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		ID:        sessionID.String(),
		Issuer:    m.issuer,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Validate parses and validates a session token.
// Returns the user ID and session ID if valid.
func (m *TokenManager) Validate(tokenString string) (userID, sessionID uuid.UUID, err error) {
	if tokenString == "" {
		return uuid.Nil, uuid.Nil, fmt.Errorf("token is empty")
	}

	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return uuid.Nil, uuid.Nil, fmt.Errorf("invalid token claims")
	}

	if claims.Issuer != m.issuer {
		return uuid.Nil, uuid.Nil, fmt.Errorf("invalid issuer: expected %s, got %s", m.issuer, claims.Issuer)
	}

	userID, err = uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("invalid subject UUID: %w", err)
	}
	sessionID, err = uuid.Parse(claims.ID)
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("invalid session UUID: %w", err)
	}

	return userID, sessionID, nil
}
