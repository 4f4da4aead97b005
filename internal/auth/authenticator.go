package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/readmemo/vocab-backend/internal/domain"
)

type sessionRepo interface {
	Create(ctx context.Context, s *domain.Session) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Session, error)
}

// Authenticator resolves bearer tokens to user IDs. Signature and expiry come
// from the token itself; the session row check makes revocation effective
// immediately even for tokens that are otherwise still valid.
type Authenticator struct {
	tokens     *TokenManager
	sessions   sessionRepo
	sessionTTL time.Duration
}

// NewAuthenticator creates a new authenticator.
func NewAuthenticator(tokens *TokenManager, sessions sessionRepo, sessionTTL time.Duration) *Authenticator {
	return &Authenticator{tokens: tokens, sessions: sessions, sessionTTL: sessionTTL}
}

// IssueSession creates a session row for the user and signs a bearer token
// bound to it.
func (a *Authenticator) IssueSession(ctx context.Context, userID uuid.UUID) (string, *domain.Session, error) {
	now := time.Now().UTC()
	session := &domain.Session{
		ID:        uuid.New(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(a.sessionTTL),
	}
	if err := a.sessions.Create(ctx, session); err != nil {
		return "", nil, fmt.Errorf("create session: %w", err)
	}

	token, err := a.tokens.Generate(userID, session.ID, session.ExpiresAt)
	if err != nil {
		return "", nil, err
	}
	return token, session, nil
}

// Authenticate validates a bearer token and returns the owning user ID.
// Every failure mode maps to domain.ErrUnauthorized: a bad signature, an
// expired token, a revoked session, a session past its expiry, or a token
// whose user does not match the session's owner.
func (a *Authenticator) Authenticate(ctx context.Context, token string) (uuid.UUID, error) {
	userID, sessionID, err := a.tokens.Validate(token)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}

	session, err := a.sessions.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return uuid.Nil, fmt.Errorf("%w: session revoked", domain.ErrUnauthorized)
		}
		return uuid.Nil, fmt.Errorf("load session: %w", err)
	}

	if session.UserID != userID {
		return uuid.Nil, fmt.Errorf("%w: session owner mismatch", domain.ErrUnauthorized)
	}
	if session.IsExpired(time.Now().UTC()) {
		return uuid.Nil, fmt.Errorf("%w: session expired", domain.ErrUnauthorized)
	}

	return userID, nil
}
