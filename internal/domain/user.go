package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is the owning account for vocabulary entries. Profile management lives
// outside this subsystem; only the identity is needed here.
type User struct {
	ID        uuid.UUID
	Email     string
	Name      string
	CreatedAt time.Time
}

// Session is one authenticated login. A bearer token resolves to its owning
// user only while an unexpired session row exists.
type Session struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsExpired reports whether the session has passed its expiry at the given time.
func (s *Session) IsExpired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
