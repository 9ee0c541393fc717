package service

import (
	"github.com/google/uuid"
	"github.com/phrazzld/myday-api/internal/domain"
)

// Caller is the identity resolved for one request. The zero value is an
// anonymous caller.
type Caller struct {
	userID uuid.UUID
}

// Anonymous returns a caller with no identity.
func Anonymous() Caller {
	return Caller{}
}

// Authenticated returns a caller acting as userID. uuid.Nil yields an
// anonymous caller.
func Authenticated(userID uuid.UUID) Caller {
	return Caller{userID: userID}
}

// IsAuthenticated reports whether the caller has an identity.
func (c Caller) IsAuthenticated() bool {
	return c.userID != uuid.Nil
}

// UserID returns the caller's id and whether one is present.
func (c Caller) UserID() (uuid.UUID, bool) {
	return c.userID, c.IsAuthenticated()
}

// RequireUser is the guard every task operation passes first. It returns
// domain.ErrUnauthenticated for an anonymous caller.
func RequireUser(c Caller) (uuid.UUID, error) {
	id, ok := c.UserID()
	if !ok {
		return uuid.Nil, domain.ErrUnauthenticated
	}
	return id, nil
}
