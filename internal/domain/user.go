package domain

import (
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Password length bounds. 72 bytes is bcrypt's input limit.
const (
	MinPasswordLength = 12
	MaxPasswordLength = 72
)

// Common user validation errors
var (
	ErrEmptyUserID      = NewValidationError("id", "cannot be empty", ErrInvalidID)
	ErrEmptyEmail       = NewValidationError("email", "cannot be empty", nil)
	ErrInvalidEmail     = NewValidationError("email", "is not a valid address", ErrInvalidFormat)
	ErrPasswordTooShort = NewValidationError("password", "must be at least 12 characters long", nil)
	ErrPasswordTooLong  = NewValidationError("password", "must be at most 72 characters long", nil)
	ErrEmptyPassword    = NewValidationError("password", "cannot be empty", nil)
)

// User is an account that owns tasks.
type User struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	Password       string    `json:"-"` // plaintext, only set during registration
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewUser creates an unsaved user. The email is lower-cased so lookups are
// case-insensitive. The store hashes Password before persisting.
func NewUser(email, password string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:        uuid.New(),
		Email:     NormalizeEmail(email),
		Password:  password,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}
	return user, nil
}

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Validate checks the user's fields. Either a plaintext or a hashed password
// must be present.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}
	if u.Email == "" {
		return ErrEmptyEmail
	}
	if addr, err := mail.ParseAddress(u.Email); err != nil || addr.Address != u.Email {
		return ErrInvalidEmail
	}

	if u.Password == "" && u.HashedPassword != "" {
		return nil
	}
	return ValidatePassword(u.Password)
}

// ValidatePassword checks a plaintext password against the length bounds.
func ValidatePassword(password string) error {
	switch {
	case password == "":
		return ErrEmptyPassword
	case len(password) < MinPasswordLength:
		return ErrPasswordTooShort
	case len(password) > MaxPasswordLength:
		return ErrPasswordTooLong
	}
	return nil
}
