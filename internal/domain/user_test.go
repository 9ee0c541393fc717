package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestNewUser(t *testing.T) {
	validPassword := "correct-horse-battery"

	user, err := NewUser("  Test@Example.com ", validPassword)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if user.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}

	if user.Email != "test@example.com" {
		t.Errorf("Expected normalized email, got %s", user.Email)
	}

	if user.Password != validPassword {
		t.Errorf("Expected plaintext password to be kept for hashing")
	}

	if user.CreatedAt.IsZero() || user.UpdatedAt.IsZero() {
		t.Error("Expected non-zero timestamps")
	}

	if _, err = NewUser("", validPassword); !errors.Is(err, ErrEmptyEmail) {
		t.Errorf("Expected error %v, got %v", ErrEmptyEmail, err)
	}

	if _, err = NewUser("invalidemail", validPassword); !errors.Is(err, ErrInvalidEmail) {
		t.Errorf("Expected error %v, got %v", ErrInvalidEmail, err)
	}

	if _, err = NewUser("test@example.com", ""); !errors.Is(err, ErrEmptyPassword) {
		t.Errorf("Expected error %v, got %v", ErrEmptyPassword, err)
	}
}

func TestUserValidate(t *testing.T) {
	tests := []struct {
		name    string
		user    User
		wantErr error
	}{
		{
			name:    "hashed password only",
			user:    User{ID: uuid.New(), Email: "a@example.com", HashedPassword: "$2a$10$hash"},
			wantErr: nil,
		},
		{
			name:    "missing id",
			user:    User{Email: "a@example.com", HashedPassword: "hash"},
			wantErr: ErrEmptyUserID,
		},
		{
			name:    "display name form rejected",
			user:    User{ID: uuid.New(), Email: "Bob <bob@example.com>", HashedPassword: "hash"},
			wantErr: ErrInvalidEmail,
		},
		{
			name:    "short password",
			user:    User{ID: uuid.New(), Email: "a@example.com", Password: "short"},
			wantErr: ErrPasswordTooShort,
		},
		{
			name:    "long password",
			user:    User{ID: uuid.New(), Email: "a@example.com", Password: strings.Repeat("x", 73)},
			wantErr: ErrPasswordTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.user.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected error %v, got %v", tt.wantErr, err)
			}
			if !errors.Is(err, ErrValidation) {
				t.Errorf("Expected %v to match ErrValidation", err)
			}
		})
	}
}
