package api

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/phrazzld/myday-api/internal/domain"
	"github.com/phrazzld/myday-api/internal/service"
)

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// AuthResponse is returned by register, login and refresh.
type AuthResponse struct {
	UserID       uuid.UUID `json:"userId"`
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	// ExpiresAt is the RFC 3339 expiry of AccessToken
	ExpiresAt string `json:"expiresAt"`
}

// Nullable decodes a JSON field that may be absent, null or a value. Absent
// leaves Set false; null sets Set with a nil Value.
type Nullable[T any] domain.Nullable[T]

// UnmarshalJSON implements json.Unmarshaler. It is only invoked for keys that
// are present in the document.
func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

// CreateTaskRequest defines the payload for POST /api/tasks.
type CreateTaskRequest struct {
	Title          string  `json:"title"          validate:"required,max=500"`
	IsImportant    bool    `json:"isImportant"`
	AddedToMyDayAt *string `json:"addedToMyDayAt"`
}

func (r CreateTaskRequest) toInput() service.CreateTaskInput {
	return service.CreateTaskInput{
		Title:          r.Title,
		IsImportant:    r.IsImportant,
		AddedToMyDayAt: r.AddedToMyDayAt,
	}
}

// UpdateTaskRequest defines the payload for PATCH /api/tasks/{id}. Keys left
// out of the body are not changed; note and addedToMyDayAt accept null to
// clear them.
type UpdateTaskRequest struct {
	Title          *string          `json:"title"          validate:"omitempty,max=500"`
	Note           Nullable[string] `json:"note"`
	IsImportant    *bool            `json:"isImportant"`
	AddedToMyDayAt Nullable[string] `json:"addedToMyDayAt"`
}

func (r UpdateTaskRequest) toInput() service.UpdateTaskInput {
	return service.UpdateTaskInput{
		Title:          r.Title,
		Note:           domain.Nullable[string](r.Note),
		IsImportant:    r.IsImportant,
		AddedToMyDayAt: domain.Nullable[string](r.AddedToMyDayAt),
	}
}

// CompleteTaskRequest defines the payload for PUT /api/tasks/{id}/complete.
type CompleteTaskRequest struct {
	IsComplete *bool `json:"isComplete" validate:"required"`
}

// TaskListResponse wraps a list of tasks.
type TaskListResponse struct {
	Tasks []*domain.Task `json:"tasks"`
}

// TasksViewResponse is the page-load payload for a signed-in caller.
type TasksViewResponse struct {
	SignedIn   bool              `json:"signedIn"`
	Counts     domain.TaskCounts `json:"counts"`
	Incomplete []*domain.Task    `json:"incomplete"`
	Completed  []*domain.Task    `json:"completed"`
}

// SignedOutViewResponse is the page-load payload for an anonymous caller.
type SignedOutViewResponse struct {
	SignedIn bool   `json:"signedIn"`
	Message  string `json:"message"`
}

// SignedOutMessage is shown in place of the task lists to anonymous callers.
const SignedOutMessage = "Please log in to view your tasks."
