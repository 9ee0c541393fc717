package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MaxTitleLength bounds a task title, counted in runes.
const MaxTitleLength = 500

// Task-specific validation errors
var (
	// ErrTaskUserIDEmpty is returned when a task has no owner.
	ErrTaskUserIDEmpty = NewValidationError("userId", "cannot be empty", ErrInvalidID)

	// ErrTaskTitleEmpty is returned when a task title is blank.
	ErrTaskTitleEmpty = NewValidationError("title", "cannot be empty", nil)

	// ErrTaskTitleTooLong is returned when a task title exceeds MaxTitleLength.
	ErrTaskTitleTooLong = NewValidationError("title", "is too long", nil)
)

// Task is a single to-do item owned by exactly one user.
//
// ID is assigned by storage on insert and never changes. UserID is set once at
// creation and is never reassigned by any operation.
type Task struct {
	ID             int64     `json:"id"`
	UserID         uuid.UUID `json:"userId"`
	Title          string    `json:"title"`
	Note           *string   `json:"note"`
	IsImportant    bool      `json:"isImportant"`
	IsComplete     bool      `json:"isComplete"`
	AddedToMyDayAt *Day      `json:"addedToMyDayAt"`
	CreatedAt      time.Time `json:"-"`
	UpdatedAt      time.Time `json:"-"`
}

// NewTask builds an unsaved task owned by userID. The ID stays zero until the
// store assigns one. Completion starts false and the note starts unset.
func NewTask(userID uuid.UUID, title string, isImportant bool, myDay *Day) (*Task, error) {
	now := time.Now().UTC()
	task := &Task{
		UserID:         userID,
		Title:          strings.TrimSpace(title),
		IsImportant:    isImportant,
		AddedToMyDayAt: myDay,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}
	return task, nil
}

// Validate checks the fields a task must always satisfy.
func (t *Task) Validate() error {
	if t.UserID == uuid.Nil {
		return ErrTaskUserIDEmpty
	}
	if err := validateTitle(t.Title); err != nil {
		return err
	}
	if t.AddedToMyDayAt != nil && !t.AddedToMyDayAt.Valid() {
		return NewValidationError("addedToMyDayAt", "is not a calendar day", ErrInvalidFormat)
	}
	return nil
}

// ScheduledFor reports whether the task sits in My Day on day.
func (t *Task) ScheduledFor(day Day) bool {
	return t.AddedToMyDayAt != nil && *t.AddedToMyDayAt == day
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return ErrTaskTitleEmpty
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return ErrTaskTitleTooLong
	}
	return nil
}

// Nullable carries a tri-state field change: untouched (Set false), cleared
// (Set true, Value nil) or replaced with *Value.
type Nullable[T any] struct {
	Set   bool
	Value *T
}

// SetTo returns a Nullable replacing the field with v.
func SetTo[T any](v T) Nullable[T] {
	return Nullable[T]{Set: true, Value: &v}
}

// Clear returns a Nullable that clears the field.
func Clear[T any]() Nullable[T] {
	return Nullable[T]{Set: true}
}

// TaskPatch is a partial update. Nil pointers and unset Nullables leave the
// stored value alone.
type TaskPatch struct {
	Title          *string
	Note           Nullable[string]
	IsImportant    *bool
	AddedToMyDayAt Nullable[Day]
}

// IsEmpty reports whether the patch would change nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && !p.Note.Set && p.IsImportant == nil && !p.AddedToMyDayAt.Set
}

// Normalize trims the title in place. It is applied before Validate.
func (p *TaskPatch) Normalize() {
	if p.Title != nil {
		trimmed := strings.TrimSpace(*p.Title)
		p.Title = &trimmed
	}
}

// Validate checks the fields present in the patch.
func (p TaskPatch) Validate() error {
	if p.Title != nil {
		if err := validateTitle(*p.Title); err != nil {
			return err
		}
	}
	if p.AddedToMyDayAt.Value != nil && !p.AddedToMyDayAt.Value.Valid() {
		return NewValidationError("addedToMyDayAt", "is not a calendar day", ErrInvalidFormat)
	}
	return nil
}

// Apply copies the present fields onto t. Ownership and identity are never
// touched.
func (p TaskPatch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Note.Set {
		t.Note = copyPtr(p.Note.Value)
	}
	if p.IsImportant != nil {
		t.IsImportant = *p.IsImportant
	}
	if p.AddedToMyDayAt.Set {
		t.AddedToMyDayAt = copyPtr(p.AddedToMyDayAt.Value)
	}
}

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
