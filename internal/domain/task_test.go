package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dayPtr(d Day) *Day { return &d }

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func TestNewTask(t *testing.T) {
	userID := uuid.New()

	t.Run("defaults", func(t *testing.T) {
		task, err := NewTask(userID, "  Buy milk ", false, nil)
		require.NoError(t, err)

		assert.Equal(t, int64(0), task.ID, "ID is assigned by storage")
		assert.Equal(t, userID, task.UserID)
		assert.Equal(t, "Buy milk", task.Title)
		assert.False(t, task.IsImportant)
		assert.False(t, task.IsComplete)
		assert.Nil(t, task.Note)
		assert.Nil(t, task.AddedToMyDayAt)
	})

	t.Run("scheduled and important", func(t *testing.T) {
		task, err := NewTask(userID, "Pay rent", true, dayPtr("2024-05-01"))
		require.NoError(t, err)
		assert.True(t, task.IsImportant)
		assert.True(t, task.ScheduledFor("2024-05-01"))
		assert.False(t, task.ScheduledFor("2024-05-02"))
	})

	t.Run("missing owner", func(t *testing.T) {
		_, err := NewTask(uuid.Nil, "Buy milk", false, nil)
		assert.ErrorIs(t, err, ErrTaskUserIDEmpty)
	})

	t.Run("blank title", func(t *testing.T) {
		_, err := NewTask(userID, "   ", false, nil)
		assert.ErrorIs(t, err, ErrTaskTitleEmpty)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("title too long", func(t *testing.T) {
		_, err := NewTask(userID, strings.Repeat("é", MaxTitleLength+1), false, nil)
		assert.ErrorIs(t, err, ErrTaskTitleTooLong)
	})

	t.Run("malformed day", func(t *testing.T) {
		_, err := NewTask(userID, "x", false, dayPtr("01/05/2024"))
		assert.ErrorIs(t, err, ErrInvalidFormat)
	})
}

func TestTaskPatch(t *testing.T) {
	original := Task{
		ID:             7,
		UserID:         uuid.New(),
		Title:          "Original",
		Note:           strPtr("keep me"),
		IsImportant:    false,
		IsComplete:     true,
		AddedToMyDayAt: dayPtr("2024-05-01"),
	}

	t.Run("empty patch", func(t *testing.T) {
		assert.True(t, TaskPatch{}.IsEmpty())
		assert.False(t, TaskPatch{AddedToMyDayAt: Clear[Day]()}.IsEmpty())
		assert.False(t, TaskPatch{Note: Clear[string]()}.IsEmpty())
	})

	t.Run("title only leaves other fields", func(t *testing.T) {
		task := original
		TaskPatch{Title: strPtr("x")}.Apply(&task)

		assert.Equal(t, "x", task.Title)
		assert.Equal(t, original.ID, task.ID)
		assert.Equal(t, original.UserID, task.UserID)
		assert.Equal(t, original.Note, task.Note)
		assert.Equal(t, original.IsImportant, task.IsImportant)
		assert.Equal(t, original.IsComplete, task.IsComplete)
		assert.Equal(t, original.AddedToMyDayAt, task.AddedToMyDayAt)
	})

	t.Run("clear schedule and note", func(t *testing.T) {
		task := original
		TaskPatch{AddedToMyDayAt: Clear[Day](), Note: Clear[string]()}.Apply(&task)
		assert.Nil(t, task.AddedToMyDayAt)
		assert.Nil(t, task.Note)
		assert.Equal(t, original.Title, task.Title)
	})

	t.Run("move schedule and star", func(t *testing.T) {
		task := original
		TaskPatch{
			IsImportant:    boolPtr(true),
			AddedToMyDayAt: SetTo[Day]("2024-06-01"),
		}.Apply(&task)
		assert.True(t, task.IsImportant)
		assert.True(t, task.ScheduledFor("2024-06-01"))
	})

	t.Run("normalize and validate", func(t *testing.T) {
		p := TaskPatch{Title: strPtr("  spaced  ")}
		p.Normalize()
		require.NoError(t, p.Validate())
		assert.Equal(t, "spaced", *p.Title)

		blank := TaskPatch{Title: strPtr("  ")}
		blank.Normalize()
		assert.True(t, errors.Is(blank.Validate(), ErrTaskTitleEmpty))

		badDay := TaskPatch{AddedToMyDayAt: SetTo[Day]("tomorrow")}
		assert.ErrorIs(t, badDay.Validate(), ErrInvalidFormat)
	})
}
