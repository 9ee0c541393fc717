package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TaskEventType names the kind of task mutation.
type TaskEventType string

// Task mutation kinds.
const (
	TaskCreated   TaskEventType = "task.created"
	TaskUpdated   TaskEventType = "task.updated"
	TaskCompleted TaskEventType = "task.completed"
	TaskReopened  TaskEventType = "task.reopened"
)

// TaskEvent reports that a user's tasks may have changed. It is emitted after
// every mutation, including ones that matched no row.
type TaskEvent struct {
	ID         uuid.UUID     `json:"id"`
	Type       TaskEventType `json:"type"`
	UserID     uuid.UUID     `json:"userId"`
	TaskID     int64         `json:"taskId"`
	OccurredAt time.Time     `json:"occurredAt"`
}

// NewTaskEvent creates an event stamped with a fresh id and the current time.
func NewTaskEvent(eventType TaskEventType, userID uuid.UUID, taskID int64) *TaskEvent {
	return &TaskEvent{
		ID:         uuid.New(),
		Type:       eventType,
		UserID:     userID,
		TaskID:     taskID,
		OccurredAt: time.Now().UTC(),
	}
}

// EventHandler reacts to task events.
type EventHandler interface {
	HandleEvent(ctx context.Context, event *TaskEvent) error
}

// EventHandlerFunc adapts a function to EventHandler.
type EventHandlerFunc func(ctx context.Context, event *TaskEvent) error

// HandleEvent calls f.
func (f EventHandlerFunc) HandleEvent(ctx context.Context, event *TaskEvent) error {
	return f(ctx, event)
}

// EventEmitter publishes task events to registered handlers.
type EventEmitter interface {
	EmitEvent(ctx context.Context, event *TaskEvent) error
}
