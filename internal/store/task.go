package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/myday-api/internal/domain"
)

// TaskStore defines persistence for tasks. Every method is scoped to a single
// owner: no implementation may read or write a row whose user id differs from
// the one supplied.
type TaskStore interface {
	// Create inserts task and sets task.ID to the storage-assigned id.
	Create(ctx context.Context, task *domain.Task) error

	// Update applies the present fields of patch to the task matching both id
	// and userID. Returns ErrTaskNotFound when no row matched.
	Update(ctx context.Context, userID uuid.UUID, id int64, patch domain.TaskPatch) error

	// SetComplete writes an explicit completion value.
	// Returns ErrTaskNotFound when no row matched.
	SetComplete(ctx context.Context, userID uuid.UUID, id int64, complete bool) error

	// ToggleComplete flips completion in a single statement and returns the
	// new value. Returns ErrTaskNotFound when no row matched.
	ToggleComplete(ctx context.Context, userID uuid.UUID, id int64) (bool, error)

	// List returns the tasks matching q ordered by id.
	List(ctx context.Context, q domain.TaskQuery) ([]*domain.Task, error)

	// Counts computes the sidebar badges for userID relative to today.
	Counts(ctx context.Context, userID uuid.UUID, today domain.Day) (domain.TaskCounts, error)
}
