package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/myday-api/internal/domain"
	"github.com/phrazzld/myday-api/internal/store"
)

// MemoryTaskStore is an in-memory store.TaskStore that applies the same
// ownership rules as the PostgreSQL store: every read and write matches on
// both the task id and the owner.
type MemoryTaskStore struct {
	// Errors returned instead of the default behavior when set
	CreateErr error
	UpdateErr error
	ListErr   error
	CountsErr error

	// Calls counts every method invocation; Statements counts only those
	// that would have reached the database.
	Calls      int
	Statements int

	tasks  map[int64]*domain.Task
	nextID int64
	mu     sync.Mutex
}

var _ store.TaskStore = (*MemoryTaskStore)(nil)

// NewMemoryTaskStore creates an empty store.
func NewMemoryTaskStore() *MemoryTaskStore {
	return &MemoryTaskStore{tasks: make(map[int64]*domain.Task)}
}

// Seed inserts task as-is, assigning an id when it has none, and returns the
// id. It does not count as a call.
func (m *MemoryTaskStore) Seed(task domain.Task) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	if task.ID == 0 {
		m.nextID++
		task.ID = m.nextID
	} else if task.ID > m.nextID {
		m.nextID = task.ID
	}
	m.tasks[task.ID] = &task
	return task.ID
}

// Get returns a copy of the stored task regardless of owner, for assertions.
func (m *MemoryTaskStore) Get(id int64) (domain.Task, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	task, ok := m.tasks[id]
	if !ok {
		return domain.Task{}, false
	}
	return *task, true
}

// Create implements store.TaskStore.Create.
func (m *MemoryTaskStore) Create(_ context.Context, task *domain.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++

	if m.CreateErr != nil {
		return m.CreateErr
	}
	if err := task.Validate(); err != nil {
		return err
	}

	m.Statements++
	m.nextID++
	task.ID = m.nextID
	stored := *task
	m.tasks[task.ID] = &stored
	return nil
}

// Update implements store.TaskStore.Update.
func (m *MemoryTaskStore) Update(_ context.Context, userID uuid.UUID, id int64, patch domain.TaskPatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++

	if patch.IsEmpty() {
		return nil
	}
	if err := patch.Validate(); err != nil {
		return err
	}
	if m.UpdateErr != nil {
		return m.UpdateErr
	}

	m.Statements++
	task, ok := m.owned(userID, id)
	if !ok {
		return store.ErrTaskNotFound
	}
	patch.Apply(task)
	task.UpdatedAt = time.Now().UTC()
	return nil
}

// SetComplete implements store.TaskStore.SetComplete.
func (m *MemoryTaskStore) SetComplete(_ context.Context, userID uuid.UUID, id int64, complete bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++

	if m.UpdateErr != nil {
		return m.UpdateErr
	}

	m.Statements++
	task, ok := m.owned(userID, id)
	if !ok {
		return store.ErrTaskNotFound
	}
	task.IsComplete = complete
	return nil
}

// ToggleComplete implements store.TaskStore.ToggleComplete.
func (m *MemoryTaskStore) ToggleComplete(_ context.Context, userID uuid.UUID, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++

	if m.UpdateErr != nil {
		return false, m.UpdateErr
	}

	m.Statements++
	task, ok := m.owned(userID, id)
	if !ok {
		return false, store.ErrTaskNotFound
	}
	task.IsComplete = !task.IsComplete
	return task.IsComplete, nil
}

// List implements store.TaskStore.List.
func (m *MemoryTaskStore) List(_ context.Context, q domain.TaskQuery) ([]*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++

	if err := q.Validate(); err != nil {
		return nil, err
	}
	if m.ListErr != nil {
		return nil, m.ListErr
	}

	m.Statements++
	out := make([]*domain.Task, 0)
	for _, task := range m.tasks {
		if q.Matches(task) {
			found := *task
			out = append(out, &found)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Counts implements store.TaskStore.Counts.
func (m *MemoryTaskStore) Counts(_ context.Context, userID uuid.UUID, today domain.Day) (domain.TaskCounts, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++

	if m.CountsErr != nil {
		return domain.TaskCounts{}, m.CountsErr
	}

	m.Statements++
	count := func(status domain.TaskStatus) int {
		q := domain.TaskQuery{UserID: userID, Status: status, Today: today}
		n := 0
		for _, task := range m.tasks {
			if q.Matches(task) {
				n++
			}
		}
		return n
	}
	return domain.TaskCounts{
		MyDay:     count(domain.StatusMyDay),
		Important: count(domain.StatusImportant),
		Tasks:     count(domain.StatusIncomplete),
	}, nil
}

func (m *MemoryTaskStore) owned(userID uuid.UUID, id int64) (*domain.Task, bool) {
	task, ok := m.tasks[id]
	if !ok || task.UserID != userID {
		return nil, false
	}
	return task, true
}
