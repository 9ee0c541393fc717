package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/myday-api/internal/domain"
	"github.com/phrazzld/myday-api/internal/events"
	"github.com/phrazzld/myday-api/internal/platform/logger"
	"github.com/phrazzld/myday-api/internal/redact"
	"github.com/phrazzld/myday-api/internal/store"
)

// CountsSource computes the sidebar badges for a user. Both store.TaskStore
// and the Redis-backed counts cache satisfy it.
type CountsSource interface {
	Counts(ctx context.Context, userID uuid.UUID, today domain.Day) (domain.TaskCounts, error)
}

// CreateTaskInput carries the fields a client may set on a new task.
// AddedToMyDayAt is a raw date or timestamp, normalized by the service.
type CreateTaskInput struct {
	Title          string
	IsImportant    bool
	AddedToMyDayAt *string
}

// UpdateTaskInput is a partial update as received from a client. Nil pointers
// and unset Nullables leave the stored value alone; a set Nullable with a nil
// Value clears the field.
type UpdateTaskInput struct {
	Title          *string
	Note           domain.Nullable[string]
	IsImportant    *bool
	AddedToMyDayAt domain.Nullable[string]
}

// TasksView is the page-load payload: the three badges and both task lists.
type TasksView struct {
	Counts     domain.TaskCounts `json:"counts"`
	Incomplete []*domain.Task    `json:"incomplete"`
	Completed  []*domain.Task    `json:"completed"`
}

// TaskService provides the task use cases. Every method verifies the caller
// first and returns domain.ErrUnauthenticated without touching storage when
// there is none.
type TaskService interface {
	// CreateTask inserts a task owned by the caller and returns it with its
	// storage-assigned id.
	CreateTask(ctx context.Context, caller Caller, in CreateTaskInput) (*domain.Task, error)

	// UpdateTask applies in to the caller's task id. A task that does not
	// exist or belongs to someone else is a silent no-op.
	UpdateTask(ctx context.Context, caller Caller, id int64, in UpdateTaskInput) error

	// CompleteTask writes the client-computed completion value.
	CompleteTask(ctx context.Context, caller Caller, id int64, isComplete bool) error

	// ToggleTask flips completion in one statement.
	ToggleTask(ctx context.Context, caller Caller, id int64) error

	// ListTasks returns the caller's tasks matching status, ordered by id.
	ListTasks(ctx context.Context, caller Caller, status domain.TaskStatus) ([]*domain.Task, error)

	// Counts returns the caller's sidebar badges for today.
	Counts(ctx context.Context, caller Caller) (domain.TaskCounts, error)

	// View returns the counts together with the incomplete and completed lists.
	View(ctx context.Context, caller Caller) (*TasksView, error)
}

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	tasks   store.TaskStore
	counts  CountsSource
	emitter events.EventEmitter
	loc     *time.Location
	now     func() time.Time
	logger  *slog.Logger
}

// TaskServiceOption customizes a TaskService.
type TaskServiceOption func(*taskServiceImpl)

// WithClock replaces the time source used to decide which day is today.
func WithClock(now func() time.Time) TaskServiceOption {
	return func(s *taskServiceImpl) {
		if now != nil {
			s.now = now
		}
	}
}

// NewTaskService creates a TaskService. counts may be nil, in which case the
// task store computes badges directly. loc is the schedule timezone; nil means
// UTC.
func NewTaskService(
	tasks store.TaskStore,
	counts CountsSource,
	emitter events.EventEmitter,
	loc *time.Location,
	logger *slog.Logger,
	opts ...TaskServiceOption,
) (TaskService, error) {
	if tasks == nil {
		return nil, domain.NewValidationError("tasks", "cannot be nil", domain.ErrValidation)
	}
	if emitter == nil {
		return nil, domain.NewValidationError("emitter", "cannot be nil", domain.ErrValidation)
	}
	if counts == nil {
		counts = tasks
	}
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}

	svc := &taskServiceImpl{
		tasks:   tasks,
		counts:  counts,
		emitter: emitter,
		loc:     loc,
		now:     time.Now,
		logger:  logger.With(slog.String("component", "task_service")),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

func (s *taskServiceImpl) today() domain.Day {
	return domain.DayOf(s.now(), s.loc)
}

// CreateTask implements TaskService.CreateTask
func (s *taskServiceImpl) CreateTask(ctx context.Context, caller Caller, in CreateTaskInput) (*domain.Task, error) {
	userID, err := RequireUser(caller)
	if err != nil {
		return nil, err
	}
	log := logger.FromContextOrDefault(ctx, s.logger)

	var myDay *domain.Day
	if in.AddedToMyDayAt != nil {
		day, err := domain.ParseDay(*in.AddedToMyDayAt, s.loc)
		if err != nil {
			return nil, err
		}
		myDay = &day
	}

	task, err := domain.NewTask(userID, in.Title, in.IsImportant, myDay)
	if err != nil {
		log.Debug("rejected new task", slog.String("error", err.Error()))
		return nil, err
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return nil, err
		}
		log.Error("failed to create task",
			slog.String("error", redact.Error(err)),
			slog.String("user_id", userID.String()))
		return nil, NewTaskServiceError("create_task", "failed to save task", err)
	}

	s.emit(ctx, events.TaskCreated, userID, task.ID)

	log.Info("task created",
		slog.Int64("task_id", task.ID),
		slog.String("user_id", userID.String()))
	return task, nil
}

// UpdateTask implements TaskService.UpdateTask
func (s *taskServiceImpl) UpdateTask(ctx context.Context, caller Caller, id int64, in UpdateTaskInput) error {
	userID, err := RequireUser(caller)
	if err != nil {
		return err
	}
	log := logger.FromContextOrDefault(ctx, s.logger)

	patch, err := s.toPatch(in)
	if err != nil {
		return err
	}
	patch.Normalize()
	if err := patch.Validate(); err != nil {
		return err
	}

	if err := s.tasks.Update(ctx, userID, id, patch); err != nil && !errors.Is(err, store.ErrTaskNotFound) {
		if errors.Is(err, domain.ErrValidation) {
			return err
		}
		log.Error("failed to update task",
			slog.String("error", redact.Error(err)),
			slog.Int64("task_id", id))
		return NewTaskServiceError("update_task", "failed to save task", err)
	}

	s.emit(ctx, events.TaskUpdated, userID, id)
	return nil
}

func (s *taskServiceImpl) toPatch(in UpdateTaskInput) (domain.TaskPatch, error) {
	patch := domain.TaskPatch{
		Title:       in.Title,
		Note:        in.Note,
		IsImportant: in.IsImportant,
	}

	if in.AddedToMyDayAt.Set {
		if in.AddedToMyDayAt.Value == nil {
			patch.AddedToMyDayAt = domain.Clear[domain.Day]()
		} else {
			day, err := domain.ParseDay(*in.AddedToMyDayAt.Value, s.loc)
			if err != nil {
				return domain.TaskPatch{}, err
			}
			patch.AddedToMyDayAt = domain.SetTo(day)
		}
	}
	return patch, nil
}

// CompleteTask implements TaskService.CompleteTask
//
// The value is computed by the client from its last snapshot, so two
// concurrent toggles from stale snapshots can both write the same value.
// ToggleTask is the race-free alternative.
func (s *taskServiceImpl) CompleteTask(ctx context.Context, caller Caller, id int64, isComplete bool) error {
	userID, err := RequireUser(caller)
	if err != nil {
		return err
	}

	if err := s.tasks.SetComplete(ctx, userID, id, isComplete); err != nil && !errors.Is(err, store.ErrTaskNotFound) {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to set task completion",
			slog.String("error", redact.Error(err)),
			slog.Int64("task_id", id))
		return NewTaskServiceError("complete_task", "failed to save completion", err)
	}

	s.emit(ctx, completionEvent(isComplete), userID, id)
	return nil
}

// completionEvent picks the event type for the completion value after the write.
func completionEvent(complete bool) events.TaskEventType {
	if complete {
		return events.TaskCompleted
	}
	return events.TaskReopened
}

// ToggleTask implements TaskService.ToggleTask
func (s *taskServiceImpl) ToggleTask(ctx context.Context, caller Caller, id int64) error {
	userID, err := RequireUser(caller)
	if err != nil {
		return err
	}

	complete, err := s.tasks.ToggleComplete(ctx, userID, id)
	if err != nil && !errors.Is(err, store.ErrTaskNotFound) {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to toggle task completion",
			slog.String("error", redact.Error(err)),
			slog.Int64("task_id", id))
		return NewTaskServiceError("toggle_task", "failed to save completion", err)
	}

	s.emit(ctx, completionEvent(complete), userID, id)
	return nil
}

// ListTasks implements TaskService.ListTasks
func (s *taskServiceImpl) ListTasks(
	ctx context.Context,
	caller Caller,
	status domain.TaskStatus,
) ([]*domain.Task, error) {
	userID, err := RequireUser(caller)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, domain.TaskQuery{UserID: userID, Status: status, Today: s.today()})
}

func (s *taskServiceImpl) list(ctx context.Context, q domain.TaskQuery) ([]*domain.Task, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	tasks, err := s.tasks.List(ctx, q)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list tasks",
			slog.String("error", redact.Error(err)),
			slog.String("status", string(q.Status)))
		return nil, NewTaskServiceError("list_tasks", "failed to load tasks", err)
	}
	return tasks, nil
}

// Counts implements TaskService.Counts
func (s *taskServiceImpl) Counts(ctx context.Context, caller Caller) (domain.TaskCounts, error) {
	userID, err := RequireUser(caller)
	if err != nil {
		return domain.TaskCounts{}, err
	}
	return s.countsFor(ctx, userID, s.today())
}

func (s *taskServiceImpl) countsFor(ctx context.Context, userID uuid.UUID, today domain.Day) (domain.TaskCounts, error) {
	counts, err := s.counts.Counts(ctx, userID, today)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to count tasks",
			slog.String("error", redact.Error(err)),
			slog.String("user_id", userID.String()))
		return domain.TaskCounts{}, NewTaskServiceError("count_tasks", "failed to count tasks", err)
	}
	return counts, nil
}

// View implements TaskService.View
func (s *taskServiceImpl) View(ctx context.Context, caller Caller) (*TasksView, error) {
	userID, err := RequireUser(caller)
	if err != nil {
		return nil, err
	}
	today := s.today()

	counts, err := s.countsFor(ctx, userID, today)
	if err != nil {
		return nil, err
	}
	incomplete, err := s.list(ctx, domain.TaskQuery{UserID: userID, Status: domain.StatusIncomplete, Today: today})
	if err != nil {
		return nil, err
	}
	completed, err := s.list(ctx, domain.TaskQuery{UserID: userID, Status: domain.StatusCompleted, Today: today})
	if err != nil {
		return nil, err
	}

	return &TasksView{Counts: counts, Incomplete: incomplete, Completed: completed}, nil
}

// emit publishes a task event. Handler failures are logged; the mutation has
// already been applied and is reported as successful.
func (s *taskServiceImpl) emit(ctx context.Context, eventType events.TaskEventType, userID uuid.UUID, taskID int64) {
	event := events.NewTaskEvent(eventType, userID, taskID)
	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Warn("task event handler failed",
			slog.String("error", redact.Error(err)),
			slog.String("event_type", string(eventType)),
			slog.Int64("task_id", taskID))
	}
}
