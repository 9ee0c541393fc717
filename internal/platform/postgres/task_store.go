package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/myday-api/internal/domain"
	"github.com/phrazzld/myday-api/internal/platform/logger"
	"github.com/phrazzld/myday-api/internal/redact"
	"github.com/phrazzld/myday-api/internal/store"
)

const taskColumns = `id, user_id, title, note, is_important, is_complete, added_to_my_day_at, created_at, updated_at`

// taskColumnByField maps predicate fields onto table columns.
var taskColumnByField = map[domain.TaskField]string{
	domain.FieldUserID:         "user_id",
	domain.FieldIsComplete:     "is_complete",
	domain.FieldIsImportant:    "is_important",
	domain.FieldAddedToMyDayAt: "added_to_my_day_at",
}

// predicate accumulates positional arguments while conditions are rendered
// into SQL, so several clauses can share one argument list.
type predicate struct {
	args []any
}

func (p *predicate) bind(v any) string {
	if d, ok := v.(domain.Day); ok {
		v = string(d)
	}
	p.args = append(p.args, v)
	return fmt.Sprintf("$%d", len(p.args))
}

// where renders conds as an AND of column equalities.
func (p *predicate) where(conds []domain.Condition) (string, error) {
	if len(conds) == 0 {
		return "TRUE", nil
	}

	parts := make([]string, 0, len(conds))
	for _, c := range conds {
		col, ok := taskColumnByField[c.Field]
		if !ok {
			return "", fmt.Errorf("unsupported task field %q", c.Field)
		}
		parts = append(parts, col+" = "+p.bind(c.Value))
	}
	return strings.Join(parts, " AND "), nil
}

// PostgresTaskStore implements store.TaskStore on PostgreSQL.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a task store. A nil logger falls back to
// slog.Default().
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

var _ store.TaskStore = (*PostgresTaskStore)(nil)

func nullableArg(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func dayArg(d *domain.Day) any {
	if d == nil {
		return nil
	}
	return string(*d)
}

// Create implements store.TaskStore.Create.
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.String("user_id", task.UserID.String()))
		return err
	}

	query := `
		INSERT INTO tasks (user_id, title, note, is_important, is_complete, added_to_my_day_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	err := s.db.QueryRowContext(ctx, query,
		task.UserID,
		task.Title,
		task.Note,
		task.IsImportant,
		task.IsComplete,
		dayArg(task.AddedToMyDayAt),
		task.CreatedAt,
		task.UpdatedAt,
	).Scan(&task.ID)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("task owner does not exist",
				slog.String("user_id", task.UserID.String()))
			return fmt.Errorf("%w: user with ID %s not found", store.ErrInvalidEntity, task.UserID)
		}
		log.Error("failed to create task",
			slog.String("error", redact.Error(err)),
			slog.String("user_id", task.UserID.String()))
		return MapError(err)
	}

	log.Debug("task created",
		slog.Int64("task_id", task.ID),
		slog.String("user_id", task.UserID.String()))
	return nil
}

// Update implements store.TaskStore.Update. An empty patch issues no
// statement.
func (s *PostgresTaskStore) Update(
	ctx context.Context,
	userID uuid.UUID,
	id int64,
	patch domain.TaskPatch,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if patch.IsEmpty() {
		log.Debug("empty task patch, nothing to update", slog.Int64("task_id", id))
		return nil
	}
	if err := patch.Validate(); err != nil {
		return err
	}

	var p predicate
	sets := make([]string, 0, 5)
	if patch.Title != nil {
		sets = append(sets, "title = "+p.bind(*patch.Title))
	}
	if patch.Note.Set {
		sets = append(sets, "note = "+p.bind(nullableArg(patch.Note.Value)))
	}
	if patch.IsImportant != nil {
		sets = append(sets, "is_important = "+p.bind(*patch.IsImportant))
	}
	if patch.AddedToMyDayAt.Set {
		sets = append(sets, "added_to_my_day_at = "+p.bind(dayArg(patch.AddedToMyDayAt.Value)))
	}
	sets = append(sets, "updated_at = "+p.bind(time.Now().UTC()))

	query := fmt.Sprintf("UPDATE tasks SET %s WHERE id = %s AND user_id = %s",
		strings.Join(sets, ", "), p.bind(id), p.bind(userID))

	result, err := s.db.ExecContext(ctx, query, p.args...)
	if err != nil {
		log.Error("failed to update task",
			slog.String("error", redact.Error(err)),
			slog.Int64("task_id", id))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrTaskNotFound)
}

// SetComplete implements store.TaskStore.SetComplete.
func (s *PostgresTaskStore) SetComplete(ctx context.Context, userID uuid.UUID, id int64, complete bool) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE tasks
		SET is_complete = $1, updated_at = $2
		WHERE id = $3 AND user_id = $4
	`
	result, err := s.db.ExecContext(ctx, query, complete, time.Now().UTC(), id, userID)
	if err != nil {
		log.Error("failed to set task completion",
			slog.String("error", redact.Error(err)),
			slog.Int64("task_id", id))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrTaskNotFound)
}

// ToggleComplete implements store.TaskStore.ToggleComplete.
func (s *PostgresTaskStore) ToggleComplete(ctx context.Context, userID uuid.UUID, id int64) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE tasks
		SET is_complete = NOT is_complete, updated_at = $1
		WHERE id = $2 AND user_id = $3
		RETURNING is_complete
	`
	var complete bool
	err := s.db.QueryRowContext(ctx, query, time.Now().UTC(), id, userID).Scan(&complete)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, store.ErrTaskNotFound
		}
		log.Error("failed to toggle task completion",
			slog.String("error", redact.Error(err)),
			slog.Int64("task_id", id))
		return false, MapError(err)
	}
	return complete, nil
}

// List implements store.TaskStore.List.
func (s *PostgresTaskStore) List(ctx context.Context, q domain.TaskQuery) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := q.Validate(); err != nil {
		return nil, err
	}

	var p predicate
	where, err := p.where(q.Conditions())
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf("SELECT %s FROM tasks WHERE %s ORDER BY id", taskColumns, where)

	rows, err := s.db.QueryContext(ctx, query, p.args...)
	if err != nil {
		log.Error("failed to query tasks",
			slog.String("error", redact.Error(err)),
			slog.String("status", string(q.Status)))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	tasks := make([]*domain.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	log.Debug("tasks listed",
		slog.String("user_id", q.UserID.String()),
		slog.String("status", string(q.Status)),
		slog.Int("count", len(tasks)))
	return tasks, nil
}

// Counts implements store.TaskStore.Counts with one aggregate statement.
func (s *PostgresTaskStore) Counts(ctx context.Context, userID uuid.UUID, today domain.Day) (domain.TaskCounts, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var p predicate
	owner := p.bind(userID)

	filters := make([]string, 0, len(domain.CountStatuses))
	for _, status := range domain.CountStatuses {
		where, err := p.where(domain.StatusConditions(status, today))
		if err != nil {
			return domain.TaskCounts{}, err
		}
		filters = append(filters, fmt.Sprintf("COUNT(*) FILTER (WHERE %s)", where))
	}
	query := fmt.Sprintf("SELECT %s FROM tasks WHERE user_id = %s", strings.Join(filters, ", "), owner)

	var counts domain.TaskCounts
	err := s.db.QueryRowContext(ctx, query, p.args...).Scan(&counts.MyDay, &counts.Important, &counts.Tasks)
	if err != nil {
		log.Error("failed to count tasks",
			slog.String("error", redact.Error(err)),
			slog.String("user_id", userID.String()))
		return domain.TaskCounts{}, store.NewStoreError("task", "count", "aggregate query failed", MapError(err))
	}
	return counts, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(r rowScanner) (*domain.Task, error) {
	var (
		task  domain.Task
		note  sql.NullString
		myDay sql.NullString
	)
	if err := r.Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&note,
		&task.IsImportant,
		&task.IsComplete,
		&myDay,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if note.Valid {
		task.Note = &note.String
	}
	if myDay.Valid {
		day := domain.Day(myDay.String)
		task.AddedToMyDayAt = &day
	}
	return &task, nil
}
