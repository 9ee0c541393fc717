package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/phrazzld/myday-api/internal/api/shared"
	"github.com/phrazzld/myday-api/internal/domain"
	"github.com/phrazzld/myday-api/internal/platform/logger"
	"github.com/phrazzld/myday-api/internal/service"
)

// TaskHandler handles task HTTP requests. Authentication is resolved by
// middleware; the handler only reads the caller from the context.
type TaskHandler struct {
	tasks  service.TaskService
	logger *slog.Logger
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(tasks service.TaskService, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for TaskHandler")
	}
	return &TaskHandler{
		tasks:  tasks,
		logger: logger.With(slog.String("component", "task_handler")),
	}
}

// CreateTask handles POST /api/tasks
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	task, err := h.tasks.CreateTask(r.Context(), caller, req.toInput())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create task")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, task)
}

// UpdateTask handles PATCH /api/tasks/{id}
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	caller, id, ok := handleCallerAndPathID(w, r, "id", log)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.tasks.UpdateTask(r.Context(), caller, id, req.toInput()); err != nil {
		HandleAPIError(w, r, err, "Failed to update task")
		return
	}
	shared.RespondOK(w, r)
}

// CompleteTask handles PUT /api/tasks/{id}/complete
func (h *TaskHandler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	caller, id, ok := handleCallerAndPathID(w, r, "id", log)
	if !ok {
		return
	}

	var req CompleteTaskRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.tasks.CompleteTask(r.Context(), caller, id, *req.IsComplete); err != nil {
		HandleAPIError(w, r, err, "Failed to update task")
		return
	}
	shared.RespondOK(w, r)
}

// ToggleTask handles POST /api/tasks/{id}/toggle
func (h *TaskHandler) ToggleTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	caller, id, ok := handleCallerAndPathID(w, r, "id", log)
	if !ok {
		return
	}

	if err := h.tasks.ToggleTask(r.Context(), caller, id); err != nil {
		HandleAPIError(w, r, err, "Failed to update task")
		return
	}
	shared.RespondOK(w, r)
}

// ListTasks handles GET /api/tasks?status=
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}

	status, err := domain.ParseTaskStatus(r.URL.Query().Get("status"))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	tasks, err := h.tasks.ListTasks(r.Context(), caller, status)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load tasks")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, TaskListResponse{Tasks: tasks})
}

// Counts handles GET /api/tasks/counts
func (h *TaskHandler) Counts(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}

	counts, err := h.tasks.Counts(r.Context(), caller)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to count tasks")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, counts)
}

// View handles GET /api/tasks/view. Anonymous callers get a signed-out
// payload with status 200 rather than an error.
func (h *TaskHandler) View(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	view, err := h.tasks.View(r.Context(), shared.CallerFromContext(r.Context()))
	if errors.Is(err, domain.ErrUnauthenticated) {
		log.Debug("rendering signed-out task view")
		shared.RespondWithJSON(w, r, http.StatusOK, SignedOutViewResponse{
			SignedIn: false,
			Message:  SignedOutMessage,
		})
		return
	}
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load tasks")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TasksViewResponse{
		SignedIn:   true,
		Counts:     view.Counts,
		Incomplete: view.Incomplete,
		Completed:  view.Completed,
	})
}
