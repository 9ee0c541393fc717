package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/myday-api/internal/api/middleware"
	"github.com/phrazzld/myday-api/internal/mocks"
	"github.com/phrazzld/myday-api/internal/platform/logger"
	"github.com/phrazzld/myday-api/internal/service"
	"github.com/phrazzld/myday-api/internal/service/auth"
	"github.com/stretchr/testify/require"
)

// taskServer wires a TaskHandler over an in-memory store behind the same
// routes and middleware as the server. The bearer token "owner" signs in as
// owner and "other" as a second user; anything else is rejected.
type taskServer struct {
	router  http.Handler
	tasks   *mocks.MemoryTaskStore
	emitter *mocks.RecordingEmitter
	owner   uuid.UUID
	other   uuid.UUID
}

func newTaskServer(t *testing.T) *taskServer {
	t.Helper()

	log, _ := logger.NewTestLogger()
	owner, other := uuid.New(), uuid.New()

	jwtService := &mocks.MockJWTService{
		ValidateTokenFn: func(_ context.Context, token string) (*auth.Claims, error) {
			switch token {
			case "owner":
				return &auth.Claims{UserID: owner, TokenType: auth.TokenTypeAccess}, nil
			case "other":
				return &auth.Claims{UserID: other, TokenType: auth.TokenTypeAccess}, nil
			default:
				return nil, auth.ErrInvalidToken
			}
		},
	}

	tasks := mocks.NewMemoryTaskStore()
	emitter := &mocks.RecordingEmitter{}
	svc, err := service.NewTaskService(tasks, nil, emitter, time.UTC, log,
		service.WithClock(func() time.Time { return time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC) }))
	require.NoError(t, err)

	h := NewTaskHandler(svc, log)
	r := chi.NewRouter()
	r.Use(middleware.NewTraceMiddleware(log))
	r.Use(middleware.NewAuthMiddleware(jwtService).Identify)
	r.Route("/api/tasks", h.Routes)

	return &taskServer{router: r, tasks: tasks, emitter: emitter, owner: owner, other: other}
}

func (s *taskServer) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}
