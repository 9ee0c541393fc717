package api

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/phrazzld/myday-api/internal/api/shared"
	"github.com/phrazzld/myday-api/internal/domain"
	"github.com/phrazzld/myday-api/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMutationsRequireCaller(t *testing.T) {
	s := newTaskServer(t)
	id := s.tasks.Seed(domain.Task{UserID: s.owner, Title: "Read"})
	taskPath := fmt.Sprintf("/api/tasks/%d", id)

	requests := []struct {
		method, path, body string
	}{
		{http.MethodPost, "/api/tasks", `{"title":"Buy milk"}`},
		{http.MethodPatch, taskPath, `{"title":"x"}`},
		{http.MethodPut, taskPath + "/complete", `{"isComplete":true}`},
		{http.MethodPost, taskPath + "/toggle", ""},
		{http.MethodGet, "/api/tasks", ""},
		{http.MethodGet, "/api/tasks/counts", ""},
	}

	for _, token := range []string{"", "forged"} {
		for _, req := range requests {
			t.Run(req.method+" "+req.path+" token="+token, func(t *testing.T) {
				w := s.do(t, req.method, req.path, token, req.body)

				assert.Equal(t, http.StatusUnauthorized, w.Code)
				body := decodeBody[shared.ErrorResponse](t, w)
				assert.Equal(t, "unauthenticated", body.Error)
			})
		}
	}

	assert.Zero(t, s.tasks.Calls)
	assert.Empty(t, s.emitter.Events())
}

func TestCreateTaskEndpoint(t *testing.T) {
	s := newTaskServer(t)

	w := s.do(t, http.MethodPost, "/api/tasks", "owner", `{"title":"Buy milk","isImportant":false}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	raw := decodeBody[map[string]any](t, w)
	assert.ElementsMatch(t,
		[]string{"id", "userId", "title", "note", "isImportant", "isComplete", "addedToMyDayAt"},
		keys(raw))
	assert.Equal(t, "Buy milk", raw["title"])
	assert.Equal(t, s.owner.String(), raw["userId"])
	assert.Equal(t, false, raw["isComplete"])
	assert.Nil(t, raw["note"])
	assert.Nil(t, raw["addedToMyDayAt"])

	task := decodeBody[domain.Task](t, w)
	stored, ok := s.tasks.Get(task.ID)
	require.True(t, ok)
	assert.Equal(t, s.owner, stored.UserID)
}

func TestCreateTaskValidation(t *testing.T) {
	s := newTaskServer(t)

	tests := []struct {
		name string
		body string
	}{
		{name: "missing title", body: `{"isImportant":true}`},
		{name: "blank title", body: `{"title":"   "}`},
		{name: "long title", body: fmt.Sprintf(`{"title":%q}`, strings.Repeat("a", 501))},
		{name: "bad day", body: `{"title":"a","addedToMyDayAt":"tomorrow"}`},
		{name: "malformed json", body: `{"title":`},
		{name: "unknown field", body: `{"title":"a","userId":"someone"}`},
		{name: "empty body", body: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodPost, "/api/tasks", "owner", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
	assert.Zero(t, s.tasks.Statements)
}

func TestUpdateTaskEndpoint(t *testing.T) {
	s := newTaskServer(t)
	day := domain.Day("2024-05-01")
	note := "old note"
	id := s.tasks.Seed(domain.Task{UserID: s.owner, Title: "Read", Note: &note, AddedToMyDayAt: &day})
	path := fmt.Sprintf("/api/tasks/%d", id)

	t.Run("absent keys are untouched", func(t *testing.T) {
		w := s.do(t, http.MethodPatch, path, "owner", `{"isImportant":true}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"ok":true}`, w.Body.String())

		stored, _ := s.tasks.Get(id)
		assert.True(t, stored.IsImportant)
		assert.Equal(t, "Read", stored.Title)
		require.NotNil(t, stored.Note)
		require.NotNil(t, stored.AddedToMyDayAt)
	})

	t.Run("explicit null clears", func(t *testing.T) {
		w := s.do(t, http.MethodPatch, path, "owner", `{"note":null,"addedToMyDayAt":null}`)
		require.Equal(t, http.StatusOK, w.Code)

		stored, _ := s.tasks.Get(id)
		assert.Nil(t, stored.Note)
		assert.Nil(t, stored.AddedToMyDayAt)
	})

	t.Run("another user's task looks like success", func(t *testing.T) {
		before, _ := s.tasks.Get(id)
		w := s.do(t, http.MethodPatch, path, "other", `{"title":"hijacked"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"ok":true}`, w.Body.String())
		after, _ := s.tasks.Get(id)
		assert.Equal(t, before, after)
	})

	t.Run("bad path id", func(t *testing.T) {
		for _, bad := range []string{"abc", "0", "-4"} {
			w := s.do(t, http.MethodPatch, "/api/tasks/"+bad, "owner", `{"title":"x"}`)
			assert.Equal(t, http.StatusBadRequest, w.Code, bad)
		}
	})

	t.Run("blank title", func(t *testing.T) {
		w := s.do(t, http.MethodPatch, path, "owner", `{"title":" "}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCompleteAndToggleEndpoints(t *testing.T) {
	s := newTaskServer(t)
	id := s.tasks.Seed(domain.Task{UserID: s.owner, Title: "Read"})
	path := fmt.Sprintf("/api/tasks/%d", id)

	w := s.do(t, http.MethodPut, path+"/complete", "owner", `{"isComplete":true}`)
	require.Equal(t, http.StatusOK, w.Code)
	stored, _ := s.tasks.Get(id)
	assert.True(t, stored.IsComplete)

	w = s.do(t, http.MethodPut, path+"/complete", "owner", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, path+"/toggle", "owner", "")
	require.Equal(t, http.StatusOK, w.Code)
	stored, _ = s.tasks.Get(id)
	assert.False(t, stored.IsComplete)

	w = s.do(t, http.MethodPost, path+"/toggle", "other", "")
	require.Equal(t, http.StatusOK, w.Code)
	stored, _ = s.tasks.Get(id)
	assert.False(t, stored.IsComplete)

	assert.Equal(t,
		[]events.TaskEventType{events.TaskCompleted, events.TaskReopened, events.TaskReopened},
		s.emitter.Types())
}

func TestListTasksEndpoint(t *testing.T) {
	s := newTaskServer(t)
	today := domain.Day("2024-05-01")
	s.tasks.Seed(domain.Task{UserID: s.owner, Title: "open"})
	s.tasks.Seed(domain.Task{UserID: s.owner, Title: "done", IsComplete: true})
	s.tasks.Seed(domain.Task{UserID: s.owner, Title: "today", AddedToMyDayAt: &today})
	s.tasks.Seed(domain.Task{UserID: s.other, Title: "foreign"})

	titles := func(status string) []string {
		w := s.do(t, http.MethodGet, "/api/tasks?status="+status, "owner", "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var out []string
		for _, task := range decodeBody[TaskListResponse](t, w).Tasks {
			out = append(out, task.Title)
		}
		return out
	}

	assert.Equal(t, []string{"open", "today"}, titles(""))
	assert.Equal(t, []string{"open", "done", "today"}, titles("all"))
	assert.Equal(t, []string{"done"}, titles("completed"))
	assert.Equal(t, []string{"today"}, titles("my_day"))
	assert.Empty(t, titles("important"))

	w := s.do(t, http.MethodGet, "/api/tasks?status=starred", "owner", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCountsEndpoint(t *testing.T) {
	s := newTaskServer(t)
	s.tasks.Seed(domain.Task{UserID: s.owner, Title: "a", IsImportant: true})
	s.tasks.Seed(domain.Task{UserID: s.owner, Title: "b"})

	w := s.do(t, http.MethodGet, "/api/tasks/counts", "owner", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"myDay":0,"important":1,"tasks":2}`, w.Body.String())
}

func TestViewEndpoint(t *testing.T) {
	s := newTaskServer(t)
	s.tasks.Seed(domain.Task{UserID: s.owner, Title: "open"})
	s.tasks.Seed(domain.Task{UserID: s.owner, Title: "done", IsComplete: true})

	t.Run("signed out", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/tasks/view", "", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"signedIn":false,"message":"Please log in to view your tasks."}`, w.Body.String())
	})

	t.Run("signed in", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/tasks/view", "owner", "")
		require.Equal(t, http.StatusOK, w.Code)

		view := decodeBody[TasksViewResponse](t, w)
		assert.True(t, view.SignedIn)
		assert.Equal(t, domain.TaskCounts{Tasks: 1}, view.Counts)
		require.Len(t, view.Incomplete, 1)
		assert.Equal(t, "open", view.Incomplete[0].Title)
		require.Len(t, view.Completed, 1)
		assert.Equal(t, "done", view.Completed[0].Title)
	})
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
