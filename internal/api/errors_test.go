package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/phrazzld/myday-api/internal/domain"
	"github.com/phrazzld/myday-api/internal/service"
	"github.com/phrazzld/myday-api/internal/service/auth"
	"github.com/phrazzld/myday-api/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.ErrUnauthenticated, http.StatusUnauthorized},
		{auth.ErrInvalidCredentials, http.StatusUnauthorized},
		{auth.ErrExpiredRefreshToken, http.StatusUnauthorized},
		{domain.ErrTaskTitleEmpty, http.StatusBadRequest},
		{fmt.Errorf("wrapped: %w", domain.ErrTaskTitleTooLong), http.StatusBadRequest},
		{store.ErrInvalidEntity, http.StatusBadRequest},
		{store.ErrEmailExists, http.StatusConflict},
		{store.ErrUserNotFound, http.StatusNotFound},
		{service.NewTaskServiceError("list_tasks", "failed", errors.New("db down")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, MapErrorToStatusCode(tt.err), tt.err.Error())
	}
}

func TestGetSafeErrorMessageHidesInternals(t *testing.T) {
	err := service.NewTaskServiceError("list_tasks", "failed", errors.New(`relation "tasks" does not exist`))
	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(err))

	assert.Equal(t, "unauthenticated", GetSafeErrorMessage(domain.ErrUnauthenticated))
	assert.Equal(t, "title cannot be empty", GetSafeErrorMessage(domain.ErrTaskTitleEmpty))
	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(nil))
}
