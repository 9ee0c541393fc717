package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/myday-api/internal/api/shared"
	"github.com/phrazzld/myday-api/internal/domain"
	"github.com/phrazzld/myday-api/internal/platform/logger"
	"github.com/phrazzld/myday-api/internal/service"
)

// getPathTaskID parses a positive int64 task id from the chi path parameter
// paramName.
func getPathTaskID(r *http.Request, paramName string) (int64, error) {
	raw := chi.URLParam(r, paramName)
	if raw == "" {
		return 0, domain.NewValidationError(paramName, "is required", domain.ErrValidation)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError(paramName, "has invalid format", domain.ErrInvalidID)
	}
	return id, nil
}

// requireCaller returns the authenticated caller, writing a 401 and
// returning false when the request is anonymous.
func requireCaller(w http.ResponseWriter, r *http.Request) (service.Caller, bool) {
	caller := shared.CallerFromContext(r.Context())
	if _, err := service.RequireUser(caller); err != nil {
		HandleAPIError(w, r, err, "")
		return caller, false
	}
	return caller, true
}

// handleCallerAndPathID combines requireCaller and getPathTaskID, writing the
// error response when either fails.
func handleCallerAndPathID(
	w http.ResponseWriter,
	r *http.Request,
	paramName string,
	log *slog.Logger,
) (service.Caller, int64, bool) {
	if log == nil {
		log = logger.FromContextOrDefault(r.Context(), slog.Default())
	}

	caller, ok := requireCaller(w, r)
	if !ok {
		return caller, 0, false
	}

	id, err := getPathTaskID(r, paramName)
	if err != nil {
		log.Debug("invalid path parameter",
			slog.String("param_name", paramName),
			slog.String("value", chi.URLParam(r, paramName)))
		HandleAPIError(w, r, err, "")
		return caller, 0, false
	}
	return caller, id, true
}

// decodeAndValidate decodes the JSON body into v and runs its validation,
// writing a 400 on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := shared.DecodeJSON(r, v); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return false
	}
	if err := shared.ValidateRequest(v); err != nil {
		HandleAPIError(w, r, err, "")
		return false
	}
	return true
}
