package handler

import (
	"net/http"
	"strconv"

	"github.com/osse101/MediDispenser_Go/internal/dispenselog"
)

// HandleGetLogs returns the caller's dispense history, newest first
// @Summary Dispense history
// @Tags logs
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum entries (1-200, default 200)"
// @Success 200 {array} domain.LogEntry
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /logs [get]
func HandleGetLogs(svc dispenselog.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := requireUser(r, w)
		if !ok {
			return
		}

		limit, err := strconv.Atoi(GetOptionalQueryParam(r, "limit", strconv.Itoa(dispenselog.MaxLimit)))
		if err != nil {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidLimit)
			return
		}

		entries, err := svc.Query(r.Context(), user, limit)
		if err != nil {
			respondServiceError(w, r, OpGetLogs, err)
			return
		}

		respondJSON(w, http.StatusOK, entries)
	}
}
