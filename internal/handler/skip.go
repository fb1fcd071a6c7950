package handler

import (
	"net/http"

	"github.com/osse101/MediDispenser_Go/internal/domain"
)

// SkipRequest names the scheduled dose the user chose not to take.
// Date defaults to today.
type SkipRequest struct {
	Time string `json:"time" validate:"required,hhmm"`
	Date string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

// SkipResponse reports whether a new Skipped entry was written
type SkipResponse struct {
	Skipped bool   `json:"skipped"`
	Message string `json:"message"`
}

// HandleSkipDose records a Skipped entry for one scheduled event
// @Summary Skip dose
// @Description Marks the dose of slot n at time as Skipped. A dose that was already dispensed, skipped or short on stock is left unchanged.
// @Tags inventory
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param n path int true "Slot number (1-8)"
// @Param request body SkipRequest true "Scheduled dose"
// @Success 200 {object} SkipResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /slot/{n}/skip [post]
func HandleSkipDose(svc Dispenser, now Clock) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := requireUser(r, w)
		if !ok {
			return
		}
		n, ok := slotNumberParam(r, w)
		if !ok {
			return
		}

		var req SkipRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Skip dose"); err != nil {
			return
		}
		date := req.Date
		if date == "" {
			date = domain.DateOf(now())
		}

		skipped, err := svc.MarkSkipped(r.Context(), user, n, req.Time, date)
		if err != nil {
			respondServiceError(w, r, OpSkipDose, err)
			return
		}

		msg := MsgDoseSkipped
		if !skipped {
			msg = MsgDoseAlreadyHandled
		}
		respondJSON(w, http.StatusOK, SkipResponse{Skipped: skipped, Message: msg})
	}
}
