package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/osse101/MediDispenser_Go/internal/domain"
	"github.com/osse101/MediDispenser_Go/internal/logger"
)

// AlarmLister answers the device alarm query
type AlarmLister interface {
	ListAlarms(ctx context.Context, user string) ([]string, error)
}

// Dispenser runs scheduled doses
type Dispenser interface {
	DispenseDue(ctx context.Context, user string, instant time.Time) ([]domain.DispensedItem, error)
	MarkSkipped(ctx context.Context, user string, slotNumber int, scheduleTime, date string) (bool, error)
}

// Clock supplies the current time in the dispenser's timezone
type Clock func() time.Time

// AlarmsResponse lists the distinct alarm times of a user
type AlarmsResponse struct {
	Alarms []string `json:"alarms"`
}

// HandleDeviceAlarms returns the sorted alarm times for ?email=
// @Summary Device alarms
// @Description Distinct schedule times across all slots, ascending. Unknown users get an empty list.
// @Tags device
// @Produce json
// @Param email query string true "User email"
// @Success 200 {object} AlarmsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /device/alarms [get]
func HandleDeviceAlarms(svc AlarmLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email, ok := GetQueryParam(r, w, "email")
		if !ok {
			return
		}

		alarms, err := svc.ListAlarms(r.Context(), email)
		if err != nil {
			respondServiceError(w, r, OpListAlarms, err)
			return
		}

		respondJSON(w, http.StatusOK, AlarmsResponse{Alarms: alarms})
	}
}

// HandleDeviceDispense dispenses every dose scheduled at ?time= today
// @Summary Device dispense
// @Description Runs the doses scheduled at time for today and returns only those actually dispensed. Repeating the call for the same minute dispenses nothing.
// @Tags device
// @Produce json
// @Param email query string true "User email"
// @Param time query string true "Schedule time HH:MM"
// @Success 200 {array} domain.DispensedItem
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /device/dispense [get]
func HandleDeviceDispense(svc Dispenser, now Clock) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email, ok := GetQueryParam(r, w, "email")
		if !ok {
			return
		}
		hhmm, ok := GetQueryParam(r, w, "time")
		if !ok {
			return
		}
		if !domain.IsCanonicalTime(hhmm) {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidTimeParam)
			return
		}

		today := now()
		instant, err := domain.EventInstant(domain.DateOf(today), hhmm, today.Location())
		if err != nil {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidTimeParam)
			return
		}

		items, err := svc.DispenseDue(r.Context(), email, instant)
		if err != nil {
			if len(items) > 0 {
				logger.FromContext(r.Context()).Error("Dispense interrupted after committing doses",
					"committed", len(items), "error", err)
			}
			respondServiceError(w, r, OpDeviceDispense, err)
			return
		}

		respondJSON(w, http.StatusOK, items)
	}
}
