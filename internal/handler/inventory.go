package handler

import (
	"net/http"

	"github.com/osse101/MediDispenser_Go/internal/domain"
	"github.com/osse101/MediDispenser_Go/internal/inventory"
	"github.com/osse101/MediDispenser_Go/internal/logger"
)

// SlotRequest is the whole-slot replacement body. slot_number is optional;
// when present it must equal the path.
type SlotRequest struct {
	SlotNumber   int               `json:"slot_number" validate:"omitempty,slotnumber"`
	MedicineName string            `json:"medicine_name" validate:"max=100"`
	TotalTablets int               `json:"total_tablets" validate:"min=0"`
	TabletsLeft  int               `json:"tablets_left" validate:"min=0,ltefield=TotalTablets"`
	Schedules    []domain.Schedule `json:"schedules" validate:"dive"`
}

func (req SlotRequest) toSlot(n int) domain.Slot {
	return domain.Slot{
		SlotNumber:   n,
		MedicineName: req.MedicineName,
		TotalTablets: req.TotalTablets,
		TabletsLeft:  req.TabletsLeft,
		Schedules:    req.Schedules,
	}.Normalized(n)
}

// respondInventory writes the 8-slot array with the version as ETag
func respondInventory(w http.ResponseWriter, inv *domain.Inventory) {
	w.Header().Set("ETag", etag(inv.Version))
	respondJSON(w, http.StatusOK, inv.Slots)
}

// HandleGetInventory returns the caller's slots, provisioning them on first use
// @Summary Get inventory
// @Description Returns all 8 slots ordered by slot number. The ETag carries the inventory version.
// @Tags inventory
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Slot
// @Failure 401 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /inventory [get]
func HandleGetInventory(svc inventory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := requireUser(r, w)
		if !ok {
			return
		}

		inv, err := svc.GetOrCreate(r.Context(), user)
		if err != nil {
			respondServiceError(w, r, OpGetInventory, err)
			return
		}

		respondInventory(w, inv)
	}
}

// HandleReplaceSlot overwrites one slot
// @Summary Replace slot
// @Description Replaces slot n with the request body. Send If-Match with a previous ETag to reject concurrent edits.
// @Tags inventory
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param n path int true "Slot number (1-8)"
// @Param If-Match header string false "Expected inventory version"
// @Param request body SlotRequest true "Slot contents"
// @Success 200 {array} domain.Slot
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /slot/{n} [post]
func HandleReplaceSlot(svc inventory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := requireUser(r, w)
		if !ok {
			return
		}
		n, ok := slotNumberParam(r, w)
		if !ok {
			return
		}
		expected, ok := ifMatchVersion(r, w)
		if !ok {
			return
		}

		var req SlotRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Replace slot"); err != nil {
			return
		}
		if req.SlotNumber != 0 && req.SlotNumber != n {
			respondError(w, http.StatusBadRequest, ErrMsgSlotNumberMismatch)
			return
		}

		inv, err := svc.ReplaceSlot(r.Context(), user, n, req.toSlot(n), expected)
		if err != nil {
			respondServiceError(w, r, OpReplaceSlot, err)
			return
		}

		logger.FromContext(r.Context()).Info("Slot replaced", "slot", n, "medicine", req.MedicineName)
		respondInventory(w, inv)
	}
}

// HandleClearSlot resets one slot to empty
// @Summary Clear slot
// @Description Resets slot n to its empty defaults.
// @Tags inventory
// @Produce json
// @Security BearerAuth
// @Param n path int true "Slot number (1-8)"
// @Param If-Match header string false "Expected inventory version"
// @Success 200 {array} domain.Slot
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /slot/{n}/clear [post]
func HandleClearSlot(svc inventory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := requireUser(r, w)
		if !ok {
			return
		}
		n, ok := slotNumberParam(r, w)
		if !ok {
			return
		}
		expected, ok := ifMatchVersion(r, w)
		if !ok {
			return
		}

		inv, err := svc.ClearSlot(r.Context(), user, n, expected)
		if err != nil {
			respondServiceError(w, r, OpClearSlot, err)
			return
		}

		logger.FromContext(r.Context()).Info("Slot cleared", "slot", n)
		respondInventory(w, inv)
	}
}
