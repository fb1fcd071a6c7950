package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/osse101/MediDispenser_Go/internal/domain"
	"github.com/osse101/MediDispenser_Go/mocks"
)

func TestHandleGetLogs(t *testing.T) {
	entries := []domain.LogEntry{
		{ID: 2, User: testUser, SlotNumber: 1, MedicineName: "VitaminD", Dosage: 2, ScheduleTime: "07:30",
			EventDate: "2026-03-14", Status: domain.LogStatusTaken},
	}

	t.Run("default limit", func(t *testing.T) {
		svc := new(mocks.MockLogService)
		svc.On("Query", mock.Anything, testUser, 200).Return(entries, nil)

		w := serve(t, http.MethodGet, "/logs", "/logs", HandleGetLogs(svc), nil, nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"Taken"`)
		assert.Contains(t, w.Body.String(), `"user_email":"alice@example.com"`)
		svc.AssertExpectations(t)
	})

	t.Run("explicit limit passed through", func(t *testing.T) {
		svc := new(mocks.MockLogService)
		svc.On("Query", mock.Anything, testUser, 500).Return([]domain.LogEntry{}, nil)

		w := serve(t, http.MethodGet, "/logs", "/logs?limit=500", HandleGetLogs(svc), nil, nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
	})

	t.Run("invalid limit", func(t *testing.T) {
		svc := new(mocks.MockLogService)

		w := serve(t, http.MethodGet, "/logs", "/logs?limit=ten", HandleGetLogs(svc), nil, nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), ErrMsgInvalidLimit)
	})
}
