package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/osse101/MediDispenser_Go/internal/domain"
	"github.com/osse101/MediDispenser_Go/mocks"
)

func TestHandleSkipDose(t *testing.T) {
	InitValidator()

	t.Run("defaults to today", func(t *testing.T) {
		svc := new(mocks.MockDispenser)
		svc.On("MarkSkipped", mock.Anything, testUser, 2, "12:00", "2026-03-14").Return(true, nil)

		w := serve(t, http.MethodPost, "/slot/{n}/skip", "/slot/2/skip", HandleSkipDose(svc, fixedClock),
			map[string]string{"time": "12:00"}, nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"skipped":true,"message":"Dose marked skipped"}`, w.Body.String())
	})

	t.Run("already handled", func(t *testing.T) {
		svc := new(mocks.MockDispenser)
		svc.On("MarkSkipped", mock.Anything, testUser, 2, "12:00", "2026-03-13").Return(false, nil)

		w := serve(t, http.MethodPost, "/slot/{n}/skip", "/slot/2/skip", HandleSkipDose(svc, fixedClock),
			map[string]string{"time": "12:00", "date": "2026-03-13"}, nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"skipped":false`)
	})

	t.Run("bad date", func(t *testing.T) {
		svc := new(mocks.MockDispenser)

		w := serve(t, http.MethodPost, "/slot/{n}/skip", "/slot/2/skip", HandleSkipDose(svc, fixedClock),
			map[string]string{"time": "12:00", "date": "13/03/2026"}, nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown schedule time", func(t *testing.T) {
		svc := new(mocks.MockDispenser)
		svc.On("MarkSkipped", mock.Anything, testUser, 2, "13:00", "2026-03-14").Return(false, domain.ErrInvalidSchedule)

		w := serve(t, http.MethodPost, "/slot/{n}/skip", "/slot/2/skip", HandleSkipDose(svc, fixedClock),
			map[string]string{"time": "13:00"}, nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
