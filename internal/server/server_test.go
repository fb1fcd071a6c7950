package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/MediDispenser_Go/internal/auth"
	"github.com/osse101/MediDispenser_Go/internal/database/memory"
	"github.com/osse101/MediDispenser_Go/internal/dispense"
	"github.com/osse101/MediDispenser_Go/internal/dispenselog"
	"github.com/osse101/MediDispenser_Go/internal/domain"
	"github.com/osse101/MediDispenser_Go/internal/handler"
	"github.com/osse101/MediDispenser_Go/internal/inventory"
	"github.com/osse101/MediDispenser_Go/internal/schedule"
)

const (
	testSecret = "0123456789abcdef0123456789abcdef"
	testEmail  = "caregiver@example.com"
)

type testServer struct {
	router http.Handler
	store  *memory.Store
	token  string
}

func newTestServer(t *testing.T, rateLimit int) *testServer {
	t.Helper()
	handler.InitValidator()

	store := memory.NewStore()
	cache := schedule.NewAlarmCache(16, time.Minute)
	invSvc := inventory.NewService(store, cache)
	tokens := auth.NewTokenService(testSecret)

	token, err := tokens.GenerateToken(testEmail, time.Hour)
	require.NoError(t, err)

	now := time.Date(2026, 3, 14, 7, 30, 20, 0, time.UTC)
	router := NewRouter(Deps{
		DeviceRateLimit: rateLimit,
		Tokens:          tokens,
		Store:           store,
		Inventory:       invSvc,
		Alarms:          schedule.NewAlarmService(invSvc, cache),
		Dispenser:       dispense.NewExecutor(store, invSvc),
		Logs:            dispenselog.NewService(store),
		Clock:           func() time.Time { return now },
	})

	return &testServer{router: router, store: store, token: token}
}

func (s *testServer) do(t *testing.T, method, target, body string, authed bool) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestRouter_PublicEndpoints(t *testing.T) {
	s := newTestServer(t, 0)

	rec := s.do(t, http.MethodGet, "/healthz", "", false)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))

	rec = s.do(t, http.MethodGet, "/readyz", "", false)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/version", "", false)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/metrics", "", false)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_ReadyzReportsClosedStore(t *testing.T) {
	s := newTestServer(t, 0)
	s.store.Close()

	rec := s.do(t, http.MethodGet, "/readyz", "", false)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRouter_CaregiverRoutesRequireToken(t *testing.T) {
	s := newTestServer(t, 0)

	for _, route := range []struct{ method, target string }{
		{http.MethodGet, "/inventory"},
		{http.MethodPost, "/slot/1"},
		{http.MethodPost, "/slot/1/clear"},
		{http.MethodPost, "/slot/1/skip"},
		{http.MethodGet, "/logs"},
	} {
		rec := s.do(t, route.method, route.target, "", false)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, route.target)
	}
}

func TestRouter_DispenseFlow(t *testing.T) {
	s := newTestServer(t, 0)

	rec := s.do(t, http.MethodGet, "/inventory", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	slots := decode[[]domain.Slot](t, rec)
	require.Len(t, slots, domain.SlotCount)
	assert.Empty(t, slots[0].MedicineName)

	body := `{"medicine_name":"Aspirin","total_tablets":30,"tablets_left":30,"schedules":[{"time":"07:30","dosage":2},{"time":"21:00","dosage":1}]}`
	rec = s.do(t, http.MethodPost, "/slot/1", body, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	slots = decode[[]domain.Slot](t, rec)
	assert.Equal(t, "Aspirin", slots[0].MedicineName)
	assert.NotEmpty(t, rec.Header().Get("ETag"))

	rec = s.do(t, http.MethodGet, "/device/alarms?email="+testEmail, "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	alarms := decode[handler.AlarmsResponse](t, rec)
	assert.Equal(t, []string{"07:30", "21:00"}, alarms.Alarms)

	rec = s.do(t, http.MethodGet, "/device/dispense?email="+testEmail+"&time=07:30", "", false)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	items := decode[[]domain.DispensedItem](t, rec)
	assert.Equal(t, []domain.DispensedItem{{SlotNumber: 1, Dosage: 2, MedicineName: "Aspirin"}}, items)

	// Same minute again dispenses nothing
	rec = s.do(t, http.MethodGet, "/device/dispense?email="+testEmail+"&time=07:30", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]domain.DispensedItem](t, rec))

	rec = s.do(t, http.MethodGet, "/inventory", "", true)
	slots = decode[[]domain.Slot](t, rec)
	assert.Equal(t, 28, slots[0].TabletsLeft)

	rec = s.do(t, http.MethodPost, "/slot/1/skip", `{"time":"07:30"}`, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.False(t, decode[handler.SkipResponse](t, rec).Skipped)

	rec = s.do(t, http.MethodPost, "/slot/1/skip", `{"time":"21:00"}`, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, decode[handler.SkipResponse](t, rec).Skipped)

	rec = s.do(t, http.MethodGet, "/logs?limit=10", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	logs := decode[[]domain.LogEntry](t, rec)
	require.Len(t, logs, 2)
	assert.Equal(t, domain.LogStatusSkipped, logs[0].Status)
	assert.Equal(t, domain.LogStatusTaken, logs[1].Status)

	rec = s.do(t, http.MethodPost, "/slot/1/clear", "", true)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/device/alarms?email="+testEmail, "", false)
	assert.Empty(t, decode[handler.AlarmsResponse](t, rec).Alarms)
}

func TestRouter_ValidationErrors(t *testing.T) {
	s := newTestServer(t, 0)

	tests := []struct {
		name   string
		method string
		target string
		body   string
		authed bool
	}{
		{"slot out of range", http.MethodPost, "/slot/9", `{"medicine_name":"A","total_tablets":1,"tablets_left":1}`, true},
		{"stock above total", http.MethodPost, "/slot/2", `{"medicine_name":"A","total_tablets":1,"tablets_left":5}`, true},
		{"bad schedule time", http.MethodPost, "/slot/2", `{"medicine_name":"A","total_tablets":1,"tablets_left":1,"schedules":[{"time":"25:00","dosage":1}]}`, true},
		{"alarms without email", http.MethodGet, "/device/alarms", "", false},
		{"dispense without time", http.MethodGet, "/device/dispense?email=" + testEmail, "", false},
		{"dispense with malformed time", http.MethodGet, "/device/dispense?email=" + testEmail + "&time=7:30", "", false},
		{"non-numeric limit", http.MethodGet, "/logs?limit=ten", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, tt.method, tt.target, tt.body, tt.authed)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
}

func TestRouter_DeviceRateLimit(t *testing.T) {
	s := newTestServer(t, 2)

	for i := 0; i < 2; i++ {
		rec := s.do(t, http.MethodGet, "/device/alarms?email="+testEmail, "", false)
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec := s.do(t, http.MethodGet, "/device/alarms?email="+testEmail, "", false)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// Caregiver routes are not throttled by the device budget
	rec = s.do(t, http.MethodGet, "/inventory", "", true)
	assert.Equal(t, http.StatusOK, rec.Code)
}
