package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func protected() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusTeapot)
			return
		}
		_, _ = w.Write([]byte(user))
	})
}

func TestRequireAuth(t *testing.T) {
	svc := NewTokenService(testSecret)
	token, err := svc.GenerateToken("alice@example.com", time.Hour)
	require.NoError(t, err)
	handler := RequireAuth(svc)(protected())

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"bearer token", "Bearer " + token, http.StatusOK, "alice@example.com"},
		{"bare token", token, http.StatusOK, "alice@example.com"},
		{"missing header", "", http.StatusUnauthorized, `{"error":"token is missing"}`},
		{"bearer only", "Bearer ", http.StatusUnauthorized, `{"error":"token is missing"}`},
		{"garbage", "Bearer not-a-jwt", http.StatusUnauthorized, `{"error":"token is invalid"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/inventory", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", bearerToken("Bearer abc"))
	assert.Equal(t, "abc", bearerToken("bearer   abc "))
	assert.Equal(t, "", bearerToken("Bearer"))
	assert.Equal(t, "abc", bearerToken("abc"))
	assert.Equal(t, "", bearerToken(""))
}
