package postgres

import (
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/MediDispenser_Go/internal/domain"
)

func mustInstant(t *testing.T, date, hhmm string) time.Time {
	t.Helper()
	instant, err := domain.EventInstant(date, hhmm, time.UTC)
	require.NoError(t, err)
	return instant
}

func TestStoreError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"serialization failure", &pgconn.PgError{Code: PgErrorCodeSerializationFailure}, domain.ErrConflict},
		{"deadlock", &pgconn.PgError{Code: PgErrorCodeDeadlockDetected}, domain.ErrConflict},
		{"check violation", &pgconn.PgError{Code: PgErrorCodeCheckViolation}, domain.ErrInvalidStock},
		{"other pg error", &pgconn.PgError{Code: "08006"}, domain.ErrStoreUnavailable},
		{"network error", errors.New("connection refused"), domain.ErrStoreUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := storeError("op", tt.err)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, tt.err, "driver error stays in the chain")
			assert.Contains(t, err.Error(), "op")
		})
	}
}

func TestHashUserLock(t *testing.T) {
	a := hashUserLock(LockScopeInventory, "a@example.com")
	assert.Equal(t, a, hashUserLock(LockScopeInventory, "a@example.com"))
	assert.NotEqual(t, a, hashUserLock(LockScopeInventory, "b@example.com"))
	assert.NotEqual(t, a, hashUserLock("other", "a@example.com"))
	assert.GreaterOrEqual(t, a, int64(0))
}
