package dispenselog

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/MediDispenser_Go/internal/domain"
	"github.com/osse101/MediDispenser_Go/mocks"
)

func TestClampLimit(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, MaxLimit},
		{-5, MaxLimit},
		{1, 1},
		{50, 50},
		{200, 200},
		{201, MaxLimit},
		{10000, MaxLimit},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.in), func(t *testing.T) {
			assert.Equal(t, tt.want, ClampLimit(tt.in))
		})
	}
}

func TestQuery(t *testing.T) {
	t.Run("normalises user and clamps limit", func(t *testing.T) {
		repo := new(mocks.MockDispenseLogRepository)
		svc := NewService(repo)
		entries := []domain.LogEntry{{ID: 2, Status: domain.LogStatusTaken}, {ID: 1, Status: domain.LogStatusSkipped}}
		repo.On("ListLogs", mock.Anything, "alice@example.com", MaxLimit).Return(entries, nil)

		got, err := svc.Query(context.Background(), " Alice@Example.COM", 5000)

		require.NoError(t, err)
		assert.Equal(t, entries, got)
		repo.AssertExpectations(t)
	})

	t.Run("empty history is an empty list", func(t *testing.T) {
		repo := new(mocks.MockDispenseLogRepository)
		svc := NewService(repo)
		repo.On("ListLogs", mock.Anything, "bob@example.com", 10).Return(nil, nil)

		got, err := svc.Query(context.Background(), "bob@example.com", 10)

		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("store failure propagates", func(t *testing.T) {
		repo := new(mocks.MockDispenseLogRepository)
		svc := NewService(repo)
		repo.On("ListLogs", mock.Anything, "bob@example.com", MaxLimit).Return(nil, domain.ErrStoreUnavailable)

		_, err := svc.Query(context.Background(), "bob@example.com", 0)

		assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	})
}
