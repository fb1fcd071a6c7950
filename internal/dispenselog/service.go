// Package dispenselog serves the dispense history.
package dispenselog

import (
	"context"

	"github.com/osse101/MediDispenser_Go/internal/domain"
	"github.com/osse101/MediDispenser_Go/internal/repository"
)

// MaxLimit caps a single history query
const MaxLimit = 200

// Service defines dispense history queries
type Service interface {
	// Query returns at most limit entries, newest first. limit <= 0 means MaxLimit.
	Query(ctx context.Context, user string, limit int) ([]domain.LogEntry, error)
}

type service struct {
	repo repository.DispenseLog
}

// NewService creates a history service
func NewService(repo repository.DispenseLog) Service {
	return &service{repo: repo}
}

func (s *service) Query(ctx context.Context, user string, limit int) ([]domain.LogEntry, error) {
	user, err := domain.NormalizeUser(user)
	if err != nil {
		return nil, err
	}

	entries, err := s.repo.ListLogs(ctx, user, ClampLimit(limit))
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []domain.LogEntry{}
	}
	return entries, nil
}

// ClampLimit maps a requested page size into 1..MaxLimit
func ClampLimit(limit int) int {
	if limit <= 0 || limit > MaxLimit {
		return MaxLimit
	}
	return limit
}
