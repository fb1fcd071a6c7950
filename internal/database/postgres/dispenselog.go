package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/MediDispenser_Go/internal/domain"
)

// DispenseLogRepository implements repository.DispenseLog for PostgreSQL
type DispenseLogRepository struct {
	db *pgxpool.Pool
}

// NewDispenseLogRepository creates a new DispenseLogRepository
func NewDispenseLogRepository(db *pgxpool.Pool) *DispenseLogRepository {
	return &DispenseLogRepository{db: db}
}

// ListLogs returns the newest entries first, ordered by insertion sequence
func (r *DispenseLogRepository) ListLogs(ctx context.Context, user string, limit int) ([]domain.LogEntry, error) {
	rows, err := r.db.Query(ctx, SQLSelectLogs, user, limit)
	if err != nil {
		return nil, storeError(ErrMsgListLogsFailed, err)
	}
	defer rows.Close()

	entries, err := scanLogEntries(rows)
	if err != nil {
		return nil, storeError(ErrMsgListLogsFailed, err)
	}
	return entries, nil
}

func scanLogEntries(rows pgx.Rows) ([]domain.LogEntry, error) {
	entries := []domain.LogEntry{}
	for rows.Next() {
		var e domain.LogEntry
		var status string
		if err := rows.Scan(&e.ID, &e.User, &e.SlotNumber, &e.MedicineName, &e.Dosage,
			&e.ScheduleTime, &e.EventDate, &status, &e.Timestamp); err != nil {
			return nil, err
		}
		e.Status = domain.LogStatus(status)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
