package store

import (
	"context"
	"fmt"
	"time"

	"github.com/SO-Ctrix/Node-Packer/internal/models"
)

// Stats counts all packages and those created since the start of the
// current month and of the current day, in the store's location.
func (s *Store) Stats(ctx context.Context) (*models.Stats, error) {
	now := s.now()
	loc := s.location()
	local := now.In(loc)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	monthStart := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)

	var counts struct {
		Total     int64 `db:"total"`
		ThisMonth int64 `db:"this_month"`
		Today     int64 `db:"today"`
	}
	err := s.DB.GetContext(ctx, &counts, `SELECT
		COUNT(*) AS total,
		COALESCE(SUM(CASE WHEN created_at >= ? THEN 1 ELSE 0 END), 0) AS this_month,
		COALESCE(SUM(CASE WHEN created_at >= ? THEN 1 ELSE 0 END), 0) AS today
		FROM packages`, monthStart.UnixMilli(), today.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}
	return &models.Stats{
		Total:            counts.Total,
		CreatedThisMonth: counts.ThisMonth,
		CreatedToday:     counts.Today,
		LastUpdated:      now.UTC(),
	}, nil
}
