package postgres

import (
	"context"
	"database/sql"

	"labelstartup-backend/internal/domain"
	"labelstartup-backend/internal/logger"
	"labelstartup-backend/internal/repository"
)

type statsRepository struct {
	db *sql.DB
}

func NewStatsRepository(db *sql.DB) repository.StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) List(ctx context.Context) ([]domain.PlatformStat, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key, value, updated_at FROM platform_stats ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []domain.PlatformStat
	for rows.Next() {
		var s domain.PlatformStat
		if err := rows.Scan(&s.Key, &s.Value, &s.UpdatedAt); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

func (r *statsRepository) Upsert(ctx context.Context, key string, value int64) error {
	query := `INSERT INTO platform_stats (key, value, updated_at) VALUES ($1, $2, NOW())
	          ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`
	logger.DatabaseCall("UPSERT", "platform_stats", "key", key, "value", value)
	_, err := r.db.ExecContext(ctx, query, key, value)
	logger.DatabaseResult("UPSERT", 1, err, "key", key)
	return err
}
