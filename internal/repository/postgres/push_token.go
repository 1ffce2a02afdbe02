package postgres

import (
	"context"
	"database/sql"

	"labelstartup-backend/internal/domain"
	"labelstartup-backend/internal/logger"
	"labelstartup-backend/internal/repository"

	"github.com/lib/pq"
)

type pushTokenRepository struct {
	db *sql.DB
}

func NewPushTokenRepository(db *sql.DB) repository.PushTokenRepository {
	return &pushTokenRepository{db: db}
}

// Upsert moves an existing device token to the current user.
func (r *pushTokenRepository) Upsert(ctx context.Context, t *domain.PushToken) error {
	query := `INSERT INTO push_tokens (user_id, token) VALUES ($1, $2)
	          ON CONFLICT (token) DO UPDATE SET user_id = EXCLUDED.user_id
	          RETURNING created_at`
	logger.DatabaseCall("UPSERT", "push_tokens", "userID", t.UserID)
	err := r.db.QueryRowContext(ctx, query, t.UserID, t.Token).Scan(&t.CreatedAt)
	logger.DatabaseResult("UPSERT", 1, err, "userID", t.UserID)
	return err
}

func (r *pushTokenRepository) ListByUsers(ctx context.Context, userIDs []string) ([]domain.PushToken, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx, `SELECT user_id, token, created_at FROM push_tokens WHERE user_id = ANY($1)`, pq.Array(userIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tokens []domain.PushToken
	for rows.Next() {
		var t domain.PushToken
		if err := rows.Scan(&t.UserID, &t.Token, &t.CreatedAt); err != nil {
			return nil, err
		}
		tokens = append(tokens, t)
	}
	return tokens, rows.Err()
}

func (r *pushTokenRepository) DeleteTokens(ctx context.Context, tokens []string) error {
	if len(tokens) == 0 {
		return nil
	}
	logger.DatabaseCall("DELETE", "push_tokens", "count", len(tokens))
	res, err := r.db.ExecContext(ctx, `DELETE FROM push_tokens WHERE token = ANY($1)`, pq.Array(tokens))
	var n int64
	if err == nil {
		n, _ = res.RowsAffected()
	}
	logger.DatabaseResult("DELETE", n, err)
	return err
}
