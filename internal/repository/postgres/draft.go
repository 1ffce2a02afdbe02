package postgres

import (
	"context"
	"database/sql"
	"time"

	"labelstartup-backend/internal/domain"
	"labelstartup-backend/internal/logger"
	"labelstartup-backend/internal/repository"
)

type draftRepository struct {
	db *sql.DB
}

func NewDraftRepository(db *sql.DB) repository.DraftRepository {
	return &draftRepository{db: db}
}

func (r *draftRepository) Get(ctx context.Context, userID string) (*domain.ApplicationDraft, error) {
	d := &domain.ApplicationDraft{}
	var data []byte
	query := `SELECT user_id, current_step, data, updated_at FROM application_drafts WHERE user_id = $1`
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&d.UserID, &d.CurrentStep, &data, &d.UpdatedAt)
	if err != nil {
		return nil, notFound(err, "draft")
	}
	d.Data = data
	return d, nil
}

func (r *draftRepository) Upsert(ctx context.Context, d *domain.ApplicationDraft) error {
	query := `INSERT INTO application_drafts (user_id, current_step, data, updated_at)
	          VALUES ($1, $2, $3, NOW())
	          ON CONFLICT (user_id) DO UPDATE SET current_step = EXCLUDED.current_step, data = EXCLUDED.data, updated_at = NOW()
	          RETURNING updated_at`
	data := []byte(d.Data)
	if len(data) == 0 {
		data = []byte("{}")
	}
	logger.DatabaseCall("UPSERT", "application_drafts", "userID", d.UserID, "step", d.CurrentStep)
	err := r.db.QueryRowContext(ctx, query, d.UserID, d.CurrentStep, data).Scan(&d.UpdatedAt)
	logger.DatabaseResult("UPSERT", 1, err, "userID", d.UserID)
	return err
}

func (r *draftRepository) Delete(ctx context.Context, userID string) error {
	logger.DatabaseCall("DELETE", "application_drafts", "userID", userID)
	res, err := r.db.ExecContext(ctx, `DELETE FROM application_drafts WHERE user_id = $1`, userID)
	var n int64
	if err == nil {
		n, _ = res.RowsAffected()
	}
	logger.DatabaseResult("DELETE", n, err, "userID", userID)
	return err
}

func (r *draftRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	logger.DatabaseCall("DELETE", "application_drafts", "cutoff", cutoff)
	res, err := r.db.ExecContext(ctx, `DELETE FROM application_drafts WHERE updated_at < $1`, cutoff)
	if err != nil {
		logger.DatabaseResult("DELETE", 0, err)
		return 0, err
	}
	n, err := res.RowsAffected()
	logger.DatabaseResult("DELETE", n, err)
	return n, err
}
