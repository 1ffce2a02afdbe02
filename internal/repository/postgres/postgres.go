package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"labelstartup-backend/internal/domain"
	"labelstartup-backend/internal/repository"

	"github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.UserRepository
	repository.StartupRepository
	repository.ApplicationRepository
	repository.DraftRepository
	repository.EvaluationRepository
	repository.VotingRepository
	repository.CommentRepository
	repository.DocumentRequestRepository
	repository.NotificationRepository
	repository.PushTokenRepository
	repository.ContentRepository
	repository.StatsRepository
	repository.ContactRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                        db,
		UserRepository:            NewUserRepository(db),
		StartupRepository:         NewStartupRepository(db),
		ApplicationRepository:     NewApplicationRepository(db),
		DraftRepository:           NewDraftRepository(db),
		EvaluationRepository:      NewEvaluationRepository(db),
		VotingRepository:          NewVotingRepository(db),
		CommentRepository:         NewCommentRepository(db),
		DocumentRequestRepository: NewDocumentRequestRepository(db),
		NotificationRepository:    NewNotificationRepository(db),
		PushTokenRepository:       NewPushTokenRepository(db),
		ContentRepository:         NewContentRepository(db),
		StatsRepository:           NewStatsRepository(db),
		ContactRepository:         NewContactRepository(db),
	}
}

// DB exposes the pool for health checks.
func (s *Store) DB() *sql.DB {
	return s.db
}

// notFound maps sql.ErrNoRows to domain.ErrNotFound so services never import database/sql.
func notFound(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
	}
	return err
}

// uniqueViolation maps a Postgres unique constraint error to domain.ErrConflict.
func uniqueViolation(err error, what string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return fmt.Errorf("%s: %w", what, domain.ErrConflict)
	}
	return err
}

// requireRow turns a zero-row update into domain.ErrNotFound.
func requireRow(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// withTx runs fn in a transaction, committing only when fn succeeds.
func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
