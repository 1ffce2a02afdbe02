package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"labelstartup-backend/internal/domain"
	"labelstartup-backend/internal/logger"
	"labelstartup-backend/internal/repository"

	"github.com/lib/pq"
)

type applicationRepository struct {
	db *sql.DB
}

func NewApplicationRepository(db *sql.DB) repository.ApplicationRepository {
	return &applicationRepository{db: db}
}

const applicationColumns = `id, startup_id, applicant_id, status, submitted_at, COALESCE(notes, ''), created_at, updated_at`

func scanApplication(row rowScanner) (*domain.Application, error) {
	a := &domain.Application{}
	var status string
	var submittedAt sql.NullTime
	if err := row.Scan(&a.ID, &a.StartupID, &a.ApplicantID, &status, &submittedAt, &a.Notes, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	a.Status = domain.ApplicationStatus(status)
	if submittedAt.Valid {
		t := submittedAt.Time
		a.SubmittedAt = &t
	}
	return a, nil
}

func insertApplication(ctx context.Context, q queryer, a *domain.Application) error {
	query := `INSERT INTO applications (startup_id, applicant_id, status, submitted_at, notes)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at, updated_at`
	logger.DatabaseCall("INSERT", "applications", "startupID", a.StartupID, "applicantID", a.ApplicantID)
	err := q.QueryRowContext(ctx, query, a.StartupID, a.ApplicantID, string(a.Status), a.SubmittedAt, nullString(a.Notes)).
		Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	logger.DatabaseResult("INSERT", 1, err, "applicationID", a.ID)
	return err
}

func (r *applicationRepository) Submit(ctx context.Context, startup *domain.Startup, a *domain.Application) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := insertStartup(ctx, tx, startup); err != nil {
			return fmt.Errorf("create startup: %w", err)
		}
		a.StartupID = startup.ID
		if err := insertApplication(ctx, tx, a); err != nil {
			return fmt.Errorf("create application: %w", err)
		}
		return nil
	})
}

func (r *applicationRepository) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE id = $1`
	a, err := scanApplication(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err, "application")
	}
	return a, nil
}

func (r *applicationRepository) list(ctx context.Context, query string, args ...any) ([]domain.Application, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var apps []domain.Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, *a)
	}
	return apps, rows.Err()
}

func (r *applicationRepository) ListByStatuses(ctx context.Context, statuses []domain.ApplicationStatus) ([]domain.Application, error) {
	values := make([]string, len(statuses))
	for i, s := range statuses {
		values[i] = string(s)
	}
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE status = ANY($1) ORDER BY submitted_at DESC NULLS LAST, created_at DESC`
	return r.list(ctx, query, pq.Array(values))
}

func (r *applicationRepository) ListByApplicant(ctx context.Context, applicantID string) ([]domain.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE applicant_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, applicantID)
}

func updateStatus(ctx context.Context, q queryer, id string, status domain.ApplicationStatus, notes string) error {
	query := `UPDATE applications SET status = $1, notes = COALESCE(NULLIF($2, ''), notes), updated_at = NOW() WHERE id = $3`
	logger.DatabaseCall("UPDATE", "applications", "applicationID", id, "status", status)
	res, err := q.ExecContext(ctx, query, string(status), notes, id)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err, "applicationID", id)
		return err
	}
	logger.DatabaseResult("UPDATE", 1, nil, "applicationID", id)
	return requireRow(res, "application")
}

func (r *applicationRepository) UpdateStatus(ctx context.Context, id string, status domain.ApplicationStatus, notes string) error {
	return updateStatus(ctx, r.db, id, status, notes)
}

func (r *applicationRepository) Transition(ctx context.Context, change domain.StatusChange) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := updateStatus(ctx, tx, change.ApplicationID, change.Status, change.Notes); err != nil {
			return err
		}
		if change.LabeledAt != nil {
			if err := setLabel(ctx, tx, change.StartupID, domain.LabelStatusLabeled, change.LabeledAt); err != nil {
				return fmt.Errorf("label startup: %w", err)
			}
		}
		if change.Final != nil {
			if err := setFinal(ctx, tx, change.ApplicationID, *change.Final); err != nil {
				return fmt.Errorf("save final decision: %w", err)
			}
		}
		return nil
	})
}

func (r *applicationRepository) ListApplicantIDsByStatus(ctx context.Context, status domain.ApplicationStatus) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT applicant_id FROM applications WHERE status = $1`, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanStrings(rows)
}

func (r *applicationRepository) CountByStatus(ctx context.Context) (map[domain.ApplicationStatus]int64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM applications GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.ApplicationStatus]int64)
	for rows.Next() {
		var status string
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[domain.ApplicationStatus(status)] = n
	}
	return counts, rows.Err()
}
