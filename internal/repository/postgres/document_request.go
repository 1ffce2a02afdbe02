package postgres

import (
	"context"
	"database/sql"
	"time"

	"labelstartup-backend/internal/domain"
	"labelstartup-backend/internal/logger"
	"labelstartup-backend/internal/repository"

	"github.com/lib/pq"
)

type documentRequestRepository struct {
	db *sql.DB
}

func NewDocumentRequestRepository(db *sql.DB) repository.DocumentRequestRepository {
	return &documentRequestRepository{db: db}
}

const documentRequestColumns = `id, application_id, requested_by, document_type, document_label, COALESCE(message, ''),
	COALESCE(document_path, ''), fulfilled_at, cancelled_at, created_at`

func scanDocumentRequest(row rowScanner) (*domain.DocumentRequest, error) {
	d := &domain.DocumentRequest{}
	var fulfilledAt, cancelledAt sql.NullTime
	err := row.Scan(&d.ID, &d.ApplicationID, &d.RequestedBy, &d.DocumentType, &d.DocumentLabel, &d.Message,
		&d.DocumentPath, &fulfilledAt, &cancelledAt, &d.CreatedAt)
	if err != nil {
		return nil, err
	}
	if fulfilledAt.Valid {
		t := fulfilledAt.Time
		d.FulfilledAt = &t
	}
	if cancelledAt.Valid {
		t := cancelledAt.Time
		d.CancelledAt = &t
	}
	return d, nil
}

func (r *documentRequestRepository) Create(ctx context.Context, d *domain.DocumentRequest) error {
	query := `INSERT INTO document_requests (application_id, requested_by, document_type, document_label, message)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`
	logger.DatabaseCall("INSERT", "document_requests", "applicationID", d.ApplicationID, "documentType", d.DocumentType)
	err := r.db.QueryRowContext(ctx, query, d.ApplicationID, d.RequestedBy, d.DocumentType, d.DocumentLabel, nullString(d.Message)).
		Scan(&d.ID, &d.CreatedAt)
	logger.DatabaseResult("INSERT", 1, err, "requestID", d.ID)
	return err
}

func (r *documentRequestRepository) GetByID(ctx context.Context, id string) (*domain.DocumentRequest, error) {
	query := `SELECT ` + documentRequestColumns + ` FROM document_requests WHERE id = $1`
	d, err := scanDocumentRequest(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err, "document request")
	}
	return d, nil
}

func (r *documentRequestRepository) list(ctx context.Context, query string, args ...any) ([]domain.DocumentRequest, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.DocumentRequest
	for rows.Next() {
		d, err := scanDocumentRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

func (r *documentRequestRepository) ListByApplication(ctx context.Context, applicationID string) ([]domain.DocumentRequest, error) {
	query := `SELECT ` + documentRequestColumns + ` FROM document_requests WHERE application_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, applicationID)
}

func (r *documentRequestRepository) ListOpenCreatedBefore(ctx context.Context, cutoff time.Time) ([]domain.DocumentRequest, error) {
	query := `SELECT ` + documentRequestColumns + ` FROM document_requests
	          WHERE fulfilled_at IS NULL AND cancelled_at IS NULL AND created_at < $1 ORDER BY created_at`
	return r.list(ctx, query, cutoff)
}

func (r *documentRequestRepository) CountOpenByApplications(ctx context.Context, applicationIDs []string) (map[string]int, error) {
	counts := make(map[string]int)
	if len(applicationIDs) == 0 {
		return counts, nil
	}
	query := `SELECT application_id, COUNT(*) FROM document_requests
	          WHERE application_id = ANY($1) AND fulfilled_at IS NULL AND cancelled_at IS NULL
	          GROUP BY application_id`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(applicationIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		counts[id] = n
	}
	return counts, rows.Err()
}

// Cancel and Fulfill only apply to open requests.
func (r *documentRequestRepository) Cancel(ctx context.Context, id string, at time.Time) error {
	query := `UPDATE document_requests SET cancelled_at = $1 WHERE id = $2 AND fulfilled_at IS NULL AND cancelled_at IS NULL`
	logger.DatabaseCall("UPDATE", "document_requests", "requestID", id, "operation", "cancel")
	res, err := r.db.ExecContext(ctx, query, at, id)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err, "requestID", id)
		return err
	}
	logger.DatabaseResult("UPDATE", 1, nil, "requestID", id)
	return requireRow(res, "open document request")
}

func (r *documentRequestRepository) Fulfill(ctx context.Context, id, documentPath string, at time.Time) error {
	query := `UPDATE document_requests SET fulfilled_at = $1, document_path = $2
	          WHERE id = $3 AND fulfilled_at IS NULL AND cancelled_at IS NULL`
	logger.DatabaseCall("UPDATE", "document_requests", "requestID", id, "operation", "fulfill")
	res, err := r.db.ExecContext(ctx, query, at, documentPath, id)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err, "requestID", id)
		return err
	}
	logger.DatabaseResult("UPDATE", 1, nil, "requestID", id)
	return requireRow(res, "open document request")
}
