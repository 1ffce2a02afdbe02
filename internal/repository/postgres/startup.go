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

type startupRepository struct {
	db *sql.DB
}

func NewStartupRepository(db *sql.DB) repository.StartupRepository {
	return &startupRepository{db: db}
}

const startupColumns = `id, owner_id, name, COALESCE(sector, ''), COALESCE(stage, ''), COALESCE(description, ''),
	team_size, COALESCE(website, ''),
	COALESCE(doc_rccm, ''), COALESCE(doc_tax_certificate, ''), COALESCE(doc_statutes, ''),
	COALESCE(doc_business_plan, ''), COALESCE(doc_team_cvs, ''), COALESCE(doc_pitch_deck, ''),
	COALESCE(other_documents, '{}'), is_visible, label_status, labeled_at, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStartup(row rowScanner) (*domain.Startup, error) {
	s := &domain.Startup{}
	var labelStatus string
	var labeledAt sql.NullTime
	err := row.Scan(&s.ID, &s.OwnerID, &s.Name, &s.Sector, &s.Stage, &s.Description,
		&s.TeamSize, &s.Website,
		&s.Documents.RCCM, &s.Documents.TaxCertificate, &s.Documents.Statutes,
		&s.Documents.BusinessPlan, &s.Documents.TeamCVs, &s.Documents.PitchDeck,
		pq.Array(&s.OtherDocuments), &s.IsVisible, &labelStatus, &labeledAt, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	s.LabelStatus = domain.LabelStatus(labelStatus)
	if labeledAt.Valid {
		t := labeledAt.Time
		s.LabeledAt = &t
	}
	return s, nil
}

// insertStartup writes a new startup with the documents collected in the draft.
func insertStartup(ctx context.Context, q queryer, s *domain.Startup) error {
	query := `INSERT INTO startups (owner_id, name, sector, stage, description, team_size, website,
	              doc_rccm, doc_tax_certificate, doc_statutes, doc_business_plan, doc_team_cvs, doc_pitch_deck,
	              other_documents, is_visible, label_status)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	          RETURNING id, created_at, updated_at`
	if s.LabelStatus == "" {
		s.LabelStatus = domain.LabelStatusNone
	}
	if s.OtherDocuments == nil {
		s.OtherDocuments = []string{}
	}
	logger.DatabaseCall("INSERT", "startups", "ownerID", s.OwnerID, "name", s.Name)
	err := q.QueryRowContext(ctx, query, s.OwnerID, s.Name, nullString(s.Sector), nullString(s.Stage),
		nullString(s.Description), s.TeamSize, nullString(s.Website),
		nullString(s.Documents.RCCM), nullString(s.Documents.TaxCertificate), nullString(s.Documents.Statutes),
		nullString(s.Documents.BusinessPlan), nullString(s.Documents.TeamCVs), nullString(s.Documents.PitchDeck),
		pq.Array(s.OtherDocuments), s.IsVisible, string(s.LabelStatus)).
		Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	logger.DatabaseResult("INSERT", 1, err, "startupID", s.ID)
	return err
}

func (r *startupRepository) GetByID(ctx context.Context, id string) (*domain.Startup, error) {
	query := `SELECT ` + startupColumns + ` FROM startups WHERE id = $1`
	s, err := scanStartup(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err, "startup")
	}
	return s, nil
}

func (r *startupRepository) list(ctx context.Context, query string, args ...any) ([]domain.Startup, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var startups []domain.Startup
	for rows.Next() {
		s, err := scanStartup(rows)
		if err != nil {
			return nil, err
		}
		startups = append(startups, *s)
	}
	return startups, rows.Err()
}

func (r *startupRepository) ListByIDs(ctx context.Context, ids []string) ([]domain.Startup, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.list(ctx, `SELECT `+startupColumns+` FROM startups WHERE id = ANY($1)`, pq.Array(ids))
}

func (r *startupRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Startup, error) {
	return r.list(ctx, `SELECT `+startupColumns+` FROM startups WHERE owner_id = $1 ORDER BY created_at DESC`, ownerID)
}

func (r *startupRepository) ListDirectory(ctx context.Context, sector string) ([]domain.Startup, error) {
	query := `SELECT ` + startupColumns + ` FROM startups
	          WHERE is_visible = TRUE AND label_status = 'labeled' AND ($1 = '' OR sector = $1)
	          ORDER BY name`
	return r.list(ctx, query, sector)
}

func (r *startupRepository) UpdateDocuments(ctx context.Context, s *domain.Startup) error {
	query := `UPDATE startups SET doc_rccm = $1, doc_tax_certificate = $2, doc_statutes = $3,
	              doc_business_plan = $4, doc_team_cvs = $5, doc_pitch_deck = $6, other_documents = $7,
	              updated_at = NOW()
	          WHERE id = $8`
	d := s.Documents
	logger.DatabaseCall("UPDATE", "startups", "startupID", s.ID, "operation", "documents")
	res, err := r.db.ExecContext(ctx, query,
		nullString(d.RCCM), nullString(d.TaxCertificate), nullString(d.Statutes),
		nullString(d.BusinessPlan), nullString(d.TeamCVs), nullString(d.PitchDeck),
		pq.Array(s.OtherDocuments), s.ID)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err, "startupID", s.ID)
		return err
	}
	logger.DatabaseResult("UPDATE", 1, nil, "startupID", s.ID)
	return requireRow(res, "startup")
}

func setLabel(ctx context.Context, q queryer, id string, status domain.LabelStatus, at *time.Time) error {
	query := `UPDATE startups SET label_status = $1, labeled_at = $2, is_visible = $3, updated_at = NOW() WHERE id = $4`
	logger.DatabaseCall("UPDATE", "startups", "startupID", id, "labelStatus", status)
	res, err := q.ExecContext(ctx, query, string(status), at, status == domain.LabelStatusLabeled, id)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err, "startupID", id)
		return err
	}
	logger.DatabaseResult("UPDATE", 1, nil, "startupID", id)
	return requireRow(res, "startup")
}

func (r *startupRepository) CountLabeled(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM startups WHERE label_status = 'labeled'`).Scan(&n)
	return n, err
}
