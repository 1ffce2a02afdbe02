package postgres

import (
	"context"
	"database/sql"

	"labelstartup-backend/internal/domain"
	"labelstartup-backend/internal/logger"
	"labelstartup-backend/internal/repository"
)

type contentRepository struct {
	db *sql.DB
}

func NewContentRepository(db *sql.DB) repository.ContentRepository {
	return &contentRepository{db: db}
}

const contentColumns = `id, kind, title, COALESCE(summary, ''), COALESCE(body, ''), COALESCE(url, ''),
	starts_at, is_published, created_by, created_at`

func scanContent(row rowScanner) (*domain.LabelContent, error) {
	c := &domain.LabelContent{}
	var kind string
	var startsAt sql.NullTime
	err := row.Scan(&c.ID, &kind, &c.Title, &c.Summary, &c.Body, &c.URL, &startsAt, &c.IsPublished, &c.CreatedBy, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	c.Kind = domain.ContentKind(kind)
	if startsAt.Valid {
		t := startsAt.Time
		c.StartsAt = &t
	}
	return c, nil
}

func (r *contentRepository) Create(ctx context.Context, c *domain.LabelContent) error {
	query := `INSERT INTO label_content (kind, title, summary, body, url, starts_at, is_published, created_by)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id, created_at`
	logger.DatabaseCall("INSERT", "label_content", "kind", c.Kind, "title", c.Title)
	err := r.db.QueryRowContext(ctx, query, string(c.Kind), c.Title, nullString(c.Summary), nullString(c.Body),
		nullString(c.URL), c.StartsAt, c.IsPublished, c.CreatedBy).Scan(&c.ID, &c.CreatedAt)
	logger.DatabaseResult("INSERT", 1, err, "contentID", c.ID)
	return err
}

func (r *contentRepository) GetByID(ctx context.Context, id string) (*domain.LabelContent, error) {
	c, err := scanContent(r.db.QueryRowContext(ctx, `SELECT `+contentColumns+` FROM label_content WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err, "content")
	}
	return c, nil
}

func (r *contentRepository) ListPublished(ctx context.Context, kind domain.ContentKind) ([]domain.LabelContent, error) {
	query := `SELECT ` + contentColumns + ` FROM label_content
	          WHERE kind = $1 AND is_published = TRUE ORDER BY COALESCE(starts_at, created_at) DESC`
	rows, err := r.db.QueryContext(ctx, query, string(kind))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.LabelContent
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}
