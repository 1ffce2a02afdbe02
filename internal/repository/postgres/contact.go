package postgres

import (
	"context"
	"database/sql"

	"labelstartup-backend/internal/domain"
	"labelstartup-backend/internal/logger"
	"labelstartup-backend/internal/repository"
)

type contactRepository struct {
	db *sql.DB
}

func NewContactRepository(db *sql.DB) repository.ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) Create(ctx context.Context, m *domain.ContactMessage) error {
	query := `INSERT INTO contact_messages (name, email, phone, subject, message)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`
	logger.DatabaseCall("INSERT", "contact_messages", "email", m.Email)
	err := r.db.QueryRowContext(ctx, query, m.Name, m.Email, nullString(m.Phone), m.Subject, m.Message).
		Scan(&m.ID, &m.CreatedAt)
	logger.DatabaseResult("INSERT", 1, err, "contactID", m.ID)
	return err
}
