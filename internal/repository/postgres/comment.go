package postgres

import (
	"context"
	"database/sql"
	"time"

	"labelstartup-backend/internal/domain"
	"labelstartup-backend/internal/logger"
	"labelstartup-backend/internal/repository"
)

type commentRepository struct {
	db *sql.DB
}

func NewCommentRepository(db *sql.DB) repository.CommentRepository {
	return &commentRepository{db: db}
}

// Author names are resolved at read time so a renamed profile shows its new name.
const commentSelect = `SELECT c.id, c.application_id, c.author_id, COALESCE(p.full_name, p.email, ''),
	c.parent_id, c.content, c.is_edited, c.created_at, c.updated_at
	FROM application_comments c LEFT JOIN profiles p ON p.user_id = c.author_id`

func scanComment(row rowScanner) (*domain.Comment, error) {
	c := &domain.Comment{}
	var parentID sql.NullString
	err := row.Scan(&c.ID, &c.ApplicationID, &c.AuthorID, &c.AuthorName, &parentID, &c.Content, &c.IsEdited, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if parentID.Valid {
		s := parentID.String
		c.ParentID = &s
	}
	return c, nil
}

func (r *commentRepository) Create(ctx context.Context, c *domain.Comment) error {
	query := `INSERT INTO application_comments (application_id, author_id, parent_id, content)
	          VALUES ($1, $2, $3, $4) RETURNING id, created_at, updated_at`
	var parentID sql.NullString
	if c.ParentID != nil {
		parentID = sql.NullString{String: *c.ParentID, Valid: true}
	}
	logger.DatabaseCall("INSERT", "application_comments", "applicationID", c.ApplicationID, "authorID", c.AuthorID)
	err := r.db.QueryRowContext(ctx, query, c.ApplicationID, c.AuthorID, parentID, c.Content).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	logger.DatabaseResult("INSERT", 1, err, "commentID", c.ID)
	return err
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*domain.Comment, error) {
	c, err := scanComment(r.db.QueryRowContext(ctx, commentSelect+` WHERE c.id = $1`, id))
	if err != nil {
		return nil, notFound(err, "comment")
	}
	return c, nil
}

func (r *commentRepository) ListByApplication(ctx context.Context, applicationID string) ([]domain.Comment, error) {
	rows, err := r.db.QueryContext(ctx, commentSelect+` WHERE c.application_id = $1 ORDER BY c.created_at`, applicationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []domain.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, *c)
	}
	return comments, rows.Err()
}

func (r *commentRepository) UpdateContent(ctx context.Context, id, content string) (time.Time, error) {
	query := `UPDATE application_comments SET content = $1, is_edited = TRUE, updated_at = NOW() WHERE id = $2 RETURNING updated_at`
	var updatedAt time.Time
	logger.DatabaseCall("UPDATE", "application_comments", "commentID", id)
	err := r.db.QueryRowContext(ctx, query, content, id).Scan(&updatedAt)
	logger.DatabaseResult("UPDATE", 1, err, "commentID", id)
	if err != nil {
		return time.Time{}, notFound(err, "comment")
	}
	return updatedAt, nil
}

// Delete removes the comment and its replies.
func (r *commentRepository) Delete(ctx context.Context, id string) error {
	logger.DatabaseCall("DELETE", "application_comments", "commentID", id)
	res, err := r.db.ExecContext(ctx, `DELETE FROM application_comments WHERE id = $1 OR parent_id = $1`, id)
	if err != nil {
		logger.DatabaseResult("DELETE", 0, err, "commentID", id)
		return err
	}
	n, _ := res.RowsAffected()
	logger.DatabaseResult("DELETE", n, nil, "commentID", id)
	return requireRow(res, "comment")
}
