package postgres

import (
	"context"
	"database/sql"

	"labelstartup-backend/internal/domain"
	"labelstartup-backend/internal/logger"
	"labelstartup-backend/internal/repository"

	"github.com/lib/pq"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (email, password_hash) VALUES (LOWER($1), $2) RETURNING id, created_at`
	logger.DatabaseCall("INSERT", "users", "email", u.Email)
	err := r.db.QueryRowContext(ctx, query, u.Email, u.PasswordHash).Scan(&u.ID, &u.CreatedAt)
	logger.DatabaseResult("INSERT", 1, err, "userID", u.ID)
	return uniqueViolation(err, "user email")
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	u := &domain.User{}
	query := `SELECT id, email, password_hash, created_at FROM users WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	u := &domain.User{}
	query := `SELECT id, email, password_hash, created_at FROM users WHERE LOWER(email) = LOWER($1)`
	err := r.db.QueryRowContext(ctx, query, email).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return u, nil
}

func (r *userRepository) UpsertProfile(ctx context.Context, p *domain.Profile) error {
	query := `INSERT INTO profiles (user_id, full_name, email, phone, avatar_url, updated_at)
	          VALUES ($1, $2, $3, $4, $5, NOW())
	          ON CONFLICT (user_id) DO UPDATE SET full_name = EXCLUDED.full_name, email = EXCLUDED.email,
	              phone = EXCLUDED.phone, avatar_url = EXCLUDED.avatar_url, updated_at = NOW()
	          RETURNING updated_at`
	logger.DatabaseCall("UPSERT", "profiles", "userID", p.UserID)
	err := r.db.QueryRowContext(ctx, query, p.UserID, p.FullName, p.Email, p.Phone, p.AvatarURL).Scan(&p.UpdatedAt)
	logger.DatabaseResult("UPSERT", 1, err, "userID", p.UserID)
	return err
}

func (r *userRepository) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	p := &domain.Profile{}
	query := `SELECT user_id, full_name, email, COALESCE(phone, ''), COALESCE(avatar_url, ''), updated_at
	          FROM profiles WHERE user_id = $1`
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&p.UserID, &p.FullName, &p.Email, &p.Phone, &p.AvatarURL, &p.UpdatedAt)
	if err != nil {
		return nil, notFound(err, "profile")
	}
	return p, nil
}

func (r *userRepository) ListProfiles(ctx context.Context, userIDs []string) ([]domain.Profile, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	query := `SELECT user_id, full_name, email, COALESCE(phone, ''), COALESCE(avatar_url, ''), updated_at
	          FROM profiles WHERE user_id = ANY($1)`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(userIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []domain.Profile
	for rows.Next() {
		var p domain.Profile
		if err := rows.Scan(&p.UserID, &p.FullName, &p.Email, &p.Phone, &p.AvatarURL, &p.UpdatedAt); err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

func (r *userRepository) AddRole(ctx context.Context, userID string, role domain.Role) error {
	query := `INSERT INTO user_roles (user_id, role) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	logger.DatabaseCall("INSERT", "user_roles", "userID", userID, "role", role)
	res, err := r.db.ExecContext(ctx, query, userID, string(role))
	var n int64
	if err == nil {
		n, _ = res.RowsAffected()
	}
	logger.DatabaseResult("INSERT", n, err, "userID", userID)
	return err
}

func (r *userRepository) ListRoles(ctx context.Context, userID string) ([]domain.Role, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT role FROM user_roles WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []domain.Role
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		role, err := domain.ParseRole(s)
		if err != nil {
			logger.Warn("Ignoring unknown role", "userID", userID, "role", s)
			continue
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

func (r *userRepository) ListUserIDsByRole(ctx context.Context, role domain.Role) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT user_id FROM user_roles WHERE role = $1 ORDER BY user_id`, string(role))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanStrings(rows)
}

func scanStrings(rows *sql.Rows) ([]string, error) {
	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
