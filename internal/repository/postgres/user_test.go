package postgres_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"labelstartup-backend/internal/domain"
	"labelstartup-backend/internal/repository/postgres"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := postgres.NewUserRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "email", "password_hash", "created_at"}).
			AddRow("u1", "awa@example.ci", "hash", time.Now())

		mock.ExpectQuery("SELECT (.+) FROM users WHERE id = \\$1").
			WithArgs("u1").
			WillReturnRows(rows)

		user, err := repo.GetByID(ctx, "u1")
		assert.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, "awa@example.ci", user.Email)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users WHERE id = \\$1").
			WithArgs("u2").
			WillReturnError(sql.ErrNoRows)

		user, err := repo.GetByID(ctx, "u2")
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Nil(t, user)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := postgres.NewUserRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		u := &domain.User{Email: "new@example.ci", PasswordHash: "hash"}
		mock.ExpectQuery("INSERT INTO users").
			WithArgs(u.Email, u.PasswordHash).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("u9", time.Now()))

		err := repo.Create(ctx, u)
		assert.NoError(t, err)
		assert.Equal(t, "u9", u.ID)
	})

	t.Run("Duplicate email", func(t *testing.T) {
		u := &domain.User{Email: "dup@example.ci", PasswordHash: "hash"}
		mock.ExpectQuery("INSERT INTO users").
			WithArgs(u.Email, u.PasswordHash).
			WillReturnError(&pq.Error{Code: "23505"})

		err := repo.Create(ctx, u)
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_ListRoles(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := postgres.NewUserRepository(db)
	mock.ExpectQuery("SELECT role FROM user_roles WHERE user_id = \\$1").
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"role"}).AddRow("startup").AddRow("bogus").AddRow("admin"))

	roles, err := repo.ListRoles(context.Background(), "u1")
	assert.NoError(t, err)
	assert.Equal(t, []domain.Role{domain.RoleStartup, domain.RoleAdmin}, roles)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_ListProfiles(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := postgres.NewUserRepository(db)
	ctx := context.Background()

	t.Run("Empty input skips the query", func(t *testing.T) {
		profiles, err := repo.ListProfiles(ctx, nil)
		assert.NoError(t, err)
		assert.Empty(t, profiles)
	})

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM profiles WHERE user_id = ANY\\(\\$1\\)").
			WithArgs(sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"user_id", "full_name", "email", "phone", "avatar_url", "updated_at"}).
				AddRow("e1", "Yao Kouassi", "yao@example.ci", "", "", time.Now()))

		profiles, err := repo.ListProfiles(ctx, []string{"e1", "e2"})
		assert.NoError(t, err)
		require.Len(t, profiles, 1)
		assert.Equal(t, "Yao Kouassi", profiles[0].FullName)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
