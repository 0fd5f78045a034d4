package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"anishelf/internal/domain/entity"
	"anishelf/internal/infra/db"
	"anishelf/internal/repository"
)

// UserRepo implements the UserRepository interface using PostgreSQL.
type UserRepo struct{ db db.Querier }

// NewUserRepo creates a new PostgreSQL-backed user repository.
func NewUserRepo(db db.Querier) repository.UserRepository {
	return &UserRepo{db: db}
}

// Create inserts a new user, mapping unique-violation on email to
// entity.ErrDuplicateEmail.
func (repo *UserRepo) Create(ctx context.Context, user *entity.User) error {
	const query = `
INSERT INTO users (name, email, password)
VALUES ($1, $2, $3)
RETURNING id`

	err := repo.db.QueryRowContext(ctx, query,
		user.Name, user.Email, user.Password,
	).Scan(&user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return entity.ErrDuplicateEmail
		}
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (repo *UserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	const query = `
SELECT id, name, email, password
FROM users
WHERE email = $1
LIMIT 1`

	var user entity.User
	err := repo.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID, &user.Name, &user.Email, &user.Password,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("FindByEmail: %w", err)
	}
	return &user, nil
}

func (repo *UserRepo) Get(ctx context.Context, id int64) (*entity.User, error) {
	const query = `
SELECT id, name, email, password
FROM users
WHERE id = $1
LIMIT 1`

	var user entity.User
	err := repo.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID, &user.Name, &user.Email, &user.Password,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return &user, nil
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	// go-sqlmock and other drivers surface plain errors
	return strings.Contains(strings.ToLower(err.Error()), "unique")
}
