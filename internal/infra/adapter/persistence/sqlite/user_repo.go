package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sqlite3 "github.com/mattn/go-sqlite3"

	"anishelf/internal/domain/entity"
	"anishelf/internal/infra/db"
	"anishelf/internal/repository"
)

// UserRepo implements the UserRepository interface using SQLite.
type UserRepo struct{ db db.Querier }

// NewUserRepo creates a new SQLite-backed user repository.
func NewUserRepo(db db.Querier) repository.UserRepository {
	return &UserRepo{db: db}
}

// Create inserts a new user, mapping unique-violation on email to
// entity.ErrDuplicateEmail.
func (repo *UserRepo) Create(ctx context.Context, user *entity.User) error {
	const query = `
INSERT INTO users (name, email, password)
VALUES (?, ?, ?)`

	result, err := repo.db.ExecContext(ctx, query,
		user.Name, user.Email, user.Password,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return entity.ErrDuplicateEmail
		}
		return fmt.Errorf("Create: ExecContext: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("Create: LastInsertId: %w", err)
	}
	user.ID = id
	return nil
}

func (repo *UserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	const query = `
SELECT id, name, email, password
FROM users
WHERE email = ?
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
WHERE id = ?
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

// isUniqueViolation reports whether err is a SQLite unique constraint
// violation.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	// go-sqlmock and other drivers surface plain errors
	return strings.Contains(strings.ToLower(err.Error()), "unique")
}
