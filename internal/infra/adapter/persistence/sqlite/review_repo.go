package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"anishelf/internal/domain/entity"
	"anishelf/internal/infra/db"
	"anishelf/internal/repository"
)

// ReviewRepo implements the ReviewRepository interface using SQLite.
type ReviewRepo struct{ db db.Querier }

// NewReviewRepo creates a new SQLite-backed review repository.
func NewReviewRepo(db db.Querier) repository.ReviewRepository {
	return &ReviewRepo{db: db}
}

const reviewColumns = `id, user_id, anime_id, rating, comment, photo_url, created_at`

func scanReview(scanner interface{ Scan(dest ...any) error }) (*entity.Review, error) {
	var r entity.Review
	if err := scanner.Scan(
		&r.ID, &r.UserID, &r.AnimeID, &r.Rating,
		&r.Comment, &r.PhotoURL, &r.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &r, nil
}

// Create inserts a new review row. Duplicate (user_id, anime_id) pairs are
// allowed; a resubmit creates a second row unless the caller updates by ID.
func (repo *ReviewRepo) Create(ctx context.Context, review *entity.Review) error {
	const query = `
INSERT INTO reviews (user_id, anime_id, rating, comment, photo_url, created_at)
VALUES (?, ?, ?, ?, ?, ?)`

	result, err := repo.db.ExecContext(ctx, query,
		review.UserID, review.AnimeID, review.Rating,
		review.Comment, review.PhotoURL, review.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: ExecContext: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("Create: LastInsertId: %w", err)
	}
	review.ID = id
	return nil
}

func (repo *ReviewRepo) ListByAnime(ctx context.Context, animeID int64) ([]*entity.Review, error) {
	query := fmt.Sprintf(`
SELECT %s
FROM reviews
WHERE anime_id = ?
ORDER BY created_at DESC`, reviewColumns)

	return repo.list(ctx, "ListByAnime", query, animeID)
}

func (repo *ReviewRepo) ListByUser(ctx context.Context, userID int64) ([]*entity.Review, error) {
	query := fmt.Sprintf(`
SELECT %s
FROM reviews
WHERE user_id = ?
ORDER BY created_at DESC`, reviewColumns)

	return repo.list(ctx, "ListByUser", query, userID)
}

func (repo *ReviewRepo) Get(ctx context.Context, id int64) (*entity.Review, error) {
	query := fmt.Sprintf(`
SELECT %s
FROM reviews
WHERE id = ?
LIMIT 1`, reviewColumns)

	review, err := scanReview(repo.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return review, nil
}

// Update applies the non-nil fields of update to the review with the given ID.
// Returns entity.ErrNotFound when no row matches.
func (repo *ReviewRepo) Update(ctx context.Context, id int64, update repository.ReviewUpdate) error {
	query := `UPDATE reviews SET `
	args := make([]any, 0, 4)

	appendSet := func(column string, value any) {
		if len(args) > 0 {
			query += ", "
		}
		query += column + " = ?"
		args = append(args, value)
	}

	if update.Rating != nil {
		appendSet("rating", *update.Rating)
	}
	if update.Comment != nil {
		appendSet("comment", *update.Comment)
	}
	if update.PhotoURL != nil {
		appendSet("photo_url", *update.PhotoURL)
	}
	if len(args) == 0 {
		return nil
	}

	query += " WHERE id = ?"
	args = append(args, id)

	result, err := repo.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("Update: ExecContext: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("Update: RowsAffected: %w", err)
	}
	if affected == 0 {
		return entity.ErrNotFound
	}
	return nil
}

func (repo *ReviewRepo) Delete(ctx context.Context, id int64) error {
	result, err := repo.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("Delete: ExecContext: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("Delete: RowsAffected: %w", err)
	}
	if affected == 0 {
		return entity.ErrNotFound
	}
	return nil
}

// AverageRating returns the mean rating for the entry. COALESCE keeps the
// zero-review case at 0 instead of NULL.
func (repo *ReviewRepo) AverageRating(ctx context.Context, animeID int64) (float64, error) {
	const query = `
SELECT COALESCE(AVG(rating), 0)
FROM reviews
WHERE anime_id = ?`

	var avg float64
	if err := repo.db.QueryRowContext(ctx, query, animeID).Scan(&avg); err != nil {
		return 0, fmt.Errorf("AverageRating: %w", err)
	}
	return avg, nil
}

func (repo *ReviewRepo) HasReviewed(ctx context.Context, userID, animeID int64) (bool, error) {
	const query = `
SELECT EXISTS (
    SELECT 1 FROM reviews WHERE user_id = ? AND anime_id = ?
)`

	var exists bool
	if err := repo.db.QueryRowContext(ctx, query, userID, animeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("HasReviewed: %w", err)
	}
	return exists, nil
}

func (repo *ReviewRepo) list(ctx context.Context, op, query string, arg any) ([]*entity.Review, error) {
	rows, err := repo.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("%s: QueryContext: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	reviews := make([]*entity.Review, 0, 20)
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: Scan: %w", op, err)
		}
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows.Err: %w", op, err)
	}
	return reviews, nil
}
