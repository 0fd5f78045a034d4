package postgres

import (
	"context"
	"fmt"

	"anishelf/internal/domain/entity"
	"anishelf/internal/infra/db"
	"anishelf/internal/repository"
)

// ListRepo implements the ListRepository interface using PostgreSQL.
type ListRepo struct{ db db.Querier }

// NewListRepo creates a new PostgreSQL-backed user list repository.
func NewListRepo(db db.Querier) repository.ListRepository {
	return &ListRepo{db: db}
}

func (repo *ListRepo) ListByUser(ctx context.Context, userID int64) ([]*entity.ListEntry, error) {
	const query = `
SELECT id, user_id, anime_id, status
FROM user_lists
WHERE user_id = $1
ORDER BY id ASC`

	rows, err := repo.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("ListByUser: QueryContext: %w", err)
	}
	defer func() { _ = rows.Close() }()

	entries := make([]*entity.ListEntry, 0, 20)
	for rows.Next() {
		var e entity.ListEntry
		var status string
		if err := rows.Scan(&e.ID, &e.UserID, &e.AnimeID, &status); err != nil {
			return nil, fmt.Errorf("ListByUser: Scan: %w", err)
		}
		e.Status = entity.ListStatus(status)
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListByUser: rows.Err: %w", err)
	}
	return entries, nil
}

// Put inserts the entry or updates the status of the existing
// (user_id, anime_id) row.
func (repo *ListRepo) Put(ctx context.Context, entry *entity.ListEntry) error {
	const query = `
INSERT INTO user_lists (user_id, anime_id, status)
VALUES ($1, $2, $3)
ON CONFLICT (user_id, anime_id) DO UPDATE SET status = EXCLUDED.status`

	_, err := repo.db.ExecContext(ctx, query,
		entry.UserID, entry.AnimeID, string(entry.Status),
	)
	if err != nil {
		return fmt.Errorf("Put: ExecContext: %w", err)
	}
	return nil
}

func (repo *ListRepo) Delete(ctx context.Context, userID, animeID int64) error {
	result, err := repo.db.ExecContext(ctx,
		`DELETE FROM user_lists WHERE user_id = $1 AND anime_id = $2`,
		userID, animeID,
	)
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
