// Package sqlite provides SQLite implementations of the repository
// interfaces. SQLite is the default backend: the application mirrors the
// mobile deployment where the store is a local file.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"anishelf/internal/domain/entity"
	"anishelf/internal/infra/db"
	"anishelf/internal/repository"
)

// AnimeRepo implements the AnimeRepository interface using SQLite.
type AnimeRepo struct{ db db.Querier }

// NewAnimeRepo creates a new SQLite-backed anime repository.
func NewAnimeRepo(db db.Querier) repository.AnimeRepository {
	return &AnimeRepo{db: db}
}

const animeColumns = `id, title, title_english, description, image_url, rating, genres, year, status, episodes, duration, studio, source_medium`

func joinGenres(genres []string) string {
	return strings.Join(genres, ",")
}

func splitGenres(raw string) []string {
	if raw == "" {
		return []string{}
	}
	return strings.Split(raw, ",")
}

func scanAnime(scanner interface{ Scan(dest ...any) error }) (*entity.Anime, error) {
	var a entity.Anime
	var genres, status string
	if err := scanner.Scan(
		&a.ID, &a.Title, &a.TitleEnglish, &a.Description, &a.ImageURL,
		&a.Rating, &genres, &a.Year, &status, &a.Episodes,
		&a.Duration, &a.Studio, &a.SourceMedium,
	); err != nil {
		return nil, err
	}
	a.Genres = splitGenres(genres)
	a.Status = entity.Status(status)
	return &a, nil
}

func (repo *AnimeRepo) Get(ctx context.Context, id int64) (*entity.Anime, error) {
	query := fmt.Sprintf(`
SELECT %s
FROM anime
WHERE id = ?
LIMIT 1`, animeColumns)

	anime, err := scanAnime(repo.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return anime, nil
}

func (repo *AnimeRepo) List(ctx context.Context) ([]*entity.Anime, error) {
	query := fmt.Sprintf(`
SELECT %s
FROM anime
ORDER BY rating DESC, id ASC`, animeColumns)

	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("List: QueryContext: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return collectAnime(rows, "List")
}

// Search matches by title substring. SQLite LIKE is case-insensitive for
// ASCII; LOWER() keeps behavior consistent with the PostgreSQL ILIKE adapter.
func (repo *AnimeRepo) Search(ctx context.Context, keyword string) ([]*entity.Anime, error) {
	query := fmt.Sprintf(`
SELECT %s
FROM anime
WHERE LOWER(title) LIKE ? OR LOWER(title_english) LIKE ?
ORDER BY rating DESC, id ASC`, animeColumns)

	pattern := "%" + strings.ToLower(keyword) + "%"
	rows, err := repo.db.QueryContext(ctx, query, pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("Search: QueryContext: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return collectAnime(rows, "Search")
}

func (repo *AnimeRepo) Upsert(ctx context.Context, anime *entity.Anime) error {
	const query = `
INSERT INTO anime (id, title, title_english, description, image_url, rating, genres, year, status, episodes, duration, studio, source_medium)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
    title = excluded.title,
    title_english = excluded.title_english,
    description = excluded.description,
    image_url = excluded.image_url,
    rating = excluded.rating,
    genres = excluded.genres,
    year = excluded.year,
    status = excluded.status,
    episodes = excluded.episodes,
    duration = excluded.duration,
    studio = excluded.studio,
    source_medium = excluded.source_medium`

	_, err := repo.db.ExecContext(ctx, query,
		anime.ID, anime.Title, anime.TitleEnglish, anime.Description, anime.ImageURL,
		anime.Rating, joinGenres(anime.Genres), anime.Year, string(anime.Status),
		anime.Episodes, anime.Duration, anime.Studio, anime.SourceMedium,
	)
	if err != nil {
		return fmt.Errorf("Upsert: ExecContext: %w", err)
	}
	return nil
}

func (repo *AnimeRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := repo.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM anime`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("Count: %w", err)
	}
	return count, nil
}

func collectAnime(rows *sql.Rows, op string) ([]*entity.Anime, error) {
	entries := make([]*entity.Anime, 0, 50)
	for rows.Next() {
		anime, err := scanAnime(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: Scan: %w", op, err)
		}
		entries = append(entries, anime)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows.Err: %w", op, err)
	}
	return entries, nil
}
