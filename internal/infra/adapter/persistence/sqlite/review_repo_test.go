package sqlite_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/go-cmp/cmp"
	"github.com/sony/gobreaker"

	"anishelf/internal/domain/entity"
	"anishelf/internal/infra/adapter/persistence/sqlite"
	"anishelf/internal/repository"
	"anishelf/internal/resilience/circuitbreaker"
)

func reviewRow(r *entity.Review) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "anime_id", "rating",
		"comment", "photo_url", "created_at",
	}).AddRow(
		r.ID, r.UserID, r.AnimeID, r.Rating,
		r.Comment, r.PhotoURL, r.CreatedAt,
	)
}

func TestReviewRepo_Create(t *testing.T) {
	t.Parallel()

	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	now := time.Date(2025, 7, 19, 0, 0, 0, 0, time.UTC)
	review := &entity.Review{
		UserID: 1, AnimeID: 42, Rating: 5,
		Comment: "a classic", CreatedAt: now,
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO reviews")).
		WithArgs(int64(1), int64(42), 5, "a classic", "", now).
		WillReturnResult(sqlmock.NewResult(7, 1))

	repo := sqlite.NewReviewRepo(db)
	if err := repo.Create(context.Background(), review); err != nil {
		t.Fatalf("Create err=%v", err)
	}
	if review.ID != 7 {
		t.Errorf("Create did not set ID: got %d, want 7", review.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestReviewRepo_ListByAnime(t *testing.T) {
	t.Parallel()

	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	now := time.Date(2025, 7, 19, 0, 0, 0, 0, time.UTC)
	want := &entity.Review{
		ID: 3, UserID: 1, AnimeID: 42, Rating: 4,
		Comment: "solid", CreatedAt: now,
	}

	mock.ExpectQuery(regexp.QuoteMeta("SELECT")).
		WithArgs(int64(42)).
		WillReturnRows(reviewRow(want))

	repo := sqlite.NewReviewRepo(db)
	got, err := repo.ListByAnime(context.Background(), 42)
	if err != nil {
		t.Fatalf("ListByAnime err=%v", err)
	}
	if len(got) != 1 {
		t.Fatalf("ListByAnime len=%d, want 1", len(got))
	}
	if diff := cmp.Diff(want, got[0]); diff != "" {
		t.Errorf("ListByAnime mismatch (-want +got):\n%s", diff)
	}
}

func TestReviewRepo_AverageRating_NoReviews(t *testing.T) {
	t.Parallel()

	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	// COALESCE keeps the empty case at 0, never NULL/NaN.
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(AVG(rating), 0)")).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"avg"}).AddRow(0.0))

	repo := sqlite.NewReviewRepo(db)
	avg, err := repo.AverageRating(context.Background(), 99)
	if err != nil {
		t.Fatalf("AverageRating err=%v", err)
	}
	if avg != 0 {
		t.Errorf("AverageRating=%v, want 0", avg)
	}
}

func TestReviewRepo_HasReviewed(t *testing.T) {
	t.Parallel()

	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs(int64(1), int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	repo := sqlite.NewReviewRepo(db)
	ok, err := repo.HasReviewed(context.Background(), 1, 42)
	if err != nil {
		t.Fatalf("HasReviewed err=%v", err)
	}
	if !ok {
		t.Error("HasReviewed=false, want true")
	}
}

func TestReviewRepo_Update_Partial(t *testing.T) {
	t.Parallel()

	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	rating := 4
	comment := "x"

	mock.ExpectExec(regexp.QuoteMeta("UPDATE reviews SET rating = ?, comment = ? WHERE id = ?")).
		WithArgs(4, "x", int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := sqlite.NewReviewRepo(db)
	err := repo.Update(context.Background(), 3, repository.ReviewUpdate{
		Rating:  &rating,
		Comment: &comment,
	})
	if err != nil {
		t.Fatalf("Update err=%v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestReviewRepo_Update_NoFields(t *testing.T) {
	t.Parallel()

	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	// No fields to update means no statement at all.
	repo := sqlite.NewReviewRepo(db)
	if err := repo.Update(context.Background(), 3, repository.ReviewUpdate{}); err != nil {
		t.Fatalf("Update err=%v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unexpected statements: %v", err)
	}
}

func TestReviewRepo_Update_NotFound(t *testing.T) {
	t.Parallel()

	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	rating := 2
	mock.ExpectExec(regexp.QuoteMeta("UPDATE reviews SET")).
		WithArgs(2, int64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := sqlite.NewReviewRepo(db)
	err := repo.Update(context.Background(), 404, repository.ReviewUpdate{Rating: &rating})
	if !errors.Is(err, entity.ErrNotFound) {
		t.Errorf("Update err=%v, want ErrNotFound", err)
	}
}

func TestReviewRepo_Delete_NotFound(t *testing.T) {
	t.Parallel()

	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM reviews")).
		WithArgs(int64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := sqlite.NewReviewRepo(db)
	if err := repo.Delete(context.Background(), 404); !errors.Is(err, entity.ErrNotFound) {
		t.Errorf("Delete err=%v, want ErrNotFound", err)
	}
}

func TestReviewRepo_BreakerShedsQueriesWhenStoreIsDown(t *testing.T) {
	t.Parallel()

	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	guarded := circuitbreaker.NewDBCircuitBreakerWithConfig(db, circuitbreaker.Config{
		Name:             "store",
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          time.Minute,
		FailureThreshold: 1.0,
		MinRequests:      3,
	})
	repo := sqlite.NewReviewRepo(guarded)

	down := errors.New("store unreachable")
	for range 3 {
		mock.ExpectQuery(regexp.QuoteMeta("SELECT")).WillReturnError(down)
	}
	for range 3 {
		if _, err := repo.ListByAnime(context.Background(), 42); err == nil {
			t.Fatal("ListByAnime err=nil, want store error")
		}
	}

	// Circuit open: the next call fails fast without issuing a statement.
	if _, err := repo.ListByAnime(context.Background(), 42); !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("ListByAnime err=%v, want ErrOpenState", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestReviewRepo_Get_NoRows(t *testing.T) {
	t.Parallel()

	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT")).
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	repo := sqlite.NewReviewRepo(db)
	got, err := repo.Get(context.Background(), 404)
	if err != nil {
		t.Fatalf("Get err=%v", err)
	}
	if got != nil {
		t.Errorf("Get=%+v, want nil", got)
	}
}
