package anime_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"anishelf/internal/common/pagination"
	"anishelf/internal/domain/entity"
	animehttp "anishelf/internal/handler/http/anime"
	catUC "anishelf/internal/usecase/catalog"
)

type stubSource struct {
	name    string
	entries []*entity.Anime
	err     error
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Trending(ctx context.Context, page, perPage int) ([]*entity.Anime, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.entries, nil
}

func (s *stubSource) Search(ctx context.Context, query string, page, perPage int) ([]*entity.Anime, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.entries, nil
}

func (s *stubSource) Details(ctx context.Context, id int64) (*entity.Anime, error) {
	if s.err != nil {
		return nil, s.err
	}
	for _, e := range s.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, entity.ErrNotFound
}

type stubRepo struct {
	entries map[int64]*entity.Anime
}

func newStubRepo() *stubRepo {
	return &stubRepo{entries: make(map[int64]*entity.Anime)}
}

func (r *stubRepo) Get(ctx context.Context, id int64) (*entity.Anime, error) {
	return r.entries[id], nil
}

func (r *stubRepo) List(ctx context.Context) ([]*entity.Anime, error) {
	out := []*entity.Anime{}
	for _, e := range r.entries {
		out = append(out, e)
	}
	return out, nil
}

func (r *stubRepo) Search(ctx context.Context, keyword string) ([]*entity.Anime, error) {
	return r.List(ctx)
}

func (r *stubRepo) Upsert(ctx context.Context, anime *entity.Anime) error {
	r.entries[anime.ID] = anime
	return nil
}

func (r *stubRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(r.entries)), nil
}

func testEntry(id int64, title string) *entity.Anime {
	return &entity.Anime{
		ID:          id,
		Title:       title,
		Description: "desc",
		Rating:      8.5,
		Status:      entity.StatusFinished,
	}
}

func newService(primary *stubSource) catUC.Service {
	sample := &stubSource{name: "sample", entries: []*entity.Anime{testEntry(99, "Fallback Show")}}
	return catUC.NewService([]catUC.Source{primary}, sample, newStubRepo())
}

var testLogger = slog.Default()

func TestTopHandler(t *testing.T) {
	primary := &stubSource{name: "anilist", entries: []*entity.Anime{
		testEntry(1, "Steins;Gate"),
		testEntry(2, "Monster"),
	}}
	h := animehttp.TopHandler{
		Svc:           newService(primary),
		PaginationCfg: pagination.DefaultConfig(),
		Logger:        testLogger,
	}

	req := httptest.NewRequest(http.MethodGet, "/anime/top", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data  []animehttp.DTO `json:"data"`
		Page  int             `json:"page"`
		Limit int             `json:"limit"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Data) != 2 {
		t.Fatalf("data length = %d, want 2", len(resp.Data))
	}
	if resp.Data[0].Title != "Steins;Gate" {
		t.Errorf("Data[0].Title = %q", resp.Data[0].Title)
	}
	if resp.Page != 1 || resp.Limit != 20 {
		t.Errorf("page/limit = %d/%d, want defaults", resp.Page, resp.Limit)
	}
}

func TestTopHandler_SourceDownServesFallback(t *testing.T) {
	primary := &stubSource{name: "anilist", err: errors.New("connection refused")}
	h := animehttp.TopHandler{
		Svc:           newService(primary),
		PaginationCfg: pagination.DefaultConfig(),
		Logger:        testLogger,
	}

	req := httptest.NewRequest(http.MethodGet, "/anime/top", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 from fallback", rec.Code)
	}
	var resp struct {
		Data []animehttp.DTO `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Data) != 1 || resp.Data[0].Title != "Fallback Show" {
		t.Errorf("unexpected fallback data %v", resp.Data)
	}
}

func TestTopHandler_InvalidPage(t *testing.T) {
	h := animehttp.TopHandler{
		Svc:           newService(&stubSource{name: "anilist"}),
		PaginationCfg: pagination.DefaultConfig(),
		Logger:        testLogger,
	}

	req := httptest.NewRequest(http.MethodGet, "/anime/top?page=zero", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestSearchHandler_BlankQuery(t *testing.T) {
	h := animehttp.SearchHandler{
		Svc:           newService(&stubSource{name: "anilist"}),
		PaginationCfg: pagination.DefaultConfig(),
		Logger:        testLogger,
	}

	req := httptest.NewRequest(http.MethodGet, "/anime/search?q=%20", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestSearchHandler(t *testing.T) {
	primary := &stubSource{name: "anilist", entries: []*entity.Anime{
		testEntry(1, "Steins;Gate"),
	}}
	h := animehttp.SearchHandler{
		Svc:           newService(primary),
		PaginationCfg: pagination.DefaultConfig(),
		Logger:        testLogger,
	}

	req := httptest.NewRequest(http.MethodGet, "/anime/search?q=steins", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestGetHandler(t *testing.T) {
	primary := &stubSource{name: "anilist", entries: []*entity.Anime{
		testEntry(42, "Mushishi"),
	}}
	h := animehttp.GetHandler{Svc: newService(primary), Logger: testLogger}

	req := httptest.NewRequest(http.MethodGet, "/anime/42", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}
	var dto animehttp.DTO
	if err := json.Unmarshal(rec.Body.Bytes(), &dto); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if dto.ID != 42 || dto.Title != "Mushishi" {
		t.Errorf("unexpected dto %+v", dto)
	}
}

func TestGetHandler_NotFound(t *testing.T) {
	h := animehttp.GetHandler{Svc: newService(&stubSource{name: "anilist"}), Logger: testLogger}

	req := httptest.NewRequest(http.MethodGet, "/anime/12345", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestGetHandler_BadID(t *testing.T) {
	h := animehttp.GetHandler{Svc: newService(&stubSource{name: "anilist"}), Logger: testLogger}

	req := httptest.NewRequest(http.MethodGet, "/anime/abc", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCachedHandler_Paginates(t *testing.T) {
	repo := newStubRepo()
	for i := int64(1); i <= 5; i++ {
		_ = repo.Upsert(context.Background(), testEntry(i, "Entry"))
	}
	svc := catUC.NewService(nil, &stubSource{name: "sample"}, repo)

	h := animehttp.CachedHandler{
		Svc:           svc,
		PaginationCfg: pagination.DefaultConfig(),
		Logger:        testLogger,
	}

	req := httptest.NewRequest(http.MethodGet, "/anime?page=2&limit=2", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp pagination.Response[animehttp.DTO]
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Data) != 2 {
		t.Errorf("data length = %d, want 2", len(resp.Data))
	}
	if resp.Pagination.Total != 5 || resp.Pagination.TotalPages != 3 {
		t.Errorf("unexpected metadata %+v", resp.Pagination)
	}
}
