package news_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	newshttp "anishelf/internal/handler/http/news"
	newsUC "anishelf/internal/usecase/news"
)

type stubFetcher struct {
	items []newsUC.Item
	err   error
}

func (f *stubFetcher) Fetch(ctx context.Context, feedURL string) ([]newsUC.Item, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.items, nil
}

func newHandler(fetcher *stubFetcher) newshttp.Handler {
	svc := newsUC.NewService(fetcher, []newsUC.Feed{{Name: "ann", URL: "http://ann.example/rss"}})
	return newshttp.Handler{Svc: svc, Logger: slog.Default()}
}

func TestHandler(t *testing.T) {
	h := newHandler(&stubFetcher{items: []newsUC.Item{
		{Title: "Lineup announced", URL: "http://ann.example/1", Summary: "Short.", PublishedAt: time.Now()},
	}})

	req := httptest.NewRequest(http.MethodGet, "/news", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var dtos []newshttp.DTO
	if err := json.Unmarshal(rec.Body.Bytes(), &dtos); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(dtos) != 1 || dtos[0].Title != "Lineup announced" {
		t.Errorf("unexpected dtos %v", dtos)
	}
	if dtos[0].Source != "ann" {
		t.Errorf("Source = %q, want feed name", dtos[0].Source)
	}
}

func TestHandler_InvalidLimit(t *testing.T) {
	h := newHandler(&stubFetcher{})

	req := httptest.NewRequest(http.MethodGet, "/news?limit=-1", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHandler_AllFeedsDown(t *testing.T) {
	h := newHandler(&stubFetcher{err: errors.New("connection refused")})

	req := httptest.NewRequest(http.MethodGet, "/news", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
}

func TestHandler_NoFeedsConfigured(t *testing.T) {
	svc := newsUC.NewService(&stubFetcher{}, nil)
	h := newshttp.Handler{Svc: svc, Logger: slog.Default()}

	req := httptest.NewRequest(http.MethodGet, "/news", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 with empty list", rec.Code)
	}
}
