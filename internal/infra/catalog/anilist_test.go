package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"anishelf/internal/domain/entity"
)

func anilistTestConfig(serverURL string) ClientConfig {
	cfg := DefaultClientConfig()
	cfg.AniListURL = serverURL
	return cfg
}

func TestAniListClient_Trending(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"data": {
				"Page": {
					"media": [{
						"id": 5114,
						"title": {"romaji": "Hagane no Renkinjutsushi", "english": "Fullmetal Alchemist: Brotherhood"},
						"description": "<p>Two brothers &amp; a stone.</p>",
						"coverImage": {"large": "https://img.example/fma.jpg"},
						"averageScore": 91,
						"genres": ["Action", "Fantasy"],
						"seasonYear": 2009,
						"status": "FINISHED",
						"episodes": 64,
						"duration": 24,
						"format": "TV",
						"studios": {"nodes": [{"name": "Bones"}]}
					}]
				}
			}
		}`))
	}))
	defer server.Close()

	client := NewAniListClient(anilistTestConfig(server.URL))

	got, err := client.Trending(context.Background(), 1, 20)
	if err != nil {
		t.Fatalf("Trending() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(got))
	}

	a := got[0]
	if a.ID != 5114 {
		t.Errorf("expected ID=5114, got %d", a.ID)
	}
	if a.Title != "Hagane no Renkinjutsushi" {
		t.Errorf("unexpected title %q", a.Title)
	}
	if a.Description != "Two brothers & a stone." {
		t.Errorf("description not sanitized: %q", a.Description)
	}
	if a.Rating != 9.1 {
		t.Errorf("expected rating 9.1, got %v", a.Rating)
	}
	if a.Status != entity.StatusFinished {
		t.Errorf("expected finished status, got %q", a.Status)
	}
	if a.Studio != "Bones" {
		t.Errorf("expected studio Bones, got %q", a.Studio)
	}

	vars, ok := gotBody["variables"].(map[string]any)
	if !ok {
		t.Fatalf("request carried no variables: %v", gotBody)
	}
	if vars["perPage"] != float64(20) {
		t.Errorf("expected perPage=20, got %v", vars["perPage"])
	}
}

func TestAniListClient_Details_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"data": {"Media": null}, "errors": [{"message": "Not Found."}]}`))
	}))
	defer server.Close()

	client := NewAniListClient(anilistTestConfig(server.URL))

	_, err := client.Details(context.Background(), 999999)
	if err == nil {
		t.Fatal("expected error for missing media")
	}

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected *FetchError, got %T: %v", err, err)
	}
	if fetchErr.Kind != KindNotFound {
		t.Errorf("expected kind %q, got %q", KindNotFound, fetchErr.Kind)
	}
}

func TestAniListClient_GraphQLError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data": {}, "errors": [{"message": "Validation error"}]}`))
	}))
	defer server.Close()

	client := NewAniListClient(anilistTestConfig(server.URL))

	_, err := client.Trending(context.Background(), 1, 20)
	if err == nil {
		t.Fatal("expected error for GraphQL error response")
	}
}

func TestAniListClient_ConnectionRefused(t *testing.T) {
	// A server that is immediately closed guarantees a refused connection.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	serverURL := server.URL
	server.Close()

	client := NewAniListClient(anilistTestConfig(serverURL))

	_, err := client.Trending(context.Background(), 1, 20)
	if err == nil {
		t.Fatal("expected error when source is unreachable")
	}
}

func TestMapAnilistMedia_MissingFields(t *testing.T) {
	a := mapAnilistMedia(anilistMedia{})

	if a.ID == 0 {
		t.Error("expected synthesized ID for entry without one")
	}
	if a.Rating != 0 {
		t.Errorf("expected zero rating, got %v", a.Rating)
	}
	if a.Status != entity.StatusUnknown {
		t.Errorf("expected unknown status, got %q", a.Status)
	}
}

func TestMapAnilistMedia_DescriptionSanitizedAndTruncated(t *testing.T) {
	m := anilistMedia{ID: 1}
	m.Description = "<b>Hi</b> &amp; " + strings.Repeat("x", 5000)

	a := mapAnilistMedia(m)

	if strings.Contains(a.Description, "<b>") || strings.Contains(a.Description, "&amp;") {
		t.Errorf("description not sanitized: %q", a.Description[:40])
	}
	if got := utf8.RuneCountInString(a.Description); got > descriptionMaxRunes+1 {
		t.Errorf("description length = %d runes, want at most %d", got, descriptionMaxRunes+1)
	}
	if !strings.HasPrefix(a.Description, "Hi & ") {
		t.Errorf("unexpected description prefix: %q", a.Description[:10])
	}
}

func TestMapAnilistMedia_EnglishTitleFallback(t *testing.T) {
	m := anilistMedia{ID: 1}
	m.Title.English = "Cowboy Bebop"

	a := mapAnilistMedia(m)
	if a.Title != "Cowboy Bebop" {
		t.Errorf("expected english title fallback, got %q", a.Title)
	}
}
