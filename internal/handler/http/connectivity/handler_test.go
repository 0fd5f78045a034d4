package connectivity_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	connhttp "anishelf/internal/handler/http/connectivity"
	connUC "anishelf/internal/usecase/connectivity"
)

func TestHandler_ReportsReachability(t *testing.T) {
	up := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer up.Close()

	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	down.Close()

	prober := connUC.NewProber([]connUC.SourceDescriptor{
		{Name: "anilist", URL: up.URL},
		{Name: "jikan", URL: down.URL},
	}, 2*time.Second)

	h := connhttp.Handler{Prober: prober, Logger: slog.Default()}
	req := httptest.NewRequest(http.MethodGet, "/connectivity", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var dto connhttp.ResultDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &dto); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !dto.Online {
		t.Error("expected online=true with one reachable source")
	}
	if dto.Recommended != "anilist" {
		t.Errorf("Recommended = %q, want anilist", dto.Recommended)
	}
	if len(dto.Probes) != 2 {
		t.Fatalf("probes = %d, want 2", len(dto.Probes))
	}
	if !dto.Probes[0].Reachable || dto.Probes[1].Reachable {
		t.Errorf("unexpected reachability %+v", dto.Probes)
	}
	if dto.Probes[1].Error == "" {
		t.Error("expected error string on unreachable probe")
	}
}

func TestHandler_AllDown(t *testing.T) {
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	down.Close()

	prober := connUC.NewProber([]connUC.SourceDescriptor{
		{Name: "anilist", URL: down.URL},
	}, time.Second)

	h := connhttp.Handler{Prober: prober, Logger: slog.Default()}
	req := httptest.NewRequest(http.MethodGet, "/connectivity", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var dto connhttp.ResultDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &dto); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if dto.Online {
		t.Error("expected online=false with no reachable source")
	}
	if dto.Recommended != "" {
		t.Errorf("Recommended = %q, want empty", dto.Recommended)
	}
}
