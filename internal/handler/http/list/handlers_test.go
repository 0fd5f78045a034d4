package list_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"anishelf/internal/domain/entity"
	listhttp "anishelf/internal/handler/http/list"
	listUC "anishelf/internal/usecase/list"
)

var (
	testSecret = []byte("test-secret")
	testLogger = slog.Default()
)

type listKey struct{ userID, animeID int64 }

type stubRepo struct {
	entries map[listKey]entity.ListStatus
	fail    bool
}

func newStubRepo() *stubRepo {
	return &stubRepo{entries: make(map[listKey]entity.ListStatus)}
}

func (r *stubRepo) ListByUser(ctx context.Context, userID int64) ([]*entity.ListEntry, error) {
	if r.fail {
		return nil, errors.New("store down")
	}
	out := []*entity.ListEntry{}
	for k, status := range r.entries {
		if k.userID == userID {
			out = append(out, &entity.ListEntry{UserID: k.userID, AnimeID: k.animeID, Status: status})
		}
	}
	return out, nil
}

func (r *stubRepo) Put(ctx context.Context, entry *entity.ListEntry) error {
	if r.fail {
		return errors.New("store down")
	}
	r.entries[listKey{entry.UserID, entry.AnimeID}] = entry.Status
	return nil
}

func (r *stubRepo) Delete(ctx context.Context, userID, animeID int64) error {
	if r.fail {
		return errors.New("store down")
	}
	k := listKey{userID, animeID}
	if _, ok := r.entries[k]; !ok {
		return entity.ErrNotFound
	}
	delete(r.entries, k)
	return nil
}

func bearerToken(t *testing.T, userID int64) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "rin@example.com",
		"uid":  userID,
		"name": "Rin",
		"exp":  time.Now().Add(time.Minute).Unix(),
	})
	signed, err := token.SignedString(testSecret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return "Bearer " + signed
}

func newMux(repo *stubRepo) *http.ServeMux {
	mux := http.NewServeMux()
	listhttp.Register(mux, listUC.NewService(repo), testSecret, testLogger)
	return mux
}

func TestPutHandler_ThenMine(t *testing.T) {
	repo := newStubRepo()
	mux := newMux(repo)

	req := httptest.NewRequest(http.MethodPut, "/lists/5114", strings.NewReader(`{"status":"watching"}`))
	req.Header.Set("Authorization", bearerToken(t, 1))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/lists/mine", nil)
	req.Header.Set("Authorization", bearerToken(t, 1))
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var dtos []listhttp.DTO
	if err := json.Unmarshal(rec.Body.Bytes(), &dtos); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(dtos) != 1 || dtos[0].AnimeID != 5114 || dtos[0].Status != "watching" {
		t.Errorf("unexpected dtos %v", dtos)
	}
}

func TestPutHandler_InvalidStatus(t *testing.T) {
	mux := newMux(newStubRepo())

	req := httptest.NewRequest(http.MethodPut, "/lists/5114", strings.NewReader(`{"status":"binging"}`))
	req.Header.Set("Authorization", bearerToken(t, 1))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestPutHandler_NoToken(t *testing.T) {
	mux := newMux(newStubRepo())

	req := httptest.NewRequest(http.MethodPut, "/lists/5114", strings.NewReader(`{"status":"watching"}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestDeleteHandler(t *testing.T) {
	repo := newStubRepo()
	repo.entries[listKey{1, 5114}] = entity.ListWatching
	mux := newMux(repo)

	req := httptest.NewRequest(http.MethodDelete, "/lists/5114", nil)
	req.Header.Set("Authorization", bearerToken(t, 1))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if len(repo.entries) != 0 {
		t.Error("entry still stored after delete")
	}
}

func TestDeleteHandler_NotFound(t *testing.T) {
	mux := newMux(newStubRepo())

	req := httptest.NewRequest(http.MethodDelete, "/lists/5114", nil)
	req.Header.Set("Authorization", bearerToken(t, 1))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestPutHandler_StoreDown(t *testing.T) {
	repo := newStubRepo()
	repo.fail = true
	mux := newMux(repo)

	req := httptest.NewRequest(http.MethodPut, "/lists/5114", strings.NewReader(`{"status":"watching"}`))
	req.Header.Set("Authorization", bearerToken(t, 1))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}
