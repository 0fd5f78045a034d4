package review

import (
	"log/slog"
	"net/http"

	"anishelf/internal/handler/http/auth"
	revUC "anishelf/internal/usecase/review"
)

// Register registers the review endpoints with the given mux. Per-entry
// reads are public; everything touching the caller's own reviews requires
// a token.
func Register(mux *http.ServeMux, svc revUC.Service, secret []byte, logger *slog.Logger) {
	mux.Handle("GET /anime/{id}/reviews", ByAnimeHandler{Svc: svc})
	mux.Handle("GET /anime/{id}/rating", RatingHandler{Svc: svc})

	mux.Handle("GET /reviews/mine", auth.Authz(secret, MineHandler{Svc: svc}))
	mux.Handle("POST /reviews", auth.Authz(secret, CreateHandler{Svc: svc, Logger: logger}))
	mux.Handle("PUT /reviews/{id}", auth.Authz(secret, UpdateHandler{Svc: svc, Logger: logger}))
	mux.Handle("DELETE /reviews/{id}", auth.Authz(secret, DeleteHandler{Svc: svc, Logger: logger}))
}
