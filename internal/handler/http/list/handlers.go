// Package list provides HTTP handlers for the per-user watch list
// endpoints. All routes require authentication.
package list

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"anishelf/internal/domain/entity"
	"anishelf/internal/handler/http/auth"
	"anishelf/internal/handler/http/respond"
	"anishelf/internal/observability/logging"
	listUC "anishelf/internal/usecase/list"
)

// DTO represents the JSON structure for a watch list entry.
type DTO struct {
	AnimeID int64  `json:"anime_id"`
	Status  string `json:"status"`
}

type putRequest struct {
	Status string `json:"status"`
}

// MineHandler lists the authenticated user's watch list.
type MineHandler struct {
	Svc listUC.Service
}

func (h MineHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respond.JSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	entries := h.Svc.Mine(r.Context(), claims.UserID)
	dtos := make([]DTO, 0, len(entries))
	for _, e := range entries {
		dtos = append(dtos, DTO{AnimeID: e.AnimeID, Status: string(e.Status)})
	}
	respond.JSON(w, http.StatusOK, dtos)
}

// PutHandler sets the watch status for a catalog entry.
type PutHandler struct {
	Svc    listUC.Service
	Logger *slog.Logger
}

func (h PutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.WithRequestID(ctx, h.Logger)

	claims, ok := auth.ClaimsFromContext(ctx)
	if !ok {
		respond.JSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	animeID, err := strconv.ParseInt(r.PathValue("animeID"), 10, 64)
	if err != nil || animeID <= 0 {
		respond.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid anime id"})
		return
	}

	var req putRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	stored, err := h.Svc.Put(ctx, claims.UserID, animeID, entity.ListStatus(req.Status))
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	if !stored {
		logger.Error("watch list entry not stored", "anime_id", animeID)
		respond.JSON(w, http.StatusServiceUnavailable,
			map[string]string{"error": "list entry could not be stored"})
		return
	}

	respond.JSON(w, http.StatusOK, DTO{AnimeID: animeID, Status: req.Status})
}

// DeleteHandler removes a catalog entry from the watch list.
type DeleteHandler struct {
	Svc    listUC.Service
	Logger *slog.Logger
}

func (h DeleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.WithRequestID(ctx, h.Logger)

	claims, ok := auth.ClaimsFromContext(ctx)
	if !ok {
		respond.JSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	animeID, err := strconv.ParseInt(r.PathValue("animeID"), 10, 64)
	if err != nil || animeID <= 0 {
		respond.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid anime id"})
		return
	}

	removed, err := h.Svc.Remove(ctx, claims.UserID, animeID)
	if err != nil {
		if errors.Is(err, listUC.ErrEntryNotFound) {
			respond.SafeError(w, http.StatusNotFound, err)
			return
		}
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	if !removed {
		logger.Error("watch list delete not stored", "anime_id", animeID)
		respond.JSON(w, http.StatusServiceUnavailable,
			map[string]string{"error": "list entry could not be removed"})
		return
	}

	respond.JSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

// Register registers the watch list endpoints with the given mux.
func Register(mux *http.ServeMux, svc listUC.Service, secret []byte, logger *slog.Logger) {
	mux.Handle("GET /lists/mine", auth.Authz(secret, MineHandler{Svc: svc}))
	mux.Handle("PUT /lists/{animeID}", auth.Authz(secret, PutHandler{Svc: svc, Logger: logger}))
	mux.Handle("DELETE /lists/{animeID}", auth.Authz(secret, DeleteHandler{Svc: svc, Logger: logger}))
}
