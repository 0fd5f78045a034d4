package review

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"anishelf/internal/handler/http/auth"
	"anishelf/internal/handler/http/pathutil"
	"anishelf/internal/handler/http/respond"
	"anishelf/internal/observability/logging"
	revUC "anishelf/internal/usecase/review"
)

type updateRequest struct {
	Rating   *int    `json:"rating"`
	Comment  *string `json:"comment"`
	PhotoURL *string `json:"photo_url"`
}

// UpdateHandler applies a partial update to the caller's own review.
type UpdateHandler struct {
	Svc    revUC.Service
	Logger *slog.Logger
}

func (h UpdateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.WithRequestID(ctx, h.Logger)

	claims, ok := auth.ClaimsFromContext(ctx)
	if !ok {
		respond.JSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	id, err := pathutil.ExtractID(r.URL.Path, "/reviews/")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	stored, err := h.Svc.Update(ctx, revUC.UpdateInput{
		ID:       id,
		UserID:   claims.UserID,
		Rating:   req.Rating,
		Comment:  req.Comment,
		PhotoURL: req.PhotoURL,
	})
	if err != nil {
		writeReviewError(w, r, err)
		return
	}
	if !stored {
		logger.Error("review update not stored", "review_id", id)
		respond.JSON(w, http.StatusServiceUnavailable,
			map[string]string{"error": "review could not be updated"})
		return
	}

	respond.JSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// DeleteHandler removes the caller's own review.
type DeleteHandler struct {
	Svc    revUC.Service
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

	id, err := pathutil.ExtractID(r.URL.Path, "/reviews/")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	deleted, err := h.Svc.Delete(ctx, claims.UserID, id)
	if err != nil {
		writeReviewError(w, r, err)
		return
	}
	if !deleted {
		logger.Error("review delete not stored", "review_id", id)
		respond.JSON(w, http.StatusServiceUnavailable,
			map[string]string{"error": "review could not be deleted"})
		return
	}

	respond.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func writeReviewError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, revUC.ErrReviewNotFound):
		respond.SafeError(w, http.StatusNotFound, err)
	case errors.Is(err, revUC.ErrNotOwner):
		auth.RecordForbiddenAttempt(r.Method)
		respond.JSON(w, http.StatusForbidden, map[string]string{"error": "forbidden"})
	default:
		respond.SafeError(w, http.StatusBadRequest, err)
	}
}
