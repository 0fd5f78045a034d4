package review

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"anishelf/internal/handler/http/auth"
	"anishelf/internal/handler/http/respond"
	"anishelf/internal/observability/logging"
	revUC "anishelf/internal/usecase/review"
)

type createRequest struct {
	AnimeID  int64  `json:"anime_id"`
	Rating   int    `json:"rating"`
	Comment  string `json:"comment"`
	PhotoURL string `json:"photo_url"`
}

// CreateHandler stores a new review for the authenticated user.
type CreateHandler struct {
	Svc    revUC.Service
	Logger *slog.Logger
}

func (h CreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.WithRequestID(ctx, h.Logger)

	claims, ok := auth.ClaimsFromContext(ctx)
	if !ok {
		respond.JSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	rev, stored, err := h.Svc.Create(ctx, revUC.CreateInput{
		UserID:    claims.UserID,
		UserEmail: claims.Email,
		AnimeID:   req.AnimeID,
		Rating:    req.Rating,
		Comment:   req.Comment,
		PhotoURL:  req.PhotoURL,
	})
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	if !stored {
		logger.Error("review not stored, all backends failed",
			"user_id", claims.UserID,
			"anime_id", req.AnimeID)
		respond.JSON(w, http.StatusServiceUnavailable,
			map[string]string{"error": "review could not be stored"})
		return
	}

	respond.JSON(w, http.StatusCreated, toDTO(rev))
}
