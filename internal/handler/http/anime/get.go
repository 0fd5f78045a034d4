package anime

import (
	"errors"
	"log/slog"
	"net/http"

	"anishelf/internal/handler/http/pathutil"
	"anishelf/internal/handler/http/respond"
	"anishelf/internal/observability/logging"
	catUC "anishelf/internal/usecase/catalog"
)

// GetHandler serves a single catalog entry by ID.
type GetHandler struct {
	Svc    catUC.Service
	Logger *slog.Logger
}

func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.WithRequestID(ctx, h.Logger)

	id, err := pathutil.ExtractID(r.URL.Path, "/anime/")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	entry, err := h.Svc.Details(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, catUC.ErrInvalidAnimeID):
			respond.SafeError(w, http.StatusBadRequest, err)
		case errors.Is(err, catUC.ErrAnimeNotFound):
			respond.SafeError(w, http.StatusNotFound, err)
		default:
			logger.Error("catalog details failed",
				"error", err.Error(),
				"anime_id", id)
			respond.SafeError(w, http.StatusBadGateway, err)
		}
		return
	}

	respond.JSON(w, http.StatusOK, toDTO(entry))
}
