package anime

import (
	"errors"
	"log/slog"
	"net/http"

	"anishelf/internal/common/pagination"
	"anishelf/internal/domain/entity"
	"anishelf/internal/handler/http/respond"
	"anishelf/internal/observability/logging"
	catUC "anishelf/internal/usecase/catalog"
)

// SearchHandler serves the catalog search endpoint.
type SearchHandler struct {
	Svc           catUC.Service
	PaginationCfg pagination.Config
	Logger        *slog.Logger
}

func (h SearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.WithRequestID(ctx, h.Logger)

	params, err := pagination.ParseQueryParams(r, h.PaginationCfg)
	if err != nil {
		pagination.RecordError("validation")
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	query := r.URL.Query().Get("q")
	entries, err := h.Svc.Search(ctx, query, params.Page, params.Limit)
	if err != nil {
		var vErr *entity.ValidationError
		if errors.As(err, &vErr) {
			respond.SafeError(w, http.StatusBadRequest, err)
			return
		}
		logger.Error("catalog search failed",
			"error", err.Error(),
			"query", query)
		respond.SafeError(w, http.StatusBadGateway, err)
		return
	}

	pagination.RecordRequest(http.StatusOK, params.Page)
	respond.JSON(w, http.StatusOK, listResponse{
		Data:  toDTOs(entries),
		Page:  params.Page,
		Limit: params.Limit,
	})
}
