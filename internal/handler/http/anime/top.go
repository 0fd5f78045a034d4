package anime

import (
	"log/slog"
	"net/http"
	"time"

	"anishelf/internal/common/pagination"
	"anishelf/internal/handler/http/requestid"
	"anishelf/internal/handler/http/respond"
	"anishelf/internal/observability/logging"
	catUC "anishelf/internal/usecase/catalog"
)

// TopHandler serves the trending catalog listing.
type TopHandler struct {
	Svc           catUC.Service
	PaginationCfg pagination.Config
	Logger        *slog.Logger
}

func (h TopHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()

	reqID := requestid.FromContext(ctx)
	logger := logging.WithRequestID(ctx, h.Logger)

	params, err := pagination.ParseQueryParams(r, h.PaginationCfg)
	if err != nil {
		pagination.RecordError("validation")
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	entries, err := h.Svc.Trending(ctx, params.Page, params.Limit)
	if err != nil {
		logger.Error("trending listing failed",
			"error", err.Error(),
			"page", params.Page,
			"request_id", reqID)
		respond.SafeError(w, http.StatusBadGateway, err)
		return
	}

	duration := time.Since(startTime)
	pagination.RecordRequest(http.StatusOK, params.Page)
	pagination.RecordDuration("handler", duration.Seconds())
	logger.Info("trending listing served",
		"page", params.Page,
		"limit", params.Limit,
		"returned_count", len(entries),
		"duration_ms", duration.Milliseconds(),
		"request_id", reqID)

	respond.JSON(w, http.StatusOK, listResponse{
		Data:  toDTOs(entries),
		Page:  params.Page,
		Limit: params.Limit,
	})
}

// listResponse wraps catalog listings. Upstream sources do not report
// totals, so the envelope carries only the requested window.
type listResponse struct {
	Data  []DTO `json:"data"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}
