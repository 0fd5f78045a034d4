package anime

import (
	"log/slog"
	"net/http"

	"anishelf/internal/common/pagination"
	"anishelf/internal/handler/http/respond"
	"anishelf/internal/observability/logging"
	catUC "anishelf/internal/usecase/catalog"
)

// CachedHandler serves the locally cached catalog, paginated. Unlike the
// cascade-backed listings it never reaches upstream.
type CachedHandler struct {
	Svc           catUC.Service
	PaginationCfg pagination.Config
	Logger        *slog.Logger
}

func (h CachedHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.WithRequestID(ctx, h.Logger)

	params, err := pagination.ParseQueryParams(r, h.PaginationCfg)
	if err != nil {
		pagination.RecordError("validation")
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	entries, err := h.Svc.Cached(ctx)
	if err != nil {
		logger.Error("cached listing failed", "error", err.Error())
		pagination.RecordError("database")
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	total := int64(len(entries))
	offset := pagination.CalculateOffset(params.Page, params.Limit)
	if offset > len(entries) {
		offset = len(entries)
	}
	end := offset + params.Limit
	if end > len(entries) {
		end = len(entries)
	}

	meta := pagination.NewMetadata(params, total)
	pagination.RecordRequest(http.StatusOK, params.Page)
	pagination.UpdateTotalCount(total)

	respond.JSON(w, http.StatusOK, pagination.NewResponse(toDTOs(entries[offset:end]), meta))
}
