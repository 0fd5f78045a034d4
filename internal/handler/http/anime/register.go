package anime

import (
	"log/slog"
	"net/http"

	"anishelf/internal/common/pagination"
	catUC "anishelf/internal/usecase/catalog"
)

// Register registers the catalog endpoints with the given mux. All catalog
// reads are public.
func Register(mux *http.ServeMux, svc catUC.Service, paginationCfg pagination.Config, logger *slog.Logger) {
	mux.Handle("GET /anime", CachedHandler{Svc: svc, PaginationCfg: paginationCfg, Logger: logger})
	mux.Handle("GET /anime/top", TopHandler{Svc: svc, PaginationCfg: paginationCfg, Logger: logger})
	mux.Handle("GET /anime/search", SearchHandler{Svc: svc, PaginationCfg: paginationCfg, Logger: logger})
	mux.Handle("GET /anime/{id}", GetHandler{Svc: svc, Logger: logger})
}
