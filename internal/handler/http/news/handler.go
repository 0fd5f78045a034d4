// Package news provides the anime news feed endpoint.
package news

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"anishelf/internal/handler/http/respond"
	"anishelf/internal/observability/logging"
	newsUC "anishelf/internal/usecase/news"
)

// DTO represents the JSON structure for a news item.
type DTO struct {
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Summary     string    `json:"summary"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"published_at"`
}

// Handler serves the aggregated news stream.
type Handler struct {
	Svc    newsUC.Service
	Logger *slog.Logger
}

func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.WithRequestID(ctx, h.Logger)

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil || n < 1 {
			respond.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid limit"})
			return
		}
		limit = n
	}

	items, err := h.Svc.Latest(ctx, limit)
	if err != nil {
		if errors.Is(err, newsUC.ErrNoFeeds) {
			respond.JSON(w, http.StatusOK, []DTO{})
			return
		}
		logger.Error("news fetch failed", "error", err.Error())
		respond.SafeError(w, http.StatusBadGateway, err)
		return
	}

	dtos := make([]DTO, 0, len(items))
	for _, it := range items {
		dtos = append(dtos, DTO{
			Title:       it.Title,
			URL:         it.URL,
			Summary:     it.Summary,
			Source:      it.Source,
			PublishedAt: it.PublishedAt,
		})
	}
	respond.JSON(w, http.StatusOK, dtos)
}

// Register registers the news endpoint with the given mux.
func Register(mux *http.ServeMux, svc newsUC.Service, logger *slog.Logger) {
	mux.Handle("GET /news", Handler{Svc: svc, Logger: logger})
}
