// Package connectivity provides the diagnostic endpoint reporting which
// catalog sources are currently reachable.
package connectivity

import (
	"log/slog"
	"net/http"
	"time"

	"anishelf/internal/handler/http/respond"
	"anishelf/internal/observability/logging"
	connUC "anishelf/internal/usecase/connectivity"
)

// ProbeDTO is one source's probe outcome.
type ProbeDTO struct {
	Source    string  `json:"source"`
	Reachable bool    `json:"reachable"`
	LatencyMS float64 `json:"latency_ms"`
	Error     string  `json:"error,omitempty"`
}

// ResultDTO is the full connectivity report.
type ResultDTO struct {
	Online      bool       `json:"online"`
	Recommended string     `json:"recommended,omitempty"`
	Probes      []ProbeDTO `json:"probes"`
	CheckedAt   time.Time  `json:"checked_at"`
}

// Handler runs a probe sweep on demand.
type Handler struct {
	Prober *connUC.Prober
	Logger *slog.Logger
}

func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.WithRequestID(ctx, h.Logger)

	result, err := h.Prober.ProbeAll(ctx)
	if err != nil {
		logger.Error("probe sweep failed", "error", err.Error())
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	dto := ResultDTO{
		Online:      result.Online(),
		Recommended: result.Recommended,
		Probes:      make([]ProbeDTO, 0, len(result.Probes)),
		CheckedAt:   result.CheckedAt,
	}
	for _, p := range result.Probes {
		probe := ProbeDTO{
			Source:    p.Source,
			Reachable: p.Reachable,
			LatencyMS: float64(p.Latency.Microseconds()) / 1000,
		}
		if p.Error != "" {
			probe.Error = p.Error
		}
		dto.Probes = append(dto.Probes, probe)
	}

	respond.JSON(w, http.StatusOK, dto)
}

// Register registers the connectivity endpoint with the given mux.
func Register(mux *http.ServeMux, prober *connUC.Prober, logger *slog.Logger) {
	mux.Handle("GET /connectivity", Handler{Prober: prober, Logger: logger})
}
