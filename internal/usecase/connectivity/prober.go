// Package connectivity provides reachability probing for catalog sources.
// The prober measures round-trip latency against each source's probe URL
// and recommends the fastest reachable one, which the API surfaces so
// clients can tell a dead network from an empty catalog.
package connectivity

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"anishelf/internal/observability/metrics"
	"anishelf/internal/resilience/retry"

	"golang.org/x/sync/errgroup"
)

const defaultProbeTimeout = 3 * time.Second

// SourceDescriptor names a catalog source and the cheap endpoint used to
// probe it. TestPayload, when set, is sent as a JSON POST body; GraphQL
// endpoints reject bare GETs, so they are probed with a minimal query.
type SourceDescriptor struct {
	Name        string
	URL         string
	TestPayload string
}

// Probe is the outcome of probing one source.
type Probe struct {
	Source    string
	Reachable bool
	Latency   time.Duration
	Error     string
}

// Result aggregates the probes of one sweep.
type Result struct {
	Probes      []Probe
	Recommended string
	CheckedAt   time.Time
}

// Online reports whether at least one source answered.
func (r *Result) Online() bool {
	for _, p := range r.Probes {
		if p.Reachable {
			return true
		}
	}
	return false
}

// Prober checks the reachability of catalog sources.
//
// Thread safety: Prober is safe for concurrent use.
type Prober struct {
	client  *http.Client
	sources []SourceDescriptor
	timeout time.Duration
}

// NewProber creates a prober over the given sources. A zero timeout falls
// back to the default per-probe timeout.
func NewProber(sources []SourceDescriptor, timeout time.Duration) *Prober {
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}
	return &Prober{
		client: &http.Client{
			Timeout: timeout,
		},
		sources: sources,
		timeout: timeout,
	}
}

// ProbeAll probes every source concurrently and returns the aggregated
// result. Unreachable sources are recorded, never surfaced as errors; the
// sweep itself only fails on context cancellation. Recommended is the
// reachable source with the lowest latency, empty when everything is down.
func (p *Prober) ProbeAll(ctx context.Context) (*Result, error) {
	result := &Result{
		Probes:    make([]Probe, len(p.sources)),
		CheckedAt: time.Now(),
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range p.sources {
		g.Go(func() error {
			result.Probes[i] = p.probeOne(gctx, src)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("probe sweep: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("probe sweep: %w", err)
	}

	best := -1
	for i, probe := range result.Probes {
		if !probe.Reachable {
			continue
		}
		if best == -1 || probe.Latency < result.Probes[best].Latency {
			best = i
		}
	}
	if best >= 0 {
		result.Recommended = result.Probes[best].Source
	}

	return result, nil
}

// probeOne measures one source. A failed request gets exactly one retry
// before the source is declared unreachable for this sweep.
func (p *Prober) probeOne(ctx context.Context, src SourceDescriptor) Probe {
	start := time.Now()

	err := retry.WithBackoff(ctx, retry.ProbeConfig(), func() error {
		return p.request(ctx, src)
	})
	latency := time.Since(start)

	probe := Probe{
		Source:    src.Name,
		Reachable: err == nil,
		Latency:   latency,
	}
	if err != nil {
		probe.Error = err.Error()
		slog.Warn("source unreachable",
			slog.String("source", src.Name),
			slog.Any("error", err))
	}

	metrics.RecordProbe(src.Name, latency, probe.Reachable)
	return probe
}

// request issues one probe request: a JSON POST when the descriptor has a
// test payload, otherwise a plain GET. Any received response counts as
// reachable regardless of status code; only transport failures and
// timeouts mean the source is down.
func (p *Prober) request(ctx context.Context, src SourceDescriptor) error {
	reqCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	method := http.MethodGet
	var body io.Reader
	if src.TestPayload != "" {
		method = http.MethodPost
		body = strings.NewReader(src.TestPayload)
	}

	req, err := http.NewRequestWithContext(reqCtx, method, src.URL, body)
	if err != nil {
		return fmt.Errorf("create probe request: %w", err)
	}
	req.Header.Set("User-Agent", "AniShelf/1.0")
	if src.TestPayload != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("probe %s: %w", src.URL, err)
	}
	_ = resp.Body.Close()
	return nil
}
