package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/penwyp/go-usage-timeline/internal/core/model"
	"github.com/penwyp/go-usage-timeline/internal/data/timestamp"
	"github.com/penwyp/go-usage-timeline/internal/metrics"
	"github.com/penwyp/go-usage-timeline/internal/util"
	"golang.org/x/time/rate"
)

// TimelineSource answers one usage query.
type TimelineSource interface {
	GetTimeline(ctx context.Context, rng model.TimeRange) ([]model.TimelineEvent, error)
}

// Config defines the listen address and per-client request budget.
type Config struct {
	Listen    string
	RateLimit float64
	Burst     int
}

// Server exposes usage queries and metrics over HTTP.
type Server struct {
	source  TimelineSource
	limiter *IPRateLimiter
	httpSrv *http.Server
}

func New(source TimelineSource, config Config) *Server {
	s := &Server{
		source:  source,
		limiter: NewIPRateLimiter(rate.Limit(config.RateLimit), config.Burst),
	}
	s.httpSrv = &http.Server{
		Addr:              config.Listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the routes of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /api/events", s.limiter.Limit(http.HandlerFunc(s.handleEvents)))
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return mux
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		util.LogInfof("Serving usage timeline on %s", s.httpSrv.Addr)
		errCh <- s.httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	util.LogInfo("Shutting down usage timeline server")
	return s.httpSrv.Shutdown(shutdownCtx)
}

// handleEvents serves GET /api/events?start=<epoch>&end=<epoch>.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	queryID := uuid.NewString()
	w.Header().Set("X-Query-ID", queryID)
	ctx := util.ContextWithQueryID(r.Context(), queryID)

	rng, err := parseRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	events, err := s.source.GetTimeline(ctx, rng)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		if errors.Is(err, model.ErrRangeTooWide) || errors.Is(err, model.ErrInvalidRange) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		util.LoggerFromContext(ctx).Errorf("Timeline request failed: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, events)
}

func parseRange(r *http.Request) (model.TimeRange, error) {
	query := r.URL.Query()
	start, err := parseParam(query.Get("start"), "start")
	if err != nil {
		return model.TimeRange{}, err
	}
	end, err := parseParam(query.Get("end"), "end")
	if err != nil {
		return model.TimeRange{}, err
	}
	return model.NewTimeRange(start, end)
}

func parseParam(value, name string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("missing %s parameter", name)
	}
	t, err := timestamp.Decode(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s parameter: %w", name, err)
	}
	return t, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	data, err := sonic.Marshal(v)
	if err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
