// Package server exposes the decision pipeline over a small web UI, along
// with health and Prometheus metrics endpoints.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"verdict/internal/history"
	"verdict/internal/workflow"
)

// Runner is the server-facing subset of the pipeline.
type Runner interface {
	Run(ctx context.Context, query string) (*workflow.State, error)
}

// Server renders the web UI over one preloaded dataset.
type Server struct {
	pipeline    Runner
	store       *history.Store
	datasetPath string
	summary     string
	docCount    int
	log         *slog.Logger
}

// Config assembles a Server.
type Config struct {
	Pipeline    Runner
	Store       *history.Store // optional; nil disables history
	DatasetPath string
	Summary     string
	DocCount    int
	Logger      *slog.Logger
}

func New(cfg Config) *Server {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		pipeline:    cfg.Pipeline,
		store:       cfg.Store,
		datasetPath: cfg.DatasetPath,
		summary:     cfg.Summary,
		docCount:    cfg.DocCount,
		log:         log,
	}
}

// Handler returns the full HTTP handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /decide", s.handleDecide)
	mux.HandleFunc("GET /history", s.handleHistory)
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.Handle("GET /metrics", promhttp.Handler())
	return s.recovery(s.logging(mux))
}

// ListenAndServe runs the server until the context is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.log.Info("web UI listening", "addr", addr)
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, "index", indexData{
		DatasetPath: s.datasetPath,
		Summary:     s.summary,
		DocCount:    s.docCount,
	})
}

func (s *Server) handleDecide(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	query := r.PostFormValue("query")
	st, err := s.pipeline.Run(r.Context(), query)
	// Failed runs are persisted too; the state is non-nil whenever the
	// pipeline got past query validation.
	if s.store != nil && st != nil {
		if _, saveErr := s.store.SaveRun(st, s.datasetPath); saveErr != nil {
			s.log.Warn("saving session failed", "error", saveErr)
		}
	}
	if err != nil {
		s.renderError(w, query, err)
		return
	}
	s.render(w, "result", resultData{
		Query:          st.Query,
		Options:        st.Options,
		Analyses:       st.Analyses,
		Recommendation: st.Recommendation.Text,
		Duration:       st.FinishedAt.Sub(st.StartedAt).Round(time.Millisecond),
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		http.Error(w, "history disabled", http.StatusNotFound)
		return
	}
	sessions, err := s.store.List(20)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.render(w, "history", historyData{Sessions: sessions})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// logging emits one structured log entry per request.
func (s *Server) logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start),
		)
	})
}

// recovery converts handler panics into 500 responses.
func (s *Server) recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.log.Error("handler panic", "panic", rec, "path", r.URL.Path)
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
