// Package server exposes the evaluation engine over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"SalarySentinel/internal/engine"
	"SalarySentinel/internal/metrics"
	"SalarySentinel/internal/model"
)

const maxBodyBytes = 1 << 20

// Server serves the evaluation API.
type Server struct {
	engine *engine.Engine
	logger *zap.Logger
	router *mux.Router
}

// New builds the router.
func New(eng *engine.Engine, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{engine: eng, logger: logger.Named("http"), router: mux.NewRouter()}

	s.router.HandleFunc("/healthz", s.Health).Methods("GET")
	s.router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	api := s.router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/evaluate", s.Evaluate).Methods("POST")
	api.HandleFunc("/policy", s.Policy).Methods("GET")
	api.HandleFunc("/job-titles", s.JobTitles).Methods("GET")

	s.router.Use(s.logRequests)
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	s.logger.Info("http server stopped")
	return nil
}

// ThresholdOverride switches the threshold policy for a single request.
// Zero fields keep the configured value.
type ThresholdOverride struct {
	Policy     model.PolicyKind `json:"policy,omitempty"`
	Multiplier float64          `json:"multiplier,omitempty"`
	Percentile float64          `json:"percentile,omitempty"`
}

// EvaluateRequest is an employee record plus an optional policy override.
type EvaluateRequest struct {
	model.EmployeeRecord
	Threshold *ThresholdOverride `json:"threshold,omitempty"`
}

// Evaluate handles POST /api/v1/evaluate.
func (s *Server) Evaluate(w http.ResponseWriter, r *http.Request) {
	var req EvaluateRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", fmt.Sprintf("decode body: %v", err))
		return
	}

	eng := s.engine
	if req.Threshold != nil {
		var err error
		eng, err = s.engine.WithPolicy(req.Threshold.apply(s.engine.Policy()))
		if err != nil {
			s.respondEvalError(w, err)
			return
		}
	}

	ev, err := eng.Evaluate(req.EmployeeRecord)
	metrics.ObserveEvaluation("http", ev, err)
	if err != nil {
		s.logger.Warn("evaluation failed",
			zap.String("employee_id", req.EmployeeID),
			zap.String("job_title", string(req.JobTitle)),
			zap.Error(err))
		s.respondEvalError(w, err)
		return
	}
	if ev.Verdict.IsAnomaly {
		s.logger.Info("anomaly detected",
			zap.String("evaluation_id", ev.ID.String()),
			zap.String("employee_id", req.EmployeeID),
			zap.Float64("residual", ev.Verdict.Residual),
			zap.Float64("threshold", ev.Verdict.Threshold))
	}
	respondJSON(w, http.StatusOK, ev)
}

func (o *ThresholdOverride) apply(base model.ThresholdPolicy) model.ThresholdPolicy {
	p := base
	if o.Policy != "" {
		p.Kind = o.Policy
	}
	if o.Multiplier != 0 {
		p.Multiplier = o.Multiplier
	}
	if o.Percentile != 0 {
		p.Percentile = o.Percentile
	}
	return p
}

// Policy handles GET /api/v1/policy.
func (s *Server) Policy(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.engine.Describe())
}

// JobTitles handles GET /api/v1/job-titles.
func (s *Server) JobTitles(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"job_titles": s.engine.Encoder().Catalog().Titles(),
	})
}

// Health handles GET /healthz.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) respondEvalError(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("unexpected evaluation error", zap.Error(err))
	}
	respondError(w, status, model.ErrorCode(err), err.Error())
}

// StatusFor maps an evaluation error to an HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrModelUnavailable):
		return http.StatusServiceUnavailable
	case model.ErrorCode(err) != "internal":
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)))
	})
}

// encodeFailure is written when a response body cannot be encoded.
var encodeFailure = []byte(`{"error":"internal","message":"encode response"}` + "\n")

// respondJSON encodes data before writing the header, so an encoding failure
// becomes a 500 rather than a success with an empty body.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	body, err := json.Marshal(data)
	w.Header().Set("Content-Type", "application/json")
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write(encodeFailure)
		return
	}
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, map[string]string{"error": code, "message": message})
}
