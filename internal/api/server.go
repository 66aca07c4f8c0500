// Package api exposes the analysis pipeline over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/clearbuy/clearbuy-cli/internal/analyzer"
	"github.com/clearbuy/clearbuy-cli/internal/config"
	"github.com/clearbuy/clearbuy-cli/internal/fetch"
	"github.com/clearbuy/clearbuy-cli/internal/model"
	"github.com/clearbuy/clearbuy-cli/internal/store"
)

// Server handles HTTP analysis requests. Analyses run asynchronously as
// jobs; clients poll the job endpoint for results.
type Server struct {
	analyzer *analyzer.Analyzer
	store    store.Store
	router   chi.Router

	// jobTimeout bounds a single background analysis.
	jobTimeout time.Duration
}

// NewServer wires routes, CORS, and rate limiting.
func NewServer(a *analyzer.Analyzer, st store.Store, rl config.RateLimitConfig) *Server {
	s := &Server{
		analyzer:   a,
		store:      st,
		jobTimeout: 2 * time.Minute,
	}

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", s.handleHealth)
	r.Group(func(r chi.Router) {
		r.Use(newIPLimiter(rl).middleware)
		r.Post("/analyze", s.handleAnalyze)
		r.Get("/jobs/{id}", s.handleGetJob)
		r.Get("/history", s.handleHistory)
		r.Get("/mrp-check", s.handleMRPCheck)
	})

	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !validProductURL(req.URL) {
		writeError(w, http.StatusBadRequest, "a valid http(s) product URL is required")
		return
	}

	job, err := s.store.CreateJob(r.Context(), req.URL)
	if err != nil {
		zap.L().Error("failed to create job", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to create analysis job")
		return
	}

	go s.runJob(job)

	writeJSON(w, http.StatusAccepted, map[string]string{
		"job_id": job.ID,
		"status": string(job.Status),
	})
}

// runJob executes one analysis in the background. It owns its own
// context: the request that spawned it has already returned.
func (s *Server) runJob(job *model.Job) {
	ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
	defer cancel()

	log := zap.L().With(zap.String("job_id", job.ID), zap.String("url", job.URL))

	if err := s.store.UpdateJobStatus(ctx, job.ID, model.JobRunning); err != nil {
		log.Error("failed to mark job running", zap.Error(err))
		return
	}

	report, err := s.analyzer.Analyze(ctx, job.URL)
	if err != nil {
		log.Warn("analysis failed", zap.Error(err))
		if ferr := s.store.FailJob(ctx, job.ID, failureMessage(err)); ferr != nil {
			log.Error("failed to mark job failed", zap.Error(ferr))
		}
		return
	}

	if err := s.store.CompleteJob(ctx, job.ID, report); err != nil {
		log.Error("failed to store job result", zap.Error(err))
		return
	}
	log.Info("job complete", zap.String("grade", string(report.Trust.Grade)))
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	job, err := s.store.GetJob(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusNotFound, "job not found")
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("url")
	if !validProductURL(rawURL) {
		writeError(w, http.StatusBadRequest, "a valid http(s) product URL is required")
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	points, err := s.analyzer.PriceHistory(r.Context(), rawURL, limit)
	if err != nil {
		zap.L().Error("history lookup failed", zap.String("url", rawURL), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load price history")
		return
	}
	if points == nil {
		points = []model.PricePoint{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"url":     rawURL,
		"history": points,
	})
}

func (s *Server) handleMRPCheck(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("url")
	if !validProductURL(rawURL) {
		writeError(w, http.StatusBadRequest, "a valid http(s) product URL is required")
		return
	}

	price, ok := optionalDecimal(r.URL.Query().Get("price"))
	if !ok {
		writeError(w, http.StatusBadRequest, "price must be a decimal number")
		return
	}
	mrp, ok := optionalDecimal(r.URL.Query().Get("mrp"))
	if !ok {
		writeError(w, http.StatusBadRequest, "mrp must be a decimal number")
		return
	}

	report, err := s.analyzer.MRPAuthenticity(r.Context(), rawURL, price, mrp)
	if err != nil {
		status, msg := fetchFailureStatus(err)
		writeError(w, status, msg)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// fetchFailureStatus maps a pipeline error onto an HTTP status.
func fetchFailureStatus(err error) (int, string) {
	var ferr *fetch.Error
	if errors.As(err, &ferr) {
		switch ferr.Kind {
		case fetch.KindBlocked:
			return http.StatusUnprocessableEntity, ferr.Message()
		default:
			return http.StatusBadGateway, ferr.Message()
		}
	}
	return http.StatusInternalServerError, "analysis failed"
}

func failureMessage(err error) string {
	var ferr *fetch.Error
	if errors.As(err, &ferr) {
		return ferr.Message()
	}
	return err.Error()
}

// optionalDecimal parses an optional query parameter. Empty input is a
// valid nil value; malformed input is reported with ok=false.
func optionalDecimal(raw string) (*decimal.Decimal, bool) {
	if raw == "" {
		return nil, true
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || d.Sign() <= 0 {
		return nil, false
	}
	return &d, true
}

func validProductURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("failed to encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
