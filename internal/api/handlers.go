// Spendsight - Member Spend Propensity Recommendations
// Copyright 2026 Spendsight Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/spendsight/spendsight

package api

import (
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/spendsight/spendsight/internal/config"
	"github.com/spendsight/spendsight/internal/logging"
	"github.com/spendsight/spendsight/internal/metrics"
	"github.com/spendsight/spendsight/internal/propensity"
	"github.com/spendsight/spendsight/internal/stats"
)

// validate is the shared validator instance. validator caches struct
// metadata, so a singleton is the intended usage.
var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validator10() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Handler serves the Spendsight API over a matrix loaded at startup.
// The matrix is immutable, so Handler is safe for concurrent use.
type Handler struct {
	cfg       *config.Config
	mat       *propensity.Matrix
	idToIndex map[string]int
	logger    zerolog.Logger
}

// NewHandler builds a Handler over an already-loaded matrix. idToIndex may
// be nil, in which case member identifiers resolve by stable hash.
func NewHandler(cfg *config.Config, mat *propensity.Matrix, idToIndex map[string]int) *Handler {
	return &Handler{
		cfg:       cfg,
		mat:       mat,
		idToIndex: idToIndex,
		logger:    logging.With().Str("component", "api").Logger(),
	}
}

// HealthLive handles GET /api/v1/health/live.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, map[string]string{"status": "alive"})
}

// HealthReady handles GET /api/v1/health/ready. Readiness means the matrix
// is loaded and non-empty.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if h.mat == nil || h.mat.Rows() < 1 {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeInternalError,
			"propensity matrix not loaded", nil)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]interface{}{
		"status": "ready",
		"rows":   h.mat.Rows(),
	})
}

// Categories handles GET /api/v1/categories and returns the canonical
// category list in column order.
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, map[string]interface{}{
		"categories": propensity.Categories(),
	})
}

// statsRequest holds validated query parameters for the stats endpoint.
type statsRequest struct {
	TopPairs int `validate:"min=0,max=45"`
}

// Stats handles GET /api/v1/stats. Query param top_pairs (default 5) bounds
// the correlation pair list.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	req := statsRequest{TopPairs: 5}
	if s := r.URL.Query().Get("top_pairs"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest,
				"top_pairs must be an integer", err)
			return
		}
		req.TopPairs = n
	}
	if err := validator10().Struct(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidationFailed,
			"top_pairs must be between 0 and 45", err)
		return
	}

	respondJSON(w, r, http.StatusOK, map[string]interface{}{
		"rows":             h.mat.Rows(),
		"categories":       stats.Summarize(h.mat),
		"top_correlations": stats.TopCorrelations(h.mat, req.TopPairs),
	})
}

// recommendRequest holds validated parameters for the recommend endpoint.
type recommendRequest struct {
	MemberID     string `validate:"required,max=256"`
	K            int    `validate:"min=0"`
	MinThreshold float64
	Index        *int
}

// Recommend handles GET /api/v1/recommendations/member/{memberID}.
//
// Query parameters: k (default from config), min_threshold (default from
// config), index (explicit row override, takes priority over the identifier).
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	req := recommendRequest{
		MemberID:     chi.URLParam(r, "memberID"),
		K:            h.cfg.Recommend.TopK,
		MinThreshold: h.cfg.Recommend.MinThreshold,
	}

	q := r.URL.Query()
	if s := q.Get("k"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "k must be an integer", err)
			return
		}
		req.K = n
	}
	if s := q.Get("min_threshold"); s != "" {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "min_threshold must be a number", err)
			return
		}
		req.MinThreshold = f
	}
	if s := q.Get("index"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "index must be an integer", err)
			return
		}
		req.Index = &n
	}

	if err := validator10().Struct(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidationFailed, "invalid request parameters", err)
		return
	}

	start := time.Now()
	rec, err := propensity.Recommend(req.MemberID, propensity.Options{
		Data:         propensity.InMemory(h.mat),
		TopK:         req.K,
		MinThreshold: req.MinThreshold,
		IDToIndex:    h.idToIndex,
		MemberIndex:  req.Index,
	})
	elapsed := time.Since(start)

	if err != nil {
		switch {
		case errors.Is(err, propensity.ErrMemberNotFound):
			metrics.ObserveRecommendation("member_not_found", elapsed)
			respondError(w, r, http.StatusNotFound, ErrCodeMemberNotFound,
				"member id not present in the configured mapping", err)
		case errors.Is(err, propensity.ErrIndexOutOfRange):
			metrics.ObserveRecommendation("index_out_of_range", elapsed)
			respondError(w, r, http.StatusBadRequest, ErrCodeIndexOutOfRange,
				"member index outside the matrix", err)
		default:
			metrics.ObserveRecommendation("error", elapsed)
			respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError,
				"recommendation failed", err)
		}
		return
	}

	metrics.ObserveRecommendation("ok", elapsed)
	// A returned score below the threshold means the all-or-nothing
	// fallback fired.
	if n := len(rec.Recommendations); n > 0 && rec.Recommendations[n-1].Score < req.MinThreshold {
		metrics.ThresholdFallbacksTotal.Inc()
	}
	h.logger.Debug().
		Str("member_id", rec.MemberID).
		Int("member_index", rec.MemberIndex).
		Int("k", req.K).
		Dur("elapsed", elapsed).
		Msg("recommendation served")

	respondJSON(w, r, http.StatusOK, rec)
}
