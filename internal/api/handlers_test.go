// Spendsight - Member Spend Propensity Recommendations
// Copyright 2026 Spendsight Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/spendsight/spendsight

package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/spendsight/spendsight/internal/config"
	"github.com/spendsight/spendsight/internal/propensity"
)

// newTestRouter builds a router over the two-member reference matrix.
func newTestRouter(t *testing.T, idToIndex map[string]int) http.Handler {
	t.Helper()

	mat, err := propensity.MatrixFromRows([][]float64{
		{0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1},
		{0.0, 0.5, 0.2, 0.1, 0.0, 0.3, 0.0, 0.4, 0.2, 0.1},
	})
	if err != nil {
		t.Fatalf("MatrixFromRows() error = %v", err)
	}

	cfg := &config.Config{
		Server: config.ServerConfig{
			RateLimit:       1000,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"*"},
		},
		Recommend: config.RecommendConfig{TopK: 3, MinThreshold: 0},
	}
	return NewRouter(cfg, NewHandler(cfg, mat, idToIndex))
}

// doGet performs a request and decodes the envelope.
func doGet(t *testing.T, router http.Handler, path string) (*httptest.ResponseRecorder, APIResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	var env APIResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (body %s)", err, rr.Body.String())
	}
	return rr, env
}

func TestRecommendEndpoint(t *testing.T) {
	router := newTestRouter(t, nil)

	rr, env := doGet(t, router, "/api/v1/recommendations/member/member-x?index=1&k=2")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rr.Code, rr.Body.String())
	}
	if env.Status != "success" {
		t.Fatalf("envelope status = %q", env.Status)
	}

	raw, _ := json.Marshal(env.Data)
	var rec propensity.Recommendation
	if err := json.Unmarshal(raw, &rec); err != nil {
		t.Fatalf("decode recommendation: %v", err)
	}

	if rec.MemberID != "member-x" {
		t.Errorf("MemberID = %q", rec.MemberID)
	}
	if rec.MemberIndex != 1 {
		t.Errorf("MemberIndex = %d, want 1", rec.MemberIndex)
	}
	if len(rec.Recommendations) != 2 {
		t.Fatalf("len(Recommendations) = %d, want 2", len(rec.Recommendations))
	}
	if rec.Recommendations[0].Category != "Health" || rec.Recommendations[0].Score != 0.5 {
		t.Errorf("top = %+v, want Health 0.5", rec.Recommendations[0])
	}
	if rec.Recommendations[1].Category != "Food&Beverage" {
		t.Errorf("second = %+v, want Food&Beverage", rec.Recommendations[1])
	}
}

func TestRecommendEndpointErrors(t *testing.T) {
	tests := []struct {
		name       string
		mapping    map[string]int
		path       string
		wantStatus int
		wantCode   string
	}{
		{
			name:       "index out of range",
			path:       "/api/v1/recommendations/member/m?index=99",
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrCodeIndexOutOfRange,
		},
		{
			name:       "negative index",
			path:       "/api/v1/recommendations/member/m?index=-1",
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrCodeIndexOutOfRange,
		},
		{
			name:       "mapping miss",
			mapping:    map[string]int{"alice": 0},
			path:       "/api/v1/recommendations/member/ghost",
			wantStatus: http.StatusNotFound,
			wantCode:   ErrCodeMemberNotFound,
		},
		{
			name:       "non-numeric k",
			path:       "/api/v1/recommendations/member/m?k=lots",
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrCodeBadRequest,
		},
		{
			name:       "negative k",
			path:       "/api/v1/recommendations/member/m?k=-2",
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrCodeValidationFailed,
		},
		{
			name:       "non-numeric threshold",
			path:       "/api/v1/recommendations/member/m?min_threshold=high",
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrCodeBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(t, tt.mapping)
			rr, env := doGet(t, router, tt.path)
			if rr.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rr.Code, tt.wantStatus)
			}
			if env.Status != "error" || env.Error == nil {
				t.Fatalf("envelope = %+v, want error", env)
			}
			if env.Error.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", env.Error.Code, tt.wantCode)
			}
		})
	}
}

func TestRecommendEndpointThresholdFallback(t *testing.T) {
	router := newTestRouter(t, nil)

	// Threshold excludes every category of the flat 0.1 row; the fallback
	// still returns k entries.
	_, env := doGet(t, router, "/api/v1/recommendations/member/m?index=0&k=3&min_threshold=0.9")

	raw, _ := json.Marshal(env.Data)
	var rec propensity.Recommendation
	if err := json.Unmarshal(raw, &rec); err != nil {
		t.Fatalf("decode recommendation: %v", err)
	}
	if len(rec.Recommendations) != 3 {
		t.Errorf("len(Recommendations) = %d, want 3", len(rec.Recommendations))
	}
}

func TestCategoriesEndpoint(t *testing.T) {
	router := newTestRouter(t, nil)

	rr, env := doGet(t, router, "/api/v1/categories")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}

	data, ok := env.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("data = %T", env.Data)
	}
	cats, ok := data["categories"].([]interface{})
	if !ok || len(cats) != propensity.NumCategories {
		t.Fatalf("categories = %v", data["categories"])
	}
	if cats[0] != "Transportation" || cats[9] != "Others" {
		t.Errorf("category order wrong: %v", cats)
	}
}

func TestStatsEndpoint(t *testing.T) {
	router := newTestRouter(t, nil)

	rr, env := doGet(t, router, "/api/v1/stats?top_pairs=3")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d (body %s)", rr.Code, rr.Body.String())
	}
	data, ok := env.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("data = %T", env.Data)
	}
	if data["rows"] != float64(2) {
		t.Errorf("rows = %v, want 2", data["rows"])
	}
	if _, ok := data["categories"]; !ok {
		t.Error("missing categories summary")
	}

	rr, _ = doGet(t, router, "/api/v1/stats?top_pairs=999")
	if rr.Code != http.StatusBadRequest {
		t.Errorf("oversized top_pairs: status = %d, want 400", rr.Code)
	}
}

func TestHealthEndpoints(t *testing.T) {
	router := newTestRouter(t, nil)

	rr, _ := doGet(t, router, "/api/v1/health/live")
	if rr.Code != http.StatusOK {
		t.Errorf("live status = %d", rr.Code)
	}
	rr, _ = doGet(t, router, "/api/v1/health/ready")
	if rr.Code != http.StatusOK {
		t.Errorf("ready status = %d", rr.Code)
	}
}

func TestRequestIDEchoed(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/categories", nil)
	req.Header.Set("X-Request-ID", "trace-123")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if got := rr.Header().Get("X-Request-ID"); got != "trace-123" {
		t.Errorf("X-Request-ID = %q, want trace-123", got)
	}

	var env APIResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if env.Meta.RequestID != "trace-123" {
		t.Errorf("meta request_id = %q, want trace-123", env.Meta.RequestID)
	}
}

func TestRequestIDGenerated(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/categories", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID not generated")
	}
}

func TestMetricsEndpointMounted(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("metrics status = %d", rr.Code)
	}
}
