// Spendsight - Member Spend Propensity Recommendations
// Copyright 2026 Spendsight Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/spendsight/spendsight

// Package api provides the HTTP surface of Spendsight: routing, middleware,
// and handlers over the propensity core. All endpoints use a consistent
// response envelope.
package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/spendsight/spendsight/internal/logging"
)

// APIResponse is the standard envelope for all endpoints.
type APIResponse struct {
	// Status is "success" or "error".
	Status string `json:"status"`

	// Data contains the response payload (null on error).
	Data interface{} `json:"data,omitempty"`

	// Error contains error details (null on success).
	Error *APIError `json:"error,omitempty"`

	// Meta contains response metadata.
	Meta Meta `json:"meta"`
}

// APIError is a machine-readable error payload.
type APIError struct {
	// Code is a stable machine-readable error code.
	Code string `json:"code"`

	// Message is a human-readable explanation.
	Message string `json:"message"`
}

// Meta carries response metadata.
type Meta struct {
	// RequestID is the correlation identifier for tracing.
	RequestID string `json:"request_id,omitempty"`

	// Timestamp is when the response was generated.
	Timestamp time.Time `json:"timestamp"`
}

// Error codes returned by the API.
const (
	ErrCodeBadRequest       = "BAD_REQUEST"
	ErrCodeValidationFailed = "VALIDATION_FAILED"
	ErrCodeMemberNotFound   = "MEMBER_NOT_FOUND"
	ErrCodeIndexOutOfRange  = "INDEX_OUT_OF_RANGE"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeInternalError    = "INTERNAL_ERROR"
)

// respondJSON writes the envelope with the given status code.
func respondJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	writeEnvelope(w, status, &APIResponse{
		Status: "success",
		Data:   data,
		Meta:   Meta{RequestID: RequestIDFrom(r.Context()), Timestamp: time.Now().UTC()},
	})
}

// respondError writes an error envelope and logs the underlying cause.
func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, err error) {
	if err != nil {
		logging.Error().
			Str("code", code).
			Str("request_id", RequestIDFrom(r.Context())).
			Err(err).
			Msg("api error")
	}
	writeEnvelope(w, status, &APIResponse{
		Status: "error",
		Error:  &APIError{Code: code, Message: message},
		Meta:   Meta{RequestID: RequestIDFrom(r.Context()), Timestamp: time.Now().UTC()},
	})
}

func writeEnvelope(w http.ResponseWriter, status int, resp *APIResponse) {
	w.Header().Set("Content-Type", "application/json")

	body, err := json.Marshal(resp)
	if err != nil {
		logging.Error().Err(err).Msg("marshal response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		logging.Error().Err(err).Msg("write response")
	}
}
