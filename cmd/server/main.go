// Spendsight - Member Spend Propensity Recommendations
// Copyright 2026 Spendsight Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/spendsight/spendsight

// Package main is the entry point for the Spendsight API server.
//
// The server initializes components in the following order:
//
//  1. Configuration: layered defaults, config file, and SPENDSIGHT_ env vars (Koanf v2)
//  2. Logging: zerolog, JSON by default
//  3. Matrix: the propensity matrix is loaded once at startup and served read-only
//  4. Member mapping (optional): JSON id-to-index file for explicit row lookup
//  5. HTTP server: Chi router with rate limiting, CORS, and Prometheus metrics
//
// The server refuses to boot on a missing or malformed matrix file: serving
// recommendations from nothing would only turn startup errors into request
// errors.
//
// Graceful shutdown on SIGINT and SIGTERM waits for in-flight requests up to
// server.shutdown_timeout.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spendsight/spendsight/internal/api"
	"github.com/spendsight/spendsight/internal/config"
	"github.com/spendsight/spendsight/internal/logging"
	"github.com/spendsight/spendsight/internal/metrics"
	"github.com/spendsight/spendsight/internal/propensity"
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		// Use default logger for config errors (config not yet available)
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Timestamp: true,
	})

	logging.Info().
		Str("data_path", cfg.Data.Path).
		Str("addr", cfg.Server.Addr()).
		Msg("Starting Spendsight")

	start := time.Now()
	mat, err := propensity.Load(cfg.Data.Path)
	if err != nil {
		logging.Fatal().Err(err).Str("path", cfg.Data.Path).Msg("Failed to load propensity matrix")
	}
	metrics.ObserveMatrixLoad(mat.Rows(), time.Since(start))
	logging.Info().
		Int("rows", mat.Rows()).
		Int("cols", mat.Cols()).
		Dur("elapsed", time.Since(start)).
		Msg("Propensity matrix loaded")

	var idToIndex map[string]int
	if cfg.Data.IDToIndexPath != "" {
		idToIndex, err = propensity.LoadIDToIndex(cfg.Data.IDToIndexPath)
		if err != nil {
			logging.Fatal().Err(err).Str("path", cfg.Data.IDToIndexPath).Msg("Failed to load member mapping")
		}
		logging.Info().Int("members", len(idToIndex)).Msg("Member mapping loaded")
	} else {
		logging.Info().Msg("No member mapping configured, identifiers resolve by stable hash")
	}

	handler := api.NewHandler(cfg, mat, idToIndex)
	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      api.NewRouter(cfg, handler),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		errCh <- server.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("HTTP server error")
		}
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logging.Error().Err(err).Msg("Graceful shutdown failed")
		if err := server.Close(); err != nil {
			logging.Error().Err(err).Msg("Forced close failed")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}
