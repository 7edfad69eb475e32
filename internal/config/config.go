// Spendsight - Member Spend Propensity Recommendations
// Copyright 2026 Spendsight Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/spendsight/spendsight

// Package config loads Spendsight configuration with Koanf v2.
//
// Sources are layered, highest priority last:
//
//  1. Built-in defaults
//  2. Config file (config.yaml, or CONFIG_PATH)
//  3. SPENDSIGHT_-prefixed environment variables
//
// Example: SPENDSIGHT_SERVER_PORT=9090 overrides server.port.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// ConfigPathEnvVar overrides the config file search path.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultConfigPaths lists where config files are searched, in order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/spendsight/config.yaml",
	"/etc/spendsight/config.yml",
}

// Config is the root configuration for the server and tools.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Data      DataConfig      `koanf:"data"`
	Recommend RecommendConfig `koanf:"recommend"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the listen address.
	Host string `koanf:"host"`

	// Port is the listen port.
	Port int `koanf:"port" validate:"min=1,max=65535"`

	// ReadTimeout bounds request reading.
	ReadTimeout time.Duration `koanf:"read_timeout"`

	// WriteTimeout bounds response writing.
	WriteTimeout time.Duration `koanf:"write_timeout"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// RateLimit is the allowed requests per window per client IP.
	RateLimit int `koanf:"rate_limit" validate:"min=1"`

	// RateLimitWindow is the rate limiting window.
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`

	// CORSOrigins lists allowed origins. ["*"] allows any.
	CORSOrigins []string `koanf:"cors_origins"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DataConfig holds matrix data settings.
type DataConfig struct {
	// Path is the propensity matrix file (.npy or raw float64).
	Path string `koanf:"path" validate:"required"`

	// IDToIndexPath optionally points at a JSON file mapping member
	// identifiers to row indices. Empty means hash-based selection.
	IDToIndexPath string `koanf:"id_to_index_path"`
}

// RecommendConfig holds recommendation defaults applied when a request does
// not specify its own.
type RecommendConfig struct {
	// TopK is the default number of categories returned.
	TopK int `koanf:"top_k" validate:"min=0"`

	// MinThreshold is the default minimum propensity score.
	MinThreshold float64 `koanf:"min_threshold"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level.
	Level string `koanf:"level" validate:"oneof=trace debug info warn error fatal panic disabled"`

	// Format is json or console.
	Format string `koanf:"format" validate:"oneof=json console"`
}

// defaultConfig returns the built-in defaults, applied before file and env
// layers.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			RateLimit:       100,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"*"},
		},
		Data: DataConfig{
			Path: "spend_propensity.ndarray",
		},
		Recommend: RecommendConfig{
			TopK:         3,
			MinThreshold: 0.0,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Validate checks the configuration with go-playground/validator and returns
// the first violation as a readable error.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	err := v.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Errorf("config field %s failed %q validation (value %v)",
			fe.Namespace(), fe.Tag(), fe.Value())
	}
	return err
}

// findConfigFile returns the first existing config file path, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// envTransform maps SPENDSIGHT_ environment variables to koanf paths.
// The first underscore after the prefix becomes the section separator:
//
//	SPENDSIGHT_SERVER_PORT        -> server.port
//	SPENDSIGHT_SERVER_RATE_LIMIT  -> server.rate_limit
//	SPENDSIGHT_DATA_PATH          -> data.path
func envTransform(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, "SPENDSIGHT_"))
	return strings.Replace(key, "_", ".", 1)
}
