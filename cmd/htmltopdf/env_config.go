package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-htmltopdf/internal/config"
)

// envPrefix starts every environment variable read by the CLI.
const envPrefix = "HTMLTOPDF_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string        // HTMLTOPDF_CONFIG: config file name or path
	Binary     string        // HTMLTOPDF_BINARY: wkhtmltopdf path
	Timeout    time.Duration // HTMLTOPDF_TIMEOUT: conversion timeout
	Workers    int           // HTMLTOPDF_WORKERS: batch workers
	LogLevel   string        // HTMLTOPDF_LOG_LEVEL: debug, info, warn, error
}

// knownEnvVars lists valid HTMLTOPDF_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"HTMLTOPDF_CONFIG":    true,
	"HTMLTOPDF_BINARY":    true,
	"HTMLTOPDF_TIMEOUT":   true,
	"HTMLTOPDF_WORKERS":   true,
	"HTMLTOPDF_LOG_LEVEL": true,
	"HTMLTOPDF_CONTAINER": true, // read by doctor
}

// loadEnvConfig reads configuration from environment variables.
// Invalid durations and counts are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("HTMLTOPDF_CONFIG"),
		Binary:     os.Getenv("HTMLTOPDF_BINARY"),
		LogLevel:   os.Getenv("HTMLTOPDF_LOG_LEVEL"),
	}

	if timeout := os.Getenv("HTMLTOPDF_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if workers := os.Getenv("HTMLTOPDF_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized HTMLTOPDF_* variables.
// Helps catch typos like HTMLTOPDF_BINARIES instead of HTMLTOPDF_BINARY.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, envPrefix) {
			name, _, _ := strings.Cut(env, "=")
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// Precedence: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via mergeFlags)
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Binary != "" {
		cfg.Binary = env.Binary
	}
	if env.Timeout > 0 {
		cfg.Timeout = env.Timeout.String()
	}
	if env.Workers > 0 {
		cfg.Workers = env.Workers
	}
	if env.LogLevel != "" {
		cfg.Log.Level = env.LogLevel
	}
}
