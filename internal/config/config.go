// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for the
// go-mind-keeper application. It aggregates all sub-configurations and is
// populated by merging values from environment variables, command-line flags,
// and an optional JSON file.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// Remote holds the hosted backend endpoint settings: base URL, the
	// public API key, and outbound request timeout.
	Remote Remote `envPrefix:"REMOTE_"`

	// Storage holds configuration for the local persistence backends: the
	// cache database and the shared app-group directory.
	Storage Storage `envPrefix:"STORAGE_"`

	// Vendors holds endpoints and keys for the content-enrichment vendor
	// APIs consumed by the pipeline.
	Vendors Vendors `envPrefix:"VENDORS_"`

	// Workers holds configuration for background worker processes.
	Workers Workers `envPrefix:"WORKERS_"`

	// Logs holds log output settings.
	Logs Logs `envPrefix:"LOGS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// Remote holds the hosted backend connection settings shared by the REST
// client, the realtime subscriber, and the object-storage uploader.
type Remote struct {
	// BaseURL is the root URL of the hosted backend
	// (e.g. "https://abc.supabase.co").
	// Env: REMOTE_BASE_URL
	BaseURL string `env:"BASE_URL"`

	// AnonKey is the public API key sent with every request alongside the
	// user's bearer token.
	// Env: REMOTE_ANON_KEY
	AnonKey string `env:"ANON_KEY"`

	// RequestTimeout is the default timeout for outbound requests to the
	// backend (e.g. "15s").
	// Env: REMOTE_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Storage groups the configuration for the local persistence backends.
type Storage struct {
	// CacheDSN is the SQLite file path of the local cache database owned
	// by the main app process.
	// Env: STORAGE_CACHE_DSN
	CacheDSN string `env:"CACHE_DSN"`

	// GroupDir is the app-group directory visible to both the main app
	// and the share-extension process. It holds the shared queue database
	// and the sealed credential of the shared-auth bridge.
	// Env: STORAGE_GROUP_DIR
	GroupDir string `env:"GROUP_DIR"`
}

// Vendors holds endpoints and credentials for the enrichment vendor APIs.
// Each vendor is independently swappable; empty values disable the vendor
// and make the corresponding pipeline stage fall back.
type Vendors struct {
	// ExtractorURL is the base URL of the metadata/HTML extraction service.
	// Env: VENDORS_EXTRACTOR_URL
	ExtractorURL string `env:"EXTRACTOR_URL"`

	// ExtractorKey authenticates requests to the extraction service.
	// Env: VENDORS_EXTRACTOR_KEY
	ExtractorKey string `env:"EXTRACTOR_KEY"`

	// FallbackExtractorURL is the base URL of the secondary extraction
	// service selected by the prefer-fallback-extractor preference.
	// Env: VENDORS_FALLBACK_EXTRACTOR_URL
	FallbackExtractorURL string `env:"FALLBACK_EXTRACTOR_URL"`

	// FallbackExtractorKey authenticates requests to the secondary
	// extraction service.
	// Env: VENDORS_FALLBACK_EXTRACTOR_KEY
	FallbackExtractorKey string `env:"FALLBACK_EXTRACTOR_KEY"`

	// TranscriberURL is the base URL of the video/audio transcription
	// service (submit + poll-by-id API).
	// Env: VENDORS_TRANSCRIBER_URL
	TranscriberURL string `env:"TRANSCRIBER_URL"`

	// TranscriberKey authenticates requests to the transcription service.
	// Env: VENDORS_TRANSCRIBER_KEY
	TranscriberKey string `env:"TRANSCRIBER_KEY"`

	// LLMURL is the base URL of the chat-completion endpoint used by the
	// summarization stage.
	// Env: VENDORS_LLM_URL
	LLMURL string `env:"LLM_URL"`

	// LLMKey authenticates requests to the chat-completion endpoint.
	// Env: VENDORS_LLM_KEY
	LLMKey string `env:"LLM_KEY"`

	// LLMModel is the model identifier requested for summarization.
	// Env: VENDORS_LLM_MODEL
	LLMModel string `env:"LLM_MODEL"`
}

// Workers holds configuration for background worker processes.
type Workers struct {
	// RefreshInterval defines how often the full cache-vs-remote refresh
	// runs (e.g. "5m").
	// Env: WORKERS_REFRESH_INTERVAL
	RefreshInterval time.Duration `env:"REFRESH_INTERVAL"`

	// DrainInterval defines the fallback polling interval for draining the
	// cross-process shared queue when no file-change event arrives.
	// Env: WORKERS_DRAIN_INTERVAL
	DrainInterval time.Duration `env:"DRAIN_INTERVAL"`

	// CleanupInterval defines how often the pending tracker purges stale
	// entries.
	// Env: WORKERS_CLEANUP_INTERVAL
	CleanupInterval time.Duration `env:"CLEANUP_INTERVAL"`
}

// Logs holds log output settings.
type Logs struct {
	// Dir is the directory for rotated client log files. Empty means the
	// executable's directory.
	// Env: LOGS_DIR
	Dir string `env:"DIR"`
}

// GetStructuredConfig loads, merges, and validates the application
// configuration from all available sources in the following priority order
// (last source wins for non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		build()
}
