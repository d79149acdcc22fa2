package config

import (
	"flag"
	"time"
)

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-remote-url backend base URL
//	-anon-key backend public API key
//	-request-timeout outbound request timeout (e.g., "15s")
//	-cache-dsn local cache SQLite file path
//	-group-dir shared app-group directory path
//	-extractor-url metadata extraction service base URL
//	-transcriber-url transcription service base URL
//	-llm-url chat-completion endpoint base URL
//	-refresh-interval full refresh interval (e.g., "5m")
//	-drain-interval queue drain fallback interval (e.g., "30s")
//	-cleanup-interval tracker cleanup interval (e.g., "1m")
//	-logs-dir rotated log file directory
//	-c/-config json file path with configs
func ParseFlags() *StructuredConfig {
	var remoteURL string
	var anonKey string
	var requestTimeout time.Duration
	var cacheDSN string
	var groupDir string
	var extractorURL string
	var transcriberURL string
	var llmURL string
	var refreshInterval time.Duration
	var drainInterval time.Duration
	var cleanupInterval time.Duration
	var logsDir string
	var jsonConfigPath string

	flag.StringVar(&remoteURL, "remote-url", "", "Backend base URL")
	flag.StringVar(&anonKey, "anon-key", "", "Backend public API key")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 15s)")
	flag.StringVar(&cacheDSN, "cache-dsn", "", "Local cache SQLite file path")
	flag.StringVar(&groupDir, "group-dir", "", "Shared app-group directory")
	flag.StringVar(&extractorURL, "extractor-url", "", "Metadata extractor base URL")
	flag.StringVar(&transcriberURL, "transcriber-url", "", "Transcriber base URL")
	flag.StringVar(&llmURL, "llm-url", "", "Chat-completion endpoint base URL")
	flag.DurationVar(&refreshInterval, "refresh-interval", 0, "Full refresh interval (e.g., 5m)")
	flag.DurationVar(&drainInterval, "drain-interval", 0, "Queue drain fallback interval (e.g., 30s)")
	flag.DurationVar(&cleanupInterval, "cleanup-interval", 0, "Tracker cleanup interval (e.g., 1m)")
	flag.StringVar(&logsDir, "logs-dir", "", "Rotated log file directory")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")

	flag.Parse()

	return &StructuredConfig{
		Remote: Remote{
			BaseURL:        remoteURL,
			AnonKey:        anonKey,
			RequestTimeout: requestTimeout,
		},
		Storage: Storage{
			CacheDSN: cacheDSN,
			GroupDir: groupDir,
		},
		Vendors: Vendors{
			ExtractorURL:   extractorURL,
			TranscriberURL: transcriberURL,
			LLMURL:         llmURL,
		},
		Workers: Workers{
			RefreshInterval: refreshInterval,
			DrainInterval:   drainInterval,
			CleanupInterval: cleanupInterval,
		},
		Logs:         Logs{Dir: logsDir},
		JSONFilePath: jsonConfigPath,
	}
}
