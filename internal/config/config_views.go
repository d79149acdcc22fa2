package config

import (
	"fmt"
	"time"
)

// AppConfig is the configuration view consumed by the main app process.
type AppConfig struct {
	// Remote contains backend endpoint settings.
	Remote Remote
	// Storage contains local persistence settings.
	Storage Storage
	// Vendors contains enrichment vendor endpoints and keys.
	Vendors Vendors
	// Workers contains background job settings.
	Workers Workers
	// Logs contains log output settings.
	Logs Logs
}

// ShareConfig is the narrower configuration view consumed by the
// share-extension process. It deliberately omits vendor and worker settings:
// the extension only writes (directly or via the queue), it never enriches.
type ShareConfig struct {
	// Remote contains backend endpoint settings.
	Remote Remote
	// GroupDir is the shared app-group directory holding the queue database
	// and the sealed credential.
	GroupDir string
	// Logs contains log output settings.
	Logs Logs
}

// GetAppConfig builds and validates the main-app config view from the merged
// structured configuration, applying defaults for optional intervals.
func GetAppConfig() (*AppConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	appCfg := &AppConfig{
		Remote:  cfg.Remote,
		Storage: cfg.Storage,
		Vendors: cfg.Vendors,
		Workers: cfg.Workers,
		Logs:    cfg.Logs,
	}
	appCfg.applyDefaults()

	return appCfg, appCfg.validate()
}

// GetShareConfig builds and validates the share-extension config view from
// the merged structured configuration.
func GetShareConfig() (*ShareConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	shareCfg := &ShareConfig{
		Remote:   cfg.Remote,
		GroupDir: cfg.Storage.GroupDir,
		Logs:     cfg.Logs,
	}
	if shareCfg.Remote.RequestTimeout == 0 {
		shareCfg.Remote.RequestTimeout = 15 * time.Second
	}

	return shareCfg, shareCfg.validate()
}

func (cfg *AppConfig) applyDefaults() {
	if cfg.Remote.RequestTimeout == 0 {
		cfg.Remote.RequestTimeout = 15 * time.Second
	}
	if cfg.Workers.RefreshInterval == 0 {
		cfg.Workers.RefreshInterval = 5 * time.Minute
	}
	if cfg.Workers.DrainInterval == 0 {
		cfg.Workers.DrainInterval = 30 * time.Second
	}
	if cfg.Workers.CleanupInterval == 0 {
		cfg.Workers.CleanupInterval = time.Minute
	}
}
