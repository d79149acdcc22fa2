// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "strings"

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// Currently a no-op placeholder; the per-process views carry the real
// validation rules because the two binaries require different subsets.
//
// Returns nil if the configuration is valid, or a descriptive error otherwise.
func (cfg *StructuredConfig) validate() error {
	return nil
}

func (cfg *AppConfig) validate() error {
	if cfg.Storage.CacheDSN == "" || strings.Contains(cfg.Storage.CacheDSN, "memory") {
		return ErrInvalidStorageConfigs
	}

	if cfg.Storage.GroupDir == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Remote.BaseURL == "" || cfg.Remote.AnonKey == "" {
		return ErrInvalidRemoteConfigs
	}

	if cfg.Workers.RefreshInterval <= 0 || cfg.Workers.DrainInterval <= 0 || cfg.Workers.CleanupInterval <= 0 {
		return ErrInvalidWorkerConfigs
	}

	return nil
}

func (cfg *ShareConfig) validate() error {
	if cfg.GroupDir == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Remote.BaseURL == "" || cfg.Remote.AnonKey == "" {
		return ErrInvalidRemoteConfigs
	}

	return nil
}
