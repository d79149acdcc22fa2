package config

import "errors"

// Validation errors returned by the per-process view validators when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidRemoteConfigs indicates invalid backend settings
	// (for example, missing base URL or anon key).
	ErrInvalidRemoteConfigs = errors.New("invalid remote configuration")
	// ErrInvalidStorageConfigs indicates invalid local storage settings
	// (for example, empty cache DSN, in-memory DSN, or missing group dir).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidWorkerConfigs indicates invalid background worker settings
	// (for example, a non-positive interval).
	ErrInvalidWorkerConfigs = errors.New("invalid worker configuration")
)
