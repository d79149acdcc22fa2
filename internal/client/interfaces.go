// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import "context"

// Client defines the minimal lifecycle contract for runnable application
// processes.
type Client interface {
	// Run starts the process and blocks until ctx is cancelled.
	Run(ctx context.Context) error
}
