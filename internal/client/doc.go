// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the main-process application runtime.
//
// It wires session restore, background workers, and the realtime change
// stream into a single process lifecycle.
package client
