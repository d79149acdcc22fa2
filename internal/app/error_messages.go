// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains shared application-layer constants used across the
// go-mind-keeper processes.
//
// All Msg* constants are human-readable message strings surfaced to the user
// (toasts, pending-item error rows) or written into log entries to describe
// the outcome of an operation. Keeping them in one place ensures consistent
// wording throughout the app.
package app

import (
	"errors"

	"github.com/MKhiriev/go-mind-keeper/internal/adapter"
	"github.com/MKhiriev/go-mind-keeper/internal/service"
	"github.com/MKhiriev/go-mind-keeper/internal/validators"
)

const (
	// MsgNotSignedIn is shown when an operation requires a signed-in user
	// but no session is active.
	MsgNotSignedIn = "sign in to continue"

	// MsgSessionExpired is shown when the backend rejects the bearer token
	// and the session could not be refreshed.
	MsgSessionExpired = "session expired, please sign in again"

	// MsgNothingToSave is shown when a share or create carries no usable
	// content at all.
	MsgNothingToSave = "nothing to save"

	// MsgInvalidLink is shown when the shared or entered URL cannot be
	// parsed as an http(s) link.
	MsgInvalidLink = "that link does not look valid"

	// MsgItemNotFound is shown when an edit or delete targets an item that
	// no longer exists locally.
	MsgItemNotFound = "item not found"

	// MsgSpaceNotFound is shown when an edit or delete targets a space that
	// no longer exists locally.
	MsgSpaceNotFound = "space not found"

	// MsgAlreadyExists is shown when the backend rejects a create because a
	// row with the same ID already exists.
	MsgAlreadyExists = "this item already exists"

	// MsgSaveFailed is shown when a change could not reach the backend and
	// was rolled back.
	MsgSaveFailed = "could not save, check your connection"

	// MsgEnrichmentFailed is shown on a pending row whose item was created
	// but could not be enriched.
	MsgEnrichmentFailed = "saved, but details could not be loaded"
)

// UserMessage maps an error from the service or adapter layer to the message
// shown to the user. Unrecognized errors collapse to the generic save
// failure: the cause is in the log, not the toast.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrNoUser):
		return MsgNotSignedIn
	case errors.Is(err, adapter.ErrUnauthorized):
		return MsgSessionExpired
	case errors.Is(err, service.ErrEmptyDraft), errors.Is(err, service.ErrEmptyShare):
		return MsgNothingToSave
	case errors.Is(err, validators.ErrInvalidURL):
		return MsgInvalidLink
	case errors.Is(err, service.ErrItemNotFound):
		return MsgItemNotFound
	case errors.Is(err, service.ErrSpaceNotFound):
		return MsgSpaceNotFound
	case errors.Is(err, adapter.ErrConflict):
		return MsgAlreadyExists
	default:
		return MsgSaveFailed
	}
}
