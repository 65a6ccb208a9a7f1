// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The studysync Authors

// Package app holds the user-facing message catalog shared across the
// subsystem. Raw backend and store errors never reach the UI; they are mapped
// onto these messages at the session boundary.
package app

const (
	// MsgSessionExpired is shown when the backend rejects the session token.
	MsgSessionExpired = "your session has expired, please sign in again"

	// MsgBackendUnavailable is shown on transient backend failures.
	MsgBackendUnavailable = "the server is temporarily unreachable, changes will sync later"

	// MsgSyncInterrupted is shown when a cycle was cancelled mid-flight.
	MsgSyncInterrupted = "sync was interrupted, changes will sync later"

	// MsgSyncFailed is the fallback for everything else.
	MsgSyncFailed = "sync failed, changes are kept locally"

	// MsgItemsNeedAttention announces permanently failed items; formatted
	// with the item count.
	MsgItemsNeedAttention = "%d items could not be synced and need attention"
)
