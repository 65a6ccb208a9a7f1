// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The studysync Authors

// Package client implements the sync client runtime.
//
// It wires configuration, local storage, the backend adapter and the
// session-scoped sync services into a single process lifecycle. Every sign-in
// constructs a fresh session; sign-out tears it down completely, so no sync
// state ever leaks between users.
package client
