// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LiftLog Contributors

// Package auth provides registration, credential checks and browser
// sessions for LiftLog.
//
// # Domain Types
//
// User and Session values should be created with NewUser and NewSession,
// which validate their invariants. Repository implementations receive
// pre-validated values from these constructors.
//
// # Services
//
//   - Service registers users and checks credentials
//   - SessionStore maps opaque session tokens to users
//
// Both are created with constructors that reject nil dependencies.
package auth
