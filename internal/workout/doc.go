// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LiftLog Contributors

// Package workout manages workouts and the exercises logged under them.
// Every operation is scoped to the owning user: a workout that belongs to
// someone else is reported as ErrNotFound.
package workout
