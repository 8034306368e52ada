// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LiftLog Contributors

package auth

import (
	"errors"

	"github.com/samber/oops"

	"github.com/liftlog/liftlog/internal/validate"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// Conflicts reported by UserRepository.Create when a unique constraint
// rejects the insert.
var (
	ErrUsernameTaken = errors.New("username already registered")
	ErrEmailTaken    = errors.New("email already registered")
)

// Authentication outcomes, matched with errors.Is. Service returns them
// wrapped in an oops error carrying a code and the message shown to the
// user, readable with oops.GetPublic.
var (
	ErrMissingCredentials = errors.New("username and password are required")

	// ErrInvalidCredentials covers both unknown usernames and wrong
	// passwords so callers cannot tell them apart.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrCorruptAccount means the stored password hash cannot be read.
	ErrCorruptAccount = errors.New("stored password hash is unreadable")
)

// Public messages for the authentication outcomes.
const (
	MsgInvalidCredentials = "Username or password is incorrect."
	MsgCorruptAccount     = "This user is corrupt. Please contact the administrator."
)

// ErrNoSession is returned by SessionStore.CurrentUser when the token does
// not identify a live session. Storage failures never match it.
var ErrNoSession = errors.New("no active session")

// oops.OopsError.Is matches any other oops error, so sentinels stay plain
// errors and the code rides on the wrapper.
func missingCredentials() error {
	return oops.Code("AUTH_MISSING_FIELDS").Public(validate.MsgAllFieldsRequired).Wrap(ErrMissingCredentials)
}

func invalidCredentials() error {
	return oops.Code("AUTH_INVALID_CREDENTIALS").Public(MsgInvalidCredentials).Wrap(ErrInvalidCredentials)
}

func corruptAccount(cause error) error {
	return oops.Code("AUTH_CORRUPT_ACCOUNT").
		Public(MsgCorruptAccount).
		With("cause", cause.Error()).
		Wrap(ErrCorruptAccount)
}

func noSession(reason string) error {
	return oops.Code("SESSION_NONE").With("reason", reason).Wrap(ErrNoSession)
}
