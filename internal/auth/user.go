// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LiftLog Contributors

package auth

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Defaults for newly registered users.
const (
	DefaultLevel     = 1
	DefaultLevelName = "Newbie"
)

// User represents a registered account.
type User struct {
	ID           ulid.ULID
	Username     string
	Email        string
	PasswordHash string
	TOSAccepted  bool
	Level        int
	LevelName    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser creates a User with default level values. The caller is
// responsible for field validation; NewUser only guards invariants the
// storage layer relies on.
func NewUser(username, email, passwordHash string, tosAccepted bool) (*User, error) {
	if username == "" {
		return nil, oops.Code("USER_INVALID_USERNAME").Errorf("username cannot be empty")
	}
	if email == "" {
		return nil, oops.Code("USER_INVALID_EMAIL").Errorf("email cannot be empty")
	}
	if passwordHash == "" {
		return nil, oops.Code("USER_INVALID_HASH").Errorf("password hash cannot be empty")
	}

	now := time.Now().UTC()
	return &User{
		ID:           ulid.Make(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		TOSAccepted:  tosAccepted,
		Level:        DefaultLevel,
		LevelName:    DefaultLevelName,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// RegistrationFields are the values submitted on the registration form.
type RegistrationFields struct {
	Username             string
	Email                string
	Password             string
	PasswordConfirmation string
	AcceptTerms          bool
}

// UserRepository manages user persistence.
type UserRepository interface {
	// Create stores a new user. Returns ErrUsernameTaken or ErrEmailTaken
	// when a unique constraint rejects the row.
	Create(ctx context.Context, user *User) error

	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, id ulid.ULID) (*User, error)

	// GetByUsername retrieves a user by exact username.
	GetByUsername(ctx context.Context, username string) (*User, error)

	// UsernameExists reports whether the username is registered.
	UsernameExists(ctx context.Context, username string) (bool, error)

	// EmailExists reports whether the email is registered.
	EmailExists(ctx context.Context, email string) (bool, error)
}
