// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LiftLog Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/samber/oops"

	"github.com/liftlog/liftlog/internal/validate"
)

// dummyPassword is hashed once and verified against when a username is
// unknown, so a failed lookup costs as much as a wrong password.
const dummyPassword = "liftlog-timing-equalizer"

// Service registers and authenticates users.
type Service struct {
	users  UserRepository
	hasher PasswordHasher
	logger *slog.Logger

	dummyOnce sync.Once
	dummyHash string
}

// NewService creates a new authentication service.
func NewService(users UserRepository, hasher PasswordHasher) (*Service, error) {
	return NewServiceWithLogger(users, hasher, slog.Default())
}

// NewServiceWithLogger creates a new authentication service with a custom logger.
func NewServiceWithLogger(users UserRepository, hasher PasswordHasher, logger *slog.Logger) (*Service, error) {
	if users == nil {
		return nil, oops.Code("AUTH_INVALID_SERVICE").Errorf("user repository is required")
	}
	if hasher == nil {
		return nil, oops.Code("AUTH_INVALID_SERVICE").Errorf("password hasher is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{users: users, hasher: hasher, logger: logger}, nil
}

// Register validates the submitted fields and creates the user. Every
// violated rule is reported at once through a *validate.Errors; storage
// failures are returned as oops errors.
func (s *Service) Register(ctx context.Context, fields RegistrationFields) (*User, error) {
	errs := validate.NewErrors(validate.Username(fields.Username)...)

	taken, err := s.users.UsernameExists(ctx, fields.Username)
	if err != nil {
		return nil, oops.Code("USER_LOOKUP_FAILED").With("operation", "username exists").Wrap(err)
	}
	if taken {
		errs.Add(validate.MsgUsernameTaken)
	}

	emailMsgs, checkEmail := validate.Email(fields.Email)
	errs.Add(emailMsgs...)
	if checkEmail {
		taken, err := s.users.EmailExists(ctx, fields.Email)
		if err != nil {
			return nil, oops.Code("USER_LOOKUP_FAILED").With("operation", "email exists").Wrap(err)
		}
		if taken {
			errs.Add(validate.MsgEmailTaken)
		}
	}

	errs.Add(validate.Password(fields.Password, fields.PasswordConfirmation)...)
	errs.Add(validate.Terms(fields.AcceptTerms)...)

	if !errs.Empty() {
		return nil, errs
	}

	hash, err := s.hasher.Hash(fields.Password)
	if err != nil {
		return nil, oops.Code("USER_CREATE_FAILED").With("operation", "hash password").Wrap(err)
	}

	user, err := NewUser(fields.Username, fields.Email, hash, true)
	if err != nil {
		return nil, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		// A concurrent registration can win the race between the existence
		// checks above and this insert.
		switch {
		case errors.Is(err, ErrUsernameTaken):
			return nil, validate.NewErrors(validate.MsgUsernameTaken)
		case errors.Is(err, ErrEmailTaken):
			return nil, validate.NewErrors(validate.MsgEmailTaken)
		}
		return nil, oops.Code("USER_CREATE_FAILED").With("username", user.Username).Wrap(err)
	}

	s.logger.Info("user registered", "user_id", user.ID.String(), "username", user.Username)
	return user, nil
}

// Authenticate checks a username and password. Unknown usernames and wrong
// passwords both return ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*User, error) {
	if username == "" || password == "" {
		return nil, missingCredentials()
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.burnDummyVerify(password)
			return nil, invalidCredentials()
		}
		return nil, oops.Code("AUTH_LOOKUP_FAILED").With("operation", "get user by username").Wrap(err)
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		s.logger.Error("stored password hash is unreadable",
			"user_id", user.ID.String(), "error", err)
		return nil, corruptAccount(err)
	}
	if !ok {
		return nil, invalidCredentials()
	}
	return user, nil
}

// burnDummyVerify spends one hash verification on a throwaway digest.
func (s *Service) burnDummyVerify(password string) {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash(dummyPassword)
		if err != nil {
			s.logger.Warn("failed to prepare dummy password hash", "error", err)
			return
		}
		s.dummyHash = hash
	})
	if s.dummyHash == "" {
		return
	}
	_, _ = s.hasher.Verify(password, s.dummyHash)
}
