// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LiftLog Contributors

package web

import (
	"context"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/mock"

	"github.com/liftlog/liftlog/internal/auth"
	"github.com/liftlog/liftlog/internal/workout"
)

// mockAuthenticator is a mock for Authenticator.
type mockAuthenticator struct {
	mock.Mock
}

func (m *mockAuthenticator) Register(ctx context.Context, fields auth.RegistrationFields) (*auth.User, error) {
	args := m.Called(ctx, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.User), args.Error(1)
}

func (m *mockAuthenticator) Authenticate(ctx context.Context, username, password string) (*auth.User, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.User), args.Error(1)
}

// mockSessionManager is a mock for SessionManager.
type mockSessionManager struct {
	mock.Mock
}

func (m *mockSessionManager) Login(ctx context.Context, user *auth.User, userAgent, ipAddress string) (string, error) {
	args := m.Called(ctx, user, userAgent, ipAddress)
	return args.String(0), args.Error(1)
}

func (m *mockSessionManager) CurrentUser(ctx context.Context, token string) (*auth.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.User), args.Error(1)
}

func (m *mockSessionManager) Logout(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

// mockWorkoutService is a mock for WorkoutService.
type mockWorkoutService struct {
	mock.Mock
}

func (m *mockWorkoutService) Create(ctx context.Context, ownerID ulid.ULID, fields workout.WorkoutFields) (*workout.Workout, error) {
	args := m.Called(ctx, ownerID, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*workout.Workout), args.Error(1)
}

func (m *mockWorkoutService) Update(ctx context.Context, ownerID, id ulid.ULID, fields workout.WorkoutFields) (*workout.Workout, error) {
	args := m.Called(ctx, ownerID, id, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*workout.Workout), args.Error(1)
}

func (m *mockWorkoutService) AddExercise(ctx context.Context, ownerID, workoutID ulid.ULID, fields workout.ExerciseFields) (*workout.Exercise, error) {
	args := m.Called(ctx, ownerID, workoutID, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*workout.Exercise), args.Error(1)
}

func (m *mockWorkoutService) Get(ctx context.Context, ownerID, id ulid.ULID) (*workout.Workout, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*workout.Workout), args.Error(1)
}

func (m *mockWorkoutService) Exercises(ctx context.Context, ownerID, workoutID ulid.ULID) ([]*workout.Exercise, error) {
	args := m.Called(ctx, ownerID, workoutID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*workout.Exercise), args.Error(1)
}

func (m *mockWorkoutService) List(ctx context.Context, ownerID ulid.ULID, page int) (*workout.Page, error) {
	args := m.Called(ctx, ownerID, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*workout.Page), args.Error(1)
}

func (m *mockWorkoutService) Recent(ctx context.Context, ownerID ulid.ULID, n int) ([]*workout.Workout, error) {
	args := m.Called(ctx, ownerID, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*workout.Workout), args.Error(1)
}

func (m *mockWorkoutService) Complete(ctx context.Context, ownerID, id ulid.ULID) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

func (m *mockWorkoutService) Delete(ctx context.Context, ownerID, id ulid.ULID) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}
