// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LiftLog Contributors

package workout_test

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/mock"

	"github.com/liftlog/liftlog/internal/workout"
)

// mockRepository is a mock for workout.Repository.
type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) Create(ctx context.Context, w *workout.Workout) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}

func (m *mockRepository) Get(ctx context.Context, ownerID, id ulid.ULID) (*workout.Workout, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*workout.Workout), args.Error(1)
}

func (m *mockRepository) Update(ctx context.Context, ownerID, id ulid.ULID, fields workout.WorkoutFields, at time.Time) (*workout.Workout, error) {
	args := m.Called(ctx, ownerID, id, fields, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*workout.Workout), args.Error(1)
}

func (m *mockRepository) Complete(ctx context.Context, ownerID, id ulid.ULID, at time.Time) error {
	args := m.Called(ctx, ownerID, id, at)
	return args.Error(0)
}

func (m *mockRepository) Delete(ctx context.Context, ownerID, id ulid.ULID) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

func (m *mockRepository) Count(ctx context.Context, ownerID ulid.ULID) (int, error) {
	args := m.Called(ctx, ownerID)
	return args.Int(0), args.Error(1)
}

func (m *mockRepository) List(ctx context.Context, ownerID ulid.ULID, limit, offset int) ([]*workout.Workout, error) {
	args := m.Called(ctx, ownerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*workout.Workout), args.Error(1)
}

// mockExerciseRepository is a mock for workout.ExerciseRepository.
type mockExerciseRepository struct {
	mock.Mock
}

func (m *mockExerciseRepository) Create(ctx context.Context, e *workout.Exercise) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *mockExerciseRepository) ListByWorkout(ctx context.Context, workoutID ulid.ULID) ([]*workout.Exercise, error) {
	args := m.Called(ctx, workoutID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*workout.Exercise), args.Error(1)
}
