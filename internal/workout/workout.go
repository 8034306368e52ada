// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LiftLog Contributors

package workout

import (
	"context"
	"errors"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a workout does not exist or is not owned by
// the requesting user.
var ErrNotFound = errors.New("workout not found")

// Workout is a named training session owned by a user.
type Workout struct {
	ID          ulid.ULID
	UserID      ulid.ULID
	Name        string
	Description string
	Completed   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Exercise is a single movement logged under a workout.
type Exercise struct {
	ID          ulid.ULID
	WorkoutID   ulid.ULID
	Name        string
	Weight      decimal.Decimal
	Repetitions decimal.Decimal
	Category    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// WorkoutFields are the submitted values of the create and edit forms.
type WorkoutFields struct {
	Name        string
	Description string
}

// ExerciseFields are the submitted values of the exercise form. Weight and
// Repetitions are the raw strings so parse failures can be reported.
type ExerciseFields struct {
	Name        string
	Weight      string
	Repetitions string
	Category    string
}

// NewWorkout creates an incomplete Workout for userID.
func NewWorkout(userID ulid.ULID, name, description string) (*Workout, error) {
	if userID.IsZero() {
		return nil, oops.Code("WORKOUT_INVALID_OWNER").Errorf("owner cannot be empty")
	}
	now := time.Now().UTC()
	return &Workout{
		ID:          ulid.Make(),
		UserID:      userID,
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// NewExercise creates an Exercise under workoutID.
func NewExercise(workoutID ulid.ULID, name string, weight, repetitions decimal.Decimal, category string) (*Exercise, error) {
	if workoutID.IsZero() {
		return nil, oops.Code("EXERCISE_INVALID_WORKOUT").Errorf("workout cannot be empty")
	}
	if weight.IsNegative() || repetitions.IsNegative() {
		return nil, oops.Code("EXERCISE_INVALID_MEASUREMENT").
			With("weight", weight.String()).
			With("repetitions", repetitions.String()).
			Errorf("weight and repetitions must not be negative")
	}
	now := time.Now().UTC()
	return &Exercise{
		ID:          ulid.Make(),
		WorkoutID:   workoutID,
		Name:        name,
		Weight:      weight,
		Repetitions: repetitions,
		Category:    category,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Repository persists workouts. Methods taking an owner ID only match rows
// owned by that user and report anything else as ErrNotFound.
type Repository interface {
	Create(ctx context.Context, w *Workout) error
	Get(ctx context.Context, ownerID, id ulid.ULID) (*Workout, error)
	Update(ctx context.Context, ownerID, id ulid.ULID, fields WorkoutFields, at time.Time) (*Workout, error)
	Complete(ctx context.Context, ownerID, id ulid.ULID, at time.Time) error
	Delete(ctx context.Context, ownerID, id ulid.ULID) error
	Count(ctx context.Context, ownerID ulid.ULID) (int, error)
	// List returns the owner's workouts newest first.
	List(ctx context.Context, ownerID ulid.ULID, limit, offset int) ([]*Workout, error)
}

// ExerciseRepository persists exercises.
type ExerciseRepository interface {
	Create(ctx context.Context, e *Exercise) error
	// ListByWorkout returns a workout's exercises oldest first.
	ListByWorkout(ctx context.Context, workoutID ulid.ULID) ([]*Exercise, error)
}
