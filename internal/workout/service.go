// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LiftLog Contributors

package workout

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/liftlog/liftlog/internal/validate"
)

// RecentLimit is the number of workouts shown on the dashboard.
const RecentLimit = 4

// Service validates and persists workouts and exercises.
type Service struct {
	workouts  Repository
	exercises ExerciseRepository
	logger    *slog.Logger
	clock     func() time.Time
}

// NewService creates a new workout service.
func NewService(workouts Repository, exercises ExerciseRepository) (*Service, error) {
	return NewServiceWithLogger(workouts, exercises, slog.Default())
}

// NewServiceWithLogger creates a new workout service with a custom logger.
func NewServiceWithLogger(workouts Repository, exercises ExerciseRepository, logger *slog.Logger) (*Service, error) {
	if workouts == nil {
		return nil, oops.Code("WORKOUT_INVALID_SERVICE").Errorf("workout repository is required")
	}
	if exercises == nil {
		return nil, oops.Code("WORKOUT_INVALID_SERVICE").Errorf("exercise repository is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{workouts: workouts, exercises: exercises, logger: logger, clock: time.Now}, nil
}

// Create validates fields and stores a new workout for ownerID. Rule
// violations are returned as *validate.Errors.
func (s *Service) Create(ctx context.Context, ownerID ulid.ULID, fields WorkoutFields) (*Workout, error) {
	if err := validate.Workout(fields.Name, fields.Description).Err(); err != nil {
		return nil, err
	}

	w, err := NewWorkout(ownerID, fields.Name, fields.Description)
	if err != nil {
		return nil, err
	}
	if err := s.workouts.Create(ctx, w); err != nil {
		return nil, oops.Code("WORKOUT_CREATE_FAILED").
			With("owner_id", ownerID.String()).
			Wrap(err)
	}

	s.logger.InfoContext(ctx, "workout created",
		"workout_id", w.ID.String(),
		"owner_id", ownerID.String())
	return w, nil
}

// Update re-validates fields and rewrites the workout's name and
// description. Invalid fields leave the stored row untouched. A workout
// that does not exist, or belongs to another user, yields ErrNotFound.
func (s *Service) Update(ctx context.Context, ownerID, id ulid.ULID, fields WorkoutFields) (*Workout, error) {
	if err := validate.Workout(fields.Name, fields.Description).Err(); err != nil {
		return nil, err
	}

	w, err := s.workouts.Update(ctx, ownerID, id, fields, s.clock().UTC())
	if err != nil {
		return nil, s.wrapLookup(err, "WORKOUT_UPDATE_FAILED", id)
	}
	return w, nil
}

// AddExercise logs an exercise under one of ownerID's workouts.
func (s *Service) AddExercise(ctx context.Context, ownerID, workoutID ulid.ULID, fields ExerciseFields) (*Exercise, error) {
	if _, err := s.Get(ctx, ownerID, workoutID); err != nil {
		return nil, err
	}

	values, errs := validate.Exercise(fields.Name, fields.Weight, fields.Repetitions, fields.Category)
	if err := errs.Err(); err != nil {
		return nil, err
	}

	e, err := NewExercise(workoutID, values.Name, values.Weight, values.Repetitions, values.Category)
	if err != nil {
		return nil, err
	}
	if err := s.exercises.Create(ctx, e); err != nil {
		return nil, oops.Code("EXERCISE_CREATE_FAILED").
			With("workout_id", workoutID.String()).
			Wrap(err)
	}

	s.logger.InfoContext(ctx, "exercise added",
		"exercise_id", e.ID.String(),
		"workout_id", workoutID.String())
	return e, nil
}

// Get returns one of ownerID's workouts.
func (s *Service) Get(ctx context.Context, ownerID, id ulid.ULID) (*Workout, error) {
	w, err := s.workouts.Get(ctx, ownerID, id)
	if err != nil {
		return nil, s.wrapLookup(err, "WORKOUT_LOOKUP_FAILED", id)
	}
	return w, nil
}

// Exercises returns the exercises of one of ownerID's workouts.
func (s *Service) Exercises(ctx context.Context, ownerID, workoutID ulid.ULID) ([]*Exercise, error) {
	if _, err := s.Get(ctx, ownerID, workoutID); err != nil {
		return nil, err
	}
	exercises, err := s.exercises.ListByWorkout(ctx, workoutID)
	if err != nil {
		return nil, oops.Code("EXERCISE_LIST_FAILED").
			With("workout_id", workoutID.String()).
			Wrap(err)
	}
	return exercises, nil
}

// List returns page number of ownerID's workouts, newest first. Pages past
// the end are clamped to the last page; no page number is an error.
func (s *Service) List(ctx context.Context, ownerID ulid.ULID, number int) (*Page, error) {
	total, err := s.workouts.Count(ctx, ownerID)
	if err != nil {
		return nil, oops.Code("WORKOUT_LIST_FAILED").With("operation", "count workouts").Wrap(err)
	}

	pages := TotalPages(total, PageSize)
	number = ClampPage(number, pages)

	page := &Page{Number: number, TotalPages: pages, TotalItems: total}
	if total == 0 {
		return page, nil
	}

	page.Workouts, err = s.workouts.List(ctx, ownerID, PageSize, (number-1)*PageSize)
	if err != nil {
		return nil, oops.Code("WORKOUT_LIST_FAILED").
			With("operation", "list workouts").
			With("page", number).
			Wrap(err)
	}
	return page, nil
}

// Recent returns up to n of ownerID's newest workouts.
func (s *Service) Recent(ctx context.Context, ownerID ulid.ULID, n int) ([]*Workout, error) {
	if n <= 0 {
		return nil, nil
	}
	workouts, err := s.workouts.List(ctx, ownerID, n, 0)
	if err != nil {
		return nil, oops.Code("WORKOUT_LIST_FAILED").With("operation", "recent workouts").Wrap(err)
	}
	return workouts, nil
}

// Complete marks one of ownerID's workouts as completed. Completing a
// completed workout is not an error.
func (s *Service) Complete(ctx context.Context, ownerID, id ulid.ULID) error {
	if err := s.workouts.Complete(ctx, ownerID, id, s.clock().UTC()); err != nil {
		return s.wrapLookup(err, "WORKOUT_COMPLETE_FAILED", id)
	}
	s.logger.InfoContext(ctx, "workout completed", "workout_id", id.String())
	return nil
}

// Delete removes one of ownerID's workouts together with its exercises.
func (s *Service) Delete(ctx context.Context, ownerID, id ulid.ULID) error {
	if err := s.workouts.Delete(ctx, ownerID, id); err != nil {
		return s.wrapLookup(err, "WORKOUT_DELETE_FAILED", id)
	}
	s.logger.InfoContext(ctx, "workout deleted", "workout_id", id.String())
	return nil
}

// wrapLookup passes ErrNotFound through and wraps anything else with code.
func (s *Service) wrapLookup(err error, code string, id ulid.ULID) error {
	if errors.Is(err, ErrNotFound) {
		return err
	}
	return oops.Code(code).With("workout_id", id.String()).Wrap(err)
}
