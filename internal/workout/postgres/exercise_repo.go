// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LiftLog Contributors

package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
	"github.com/shopspring/decimal"

	"github.com/liftlog/liftlog/internal/store"
	"github.com/liftlog/liftlog/internal/workout"
)

// Measurements travel as text so NUMERIC values keep their exact digits.
const exerciseColumns = `id, workout_id, name, weight::text, repetitions::text, category, created_at, updated_at`

// ExerciseRepository implements workout.ExerciseRepository using PostgreSQL.
type ExerciseRepository struct {
	pool store.Pool
}

// NewExerciseRepository creates a new ExerciseRepository.
func NewExerciseRepository(pool store.Pool) *ExerciseRepository {
	return &ExerciseRepository{pool: pool}
}

// Create stores a new exercise. A parent workout deleted in the meantime is
// reported as workout.ErrNotFound.
func (r *ExerciseRepository) Create(ctx context.Context, e *workout.Exercise) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO exercises (id, workout_id, name, weight, repetitions, category, created_at, updated_at)
		VALUES ($1, $2, $3, $4::numeric, $5::numeric, $6, $7, $8)
	`,
		e.ID.String(),
		e.WorkoutID.String(),
		e.Name,
		e.Weight.String(),
		e.Repetitions.String(),
		e.Category,
		e.CreatedAt,
		e.UpdatedAt,
	)
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.ForeignKeyViolation:
			return oops.Code("WORKOUT_NOT_FOUND").
				With("id", e.WorkoutID.String()).
				Wrap(workout.ErrNotFound)
		case pgerrcode.CheckViolation, pgerrcode.NumericValueOutOfRange:
			return oops.Code("EXERCISE_INVALID_MEASUREMENT").
				With("weight", e.Weight.String()).
				With("repetitions", e.Repetitions.String()).
				Wrap(err)
		}
	}
	return oops.Code("EXERCISE_CREATE_FAILED").
		With("operation", "insert exercise").
		With("workout_id", e.WorkoutID.String()).
		Wrap(err)
}

// ListByWorkout returns a workout's exercises oldest first.
func (r *ExerciseRepository) ListByWorkout(ctx context.Context, workoutID ulid.ULID) ([]*workout.Exercise, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+exerciseColumns+` FROM exercises
		WHERE workout_id = $1
		ORDER BY created_at, id
	`, workoutID.String())
	if err != nil {
		return nil, oops.Code("EXERCISE_LIST_FAILED").
			With("operation", "list exercises").
			With("workout_id", workoutID.String()).
			Wrap(err)
	}
	defer rows.Close()

	var exercises []*workout.Exercise
	for rows.Next() {
		var (
			idStr, workoutIDStr string
			weight, reps        string
			e                   workout.Exercise
		)
		if err := rows.Scan(
			&idStr,
			&workoutIDStr,
			&e.Name,
			&weight,
			&reps,
			&e.Category,
			&e.CreatedAt,
			&e.UpdatedAt,
		); err != nil {
			return nil, oops.Code("EXERCISE_SCAN_FAILED").With("operation", "scan exercise").Wrap(err)
		}

		if e.ID, err = ulid.Parse(idStr); err != nil {
			return nil, oops.Code("EXERCISE_INVALID_ID").With("id", idStr).Wrap(err)
		}
		if e.WorkoutID, err = ulid.Parse(workoutIDStr); err != nil {
			return nil, oops.Code("EXERCISE_INVALID_WORKOUT_ID").With("workout_id", workoutIDStr).Wrap(err)
		}
		if e.Weight, err = decimal.NewFromString(weight); err != nil {
			return nil, oops.Code("EXERCISE_INVALID_MEASUREMENT").With("weight", weight).Wrap(err)
		}
		if e.Repetitions, err = decimal.NewFromString(reps); err != nil {
			return nil, oops.Code("EXERCISE_INVALID_MEASUREMENT").With("repetitions", reps).Wrap(err)
		}
		e.CreatedAt = e.CreatedAt.UTC()
		e.UpdatedAt = e.UpdatedAt.UTC()
		exercises = append(exercises, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("EXERCISE_LIST_FAILED").With("operation", "iterate exercises").Wrap(err)
	}
	return exercises, nil
}

// Compile-time interface check.
var _ workout.ExerciseRepository = (*ExerciseRepository)(nil)
