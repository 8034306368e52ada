// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LiftLog Contributors

// Package postgres implements the workout repositories on PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/liftlog/liftlog/internal/store"
	"github.com/liftlog/liftlog/internal/workout"
)

const workoutColumns = `id, user_id, name, description, completed, created_at, updated_at`

// WorkoutRepository implements workout.Repository using PostgreSQL.
type WorkoutRepository struct {
	pool store.Pool
}

// NewWorkoutRepository creates a new WorkoutRepository.
func NewWorkoutRepository(pool store.Pool) *WorkoutRepository {
	return &WorkoutRepository{pool: pool}
}

// Create stores a new workout.
func (r *WorkoutRepository) Create(ctx context.Context, w *workout.Workout) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO workouts (`+workoutColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		w.ID.String(),
		w.UserID.String(),
		w.Name,
		w.Description,
		w.Completed,
		w.CreatedAt,
		w.UpdatedAt,
	)
	if err != nil {
		return oops.Code("WORKOUT_CREATE_FAILED").
			With("operation", "insert workout").
			With("owner_id", w.UserID.String()).
			Wrap(err)
	}
	return nil
}

// Get retrieves one of ownerID's workouts.
func (r *WorkoutRepository) Get(ctx context.Context, ownerID, id ulid.ULID) (*workout.Workout, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+workoutColumns+` FROM workouts
		WHERE id = $1 AND user_id = $2
	`, id.String(), ownerID.String())

	w, err := scanWorkout(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("WORKOUT_NOT_FOUND").With("id", id.String()).Wrap(workout.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("WORKOUT_GET_FAILED").
			With("operation", "get workout").
			With("id", id.String()).
			Wrap(err)
	}
	return w, nil
}

// Update rewrites name and description and returns the stored row. Zero
// matching rows is reported as workout.ErrNotFound.
func (r *WorkoutRepository) Update(ctx context.Context, ownerID, id ulid.ULID, fields workout.WorkoutFields, at time.Time) (*workout.Workout, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE workouts SET name = $3, description = $4, updated_at = $5
		WHERE id = $1 AND user_id = $2
		RETURNING `+workoutColumns,
		id.String(), ownerID.String(), fields.Name, fields.Description, at)

	w, err := scanWorkout(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("WORKOUT_NOT_FOUND").With("id", id.String()).Wrap(workout.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("WORKOUT_UPDATE_FAILED").
			With("operation", "update workout").
			With("id", id.String()).
			Wrap(err)
	}
	return w, nil
}

// Complete marks the workout completed.
func (r *WorkoutRepository) Complete(ctx context.Context, ownerID, id ulid.ULID, at time.Time) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE workouts SET completed = TRUE, updated_at = $3
		WHERE id = $1 AND user_id = $2
	`, id.String(), ownerID.String(), at)
	if err != nil {
		return oops.Code("WORKOUT_COMPLETE_FAILED").
			With("operation", "complete workout").
			With("id", id.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("WORKOUT_NOT_FOUND").With("id", id.String()).Wrap(workout.ErrNotFound)
	}
	return nil
}

// Delete removes the workout. Its exercises go with it through the
// foreign key cascade.
func (r *WorkoutRepository) Delete(ctx context.Context, ownerID, id ulid.ULID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM workouts WHERE id = $1 AND user_id = $2`,
		id.String(), ownerID.String())
	if err != nil {
		return oops.Code("WORKOUT_DELETE_FAILED").
			With("operation", "delete workout").
			With("id", id.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("WORKOUT_NOT_FOUND").With("id", id.String()).Wrap(workout.ErrNotFound)
	}
	return nil
}

// Count returns how many workouts ownerID has.
func (r *WorkoutRepository) Count(ctx context.Context, ownerID ulid.ULID) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM workouts WHERE user_id = $1`, ownerID.String()).Scan(&n)
	if err != nil {
		return 0, oops.Code("WORKOUT_COUNT_FAILED").
			With("operation", "count workouts").
			With("owner_id", ownerID.String()).
			Wrap(err)
	}
	return n, nil
}

// List returns ownerID's workouts newest first.
func (r *WorkoutRepository) List(ctx context.Context, ownerID ulid.ULID, limit, offset int) ([]*workout.Workout, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+workoutColumns+` FROM workouts
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`, ownerID.String(), limit, offset)
	if err != nil {
		return nil, oops.Code("WORKOUT_LIST_FAILED").
			With("operation", "list workouts").
			With("owner_id", ownerID.String()).
			Wrap(err)
	}
	defer rows.Close()

	var workouts []*workout.Workout
	for rows.Next() {
		w, err := scanWorkout(rows)
		if err != nil {
			return nil, err
		}
		workouts = append(workouts, w)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("WORKOUT_LIST_FAILED").With("operation", "iterate workouts").Wrap(err)
	}
	return workouts, nil
}

// scanWorkout scans a single row into a Workout. pgx.ErrNoRows is returned
// unchanged for callers to wrap.
func scanWorkout(row pgx.Row) (*workout.Workout, error) {
	var (
		idStr, userIDStr string
		w                workout.Workout
	)
	err := row.Scan(
		&idStr,
		&userIDStr,
		&w.Name,
		&w.Description,
		&w.Completed,
		&w.CreatedAt,
		&w.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck // callers wrap with lookup context
		}
		return nil, oops.Code("WORKOUT_SCAN_FAILED").With("operation", "scan workout").Wrap(err)
	}

	if w.ID, err = ulid.Parse(idStr); err != nil {
		return nil, oops.Code("WORKOUT_INVALID_ID").With("id", idStr).Wrap(err)
	}
	if w.UserID, err = ulid.Parse(userIDStr); err != nil {
		return nil, oops.Code("WORKOUT_INVALID_USER_ID").With("user_id", userIDStr).Wrap(err)
	}
	w.CreatedAt = w.CreatedAt.UTC()
	w.UpdatedAt = w.UpdatedAt.UTC()
	return &w, nil
}

// Compile-time interface check.
var _ workout.Repository = (*WorkoutRepository)(nil)
