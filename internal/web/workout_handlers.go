// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LiftLog Contributors

package web

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"

	"github.com/liftlog/liftlog/internal/validate"
	"github.com/liftlog/liftlog/internal/workout"
)

// Flash texts for workout actions.
const (
	MsgWorkoutNotFound  = "Workout not found."
	MsgWorkoutCreated   = "Workout created."
	MsgWorkoutUpdated   = "Workout updated."
	MsgWorkoutCompleted = "Workout completed. Nice work!"
	MsgWorkoutDeleted   = "Workout deleted."
	MsgExerciseAdded    = "Exercise added."
)

type dashboardData struct {
	Recent []*workout.Workout
}

type workoutData struct {
	Workout    *workout.Workout
	Exercises  []*workout.Exercise
	Categories []string
}

// categories offered by the exercise form. Any valid category is accepted.
var categories = []string{
	validate.DefaultCategory,
	"Endurance",
	"Balance",
	"Flexibility",
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	recent, err := h.workouts.Recent(r.Context(), user.ID, workout.RecentLimit)
	if err != nil {
		h.serverError(w, r, "recent workouts", err)
		return
	}
	h.render(w, r, http.StatusOK, pageDashboard, "Dashboard", dashboardData{Recent: recent})
}

func (h *Handler) newWorkoutPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, pageNewWorkout, "New workout", nil)
}

func (h *Handler) createWorkout(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	created, err := h.workouts.Create(r.Context(), user.ID, workoutFields(r))
	if err != nil {
		if h.flashValidation(w, r, err, "/workout") {
			return
		}
		h.serverError(w, r, "create workout", err)
		return
	}
	if h.metrics != nil {
		h.metrics.WorkoutsCreated.Inc()
	}
	h.redirectWithFlash(w, r, workoutPath(created.ID), FlashSuccess, MsgWorkoutCreated)
}

func (h *Handler) listWorkouts(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	page, err := h.workouts.List(r.Context(), user.ID, workout.ParsePage(r.URL.Query().Get("page")))
	if err != nil {
		h.serverError(w, r, "list workouts", err)
		return
	}
	h.render(w, r, http.StatusOK, pageWorkouts, "Workouts", page)
}

func (h *Handler) showWorkout(w http.ResponseWriter, r *http.Request) {
	id, ok := h.workoutID(w, r)
	if !ok {
		return
	}
	user := UserFromContext(r.Context())

	wk, err := h.workouts.Get(r.Context(), user.ID, id)
	if err != nil {
		h.workoutError(w, r, "get workout", err)
		return
	}
	exercises, err := h.workouts.Exercises(r.Context(), user.ID, id)
	if err != nil {
		h.workoutError(w, r, "list exercises", err)
		return
	}
	h.render(w, r, http.StatusOK, pageWorkout, wk.Name, workoutData{
		Workout:    wk,
		Exercises:  exercises,
		Categories: categories,
	})
}

func (h *Handler) exerciseRedirect(w http.ResponseWriter, r *http.Request) {
	id, ok := h.workoutID(w, r)
	if !ok {
		return
	}
	http.Redirect(w, r, workoutPath(id), http.StatusFound)
}

func (h *Handler) addExercise(w http.ResponseWriter, r *http.Request) {
	id, ok := h.workoutID(w, r)
	if !ok {
		return
	}
	user := UserFromContext(r.Context())

	_, err := h.workouts.AddExercise(r.Context(), user.ID, id, workout.ExerciseFields{
		Name:        r.PostFormValue("name"),
		Weight:      r.PostFormValue("weight"),
		Repetitions: r.PostFormValue("repetitions"),
		Category:    r.PostFormValue("category"),
	})
	if err != nil {
		if h.flashValidation(w, r, err, workoutPath(id)) {
			return
		}
		h.workoutError(w, r, "add exercise", err)
		return
	}
	if h.metrics != nil {
		h.metrics.ExercisesLogged.Inc()
	}
	h.redirectWithFlash(w, r, workoutPath(id), FlashSuccess, MsgExerciseAdded)
}

func (h *Handler) editWorkoutPage(w http.ResponseWriter, r *http.Request) {
	id, ok := h.workoutID(w, r)
	if !ok {
		return
	}
	user := UserFromContext(r.Context())

	wk, err := h.workouts.Get(r.Context(), user.ID, id)
	if err != nil {
		h.workoutError(w, r, "get workout", err)
		return
	}
	h.render(w, r, http.StatusOK, pageEditWorkout, "Edit "+wk.Name, wk)
}

func (h *Handler) updateWorkout(w http.ResponseWriter, r *http.Request) {
	id, ok := h.workoutID(w, r)
	if !ok {
		return
	}
	user := UserFromContext(r.Context())

	if _, err := h.workouts.Update(r.Context(), user.ID, id, workoutFields(r)); err != nil {
		if h.flashValidation(w, r, err, workoutPath(id)+"/edit") {
			return
		}
		h.workoutError(w, r, "update workout", err)
		return
	}
	h.redirectWithFlash(w, r, workoutPath(id), FlashSuccess, MsgWorkoutUpdated)
}

func (h *Handler) completeWorkout(w http.ResponseWriter, r *http.Request) {
	id, ok := h.workoutID(w, r)
	if !ok {
		return
	}
	user := UserFromContext(r.Context())

	if err := h.workouts.Complete(r.Context(), user.ID, id); err != nil {
		h.workoutError(w, r, "complete workout", err)
		return
	}
	h.redirectWithFlash(w, r, workoutPath(id), FlashSuccess, MsgWorkoutCompleted)
}

func (h *Handler) deleteWorkout(w http.ResponseWriter, r *http.Request) {
	id, ok := h.workoutID(w, r)
	if !ok {
		return
	}
	user := UserFromContext(r.Context())

	if err := h.workouts.Delete(r.Context(), user.ID, id); err != nil {
		h.workoutError(w, r, "delete workout", err)
		return
	}
	h.redirectWithFlash(w, r, "/workouts", FlashSuccess, MsgWorkoutDeleted)
}

// workoutID parses the {id} URL parameter. A malformed id is answered the
// same way as a missing workout.
func (h *Handler) workoutID(w http.ResponseWriter, r *http.Request) (ulid.ULID, bool) {
	id, err := ulid.ParseStrict(chi.URLParam(r, "id"))
	if err != nil {
		h.redirectWithFlash(w, r, "/workouts", FlashError, MsgWorkoutNotFound)
		return ulid.ULID{}, false
	}
	return id, true
}

// workoutError reports missing workouts, including other users' workouts,
// as not found and anything else as a server error.
func (h *Handler) workoutError(w http.ResponseWriter, r *http.Request, operation string, err error) {
	if errors.Is(err, workout.ErrNotFound) {
		h.redirectWithFlash(w, r, "/workouts", FlashError, MsgWorkoutNotFound)
		return
	}
	h.serverError(w, r, operation, err)
}

// flashValidation redirects to target with the rule violations in err.
// It reports false when err is not a validation failure.
func (h *Handler) flashValidation(w http.ResponseWriter, r *http.Request, err error, target string) bool {
	var verrs *validate.Errors
	if !errors.As(err, &verrs) {
		return false
	}
	h.redirectWithFlash(w, r, target, FlashError, verrs.Messages()...)
	return true
}

func workoutFields(r *http.Request) workout.WorkoutFields {
	return workout.WorkoutFields{
		Name:        r.PostFormValue("name"),
		Description: r.PostFormValue("description"),
	}
}

func workoutPath(id ulid.ULID) string {
	return "/workout/" + id.String()
}
