// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LiftLog Contributors

package web

import (
	"context"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/liftlog/liftlog/internal/auth"
	"github.com/liftlog/liftlog/internal/observability"
	"github.com/liftlog/liftlog/internal/workout"
)

// Authenticator registers and signs in users.
type Authenticator interface {
	Register(ctx context.Context, fields auth.RegistrationFields) (*auth.User, error)
	Authenticate(ctx context.Context, username, password string) (*auth.User, error)
}

// SessionManager maps session tokens to users.
type SessionManager interface {
	Login(ctx context.Context, user *auth.User, userAgent, ipAddress string) (string, error)
	CurrentUser(ctx context.Context, token string) (*auth.User, error)
	Logout(ctx context.Context, token string) error
}

// WorkoutService manages a user's workouts and exercises.
type WorkoutService interface {
	Create(ctx context.Context, ownerID ulid.ULID, fields workout.WorkoutFields) (*workout.Workout, error)
	Update(ctx context.Context, ownerID, id ulid.ULID, fields workout.WorkoutFields) (*workout.Workout, error)
	AddExercise(ctx context.Context, ownerID, workoutID ulid.ULID, fields workout.ExerciseFields) (*workout.Exercise, error)
	Get(ctx context.Context, ownerID, id ulid.ULID) (*workout.Workout, error)
	Exercises(ctx context.Context, ownerID, workoutID ulid.ULID) ([]*workout.Exercise, error)
	List(ctx context.Context, ownerID ulid.ULID, page int) (*workout.Page, error)
	Recent(ctx context.Context, ownerID ulid.ULID, n int) ([]*workout.Workout, error)
	Complete(ctx context.Context, ownerID, id ulid.ULID) error
	Delete(ctx context.Context, ownerID, id ulid.ULID) error
}

// Options configures the cookie codec.
type Options struct {
	SessionSecret []byte
	SecureCookies bool
	// CookieMaxAge should match the server-side session TTL.
	CookieMaxAge time.Duration
}

// Deps are the services the handlers call. Metrics and Logger are
// optional.
type Deps struct {
	Auth     Authenticator
	Sessions SessionManager
	Workouts WorkoutService
	Metrics  *observability.Metrics
	Logger   *slog.Logger
}

// Handler serves every LiftLog page.
type Handler struct {
	auth      Authenticator
	sessions  SessionManager
	workouts  WorkoutService
	metrics   *observability.Metrics
	logger    *slog.Logger
	cookies   *cookieJar
	templates map[string]*template.Template
}

// New creates a Handler.
func New(opts Options, deps Deps) (*Handler, error) {
	if deps.Auth == nil || deps.Sessions == nil || deps.Workouts == nil {
		return nil, oops.Code("WEB_INVALID_HANDLER").Errorf("auth, session and workout services are required")
	}

	cookies, err := newCookieJar(opts.SessionSecret, opts.SecureCookies, opts.CookieMaxAge)
	if err != nil {
		return nil, err
	}
	templates, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		auth:      deps.Auth,
		sessions:  deps.Sessions,
		workouts:  deps.Workouts,
		metrics:   deps.Metrics,
		logger:    logger,
		cookies:   cookies,
		templates: templates,
	}, nil
}

// Routes returns the router for the whole site.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.instrument)
	r.Use(middleware.Recoverer)

	r.Handle("/static/*", http.StripPrefix("/static/", staticFiles()))

	r.Group(func(r chi.Router) {
		r.Use(h.loadUser)

		r.Get("/", h.loginPage)
		r.Get("/user/login", h.loginPage)
		r.Post("/user/login", h.login)
		r.Get("/user/register", h.registerPage)
		r.Post("/user/register", h.register)
		r.Get("/user/logout", h.logout)

		r.Group(func(r chi.Router) {
			r.Use(h.requireUser)

			r.Get("/dashboard", h.dashboard)
			r.Get("/workout", h.newWorkoutPage)
			r.Post("/workout", h.createWorkout)
			r.Get("/workouts", h.listWorkouts)

			r.Route("/workout/{id}", func(r chi.Router) {
				r.Get("/", h.showWorkout)
				r.Get("/exercise", h.exerciseRedirect)
				r.Post("/exercise", h.addExercise)
				r.Get("/edit", h.editWorkoutPage)
				r.Post("/edit", h.updateWorkout)
				r.Get("/complete", h.completeWorkout)
				r.Post("/complete", h.completeWorkout)
				r.Get("/delete", h.deleteWorkout)
				r.Post("/delete", h.deleteWorkout)
			})
		})
	})

	return r
}
