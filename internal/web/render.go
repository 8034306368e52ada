// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LiftLog Contributors

package web

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/samber/oops"

	"github.com/liftlog/liftlog/internal/auth"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

const layoutFile = "templates/layout.html"

// Page template names.
const (
	pageLogin       = "login.html"
	pageRegister    = "register.html"
	pageDashboard   = "dashboard.html"
	pageNewWorkout  = "workout_new.html"
	pageWorkout     = "workout.html"
	pageEditWorkout = "workout_edit.html"
	pageWorkouts    = "workouts.html"
)

var pages = []string{
	pageLogin,
	pageRegister,
	pageDashboard,
	pageNewWorkout,
	pageWorkout,
	pageEditWorkout,
	pageWorkouts,
}

var templateFuncs = template.FuncMap{
	"date": func(t time.Time) string { return t.Format("Jan 2, 2006") },
	"datetime": func(t time.Time) string {
		return t.Format("Jan 2, 2006 15:04")
	},
}

// view is the data every page template receives.
type view struct {
	Title   string
	User    *auth.User
	Flashes Flashes
	Data    any
}

// parseTemplates pairs the layout with each page.
func parseTemplates() (map[string]*template.Template, error) {
	out := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		tmpl, err := template.New(page).Funcs(templateFuncs).
			ParseFS(templateFS, layoutFile, "templates/"+page)
		if err != nil {
			return nil, oops.Code("WEB_TEMPLATE_PARSE_FAILED").With("page", page).Wrap(err)
		}
		out[page] = tmpl
	}
	return out, nil
}

func staticFiles() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		// The directory is embedded at build time.
		panic(err)
	}
	return http.FileServerFS(sub)
}

// render drains the flash messages and writes page with status. The page
// is rendered into a buffer first so a template error still yields a clean
// 500.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, page, title string, data any) {
	tmpl, ok := h.templates[page]
	if !ok {
		h.serverError(w, r, "render page", oops.Code("WEB_UNKNOWN_PAGE").With("page", page).Errorf("unknown page"))
		return
	}

	flashes, err := h.cookies.flashes(w, r)
	if err != nil {
		h.logger.WarnContext(r.Context(), "failed to consume flash messages", "error", err)
	}

	var buf bytes.Buffer
	v := view{Title: title, User: UserFromContext(r.Context()), Flashes: flashes, Data: data}
	if err := tmpl.ExecuteTemplate(&buf, "layout", v); err != nil {
		h.serverError(w, r, "render page", oops.Code("WEB_RENDER_FAILED").With("page", page).Wrap(err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	//nolint:errcheck // client may disconnect
	buf.WriteTo(w)
}
