// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LiftLog Contributors

//go:build integration

package integration

import (
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/liftlog/liftlog/internal/validate"
	"github.com/liftlog/liftlog/internal/web"
)

const password = "correct horse battery"

var workoutPathPattern = regexp.MustCompile(`^/workout/([0-9A-Z]{26})$`)

// page is a fetched response after redirects.
type page struct {
	path string
	body string
}

func get(client *http.Client, path string) page {
	GinkgoHelper()
	resp, err := client.Get(env.server.URL + path)
	Expect(err).NotTo(HaveOccurred())
	return readPage(resp)
}

func post(client *http.Client, path string, form url.Values) page {
	GinkgoHelper()
	resp, err := client.PostForm(env.server.URL+path, form)
	Expect(err).NotTo(HaveOccurred())
	return readPage(resp)
}

func readPage(resp *http.Response) page {
	GinkgoHelper()
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	Expect(err).NotTo(HaveOccurred())
	Expect(resp.StatusCode).To(Equal(http.StatusOK), string(body))
	return page{path: resp.Request.URL.Path, body: string(body)}
}

func register(client *http.Client, username string) page {
	GinkgoHelper()
	return post(client, "/user/register", url.Values{
		"username":              {username},
		"email":                 {username + "@example.com"},
		"password":              {password},
		"password_confirmation": {password},
		"terms_accepted":        {"on"},
	})
}

// createWorkout creates a workout and returns its path.
func createWorkout(client *http.Client, name string) string {
	GinkgoHelper()
	p := post(client, "/workout", url.Values{"name": {name}, "description": {"Heavy day"}})
	Expect(p.path).To(MatchRegexp(workoutPathPattern.String()))
	Expect(p.body).To(ContainSubstring(web.MsgWorkoutCreated))
	return p.path
}

var _ = Describe("Accounts", func() {
	It("registers, logs out and logs back in", func() {
		browser := newBrowser()

		p := register(browser, "lifter")
		Expect(p.path).To(Equal("/dashboard"))
		Expect(p.body).To(ContainSubstring("Welcome, lifter!"))

		p = get(browser, "/user/logout")
		Expect(p.path).To(Equal("/"))
		Expect(p.body).To(ContainSubstring(web.MsgLoggedOut))

		p = get(browser, "/dashboard")
		Expect(p.path).To(Equal("/"))
		Expect(p.body).To(ContainSubstring(web.MsgLoginRequired))

		p = post(browser, "/user/login", url.Values{"username": {"lifter"}, "password": {password}})
		Expect(p.path).To(Equal("/dashboard"))
	})

	It("reports duplicate usernames and emails", func() {
		register(newBrowser(), "lifter")

		p := register(newBrowser(), "lifter")
		Expect(p.path).To(Equal("/user/register"))
		Expect(p.body).To(ContainSubstring(validate.MsgUsernameTaken))
		Expect(p.body).To(ContainSubstring(validate.MsgEmailTaken))
	})

	It("gives the same answer for an unknown user and a wrong password", func() {
		register(newBrowser(), "lifter")

		unknown := post(newBrowser(), "/user/login", url.Values{"username": {"nobody"}, "password": {password}})
		wrong := post(newBrowser(), "/user/login", url.Values{"username": {"lifter"}, "password": {"not the password"}})

		Expect(unknown.path).To(Equal("/"))
		Expect(wrong.path).To(Equal("/"))
		Expect(unknown.body).To(Equal(wrong.body))
		Expect(wrong.body).To(ContainSubstring("Username or password is incorrect."))
	})

	It("sweeps expired sessions without touching live ones", func() {
		browser := newBrowser()
		register(browser, "lifter")

		_, err := env.db.Pool.Exec(env.ctx,
			`INSERT INTO web_sessions (id, token_hash, user_id, expires_at, created_at, last_seen_at)
			 SELECT 'expired-session', 'expired-hash', id, $1, $1, $1 FROM users WHERE username = 'lifter'`,
			time.Now().Add(-time.Hour))
		Expect(err).NotTo(HaveOccurred())

		removed, err := env.sessions.Sweep(env.ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(removed).To(BeEquivalentTo(1))

		Expect(get(browser, "/dashboard").path).To(Equal("/dashboard"))
	})
})

var _ = Describe("Workouts", func() {
	var browser *http.Client

	BeforeEach(func() {
		browser = newBrowser()
		register(browser, "lifter")
	})

	It("logs exercises with rounded measurements", func() {
		path := createWorkout(browser, "Leg Day")

		p := post(browser, path+"/exercise", url.Values{
			"name":        {"Squat"},
			"weight":      {"12.345"},
			"repetitions": {"5"},
			"category":    {validate.DefaultCategory},
		})
		Expect(p.path).To(Equal(path))
		Expect(p.body).To(ContainSubstring(web.MsgExerciseAdded))
		Expect(p.body).To(ContainSubstring("Squat"))
		Expect(p.body).To(ContainSubstring("12.3"))
		Expect(p.body).NotTo(ContainSubstring("12.345"))
	})

	It("rejects invalid measurements without saving", func() {
		path := createWorkout(browser, "Leg Day")

		p := post(browser, path+"/exercise", url.Values{
			"name": {"Squat"}, "weight": {"abc"}, "repetitions": {"5"},
		})
		Expect(p.body).To(ContainSubstring(validate.MsgMeasurementNumber))
		Expect(p.body).To(ContainSubstring("No exercises logged yet."))
	})

	It("edits, completes and deletes a workout", func() {
		path := createWorkout(browser, "Leg Day")

		p := post(browser, path+"/edit", url.Values{"name": {"AB"}, "description": {"CD"}})
		Expect(p.body).To(ContainSubstring(web.MsgWorkoutUpdated))
		Expect(p.body).To(ContainSubstring("<h1>AB"))

		p = post(browser, path+"/edit", url.Values{"name": {"A"}, "description": {"CD"}})
		Expect(p.body).To(ContainSubstring(validate.MsgNameLength))

		p = post(browser, path+"/complete", nil)
		Expect(p.body).To(ContainSubstring(web.MsgWorkoutCompleted))
		Expect(p.body).NotTo(ContainSubstring(`id="end-workout"`))

		p = post(browser, path+"/delete", nil)
		Expect(p.path).To(Equal("/workouts"))
		Expect(p.body).To(ContainSubstring(web.MsgWorkoutDeleted))

		p = get(browser, path)
		Expect(p.path).To(Equal("/workouts"))
		Expect(p.body).To(ContainSubstring(web.MsgWorkoutNotFound))
	})

	It("hides workouts from other users", func() {
		path := createWorkout(browser, "Leg Day")

		other := newBrowser()
		register(other, "spotter")

		p := get(other, path)
		Expect(p.path).To(Equal("/workouts"))
		Expect(p.body).To(ContainSubstring(web.MsgWorkoutNotFound))

		p = post(other, path+"/delete", nil)
		Expect(p.body).To(ContainSubstring(web.MsgWorkoutNotFound))

		Expect(get(browser, path).path).To(Equal(path))
	})

	It("clamps pages beyond the last", func() {
		for i := range 3 {
			createWorkout(browser, "Workout "+strings.Repeat("I", i+1))
		}

		first := get(browser, "/workouts?page=abc")
		Expect(first.body).To(ContainSubstring("Page 1 of 1"))

		last := get(browser, "/workouts?page=9999")
		Expect(last.body).To(ContainSubstring("Page 1 of 1"))
		Expect(last.body).To(ContainSubstring("Workout III"))
	})

	It("shows the most recent workouts on the dashboard", func() {
		createWorkout(browser, "Leg Day")

		p := get(browser, "/dashboard")
		Expect(p.body).To(ContainSubstring("Leg Day"))
	})
})
