// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LiftLog Contributors

// Package validate holds the form field rules shared by registration,
// workouts and exercises.
//
// Every rule returns the messages of the checks that failed, in the order
// the checks are declared. Rules never stop at the first failure; callers
// concatenate the results into an Errors list and show all of them.
package validate

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Field limits. Maximums mirror the column sizes of the schema.
const (
	MinUsernameLength    = 2
	MaxUsernameLength    = 20
	MinEmailLength       = 5
	MaxEmailLength       = 50
	MinPasswordLength    = 8
	MaxPasswordBytes     = 72 // bcrypt ignores anything past this
	MinNameLength        = 2
	MaxNameLength        = 50
	MaxDescriptionLength = 150
	MaxCategoryLength    = 50
)

// DefaultCategory is assigned to exercises submitted without a category.
const DefaultCategory = "Strength Training"

// User-facing messages.
const (
	MsgUsernameLength    = "Username is required and must be at least 2 characters long."
	MsgUsernameTooLong   = "Username must be no more than 20 characters long."
	MsgUsernameCharset   = "Username must contain letters, numbers and basic characters only."
	MsgUsernameTaken     = "Username is already registered to another user."
	MsgEmailLength       = "Email field must be at least 5 characters."
	MsgEmailTooLong      = "Email field must be no more than 50 characters."
	MsgEmailFormat       = "Email field is not a valid email format."
	MsgEmailTaken        = "Email address is already registered to another user."
	MsgPasswordLength    = "Password fields are required and must be at least 8 characters."
	MsgPasswordTooLong   = "Password must be no more than 72 characters."
	MsgPasswordMatch     = "Password and confirmation must match."
	MsgTermsRequired     = "Terms of service must be accepted."
	MsgAllFieldsRequired = "All fields are required."

	MsgNameLength          = "Name is required and must be at least 2 characters long."
	MsgNameTooLong         = "Name must be no more than 50 characters long."
	MsgNameCharset         = "Name must contain letters, numbers and basic characters only."
	MsgDescriptionLength   = "Description is required and must be at least 2 characters long."
	MsgDescriptionTooLong  = "Description must be no more than 150 characters long."
	MsgDescriptionCharset  = "Description must contain letters, numbers and basic characters only."
	MsgCategoryTooLong     = "Category must be no more than 50 characters long."
	MsgCategoryCharset     = "Category must contain letters, numbers and basic characters only."
	MsgMeasurementNumber   = "Weight and repetitions must be numbers."
	MsgMeasurementPositive = "Weight and repetitions must be positive numbers."
	MsgMeasurementTooLarge = "Weight and repetitions must be less than 10000000."
)

// measurementPlaces is the number of fractional digits kept for weight and
// repetitions.
const measurementPlaces = 1

// maxMeasurementInput bounds the text handed to the decimal parser. Any
// value under the limit with one fractional digit fits easily.
const maxMeasurementInput = 32

// workoutChars is the character class allowed in workout and exercise text.
const workoutChars = `A-Za-z0-9!@#$%^&*"':;/?,<.>()\]\[~` + "`"

var (
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9!@#$%^&*()?]*$`)
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9\.\+_-]+@[a-zA-Z0-9\._-]+\.[a-zA-Z]*$`)
	// Words of allowed characters separated by whitespace, optionally padded.
	// Rejects blank input.
	textPattern = regexp.MustCompile(`^\s*[` + workoutChars + `]+(?:\s+[` + workoutChars + `]+)*\s*$`)

	measurementLimit = decimal.NewFromInt(10_000_000)

	errMeasurementTooLong  = errors.New("measurement input too long")
	errMeasurementExponent = errors.New("measurement uses exponent notation")
)

func length(s string) int {
	return utf8.RuneCountInString(s)
}

// Username checks length and character set. Uniqueness needs storage and is
// checked by the caller right after these rules.
func Username(username string) []string {
	var msgs []string
	if length(username) < MinUsernameLength {
		msgs = append(msgs, MsgUsernameLength)
	}
	if length(username) > MaxUsernameLength {
		msgs = append(msgs, MsgUsernameTooLong)
	}
	if !usernamePattern.MatchString(username) {
		msgs = append(msgs, MsgUsernameCharset)
	}
	return msgs
}

// Email checks length and format. checkUnique is true only when the address
// is well formed, so callers never look up a malformed address.
func Email(email string) (msgs []string, checkUnique bool) {
	if length(email) < MinEmailLength {
		return []string{MsgEmailLength}, false
	}
	if length(email) > MaxEmailLength {
		msgs = append(msgs, MsgEmailTooLong)
	}
	if !emailPattern.MatchString(email) {
		return append(msgs, MsgEmailFormat), false
	}
	return msgs, len(msgs) == 0
}

// Password checks both fields for length and, only when long enough, that
// they match.
func Password(password, confirmation string) []string {
	if length(password) < MinPasswordLength || length(confirmation) < MinPasswordLength {
		return []string{MsgPasswordLength}
	}
	var msgs []string
	if len(password) > MaxPasswordBytes {
		msgs = append(msgs, MsgPasswordTooLong)
	}
	if password != confirmation {
		msgs = append(msgs, MsgPasswordMatch)
	}
	return msgs
}

// Terms requires the terms of service box to be ticked.
func Terms(accepted bool) []string {
	if !accepted {
		return []string{MsgTermsRequired}
	}
	return nil
}

// TermsAccepted interprets an HTML checkbox value.
func TermsAccepted(formValue string) bool {
	switch strings.ToLower(strings.TrimSpace(formValue)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

// Name checks a workout or exercise name.
func Name(name string) []string {
	var msgs []string
	if length(name) < MinNameLength {
		msgs = append(msgs, MsgNameLength)
	}
	if length(name) > MaxNameLength {
		msgs = append(msgs, MsgNameTooLong)
	}
	if !textPattern.MatchString(name) {
		msgs = append(msgs, MsgNameCharset)
	}
	return msgs
}

// Description checks a workout description.
func Description(description string) []string {
	var msgs []string
	if length(description) < MinNameLength {
		msgs = append(msgs, MsgDescriptionLength)
	}
	if length(description) > MaxDescriptionLength {
		msgs = append(msgs, MsgDescriptionTooLong)
	}
	if !textPattern.MatchString(description) {
		msgs = append(msgs, MsgDescriptionCharset)
	}
	return msgs
}

// Workout runs the name and description rules in order.
func Workout(name, description string) *Errors {
	errs := NewErrors(Name(name)...)
	errs.Add(Description(description)...)
	return errs
}

// ExerciseValues are the coerced values of a valid exercise submission.
type ExerciseValues struct {
	Name        string
	Category    string
	Weight      decimal.Decimal
	Repetitions decimal.Decimal
}

// Exercise validates an exercise submission. When name, weight or
// repetitions is missing only MsgAllFieldsRequired is reported. Weight and
// repetitions are parsed together: a parse failure of either skips the
// range checks for both.
func Exercise(name, weight, repetitions, category string) (ExerciseValues, *Errors) {
	errs := &Errors{}
	if name == "" || weight == "" || repetitions == "" {
		errs.Add(MsgAllFieldsRequired)
		return ExerciseValues{}, errs
	}

	errs.Add(Name(name)...)
	category, catMsgs := Category(category)
	errs.Add(catMsgs...)

	w, r, measureMsgs := Measurements(weight, repetitions)
	errs.Add(measureMsgs...)

	if !errs.Empty() {
		return ExerciseValues{}, errs
	}
	return ExerciseValues{
		Name:        name,
		Category:    category,
		Weight:      w,
		Repetitions: r,
	}, errs
}

// Category returns the category to store, defaulting blanks.
func Category(category string) (string, []string) {
	if strings.TrimSpace(category) == "" {
		return DefaultCategory, nil
	}
	var msgs []string
	if length(category) > MaxCategoryLength {
		msgs = append(msgs, MsgCategoryTooLong)
	}
	if !textPattern.MatchString(category) {
		msgs = append(msgs, MsgCategoryCharset)
	}
	return category, msgs
}

// Measurements parses weight and repetitions and rounds both to one
// fractional digit (half to even, so 12.345 becomes 12.3).
func Measurements(weight, repetitions string) (w, r decimal.Decimal, msgs []string) {
	w, errW := parseMeasurement(weight)
	r, errR := parseMeasurement(repetitions)
	if errW != nil || errR != nil {
		return decimal.Zero, decimal.Zero, []string{MsgMeasurementNumber}
	}

	w = w.RoundBank(measurementPlaces)
	r = r.RoundBank(measurementPlaces)
	if w.IsNegative() || r.IsNegative() {
		return w, r, []string{MsgMeasurementPositive}
	}
	if w.GreaterThanOrEqual(measurementLimit) || r.GreaterThanOrEqual(measurementLimit) {
		return w, r, []string{MsgMeasurementTooLarge}
	}
	return w, r, nil
}

// parseMeasurement accepts plain decimal notation only. Exponents are
// refused because rounding 1e2000000000 materializes every digit.
func parseMeasurement(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if len(s) > maxMeasurementInput {
		return decimal.Zero, errMeasurementTooLong
	}
	if strings.ContainsAny(s, "eE") {
		return decimal.Zero, errMeasurementExponent
	}
	//nolint:wrapcheck // callers only test for failure
	return decimal.NewFromString(s)
}
