// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LiftLog Contributors

package validate

import "strings"

// Errors is an ordered list of user-facing validation messages.
// The zero value is an empty list ready to use.
type Errors struct {
	messages []string
}

// NewErrors returns a list holding msgs in order.
func NewErrors(msgs ...string) *Errors {
	e := &Errors{}
	e.Add(msgs...)
	return e
}

// Add appends messages, preserving the order rules were evaluated in.
func (e *Errors) Add(msgs ...string) {
	e.messages = append(e.messages, msgs...)
}

// Messages returns a copy of the collected messages.
func (e *Errors) Messages() []string {
	if e == nil {
		return nil
	}
	out := make([]string, len(e.messages))
	copy(out, e.messages)
	return out
}

// Empty reports whether no rule failed.
func (e *Errors) Empty() bool {
	return e == nil || len(e.messages) == 0
}

// Error joins the messages so the list can travel as an error value.
func (e *Errors) Error() string {
	return strings.Join(e.messages, " ")
}

// Err returns e as an error, or nil when the list is empty.
func (e *Errors) Err() error {
	if e.Empty() {
		return nil
	}
	return e
}
