// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LiftLog Contributors

package errutil

import (
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// asOops fails the test unless err is a non-nil oops error.
func asOops(t *testing.T, err error, want string) oops.OopsError {
	t.Helper()
	require.Error(t, err, "expected an error carrying %s", want)
	oe, ok := oops.AsOops(err)
	require.True(t, ok, "expected an oops error, got %T: %v", err, err)
	return oe
}

// AssertErrorCode fails the test unless err carries the given oops code.
func AssertErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	assert.Equal(t, code, asOops(t, err, "code "+code).Code())
}

// AssertErrorContext fails the test unless key is set to value anywhere in
// err's oops context chain.
func AssertErrorContext(t *testing.T, err error, key string, value any) {
	t.Helper()
	got, ok := asOops(t, err, "context key "+key).Context()[key]
	require.True(t, ok, "context key %q missing", key)
	assert.Equal(t, value, got)
}
