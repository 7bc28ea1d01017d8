// Package testutil provides helpers shared by the module's tests.
package testutil

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertJSONEqual compares two JSON documents, ignoring formatting and key
// order.
func AssertJSONEqual(t *testing.T, expected, actual string, msgAndArgs ...any) {
	t.Helper()

	var want, got any
	require.NoError(t, json.Unmarshal([]byte(expected), &want), "expected JSON is invalid")
	require.NoError(t, json.Unmarshal([]byte(actual), &got), "actual JSON is invalid")
	assert.Equal(t, want, got, msgAndArgs...)
}
