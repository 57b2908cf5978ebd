package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizedUsernameChange(t *testing.T) {
	// A case-only variant of the current name is not a change, so it must
	// not trip the uniqueness pre-check against the user's own record.
	_, changed := normalizedUsernameChange("alice", "Alice")
	assert.False(t, changed)

	_, changed = normalizedUsernameChange("alice", "  alice ")
	assert.False(t, changed)

	_, changed = normalizedUsernameChange("alice", "")
	assert.False(t, changed)

	username, changed := normalizedUsernameChange("alice", " Bob ")
	assert.True(t, changed)
	assert.Equal(t, "bob", username)
}
