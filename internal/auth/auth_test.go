package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewIdentity(t *testing.T) {
	assert.Equal(t, Identity{UID: "u1", DisplayName: "Ada"}, NewIdentity("u1", "Ada"))
	assert.Equal(t, Identity{UID: "u2", DisplayName: AnonymousName}, NewIdentity("u2", ""))
}
