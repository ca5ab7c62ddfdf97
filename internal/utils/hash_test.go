package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHash(t *testing.T) {
	a := Hash("D1", "P1")
	assert.Len(t, a, 64)
	assert.Equal(t, a, Hash("D1", "P1"))
	assert.NotEqual(t, a, Hash("D1", "P2"))
	assert.NotEqual(t, Hash("D1P", "1"), Hash("D1", "P1"))
	assert.NotEqual(t, Hash("a/b", "c"), Hash("a", "b/c"))
}
