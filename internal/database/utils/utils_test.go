package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string    `json:"name"`
	Count int       `json:"count"`
	At    time.Time `json:"at"`
}

func TestToMapAndBack(t *testing.T) {
	at := time.Date(2024, 5, 1, 10, 0, 0, 123, time.UTC)

	m, err := ToMap(sample{Name: "a", Count: 3, At: at})
	require.NoError(t, err)
	assert.Equal(t, "a", m["name"])
	assert.Equal(t, float64(3), m["count"])

	var out sample
	require.NoError(t, MapToType(m, &out))
	assert.Equal(t, "a", out.Name)
	assert.Equal(t, 3, out.Count)
	assert.True(t, at.Equal(out.At))
}

func TestToMap_Nil(t *testing.T) {
	_, err := ToMap(nil)
	assert.Error(t, err)
}

func TestCompare(t *testing.T) {
	early, err := Normalize(time.Date(2024, 1, 1, 0, 0, 0, 5, time.UTC))
	require.NoError(t, err)
	late, err := Normalize(time.Date(2024, 1, 1, 0, 0, 0, 50, time.UTC))
	require.NoError(t, err)

	tests := []struct {
		name string
		a, b interface{}
		cmp  int
		ok   bool
	}{
		{"numbers less", 1.0, 2.0, -1, true},
		{"numbers equal", 4.0, 4.0, 0, true},
		{"strings", "b", "a", 1, true},
		{"timestamps by instant", early, late, -1, true},
		{"bools", false, true, -1, true},
		{"mixed kinds", "1", 1.0, 0, false},
		{"nil", nil, 1.0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmp, ok := Compare(tt.a, tt.b)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.cmp, cmp)
			}
		})
	}
}
