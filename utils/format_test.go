package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercent(t *testing.T) {
	cases := []struct {
		name     string
		current  float64
		goal     float64
		expected int
	}{
		{"partial", 550, 2000, 27},
		{"exact goal", 2000, 2000, 100},
		{"over goal clamps", 3100, 2000, 100},
		{"zero goal", 500, 0, 0},
		{"negative goal", 500, -10, 0},
		{"zero current", 0, 2000, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Percent(tc.current, tc.goal))
		})
	}
}

func TestRemaining(t *testing.T) {
	assert.Equal(t, 1450.0, Remaining(550, 2000))
	assert.Equal(t, 0.0, Remaining(2500, 2000))
	assert.Equal(t, 0.0, Remaining(2000, 2000))
}

func TestRounding(t *testing.T) {
	assert.Equal(t, 2.85, Round2(2.8500000001))
	assert.Equal(t, 0.75, Round2(0.75))
	assert.Equal(t, 8.3, Round1(8.26))
	assert.Equal(t, 20.1, Round1(20.07))
}
