package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeProgress(t *testing.T) {
	cases := []struct {
		name    string
		goal    int64
		current int64
		want    float64
	}{
		{"untouched", 100, 0, 0},
		{"halfway", 100, 50, 50},
		{"exactly funded", 100, 100, 100},
		{"overshoot clamps", 100, 250, 100},
		{"zero goal", 0, 50, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := Campaign{GoalAmount: tc.goal, CurrentAmount: tc.current}
			c.ComputeProgress()
			assert.Equal(t, tc.want, c.Progress)
			assert.GreaterOrEqual(t, c.Progress, float64(0))
			assert.LessOrEqual(t, c.Progress, float64(100))
		})
	}
}

func TestValidCategory(t *testing.T) {
	assert.True(t, ValidCategory("Environment"))
	assert.True(t, ValidCategory("Other"))
	assert.False(t, ValidCategory("Sports"))
	assert.False(t, ValidCategory(""))
}
