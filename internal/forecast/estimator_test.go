package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMovingAverage(t *testing.T) {
	tests := []struct {
		name     string
		qty      []int
		window   int
		expected float64
	}{
		{name: "empty", qty: nil, window: 7, expected: 0},
		{name: "shorter than window", qty: []int{2, 4, 6}, window: 7, expected: 4},
		{name: "trailing window", qty: []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, window: 7, expected: 7},
		{name: "window equals length", qty: []int{3, 5}, window: 2, expected: 4},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.expected, MovingAverage(dailySeries(monday, tc.qty...), tc.window), 1e-9)
		})
	}
}

func TestExponentialSmoothing(t *testing.T) {
	tests := []struct {
		name     string
		qty      []int
		expected float64
	}{
		{name: "empty", qty: nil, expected: 0},
		{name: "seed only", qty: []int{10}, expected: 10},
		{name: "two points", qty: []int{10, 20}, expected: 13},
		{name: "three points", qty: []int{10, 20, 30}, expected: 18.1},
		{name: "rounded to cents", qty: []int{3, 1, 1, 1}, expected: 1.69},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.expected, ExponentialSmoothing(dailySeries(monday, tc.qty...), 0.3), 1e-9)
		})
	}
}

func TestEstimateBaseDemand(t *testing.T) {
	cfg := DefaultConfig()

	assert.Zero(t, EstimateBaseDemand(cfg, nil))
	assert.InDelta(t, 20, EstimateBaseDemand(cfg, dailySeries(monday, repeat(20, 10)...)), 1e-9)

	// last 7 of the step series average 130/7, smoothing ends at 21.4
	step := dailySeries(monday, 10, 10, 10, 10, 25, 25, 25, 25)
	assert.InDelta(t, 130.0/7*0.6+21.4*0.4, EstimateBaseDemand(cfg, step), 1e-9)
}
