package utils

import "math"

// Round1 rounds to 1 decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Round2 rounds to 2 decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Percent returns the integer progress percentage of current against goal,
// clamped to [0, 100]. A zero or negative goal yields 0 so callers never
// divide by zero.
func Percent(current, goal float64) int {
	if goal <= 0 {
		return 0
	}
	p := int(current / goal * 100)
	if p > 100 {
		return 100
	}
	if p < 0 {
		return 0
	}
	return p
}

// Remaining returns goal minus current, floored at 0.
func Remaining(current, goal float64) float64 {
	if r := goal - current; r > 0 {
		return r
	}
	return 0
}
