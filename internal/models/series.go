package models

import "math"

// Latest returns the value of the last point, or nil for an empty series.
func (s NormalizedSeries) Latest() *float64 {
	if len(s) == 0 {
		return nil
	}
	return s[len(s)-1].Value
}

// Previous returns the value of the second-to-last point, or nil.
func (s NormalizedSeries) Previous() *float64 {
	if len(s) < 2 {
		return nil
	}
	return s[len(s)-2].Value
}

// Tail returns the last n points (the whole series when it is shorter).
func (s NormalizedSeries) Tail(n int) NormalizedSeries {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

// Growth returns (curr-prev)/prev, or nil when either operand is nil,
// prev is zero, or the result is not finite.
func Growth(curr, prev *float64) *float64 {
	if curr == nil || prev == nil || *prev == 0 {
		return nil
	}
	g := (*curr - *prev) / *prev
	if math.IsNaN(g) || math.IsInf(g, 0) {
		return nil
	}
	return &g
}
