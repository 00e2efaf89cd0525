// Package stats holds the small numeric helpers shared by the layout
// heuristics. Every function returns 0 for input it cannot measure, so no
// NaN or Inf ever reaches a score.
package stats

import "math"

// Mean returns the arithmetic mean, or 0 for an empty slice
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// StdDev returns the population standard deviation
func StdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := Mean(values)
	variance := 0.0
	for _, v := range values {
		d := v - m
		variance += d * d
	}
	return math.Sqrt(variance / float64(len(values)))
}

// CV returns the coefficient of variation (stddev / mean).
// A zero mean yields 0.
func CV(values []float64) float64 {
	m := Mean(values)
	if m == 0 {
		return 0
	}
	return StdDev(values) / m
}

// MaxDeviation returns the largest absolute distance from the mean
func MaxDeviation(values []float64) float64 {
	m := Mean(values)
	max := 0.0
	for _, v := range values {
		max = math.Max(max, math.Abs(v-m))
	}
	return max
}

// Clamp01 restricts v to [0,1]
func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}

// Clamp restricts v to [lo,hi]. NaN maps to lo.
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Ratio returns num/den, or 0 when den is 0
func Ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// Consistency converts a spread into a [0,1] score: 1 - spread/tolerance,
// floored at 0.
func Consistency(spread, tolerance float64) float64 {
	if tolerance <= 0 {
		return 0
	}
	return Clamp01(1 - spread/tolerance)
}
