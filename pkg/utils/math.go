package utils

import "math"

// Round4 rounds v to 4 decimal places, for score reporting.
func Round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
