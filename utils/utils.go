
package utils

import (
	"math"
	"strconv"
)

// ContainsString checks if a string slice contains a specific string.
func ContainsString(slice []string, item string) bool {
	for _, a := range slice {
		if a == item {
			return true
		}
	}
	return false
}

// Round rounds v to the given number of decimal places.
func Round(v float64, places int) float64 {
	shift := math.Pow(10, float64(places))
	return math.Round(v*shift) / shift
}

// FormatAnswer renders a numeric answer for display, rounded to 3 decimals.
func FormatAnswer(v float64) string {
	return strconv.FormatFloat(Round(v, 3), 'f', -1, 64)
}
