
package utils

import (
	"math"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// StringPtr returns a pointer to a string, or nil if empty.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Float64Ptr returns a pointer to a float64.
func Float64Ptr(f float64) *float64 {
	return &f
}

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
// NaN and infinities collapse to 0 so degenerate arithmetic never leaks
// into API responses.
func Round(v float64, places int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	shift := math.Pow(10, float64(places))
	return math.Round(v*shift) / shift
}

// Round1 rounds to 1 decimal place (credit hours).
func Round1(v float64) float64 { return Round(v, 1) }

// Round2 rounds to 2 decimal places (marks, percentages).
func Round2(v float64) float64 { return Round(v, 2) }

// Round3 rounds to 3 decimal places (GPA values).
func Round3(v float64) float64 { return Round(v, 3) }

// TitleCase normalizes a name like "ada LOVELACE" to "Ada Lovelace".
func TitleCase(s string) string {
	return titleCaser.String(s)
}
