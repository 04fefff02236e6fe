// Package currency converts between integer minor units (cents) and
// decimal major units. Amounts are stored and aggregated in minor
// units; the conversion to major units happens exactly once, at the
// report boundary.
package currency

import "math"

// Scale is the number of minor units per major unit.
const Scale = 100

// ToMinorUnits converts a major-unit amount (e.g. 10.50) to minor
// units (1050), rounding half away from zero.
func ToMinorUnits(major float64) int64 {
	return int64(math.Round(major * Scale))
}

// ToMajorUnits converts minor units back to a major-unit amount.
func ToMajorUnits(minor int64) float64 {
	return float64(minor) / Scale
}

// RoundMajor rounds a major-unit amount to the given number of decimal
// places, half away from zero.
func RoundMajor(v float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Round(v*pow) / pow
}
