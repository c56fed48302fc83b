package util

import "math"

// RoundHalfEven rounds to the nearest integer, resolving ties toward
// the even neighbor.
func RoundHalfEven(input float64) int {
	return int(math.RoundToEven(input))
}
