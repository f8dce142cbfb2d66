package kernel

import "math"

// RoundToCents rounds a euro amount to two decimal places using
// round-half-away-from-zero. Every monetary value produced by the pricing
// and cancellation services goes through this helper so rounding stays
// consistent across the engine.
func RoundToCents(amount float64) float64 {
	return math.Round(amount*100) / 100
}
