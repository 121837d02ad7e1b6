package domain

import (
	"math"
	"strconv"
)

// roundBankers rounds to the given number of decimals using
// round-half-to-even. The value is snapped to 3 decimals first to suppress
// binary float noise from upstream price arithmetic.
func roundBankers(value float64, decimals int) float64 {
	scaled := math.Floor(value*1000+0.5) / 1000

	factor := math.Pow(10, float64(decimals))
	n := scaled * factor
	r := math.Floor(n)
	diff := n - r

	const eps = 1e-10
	if math.Abs(diff-0.5) < eps {
		if int64(r)%2 == 0 {
			return r / factor
		}
		return (r + 1) / factor
	}

	return math.Floor(n+0.5) / factor
}

// FormatCredit renders a credit amount with exactly two decimals using
// banker's rounding. A negative zero renders as "0.00".
func FormatCredit(x float64) string {
	s := strconv.FormatFloat(roundBankers(x, 2), 'f', 2, 64)
	if s == "-0.00" {
		return "0.00"
	}
	return s
}

// ShortID abbreviates an order id for display and logs.
func ShortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
