package usecase

import "math"

// Volatility returns the population standard deviation of closes (divide by N,
// not N-1). An empty series yields NaN.
func Volatility(closes []float64) float64 {
	n := len(closes)
	if n == 0 {
		return math.NaN()
	}

	var sum float64
	flat := true
	for _, p := range closes {
		sum += p
		flat = flat && p == closes[0]
	}
	// The mean of a constant series can drift from the value by rounding.
	if flat {
		return 0
	}
	mean := sum / float64(n)

	var squared float64
	for _, p := range closes {
		d := mean - p
		squared += d * d
	}
	return math.Sqrt(squared / float64(n))
}
