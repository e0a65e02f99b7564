package indicator

// EMA returns the exponential moving average of the provided values for the
// given period. The series is seeded with the first value and is fully
// populated from the first index, so it carries a front-loaded bias.
func EMA(values []float64, period int) []float64 {
	if len(values) == 0 {
		return []float64{}
	}
	if period < 1 {
		period = 1
	}

	k := 2 / (float64(period) + 1)
	set := make([]float64, len(values))
	set[0] = values[0]
	for idx := 1; idx < len(values); idx++ {
		// Equivalent to values[idx]*k + set[idx-1]*(1-k), arranged so a
		// constant input reproduces itself exactly.
		set[idx] = set[idx-1] + k*(values[idx]-set[idx-1])
	}

	return set
}
