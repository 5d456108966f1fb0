package grading

// WeightedAverage returns sum(value*weight)/sum(weight), or 0 when the rows
// carry no weight.
func WeightedAverage[T any](rows []T, value, weight func(T) float64) float64 {
	var points, weights float64
	for _, r := range rows {
		w := weight(r)
		points += value(r) * w
		weights += w
	}
	if weights == 0 {
		return 0
	}
	return points / weights
}
