package publications

// AverageRating returns the arithmetic mean of the given ratings, or 0
// when there are none. The result does not depend on list order.
func AverageRating(ratings []Rating) float64 {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r.Value
	}
	return float64(sum) / float64(len(ratings))
}
