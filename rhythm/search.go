package rhythm

// SearchSorted returns the index of the first element of sorted that is greater than t, or len(sorted)
// when there is none. sorted must be in ascending order.
func SearchSorted(sorted []float64, t float64) int {
	lo, hi := 0, len(sorted)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if sorted[mid] <= t {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}
