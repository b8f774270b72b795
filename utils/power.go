package utils

// Log2Ceil returns the smallest k with 2^k >= x.
func Log2Ceil(x int) int {
	k := 0
	for x > (1 << k) {
		k++
	}
	return k
}
