package main

// DefaultLoadFactor is the number of records expected per bucket when a
// table is sized from an expected record count.
const DefaultLoadFactor = 1.5

// TableSize returns the bucket count for a table expected to hold
// expectedCount records: the smallest prime p >= expectedCount/loadFactor
// with p % 4 == 3.
func TableSize(expectedCount int, loadFactor float64) int {
	return next4K3Prime(int(float64(expectedCount) / loadFactor))
}

func next4K3Prime(n int) int {
	if r := n % 4; r != 3 {
		n += 3 - r
	}
	for !isPrime(n) {
		n += 4
	}
	return n
}

// Only called with n >= 3.
func isPrime(n int) bool {
	for i := 2; i*i <= n; i++ {
		if n%i == 0 {
			return false
		}
	}
	return true
}
