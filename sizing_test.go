package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTableSize(t *testing.T) {
	t.Run("Examples", func(t *testing.T) {
		for _, tc := range []struct {
			expectedCount int
			size          int
		}{
			{0, 3},
			{1, 3},
			{2, 3},
			{10, 7},
			{19, 19},
			{20, 19},
			{100, 67},
		} {
			require.Equal(t, tc.size, TableSize(tc.expectedCount, 1.5), "expected count %d", tc.expectedCount)
		}
	})

	t.Run("SmallestQualifyingPrime", func(t *testing.T) {
		for _, expectedCount := range []int{0, 1, 2, 10, 19, 20, 100, 1000, 4321} {
			raw := int(float64(expectedCount) / 1.5)
			want := raw
			for want%4 != 3 || !isPrime(want) {
				want++
			}
			got := TableSize(expectedCount, 1.5)
			require.Equal(t, want, got, "expected count %d", expectedCount)
			require.Equal(t, 3, got%4)
		}
	})

	t.Run("RoundsUpAndSkipsComposites", func(t *testing.T) {
		// 20/1.5 = 13, which rounds up to 15. 15 is composite, so 19.
		require.Equal(t, 19, TableSize(20, 1.5))
	})

	t.Run("OtherLoadFactors", func(t *testing.T) {
		require.Equal(t, 103, TableSize(100, 1))
		require.Equal(t, 3, TableSize(1, 0.75))
	})
}

func TestIsPrime(t *testing.T) {
	for _, n := range []int{3, 7, 11, 19, 23, 31, 43, 67, 7919} {
		require.True(t, isPrime(n), "%d", n)
	}
	for _, n := range []int{15, 27, 35, 39, 51, 91, 7917} {
		require.False(t, isPrime(n), "%d", n)
	}
}
