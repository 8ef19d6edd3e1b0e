package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStringHash(t *testing.T) {
	require.Equal(t, int32(0), stringHash(""))
	require.Equal(t, int32(48), stringHash("0"))
	require.Equal(t, int32(46792755), stringHash("12345"))
	// Overflows 32 bits and wraps around to a negative value.
	require.Equal(t, int32(-359771092), stringHash("2147483647"))
}

func TestKeyHash(t *testing.T) {
	require.Equal(t, stringHash("10000"), keyHash(10000))
	require.Equal(t, stringHash("-5"), keyHash(-5))
	require.Equal(t, int32(1448), keyHash(-5))
}

func TestBucketIndex(t *testing.T) {
	t.Run("PositiveHash", func(t *testing.T) {
		require.Equal(t, 6, bucketIndex(0, 7))
		require.Equal(t, 0, bucketIndex(1, 7))
		require.Equal(t, 2, bucketIndex(12345, 7))
		require.Equal(t, 6, bucketIndex(-5, 7))
	})

	t.Run("NegativeHash", func(t *testing.T) {
		// keyHash(1799928) is -2127961415, whose truncated remainder
		// modulo 7 is -6.
		require.Equal(t, int32(-2127961415), keyHash(1799928))
		require.Equal(t, 1, bucketIndex(1799928, 7))
		require.Equal(t, 15, bucketIndex(1799928, 19))
	})

	t.Run("AlwaysInRange", func(t *testing.T) {
		for _, size := range []int{1, 3, 7, 19, 67} {
			for crn := -1000; crn < 3000000; crn += 997 {
				i := bucketIndex(crn, size)
				require.True(t, i >= 0 && i < size, "CRN %d size %d index %d", crn, size, i)
			}
		}
	})
}
