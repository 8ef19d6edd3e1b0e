package main

import "strconv"

// stringHash is the classic 31-multiplier string hash, computed over the
// runes of s with 32-bit signed wraparound.
func stringHash(s string) int32 {
	var h int32
	for _, c := range s {
		h = 31*h + int32(c)
	}
	return h
}

// keyHash hashes the decimal rendering of a CRN.
func keyHash(crn int) int32 {
	return stringHash(strconv.Itoa(crn))
}

// bucketIndex maps a CRN onto a bucket in [0, tableSize). The hash may be
// negative, in which case the truncated remainder is shifted back into
// range instead of being used as a negative index.
func bucketIndex(crn, tableSize int) int {
	i := int(keyHash(crn)) % tableSize
	if i < 0 {
		i += tableSize
	}
	return i
}
