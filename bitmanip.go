package loglog

import "math/bits"

// Bit manipulation functions

const all1s uint64 = 1<<64 - 1

// Return a bitmask containing ones from position startPos to endPos, inclusive.
// startPos and endPos are 0-indexed so they should be in [0,63].
// startPos should be less than or equal to endPos.
func onesFromTo(startPos, endPos uint) uint64 {
	// Generate two overlapping sequences of 1s, and keep the overlap.
	highOrderOnes := all1s << startPos
	lowOrderOnes := all1s >> (64 - endPos - 1)
	return highOrderOnes & lowOrderOnes
}

// Return bits x[startPos:endPos] inclusive, shifted into the low order bits of the result.
// startPos and endPos are 0-indexed so they should be in [0,63].
// startPos should be less than or equal to endPos.
func extractShift(x uint64, startPos, endPos uint) uint64 {
	return (x & onesFromTo(startPos, endPos)) >> startPos
}

// trailingZeros counts the trailing zero bits of x, but never reports more than
// limit. A zero input therefore yields limit instead of the full 64.
func trailingZeros(x uint64, limit uint) uint {
	tz := uint(bits.TrailingZeros64(x))
	if tz > limit {
		return limit
	}
	return tz
}
