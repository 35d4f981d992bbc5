package loglog

import "fmt"

// Variant selects the rank convention and the estimator a sketch uses.
type Variant uint8

const (
	// HyperLogLog ranks a hash by its trailing zeros plus one and estimates
	// with a bias-corrected harmonic mean. This is the default.
	HyperLogLog Variant = iota
	// LogLog ranks a hash by its trailing zeros and estimates with a
	// geometric mean. It is less accurate, especially for small sets.
	LogLog
)

func (v Variant) String() string {
	switch v {
	case HyperLogLog:
		return "hyperloglog"
	case LogLog:
		return "loglog"
	}
	return fmt.Sprintf("Variant(%d)", uint8(v))
}

// split divides a hash into its bucket (the low p bits) and the remaining
// bits w.
func split(x uint64, p uint) (bucket, w uint64) {
	return extractShift(x, 0, p-1), x >> p
}

// rank returns the register value for the remainder w of a width-bit hash.
// Trailing zeros are counted over the width-p bits that w can hold, so a zero
// remainder counts as width-p zeros.
func rank(w uint64, width, p uint, v Variant) uint8 {
	tz := trailingZeros(w, width-p)
	if v == LogLog {
		return uint8(tz)
	}
	return uint8(tz + 1)
}

// maxRank is the largest value rank can return for the configuration.
func maxRank(width, p uint, v Variant) uint8 {
	if v == LogLog {
		return uint8(width - p)
	}
	return uint8(width - p + 1)
}
