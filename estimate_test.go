package loglog

import (
	"fmt"
	"math"
	"testing"

	"github.com/bmizerany/assert"
)

func within(got, want, tolerance float64) bool {
	return math.Abs(got-want) <= tolerance*math.Abs(want)
}

func TestEmptyEstimate(t *testing.T) {
	for p := uint(MinPrecision); p <= MaxPrecision; p++ {
		s := mustNew(t, Config{Precision: p})
		assert.Equal(t, float64(0), s.Estimate())
		assert.Equal(t, uint64(0), s.Cardinality())
	}
}

// Five values in five different buckets of a 16-register sketch resolve through
// linear counting: 16 * ln(16/11).
func TestSmallRangeCorrection(t *testing.T) {
	s := mustNew(t, Config{Precision: 4})
	seen := map[uint64]bool{}
	for i := 0; len(seen) < 5; i++ {
		v := fmt.Sprintf("small-%d", i)
		bucket, _ := split(s.Hasher().Sum64([]byte(v)), s.p)
		if seen[bucket] {
			continue
		}
		seen[bucket] = true
		s.InsertString(v)
	}

	e := s.Estimate()
	assert.Tf(t, within(e, 16*math.Log(16.0/11.0), 1e-12), "estimate %v", e)
	assert.Tf(t, within(e, 5, StandardError(4)), "estimate %v too far from 5", e)
	assert.Equal(t, uint64(6), s.Cardinality())
}

// Every register filled but the raw estimate still below 2.5m: no zero
// registers means the raw estimate is kept.
func TestSmallRangeNoZeros(t *testing.T) {
	regs := make([]uint8, 16)
	for i := range regs {
		regs[i] = 1
	}
	s, err := FromRegisters(Config{Precision: 4}, regs)
	assert.Equal(t, nil, err)

	// E = alpha * 16^2 / (16 * 2^-1) = alpha * 32
	assert.Tf(t, within(s.Estimate(), alpha(16)*32, 1e-12), "estimate %v", s.Estimate())
}

func TestLargeRangeCorrection(t *testing.T) {
	testCases := []struct {
		hasher Hasher
		fill   uint8
	}{
		// E = alpha * 16^2 / (16 * 2^-fill) = alpha * 2^(fill+4) = alpha * 2^L
		{XXHash, 60},
		{Murmur3x32, 28},
	}

	for _, testCase := range testCases {
		cfg := Config{Precision: 4, Hasher: testCase.hasher}
		regs := make([]uint8, 16)
		for i := range regs {
			regs[i] = testCase.fill
		}
		s, err := FromRegisters(cfg, regs)
		assert.Equal(t, nil, err)

		pow := math.Ldexp(1, int(testCase.hasher.Width()))
		raw := alpha(16) * pow
		assert.T(t, raw > pow/30, "raw estimate must be in the large range")

		expect := -pow * math.Log(1-alpha(16))
		e := s.Estimate()
		assert.Tf(t, within(e, expect, 1e-9), "%s: got %v, want %v", testCase.hasher.Name(), e, expect)
		assert.T(t, e > raw)
	}
}

// A mixed register array checked against the formula written out by hand.
func TestLargeRangeMixed(t *testing.T) {
	cfg := Config{Precision: 4, Hasher: Murmur3x32}
	regs := []uint8{24, 25, 26, 27, 28, 29, 24, 25, 26, 27, 28, 29, 24, 25, 26, 27}
	s, err := FromRegisters(cfg, regs)
	assert.Equal(t, nil, err)

	sum := 0.0
	for _, r := range regs {
		sum += math.Pow(2, -float64(r))
	}
	am := 0.7213 / (1 + 1.079/16)
	raw := am * 256 / sum
	two32 := 4294967296.0
	assert.T(t, raw > two32/30)
	expect := -two32 * math.Log(1-raw/two32)

	assert.Tf(t, within(s.Estimate(), expect, 1e-9), "got %v, want %v", s.Estimate(), expect)
}

func TestSaturatedEstimate(t *testing.T) {
	regs := make([]uint8, 16)
	for i := range regs {
		regs[i] = 29
	}
	s, err := FromRegisters(Config{Precision: 4, Hasher: Murmur3x32}, regs)
	assert.Equal(t, nil, err)
	assert.Equal(t, math.Ldexp(1, 32), s.Estimate())
}

func TestLogLogEstimate(t *testing.T) {
	regs := make([]uint8, 16)
	for i := range regs {
		regs[i] = 3
	}
	s, err := FromRegisters(Config{Precision: 4, Variant: LogLog}, regs)
	assert.Equal(t, nil, err)
	assert.Tf(t, within(s.Estimate(), 0.79402*16*8, 1e-12), "got %v", s.Estimate())

	regs[0], regs[1] = 4, 2 // same mean
	s, _ = FromRegisters(Config{Precision: 4, Variant: LogLog}, regs)
	assert.Tf(t, within(s.Estimate(), 0.79402*16*8, 1e-12), "got %v", s.Estimate())

	// no linear counting fallback for LogLog
	empty := mustNew(t, Config{Precision: 4, Variant: LogLog})
	assert.Tf(t, within(empty.Estimate(), 0.79402*16, 1e-12), "got %v", empty.Estimate())
}

func TestEstimateReadOnly(t *testing.T) {
	s := randomSketch(t, Config{Precision: 9}, "r", 10000)
	before := s.Registers()
	first := s.Estimate()
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, s.Estimate())
	}
	assert.Equal(t, before, s.Registers())
}

// Mean absolute percentage error stays within a small multiple of
// 1.04/sqrt(m) for every precision.
func TestAccuracy(t *testing.T) {
	if testing.Short() {
		t.Skip("accuracy sweep is slow")
	}
	const trials = 5

	for p := uint(MinPrecision); p <= MaxPrecision; p++ {
		n := 20 << p
		var sumErr float64
		for trial := 0; trial < trials; trial++ {
			s := mustNew(t, Config{Precision: p})
			base := uint64(trial) << 40
			for i := 0; i < n; i++ {
				InsertNumber(s, base+uint64(i))
			}
			sumErr += math.Abs(s.Estimate()-float64(n)) / float64(n)
		}
		mape := sumErr / trials
		bound := 3 * StandardError(p)
		t.Logf("p=%d n=%d mape=%.4f bound=%.4f", p, n, mape, bound)
		assert.Tf(t, mape <= bound, "p=%d: mean error %.4f above %.4f", p, mape, bound)
	}
}

// Without linear counting LogLog badly overestimates tiny sets.
func TestHyperLogLogBeatsLogLogOnSmallSets(t *testing.T) {
	const n, trials = 5, 20
	var hllErr, llErr float64
	for trial := 0; trial < trials; trial++ {
		h := mustNew(t, Config{Precision: 4})
		l := mustNew(t, Config{Precision: 4, Variant: LogLog})
		for i := 0; i < n; i++ {
			v := fmt.Sprintf("%d-%d", trial, i)
			h.InsertString(v)
			l.InsertString(v)
		}
		hllErr += math.Abs(h.Estimate()-n) / n
		llErr += math.Abs(l.Estimate()-n) / n
	}
	t.Logf("hyperloglog %.4f loglog %.4f", hllErr/trials, llErr/trials)
	assert.T(t, hllErr/trials < 0.5)
	assert.T(t, llErr/trials > 1)
}

func TestStandardError(t *testing.T) {
	assert.Equal(t, 0.26, StandardError(4))
	assert.T(t, within(StandardError(14), 1.04/128, 1e-12))
}

func TestRoundFloatToUint64(t *testing.T) {
	assert.Equal(t, uint64(0), roundFloatToUint64(-3))
	assert.Equal(t, uint64(2), roundFloatToUint64(2.49))
	assert.Equal(t, uint64(3), roundFloatToUint64(2.5))
	assert.Equal(t, uint64(math.MaxUint64), roundFloatToUint64(math.Inf(1)))
}
