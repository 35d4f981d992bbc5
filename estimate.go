package loglog

import "math"

// logLogAlpha is the asymptotic bias correction of the LogLog estimator.
const logLogAlpha = 0.79402

// Estimate returns the estimated number of distinct values inserted so far.
// It does not change the sketch and may be called at any time.
func (s *Sketch) Estimate() float64 {
	if s.cfg.Variant == LogLog {
		return s.estimateLogLog()
	}
	return s.estimateHyperLogLog()
}

// Cardinality returns Estimate rounded to the nearest integer.
func (s *Sketch) Cardinality() uint64 {
	return roundFloatToUint64(s.Estimate())
}

// StandardError is the expected relative error of a HyperLogLog sketch with
// precision p, 1.04/sqrt(2^p).
func StandardError(p uint) float64 {
	return 1.04 / math.Sqrt(float64(uint64(1)<<p))
}

// estimateHyperLogLog follows "HyperLogLog: the analysis of a near-optimal
// cardinality estimation algorithm" (Flajolet et al. 2007), with the
// large-range threshold taken from the hasher width rather than 2^32.
func (s *Sketch) estimateHyperLogLog() float64 {
	inverseSum, v := s.harmonicSum()
	m := float64(s.m)
	e := alpha(s.m) * m * m / inverseSum

	if e <= 5*m/2 {
		// small range correction
		if v != 0 {
			return linearCounting(s.m, v)
		}
		return e
	}

	pow := math.Ldexp(1, int(s.width)) // 2^L
	if e > pow/30 {
		// large range correction
		if e >= pow {
			// every hash pattern has been seen; the formula has no answer
			return pow
		}
		return -pow * math.Log(1-e/pow)
	}

	return e
}

// estimateLogLog is the geometric mean estimator from "Loglog Counting of
// Large Cardinalities" (Durand, Flajolet 2003).
func (s *Sketch) estimateLogLog() float64 {
	var sum uint64
	for i := uint64(0); i < s.m; i++ {
		sum += uint64(s.regs.get(i))
	}
	mean := float64(sum) / float64(s.m)
	return logLogAlpha * float64(s.m) * math.Exp2(mean)
}

// harmonicSum returns sum(2^-r) over all registers and the number of zero
// registers.
func (s *Sketch) harmonicSum() (inverseSum float64, zeros uint64) {
	for i := uint64(0); i < s.m; i++ {
		r := s.regs.get(i)
		inverseSum += math.Ldexp(1, -int(r))
		if r == 0 {
			zeros++
		}
	}
	return inverseSum, zeros
}

func alpha(m uint64) float64 {
	return 0.7213 / (1.0 + 1.079/float64(m))
}

// Returns linear counting cardinality estimate.
func linearCounting(m, v uint64) float64 {
	return float64(m) * math.Log(float64(m)/float64(v))
}

func roundFloatToUint64(value float64) uint64 {
	if value <= 0 {
		return 0
	}
	if value >= math.MaxUint64 {
		return math.MaxUint64
	}
	return uint64(math.Round(value))
}
