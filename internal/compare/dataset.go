package compare

import (
	"math/rand"

	"github.com/pkg/errors"
)

var (
	// ErrZeroCardinality is returned for percentage errors against a true
	// cardinality of zero, where the ratio is undefined.
	ErrZeroCardinality = errors.New("compare: true cardinality is zero")

	// ErrNoEstimates is returned when averaging an empty set of estimates.
	ErrNoEstimates = errors.New("compare: no estimates")
)

// CreateSet returns numUnique random floats, followed by between 1 and
// maxRepeats extra copies of each of them. The true cardinality of the result
// is numUnique (barring a collision in the generator).
func CreateSet(rng *rand.Rand, numUnique, maxRepeats int) []float64 {
	numbers := make([]float64, numUnique, numUnique*(maxRepeats/2+2))
	for i := range numbers {
		numbers[i] = rng.Float64()
	}
	for i := 0; i < numUnique; i++ {
		repeats := 1 + rng.Intn(maxRepeats)
		for j := 0; j < repeats; j++ {
			numbers = append(numbers, numbers[i])
		}
	}
	return numbers
}

// MeanAbsolutePercentageError is the average of |e - trueValue| / trueValue
// over estimates.
func MeanAbsolutePercentageError(estimates []float64, trueValue float64) (float64, error) {
	if trueValue == 0 {
		return 0, ErrZeroCardinality
	}
	if len(estimates) == 0 {
		return 0, ErrNoEstimates
	}
	var sum float64
	for _, e := range estimates {
		sum += absRatio(e, trueValue)
	}
	return sum / float64(len(estimates)), nil
}

func absRatio(estimate, trueValue float64) float64 {
	d := estimate - trueValue
	if d < 0 {
		d = -d
	}
	return d / trueValue
}
