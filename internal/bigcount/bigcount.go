// Package bigcount accumulates and estimates step counts across an
// entire search run in arbitrary precision: a full W=H=8 exhaustive
// search's cumulative step count, or a projected total across many runs,
// can exceed int64. Grounded on the teacher's use of math/big-backed
// numeric types in internal/ml for precision-sensitive aggregation,
// generalized here to the search's running totals.
package bigcount

import (
	"math/big"

	"github.com/remyoudompheng/bigfft"
	"modernc.org/mathutil"
)

// Accumulator sums step counts from many candidate programs without
// overflow.
type Accumulator struct {
	total *big.Int
	count *big.Int
}

func NewAccumulator() *Accumulator {
	return &Accumulator{total: new(big.Int), count: new(big.Int)}
}

// Add records one candidate's step count.
func (a *Accumulator) Add(steps int) {
	a.total.Add(a.total, big.NewInt(int64(steps)))
	a.count.Add(a.count, big.NewInt(1))
}

// Total returns the cumulative step count so far.
func (a *Accumulator) Total() *big.Int { return new(big.Int).Set(a.total) }

// Count returns the number of candidates folded in so far.
func (a *Accumulator) Count() *big.Int { return new(big.Int).Set(a.count) }

// Mean returns the average step count as a rational, avoiding the
// precision loss of a float64 division once totals grow large.
func (a *Accumulator) Mean() *big.Rat {
	if a.count.Sign() == 0 {
		return new(big.Rat)
	}
	return new(big.Rat).SetFrac(a.total, a.count)
}

// EstimateSearchSpace multiplies the per-cell branching factor (3: Noop,
// Data, Turn) across every grid cell using a big-integer power, reporting
// the worst-case number of distinct W*H programs the exhaustive searcher
// could visit before any hang detector prunes a branch.
func EstimateSearchSpace(width, height int) *big.Int {
	cells := width * height
	branching := big.NewInt(3)
	return new(big.Int).Exp(branching, big.NewInt(int64(cells)), nil)
}

// MultiplyLarge multiplies two arbitrary-precision totals using
// bigfft's FFT-based multiplication, which outperforms big.Int's
// schoolbook multiply once operands run to many thousands of bits (e.g.
// combining estimated search-space sizes across several grid dimensions
// in one report).
func MultiplyLarge(a, b *big.Int) *big.Int {
	return bigfft.Mul(a, b)
}

// OrderOfMagnitude approximates the integer square root of a step-count
// total using modernc.org/mathutil's ISqrt, for a cheap eyeballed sense
// of scale (e.g. reporting alongside the exact total in a progress line)
// without the precision loss of converting a big.Int to float64 first.
func OrderOfMagnitude(total uint64) uint64 {
	return mathutil.ISqrt(total)
}
