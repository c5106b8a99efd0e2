package hawkes

import (
	"fmt"
	"sort"
)

// Gaps is the causal time-difference structure over an event sequence:
// for every retained pair (i, j) with j < i it holds t_i - t_j. Entries
// with j > i do not exist in the model (an event cannot be triggered by
// a later one) and the diagonal gap is always zero.
//
// Two implementations exist: DenseGaps keeps every causal pair,
// SparseGaps keeps only pairs whose gap meets a threshold. Both are
// immutable once constructed.
type Gaps interface {
	// Len returns the number of events n.
	Len() int

	// At returns the gap for pair (i, j), or 0 when the pair is not
	// retained or lies on/above the diagonal.
	At(i, j int) float64

	// VisitRow calls fn for every retained off-diagonal pair (i, j) of
	// row i in ascending column order.
	VisitRow(i int, fn func(j int, gap float64))

	// RowLen returns the number of retained off-diagonal pairs in row i.
	RowLen(i int) int
}

// validateSequence checks the engine's input contract: at least two
// strictly increasing timestamps.
func validateSequence(t []float64) error {
	if len(t) < 2 {
		return fmt.Errorf("%w: need at least 2 events, got %d", ErrInvalidSequence, len(t))
	}
	for i := 1; i < len(t); i++ {
		if t[i] <= t[i-1] {
			return fmt.Errorf("%w: timestamps not strictly increasing at index %d (%g after %g)",
				ErrInvalidSequence, i, t[i], t[i-1])
		}
	}
	return nil
}

// Horizon returns the observation horizon T of a sequence, the span
// from the first to the last event.
func Horizon(t []float64) float64 {
	return t[len(t)-1] - t[0]
}

// DenseGaps holds the full n-by-n causal gap matrix in row-major order.
// Entries above the diagonal are zero by convention and carry no
// probability mass downstream.
type DenseGaps struct {
	n    int
	data []float64
}

// NewDenseGaps builds the dense gap matrix for a sequence. O(n^2) time
// and space: the branching model considers every earlier event as a
// candidate parent.
func NewDenseGaps(t []float64) (*DenseGaps, error) {
	if err := validateSequence(t); err != nil {
		return nil, err
	}
	n := len(t)
	g := &DenseGaps{n: n, data: make([]float64, n*n)}
	for i := 0; i < n; i++ {
		for j := 0; j < i; j++ {
			g.data[i*n+j] = t[i] - t[j]
		}
	}
	return g, nil
}

// Len returns the number of events.
func (g *DenseGaps) Len() int { return g.n }

// At returns t_i - t_j for j < i, 0 otherwise.
func (g *DenseGaps) At(i, j int) float64 {
	if j >= i {
		return 0
	}
	return g.data[i*g.n+j]
}

// VisitRow visits every pair (i, j) with j < i.
func (g *DenseGaps) VisitRow(i int, fn func(j int, gap float64)) {
	row := g.data[i*g.n : i*g.n+i]
	for j, gap := range row {
		fn(j, gap)
	}
}

// RowLen returns i: row i has one pair per earlier event.
func (g *DenseGaps) RowLen(i int) int { return i }

// SparseGaps is a compressed-row gap structure retaining only pairs
// whose gap is at least the construction threshold. It trades
// completeness of the causal graph for memory on long sequences.
type SparseGaps struct {
	n      int
	rowPtr []int
	cols   []int
	vals   []float64
}

// NewSparseGaps builds a compressed gap structure keeping pairs (i, j)
// with j < i and t_i - t_j >= maxGap. maxGap must be non-negative; a
// zero threshold retains every causal pair.
func NewSparseGaps(t []float64, maxGap float64) (*SparseGaps, error) {
	if err := validateSequence(t); err != nil {
		return nil, err
	}
	if maxGap < 0 {
		return nil, fmt.Errorf("%w: negative gap threshold %g", ErrInvalidSequence, maxGap)
	}
	n := len(t)
	g := &SparseGaps{n: n, rowPtr: make([]int, n+1)}
	for i := 0; i < n; i++ {
		g.rowPtr[i] = len(g.cols)
		for j := 0; j < i; j++ {
			if gap := t[i] - t[j]; gap >= maxGap {
				g.cols = append(g.cols, j)
				g.vals = append(g.vals, gap)
			}
		}
	}
	g.rowPtr[n] = len(g.cols)
	return g, nil
}

// Len returns the number of events.
func (g *SparseGaps) Len() int { return g.n }

// At returns the retained gap for (i, j), or 0 when the pair was
// dropped by the threshold or j >= i.
func (g *SparseGaps) At(i, j int) float64 {
	if j >= i {
		return 0
	}
	lo, hi := g.rowPtr[i], g.rowPtr[i+1]
	k := lo + sort.SearchInts(g.cols[lo:hi], j)
	if k < hi && g.cols[k] == j {
		return g.vals[k]
	}
	return 0
}

// VisitRow visits the retained pairs of row i in ascending column order.
func (g *SparseGaps) VisitRow(i int, fn func(j int, gap float64)) {
	for k := g.rowPtr[i]; k < g.rowPtr[i+1]; k++ {
		fn(g.cols[k], g.vals[k])
	}
}

// RowLen returns the number of retained pairs in row i.
func (g *SparseGaps) RowLen(i int) int { return g.rowPtr[i+1] - g.rowPtr[i] }

// NNZ returns the total number of retained off-diagonal pairs.
func (g *SparseGaps) NNZ() int { return len(g.vals) }
