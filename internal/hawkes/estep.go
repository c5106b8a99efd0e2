package hawkes

import (
	"math"
	"sort"
	"sync"
)

// Responsibilities is the E-step output: a row-stochastic matrix over
// the same retained support as the gap structure it was computed from.
// Entry (i, j) with j < i is the posterior probability that event j
// triggered event i; the diagonal entry is the probability that event i
// is a background arrival. Entries above the diagonal are structurally
// zero. Every row sums to one.
//
// Off-diagonal values are stored compressed-row, positionally aligned
// with the originating Gaps' VisitRow order.
type Responsibilities struct {
	n      int
	diag   []float64
	rowPtr []int
	cols   []int
	vals   []float64
}

// ComputeResponsibilities runs the E-step: raw off-diagonal weight
// a*exp(-b*gap) per retained causal pair, raw diagonal weight mu, each
// row normalized by its own sum. Row 0 has no earlier events, so its
// whole mass sits on the diagonal.
//
// workers > 1 evaluates rows in parallel; rows are independent, so the
// result is identical for any worker count.
func ComputeResponsibilities(g Gaps, p Params, workers int) (*Responsibilities, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	n := g.Len()
	r := &Responsibilities{
		n:      n,
		diag:   make([]float64, n),
		rowPtr: make([]int, n+1),
	}
	for i := 0; i < n; i++ {
		r.rowPtr[i+1] = r.rowPtr[i] + g.RowLen(i)
	}
	nnz := r.rowPtr[n]
	r.cols = make([]int, nnz)
	r.vals = make([]float64, nnz)

	fillRows := func(lo, hi int) {
		for i := lo; i < hi; i++ {
			base := r.rowPtr[i]
			k := 0
			rowSum := p.Mu
			g.VisitRow(i, func(j int, gap float64) {
				w := p.A * math.Exp(-p.B*gap)
				r.cols[base+k] = j
				r.vals[base+k] = w
				rowSum += w
				k++
			})
			// mu > 0 guarantees a positive row sum even for row 0.
			r.diag[i] = p.Mu / rowSum
			for k := r.rowPtr[i]; k < r.rowPtr[i+1]; k++ {
				r.vals[k] /= rowSum
			}
		}
	}

	if workers <= 1 || n < 2*workers {
		fillRows(0, n)
		return r, nil
	}

	var wg sync.WaitGroup
	chunk := (n + workers - 1) / workers
	for lo := 0; lo < n; lo += chunk {
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			fillRows(lo, hi)
		}(lo, hi)
	}
	wg.Wait()
	return r, nil
}

// Len returns the number of events.
func (r *Responsibilities) Len() int { return r.n }

// Diag returns the background probability of event i.
func (r *Responsibilities) Diag(i int) float64 { return r.diag[i] }

// At returns the parenthood probability for pair (i, j). Pairs above
// the diagonal and pairs outside the retained support are 0.
func (r *Responsibilities) At(i, j int) float64 {
	if j > i {
		return 0
	}
	if j == i {
		return r.diag[i]
	}
	lo, hi := r.rowPtr[i], r.rowPtr[i+1]
	k := lo + sort.SearchInts(r.cols[lo:hi], j)
	if k < hi && r.cols[k] == j {
		return r.vals[k]
	}
	return 0
}

// RowSum returns the total mass of row i, which is one up to floating
// error. Exposed for testing and diagnostics.
func (r *Responsibilities) RowSum(i int) float64 {
	s := r.diag[i]
	for k := r.rowPtr[i]; k < r.rowPtr[i+1]; k++ {
		s += r.vals[k]
	}
	return s
}
