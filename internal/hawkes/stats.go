package hawkes

import "gonum.org/v1/gonum/floats"

// Stats are the three sufficient statistics the M-step consumes.
// Recomputed every iteration, never carried across iterations.
type Stats struct {
	Background float64 // S0: expected number of background events
	Triggered  float64 // S1: expected number of triggered events, n - S0
	Exposure   float64 // S2: negative responsibility-weighted total gap
}

// ReduceStats reduces a responsibility matrix and its gap structure to
// (S0, S1, S2). Pure reduction over the retained lower-triangular
// support; the two structures must come from the same sequence so their
// supports align.
func ReduceStats(r *Responsibilities, g Gaps) Stats {
	s0 := floats.Sum(r.diag)

	var weighted float64
	for i := 0; i < r.n; i++ {
		k := r.rowPtr[i]
		g.VisitRow(i, func(j int, gap float64) {
			weighted += r.vals[k] * gap
			k++
		})
	}

	return Stats{
		Background: s0,
		Triggered:  float64(r.n) - s0,
		Exposure:   -weighted,
	}
}
