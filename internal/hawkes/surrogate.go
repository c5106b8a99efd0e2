package hawkes

import (
	"fmt"
	"math"
)

// Surrogate evaluates the EM surrogate objective Q for parameters p
// against the responsibility matrix and gap structure of the current
// iteration:
//
//	Q = log(mu)*S0 - mu*T
//	  + sum_{j<=i} p_ij * (log(a) - b*gap_ij)
//	  + (a/b) * sum_i (exp(-b*(T-t_i)) - 1)
//
// Pure read-only function; the EM loop never consumes its value. It
// exists to observe the ascent property across iterations. mu and a
// must be strictly positive or the logarithms are undefined, which
// indicates the parameter state has left the valid region.
func Surrogate(p Params, t []float64, r *Responsibilities, g Gaps) (float64, error) {
	if p.Mu <= 0 || p.A <= 0 {
		return 0, fmt.Errorf("%w: mu=%g a=%g", ErrDomain, p.Mu, p.A)
	}

	horizon := Horizon(t)
	logMu, logA := math.Log(p.Mu), math.Log(p.A)

	q := -p.Mu * horizon
	for i := 0; i < r.n; i++ {
		// Diagonal pair has zero gap, so it contributes both the
		// background term and p_ii*log(a).
		q += r.diag[i] * (logMu + logA)
		k := r.rowPtr[i]
		g.VisitRow(i, func(j int, gap float64) {
			q += r.vals[k] * (logA - p.B*gap)
			k++
		})
	}

	var compensator float64
	for _, ti := range t {
		compensator += math.Exp(-p.B*(horizon-ti)) - 1
	}
	q += p.A / p.B * compensator

	return q, nil
}
