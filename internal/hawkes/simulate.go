package hawkes

import (
	"fmt"
	"math"
	"math/rand"
)

// maxSimulatedEvents bounds a single simulation run. Near-critical
// parameter choices can produce very long cascades; hitting the bound
// is reported rather than exhausting memory.
const maxSimulatedEvents = 1 << 22

// Intensity returns the conditional intensity lambda(x) given the
// events of t strictly before x.
func Intensity(p Params, t []float64, x float64) float64 {
	lambda := p.Mu
	for _, ti := range t {
		if ti >= x {
			break
		}
		lambda += p.A * math.Exp(-p.B*(x-ti))
	}
	return lambda
}

// Simulate draws one realization of the process on [0, horizon) by
// Ogata thinning. The parameters must be strictly positive and
// subcritical (a/b < 1); a supercritical process has no stationary
// regime and its expected event count diverges.
//
// The exponential kernel is Markovian, so the triggered part of the
// intensity is carried forward with a single decay factor per candidate
// point instead of a sum over the whole history.
func Simulate(p Params, horizon float64, rng *rand.Rand) ([]float64, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if horizon <= 0 {
		return nil, fmt.Errorf("%w: non-positive horizon %g", ErrInvalidSequence, horizon)
	}
	if ratio := p.BranchingRatio(); ratio >= 1 {
		return nil, fmt.Errorf("%w: branching ratio %g >= 1", ErrInvalidParams, ratio)
	}

	var events []float64
	cur := 0.0
	excess := 0.0 // triggered intensity immediately after cur
	for {
		// The intensity only decays between events, so mu + excess
		// dominates lambda until the next accepted point.
		bound := p.Mu + excess
		w := rng.ExpFloat64() / bound
		cur += w
		if cur >= horizon {
			return events, nil
		}
		excess *= math.Exp(-p.B * w)
		if rng.Float64()*bound <= p.Mu+excess {
			events = append(events, cur)
			excess += p.A
			if len(events) >= maxSimulatedEvents {
				return nil, fmt.Errorf("%w: simulation exceeded %d events", ErrInvalidParams, maxSimulatedEvents)
			}
		}
	}
}
