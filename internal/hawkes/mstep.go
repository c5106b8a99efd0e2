package hawkes

import (
	"fmt"
	"math"
)

const (
	// newtonMaxIter caps the decay root-find.
	newtonMaxIter = 50
	// newtonTol is the step-size convergence tolerance.
	newtonTol = 1.48e-8
	// minTriggeredMass is the smallest S1 the M-step will solve for;
	// below it the decay equation is dominated by noise.
	minTriggeredMass = 1e-10
	// minSurvivorMass guards the survivor-function denominator.
	minSurvivorMass = 1e-12
)

// decayObjective is the stationarity equation for the decay rate b,
//
//	f(b) = S2 + S1/b - S1 * A(b)/C(b)
//
// with A(b) = sum (T-t_i)*exp(-b(T-t_i)) and
// C(b) = sum (1 - exp(-b(T-t_i))). The equation has no closed form
// because b appears both linearly and inside the exponentials, so it is
// solved by Newton iteration. The struct closes over everything the
// objective needs; there is no hidden state.
type decayObjective struct {
	t       []float64
	horizon float64
	s1, s2  float64
}

// eval returns f(b) and f'(b) in a single pass over the sequence.
func (o decayObjective) eval(b float64) (value, deriv float64, err error) {
	var sumA, sumAPrime, sumC float64
	for _, ti := range o.t {
		w := o.horizon - ti
		e := math.Exp(-b * w)
		sumA += w * e
		sumAPrime -= w * w * e
		sumC += 1 - e
	}
	if sumC < minSurvivorMass {
		return 0, 0, fmt.Errorf("%w: survivor mass %g at b=%g", ErrDegenerate, sumC, b)
	}

	value = o.s2 + o.s1/b - o.s1*sumA/sumC
	// d/db of A/C by the quotient rule; C'(b) = A(b).
	deriv = -o.s1/(b*b) - o.s1*(sumAPrime*sumC-sumA*sumA)/(sumC*sumC)
	return value, deriv, nil
}

// solveDecay runs a Newton iteration on the decay objective seeded at
// b0, keeping the iterate in the positive domain by halving any step
// that would cross zero.
func solveDecay(obj decayObjective, b0 float64) (float64, error) {
	b := b0
	for iter := 0; iter < newtonMaxIter; iter++ {
		f, df, err := obj.eval(b)
		if err != nil {
			return 0, err
		}
		if df == 0 || math.IsNaN(df) || math.IsInf(df, 0) {
			return 0, fmt.Errorf("%w: %w at b=%g (iteration %d)",
				ErrNoConvergence, ErrZeroDerivative, b, iter)
		}

		step := f / df
		next := b - step
		for halvings := 0; next <= 0; halvings++ {
			if halvings >= 64 {
				return 0, fmt.Errorf("%w: iterate pinned at positive boundary near b=%g", ErrNoConvergence, b)
			}
			step /= 2
			next = b - step
		}

		if math.Abs(next-b) < newtonTol {
			return next, nil
		}
		b = next
	}
	return 0, fmt.Errorf("%w: no root within %d iterations from b0=%g",
		ErrNoConvergence, newtonMaxIter, b0)
}

// UpdateParams runs the M-step. mu has a closed form (expected
// background count over elapsed time), b is found by Newton iteration
// seeded at its previous value, and a follows in closed form once b is
// known. Numerical failure is surfaced as an error; no NaN or stale
// value ever reaches the next E-step.
func UpdateParams(st Stats, t []float64, horizon, prevB float64) (Params, error) {
	if horizon <= 0 {
		return Params{}, fmt.Errorf("%w: non-positive horizon %g", ErrInvalidSequence, horizon)
	}
	if prevB <= 0 {
		return Params{}, fmt.Errorf("%w: non-positive decay seed %g", ErrInvalidParams, prevB)
	}
	if st.Triggered < minTriggeredMass {
		return Params{}, fmt.Errorf("%w: S1=%g, nothing was triggered", ErrDegenerate, st.Triggered)
	}

	mu := st.Background / horizon

	obj := decayObjective{t: t, horizon: horizon, s1: st.Triggered, s2: st.Exposure}
	b, err := solveDecay(obj, prevB)
	if err != nil {
		return Params{}, err
	}

	var survivor float64
	for _, ti := range t {
		survivor += 1 - math.Exp(-b*(horizon-ti))
	}
	if survivor < minSurvivorMass {
		return Params{}, fmt.Errorf("%w: survivor mass %g at fitted b=%g", ErrDegenerate, survivor, b)
	}
	a := b * st.Triggered / survivor

	next := Params{Mu: mu, A: a, B: b}
	if err := next.Validate(); err != nil {
		return Params{}, err
	}
	return next, nil
}
