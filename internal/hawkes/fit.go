package hawkes

import "fmt"

// ObserverFunc is invoked synchronously once per completed EM
// iteration with that iteration's intermediate values. Observers must
// not mutate engine state; the engine consumes no return value.
// Convergence detection is a caller concern built on top of this hook
// (typically together with Surrogate).
type ObserverFunc func(Snapshot)

// Snapshot carries one iteration's full intermediate state to an
// observer. The responsibility matrix and gap structure are shared with
// the engine and must be treated as read-only.
type Snapshot struct {
	Iteration        int // 0-based, after this iteration's M-step
	Params           Params
	Times            []float64
	Responsibilities *Responsibilities
	Gaps             Gaps
	Horizon          float64
	Stats            Stats
}

// FitConfig configures one EM fit.
type FitConfig struct {
	Iterations int    // fixed E/M cycle count; no convergence-based stopping
	Initial    Params // all strictly positive

	// Sparse selects the compressed gap structure with threshold
	// MaxGap; the dense structure is used otherwise. Sparse fits only
	// consider causal pairs whose gap is at least MaxGap.
	Sparse bool
	MaxGap float64

	// Workers parallelizes E-step rows. Values below 2 run serially.
	Workers int

	Observer ObserverFunc
}

// DefaultFitConfig mirrors the historical defaults of the estimator:
// 100 iterations from (mu, a, b) = (0.9, 0.8, 0.5), dense gaps, serial
// evaluation.
func DefaultFitConfig() FitConfig {
	return FitConfig{
		Iterations: 100,
		Initial:    Params{Mu: 0.9, A: 0.8, B: 0.5},
		Workers:    1,
	}
}

// FitResult is the terminal state of a fit.
type FitResult struct {
	Params           Params
	Responsibilities *Responsibilities
	Gaps             Gaps
	Horizon          float64
	Iterations       int // iterations completed
}

// Fit estimates (mu, a, b) for the event sequence t by running
// cfg.Iterations strictly alternating E and M steps. The gap structure
// is computed once up front. The first M-step failure aborts the run:
// later iterations would inherit an invalid state, so there is no
// partial-failure continuation.
func Fit(t []float64, cfg FitConfig) (*FitResult, error) {
	if cfg.Iterations < 1 {
		return nil, fmt.Errorf("%w: iteration count %d", ErrInvalidParams, cfg.Iterations)
	}
	if err := cfg.Initial.Validate(); err != nil {
		return nil, fmt.Errorf("initial guess: %w", err)
	}

	var gaps Gaps
	var err error
	if cfg.Sparse {
		gaps, err = NewSparseGaps(t, cfg.MaxGap)
	} else {
		gaps, err = NewDenseGaps(t)
	}
	if err != nil {
		return nil, err
	}

	horizon := Horizon(t)
	params := cfg.Initial

	var resp *Responsibilities
	for iter := 0; iter < cfg.Iterations; iter++ {
		resp, err = ComputeResponsibilities(gaps, params, cfg.Workers)
		if err != nil {
			return nil, fmt.Errorf("iteration %d: %w", iter, err)
		}

		st := ReduceStats(resp, gaps)
		params, err = UpdateParams(st, t, horizon, params.B)
		if err != nil {
			return nil, fmt.Errorf("iteration %d: %w", iter, err)
		}

		if cfg.Observer != nil {
			cfg.Observer(Snapshot{
				Iteration:        iter,
				Params:           params,
				Times:            t,
				Responsibilities: resp,
				Gaps:             gaps,
				Horizon:          horizon,
				Stats:            st,
			})
		}
	}

	return &FitResult{
		Params:           params,
		Responsibilities: resp,
		Gaps:             gaps,
		Horizon:          horizon,
		Iterations:       cfg.Iterations,
	}, nil
}
