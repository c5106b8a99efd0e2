package hawkes

import "errors"

// Sentinel errors for the distinguishable failure classes of the
// engine. Callers match them with errors.Is; returned errors wrap these
// with position and value context.
var (
	// ErrInvalidSequence reports an event sequence that is too short or
	// not strictly increasing.
	ErrInvalidSequence = errors.New("invalid event sequence")

	// ErrInvalidParams reports non-positive model parameters where
	// strict positivity is required.
	ErrInvalidParams = errors.New("parameters must be strictly positive")

	// ErrNoConvergence reports a decay root-find that exhausted its
	// iteration budget or could not make progress.
	ErrNoConvergence = errors.New("decay estimate did not converge")

	// ErrZeroDerivative reports a vanishing derivative encountered by
	// the Newton iteration. Always wrapped together with
	// ErrNoConvergence.
	ErrZeroDerivative = errors.New("objective derivative vanished")

	// ErrDegenerate reports near-zero triggered mass or a vanishing
	// survivor denominator, states in which the M-step equations are
	// not solvable.
	ErrDegenerate = errors.New("degenerate triggered mass")

	// ErrDomain reports evaluation of the surrogate objective outside
	// its domain (non-positive mu or a).
	ErrDomain = errors.New("surrogate objective undefined")
)
