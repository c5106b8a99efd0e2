package hawkes

import "math"

// TracePoint is one iteration's parameter state and surrogate value.
type TracePoint struct {
	Iteration int
	Params    Params
	Q         float64
}

// Trace accumulates per-iteration trace points through an observer.
// Not safe for concurrent use; the engine invokes observers
// synchronously so no locking is needed in the EM loop.
type Trace struct {
	points []TracePoint
}

// Observer returns an ObserverFunc that records (iteration, params, Q)
// after each M-step. A surrogate evaluation failure records NaN rather
// than halting the fit, since the trace is diagnostic only.
func (tr *Trace) Observer() ObserverFunc {
	return func(s Snapshot) {
		q, err := Surrogate(s.Params, s.Times, s.Responsibilities, s.Gaps)
		if err != nil {
			q = math.NaN()
		}
		tr.points = append(tr.points, TracePoint{
			Iteration: s.Iteration,
			Params:    s.Params,
			Q:         q,
		})
	}
}

// Points returns the recorded trace in iteration order.
func (tr *Trace) Points() []TracePoint { return tr.points }
