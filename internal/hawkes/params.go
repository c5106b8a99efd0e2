package hawkes

import "fmt"

// Params is the parameter triple of the exponential-kernel model. It is
// the only state carried between EM iterations and is replaced, never
// mutated, by each M-step.
type Params struct {
	Mu float64 // background (immigrant) intensity rate
	A  float64 // kernel amplitude
	B  float64 // kernel decay rate; 1/B is the mean triggering delay
}

// Validate reports whether all three parameters are strictly positive.
func (p Params) Validate() error {
	if p.Mu <= 0 || p.A <= 0 || p.B <= 0 {
		return fmt.Errorf("%w: mu=%g a=%g b=%g", ErrInvalidParams, p.Mu, p.A, p.B)
	}
	return nil
}

// BranchingRatio returns A/B, the expected number of direct offspring
// per event. The process is stationary only when this is below one.
func (p Params) BranchingRatio() float64 {
	return p.A / p.B
}

func (p Params) String() string {
	return fmt.Sprintf("(mu=%.6g a=%.6g b=%.6g)", p.Mu, p.A, p.B)
}
