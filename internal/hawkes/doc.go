// Package hawkes fits a univariate self-exciting point process with an
// exponential triggering kernel to an observed sequence of event
// timestamps via Expectation-Maximization over the latent branching
// structure.
//
// The conditional intensity of the model is
//
//	lambda(t) = mu + sum_{t_i < t} a * exp(-b * (t - t_i))
//
// where mu is the background (immigrant) rate, a the kernel amplitude
// and b the kernel decay rate. Each EM iteration computes a
// row-stochastic parenthood probability matrix (which earlier event, if
// any, triggered each event), reduces it to three sufficient statistics
// and re-estimates (mu, a, b); mu and a have closed forms, b requires a
// one-dimensional Newton root-find.
//
// Key types: Gaps (dense or compressed causal time differences),
// Responsibilities (the E-step output), Params, Stats, FitConfig.
// Fit runs the full EM loop; ComputeResponsibilities, ReduceStats,
// UpdateParams and Surrogate are independently callable for analysis
// and testing.
package hawkes
