// Package simulate implements the request-simulation engine: randomized
// processing latency and probabilistic failures, parameterized per endpoint
// by a Policy.
//
// A single Injector is shared by all in-flight requests. Its random source
// is guarded by a mutex so concurrent draws are safe; each draw is
// statistically independent of every other.
//
// Usage:
//
//	inj := simulate.NewInjector()
//
//	// Suspend the current request for a uniformly random duration.
//	actual, err := inj.Delay(ctx, simulate.Policy{
//	    MinDelay: 10 * time.Millisecond,
//	    MaxDelay: 50 * time.Millisecond,
//	})
//
//	// One independent Bernoulli trial.
//	if inj.ShouldFail(0.5) {
//	    return simulate.ErrSimulated
//	}
package simulate
