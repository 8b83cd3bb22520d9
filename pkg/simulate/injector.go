package simulate

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// Injector draws randomized delays and failure decisions for request
// handlers. All draws go through a single mutex-guarded random source, so
// one Injector can be shared by arbitrarily many concurrent requests.
type Injector struct {
	mu    sync.Mutex
	rng   *rand.Rand
	stats Stats
}

// Option configures an Injector.
type Option func(*Injector)

// WithSeed seeds the random source for deterministic draws.
// Useful in tests; production injectors should use the default time-based seed.
func WithSeed(seed int64) Option {
	return func(i *Injector) {
		i.rng = rand.New(rand.NewSource(seed))
	}
}

// NewInjector creates an Injector with a time-seeded random source.
func NewInjector(opts ...Option) *Injector {
	i := &Injector{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Delay suspends the calling request for a duration drawn uniformly from
// [p.MinDelay, p.MaxDelay] and returns the actual delay so handlers can
// report it. Only the calling goroutine blocks; concurrent requests are
// unaffected. A zero-range policy returns immediately.
//
// The sleep honors context cancellation so a closed connection does not pin
// a worker; in that case the drawn delay and the context error are returned.
func (i *Injector) Delay(ctx context.Context, p Policy) (time.Duration, error) {
	delay := i.draw(p)
	if delay <= 0 {
		return 0, nil
	}

	select {
	case <-ctx.Done():
		return delay, ctx.Err()
	case <-time.After(delay):
		return delay, nil
	}
}

// draw picks the delay and records stats under the injector lock.
func (i *Injector) draw(p Policy) time.Duration {
	i.mu.Lock()
	defer i.mu.Unlock()

	delay := p.MinDelay
	if p.MaxDelay > p.MinDelay {
		delay = p.MinDelay + time.Duration(i.rng.Float64()*float64(p.MaxDelay-p.MinDelay))
	}
	if delay > 0 {
		i.stats.DelaysInjected++
		i.stats.TotalDelay += delay
	}
	return delay
}

// ShouldFail performs one Bernoulli trial with the given probability.
// Trials are independent across calls. Probabilities at or below 0 never
// fail; at or above 1 they always fail.
func (i *Injector) ShouldFail(probability float64) bool {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.stats.FaultTrials++
	failed := i.rng.Float64() < probability
	if failed {
		i.stats.FaultsInjected++
	}
	return failed
}

// Stats returns a copy of the injector's counters.
func (i *Injector) Stats() Stats {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.stats
}

// ResetStats zeroes the injector's counters.
func (i *Injector) ResetStats() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.stats = Stats{}
}
