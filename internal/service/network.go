package service

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/alexanderramin/buildops/internal/domain"
)

// DefaultLatency is the simulated round-trip time of every accessor call.
const DefaultLatency = 500 * time.Millisecond

// FaultHook decides whether a call fails. Returning a non-nil error makes
// the call fail with a TransientError wrapping it.
type FaultHook func(op string) error

// Network simulates the remote API link: a fixed latency that honours
// context cancellation, plus optional fault injection.
type Network struct {
	latency     time.Duration
	failureRate float64
	hook        FaultHook

	mu  sync.Mutex
	rng *rand.Rand
}

// NetworkOption configures a Network.
type NetworkOption func(*Network)

// WithLatency sets the per-call delay. Zero disables it.
func WithLatency(d time.Duration) NetworkOption {
	return func(n *Network) { n.latency = d }
}

// WithFailureRate makes a fraction (0..1) of calls fail transiently.
func WithFailureRate(rate float64) NetworkOption {
	return func(n *Network) { n.failureRate = rate }
}

// WithFaultHook installs a deterministic fault injector, mostly for tests.
func WithFaultHook(h FaultHook) NetworkOption {
	return func(n *Network) { n.hook = h }
}

// WithSeed fixes the random source used by WithFailureRate.
func WithSeed(seed uint64) NetworkOption {
	return func(n *Network) { n.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) }
}

// NewNetwork builds a Network with DefaultLatency and no faults.
func NewNetwork(opts ...NetworkOption) *Network {
	n := &Network{latency: DefaultLatency}
	for _, o := range opts {
		o(n)
	}
	if n.rng == nil {
		n.rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	}
	return n
}

// RoundTrip waits out the latency and then applies fault injection.
func (n *Network) RoundTrip(ctx context.Context, op string) error {
	if n.latency > 0 {
		t := time.NewTimer(n.latency)
		select {
		case <-ctx.Done():
			t.Stop()
			return &domain.TransientError{Op: op, Cause: ctx.Err()}
		case <-t.C:
		}
	} else if err := ctx.Err(); err != nil {
		return &domain.TransientError{Op: op, Cause: err}
	}

	if n.hook != nil {
		if err := n.hook(op); err != nil {
			return &domain.TransientError{Op: op, Cause: err}
		}
	}
	if n.failureRate > 0 && n.roll() < n.failureRate {
		return &domain.TransientError{Op: op}
	}
	return nil
}

func (n *Network) roll() float64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.rng.Float64()
}
