package storage

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sony/gobreaker"
)

// BreakerConfig configures the circuit breaker in front of a backend
type BreakerConfig struct {
	Name             string
	MaxRequests      uint32        // requests let through while half-open
	Interval         time.Duration // closed-state counter reset period
	Timeout          time.Duration // how long the breaker stays open
	FailureThreshold float64
	MinRequests      uint32
}

// DefaultBreakerConfig returns the settings used for the database backend
func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:             name,
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          15 * time.Second,
		FailureThreshold: 0.6,
		MinRequests:      5,
	}
}

// BreakerKV fails fast once the wrapped backend keeps erroring.
// Missing keys are not failures.
type BreakerKV struct {
	next KeyValue
	cb   *gobreaker.CircuitBreaker
}

// NewBreakerKV wraps next with a circuit breaker
func NewBreakerKV(next KeyValue, cfg BreakerConfig, logger *log.Logger) *BreakerKV {
	if logger == nil {
		logger = log.Default()
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("storage circuit breaker changed state", "name", name, "from", from.String(), "to", to.String())
		},
	})
	return &BreakerKV{next: next, cb: cb}
}

type getResult struct {
	value string
	found bool
}

func (b *BreakerKV) Get(ctx context.Context, key string) (string, bool, error) {
	res, err := b.cb.Execute(func() (any, error) {
		v, found, err := b.next.Get(ctx, key)
		return getResult{value: v, found: found}, err
	})
	if err != nil {
		return "", false, err
	}
	r := res.(getResult)
	return r.value, r.found, nil
}

func (b *BreakerKV) Set(ctx context.Context, key, value string) error {
	_, err := b.cb.Execute(func() (any, error) {
		return nil, b.next.Set(ctx, key, value)
	})
	return err
}

// State reports the breaker state, for diagnostics
func (b *BreakerKV) State() gobreaker.State {
	return b.cb.State()
}
