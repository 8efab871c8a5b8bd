package transport

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/sony/gobreaker"

	"github.com/soundprediction/kgview/pkg/alert"
	"github.com/soundprediction/kgview/pkg/config"
	"github.com/soundprediction/kgview/pkg/metrics"
	"github.com/soundprediction/kgview/pkg/utils"
)

var (
	// ErrRequestFailed is the simulated network fault.
	ErrRequestFailed = errors.New("network request failed")
	// ErrCircuitOpen is returned while the breaker rejects requests.
	ErrCircuitOpen = errors.New("circuit breaker is open")
)

// Rand is the randomness source for latency and failure draws.
type Rand interface {
	Float64() float64
}

// lockedRand guards a non-concurrent generator.
type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }

// NewRand returns a seeded source, or the shared global source for seed 0.
func NewRand(seed int64) Rand {
	if seed == 0 {
		return globalRand{}
	}
	return &lockedRand{r: rand.New(rand.NewPCG(uint64(seed), uint64(seed)))}
}

// Loader produces the payload of a request once the simulated network
// succeeded.
type Loader func(ctx context.Context) (any, error)

// Options configures a Shim.
type Options struct {
	MinLatency  time.Duration
	MaxLatency  time.Duration
	FailureRate float64
	Rand        Rand

	Breaker config.CircuitBreakerConfig
	Alerter alert.Alerter
	Metrics *metrics.Collector
	Logger  *slog.Logger
}

// OptionsFromConfig maps the transport and breaker configuration.
func OptionsFromConfig(tc config.TransportConfig, cb config.CircuitBreakerConfig) Options {
	return Options{
		MinLatency:  tc.MinLatency(),
		MaxLatency:  tc.MaxLatency(),
		FailureRate: tc.FailureRate,
		Rand:        NewRand(tc.Seed),
		Breaker:     cb,
	}
}

// Shim simulates a network hop in front of the fixture data source: every
// request waits a random delay and then fails with probability
// FailureRate. There is no retry.
type Shim struct {
	minLatency  time.Duration
	maxLatency  time.Duration
	failureRate float64
	rand        Rand

	cb      *gobreaker.CircuitBreaker
	metrics *metrics.Collector
	logger  *slog.Logger
}

// New creates a shim.
func New(opts Options) *Shim {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Rand == nil {
		opts.Rand = NewRand(0)
	}
	if opts.MaxLatency < opts.MinLatency {
		opts.MaxLatency = opts.MinLatency
	}

	s := &Shim{
		minLatency:  opts.MinLatency,
		maxLatency:  opts.MaxLatency,
		failureRate: opts.FailureRate,
		rand:        opts.Rand,
		metrics:     opts.Metrics,
		logger:      opts.Logger.With("component", "transport"),
	}
	if opts.Breaker.Enabled {
		s.cb = newBreaker(opts.Breaker, opts.Alerter, s.logger)
	}
	return s
}

func newBreaker(cfg config.CircuitBreakerConfig, alerter alert.Alerter, logger *slog.Logger) *gobreaker.CircuitBreaker {
	st := gobreaker.Settings{
		Name:        "mock-transport",
		MaxRequests: cfg.MaxRequests,
		Interval:    time.Duration(cfg.Interval) * time.Second,
		Timeout:     time.Duration(cfg.Timeout) * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= cfg.ReadyToTripRatio
		},
		// a caller giving up is not a transport failure
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
			if to == gobreaker.StateOpen && alerter != nil {
				msg := fmt.Sprintf("Circuit Breaker '%s' changed status from %s to %s. Too many failures detected.", name, from, to)
				if err := alerter.Alert(fmt.Sprintf("URGENT: Circuit Breaker Tripped - %s", name), msg); err != nil {
					logger.Error("Failed to send alert", "error", err)
				}
			}
		},
	}
	return gobreaker.NewCircuitBreaker(st)
}

// Request performs one simulated GET of endpoint: it waits the injected
// latency, may fail with ErrRequestFailed, and otherwise returns what load
// produces. A context cancelled while waiting discards the result and
// returns the context error.
func (s *Shim) Request(ctx context.Context, endpoint string, load Loader) (any, error) {
	start := time.Now()
	s.logger.DebugContext(ctx, "[Mock API] GET /api"+endpoint)

	var (
		result any
		err    error
	)
	if s.cb != nil {
		result, err = s.cb.Execute(func() (interface{}, error) {
			return s.do(ctx, load)
		})
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			err = fmt.Errorf("%w: %w", ErrCircuitOpen, err)
		}
	} else {
		result, err = s.do(ctx, load)
	}

	s.observe(endpoint, start, err)
	if err != nil {
		s.logger.DebugContext(ctx, "Mock API request failed", "endpoint", endpoint, "error", err)
		return nil, err
	}
	return result, nil
}

func (s *Shim) do(ctx context.Context, load Loader) (result any, err error) {
	defer utils.RecoverAsError(&err)

	delay := s.minLatency + time.Duration(s.rand.Float64()*float64(s.maxLatency-s.minLatency))
	if err := sleep(ctx, delay); err != nil {
		return nil, err
	}
	if s.rand.Float64() < s.failureRate {
		return nil, ErrRequestFailed
	}
	return load(ctx)
}

func (s *Shim) observe(endpoint string, start time.Time, err error) {
	if s.metrics == nil {
		return
	}
	outcome := metrics.OutcomeSuccess
	switch {
	case err == nil:
	case errors.Is(err, ErrCircuitOpen):
		outcome = metrics.OutcomeCircuitOpen
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		outcome = metrics.OutcomeCanceled
	default:
		outcome = metrics.OutcomeFailure
	}
	s.metrics.TransportRequests.WithLabelValues(endpoint, outcome).Inc()
	s.metrics.TransportLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}

// BreakerState reports the breaker state, or "disabled".
func (s *Shim) BreakerState() string {
	if s.cb == nil {
		return "disabled"
	}
	return s.cb.State().String()
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Fetch is Request with a typed payload.
func Fetch[T any](ctx context.Context, s *Shim, endpoint string, load func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	v, err := s.Request(ctx, endpoint, func(ctx context.Context) (any, error) {
		return load(ctx)
	})
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("unexpected payload %T for %s", v, endpoint)
	}
	return t, nil
}
