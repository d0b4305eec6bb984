package generator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"mindcanvas/internal/config"
	"mindcanvas/internal/domain"
)

// Observer receives per-provider outcomes. *metrics.Collector satisfies it.
type Observer interface {
	ObserveGenerator(provider, outcome string, d time.Duration)
	SetBreakerState(provider string, state int)
}

// BreakerSettings tunes the circuit breaker placed in front of each provider
type BreakerSettings struct {
	MaxRequests  uint32
	Interval     time.Duration
	Timeout      time.Duration
	MinRequests  uint32
	FailureRatio float64
}

// DefaultBreakerSettings returns a breaker that opens after three requests
// with at least 60% failures and tries again after 30 seconds
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		MaxRequests:  1,
		Interval:     time.Minute,
		Timeout:      30 * time.Second,
		MinRequests:  3,
		FailureRatio: 0.6,
	}
}

type guarded struct {
	gen Generator
	cb  *gobreaker.CircuitBreaker
}

// Fallback tries providers in order until one returns an outline
type Fallback struct {
	providers []guarded
	timeout   time.Duration
	logger    *zap.Logger
	observer  Observer
}

// FallbackOption configures a Fallback
type FallbackOption func(*Fallback)

// WithTimeout bounds each provider attempt
func WithTimeout(d time.Duration) FallbackOption {
	return func(f *Fallback) { f.timeout = d }
}

// WithLogger sets the logger used for failures and breaker transitions
func WithLogger(l *zap.Logger) FallbackOption {
	return func(f *Fallback) {
		if l != nil {
			f.logger = l
		}
	}
}

// WithObserver records outcomes and breaker states
func WithObserver(o Observer) FallbackOption {
	return func(f *Fallback) { f.observer = o }
}

// NewFallback wraps each provider in its own breaker
func NewFallback(providers []Generator, bs BreakerSettings, opts ...FallbackOption) *Fallback {
	f := &Fallback{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(f)
	}
	for _, p := range providers {
		f.providers = append(f.providers, guarded{gen: p, cb: f.breaker(p.Name(), bs)})
	}
	return f
}

func (f *Fallback) breaker(name string, bs BreakerSettings) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: bs.MaxRequests,
		Interval:    bs.Interval,
		Timeout:     bs.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < bs.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= bs.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			f.logger.Warn("generator breaker state changed",
				zap.String("provider", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
			if f.observer != nil {
				f.observer.SetBreakerState(name, breakerLevel(to))
			}
		},
		// bad input is the caller's fault, not the provider's
		IsSuccessful: func(err error) bool {
			return err == nil || (domain.IsInput(err) && !errors.Is(err, domain.ErrEmptyOutline))
		},
	})
}

func breakerLevel(s gobreaker.State) int {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

// Name lists the chained providers
func (f *Fallback) Name() string {
	name := "fallback("
	for i, p := range f.providers {
		if i > 0 {
			name += ","
		}
		name += p.gen.Name()
	}
	return name + ")"
}

// Expand returns the first successful outline. Providers whose breaker is
// open are skipped. The error lists every provider failure when none
// succeeds.
func (f *Fallback) Expand(ctx context.Context, topic string) (*domain.Outline, error) {
	if _, err := checkTopic(topic); err != nil {
		return nil, err
	}
	if len(f.providers) == 0 {
		return nil, ErrNoProviders
	}

	var errs []error
	for _, p := range f.providers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		name := p.gen.Name()
		start := time.Now()
		res, err := p.cb.Execute(func() (interface{}, error) {
			attemptCtx := ctx
			if f.timeout > 0 {
				var cancel context.CancelFunc
				attemptCtx, cancel = context.WithTimeout(ctx, f.timeout)
				defer cancel()
			}
			return p.gen.Expand(attemptCtx, topic)
		})
		elapsed := time.Since(start)

		switch {
		case err == nil:
			f.observe(name, "success", elapsed)
			f.logger.Debug("topic expanded", zap.String("provider", name), zap.Duration("elapsed", elapsed))
			return res.(*domain.Outline), nil
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			f.observe(name, "rejected", 0)
			f.logger.Debug("provider skipped", zap.String("provider", name), zap.Error(err))
		default:
			f.observe(name, "error", elapsed)
			f.logger.Warn("provider failed", zap.String("provider", name), zap.Error(err))
		}
		errs = append(errs, &ProviderError{Provider: name, Err: err})
	}
	return nil, fmt.Errorf("all generator providers failed: %w", errors.Join(errs...))
}

func (f *Fallback) observe(provider, outcome string, d time.Duration) {
	if f.observer != nil {
		f.observer.ObserveGenerator(provider, outcome, d)
	}
}

// FromConfig builds the provider chain described by cfg. Providers without
// an API key are left out and the static provider always comes last.
func FromConfig(cfg config.GeneratorConfig, opts ...FallbackOption) *Fallback {
	var providers []Generator
	for _, p := range cfg.Providers {
		switch p.Kind {
		case config.KindOpenAI:
			if p.APIKey == "" {
				continue
			}
			providers = append(providers, NewOpenAIClient(OpenAIConfig{
				Name:    p.Name,
				APIKey:  p.APIKey,
				BaseURL: p.BaseURL,
				Model:   p.Model,
				Timeout: cfg.Timeout.Duration(),
				Retries: 2,
			}))
		case config.KindGemini:
			if p.APIKey == "" {
				continue
			}
			providers = append(providers, NewGeminiClient(GeminiConfig{
				Name:   p.Name,
				APIKey: p.APIKey,
				Model:  p.Model,
			}))
		}
	}
	providers = append(providers, NewStatic())

	bs := DefaultBreakerSettings()
	if b := cfg.Breaker; b.MinRequests > 0 {
		bs = BreakerSettings{
			MaxRequests:  b.MaxRequests,
			Interval:     b.Interval.Duration(),
			Timeout:      b.Timeout.Duration(),
			MinRequests:  b.MinRequests,
			FailureRatio: b.FailureRatio,
		}
	}
	opts = append([]FallbackOption{WithTimeout(cfg.Timeout.Duration())}, opts...)
	return NewFallback(providers, bs, opts...)
}
