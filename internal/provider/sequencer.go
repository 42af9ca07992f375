// Package provider implements the ordered fallback over external text
// providers shared by the chat and news surfaces.
package provider

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/comigor/xylogen-go/internal/logger"
	"github.com/comigor/xylogen-go/internal/metrics"
)

// Status classifies the outcome of a full sequence run.
type Status string

const (
	StatusSuccess Status = "success"
	// StatusFallback marks static content such as the news catalog. Run
	// never reports it.
	StatusFallback Status = "fallback"
	StatusNoKeys   Status = "no_keys"
	StatusError    Status = "error"
)

// DefaultTimeout bounds one attempt when the sequencer is built with a zero timeout.
const DefaultTimeout = 12 * time.Second

// ErrEmptyResult is returned by Invoke implementations that got a 2xx
// response without usable content.
var ErrEmptyResult = errors.New("provider returned an empty result")

// Provider describes one upstream service in the fallback order.
type Provider[P, R any] struct {
	Name       string
	Label      string
	Env        string
	Configured bool
	Invoke     func(ctx context.Context, payload P) (R, error)
}

// Descriptor is the credential-free view of a provider used for diagnostics.
type Descriptor struct {
	Name       string `json:"name"`
	Label      string `json:"label"`
	Env        string `json:"env"`
	Configured bool   `json:"configured"`
}

// Attempt records one network attempt.
type Attempt struct {
	Provider string
	Err      error
	Duration time.Duration
}

// Outcome is the result of Run.
type Outcome[R any] struct {
	Result     R
	Name       string
	Label      string
	Attempts   []Attempt
	Configured int
	OK         bool
}

// Status derives the response status. Any winning provider is a success;
// only exhaustion yields no_keys or error.
func (o Outcome[R]) Status() Status {
	switch {
	case o.Configured == 0:
		return StatusNoKeys
	case !o.OK:
		return StatusError
	default:
		return StatusSuccess
	}
}

// Sequencer tries providers in fixed order and returns the first success.
// It keeps no state between runs.
type Sequencer[P, R any] struct {
	providers []Provider[P, R]
	timeout   time.Duration
	log       *slog.Logger
}

// NewSequencer builds a sequencer over providers in priority order.
func NewSequencer[P, R any](timeout time.Duration, providers ...Provider[P, R]) *Sequencer[P, R] {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Sequencer[P, R]{
		providers: providers,
		timeout:   timeout,
		log:       logger.Component("provider"),
	}
}

// Descriptors lists every provider in order.
func (s *Sequencer[P, R]) Descriptors() []Descriptor {
	out := make([]Descriptor, len(s.providers))
	for i, p := range s.providers {
		out[i] = Descriptor{Name: p.Name, Label: p.Label, Env: p.Env, Configured: p.Configured}
	}
	return out
}

// Run attempts each configured provider once, in order, and stops at the
// first success. Failures are logged and never returned.
func (s *Sequencer[P, R]) Run(ctx context.Context, payload P) Outcome[R] {
	var out Outcome[R]

	for _, p := range s.providers {
		if !p.Configured {
			s.log.Debug("provider skipped, no credential", "provider", p.Name)
			metrics.ProviderAttempts.WithLabelValues(p.Name, metrics.OutcomeSkipped).Inc()
			continue
		}
		out.Configured++

		result, attempt := s.attempt(ctx, p, payload)
		out.Attempts = append(out.Attempts, attempt)
		if attempt.Err != nil {
			continue
		}

		out.Result = result
		out.Name = p.Name
		out.Label = p.Label
		out.OK = true
		return out
	}

	if out.Configured == 0 {
		s.log.Warn("no provider configured")
	} else {
		s.log.Error("all configured providers failed", "attempts", len(out.Attempts))
	}
	return out
}

// ProbeResult reports one provider's connectivity.
type ProbeResult struct {
	Descriptor
	OK       bool          `json:"ok"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration_ns"`
}

// Probe attempts every configured provider independently, ignoring order.
func (s *Sequencer[P, R]) Probe(ctx context.Context, payload P) []ProbeResult {
	results := make([]ProbeResult, 0, len(s.providers))
	for _, p := range s.providers {
		res := ProbeResult{Descriptor: Descriptor{Name: p.Name, Label: p.Label, Env: p.Env, Configured: p.Configured}}
		if p.Configured {
			_, attempt := s.attempt(ctx, p, payload)
			res.OK = attempt.Err == nil
			res.Duration = attempt.Duration
			if attempt.Err != nil {
				res.Error = attempt.Err.Error()
			}
		}
		results = append(results, res)
	}
	return results
}

func (s *Sequencer[P, R]) attempt(ctx context.Context, p Provider[P, R], payload P) (R, Attempt) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	result, err := p.Invoke(ctx, payload)
	elapsed := time.Since(start)
	metrics.ProviderLatency.WithLabelValues(p.Name).Observe(elapsed.Seconds())

	if err != nil {
		s.log.Warn("provider attempt failed", "provider", p.Name, "duration", elapsed, "error", err)
		metrics.ProviderAttempts.WithLabelValues(p.Name, metrics.OutcomeFailure).Inc()
		var zero R
		return zero, Attempt{Provider: p.Name, Err: err, Duration: elapsed}
	}

	s.log.Info("provider attempt succeeded", "provider", p.Name, "duration", elapsed)
	metrics.ProviderAttempts.WithLabelValues(p.Name, metrics.OutcomeSuccess).Inc()
	return result, Attempt{Provider: p.Name, Duration: elapsed}
}
