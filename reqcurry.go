// Package reqcurry builds reusable GET-and-decode request functions by
// staged partial application: bind a base address, derive any number of
// endpoint values from it, and trigger the actual retrieval only when a
// consumer for the decoded payload is supplied.
package reqcurry

import (
	"time"

	"github.com/sirupsen/logrus"
)

type (
	// Consumer receives the decoded payload of a successful request.
	// It is never called when the request fails.
	Consumer[T any] func(T)

	// Source is a request factory bound to a base address. Deriving
	// endpoints never mutates it, so one Source can back any number of
	// endpoints.
	Source[T any] struct {
		base string
		cfg  config
	}

	// Endpoint is a Source with its path suffix supplied. Invoking it
	// never mutates it, so one Endpoint can be invoked any number of
	// times.
	Endpoint[T any] struct {
		locator string
		cfg     config
	}

	config struct {
		transport Transport
		timeout   time.Duration
		onFailure func(Failure)
	}

	// Option configures a Source at construction time.
	Option func(*config)
)

var log = logrus.WithField("module", "reqcurry")

const defaultTimeout = 30 * time.Second

// WithTransport replaces the default net/http transport.
func WithTransport(t Transport) Option {
	return func(cfg *config) {
		cfg.transport = t
	}
}

// WithTimeout sets the timeout of the default transport. It has no
// effect when WithTransport is also given.
func WithTimeout(d time.Duration) Option {
	return func(cfg *config) {
		cfg.timeout = d
	}
}

// WithFailureHandler replaces the default failure handler, which logs
// the failure and drops it.
func WithFailureHandler(fn func(Failure)) Option {
	return func(cfg *config) {
		cfg.onFailure = fn
	}
}

// New returns a Source bound to base.
func New[T any](base string, opts ...Option) Source[T] {
	cfg := config{
		timeout:   defaultTimeout,
		onFailure: logFailure,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.transport == nil {
		cfg.transport = HTTPTransport(cfg.timeout)
	}
	return Source[T]{base: base, cfg: cfg}
}

// Endpoint derives a request value for base+suffix. The locator is the
// exact concatenation of the two fragments, no separator handling.
func (s Source[T]) Endpoint(suffix string) Endpoint[T] {
	return Endpoint[T]{locator: s.base + suffix, cfg: s.cfg}
}

// Locator returns the fully resolved address the endpoint fetches.
func (e Endpoint[T]) Locator() string {
	return e.locator
}
