// Package retry implements a combinator that runs an operation until it
// succeeds, fails permanently or exhausts its retries. The delays between the
// attempts follow a backoff schedule that is either constant or doubles after
// each retry.
package retry

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/cenkalti/backoff/v5"
	"golang.org/x/xerrors"
)

// Operation is an attempt. An error wrapped with Permanent stops the loop.
type Operation[T any] func(ctx context.Context) (T, error)

// Sleeper waits for the duration or until the context is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Notifier is called after a failed attempt that will be retried.
type Notifier func(attempt int, err error, next time.Duration)

// Policy defines how many times and how often an operation is retried.
type Policy struct {
	// Retries is the number of attempts after the first one.
	Retries uint
	// InitialSleep is the delay before the first retry.
	InitialSleep time.Duration
	// Exponential doubles the delay after each retry when true.
	Exponential bool

	sleep  Sleeper
	notify Notifier
}

// Option is the type of options to customize a policy.
type Option func(*Policy)

// WithSleeper is an option to replace the function that waits between two
// attempts.
func WithSleeper(s Sleeper) Option {
	return func(p *Policy) {
		p.sleep = s
	}
}

// WithNotifier is an option to be notified of the failed attempts.
func WithNotifier(n Notifier) Option {
	return func(p *Policy) {
		p.notify = n
	}
}

// NewPolicy returns a policy with the number of retries and the initial
// delay.
func NewPolicy(retries uint, initial time.Duration, exponential bool, opts ...Option) Policy {
	p := Policy{
		Retries:      retries,
		InitialSleep: initial,
		Exponential:  exponential,
		sleep:        Sleep,
	}

	for _, opt := range opts {
		opt(&p)
	}

	return p
}

// Permanent wraps the error so that the operation is not retried.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// Error is returned when the operation did not succeed.
type Error struct {
	Attempts int
	// Permanent is true when the last attempt failed with a permanent error.
	Permanent bool
	Err       error
}

// Error implements error.
func (e *Error) Error() string {
	if e.Permanent {
		return fmt.Sprintf("attempt #%d failed: %v", e.Attempts, e.Err)
	}

	return fmt.Sprintf("gave up after %d attempts: %v", e.Attempts, e.Err)
}

// Unwrap returns the error of the last attempt.
func (e *Error) Unwrap() error {
	return e.Err
}

// Call runs the operation at most Retries+1 times. It returns the result of
// the first successful attempt, or an *Error with the error of the last one.
// It stops early if the context is done while waiting.
func Call[T any](ctx context.Context, p Policy, op Operation[T]) (T, error) {
	schedule := p.schedule()
	schedule.Reset()

	sleep := p.sleep
	if sleep == nil {
		sleep = Sleep
	}

	for attempt := 1; ; attempt++ {
		res, err := op(ctx)
		if err == nil {
			return res, nil
		}

		var permanent *backoff.PermanentError
		if xerrors.As(err, &permanent) {
			return res, &Error{Attempts: attempt, Permanent: true, Err: permanent.Unwrap()}
		}

		if uint(attempt) > p.Retries {
			return res, &Error{Attempts: attempt, Err: err}
		}

		next := schedule.NextBackOff()

		if p.notify != nil {
			p.notify(attempt, err, next)
		}

		serr := sleep(ctx, next)
		if serr != nil {
			return res, xerrors.Errorf("interrupted after %d attempts: %w", attempt, serr)
		}
	}
}

func (p Policy) schedule() backoff.BackOff {
	if !p.Exponential {
		return backoff.NewConstantBackOff(p.InitialSleep)
	}

	return &backoff.ExponentialBackOff{
		InitialInterval:     p.InitialSleep,
		RandomizationFactor: 0,
		Multiplier:          2,
		MaxInterval:         time.Duration(math.MaxInt64),
	}
}

// Sleep waits for the duration or until the context is done.
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
