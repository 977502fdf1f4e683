// Package executor implements the pipeline that turns a transaction into a
// final outcome. A transaction goes through the stages
//
//	built -> nonce resolved -> signed -> submitted -> finalized | failed
//
// The nonce is read from the access key of the signer, the transaction is
// completed and validated against the network, signed with the next nonce and
// submitted. Only the submission is retried, and only when the failure is
// transient.
package executor

import (
	"fmt"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"go.dedis.ch/nearapi"
	"go.dedis.ch/nearapi/core/relayer"
	"go.dedis.ch/nearapi/core/signer"
	"go.dedis.ch/nearapi/core/txn"
	"go.dedis.ch/nearapi/internal/retry"
	"go.dedis.ch/nearapi/serde"
	"go.dedis.ch/nearapi/serde/json"
	"golang.org/x/xerrors"
)

const (
	// DefaultRetries is the number of submissions after the first one.
	DefaultRetries = 5
	// DefaultInitialSleep is the delay before the first resubmission.
	DefaultInitialSleep = time.Second
	// DefaultTxTTL is the number of blocks a delegate action stays valid.
	DefaultTxTTL = 1000
)

var (
	// ErrSigner is returned when the signer cannot provide a key or a
	// signature.
	ErrSigner = xerrors.New("signer failed")
	// ErrFetchNonce is returned when the nonce of the access key cannot be
	// read.
	ErrFetchNonce = signer.ErrFetchNonce
	// ErrValidation is returned when the transaction is not valid for the
	// network.
	ErrValidation = txn.ErrValidation
	// ErrEdit is returned when the transaction cannot be completed with the
	// state of the network.
	ErrEdit = xerrors.New("couldn't edit transaction")
	// ErrSubmit is returned when the transaction cannot be prepared for the
	// submission.
	ErrSubmit = xerrors.New("couldn't submit transaction")
)

var (
	promAttempts = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "nearapi_executor_attempts_total",
		Help: "total number of transaction submissions",
	})

	promOutcomes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "nearapi_executor_outcomes_total",
		Help: "total number of executions by result",
	}, []string{"result"})
)

func init() {
	nearapi.PromCollectors = append(nearapi.PromCollectors, promAttempts, promOutcomes)
}

// Stage is a step of the execution of a transaction.
type Stage string

const (
	// StageBuilt is the stage of a transaction that has only its actions.
	StageBuilt Stage = "built"
	// StageNonceResolved is the stage of a transaction whose nonce and block
	// hash are known.
	StageNonceResolved Stage = "nonce_resolved"
	// StageSigned is the stage of a signed transaction.
	StageSigned Stage = "signed"
	// StageSubmitted is the stage of a transaction sent to the network.
	StageSubmitted Stage = "submitted"
	// StageFinalized is the stage of a transaction that succeeded.
	StageFinalized Stage = "finalized"
	// StageFailed is the stage of a transaction that did not succeed.
	StageFailed Stage = "failed"
)

// WaitUntil is the execution status the node waits for before it answers a
// submission.
type WaitUntil string

const (
	// WaitNone returns as soon as the transaction is accepted.
	WaitNone WaitUntil = "NONE"
	// WaitIncluded waits for the inclusion in a block.
	WaitIncluded WaitUntil = "INCLUDED"
	// WaitExecutedOptimistic waits for the execution in an optimistic block.
	WaitExecutedOptimistic WaitUntil = "EXECUTED_OPTIMISTIC"
	// WaitIncludedFinal waits for the inclusion in a final block.
	WaitIncludedFinal WaitUntil = "INCLUDED_FINAL"
	// WaitExecuted waits for the execution in a final block.
	WaitExecuted WaitUntil = "EXECUTED"
	// WaitFinal waits for the final blocks of every receipt.
	WaitFinal WaitUntil = "FINAL"
)

// Error is an error of the execution before the submission. It matches its
// kind with errors.Is and unwraps to the cause.
type Error struct {
	kind  error
	stage Stage
	err   error
}

func newError(kind error, stage Stage, err error) *Error {
	return &Error{kind: kind, stage: stage, err: err}
}

// Stage returns the last stage the transaction reached.
func (e *Error) Stage() Stage {
	return e.stage
}

// Error implements error.
func (e *Error) Error() string {
	if xerrors.Is(e.err, e.kind) {
		return e.err.Error()
	}

	return fmt.Sprintf("%v: %v", e.kind, e.err)
}

// Is returns true when the target is the kind of the error.
func (e *Error) Is(target error) bool {
	return e.kind == target
}

// Unwrap returns the cause.
func (e *Error) Unwrap() error {
	return e.err
}

// RetriesExhaustedError is returned when the submission did not succeed. The
// last error is either the one of the last retry, or the definitive rejection
// of the network that stopped the retries.
type RetriesExhaustedError struct {
	Attempts int
	Last     error

	rejected bool
}

// Rejected returns true when the network refused the transaction, in which case
// it has not been retried.
func (e *RetriesExhaustedError) Rejected() bool {
	return e.rejected
}

// Error implements error.
func (e *RetriesExhaustedError) Error() string {
	if e.rejected {
		return fmt.Sprintf("transaction rejected after %d attempt(s): %v", e.Attempts, e.Last)
	}

	return fmt.Sprintf("retries exhausted after %d attempt(s): %v", e.Attempts, e.Last)
}

// Unwrap returns the last error.
func (e *RetriesExhaustedError) Unwrap() error {
	return e.Last
}

// Executor executes the transactions of a signer.
type Executor struct {
	signer       *signer.Signer
	retries      uint
	initialSleep time.Duration
	exponential  bool
	waitUntil    WaitUntil
	txTTL        uint64
	sleeper      retry.Sleeper
	tracer       opentracing.Tracer
	relayer      *relayer.Client
	context      serde.Context
	logger       zerolog.Logger
}

// Option is the type of option to set some fields of an executor.
type Option func(*Executor)

// WithRetries sets the number of submissions after the first one.
func WithRetries(n uint) Option {
	return func(e *Executor) {
		e.retries = n
	}
}

// WithInitialSleep sets the delay before the first resubmission.
func WithInitialSleep(d time.Duration) Option {
	return func(e *Executor) {
		e.initialSleep = d
	}
}

// WithExponentialBackoff doubles the delay after each resubmission when
// enabled, otherwise the delay is constant.
func WithExponentialBackoff(enabled bool) Option {
	return func(e *Executor) {
		e.exponential = enabled
	}
}

// WithWaitUntil sets the execution status to wait for.
func WithWaitUntil(w WaitUntil) Option {
	return func(e *Executor) {
		e.waitUntil = w
	}
}

// WithTxTTL sets the number of blocks after which a delegate action expires.
func WithTxTTL(blocks uint64) Option {
	return func(e *Executor) {
		e.txTTL = blocks
	}
}

// WithSleeper sets the function that waits between two submissions.
func WithSleeper(s retry.Sleeper) Option {
	return func(e *Executor) {
		e.sleeper = s
	}
}

// WithTracer sets the tracer of the executions.
func WithTracer(t opentracing.Tracer) Option {
	return func(e *Executor) {
		e.tracer = t
	}
}

// WithRelayer sets the client used to send the delegate actions.
func WithRelayer(r *relayer.Client) Option {
	return func(e *Executor) {
		e.relayer = r
	}
}

// New returns an executor for the signer.
func New(s *signer.Signer, opts ...Option) *Executor {
	e := &Executor{
		signer:       s,
		retries:      DefaultRetries,
		initialSleep: DefaultInitialSleep,
		exponential:  true,
		waitUntil:    WaitFinal,
		txTTL:        DefaultTxTTL,
		sleeper:      retry.Sleep,
		tracer:       opentracing.GlobalTracer(),
		context:      json.NewContext(),
		logger:       nearapi.Logger.With().Str("component", "executor").Logger(),
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.relayer == nil {
		e.relayer = relayer.NewClient()
	}

	return e
}

// Signer returns the signer of the executor.
func (e *Executor) Signer() *signer.Signer {
	return e.signer
}

func (e *Executor) policy(operation string) retry.Policy {
	notify := func(attempt int, err error, next time.Duration) {
		e.logger.Warn().
			Str("operation", operation).
			Int("attempt", attempt).
			Dur("next", next).
			Err(err).
			Msg("submission failed, retrying")
	}

	return retry.NewPolicy(e.retries, e.initialSleep, e.exponential,
		retry.WithSleeper(e.sleeper), retry.WithNotifier(notify))
}
