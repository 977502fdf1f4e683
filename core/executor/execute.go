package executor

import (
	"context"

	"github.com/opentracing/opentracing-go/ext"
	"github.com/rs/xid"
	"go.dedis.ch/nearapi/core/network"
	"go.dedis.ch/nearapi/core/primitives"
	"go.dedis.ch/nearapi/core/rpc"
	"go.dedis.ch/nearapi/core/signer"
	"go.dedis.ch/nearapi/core/txn"
	"go.dedis.ch/nearapi/core/types"
	"go.dedis.ch/nearapi/crypto"
	"go.dedis.ch/nearapi/internal/retry"
	"go.dedis.ch/nearapi/internal/tracing"
	"golang.org/x/xerrors"
)

// resolved is a transaction ready to be signed.
type resolved struct {
	tr    txn.PrepopulatedTransaction
	pk    crypto.PublicKey
	nonce signer.Nonce
}

// Execute signs the transaction and submits it to the network. It returns the
// outcome of the execution, which might be a failure reported by the network.
func (e *Executor) Execute(ctx context.Context, tr txn.Transactionable,
	net *network.Config) (types.ExecutionOutcome, error) {

	ctx = e.withOperation(ctx)

	span, ctx := tracing.StartSpan(ctx, e.tracer, "execute")
	defer span.Finish()

	signed, err := e.Presign(ctx, tr, net)
	if err != nil {
		ext.Error.Set(span, true)
		return types.ExecutionOutcome{}, err
	}

	return e.Submit(ctx, signed, net)
}

// Presign resolves the nonce of the transaction, completes and validates it
// with the state of the network and signs it with the next nonce. The
// transaction is not submitted.
func (e *Executor) Presign(ctx context.Context, tr txn.Transactionable,
	net *network.Config) (primitives.SignedTransaction, error) {

	ctx = e.withOperation(ctx)

	res, err := e.resolve(ctx, tr, net)
	if err != nil {
		return primitives.SignedTransaction{}, err
	}

	return e.sign(ctx, res.tr, res.pk, res.nonce.Nonce+1, res.nonce.BlockHash)
}

// PresignOffline signs the transaction with the key, the nonce and the block
// hash provided by the caller. It never reaches the network, so the
// transaction is neither completed nor validated.
func (e *Executor) PresignOffline(ctx context.Context, tr txn.Transactionable, pk crypto.PublicKey,
	nonce uint64, blockHash types.CryptoHash) (primitives.SignedTransaction, error) {

	ctx = e.withOperation(ctx)

	return e.sign(ctx, tr.Prepopulated(), pk, nonce, blockHash)
}

// Submit sends the signed transaction and waits for its outcome. A transient
// failure is retried according to the policy of the executor, any other
// failure stops the submission.
func (e *Executor) Submit(ctx context.Context, signed primitives.SignedTransaction,
	net *network.Config) (types.ExecutionOutcome, error) {

	ctx = e.withOperation(ctx)
	operation := tracing.OperationFrom(ctx)

	span, ctx := tracing.StartSpan(ctx, e.tracer, "submit")
	defer span.Finish()

	req, err := e.sendRequest(signed)
	if err != nil {
		promOutcomes.WithLabelValues("error").Inc()
		return types.ExecutionOutcome{}, newError(ErrSubmit, StageSigned, err)
	}

	transport, err := net.Transport()
	if err != nil {
		promOutcomes.WithLabelValues("error").Inc()
		return types.ExecutionOutcome{}, newError(ErrSubmit, StageSigned, err)
	}

	e.logger.Debug().
		Str("operation", operation).
		Str("stage", string(StageSubmitted)).
		Str("signer", signed.Transaction.SignerID).
		Uint64("nonce", signed.Transaction.Nonce).
		Msg("submitting transaction")

	attempt := func(ctx context.Context) (types.ExecutionOutcome, error) {
		promAttempts.Inc()

		resp, err := transport.Call(ctx, req)
		if err != nil {
			if rpc.IsTransient(err) {
				return types.ExecutionOutcome{}, err
			}

			return types.ExecutionOutcome{}, retry.Permanent(err)
		}

		if resp == nil {
			return types.ExecutionOutcome{}, retry.Permanent(xerrors.New("no response"))
		}

		var outcome types.ExecutionOutcome
		err = e.context.Unmarshal(resp.Payload, &outcome)
		if err != nil {
			return types.ExecutionOutcome{}, retry.Permanent(
				xerrors.Errorf("couldn't decode outcome: %v", err))
		}

		return outcome, nil
	}

	outcome, err := retry.Call(ctx, e.policy(operation), attempt)
	if err != nil {
		ext.Error.Set(span, true)

		var rerr *retry.Error
		if !xerrors.As(err, &rerr) {
			promOutcomes.WithLabelValues("interrupted").Inc()
			e.logFailure(operation, err)

			return types.ExecutionOutcome{}, err
		}

		exhausted := &RetriesExhaustedError{
			Attempts: rerr.Attempts,
			Last:     rerr.Err,
			rejected: rerr.Permanent,
		}

		if exhausted.rejected {
			promOutcomes.WithLabelValues("rejected").Inc()
		} else {
			promOutcomes.WithLabelValues("exhausted").Inc()
		}

		e.logFailure(operation, exhausted)

		return types.ExecutionOutcome{}, exhausted
	}

	if failure := outcome.Failure(); failure != nil {
		promOutcomes.WithLabelValues("failure").Inc()

		e.logger.Info().
			Str("operation", operation).
			Str("stage", string(StageFailed)).
			Stringer("hash", outcome.TransactionHash()).
			RawJSON("failure", failure).
			Msg("transaction failed")

		return outcome, nil
	}

	promOutcomes.WithLabelValues("success").Inc()

	e.logger.Info().
		Str("operation", operation).
		Str("stage", string(StageFinalized)).
		Stringer("hash", outcome.TransactionHash()).
		Msg("transaction executed")

	return outcome, nil
}

// resolve reads the key and the nonce of the signer and prepares the
// transaction with the network.
func (e *Executor) resolve(ctx context.Context, tr txn.Transactionable,
	net *network.Config) (resolved, error) {

	operation := tracing.OperationFrom(ctx)

	span, ctx := tracing.StartSpan(ctx, e.tracer, "resolve")
	defer span.Finish()

	fail := func(err error) (resolved, error) {
		ext.Error.Set(span, true)
		promOutcomes.WithLabelValues("error").Inc()
		e.logFailure(operation, err)

		return resolved{}, err
	}

	pk, err := e.signer.PublicKey(ctx)
	if err != nil {
		return fail(newError(ErrSigner, StageBuilt, err))
	}

	account := tr.Prepopulated().SignerID

	nonce, err := e.signer.FetchTxNonce(ctx, account, pk, net)
	if err != nil {
		// The error of the signer already matches ErrFetchNonce.
		return fail(err)
	}

	e.logger.Debug().
		Str("operation", operation).
		Str("stage", string(StageNonceResolved)).
		Str("signer", account.String()).
		Uint64("nonce", nonce.Nonce).
		Uint64("height", nonce.BlockHeight).
		Msg("nonce resolved")

	err = tr.EditWithNetwork(ctx, net)
	if err != nil {
		return fail(newError(ErrEdit, StageNonceResolved, err))
	}

	err = tr.ValidateWithNetwork(ctx, net)
	if err != nil {
		return fail(newError(ErrValidation, StageNonceResolved, err))
	}

	res := resolved{
		tr:    tr.Prepopulated(),
		pk:    pk,
		nonce: nonce,
	}

	return res, nil
}

func (e *Executor) sign(ctx context.Context, tr txn.PrepopulatedTransaction, pk crypto.PublicKey,
	nonce uint64, blockHash types.CryptoHash) (primitives.SignedTransaction, error) {

	operation := tracing.OperationFrom(ctx)

	span, ctx := tracing.StartSpan(ctx, e.tracer, "sign")
	defer span.Finish()

	signed, err := e.signer.Sign(ctx, tr, pk, nonce, blockHash)
	if err != nil {
		ext.Error.Set(span, true)
		promOutcomes.WithLabelValues("error").Inc()

		err = newError(ErrSigner, StageNonceResolved, err)
		e.logFailure(operation, err)

		return primitives.SignedTransaction{}, err
	}

	e.logger.Debug().
		Str("operation", operation).
		Str("stage", string(StageSigned)).
		Uint64("nonce", nonce).
		Msg("transaction signed")

	return signed, nil
}

// sendRequest returns the request to submit the transaction. The parameters
// are the JSON message of the signed transaction with the status to wait for.
func (e *Executor) sendRequest(signed primitives.SignedTransaction) (rpc.Request, error) {
	data, err := signed.Serialize(e.context)
	if err != nil {
		return rpc.Request{}, err
	}

	params := make(map[string]interface{})
	err = e.context.Unmarshal(data, &params)
	if err != nil {
		return rpc.Request{}, xerrors.Errorf("couldn't read message: %v", err)
	}

	params["wait_until"] = string(e.waitUntil)

	req := rpc.Request{
		Method: rpc.MethodSendTx,
		Kind:   rpc.KindTransaction,
		Params: params,
	}

	return req, nil
}

// withOperation tags the context with a new operation identifier unless it
// already has one.
func (e *Executor) withOperation(ctx context.Context) context.Context {
	if tracing.OperationFrom(ctx) != tracing.UndefinedOperation {
		return ctx
	}

	return tracing.WithOperation(ctx, xid.New().String())
}

func (e *Executor) logFailure(operation string, err error) {
	e.logger.Warn().
		Str("operation", operation).
		Str("stage", string(StageFailed)).
		Err(err).
		Msg("execution failed")
}
