package executor

import (
	"context"

	"github.com/opentracing/opentracing-go/ext"
	"go.dedis.ch/nearapi/core/action"
	"go.dedis.ch/nearapi/core/network"
	"go.dedis.ch/nearapi/core/primitives"
	"go.dedis.ch/nearapi/core/relayer"
	"go.dedis.ch/nearapi/core/txn"
	"go.dedis.ch/nearapi/internal/tracing"
)

// PresignMeta resolves the nonce of the transaction and signs its actions as a
// delegate action that expires after the time to live of the executor. It
// fails before any request if one of the actions is itself a delegate action.
func (e *Executor) PresignMeta(ctx context.Context, tr txn.Transactionable,
	net *network.Config) (primitives.SignedDelegateAction, error) {

	ctx = e.withOperation(ctx)
	operation := tracing.OperationFrom(ctx)

	for _, a := range tr.Prepopulated().Actions {
		_, err := action.NewNonDelegateAction(a)
		if err != nil {
			promOutcomes.WithLabelValues("error").Inc()
			return primitives.SignedDelegateAction{}, newError(ErrValidation, StageBuilt, err)
		}
	}

	res, err := e.resolve(ctx, tr, net)
	if err != nil {
		return primitives.SignedDelegateAction{}, err
	}

	span, ctx := tracing.StartSpan(ctx, e.tracer, "sign_delegate")
	defer span.Finish()

	maxHeight := res.nonce.BlockHeight + e.txTTL

	signed, err := e.signer.SignDelegate(ctx, res.tr, res.pk, res.nonce.Nonce+1, maxHeight)
	if err != nil {
		ext.Error.Set(span, true)
		promOutcomes.WithLabelValues("error").Inc()

		err = newError(ErrSigner, StageNonceResolved, err)
		e.logFailure(operation, err)

		return primitives.SignedDelegateAction{}, err
	}

	e.logger.Debug().
		Str("operation", operation).
		Str("stage", string(StageSigned)).
		Uint64("nonce", res.nonce.Nonce+1).
		Uint64("max_block_height", maxHeight).
		Msg("delegate action signed")

	return signed, nil
}

// ExecuteMeta signs the transaction as a delegate action and sends it to the
// relayer of the network. The relayer is reached once, without retry.
func (e *Executor) ExecuteMeta(ctx context.Context, tr txn.Transactionable,
	net *network.Config) (*relayer.Response, error) {

	ctx = e.withOperation(ctx)
	operation := tracing.OperationFrom(ctx)

	span, ctx := tracing.StartSpan(ctx, e.tracer, "execute_meta")
	defer span.Finish()

	// Nothing is signed when the network has no relayer.
	if net == nil || net.RelayerURL == "" {
		ext.Error.Set(span, true)
		return nil, relayer.ErrRelayerNotDefined
	}

	signed, err := e.PresignMeta(ctx, tr, net)
	if err != nil {
		ext.Error.Set(span, true)
		return nil, err
	}

	resp, err := e.relayer.Send(ctx, net, signed)
	if err != nil {
		ext.Error.Set(span, true)
		promOutcomes.WithLabelValues("rejected").Inc()
		e.logFailure(operation, err)

		return nil, err
	}

	promOutcomes.WithLabelValues("relayed").Inc()

	e.logger.Info().
		Str("operation", operation).
		Str("stage", string(StageSubmitted)).
		Int("status", resp.StatusCode).
		Msg("delegate action relayed")

	return resp, nil
}
