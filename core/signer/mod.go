// Package signer defines the authority that signs the transactions of an
// account. A signer wraps one backend out of a closed set: a secret key in
// memory, the keystore of the operating system or a hardware device.
package signer

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"go.dedis.ch/nearapi"
	"go.dedis.ch/nearapi/core/action"
	"go.dedis.ch/nearapi/core/network"
	"go.dedis.ch/nearapi/core/primitives"
	"go.dedis.ch/nearapi/core/query"
	"go.dedis.ch/nearapi/core/txn"
	"go.dedis.ch/nearapi/core/types"
	"go.dedis.ch/nearapi/crypto"
	"golang.org/x/xerrors"
)

var (
	// ErrPublicKeyNotAvailable is returned when the backend cannot provide a
	// public key.
	ErrPublicKeyNotAvailable = xerrors.New("public key is not available")
	// ErrSecretKeyNotAvailable is returned when the backend cannot sign for
	// the public key.
	ErrSecretKeyNotAvailable = xerrors.New("secret key is not available")
	// ErrFetchNonce is returned when the nonce of an access key cannot be
	// read from the network.
	ErrFetchNonce = xerrors.New("couldn't fetch nonce")
)

// Error is an error of a signer. It matches its kind with errors.Is and
// unwraps to the cause.
type Error struct {
	kind error
	err  error
}

func newError(kind error, err error) *Error {
	return &Error{kind: kind, err: err}
}

// Error implements error.
func (e *Error) Error() string {
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

// Backend is the source of keys and signatures of a signer. The set of
// backends is closed.
type Backend interface {
	// PublicKey returns the key the backend signs with by default.
	PublicKey(ctx context.Context) (crypto.PublicKey, error)

	// SignTransaction returns the signature of the transaction with the
	// secret key of the public key.
	SignTransaction(ctx context.Context, pk crypto.PublicKey, tx primitives.Transaction) (crypto.Signature, error)

	// SignDelegate returns the signature of the delegate action with the
	// secret key of the public key.
	SignDelegate(ctx context.Context, pk crypto.PublicKey, da primitives.DelegateAction) (crypto.Signature, error)

	backend()
}

// Signer signs the transactions of an account.
type Signer struct {
	backend Backend
	logger  zerolog.Logger
}

// New returns a signer using the backend.
func New(backend Backend) *Signer {
	return &Signer{
		backend: backend,
		logger:  nearapi.Logger.With().Str("component", "signer").Logger(),
	}
}

// Backend returns the backend of the signer.
func (s *Signer) Backend() Backend {
	return s.backend
}

// PublicKey returns the default public key of the backend.
func (s *Signer) PublicKey(ctx context.Context) (crypto.PublicKey, error) {
	pk, err := s.backend.PublicKey(ctx)
	if err != nil {
		return nil, err
	}

	return pk, nil
}

// Sign returns the transaction signed by the key with the nonce and addressed
// to the block.
func (s *Signer) Sign(ctx context.Context, tr txn.PrepopulatedTransaction, pk crypto.PublicKey,
	nonce uint64, blockHash types.CryptoHash) (primitives.SignedTransaction, error) {

	tx, err := txn.ToNative(tr, pk, nonce, blockHash)
	if err != nil {
		return primitives.SignedTransaction{}, xerrors.Errorf("couldn't create transaction: %w", err)
	}

	sig, err := s.backend.SignTransaction(ctx, pk, tx)
	if err != nil {
		return primitives.SignedTransaction{}, err
	}

	s.logger.Debug().
		Str("signer", tr.SignerID.String()).
		Stringer("key", pk).
		Uint64("nonce", nonce).
		Msg("transaction signed")

	signed := primitives.SignedTransaction{
		Transaction: tx,
		Signature:   primitives.NewSignature(sig),
	}

	return signed, nil
}

// SignDelegate returns the delegate action of the transaction signed by the
// key. It fails if the transaction already contains a delegate action.
func (s *Signer) SignDelegate(ctx context.Context, tr txn.PrepopulatedTransaction, pk crypto.PublicKey,
	nonce, maxBlockHeight uint64) (primitives.SignedDelegateAction, error) {

	da, err := action.NewDelegateAction(tr.SignerID, tr.ReceiverID, tr.Actions, nonce, maxBlockHeight, pk)
	if err != nil {
		return primitives.SignedDelegateAction{}, err
	}

	native, err := action.DelegateToNative(da)
	if err != nil {
		return primitives.SignedDelegateAction{}, xerrors.Errorf("couldn't create delegate action: %v", err)
	}

	sig, err := s.backend.SignDelegate(ctx, pk, native)
	if err != nil {
		return primitives.SignedDelegateAction{}, err
	}

	s.logger.Debug().
		Str("sender", tr.SignerID.String()).
		Uint64("max_block_height", maxBlockHeight).
		Msg("delegate action signed")

	signed := primitives.SignedDelegateAction{
		DelegateAction: native,
		Signature:      primitives.NewSignature(sig),
	}

	return signed, nil
}

// Nonce is the state of an access key at a block.
type Nonce struct {
	Nonce       uint64
	BlockHash   types.CryptoHash
	BlockHeight uint64
}

// FetchTxNonce returns the current nonce of the access key with the final
// block it was read from.
func (s *Signer) FetchTxNonce(ctx context.Context, account types.AccountID, pk crypto.PublicKey,
	net *network.Config) (Nonce, error) {

	builder := query.NewBuilder(
		query.ViewAccessKey{AccountID: account, PublicKey: pk},
		types.Final(),
		query.AccessKeyHandler(),
	)

	data, err := builder.Fetch(ctx, net)
	if err != nil {
		return Nonce{}, newError(ErrFetchNonce, err)
	}

	nonce := Nonce{
		Nonce:       data.Value.Nonce,
		BlockHash:   data.BlockHash,
		BlockHeight: data.BlockHeight,
	}

	return nonce, nil
}

func transactionHash(tx primitives.Transaction) ([]byte, error) {
	hash, err := tx.Hash()
	if err != nil {
		return nil, xerrors.Errorf("couldn't hash transaction: %v", err)
	}

	return hash[:], nil
}

func delegatePayload(da primitives.DelegateAction) ([]byte, error) {
	payload, err := da.SigningPayload()
	if err != nil {
		return nil, xerrors.Errorf("couldn't hash delegate action: %v", err)
	}

	return payload[:], nil
}
