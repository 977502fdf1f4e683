package signer

import (
	"context"

	"go.dedis.ch/nearapi/core/primitives"
	"go.dedis.ch/nearapi/crypto"
	"golang.org/x/xerrors"
)

// SecretKeyBackend signs with a secret key in memory.
//
// - implements signer.Backend
type SecretKeyBackend struct {
	signer crypto.Signer
}

// NewSecretKey returns a backend signing with the secret key of the signer.
func NewSecretKey(signer crypto.Signer) SecretKeyBackend {
	return SecretKeyBackend{signer: signer}
}

func (SecretKeyBackend) backend() {}

// PublicKey implements signer.Backend.
func (b SecretKeyBackend) PublicKey(context.Context) (crypto.PublicKey, error) {
	if b.signer == nil {
		return nil, newError(ErrPublicKeyNotAvailable, xerrors.New("missing secret key"))
	}

	return b.signer.GetPublicKey(), nil
}

// SignTransaction implements signer.Backend. It signs the hash of the
// transaction.
func (b SecretKeyBackend) SignTransaction(_ context.Context, pk crypto.PublicKey,
	tx primitives.Transaction) (crypto.Signature, error) {

	err := b.check(pk)
	if err != nil {
		return nil, err
	}

	hash, err := transactionHash(tx)
	if err != nil {
		return nil, err
	}

	return sign(b.signer, hash)
}

// SignDelegate implements signer.Backend. It signs the payload of the
// delegate action.
func (b SecretKeyBackend) SignDelegate(_ context.Context, pk crypto.PublicKey,
	da primitives.DelegateAction) (crypto.Signature, error) {

	err := b.check(pk)
	if err != nil {
		return nil, err
	}

	payload, err := delegatePayload(da)
	if err != nil {
		return nil, err
	}

	return sign(b.signer, payload)
}

func (b SecretKeyBackend) check(pk crypto.PublicKey) error {
	if b.signer == nil {
		return newError(ErrSecretKeyNotAvailable, xerrors.New("missing secret key"))
	}

	if pk == nil || !b.signer.GetPublicKey().Equal(pk) {
		return newError(ErrSecretKeyNotAvailable, xerrors.Errorf("unknown public key %v", pk))
	}

	return nil
}

func sign(signer crypto.Signer, msg []byte) (crypto.Signature, error) {
	sig, err := signer.Sign(msg)
	if err != nil {
		return nil, newError(ErrSecretKeyNotAvailable, xerrors.Errorf("couldn't sign: %v", err))
	}

	return sig, nil
}
