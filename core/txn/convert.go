package txn

import (
	"go.dedis.ch/nearapi/core/action"
	"go.dedis.ch/nearapi/core/primitives"
	"go.dedis.ch/nearapi/core/types"
	"go.dedis.ch/nearapi/crypto"
	"golang.org/x/xerrors"
)

// SignedTransaction is a transaction addressed to a block with the signature
// of its signer.
type SignedTransaction struct {
	PrepopulatedTransaction

	PublicKey crypto.PublicKey
	Nonce     uint64
	BlockHash types.CryptoHash
	Signature crypto.Signature
}

// ToNative returns the native transaction of the prepopulated one, signed by
// the key with the nonce and addressed to the block.
func ToNative(tr PrepopulatedTransaction, pk crypto.PublicKey, nonce uint64,
	blockHash types.CryptoHash) (primitives.Transaction, error) {

	if pk == nil {
		return primitives.Transaction{}, xerrors.New("missing public key")
	}

	if len(tr.Actions) == 0 {
		return primitives.Transaction{}, ErrEmptyActions
	}

	actions, err := action.AllToNative(tr.Actions)
	if err != nil {
		return primitives.Transaction{}, xerrors.Errorf("couldn't convert actions: %v", err)
	}

	native := primitives.Transaction{
		SignerID:   tr.SignerID.String(),
		PublicKey:  primitives.NewPublicKey(pk),
		Nonce:      nonce,
		ReceiverID: tr.ReceiverID.String(),
		BlockHash:  blockHash,
		Actions:    actions,
	}

	return native, nil
}

// ToNative returns the native signed transaction.
func (stx SignedTransaction) ToNative() (primitives.SignedTransaction, error) {
	if stx.Signature == nil {
		return primitives.SignedTransaction{}, xerrors.New("missing signature")
	}

	native, err := ToNative(stx.PrepopulatedTransaction, stx.PublicKey, stx.Nonce, stx.BlockHash)
	if err != nil {
		return primitives.SignedTransaction{}, err
	}

	return primitives.SignedTransaction{
		Transaction: native,
		Signature:   primitives.NewSignature(stx.Signature),
	}, nil
}

// FromSigned returns the signed transaction of the native one.
func FromSigned(native primitives.SignedTransaction) (SignedTransaction, error) {
	actions, err := action.AllFromNative(native.Transaction.Actions)
	if err != nil {
		return SignedTransaction{}, xerrors.Errorf("couldn't convert actions: %v", err)
	}

	pk, err := native.Transaction.PublicKey.ToCrypto()
	if err != nil {
		return SignedTransaction{}, xerrors.Errorf("public key: %v", err)
	}

	sig, err := native.Signature.ToCrypto()
	if err != nil {
		return SignedTransaction{}, xerrors.Errorf("signature: %v", err)
	}

	stx := SignedTransaction{
		PrepopulatedTransaction: PrepopulatedTransaction{
			SignerID:   types.AccountID(native.Transaction.SignerID),
			ReceiverID: types.AccountID(native.Transaction.ReceiverID),
			Actions:    actions,
		},
		PublicKey: pk,
		Nonce:     native.Transaction.Nonce,
		BlockHash: native.Transaction.BlockHash,
		Signature: sig,
	}

	return stx, nil
}
