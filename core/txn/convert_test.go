package txn

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/nearapi/core/action"
	"go.dedis.ch/nearapi/core/primitives"
	"go.dedis.ch/nearapi/core/types"
	"go.dedis.ch/nearapi/crypto/ed25519"
	"go.dedis.ch/nearapi/internal/testing/fake"
)

func TestToNative(t *testing.T) {
	signer := ed25519.NewSigner()

	tr, err := Construct("alice.near", "bob.near").
		AddAction(action.NewFunctionCall("ping", nil, types.TeraGas, types.NearToken{})).
		Build()
	require.NoError(t, err)

	native, err := ToNative(tr, signer.GetPublicKey(), 42, types.CryptoHash{7})
	require.NoError(t, err)
	require.Equal(t, "alice.near", native.SignerID)
	require.Equal(t, "bob.near", native.ReceiverID)
	require.Equal(t, uint64(42), native.Nonce)
	require.Equal(t, byte(7), native.BlockHash[0])
	require.Len(t, native.Actions, 1)
	require.Equal(t, primitives.TagFunctionCall, native.Actions[0].Tag)

	_, err = ToNative(tr, nil, 42, types.CryptoHash{})
	require.EqualError(t, err, "missing public key")

	_, err = ToNative(PrepopulatedTransaction{}, signer.GetPublicKey(), 1, types.CryptoHash{})
	require.Equal(t, ErrEmptyActions, err)

	tr.Actions = []action.Action{action.Stake{}}
	_, err = ToNative(tr, signer.GetPublicKey(), 1, types.CryptoHash{})
	require.EqualError(t, err, "couldn't convert actions: action #0: stake: missing public key")
}

func TestSignedTransaction_RoundTrip(t *testing.T) {
	signer := ed25519.NewSigner()
	pk, err := ed25519.NewPublicKey(signer.GetPublicKey().Bytes())
	require.NoError(t, err)

	tr, err := Construct("alice.near", "bob.near").
		AddAction(action.Transfer{Deposit: types.NearFromMilli(3)}).
		Build()
	require.NoError(t, err)

	native, err := ToNative(tr, pk, 5, types.CryptoHash{1})
	require.NoError(t, err)

	hash, err := native.Hash()
	require.NoError(t, err)

	sig, err := signer.Sign(hash[:])
	require.NoError(t, err)

	stx := SignedTransaction{
		PrepopulatedTransaction: tr,
		PublicKey:               pk,
		Nonce:                   5,
		BlockHash:               types.CryptoHash{1},
		Signature:               sig,
	}

	signed, err := stx.ToNative()
	require.NoError(t, err)

	data, err := signed.MarshalBinary()
	require.NoError(t, err)

	var decoded primitives.SignedTransaction
	require.NoError(t, decoded.UnmarshalBinary(data))

	back, err := FromSigned(decoded)
	require.NoError(t, err)
	require.Equal(t, stx.PrepopulatedTransaction, back.PrepopulatedTransaction)
	require.True(t, pk.Equal(back.PublicKey))
	require.Equal(t, sig.Bytes(), back.Signature.Bytes())
	require.Equal(t, uint64(5), back.Nonce)
	require.NoError(t, back.PublicKey.Verify(hash[:], back.Signature))

	stx.Signature = nil
	_, err = stx.ToNative()
	require.EqualError(t, err, "missing signature")
}

func TestFromSigned_Errors(t *testing.T) {
	native := primitives.SignedTransaction{
		Transaction: primitives.Transaction{
			PublicKey: primitives.NewPublicKey(fake.NewPublicKey(0)),
			Actions:   []primitives.Action{{Tag: primitives.ActionTag(42)}},
		},
	}

	_, err := FromSigned(native)
	require.Error(t, err)
	require.Contains(t, err.Error(), "couldn't convert actions: ")

	native.Transaction.Actions = nil
	native.Transaction.PublicKey = primitives.PublicKey{Type: 9}
	_, err = FromSigned(native)
	require.Error(t, err)
	require.Contains(t, err.Error(), "public key: ")
}
